package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDuplicateError_MatchesSentinel(t *testing.T) {
	err := fmt.Errorf("register: %w", NewDuplicateError("phone"))

	assert.ErrorIs(t, err, ErrorDuplicate)
	assert.NotErrorIs(t, err, ErrorNotFound)

	var dup *DuplicateError
	if assert.True(t, errors.As(err, &dup)) {
		assert.Equal(t, "phone", dup.Field)
	}
	assert.Equal(t, "register: phone already exists", err.Error())
}

func TestValidationError_MatchesSentinel(t *testing.T) {
	err := &ValidationError{Field: "login_id", Reason: "must not be blank"}
	assert.ErrorIs(t, err, ErrorValidation)
	assert.Equal(t, "login_id: must not be blank", err.Error())
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, KindInternal},
		{"not found", fmt.Errorf("lookup: %w", ErrorNotFound), KindNotFound},
		{"unauthorized", ErrorUnauthorized, KindUnauthorized},
		{"invalid token", ErrInvalidToken, KindUnauthorized},
		{"expired token", ErrTokenExpired, KindUnauthorized},
		{"forbidden", ErrorForbidden, KindForbidden},
		{"duplicate", NewDuplicateError("email"), KindDuplicate},
		{"validation", &ValidationError{Field: "x", Reason: "y"}, KindValidation},
		{"internal wins over cause", errors.Join(ErrorInternal, ErrorNotFound), KindInternal},
		{"unknown", errors.New("boom"), KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "not_found", KindNotFound.String())
	assert.Equal(t, "internal", Kind(99).String())
}
