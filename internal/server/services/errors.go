package services

import (
	"errors"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/samber/oops"
)

// internalError tags an unexpected failure with code and context while
// keeping it classifiable as common.ErrorInternal.
func internalError(code string, err error, kv ...any) error {
	return oops.Code(code).With(kv...).Wrap(errors.Join(common.ErrorInternal, err))
}
