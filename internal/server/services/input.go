package services

import (
	"strings"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// RegisterInput is what a caller supplies to create an identity.
type RegisterInput struct {
	LoginID     string
	Password    string
	DisplayName string
	Gender      string
	Phone       string
	Email       string
}

// validate rejects blank required fields and returns the input with a
// blank email turned into an absent one.
func (in RegisterInput) validate() (RegisterInput, error) {
	switch {
	case isBlank(in.LoginID):
		return in, blankField("login_id")
	case in.Password == "":
		return in, blankField("password")
	case isBlank(in.Phone):
		return in, blankField("phone")
	}
	if isBlank(in.Email) {
		in.Email = ""
	}
	return in, nil
}

func validateUpdate(upd models.IdentityUpdate) (models.IdentityUpdate, error) {
	if isBlank(upd.Phone) {
		return upd, blankField("phone")
	}
	if isBlank(upd.Email) {
		upd.Email = ""
	}
	return upd, nil
}

func isBlank(s string) bool { return strings.TrimSpace(s) == "" }

func blankField(field string) error {
	return &common.ValidationError{Field: field, Reason: "must not be blank"}
}
