// Package models holds the server-side domain types.
package models

import "time"

// Identity is a registered account as read from the credential store.
// Values are never modified in place; changes go through IdentityUpdate.
type Identity struct {
	OwnerKey     string
	LoginID      string
	PasswordHash string
	DisplayName  string
	Gender       string
	Phone        string
	Email        string // "" when absent
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewIdentity carries the fields needed to create an Identity.
// PasswordHash must already be hashed.
type NewIdentity struct {
	LoginID      string
	PasswordHash string
	DisplayName  string
	Gender       string
	Phone        string
	Email        string
}

// IdentityUpdate is the mutable subset of an Identity. An empty Email
// clears the stored one.
type IdentityUpdate struct {
	DisplayName string
	Gender      string
	Phone       string
	Email       string
}

// Profile is the public projection of an Identity.
type Profile struct {
	OwnerKey    string    `json:"owner_key"`
	LoginID     string    `json:"login_id"`
	DisplayName string    `json:"display_name"`
	Gender      string    `json:"gender"`
	Phone       string    `json:"phone"`
	Email       string    `json:"email,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (i *Identity) Profile() Profile {
	return Profile{
		OwnerKey:    i.OwnerKey,
		LoginID:     i.LoginID,
		DisplayName: i.DisplayName,
		Gender:      i.Gender,
		Phone:       i.Phone,
		Email:       i.Email,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}
