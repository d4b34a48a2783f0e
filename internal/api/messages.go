package api

import "time"

type Empty struct{}

// Identity is the public view of an account. It never carries the
// password hash.
type Identity struct {
	OwnerKey    string    `json:"owner_key"`
	LoginID     string    `json:"login_id"`
	DisplayName string    `json:"display_name"`
	Gender      string    `json:"gender"`
	Phone       string    `json:"phone"`
	Email       string    `json:"email,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type RegisterRequest struct {
	LoginID     string `json:"login_id"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
	Gender      string `json:"gender"`
	Phone       string `json:"phone"`
	Email       string `json:"email,omitempty"`
}

type LoginRequest struct {
	LoginID  string `json:"login_id"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	LoginID      string `json:"login_id"`
	DisplayName  string `json:"display_name"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RefreshResponse struct {
	AccessToken string `json:"access_token"`
}

type LogoutRequest struct {
	LoginID string `json:"login_id"`
}

type ListIdentitiesResponse struct {
	Identities []Identity `json:"identities"`
}

type GetIdentityRequest struct {
	OwnerKey string `json:"owner_key"`
}

// UpdateIdentityRequest replaces the mutable fields of an identity. An
// empty Email clears it.
type UpdateIdentityRequest struct {
	OwnerKey    string `json:"owner_key"`
	DisplayName string `json:"display_name"`
	Gender      string `json:"gender"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
}

type DeleteIdentityRequest struct {
	OwnerKey string `json:"owner_key"`
}
