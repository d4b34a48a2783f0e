package models

import "time"

// Session is the single active refresh session of an identity.
type Session struct {
	ID           string    `json:"id"`
	Owner        string    `json:"owner"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return s.ExpiresAt.Before(now)
}
