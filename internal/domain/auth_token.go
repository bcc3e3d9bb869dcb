package domain

import "errors"

// ErrWeakSigningSecret is returned when the configured signing secret is too short.
var ErrWeakSigningSecret = errors.New("signing secret too short")

// SessionClaims is the identity carried by a session token.
type SessionClaims struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// User returns the claims as a public user projection.
func (c SessionClaims) User() PublicUser {
	return PublicUser(c)
}

// AuthResponse is the body returned by successful signup and login requests.
type AuthResponse struct {
	Success bool        `json:"success"`
	User    *PublicUser `json:"user,omitempty"`
}
