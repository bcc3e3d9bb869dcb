package domain

import (
	"errors"
	"time"
)

var (
	// ErrUserAlreadyExists is returned when trying to create a user with an existing email.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrUserNotFound is returned when looking up a non-existent user.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials is returned when the email/password combination is incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// User represents a registered account as persisted by the credential store.
// The JSON layout is the on-disk record format.
type User struct {
	ID           string    `json:"id"`        // Opaque unique identifier
	Name         string    `json:"name"`      // Display name
	Email        string    `json:"email"`     // Lowercased, unique
	PasswordHash string    `json:"password"`  // bcrypt hash
	CreatedAt    time.Time `json:"createdAt"` // Account creation time
}

// PublicUser is the projection of a User that may leave the server.
type PublicUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Public returns the client-facing projection of the user.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}
}

// SignupRequest is the body of a signup request.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body of a login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
