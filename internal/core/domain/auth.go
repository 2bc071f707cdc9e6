package domain

import "time"

// AuthState is the current authentication state. An empty UserID means
// signed out.
type AuthState struct {
	UserID string
}

// SignedIn returns true if a user is signed in.
func (s AuthState) SignedIn() bool {
	return s.UserID != ""
}

// User is an account that owns a remote namespace.
type User struct {
	ID           string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}
