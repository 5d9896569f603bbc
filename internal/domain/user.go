// Package domain contains the core business entities for medtrack.
// These are pure Go structs with no external behavior, representing
// the fundamental concepts of the medicine-tracking system.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account.
//
// Usernames are display identities and are deliberately not unique:
// several accounts may share one username and are told apart at login
// by which password verifies. Email is the unique identity.
type User struct {
	// ID is the stable identifier for the user. All owned records are
	// keyed by this id, never by the username, so renames are cheap.
	ID string `json:"id"`

	// Username is the login name. Not unique.
	Username string `json:"username"`

	// Email is the unique email address, compared case-insensitively.
	Email string `json:"email"`

	// PasswordHash is the bcrypt hash of the user's password.
	// Never exposed in API responses.
	PasswordHash string `json:"-"`

	// FirstName and LastName are optional profile fields.
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`

	// IsActive indicates whether the account has been activated.
	// Accounts start inactive until the activation token is used.
	// Activation does not gate login; it is surfaced so clients can
	// prompt for the activation step.
	IsActive bool `json:"is_active"`

	// IsAdmin indicates administrative privileges.
	IsAdmin bool `json:"is_admin"`

	// CreatedAt is the timestamp when the user registered.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is the timestamp of the last profile change.
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUser creates a new, not yet activated User.
func NewUser(username, email, passwordHash string) *User {
	now := time.Now().UTC()
	return &User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		IsActive:     false,
		IsAdmin:      false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
