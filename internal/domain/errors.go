// Package domain contains the core business entities for medtrack.
package domain

import "errors"

// Domain errors - these represent business rule violations.
// They are distinct from infrastructure errors (store, network, etc.).

var (
	// ===========================================
	// User Errors
	// ===========================================

	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken indicates the email address is already registered
	// to another account. Email is the only uniqueness rule: usernames
	// may be shared between accounts.
	ErrEmailTaken = errors.New("email already in use")

	// ErrInvalidCredentials indicates authentication failed. It is
	// deliberately generic: callers must not be able to tell a wrong
	// username from a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ===========================================
	// Entity Errors
	// ===========================================

	// ErrMedicineNotFound indicates the requested medicine does not exist.
	ErrMedicineNotFound = errors.New("medicine not found")

	// ErrScheduleNotFound indicates the requested schedule does not exist.
	ErrScheduleNotFound = errors.New("schedule not found")

	// ErrDosageNotFound indicates the requested dosage record does not exist.
	ErrDosageNotFound = errors.New("dosage record not found")

	// ===========================================
	// Token Errors
	// ===========================================

	// ErrTokenNotFound indicates the token is absent, already used, or
	// expired. The three cases are indistinguishable on purpose.
	ErrTokenNotFound = errors.New("token not found or expired")
)
