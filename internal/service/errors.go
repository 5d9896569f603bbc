// Package service provides the business logic of medtrack: account
// management, medicine/schedule/dosage operations, and reporting.
// Services validate input, call the repositories, and translate
// repository errors into domain errors for the transport layer.
package service

import "errors"

// Validation errors.
var (
	ErrInvalidUsername = errors.New("invalid username: must be 3-64 characters")
	ErrInvalidEmail    = errors.New("invalid email format")
	ErrInvalidPassword = errors.New("invalid password: must be at least 8 characters")
	ErrInvalidName     = errors.New("name must not be empty")
	ErrInvalidDose     = errors.New("dose must be positive")
	ErrInvalidStock    = errors.New("stock must not be negative")
	ErrInvalidAmount   = errors.New("amount must be positive")
	ErrInvalidTime     = errors.New("time must be in HH:MM format")
	ErrInvalidWeekday  = errors.New("unknown weekday code")
)
