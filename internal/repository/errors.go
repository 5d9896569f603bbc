// Package repository maps domain entities onto the flat key-value
// store: key schema, JSON encoding, secondary indexes for identity
// lookup, single-use tokens, and optimistic-concurrency mutation of
// shared numeric state.
package repository

import (
	"errors"
	"fmt"
)

// Repository errors
var (
	// ErrNotFound indicates the requested entity was not found.
	// Terminal: a missing entity is never retried.
	ErrNotFound = errors.New("not found")

	// ErrRetriesExhausted indicates an optimistic transaction kept
	// colliding with concurrent writers and gave up after the attempt
	// limit. Always wrapped in an OperationError.
	ErrRetriesExhausted = errors.New("too many transaction retries")
)

// SerializationError indicates a stored value did not parse as the
// expected shape. Terminal for single-entity reads; scans skip the
// record instead.
type SerializationError struct {
	// Key is the store key holding the malformed value.
	Key string

	// Err is the underlying decode error.
	Err error
}

// Error implements the error interface.
func (e *SerializationError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Key, e.Err)
}

// Unwrap returns the underlying error for errors.Is/errors.As.
func (e *SerializationError) Unwrap() error {
	return e.Err
}

// OperationError indicates a store operation failed for a reason other
// than a missing entity: transport failure, retry exhaustion, or a
// domain rule violation surfaced at the store edge.
type OperationError struct {
	// Op names the failed operation (e.g. "addStock").
	Op string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *OperationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/errors.As.
func (e *OperationError) Unwrap() error {
	return e.Err
}
