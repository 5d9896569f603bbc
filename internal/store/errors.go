package store

import "errors"

// Store errors
var (
	// ErrKeyNotFound indicates the requested key does not exist.
	// Expired keys are indistinguishable from absent ones.
	ErrKeyNotFound = errors.New("key not found")

	// ErrTxConflict indicates an optimistic transaction was aborted
	// because a watched key was modified before the commit.
	ErrTxConflict = errors.New("transaction aborted: watched key changed")
)
