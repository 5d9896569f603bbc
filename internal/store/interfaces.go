// Package store defines the flat key-value store abstraction that all
// medtrack persistence is built on. The production implementation is
// Redis; an in-memory implementation exists for single-process use and
// tests. Repositories depend only on these interfaces.
package store

import (
	"context"
	"time"
)

// Store is a flat key-value namespace with TTL support, cursor-based
// scanning, and an optimistic-concurrency transaction primitive.
type Store interface {
	// Get retrieves the value for key.
	// Returns ErrKeyNotFound if the key does not exist.
	Get(ctx context.Context, key string) (string, error)

	// Set stores a value. A ttl of 0 means the value does not expire.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// SetNX stores a value only if the key does not already exist.
	// Returns true if the value was written.
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)

	// GetDel atomically retrieves and deletes the value for key.
	// Returns ErrKeyNotFound if the key does not exist. Concurrent
	// GetDel calls on one key race safely: at most one succeeds.
	GetDel(ctx context.Context, key string) (string, error)

	// Delete removes the given keys and returns how many existed.
	Delete(ctx context.Context, keys ...string) (int64, error)

	// Scan iterates keys matching the glob pattern, one page per call.
	// Iteration starts at cursor 0 and is complete when the returned
	// cursor is 0 again. No isolation is promised: writes concurrent
	// with a scan may or may not be observed.
	Scan(ctx context.Context, cursor uint64, match string, count int64) (keys []string, next uint64, err error)

	// Watch runs fn inside an optimistic transaction over the given
	// keys. Reads go through the Tx; writes are queued via Tx.Exec and
	// commit only if no watched key was modified since Watch began.
	// A detected modification surfaces as ErrTxConflict; the caller
	// decides whether to retry.
	Watch(ctx context.Context, fn func(Tx) error, keys ...string) error
}

// Tx is the handle passed to a Watch callback.
type Tx interface {
	// Get reads a key inside the watched section.
	// Returns ErrKeyNotFound if the key does not exist.
	Get(ctx context.Context, key string) (string, error)

	// Exec queues the writes recorded by fn and commits them
	// atomically. Returns ErrTxConflict if a watched key changed.
	Exec(ctx context.Context, fn func(Pipe) error) error
}

// Pipe records writes to be committed atomically.
type Pipe interface {
	// Set queues a write. A ttl of 0 means no expiry.
	Set(key, value string, ttl time.Duration)

	// Delete queues a deletion.
	Delete(keys ...string)
}
