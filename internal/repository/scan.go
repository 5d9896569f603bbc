package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog"

	"github.com/prn-tf/medtrack/internal/store"
)

// scanPageSize is the page size requested per SCAN round trip.
const scanPageSize = 100

// getJSON reads and decodes a single record.
// Returns ErrNotFound for a missing key and a SerializationError for a
// value that does not parse as T.
func getJSON[T any](ctx context.Context, s store.Store, key string) (*T, error) {
	raw, err := s.Get(ctx, key)
	if err != nil {
		if errors.Is(err, store.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return decodeJSON[T](key, raw)
}

// putJSON encodes and writes a single record, overwriting any previous value.
func putJSON[T any](ctx context.Context, s store.Store, key string, v *T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return &SerializationError{Key: key, Err: err}
	}
	return s.Set(ctx, key, string(raw), 0)
}

// deleteKey removes a single record, reporting ErrNotFound when
// nothing was deleted. The deleted-count check is what makes delete
// endpoints distinguishable from deleting twice.
func deleteKey(ctx context.Context, s store.Store, key string) error {
	n, err := s.Delete(ctx, key)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// decodeJSON decodes a stored value into T.
func decodeJSON[T any](key, raw string) (*T, error) {
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, &SerializationError{Key: key, Err: err}
	}
	return &v, nil
}

// decodeLenient decodes a stored value into T, returning nil for a
// malformed record. This is the single place implementing the
// skip-corrupt-records policy for scans: a listing endpoint prefers
// partial results over total failure.
func decodeLenient[T any](logger zerolog.Logger, key, raw string) *T {
	v, err := decodeJSON[T](key, raw)
	if err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("skipping malformed record")
		return nil
	}
	return v
}

// scanJSON collects every record matching the pattern. Keys are
// gathered with cursor paging until the store reports completion, then
// each value is fetched and decoded leniently. A record deleted
// between the key scan and the value fetch is treated like a corrupt
// one: skipped.
func scanJSON[T any](ctx context.Context, s store.Store, logger zerolog.Logger, pattern string) ([]*T, error) {
	var keys []string
	var cursor uint64
	for {
		page, next, err := s.Scan(ctx, cursor, pattern, scanPageSize)
		if err != nil {
			return nil, err
		}
		keys = append(keys, page...)
		if next == 0 {
			break
		}
		cursor = next
	}

	out := make([]*T, 0, len(keys))
	for _, key := range keys {
		raw, err := s.Get(ctx, key)
		if err != nil {
			if errors.Is(err, store.ErrKeyNotFound) {
				continue
			}
			return nil, err
		}
		if v := decodeLenient[T](logger, key, raw); v != nil {
			out = append(out, v)
		}
	}
	return out, nil
}
