package repository

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/prn-tf/medtrack/internal/metrics"
	"github.com/prn-tf/medtrack/internal/store"
)

// maxTxAttempts bounds the optimistic-concurrency retry loop. A cycle
// that keeps losing to concurrent writers this many times in a row
// gives up rather than spin.
const maxTxAttempts = 10

// withRetry runs fn as an optimistic transaction over the watched keys,
// retrying the whole read-modify-write cycle when the commit reports a
// conflict. fn must be restartable: it is re-invoked from scratch on
// every attempt.
//
// Only a detected write conflict retries. ErrNotFound and
// SerializationError pass through terminally; any other failure is
// wrapped in an OperationError. Exhausting the attempt limit returns an
// OperationError wrapping ErrRetriesExhausted.
func withRetry(ctx context.Context, s store.Store, logger zerolog.Logger, op string, fn func(store.Tx) error, keys ...string) error {
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err := s.Watch(ctx, fn, keys...)
		if err == nil {
			return nil
		}
		if errors.Is(err, store.ErrTxConflict) {
			metrics.TxConflicts.WithLabelValues(op).Inc()
			logger.Debug().
				Str("op", op).
				Int("attempt", attempt).
				Msg("transaction aborted by concurrent write, retrying")
			continue
		}

		var serr *SerializationError
		if errors.Is(err, ErrNotFound) || errors.As(err, &serr) {
			return err
		}
		// Transport failures and domain rule violations alike surface
		// as OperationErrors; the cause stays reachable via errors.Is.
		return &OperationError{Op: op, Err: err}
	}

	metrics.TxRetriesExhausted.WithLabelValues(op).Inc()
	logger.Error().Str("op", op).Int("attempts", maxTxAttempts).Msg("transaction retries exhausted")
	return &OperationError{Op: op, Err: ErrRetriesExhausted}
}
