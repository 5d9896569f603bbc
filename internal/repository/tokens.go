package repository

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/prn-tf/medtrack/internal/pkg/crypto"
	"github.com/prn-tf/medtrack/internal/store"
)

// TokenKind partitions the token keyspace by purpose.
type TokenKind string

// Token kinds.
const (
	// TokenActivation activates a freshly registered account. Single use.
	TokenActivation TokenKind = "activate"

	// TokenPasswordReset authorizes a password reset. Single use.
	TokenPasswordReset TokenKind = "reset"

	// TokenSession authenticates API requests. Multi-use until expiry.
	TokenSession TokenKind = "session"
)

// Tokens issues and verifies opaque, time-limited tokens bound to one
// user id. Expiry relies entirely on the store's native TTL: there is
// no expiry field to check, and an expired token is indistinguishable
// from one that never existed.
type Tokens struct {
	store  store.Store
	keys   Keys
	logger zerolog.Logger

	// generate produces token values. Overridable in tests.
	generate func() (string, error)
}

// NewTokens creates a new Tokens repository.
func NewTokens(s store.Store, keys Keys, logger zerolog.Logger) *Tokens {
	return &Tokens{
		store:    s,
		keys:     keys,
		logger:   logger.With().Str("repository", "tokens").Logger(),
		generate: crypto.NewToken,
	}
}

// Issue generates a new token of the given kind bound to userID,
// stored with the given time to live.
func (r *Tokens) Issue(ctx context.Context, kind TokenKind, userID string, ttl time.Duration) (string, error) {
	token, err := r.generate()
	if err != nil {
		return "", &OperationError{Op: "issueToken", Err: err}
	}
	if err := r.store.Set(ctx, r.keys.Token(kind, token), userID, ttl); err != nil {
		return "", &OperationError{Op: "issueToken", Err: err}
	}

	r.logger.Debug().
		Str("kind", string(kind)).
		Str("user_id", userID).
		Dur("ttl", ttl).
		Msg("token issued")
	return token, nil
}

// Verify consumes a single-use token: a direct keyed lookup that
// deletes the token in the same step, so it cannot be replayed. When
// two verifications race, at most one succeeds. Returns the bound user
// id, or ErrNotFound for an absent, expired, or already-used token.
func (r *Tokens) Verify(ctx context.Context, kind TokenKind, token string) (string, error) {
	userID, err := r.store.GetDel(ctx, r.keys.Token(kind, token))
	if err != nil {
		if errors.Is(err, store.ErrKeyNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	return userID, nil
}

// Peek resolves a token without consuming it. Used for session tokens,
// which stay valid until expiry or revocation.
func (r *Tokens) Peek(ctx context.Context, kind TokenKind, token string) (string, error) {
	userID, err := r.store.Get(ctx, r.keys.Token(kind, token))
	if err != nil {
		if errors.Is(err, store.ErrKeyNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	return userID, nil
}

// Revoke removes a token before its expiry.
func (r *Tokens) Revoke(ctx context.Context, kind TokenKind, token string) error {
	return deleteKey(ctx, r.store, r.keys.Token(kind, token))
}
