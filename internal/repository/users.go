package repository

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/prn-tf/medtrack/internal/domain"
	"github.com/prn-tf/medtrack/internal/store"
)

// Users persists user records and maintains the two secondary indexes
// that make identity lookup possible: email -> user id (unique) and
// username -> list of user ids (shared usernames are allowed).
type Users struct {
	store  store.Store
	keys   Keys
	logger zerolog.Logger
}

// NewUsers creates a new Users repository.
func NewUsers(s store.Store, keys Keys, logger zerolog.Logger) *Users {
	return &Users{
		store:  s,
		keys:   keys,
		logger: logger.With().Str("repository", "users").Logger(),
	}
}

// userRecord is the stored shape of a user. The domain struct hides
// the password hash from JSON so API responses cannot leak it; the
// stored record carries it under its own field.
type userRecord struct {
	domain.User
	PasswordHash string `json:"password_hash"`
}

func encodeUser(key string, user *domain.User) (string, error) {
	payload, err := json.Marshal(userRecord{User: *user, PasswordHash: user.PasswordHash})
	if err != nil {
		return "", &SerializationError{Key: key, Err: err}
	}
	return string(payload), nil
}

func (rec *userRecord) user() *domain.User {
	u := rec.User
	u.PasswordHash = rec.PasswordHash
	return &u
}

// The username index stores multiple user ids as one comma-joined
// string. The delimited form exists only in these two functions;
// everything else works with []string.

func parseIDList(raw string) []string {
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			ids = append(ids, part)
		}
	}
	return ids
}

func joinIDList(ids []string) string {
	return strings.Join(ids, ",")
}

func appendID(ids []string, id string) []string {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}

// Create writes a new user record together with its index entries in
// one transaction. Fails with domain.ErrEmailTaken (wrapped in an
// OperationError) when the email already maps to a user. A pre-existing
// username is not an error: the new id is appended to the index entry.
func (r *Users) Create(ctx context.Context, user *domain.User) error {
	userKey := r.keys.User(user.ID)
	emailKey := r.keys.EmailIndex(user.Email)
	nameKey := r.keys.UsernameIndex(user.Username)

	err := withRetry(ctx, r.store, r.logger, "registerUser", func(tx store.Tx) error {
		if _, err := tx.Get(ctx, emailKey); err == nil {
			return domain.ErrEmailTaken
		} else if !errors.Is(err, store.ErrKeyNotFound) {
			return err
		}

		var ids []string
		raw, err := tx.Get(ctx, nameKey)
		switch {
		case err == nil:
			ids = parseIDList(raw)
		case errors.Is(err, store.ErrKeyNotFound):
			// first account with this username
		default:
			return err
		}
		ids = appendID(ids, user.ID)

		payload, err := encodeUser(userKey, user)
		if err != nil {
			return err
		}

		return tx.Exec(ctx, func(p store.Pipe) error {
			p.Set(userKey, payload, 0)
			p.Set(nameKey, joinIDList(ids), 0)
			p.Set(emailKey, user.ID, 0)
			return nil
		})
	}, emailKey, nameKey)
	if err != nil {
		return err
	}

	r.logger.Info().
		Str("user_id", user.ID).
		Str("username", user.Username).
		Msg("user registered")
	return nil
}

// GetByID retrieves a user record.
func (r *Users) GetByID(ctx context.Context, id string) (*domain.User, error) {
	rec, err := getJSON[userRecord](ctx, r.store, r.keys.User(id))
	if err != nil {
		return nil, err
	}
	return rec.user(), nil
}

// CandidatesByUsername resolves a username to all user records sharing
// it, in registration order. Returns ErrNotFound when the index entry
// is absent. Dangling ids and malformed records are skipped: the index
// is a hint, the user records are the truth.
func (r *Users) CandidatesByUsername(ctx context.Context, username string) ([]*domain.User, error) {
	raw, err := r.store.Get(ctx, r.keys.UsernameIndex(username))
	if err != nil {
		if errors.Is(err, store.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	ids := parseIDList(raw)
	users := make([]*domain.User, 0, len(ids))
	for _, id := range ids {
		rec, err := getJSON[userRecord](ctx, r.store, r.keys.User(id))
		if err != nil {
			var serr *SerializationError
			if errors.Is(err, ErrNotFound) || errors.As(err, &serr) {
				r.logger.Warn().Err(err).
					Str("username", username).
					Str("user_id", id).
					Msg("skipping unusable username index entry")
				continue
			}
			return nil, err
		}
		users = append(users, rec.user())
	}
	return users, nil
}

// IDByEmail resolves an email address (case-insensitively) to a user id.
func (r *Users) IDByEmail(ctx context.Context, email string) (string, error) {
	id, err := r.store.Get(ctx, r.keys.EmailIndex(email))
	if err != nil {
		if errors.Is(err, store.ErrKeyNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	return id, nil
}

// Save overwrites a user record and migrates the index entries when the
// username or email changed since the record was loaded. prevUsername
// and prevEmail identify the index entries the stored record currently
// occupies. Re-saving with an unchanged email is a no-op on the
// indexes, not a uniqueness violation.
func (r *Users) Save(ctx context.Context, user *domain.User, prevUsername, prevEmail string) error {
	userKey := r.keys.User(user.ID)
	newEmailKey := r.keys.EmailIndex(user.Email)
	oldEmailKey := r.keys.EmailIndex(prevEmail)
	newNameKey := r.keys.UsernameIndex(user.Username)
	oldNameKey := r.keys.UsernameIndex(prevUsername)
	emailChanged := newEmailKey != oldEmailKey
	nameChanged := newNameKey != oldNameKey

	watch := []string{userKey}
	if emailChanged {
		watch = append(watch, newEmailKey, oldEmailKey)
	}
	if nameChanged {
		watch = append(watch, newNameKey, oldNameKey)
	}

	return withRetry(ctx, r.store, r.logger, "saveUser", func(tx store.Tx) error {
		if emailChanged {
			owner, err := tx.Get(ctx, newEmailKey)
			if err == nil && owner != user.ID {
				return domain.ErrEmailTaken
			}
			if err != nil && !errors.Is(err, store.ErrKeyNotFound) {
				return err
			}
		}

		var oldIDs, newIDs []string
		if nameChanged {
			if raw, err := tx.Get(ctx, oldNameKey); err == nil {
				oldIDs = removeID(parseIDList(raw), user.ID)
			} else if !errors.Is(err, store.ErrKeyNotFound) {
				return err
			}
			if raw, err := tx.Get(ctx, newNameKey); err == nil {
				newIDs = parseIDList(raw)
			} else if !errors.Is(err, store.ErrKeyNotFound) {
				return err
			}
			newIDs = appendID(newIDs, user.ID)
		}

		payload, err := encodeUser(userKey, user)
		if err != nil {
			return err
		}

		return tx.Exec(ctx, func(p store.Pipe) error {
			p.Set(userKey, payload, 0)
			if emailChanged {
				p.Set(newEmailKey, user.ID, 0)
				p.Delete(oldEmailKey)
			}
			if nameChanged {
				if len(oldIDs) == 0 {
					p.Delete(oldNameKey)
				} else {
					p.Set(oldNameKey, joinIDList(oldIDs), 0)
				}
				p.Set(newNameKey, joinIDList(newIDs), 0)
			}
			return nil
		})
	}, watch...)
}
