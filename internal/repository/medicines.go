package repository

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/prn-tf/medtrack/internal/domain"
	"github.com/prn-tf/medtrack/internal/store"
)

// Medicines persists medicine records per user. Stock is shared
// mutable state: plain Put overwrites it blindly and is reserved for
// create/update of the descriptive fields, while AddStock goes through
// the optimistic-concurrency path.
type Medicines struct {
	store  store.Store
	keys   Keys
	logger zerolog.Logger
}

// NewMedicines creates a new Medicines repository.
func NewMedicines(s store.Store, keys Keys, logger zerolog.Logger) *Medicines {
	return &Medicines{
		store:  s,
		keys:   keys,
		logger: logger.With().Str("repository", "medicines").Logger(),
	}
}

// Get retrieves one of a user's medicines.
func (r *Medicines) Get(ctx context.Context, userID, id string) (*domain.Medicine, error) {
	return getJSON[domain.Medicine](ctx, r.store, r.keys.Medicine(userID, id))
}

// Put writes a medicine record, overwriting any previous value.
func (r *Medicines) Put(ctx context.Context, userID string, med *domain.Medicine) error {
	return putJSON(ctx, r.store, r.keys.Medicine(userID, med.ID), med)
}

// Delete removes a medicine record.
func (r *Medicines) Delete(ctx context.Context, userID, id string) error {
	return deleteKey(ctx, r.store, r.keys.Medicine(userID, id))
}

// List returns all of a user's medicines, sorted by name.
func (r *Medicines) List(ctx context.Context, userID string) ([]*domain.Medicine, error) {
	meds, err := scanJSON[domain.Medicine](ctx, r.store, r.logger, r.keys.MedicinePattern(userID))
	if err != nil {
		return nil, err
	}
	sort.Slice(meds, func(i, j int) bool { return meds[i].Name < meds[j].Name })
	return meds, nil
}

// AddStock adjusts a medicine's stock by delta (positive to restock,
// negative to correct) and returns the updated record. Concurrent
// adjustments to the same medicine serialize through the conflict-and-
// retry protocol; none are lost.
func (r *Medicines) AddStock(ctx context.Context, userID, id string, delta float64) (*domain.Medicine, error) {
	key := r.keys.Medicine(userID, id)

	var updated *domain.Medicine
	err := withRetry(ctx, r.store, r.logger, "addStock", func(tx store.Tx) error {
		updated = nil

		raw, err := tx.Get(ctx, key)
		if err != nil {
			if errors.Is(err, store.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}
		med, err := decodeJSON[domain.Medicine](key, raw)
		if err != nil {
			return err
		}

		med.Stock += delta
		med.UpdatedAt = time.Now().UTC()

		payload, err := json.Marshal(med)
		if err != nil {
			return &SerializationError{Key: key, Err: err}
		}
		if err := tx.Exec(ctx, func(p store.Pipe) error {
			p.Set(key, string(payload), 0)
			return nil
		}); err != nil {
			return err
		}
		updated = med
		return nil
	}, key)
	if err != nil {
		return nil, err
	}

	r.logger.Info().
		Str("user_id", userID).
		Str("medicine_id", id).
		Float64("delta", delta).
		Float64("stock", updated.Stock).
		Msg("stock adjusted")
	return updated, nil
}
