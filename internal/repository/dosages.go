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

// Dosages persists dosage log entries per user. Recording and
// reversing a dose both touch the owning medicine's stock, so those
// paths run as optimistic transactions that commit the log entry and
// the stock change together or not at all.
type Dosages struct {
	store  store.Store
	keys   Keys
	logger zerolog.Logger
}

// NewDosages creates a new Dosages repository.
func NewDosages(s store.Store, keys Keys, logger zerolog.Logger) *Dosages {
	return &Dosages{
		store:  s,
		keys:   keys,
		logger: logger.With().Str("repository", "dosages").Logger(),
	}
}

// Get retrieves one of a user's dosage log entries.
func (r *Dosages) Get(ctx context.Context, userID, id string) (*domain.Dosage, error) {
	return getJSON[domain.Dosage](ctx, r.store, r.keys.Dosage(userID, id))
}

// List returns all of a user's dosage entries, newest first.
func (r *Dosages) List(ctx context.Context, userID string) ([]*domain.Dosage, error) {
	entries, err := scanJSON[domain.Dosage](ctx, r.store, r.logger, r.keys.DosagePattern(userID))
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Datetime.After(entries[j].Datetime) })
	return entries, nil
}

// Record logs a taken dose: it decrements the medicine's stock by
// amount and writes the new log entry in the same transaction. The
// medicine key is the only watched key. Stock is allowed to go
// negative: the dose was taken either way, and refusing the write
// would lose history.
func (r *Dosages) Record(ctx context.Context, userID, medicineID string, amount float64, scheduledTime string, at time.Time) (*domain.Dosage, error) {
	medKey := r.keys.Medicine(userID, medicineID)

	var rec *domain.Dosage
	err := withRetry(ctx, r.store, r.logger, "recordDose", func(tx store.Tx) error {
		rec = nil

		raw, err := tx.Get(ctx, medKey)
		if err != nil {
			if errors.Is(err, store.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}
		med, err := decodeJSON[domain.Medicine](medKey, raw)
		if err != nil {
			return err
		}

		med.Stock -= amount
		med.UpdatedAt = time.Now().UTC()
		dosage := domain.NewDosage(medicineID, amount, scheduledTime, at)

		medPayload, err := json.Marshal(med)
		if err != nil {
			return &SerializationError{Key: medKey, Err: err}
		}
		dosKey := r.keys.Dosage(userID, dosage.ID)
		dosPayload, err := json.Marshal(dosage)
		if err != nil {
			return &SerializationError{Key: dosKey, Err: err}
		}

		if err := tx.Exec(ctx, func(p store.Pipe) error {
			p.Set(medKey, string(medPayload), 0)
			p.Set(dosKey, string(dosPayload), 0)
			return nil
		}); err != nil {
			return err
		}
		rec = dosage
		return nil
	}, medKey)
	if err != nil {
		return nil, err
	}

	r.logger.Info().
		Str("user_id", userID).
		Str("medicine_id", medicineID).
		Str("dosage_id", rec.ID).
		Float64("amount", amount).
		Msg("dose recorded")
	return rec, nil
}

// Delete reverses a logged dose: it restores the medicine's stock by
// the entry's amount and deletes the entry in the same transaction.
// The entry itself is immutable once created, so the initial read runs
// outside any transaction; the watch on the dosage key only serializes
// against a concurrent reversal of the same entry. A medicine that has
// vanished since the dose was logged fails NotFound without retry:
// there is nothing sensible to restore.
func (r *Dosages) Delete(ctx context.Context, userID, id string) error {
	dosKey := r.keys.Dosage(userID, id)

	dosage, err := getJSON[domain.Dosage](ctx, r.store, dosKey)
	if err != nil {
		return err
	}
	medKey := r.keys.Medicine(userID, dosage.MedicineID)

	err = withRetry(ctx, r.store, r.logger, "deleteDosage", func(tx store.Tx) error {
		raw, err := tx.Get(ctx, dosKey)
		if err != nil {
			if errors.Is(err, store.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}
		entry, err := decodeJSON[domain.Dosage](dosKey, raw)
		if err != nil {
			return err
		}

		raw, err = tx.Get(ctx, medKey)
		if err != nil {
			if errors.Is(err, store.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}
		med, err := decodeJSON[domain.Medicine](medKey, raw)
		if err != nil {
			return err
		}

		med.Stock += entry.Amount
		med.UpdatedAt = time.Now().UTC()

		payload, err := json.Marshal(med)
		if err != nil {
			return &SerializationError{Key: medKey, Err: err}
		}
		return tx.Exec(ctx, func(p store.Pipe) error {
			p.Set(medKey, string(payload), 0)
			p.Delete(dosKey)
			return nil
		})
	}, medKey, dosKey)
	if err != nil {
		return err
	}

	r.logger.Info().
		Str("user_id", userID).
		Str("dosage_id", id).
		Float64("restored", dosage.Amount).
		Msg("dose reversed")
	return nil
}
