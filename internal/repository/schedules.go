package repository

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/prn-tf/medtrack/internal/domain"
	"github.com/prn-tf/medtrack/internal/store"
)

// Schedules persists dosing schedules per user.
type Schedules struct {
	store  store.Store
	keys   Keys
	logger zerolog.Logger
}

// NewSchedules creates a new Schedules repository.
func NewSchedules(s store.Store, keys Keys, logger zerolog.Logger) *Schedules {
	return &Schedules{
		store:  s,
		keys:   keys,
		logger: logger.With().Str("repository", "schedules").Logger(),
	}
}

// Get retrieves one of a user's schedules.
func (r *Schedules) Get(ctx context.Context, userID, id string) (*domain.Schedule, error) {
	return getJSON[domain.Schedule](ctx, r.store, r.keys.Schedule(userID, id))
}

// Put writes a schedule record, overwriting any previous value.
func (r *Schedules) Put(ctx context.Context, userID string, sched *domain.Schedule) error {
	return putJSON(ctx, r.store, r.keys.Schedule(userID, sched.ID), sched)
}

// Delete removes a schedule record.
func (r *Schedules) Delete(ctx context.Context, userID, id string) error {
	return deleteKey(ctx, r.store, r.keys.Schedule(userID, id))
}

// List returns all of a user's schedules.
func (r *Schedules) List(ctx context.Context, userID string) ([]*domain.Schedule, error) {
	return scanJSON[domain.Schedule](ctx, r.store, r.logger, r.keys.SchedulePattern(userID))
}
