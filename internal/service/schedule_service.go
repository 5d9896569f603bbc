package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/prn-tf/medtrack/internal/domain"
	"github.com/prn-tf/medtrack/internal/repository"
)

// ScheduleService handles dosing-schedule CRUD.
type ScheduleService struct {
	schedules repository.ScheduleRepository
	medicines repository.MedicineRepository
	logger    zerolog.Logger
}

// NewScheduleService creates a new ScheduleService.
func NewScheduleService(schedules repository.ScheduleRepository, medicines repository.MedicineRepository, logger zerolog.Logger) *ScheduleService {
	return &ScheduleService{
		schedules: schedules,
		medicines: medicines,
		logger:    logger.With().Str("service", "schedule").Logger(),
	}
}

// ScheduleInput contains the data for creating or updating a schedule.
type ScheduleInput struct {
	MedicineID string
	Time       string
	Amount     float64

	// DaysOfWeek restricts the schedule to the given weekdays.
	// Empty means every day.
	DaysOfWeek []domain.Weekday
}

func (in ScheduleInput) validate() error {
	if err := validateTimeOfDay(in.Time); err != nil {
		return err
	}
	if in.Amount <= 0 {
		return ErrInvalidAmount
	}
	for _, day := range in.DaysOfWeek {
		if !day.Valid() {
			return ErrInvalidWeekday
		}
	}
	return nil
}

// validateTimeOfDay checks the "HH:MM" 24h format.
func validateTimeOfDay(s string) error {
	if _, err := time.Parse("15:04", s); err != nil {
		return ErrInvalidTime
	}
	return nil
}

// Create adds a schedule referencing one of the user's medicines. The
// reference is checked at creation time only; it is a convention, not
// a foreign-key constraint.
func (s *ScheduleService) Create(ctx context.Context, userID string, input ScheduleInput) (*domain.Schedule, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	if _, err := s.medicines.Get(ctx, userID, input.MedicineID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrMedicineNotFound
		}
		return nil, err
	}

	sched := domain.NewSchedule(input.MedicineID, input.Time, input.Amount, dedupeWeekdays(input.DaysOfWeek))
	if err := s.schedules.Put(ctx, userID, sched); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to create schedule")
		return nil, err
	}
	return sched, nil
}

// Get retrieves one schedule.
func (s *ScheduleService) Get(ctx context.Context, userID, id string) (*domain.Schedule, error) {
	sched, err := s.schedules.Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrScheduleNotFound
		}
		return nil, err
	}
	return sched, nil
}

// Update overwrites a schedule's fields. Pointing the schedule at a
// different medicine re-checks that the medicine exists, same as
// Create does.
func (s *ScheduleService) Update(ctx context.Context, userID, id string, input ScheduleInput) (*domain.Schedule, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	sched, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if input.MedicineID != sched.MedicineID {
		if _, err := s.medicines.Get(ctx, userID, input.MedicineID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, domain.ErrMedicineNotFound
			}
			return nil, err
		}
	}

	sched.MedicineID = input.MedicineID
	sched.Time = input.Time
	sched.Amount = input.Amount
	sched.DaysOfWeek = dedupeWeekdays(input.DaysOfWeek)
	sched.UpdatedAt = time.Now().UTC()

	if err := s.schedules.Put(ctx, userID, sched); err != nil {
		return nil, err
	}
	return sched, nil
}

// Delete removes a schedule.
func (s *ScheduleService) Delete(ctx context.Context, userID, id string) error {
	if err := s.schedules.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ErrScheduleNotFound
		}
		return err
	}
	return nil
}

// List returns all of the user's schedules.
func (s *ScheduleService) List(ctx context.Context, userID string) ([]*domain.Schedule, error) {
	return s.schedules.List(ctx, userID)
}

func dedupeWeekdays(days []domain.Weekday) []domain.Weekday {
	if len(days) == 0 {
		return nil
	}
	seen := make(map[domain.Weekday]bool, len(days))
	out := make([]domain.Weekday, 0, len(days))
	for _, day := range days {
		if !seen[day] {
			seen[day] = true
			out = append(out, day)
		}
	}
	return out
}
