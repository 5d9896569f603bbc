package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/prn-tf/medtrack/internal/domain"
	"github.com/prn-tf/medtrack/internal/repository"
)

// DosageService handles dose logging and reversal.
type DosageService struct {
	dosages repository.DosageRepository
	logger  zerolog.Logger

	// now is the clock used when a dose carries no explicit timestamp.
	now func() time.Time
}

// NewDosageService creates a new DosageService.
func NewDosageService(dosages repository.DosageRepository, logger zerolog.Logger) *DosageService {
	return &DosageService{
		dosages: dosages,
		logger:  logger.With().Str("service", "dosage").Logger(),
		now:     time.Now,
	}
}

// RecordInput contains the data for logging a taken dose.
type RecordInput struct {
	MedicineID string
	Amount     float64

	// ScheduledTime optionally links the dose to a schedule slot ("HH:MM").
	ScheduledTime string

	// At is when the dose was taken. Zero means now.
	At time.Time
}

// Record logs a taken dose, decrementing the medicine's stock as a
// side effect.
func (s *DosageService) Record(ctx context.Context, userID string, input RecordInput) (*domain.Dosage, error) {
	if input.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if input.ScheduledTime != "" {
		if err := validateTimeOfDay(input.ScheduledTime); err != nil {
			return nil, err
		}
	}

	at := input.At
	if at.IsZero() {
		at = s.now()
	}

	dosage, err := s.dosages.Record(ctx, userID, input.MedicineID, input.Amount, input.ScheduledTime, at)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrMedicineNotFound
		}
		return nil, err
	}
	return dosage, nil
}

// Delete reverses a logged dose, restoring the medicine's stock.
func (s *DosageService) Delete(ctx context.Context, userID, id string) error {
	if err := s.dosages.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ErrDosageNotFound
		}
		return err
	}
	return nil
}

// History returns the user's dosage log, newest first.
func (s *DosageService) History(ctx context.Context, userID string) ([]*domain.Dosage, error) {
	return s.dosages.List(ctx, userID)
}
