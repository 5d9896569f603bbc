package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/prn-tf/medtrack/internal/analytics"
	"github.com/prn-tf/medtrack/internal/repository"
)

// ReportService computes analytics views by scanning a user's
// schedules, dosage history and medicines and handing them to the
// pure functions in the analytics package. Reports read whatever
// snapshot the scans observe; they are never transactional.
type ReportService struct {
	medicines repository.MedicineRepository
	schedules repository.ScheduleRepository
	dosages   repository.DosageRepository
	logger    zerolog.Logger

	// now provides "today". Overridable in tests.
	now func() time.Time
}

// NewReportService creates a new ReportService.
func NewReportService(medicines repository.MedicineRepository, schedules repository.ScheduleRepository, dosages repository.DosageRepository, logger zerolog.Logger) *ReportService {
	return &ReportService{
		medicines: medicines,
		schedules: schedules,
		dosages:   dosages,
		logger:    logger.With().Str("service", "report").Logger(),
		now:       time.Now,
	}
}

// WeeklyAdherence returns the adherence view for the 7 days ending
// yesterday, oldest first.
func (s *ReportService) WeeklyAdherence(ctx context.Context, userID string) ([]analytics.DayAdherence, error) {
	schedules, err := s.schedules.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	history, err := s.dosages.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	return analytics.WeeklyAdherence(schedules, history, s.now()), nil
}

// Expiry returns stock-depletion projections for every scheduled
// medicine, soonest first.
func (s *ReportService) Expiry(ctx context.Context, userID string) ([]analytics.MedicineExpiry, error) {
	medicines, err := s.medicines.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	schedules, err := s.schedules.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	return analytics.Expiry(medicines, schedules, s.now()), nil
}
