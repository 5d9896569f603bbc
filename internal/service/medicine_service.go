package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/prn-tf/medtrack/internal/analytics"
	"github.com/prn-tf/medtrack/internal/domain"
	"github.com/prn-tf/medtrack/internal/repository"
)

// MedicineService handles medicine CRUD and stock adjustments.
type MedicineService struct {
	medicines repository.MedicineRepository
	logger    zerolog.Logger
}

// NewMedicineService creates a new MedicineService.
func NewMedicineService(medicines repository.MedicineRepository, logger zerolog.Logger) *MedicineService {
	return &MedicineService{
		medicines: medicines,
		logger:    logger.With().Str("service", "medicine").Logger(),
	}
}

// MedicineInput contains the data for creating or updating a medicine.
type MedicineInput struct {
	Name        string
	Dose        float64
	Unit        string
	Stock       float64
	Description string
	LeafletURL  string
}

func (in MedicineInput) validate() error {
	if in.Name == "" {
		return ErrInvalidName
	}
	if in.Dose <= 0 {
		return ErrInvalidDose
	}
	if in.Stock < 0 {
		return ErrInvalidStock
	}
	return nil
}

// Create adds a new medicine for the user.
func (s *MedicineService) Create(ctx context.Context, userID string, input MedicineInput) (*domain.Medicine, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	med := domain.NewMedicine(input.Name, input.Dose, input.Unit, input.Stock)
	med.Description = input.Description
	med.LeafletURL = input.LeafletURL

	if err := s.medicines.Put(ctx, userID, med); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to create medicine")
		return nil, err
	}
	return med, nil
}

// Get retrieves one medicine.
func (s *MedicineService) Get(ctx context.Context, userID, id string) (*domain.Medicine, error) {
	med, err := s.medicines.Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrMedicineNotFound
		}
		return nil, err
	}
	return med, nil
}

// Update overwrites a medicine's fields. Stock set here is a plain
// overwrite; concurrent-safe adjustments go through AddStock.
func (s *MedicineService) Update(ctx context.Context, userID, id string, input MedicineInput) (*domain.Medicine, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	med, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	med.Name = input.Name
	med.Dose = input.Dose
	med.Unit = input.Unit
	med.Stock = input.Stock
	med.Description = input.Description
	med.LeafletURL = input.LeafletURL
	med.UpdatedAt = time.Now().UTC()

	if err := s.medicines.Put(ctx, userID, med); err != nil {
		return nil, err
	}
	return med, nil
}

// Delete removes a medicine.
func (s *MedicineService) Delete(ctx context.Context, userID, id string) error {
	if err := s.medicines.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ErrMedicineNotFound
		}
		return err
	}
	return nil
}

// List returns all of the user's medicines.
func (s *MedicineService) List(ctx context.Context, userID string) ([]*domain.Medicine, error) {
	return s.medicines.List(ctx, userID)
}

// AddStock adjusts a medicine's stock by delta under optimistic
// concurrency and returns the updated record.
func (s *MedicineService) AddStock(ctx context.Context, userID, id string, delta float64) (*domain.Medicine, error) {
	med, err := s.medicines.AddStock(ctx, userID, id, delta)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrMedicineNotFound
		}
		return nil, err
	}
	return med, nil
}

// LowStock returns the user's medicines at or below the threshold.
// A non-positive threshold selects the default.
func (s *MedicineService) LowStock(ctx context.Context, userID string, threshold float64) ([]*domain.Medicine, error) {
	if threshold <= 0 {
		threshold = analytics.DefaultLowStockThreshold
	}
	meds, err := s.medicines.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	return analytics.LowStock(meds, threshold), nil
}
