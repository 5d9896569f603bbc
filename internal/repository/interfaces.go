package repository

import (
	"context"
	"time"

	"github.com/prn-tf/medtrack/internal/domain"
)

// The repository interfaces consumed by the service layer. The concrete
// types in this package are the only production implementations;
// services depend on the interfaces so tests can substitute mocks.

// UserRepository persists users and their identity indexes.
type UserRepository interface {
	// Create writes a new user and its index entries atomically.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user record.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// CandidatesByUsername resolves a username to every user sharing it.
	CandidatesByUsername(ctx context.Context, username string) ([]*domain.User, error)

	// IDByEmail resolves an email address to a user id.
	IDByEmail(ctx context.Context, email string) (string, error)

	// Save overwrites a user and migrates indexes for changed identity fields.
	Save(ctx context.Context, user *domain.User, prevUsername, prevEmail string) error
}

// MedicineRepository persists medicines and mutates stock safely.
type MedicineRepository interface {
	Get(ctx context.Context, userID, id string) (*domain.Medicine, error)
	Put(ctx context.Context, userID string, med *domain.Medicine) error
	Delete(ctx context.Context, userID, id string) error
	List(ctx context.Context, userID string) ([]*domain.Medicine, error)

	// AddStock adjusts stock under optimistic concurrency.
	AddStock(ctx context.Context, userID, id string, delta float64) (*domain.Medicine, error)
}

// ScheduleRepository persists dosing schedules.
type ScheduleRepository interface {
	Get(ctx context.Context, userID, id string) (*domain.Schedule, error)
	Put(ctx context.Context, userID string, sched *domain.Schedule) error
	Delete(ctx context.Context, userID, id string) error
	List(ctx context.Context, userID string) ([]*domain.Schedule, error)
}

// DosageRepository persists dosage log entries with stock side effects.
type DosageRepository interface {
	Get(ctx context.Context, userID, id string) (*domain.Dosage, error)
	List(ctx context.Context, userID string) ([]*domain.Dosage, error)

	// Record logs a dose and decrements stock atomically.
	Record(ctx context.Context, userID, medicineID string, amount float64, scheduledTime string, at time.Time) (*domain.Dosage, error)

	// Delete reverses a logged dose and restores stock atomically.
	Delete(ctx context.Context, userID, id string) error
}

// TokenRepository issues and verifies time-limited opaque tokens.
type TokenRepository interface {
	Issue(ctx context.Context, kind TokenKind, userID string, ttl time.Duration) (string, error)
	Verify(ctx context.Context, kind TokenKind, token string) (string, error)
	Peek(ctx context.Context, kind TokenKind, token string) (string, error)
	Revoke(ctx context.Context, kind TokenKind, token string) error
}

// Compile-time interface checks.
var (
	_ UserRepository     = (*Users)(nil)
	_ MedicineRepository = (*Medicines)(nil)
	_ ScheduleRepository = (*Schedules)(nil)
	_ DosageRepository   = (*Dosages)(nil)
	_ TokenRepository    = (*Tokens)(nil)
)
