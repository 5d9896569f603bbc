package domain

import (
	"time"

	"github.com/google/uuid"
)

// Medicine represents a medicine owned by exactly one user.
type Medicine struct {
	// ID is the unique identifier for the medicine.
	ID string `json:"id"`

	// Name is the display name of the medicine.
	Name string `json:"name"`

	// Dose is the size of a single dose, in Unit. Must be positive.
	Dose float64 `json:"dose"`

	// Unit is the unit of Dose and Stock (e.g. "mg", "ml", "tablet").
	Unit string `json:"unit"`

	// Stock is the remaining quantity, in doses. Fractional values are
	// allowed. Stock is mutated through the optimistic-concurrency
	// repository operations, never by blind overwrite from handlers.
	Stock float64 `json:"stock"`

	// Description is an optional free-form note.
	Description string `json:"description,omitempty"`

	// LeafletURL optionally links to the package leaflet.
	LeafletURL string `json:"leaflet_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewMedicine creates a new Medicine with a generated id.
func NewMedicine(name string, dose float64, unit string, stock float64) *Medicine {
	now := time.Now().UTC()
	return &Medicine{
		ID:        uuid.NewString(),
		Name:      name,
		Dose:      dose,
		Unit:      unit,
		Stock:     stock,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
