package domain

import (
	"time"

	"github.com/google/uuid"
)

// Dosage is a log entry recording that a dose was taken.
// Dosage records are immutable once written; reversing a logged dose
// deletes the record and restores the medicine's stock.
type Dosage struct {
	// ID is the unique identifier for the log entry.
	ID string `json:"id"`

	// MedicineID references the medicine the dose was taken from.
	MedicineID string `json:"medicine_id"`

	// Datetime is when the dose was logged.
	Datetime time.Time `json:"datetime"`

	// Amount is the quantity taken, subtracted from the medicine's stock.
	Amount float64 `json:"amount"`

	// ScheduledTime optionally links the entry back to a schedule slot
	// ("HH:MM"). Empty for ad-hoc doses.
	ScheduledTime string `json:"scheduled_time,omitempty"`
}

// NewDosage creates a new Dosage log entry.
func NewDosage(medicineID string, amount float64, scheduledTime string, at time.Time) *Dosage {
	return &Dosage{
		ID:            uuid.NewString(),
		MedicineID:    medicineID,
		Datetime:      at.UTC(),
		Amount:        amount,
		ScheduledTime: scheduledTime,
	}
}
