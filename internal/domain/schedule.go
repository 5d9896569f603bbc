package domain

import (
	"time"

	"github.com/google/uuid"
)

// Weekday is an uppercase weekday code used in schedules.
type Weekday string

// Weekday codes.
const (
	Monday    Weekday = "MONDAY"
	Tuesday   Weekday = "TUESDAY"
	Wednesday Weekday = "WEDNESDAY"
	Thursday  Weekday = "THURSDAY"
	Friday    Weekday = "FRIDAY"
	Saturday  Weekday = "SATURDAY"
	Sunday    Weekday = "SUNDAY"
)

// Weekdays lists all weekday codes in calendar order.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// WeekdayOf converts a time.Weekday to its schedule code.
func WeekdayOf(d time.Weekday) Weekday {
	switch d {
	case time.Monday:
		return Monday
	case time.Tuesday:
		return Tuesday
	case time.Wednesday:
		return Wednesday
	case time.Thursday:
		return Thursday
	case time.Friday:
		return Friday
	case time.Saturday:
		return Saturday
	default:
		return Sunday
	}
}

// Valid reports whether d is a known weekday code.
func (d Weekday) Valid() bool {
	for _, w := range Weekdays {
		if w == d {
			return true
		}
	}
	return false
}

// Schedule represents a recurring dosing plan for one medicine.
type Schedule struct {
	// ID is the unique identifier for the schedule.
	ID string `json:"id"`

	// MedicineID references a Medicine owned by the same user.
	// Enforced by convention, not by a foreign-key constraint.
	MedicineID string `json:"medicine_id"`

	// Time is the scheduled time of day in "HH:MM" (24h).
	Time string `json:"time"`

	// Amount is the dose multiplier taken at this time. Must be positive.
	Amount float64 `json:"amount"`

	// DaysOfWeek restricts the schedule to specific weekdays.
	// An empty set means every day, not no days. Both analytics
	// computations rely on that reading.
	DaysOfWeek []Weekday `json:"days_of_week,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSchedule creates a new Schedule with a generated id.
func NewSchedule(medicineID, timeOfDay string, amount float64, days []Weekday) *Schedule {
	now := time.Now().UTC()
	return &Schedule{
		ID:         uuid.NewString(),
		MedicineID: medicineID,
		Time:       timeOfDay,
		Amount:     amount,
		DaysOfWeek: days,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// ActiveOn reports whether the schedule applies on the given weekday.
func (s *Schedule) ActiveOn(day Weekday) bool {
	if len(s.DaysOfWeek) == 0 {
		return true
	}
	for _, d := range s.DaysOfWeek {
		if d == day {
			return true
		}
	}
	return false
}

// OccurrencesPerDay returns the average number of times per day the
// schedule fires: 1 for an every-day schedule, |days|/7 otherwise.
func (s *Schedule) OccurrencesPerDay() float64 {
	if len(s.DaysOfWeek) == 0 {
		return 1
	}
	return float64(len(s.DaysOfWeek)) / 7
}
