// Package analytics derives reporting views from already-fetched
// schedule and dosage collections for one user. Everything here is a
// pure function of its inputs and the provided reference time; nothing
// touches the store.
package analytics

import (
	"time"

	"github.com/prn-tf/medtrack/internal/domain"
)

// AdherenceStatus classifies one day of the weekly adherence view.
type AdherenceStatus string

// Adherence statuses.
const (
	// StatusNone: no dose was logged that day.
	StatusNone AdherenceStatus = "NONE"

	// StatusPartial: some doses were logged, fewer than scheduled.
	StatusPartial AdherenceStatus = "PARTIAL"

	// StatusComplete: at least as many doses logged as scheduled.
	StatusComplete AdherenceStatus = "COMPLETE"
)

// DayAdherence is one day of the weekly adherence view.
type DayAdherence struct {
	// Date is the calendar day, at midnight in the reference location.
	Date time.Time `json:"date"`

	// Weekday is the day's weekday code.
	Weekday domain.Weekday `json:"weekday"`

	// Expected is how many scheduled doses fall on this weekday.
	Expected int `json:"expected"`

	// Taken is how many doses were logged on this calendar day.
	Taken int `json:"taken"`

	// Status classifies the day.
	Status AdherenceStatus `json:"status"`
}

// WeeklyAdherence computes adherence for the 7 days ending yesterday,
// oldest first. Today is excluded because it is still incomplete.
//
// Expected counts come from the schedules active on each weekday (an
// empty day set means every day). Taken counts attribute each dosage
// entry to the calendar date of its timestamp, regardless of which
// schedule it fulfills: the view deliberately measures doses per day,
// not per slot.
func WeeklyAdherence(schedules []*domain.Schedule, history []*domain.Dosage, today time.Time) []DayAdherence {
	loc := today.Location()

	takenByDate := make(map[string]int, len(history))
	for _, entry := range history {
		takenByDate[dateKey(entry.Datetime.In(loc))]++
	}

	days := make([]DayAdherence, 0, 7)
	for offset := 7; offset >= 1; offset-- {
		day := startOfDay(today, loc).AddDate(0, 0, -offset)
		weekday := domain.WeekdayOf(day.Weekday())

		expected := 0
		for _, sched := range schedules {
			if sched.ActiveOn(weekday) {
				expected++
			}
		}
		taken := takenByDate[dateKey(day)]

		var status AdherenceStatus
		switch {
		case taken == 0:
			status = StatusNone
		case expected > 0 && taken >= expected:
			status = StatusComplete
		default:
			status = StatusPartial
		}

		days = append(days, DayAdherence{
			Date:     day,
			Weekday:  weekday,
			Expected: expected,
			Taken:    taken,
			Status:   status,
		})
	}
	return days
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
