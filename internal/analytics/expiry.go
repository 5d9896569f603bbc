package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/prn-tf/medtrack/internal/domain"
)

// DefaultLowStockThreshold is the stock level at or below which a
// medicine is reported as running low.
const DefaultLowStockThreshold = 10

// MedicineExpiry is a stock-depletion projection for one medicine.
type MedicineExpiry struct {
	// Medicine is the projected medicine.
	Medicine *domain.Medicine `json:"medicine"`

	// DailyRate is the average consumption per day across all
	// schedules referencing the medicine.
	DailyRate float64 `json:"daily_rate"`

	// DaysLeft is the number of whole days the current stock lasts.
	DaysLeft int `json:"days_left"`

	// ExpiryDate is the projected depletion date.
	ExpiryDate time.Time `json:"expiry_date"`
}

// Expiry projects a depletion date for every medicine that has at
// least one schedule with a positive consumption rate, soonest first.
//
// A medicine without schedules is excluded entirely: with no planned
// consumption there is no projection to make, whatever the stock says.
// A degenerate schedule set with rate zero is treated as non-expiring
// and likewise excluded. Per-schedule daily rate is amount times
// occurrences per day, where an empty weekday set means daily and a
// restricted set contributes |days|/7.
func Expiry(medicines []*domain.Medicine, schedules []*domain.Schedule, today time.Time) []MedicineExpiry {
	rates := make(map[string]float64, len(schedules))
	for _, sched := range schedules {
		rates[sched.MedicineID] += sched.Amount * sched.OccurrencesPerDay()
	}

	out := make([]MedicineExpiry, 0, len(medicines))
	for _, med := range medicines {
		rate, ok := rates[med.ID]
		if !ok || rate <= 0 {
			continue
		}

		// The epsilon absorbs float rounding in |days|/7 rates so an
		// exact multiple of the rate never floors one day short.
		days := int(math.Floor(med.Stock/rate + 1e-9))
		if days < 0 {
			days = 0
		}

		out = append(out, MedicineExpiry{
			Medicine:   med,
			DailyRate:  rate,
			DaysLeft:   days,
			ExpiryDate: startOfDay(today, today.Location()).AddDate(0, 0, days),
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ExpiryDate.Before(out[j].ExpiryDate) })
	return out
}

// LowStock returns the medicines whose stock is at or below threshold,
// regardless of whether any schedule references them.
func LowStock(medicines []*domain.Medicine, threshold float64) []*domain.Medicine {
	out := make([]*domain.Medicine, 0, len(medicines))
	for _, med := range medicines {
		if med.Stock <= threshold {
			out = append(out, med)
		}
	}
	return out
}
