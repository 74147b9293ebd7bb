package analytics

import (
	"sort"

	"github.com/pario-ai/reqlens/pkg/models"
)

type dayModelKey struct {
	date  string
	model string
}

// AggregateByDay groups records by UTC day and model, splitting requests into
// compliant and exceeding totals. Output is sorted by date, then model.
func AggregateByDay(records []models.UsageRecord) []models.DailyModelAggregate {
	groups := newOrderedGroups[dayModelKey, models.DailyModelAggregate]()
	for _, r := range records {
		date := r.Day()
		agg := groups.get(dayModelKey{date, r.Model}, func() models.DailyModelAggregate {
			return models.DailyModelAggregate{Date: date, Model: r.Model}
		})
		if r.ExceedsQuota {
			agg.ExceedingRequests += r.RequestsUsed
		} else {
			agg.CompliantRequests += r.RequestsUsed
		}
	}

	out := make([]models.DailyModelAggregate, 0, groups.len())
	for _, v := range groups.values() {
		out = append(out, *v)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Model < out[j].Model
	})
	return out
}

// DailyModelRequests is AggregateByDay without the compliance split.
func DailyModelRequests(records []models.UsageRecord) []models.DailyModelRequests {
	groups := newOrderedGroups[dayModelKey, models.DailyModelRequests]()
	for _, r := range records {
		date := r.Day()
		agg := groups.get(dayModelKey{date, r.Model}, func() models.DailyModelRequests {
			return models.DailyModelRequests{Date: date, Model: r.Model}
		})
		agg.Requests += r.RequestsUsed
	}

	out := make([]models.DailyModelRequests, 0, groups.len())
	for _, v := range groups.values() {
		out = append(out, *v)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Model < out[j].Model
	})
	return out
}

// LastDate returns the most recent UTC day present in records.
func LastDate(records []models.UsageRecord) (string, bool) {
	var last string
	for _, r := range records {
		if d := r.Day(); d > last {
			last = d
		}
	}
	return last, last != ""
}

// FirstDate returns the earliest UTC day present in records.
func FirstDate(records []models.UsageRecord) (string, bool) {
	var first string
	for _, r := range records {
		if d := r.Day(); first == "" || d < first {
			first = d
		}
	}
	return first, first != ""
}

// TotalRequests sums RequestsUsed across records.
func TotalRequests(records []models.UsageRecord) float64 {
	var total float64
	for _, r := range records {
		total += r.RequestsUsed
	}
	return total
}

// userTotals sums requests per user, returning users in first-seen order.
func userTotals(records []models.UsageRecord) ([]string, map[string]float64) {
	var users []string
	totals := make(map[string]float64)
	for _, r := range records {
		if _, ok := totals[r.User]; !ok {
			users = append(users, r.User)
		}
		totals[r.User] += r.RequestsUsed
	}
	return users, totals
}
