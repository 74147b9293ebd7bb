package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/pario-ai/reqlens/pkg/calendar"
	"github.com/pario-ai/reqlens/pkg/models"
)

// UserAnalysis builds the drill-down view for user. It reports false when
// the user has no records.
func UserAnalysis(records []models.UsageRecord, user string) (models.UserAnalysis, bool) {
	if user == "" {
		return models.UserAnalysis{}, false
	}

	a := models.UserAnalysis{User: user, UniqueModels: []string{}}
	type weekAcc struct {
		compliant float64
		exceeding float64
		models    map[string]bool
	}
	weeks := newOrderedGroups[calendar.Week, weekAcc]()

	var (
		n           int
		first, last time.Time
	)
	for _, r := range records {
		if r.User != user {
			continue
		}
		if n == 0 || r.Timestamp.Before(first) {
			first = r.Timestamp
		}
		if n == 0 || r.Timestamp.After(last) {
			last = r.Timestamp
		}
		n++

		a.TotalRequests += r.RequestsUsed
		w := weeks.get(calendar.ISOWeekOf(r.Timestamp), func() weekAcc {
			return weekAcc{models: make(map[string]bool)}
		})
		if r.ExceedsQuota {
			a.ExceedingRequests += r.RequestsUsed
			w.exceeding += r.RequestsUsed
		} else {
			a.CompliantRequests += r.RequestsUsed
			w.compliant += r.RequestsUsed
		}
		w.models[r.Model] = true
		if !contains(a.UniqueModels, r.Model) {
			a.UniqueModels = append(a.UniqueModels, r.Model)
		}
	}
	if n == 0 {
		return models.UserAnalysis{}, false
	}

	a.ExceedsFreeBudget = a.ExceedingRequests > 0
	a.FirstActivityDate = first.UTC().Format(models.DateLayout)
	a.LastActivityDate = last.UTC().Format(models.DateLayout)
	span := math.Ceil(last.Sub(first).Hours()/24) + 1
	a.DailyAverage = a.TotalRequests / span

	keys := weeks.orderedKeys()
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Year != keys[j].Year {
			return keys[i].Year < keys[j].Year
		}
		return keys[i].Week < keys[j].Week
	})
	a.WeeklyBreakdown = make([]models.UserWeeklyData, 0, len(keys))
	for _, k := range keys {
		w, _ := weeks.lookup(k)
		start, end := calendar.ISOWeekRange(k.Year, k.Week)
		used := make([]string, 0, len(w.models))
		for m := range w.models {
			used = append(used, m)
		}
		sort.Strings(used)
		a.WeeklyBreakdown = append(a.WeeklyBreakdown, models.UserWeeklyData{
			Year:              k.Year,
			Week:              k.Week,
			StartDate:         start.Format(models.DateLayout),
			EndDate:           end.Format(models.DateLayout),
			CompliantRequests: w.compliant,
			ExceedingRequests: w.exceeding,
			TotalRequests:     w.compliant + w.exceeding,
			ModelsUsed:        used,
		})
	}
	return a, true
}
