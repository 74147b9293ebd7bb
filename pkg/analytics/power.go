package analytics

import (
	"sort"

	"github.com/pario-ai/reqlens/pkg/models"
)

// PowerUsers selects the top decile of users by total requests (at least one
// when any users exist) and breaks down their usage.
func (e *Engine) PowerUsers(records []models.UsageRecord) models.PowerUserSummary {
	users, totals := userTotals(records)
	sort.SliceStable(users, func(i, j int) bool {
		return totals[users[i]] > totals[users[j]]
	})

	selected := users[:e.powerUserCount(len(users))]
	isSelected := make(map[string]bool, len(selected))
	for _, u := range selected {
		isSelected[u] = true
	}

	subset := make([]models.UsageRecord, 0)
	for _, r := range records {
		if isSelected[r.User] {
			subset = append(subset, r)
		}
	}

	type userAcc struct {
		exceeding float64
		byModel   map[string]float64
		daily     map[string]float64
		days      []string
	}
	accs := make(map[string]*userAcc, len(selected))
	for _, u := range selected {
		accs[u] = &userAcc{byModel: make(map[string]float64), daily: make(map[string]float64)}
	}
	for _, r := range subset {
		a := accs[r.User]
		a.byModel[r.Model] += r.RequestsUsed
		if r.ExceedsQuota {
			a.exceeding += r.RequestsUsed
		}
		date := r.Day()
		if _, ok := a.daily[date]; !ok {
			a.days = append(a.days, date)
		}
		a.daily[date] += r.RequestsUsed
	}

	summary := models.PowerUserSummary{
		PowerUsers:            make([]models.PowerUserData, 0, len(selected)),
		TotalPowerUsers:       len(selected),
		PowerUserModelSummary: e.ModelSummary(subset),
	}
	for _, u := range selected {
		a := accs[u]
		sort.Strings(a.days)
		activity := make([]models.DailyRequests, 0, len(a.days))
		for _, d := range a.days {
			activity = append(activity, models.DailyRequests{Date: d, Requests: a.daily[d]})
		}
		summary.PowerUsers = append(summary.PowerUsers, models.PowerUserData{
			User:              u,
			TotalRequests:     totals[u],
			ExceedingRequests: a.exceeding,
			RequestsByModel:   a.byModel,
			DailyActivity:     activity,
		})
		summary.TotalPowerUserRequests += totals[u]
	}
	return summary
}

// PowerUserDailyBreakdown returns one entry per day across exactly the named
// users, with compliant and exceeding totals and a per-model split. It works
// for any subset of users, e.g. a single user picked for drill-down.
func PowerUserDailyBreakdown(records []models.UsageRecord, users []string) []models.PowerUserDailyBreakdown {
	names := make(map[string]bool, len(users))
	for _, u := range users {
		names[u] = true
	}

	groups := newOrderedGroups[string, models.PowerUserDailyBreakdown]()
	for _, r := range records {
		if !names[r.User] {
			continue
		}
		date := r.Day()
		day := groups.get(date, func() models.PowerUserDailyBreakdown {
			return models.PowerUserDailyBreakdown{Date: date, ByModel: make(map[string]float64)}
		})
		day.ByModel[r.Model] += r.RequestsUsed
		if r.ExceedsQuota {
			day.ExceedingRequests += r.RequestsUsed
		} else {
			day.CompliantRequests += r.RequestsUsed
		}
	}

	out := make([]models.PowerUserDailyBreakdown, 0, groups.len())
	for _, v := range groups.values() {
		out = append(out, *v)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// PowerUserDailyTotals merges the daily activity of the given users into a
// single ascending series.
func PowerUserDailyTotals(users []models.PowerUserData) []models.DailyRequests {
	totals := newOrderedGroups[string, models.DailyRequests]()
	for _, u := range users {
		for _, d := range u.DailyActivity {
			day := totals.get(d.Date, func() models.DailyRequests {
				return models.DailyRequests{Date: d.Date}
			})
			day.Requests += d.Requests
		}
	}
	out := make([]models.DailyRequests, 0, totals.len())
	for _, v := range totals.values() {
		out = append(out, *v)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// UniqueModels returns the sorted model names appearing in a breakdown.
func UniqueModels(breakdown []models.PowerUserDailyBreakdown) []string {
	seen := make(map[string]bool)
	var out []string
	for _, day := range breakdown {
		for m := range day.ByModel {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	sort.Strings(out)
	return out
}
