package analytics

import (
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/pario-ai/reqlens/pkg/models"
)

// ExceededFilter narrows ExceededRequestDetails to one day and/or one user.
// Empty fields match everything.
type ExceededFilter struct {
	Date string
	User string
}

type userDayKey struct {
	user string
	date string
}

// ExceededRequestDetails returns one entry per (user, day) on which the user
// had requests flagged as exceeding quota. Entries are ordered most recent
// day first, then by exceeded requests, highest first.
func ExceededRequestDetails(records []models.UsageRecord, filter ExceededFilter) []models.ExceededRequestDetail {
	groups := newOrderedGroups[userDayKey, models.ExceededRequestDetail]()
	for _, r := range records {
		date := r.Day()
		if filter.Date != "" && date != filter.Date {
			continue
		}
		if filter.User != "" && r.User != filter.User {
			continue
		}

		d := groups.get(userDayKey{r.User, date}, func() models.ExceededRequestDetail {
			return models.ExceededRequestDetail{
				User:             r.User,
				Date:             date,
				ModelsUsed:       []string{},
				ExceedingByModel: make(map[string]float64),
			}
		})
		d.TotalRequestsOnDay += r.RequestsUsed
		if !contains(d.ModelsUsed, r.Model) {
			d.ModelsUsed = append(d.ModelsUsed, r.Model)
		}
		if r.ExceedsQuota {
			d.ExceededRequests += r.RequestsUsed
			d.ExceedingByModel[r.Model] += r.RequestsUsed
		} else {
			d.CompliantRequestsOnDay += r.RequestsUsed
		}
	}

	out := make([]models.ExceededRequestDetail, 0)
	for _, d := range groups.values() {
		if d.ExceededRequests > 0 {
			out = append(out, *d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].ExceededRequests > out[j].ExceededRequests
	})
	return out
}

// UserExceededSummary reduces a user's exceeded days into totals and the
// worst day. WorstDay is nil when the user never exceeded.
func UserExceededSummary(records []models.UsageRecord, user string) models.UserExceededSummary {
	details := ExceededRequestDetails(records, ExceededFilter{User: user})
	if len(details) == 0 {
		return models.UserExceededSummary{}
	}

	perDay := make([]float64, 0, len(details))
	worst := details[0]
	for _, d := range details {
		perDay = append(perDay, d.ExceededRequests)
		if d.ExceededRequests > worst.ExceededRequests {
			worst = d
		}
	}
	total, _ := stats.Sum(perDay)
	avg, _ := stats.Mean(perDay)

	return models.UserExceededSummary{
		TotalExceededDays:     len(details),
		TotalExceededRequests: total,
		AverageExceededPerDay: avg,
		WorstDay: &models.WorstDay{
			Date:             worst.Date,
			ExceededRequests: worst.ExceededRequests,
			TotalRequests:    worst.TotalRequestsOnDay,
		},
	}
}

// UsersExceedingQuota counts users whose summed requests are strictly above
// the plan limit. The per-record ExceedsQuota flag is ignored: it reflects
// billing state at capture time and undercounts users who only cross the
// limit cumulatively.
func (e *Engine) UsersExceedingQuota(records []models.UsageRecord, plan models.Plan) int {
	return len(e.overLimitUsers(records, plan))
}

// RequestsForUsersExceedingQuota sums the entire usage of the users counted
// by UsersExceedingQuota.
func (e *Engine) RequestsForUsersExceedingQuota(records []models.UsageRecord, plan models.Plan) float64 {
	var sum float64
	for _, total := range e.overLimitUsers(records, plan) {
		sum += total
	}
	return sum
}

func (e *Engine) overLimitUsers(records []models.UsageRecord, plan models.Plan) []float64 {
	limit := e.Limit(plan)
	users, totals := userTotals(records)
	var over []float64
	for _, u := range users {
		if totals[u] > limit {
			over = append(over, totals[u])
		}
	}
	return over
}

// FlaggedExceedingRequests sums only the records flagged as exceeding quota.
func FlaggedExceedingRequests(records []models.UsageRecord) float64 {
	var sum float64
	for _, r := range records {
		if r.ExceedsQuota {
			sum += r.RequestsUsed
		}
	}
	return sum
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
