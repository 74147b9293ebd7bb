package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/pario-ai/reqlens/pkg/calendar"
	"github.com/pario-ai/reqlens/pkg/models"
)

// ProjectedUsers extrapolates each user's usage in the dataset's latest month
// to a full month and returns those projected strictly above the plan limit,
// highest projection first. The latest day in the dataset defines both the
// month and the number of elapsed days.
func (e *Engine) ProjectedUsers(records []models.UsageRecord, plan models.Plan) []models.ProjectedUserData {
	out := make([]models.ProjectedUserData, 0)
	last, ok := LastDate(records)
	if !ok {
		return out
	}
	lastDay, err := time.Parse(models.DateLayout, last)
	if err != nil {
		return out
	}

	month := calendar.MonthOf(lastDay)
	daysElapsed := lastDay.Day()
	daysInMonth := float64(calendar.DaysInMonth(month))
	limit := e.Limit(plan)

	users, totals := userTotals(calendar.FilterByMonth(records, month))
	for _, u := range users {
		current := totals[u]
		avg := current / float64(daysElapsed)
		projected := avg * daysInMonth
		if projected > limit {
			out = append(out, models.ProjectedUserData{
				User:                  u,
				CurrentRequests:       current,
				ProjectedMonthlyTotal: projected,
				DaysElapsed:           daysElapsed,
				DailyAverage:          avg,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ProjectedMonthlyTotal > out[j].ProjectedMonthlyTotal
	})
	return out
}

// ProjectedUsersCount is len(ProjectedUsers(records, plan)).
func (e *Engine) ProjectedUsersCount(records []models.UsageRecord, plan models.Plan) int {
	return len(e.ProjectedUsers(records, plan))
}

// ProjectedOverage totals the requests projected above the plan limit and
// prices them at the excess request cost.
func (e *Engine) ProjectedOverage(projected []models.ProjectedUserData, plan models.Plan) models.ProjectedOverage {
	limit := e.Limit(plan)
	var extra float64
	for _, p := range projected {
		extra += math.Max(0, p.ProjectedMonthlyTotal-limit)
	}
	return models.ProjectedOverage{
		Users:         len(projected),
		ExtraRequests: extra,
		ExtraCost:     extra * e.policy.ExcessRequestCost,
	}
}

// PotentialCost prices every request in records at the excess request cost.
func (e *Engine) PotentialCost(records []models.UsageRecord) float64 {
	return TotalRequests(records) * e.policy.ExcessRequestCost
}

// UserDistribution summarises per-user request totals.
func UserDistribution(records []models.UsageRecord) models.Distribution {
	users, totals := userTotals(records)
	if len(users) == 0 {
		return models.Distribution{}
	}
	data := make(stats.Float64Data, 0, len(users))
	for _, u := range users {
		data = append(data, totals[u])
	}

	d := models.Distribution{Users: len(users)}
	d.Mean, _ = data.Mean()
	d.Median, _ = data.Median()
	d.Max, _ = data.Max()
	p90, err := data.Percentile(90)
	if err != nil {
		// Too few users for an interpolated percentile.
		p90 = d.Max
	}
	d.P90 = p90
	return d
}

// QuotaOverview bundles the headline quota counters for plan.
func (e *Engine) QuotaOverview(records []models.UsageRecord, plan models.Plan) models.QuotaOverview {
	if _, ok := e.policy.PlanLimits[plan]; !ok {
		plan = models.PlanBusiness
	}
	users, _ := userTotals(records)
	projected := e.ProjectedUsers(records, plan)
	last, _ := LastDate(records)

	return models.QuotaOverview{
		Plan:                         plan,
		PlanLimit:                    e.Limit(plan),
		TotalRequests:                TotalRequests(records),
		DistinctUsers:                len(users),
		UsersExceedingQuota:          e.UsersExceedingQuota(records, plan),
		RequestsForUsersExceeding:    e.RequestsForUsersExceedingQuota(records, plan),
		FlaggedExceedingRequests:     FlaggedExceedingRequests(records),
		ProjectedUsersExceedingQuota: len(projected),
		ProjectedOverage:             e.ProjectedOverage(projected, plan),
		PotentialCost:                e.PotentialCost(records),
		LastDate:                     last,
		Distribution:                 UserDistribution(records),
	}
}
