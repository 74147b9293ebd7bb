// Package report renders analytics views as plain-text tables for the CLI
// and the MCP tools.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pario-ai/reqlens/pkg/calendar"
	"github.com/pario-ai/reqlens/pkg/models"
)

// Datasets lists imported datasets.
func Datasets(rows []models.Dataset) string {
	if len(rows) == 0 {
		return "No datasets imported."
	}
	t := newTable("ID", "NAME", "RECORDS", "FIRST DAY", "LAST DAY", "IMPORTED")
	for _, d := range rows {
		t.row(d.ID, d.Name, strconv.Itoa(d.RecordCount), d.FirstDate, d.LastDate,
			d.ImportedAt.Format("2006-01-02 15:04:05"))
	}
	return t.String()
}

// Daily renders the per-day, per-model aggregation.
func Daily(rows []models.DailyModelAggregate) string {
	if len(rows) == 0 {
		return "No usage data found."
	}
	t := newTable("DATE", "MODEL", "COMPLIANT", "EXCEEDING", "TOTAL")
	for _, r := range rows {
		t.row(r.Date, r.Model, Num(r.CompliantRequests), Num(r.ExceedingRequests),
			Num(r.CompliantRequests+r.ExceedingRequests))
	}
	return t.String()
}

// Models renders the model summary with the plan limit column for plan and
// a totals footer.
func Models(rows []models.ModelSummary, plan models.Plan) string {
	if len(rows) == 0 {
		return "No usage data found."
	}
	t := newTable("MODEL", "TOTAL", "COMPLIANT", "EXCEEDING", "MULTIPLIER", strings.ToUpper(string(plan))+" LIMIT", "EXCESS COST")
	var total, compliant, exceeding, cost float64
	for _, r := range rows {
		limit := "Unlimited"
		if !r.Unlimited() {
			limit = Num(r.PlanLimit(plan))
		}
		t.row(r.Model, Num(r.TotalRequests), Num(r.CompliantRequests), Num(r.ExceedingRequests),
			Multiplier(r.Multiplier), limit, Money(r.ExcessCost))
		total += r.TotalRequests
		compliant += r.CompliantRequests
		exceeding += r.ExceedingRequests
		cost += r.ExcessCost
	}
	t.row("Total", Num(total), Num(compliant), Num(exceeding), "-", "-", Money(cost))
	return t.String()
}

// PowerUsers renders the power-user table and their model split.
func PowerUsers(s models.PowerUserSummary) string {
	if s.TotalPowerUsers == 0 {
		return "No usage data found."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Power users: %d (%s requests)\n\n", s.TotalPowerUsers, Num(s.TotalPowerUserRequests))

	t := newTable("#", "USER", "TOTAL", "EXCEEDING", "MODELS USED", "ACTIVE DAYS")
	for i, u := range s.PowerUsers {
		t.row(strconv.Itoa(i+1), u.User, Num(u.TotalRequests), Num(u.ExceedingRequests),
			strconv.Itoa(len(u.RequestsByModel)), strconv.Itoa(len(u.DailyActivity)))
	}
	b.WriteString(t.String())

	if len(s.PowerUserModelSummary) > 0 {
		b.WriteString("\n")
		m := newTable("MODEL", "REQUESTS", "SHARE")
		for _, r := range s.PowerUserModelSummary {
			m.row(r.Model, Num(r.TotalRequests), percent(r.TotalRequests, s.TotalPowerUserRequests))
		}
		b.WriteString(m.String())
	}
	return b.String()
}

// PowerUserBreakdown renders the per-day compliant/exceeding split of a set
// of users with one column per model.
func PowerUserBreakdown(rows []models.PowerUserDailyBreakdown, modelNames []string) string {
	if len(rows) == 0 {
		return "No activity found for the selected users."
	}
	header := append([]string{"DATE", "COMPLIANT", "EXCEEDING"}, modelNames...)
	t := newTable(header...)
	for _, r := range rows {
		cols := []string{r.Date, Num(r.CompliantRequests), Num(r.ExceedingRequests)}
		for _, m := range modelNames {
			cols = append(cols, Num(r.ByModel[m]))
		}
		t.row(cols...)
	}
	return t.String()
}

// Exceeded renders per user-day exceeded request details.
func Exceeded(rows []models.ExceededRequestDetail) string {
	if len(rows) == 0 {
		return "No requests exceeded quota."
	}
	t := newTable("DATE", "USER", "EXCEEDED", "TOTAL (DAY)", "COMPLIANT", "MODELS USED", "EXCEEDING BY MODEL")
	for _, r := range rows {
		t.row(r.Date, r.User, Num(r.ExceededRequests), Num(r.TotalRequestsOnDay),
			Num(r.CompliantRequestsOnDay), list(r.ModelsUsed), byModel(r.ExceedingByModel))
	}
	return t.String()
}

// UserExceeded renders a single user's exceeded summary.
func UserExceeded(user string, s models.UserExceededSummary) string {
	if s.TotalExceededDays == 0 {
		return fmt.Sprintf("%s never exceeded quota.\n", user)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Exceeded quota for %s\n", user)
	fmt.Fprintf(&b, "  Days:            %d\n", s.TotalExceededDays)
	fmt.Fprintf(&b, "  Requests:        %s\n", Num(s.TotalExceededRequests))
	fmt.Fprintf(&b, "  Average per day: %s\n", Num(s.AverageExceededPerDay))
	if s.WorstDay != nil {
		fmt.Fprintf(&b, "  Worst day:       %s (%s of %s requests)\n",
			s.WorstDay.Date, Num(s.WorstDay.ExceededRequests), Num(s.WorstDay.TotalRequests))
	}
	return b.String()
}

// Projection renders users projected to pass the plan limit and the
// resulting overage.
func Projection(rows []models.ProjectedUserData, overage models.ProjectedOverage, plan models.Plan, limit float64) string {
	if len(rows) == 0 {
		return fmt.Sprintf("No users projected to exceed the %s limit of %s requests.\n", plan, Num(limit))
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d users projected to exceed the %s limit of %s requests\n\n", len(rows), plan, Num(limit))
	t := newTable("#", "USER", "CURRENT", "DAILY AVG", "PROJECTED", "EXCEEDING", "DAYS")
	for i, r := range rows {
		t.row(strconv.Itoa(i+1), r.User, Num(r.CurrentRequests), Num(r.DailyAverage),
			Num(r.ProjectedMonthlyTotal), Num(r.ProjectedMonthlyTotal-limit), strconv.Itoa(r.DaysElapsed))
	}
	b.WriteString(t.String())
	fmt.Fprintf(&b, "\nProjected extra requests: %s (%s)\n", Num(overage.ExtraRequests), Money(overage.ExtraCost))
	return b.String()
}

// Quota renders the headline quota counters.
func Quota(q models.QuotaOverview) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Quota overview (%s plan, %s requests per user)\n", q.Plan, Num(q.PlanLimit))
	if q.LastDate != "" {
		fmt.Fprintf(&b, "  Data through:                 %s\n", q.LastDate)
	}
	fmt.Fprintf(&b, "  Total requests:               %s\n", Num(q.TotalRequests))
	fmt.Fprintf(&b, "  Users:                        %d\n", q.DistinctUsers)
	fmt.Fprintf(&b, "  Users exceeding quota:        %d\n", q.UsersExceedingQuota)
	fmt.Fprintf(&b, "  Requests by those users:      %s\n", Num(q.RequestsForUsersExceeding))
	fmt.Fprintf(&b, "  Flagged exceeding requests:   %s\n", Num(q.FlaggedExceedingRequests))
	fmt.Fprintf(&b, "  Projected to exceed:          %d\n", q.ProjectedUsersExceedingQuota)
	fmt.Fprintf(&b, "  Projected extra requests:     %s (%s)\n", Num(q.ProjectedOverage.ExtraRequests), Money(q.ProjectedOverage.ExtraCost))
	fmt.Fprintf(&b, "  Potential cost (all at rate): %s\n", Money(q.PotentialCost))
	if d := q.Distribution; d.Users > 0 {
		fmt.Fprintf(&b, "  Per-user requests:            mean %s, median %s, p90 %s, max %s\n",
			Num(d.Mean), Num(d.Median), Num(d.P90), Num(d.Max))
	}
	return b.String()
}

// UserAnalysis renders the drill-down for one user.
func UserAnalysis(a models.UserAnalysis) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", a.User)
	fmt.Fprintf(&b, "  Active:        %s to %s\n", a.FirstActivityDate, a.LastActivityDate)
	fmt.Fprintf(&b, "  Requests:      %s (%s compliant, %s exceeding)\n",
		Num(a.TotalRequests), Num(a.CompliantRequests), Num(a.ExceedingRequests))
	fmt.Fprintf(&b, "  Daily average: %s\n", Num(a.DailyAverage))
	fmt.Fprintf(&b, "  Over budget:   %t\n", a.ExceedsFreeBudget)
	fmt.Fprintf(&b, "  Models:        %s\n\n", list(a.UniqueModels))

	t := newTable("WEEK", "FROM", "TO", "COMPLIANT", "EXCEEDING", "TOTAL", "MODELS")
	for _, w := range a.WeeklyBreakdown {
		t.row(fmt.Sprintf("%d-W%02d", w.Year, w.Week), w.StartDate, w.EndDate,
			Num(w.CompliantRequests), Num(w.ExceedingRequests), Num(w.TotalRequests), list(w.ModelsUsed))
	}
	b.WriteString(t.String())
	return b.String()
}

// Months renders the months present in a dataset.
func Months(opts []calendar.MonthOption) string {
	if len(opts) == 0 {
		return "No months found."
	}
	t := newTable("MONTH", "LABEL", "CURRENT")
	for _, o := range opts {
		current := ""
		if o.IsCurrentMonth {
			current = "yes"
		}
		t.row(o.Value, o.Label, current)
	}
	return t.String()
}

// Coverage renders how many days of a month have data.
func Coverage(m calendar.Month, c calendar.MonthCoverage) string {
	s := fmt.Sprintf("%s: %d of %d days with data", m.Label(), c.DaysWithData, c.TotalDays)
	if c.IsCurrentMonth {
		s += " (month in progress)"
	}
	return s + "\n"
}
