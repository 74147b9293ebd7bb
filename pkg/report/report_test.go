package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pario-ai/reqlens/pkg/calendar"
	"github.com/pario-ai/reqlens/pkg/models"
)

func TestNumberFormatting(t *testing.T) {
	assert.Equal(t, "12", Num(12))
	assert.Equal(t, "2.5", Num(2.5))
	assert.Equal(t, "0.33", Num(1.0/3))
	assert.Equal(t, "$1.20", Money(1.2))
	assert.Equal(t, "$0.00", Money(0))
	assert.Equal(t, "Unlimited", Multiplier(0))
	assert.Equal(t, "0.33x", Multiplier(0.33))
	assert.Equal(t, "10x", Multiplier(10))
}

func TestModels(t *testing.T) {
	rows := []models.ModelSummary{
		{Model: "Default (gpt-4o-2024-11-20)", DisplayName: "Default", TotalRequests: 20, CompliantRequests: 20,
			IndividualPlanLimit: 50, BusinessPlanLimit: 300, EnterprisePlanLimit: 1000},
		{Model: "claude-opus-4", DisplayName: "claude-opus-4", TotalRequests: 5, ExceedingRequests: 3,
			Multiplier: 10, ExcessCost: 1.2, IndividualPlanLimit: 50, BusinessPlanLimit: 300, EnterprisePlanLimit: 1000},
	}
	out := Models(rows, models.PlanEnterprise)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 4)
	assert.Contains(t, lines[0], "ENTERPRISE LIMIT")
	assert.Contains(t, lines[1], "Unlimited")
	assert.Contains(t, lines[2], "1000")
	assert.Contains(t, lines[2], "$1.20")
	assert.Contains(t, lines[3], "Total")
	assert.Contains(t, lines[3], "25")

	assert.Equal(t, "No usage data found.", Models(nil, models.PlanBusiness))
}

func TestExceeded(t *testing.T) {
	out := Exceeded([]models.ExceededRequestDetail{{
		User: "alice", Date: "2025-06-01", ExceededRequests: 5, TotalRequestsOnDay: 15, CompliantRequestsOnDay: 10,
		ModelsUsed:       []string{"o3", "claude-opus-4"},
		ExceedingByModel: map[string]float64{"o3": 2, "claude-opus-4": 3},
	}})
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "o3, claude-opus-4")
	assert.Contains(t, out, "claude-opus-4: 3, o3: 2")
}

func TestUserExceeded(t *testing.T) {
	out := UserExceeded("alice", models.UserExceededSummary{
		TotalExceededDays: 2, TotalExceededRequests: 12, AverageExceededPerDay: 6,
		WorstDay: &models.WorstDay{Date: "2025-06-02", ExceededRequests: 7, TotalRequests: 9},
	})
	assert.Contains(t, out, "2025-06-02 (7 of 9 requests)")
	assert.Equal(t, "bob never exceeded quota.\n", UserExceeded("bob", models.UserExceededSummary{}))
}

func TestProjection(t *testing.T) {
	rows := []models.ProjectedUserData{{User: "steady", CurrentRequests: 100, ProjectedMonthlyTotal: 300, DaysElapsed: 10, DailyAverage: 10}}
	out := Projection(rows, models.ProjectedOverage{Users: 1, ExtraRequests: 250, ExtraCost: 10}, models.PlanIndividual, 50)
	assert.Contains(t, out, "1 users projected to exceed the Individual limit of 50 requests")
	assert.Contains(t, out, "steady")
	assert.Contains(t, out, "Projected extra requests: 250 ($10.00)")

	assert.Contains(t, Projection(nil, models.ProjectedOverage{}, models.PlanBusiness, 300), "No users projected")
}

func TestQuota(t *testing.T) {
	out := Quota(models.QuotaOverview{
		Plan: models.PlanBusiness, PlanLimit: 300, TotalRequests: 1000, DistinctUsers: 4,
		UsersExceedingQuota: 1, PotentialCost: 40, LastDate: "2025-06-30",
		Distribution: models.Distribution{Users: 4, Mean: 250, Median: 200, P90: 400, Max: 450},
	})
	assert.Contains(t, out, "Business plan, 300 requests per user")
	assert.Contains(t, out, "2025-06-30")
	assert.Contains(t, out, "$40.00")
	assert.Contains(t, out, "mean 250, median 200, p90 400, max 450")
}

func TestUserAnalysis(t *testing.T) {
	out := UserAnalysis(models.UserAnalysis{
		User: "eve", TotalRequests: 12, CompliantRequests: 6, ExceedingRequests: 6, ExceedsFreeBudget: true,
		UniqueModels: []string{"o3"}, FirstActivityDate: "2025-06-01", LastActivityDate: "2025-06-04", DailyAverage: 3,
		WeeklyBreakdown: []models.UserWeeklyData{{Year: 2025, Week: 3, StartDate: "2025-01-13", EndDate: "2025-01-19", TotalRequests: 12}},
	})
	assert.Contains(t, out, "2025-06-01 to 2025-06-04")
	assert.Contains(t, out, "2025-W03")
}

func TestDatasetsAndMonths(t *testing.T) {
	out := Datasets([]models.Dataset{{ID: "abc", Name: "june", RecordCount: 3, FirstDate: "2025-06-01",
		LastDate: "2025-06-02", ImportedAt: time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC)}})
	assert.Contains(t, out, "2025-07-01 08:00:00")
	assert.Equal(t, "No datasets imported.", Datasets(nil))

	months := Months([]calendar.MonthOption{{Value: "2025-06", Label: "June 2025", IsCurrentMonth: true}})
	assert.Contains(t, months, "June 2025")
	assert.Contains(t, months, "yes")

	cov := Coverage(calendar.Month{Year: 2025, Month: 6}, calendar.MonthCoverage{DaysWithData: 10, TotalDays: 30})
	assert.Equal(t, "June 2025: 10 of 30 days with data\n", cov)
}

func TestPowerUsers(t *testing.T) {
	out := PowerUsers(models.PowerUserSummary{
		TotalPowerUsers:        1,
		TotalPowerUserRequests: 40,
		PowerUsers: []models.PowerUserData{{
			User: "d", TotalRequests: 40, RequestsByModel: map[string]float64{"o3": 40},
			DailyActivity: []models.DailyRequests{{Date: "2025-06-01", Requests: 40}},
		}},
		PowerUserModelSummary: []models.ModelSummary{{Model: "o3", TotalRequests: 40}},
	})
	assert.Contains(t, out, "Power users: 1 (40 requests)")
	assert.Contains(t, out, "100.0%")

	breakdown := PowerUserBreakdown([]models.PowerUserDailyBreakdown{
		{Date: "2025-06-01", CompliantRequests: 4, ByModel: map[string]float64{"o3": 4}},
	}, []string{"claude-opus-4", "o3"})
	lines := strings.Split(strings.TrimSpace(breakdown), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], "claude-opus-4")
}
