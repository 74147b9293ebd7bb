package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pario-ai/reqlens/pkg/models"
)

func TestExceededRequestDetails(t *testing.T) {
	got := ExceededRequestDetails(sampleRecords(), ExceededFilter{})
	require.Len(t, got, 3)

	assert.Equal(t, "2025-06-02", got[0].Date)
	assert.Equal(t, "alice", got[0].User)
	assert.Equal(t, 7.0, got[0].ExceededRequests)
	assert.Equal(t, "carol", got[1].User)
	assert.Equal(t, 3.5, got[1].ExceededRequests)

	first := got[2]
	assert.Equal(t, models.ExceededRequestDetail{
		User:                   "alice",
		Date:                   "2025-06-01",
		ExceededRequests:       5,
		TotalRequestsOnDay:     15,
		CompliantRequestsOnDay: 10,
		ModelsUsed:             []string{"gpt-4o-2024-11-20", "claude-opus-4"},
		ExceedingByModel:       map[string]float64{"claude-opus-4": 5},
	}, first)
}

func TestExceededRequestDetailsFilters(t *testing.T) {
	byDate := ExceededRequestDetails(sampleRecords(), ExceededFilter{Date: "2025-06-02"})
	require.Len(t, byDate, 2)
	for _, d := range byDate {
		assert.Equal(t, "2025-06-02", d.Date)
	}

	byUser := ExceededRequestDetails(sampleRecords(), ExceededFilter{User: "alice"})
	require.Len(t, byUser, 2)
	for _, d := range byUser {
		assert.Equal(t, "alice", d.User)
	}

	both := ExceededRequestDetails(sampleRecords(), ExceededFilter{Date: "2025-06-01", User: "carol"})
	assert.Empty(t, both)

	assert.Empty(t, ExceededRequestDetails(sampleRecords(), ExceededFilter{User: "bob"}))
}

func TestUserExceededSummary(t *testing.T) {
	got := UserExceededSummary(sampleRecords(), "alice")
	assert.Equal(t, 2, got.TotalExceededDays)
	assert.Equal(t, 12.0, got.TotalExceededRequests)
	assert.Equal(t, 6.0, got.AverageExceededPerDay)
	require.NotNil(t, got.WorstDay)
	assert.Equal(t, models.WorstDay{Date: "2025-06-02", ExceededRequests: 7, TotalRequests: 7}, *got.WorstDay)

	none := UserExceededSummary(sampleRecords(), "bob")
	assert.Equal(t, 0, none.TotalExceededDays)
	assert.Nil(t, none.WorstDay)
}

func TestUsersExceedingQuotaIgnoresFlag(t *testing.T) {
	var records []models.UsageRecord
	for i := 0; i < 19; i++ {
		records = append(records, rec("2025-06-01T10:00:00Z", "heavy", "o3", 20, false))
	}
	records = append(records,
		rec("2025-06-02T10:00:00Z", "heavy", "o3", 20, true),
		rec("2025-06-02T10:00:00Z", "light", "o3", 299, false),
	)
	e := NewDefault()

	assert.Equal(t, 1, e.UsersExceedingQuota(records, models.PlanBusiness))
	assert.Equal(t, 400.0, e.RequestsForUsersExceedingQuota(records, models.PlanBusiness))
	assert.Equal(t, 20.0, FlaggedExceedingRequests(records))

	assert.Equal(t, 2, e.UsersExceedingQuota(records, models.PlanIndividual))
	assert.Equal(t, 699.0, e.RequestsForUsersExceedingQuota(records, models.PlanIndividual))
	assert.Equal(t, 0, e.UsersExceedingQuota(records, models.PlanEnterprise))

	// Unknown plans are judged against the Business limit.
	assert.Equal(t, 1, e.UsersExceedingQuota(records, models.Plan("Team")))
}

func TestUsersExceedingQuotaBoundary(t *testing.T) {
	records := []models.UsageRecord{rec("2025-06-01T10:00:00Z", "u", "o3", 300, true)}
	e := NewDefault()
	assert.Equal(t, 0, e.UsersExceedingQuota(records, models.PlanBusiness))
	assert.Equal(t, 0.0, e.RequestsForUsersExceedingQuota(records, models.PlanBusiness))
	assert.Equal(t, 300.0, FlaggedExceedingRequests(records))
}
