package analytics

import (
	"time"

	"github.com/pario-ai/reqlens/pkg/models"
)

func rec(ts, user, model string, requests float64, exceeds bool) models.UsageRecord {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		panic(err)
	}
	return models.UsageRecord{
		Timestamp:         t,
		User:              user,
		Model:             model,
		RequestsUsed:      requests,
		ExceedsQuota:      exceeds,
		TotalMonthlyQuota: "Unlimited",
	}
}

func cloneRecords(in []models.UsageRecord) []models.UsageRecord {
	return append([]models.UsageRecord(nil), in...)
}

// sampleRecords spans two months, four users and a mix of default and
// premium models.
func sampleRecords() []models.UsageRecord {
	return []models.UsageRecord{
		rec("2025-05-30T09:00:00Z", "dana", "claude-sonnet-4", 4, false),
		rec("2025-06-01T10:00:00Z", "alice", "gpt-4o-2024-11-20", 10, false),
		rec("2025-06-01T11:00:00Z", "alice", "claude-opus-4", 5, true),
		rec("2025-06-01T12:00:00Z", "bob", "gpt-4.1-2025-04-14", 20, false),
		rec("2025-06-02T09:00:00Z", "carol", "o3-mini", 3.5, true),
		rec("2025-06-02T10:00:00Z", "alice", "claude-opus-4", 7, true),
		rec("2025-06-03T08:00:00Z", "bob", "claude-sonnet-4", 1, false),
	}
}
