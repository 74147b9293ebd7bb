package models

import "time"

// UsageRecord is a single row of a premium request usage export.
type UsageRecord struct {
	Timestamp         time.Time `json:"timestamp"`
	User              string    `json:"user"`
	Model             string    `json:"model"`
	RequestsUsed      float64   `json:"requests_used"`
	ExceedsQuota      bool      `json:"exceeds_quota"`
	TotalMonthlyQuota string    `json:"total_monthly_quota"`
}

// Day returns the UTC calendar day of the record as YYYY-MM-DD.
func (r UsageRecord) Day() string {
	return r.Timestamp.UTC().Format(DateLayout)
}

// DateLayout is the layout used for every date key in derived views.
const DateLayout = "2006-01-02"

// DailyModelAggregate holds compliant and exceeding totals for one (date, model) pair.
type DailyModelAggregate struct {
	Date              string  `json:"date"`
	Model             string  `json:"model"`
	CompliantRequests float64 `json:"compliant_requests"`
	ExceedingRequests float64 `json:"exceeding_requests"`
}

// DailyModelRequests holds the plain request total for one (date, model) pair.
type DailyModelRequests struct {
	Date     string  `json:"date"`
	Model    string  `json:"model"`
	Requests float64 `json:"requests"`
}

// DailyRequests is a single point of a per-day series.
type DailyRequests struct {
	Date     string  `json:"date"`
	Requests float64 `json:"requests"`
}

// Dataset describes an imported usage export kept in the store.
type Dataset struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	RecordCount int       `json:"record_count"`
	FirstDate   string    `json:"first_date,omitempty"`
	LastDate    string    `json:"last_date,omitempty"`
	ImportedAt  time.Time `json:"imported_at"`
}
