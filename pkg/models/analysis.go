package models

// UserWeeklyData is one ISO week of a single user's activity.
type UserWeeklyData struct {
	Year              int      `json:"year"`
	Week              int      `json:"week"`
	StartDate         string   `json:"start_date"`
	EndDate           string   `json:"end_date"`
	CompliantRequests float64  `json:"compliant_requests"`
	ExceedingRequests float64  `json:"exceeding_requests"`
	TotalRequests     float64  `json:"total_requests"`
	ModelsUsed        []string `json:"models_used"`
}

// UserAnalysis is the drill-down view for one user.
type UserAnalysis struct {
	User              string           `json:"user"`
	TotalRequests     float64          `json:"total_requests"`
	CompliantRequests float64          `json:"compliant_requests"`
	ExceedingRequests float64          `json:"exceeding_requests"`
	ExceedsFreeBudget bool             `json:"exceeds_free_budget"`
	UniqueModels      []string         `json:"unique_models"`
	WeeklyBreakdown   []UserWeeklyData `json:"weekly_breakdown"`
	DailyAverage      float64          `json:"daily_average"`
	FirstActivityDate string           `json:"first_activity_date"`
	LastActivityDate  string           `json:"last_activity_date"`
}
