package models

// ExceededRequestDetail describes one user-day with requests past quota.
type ExceededRequestDetail struct {
	User                   string             `json:"user"`
	Date                   string             `json:"date"`
	ExceededRequests       float64            `json:"exceeded_requests"`
	TotalRequestsOnDay     float64            `json:"total_requests_on_day"`
	CompliantRequestsOnDay float64            `json:"compliant_requests_on_day"`
	ModelsUsed             []string           `json:"models_used"`
	ExceedingByModel       map[string]float64 `json:"exceeding_by_model"`
}

// WorstDay is the single day with the most exceeded requests for a user.
type WorstDay struct {
	Date             string  `json:"date"`
	ExceededRequests float64 `json:"exceeded_requests"`
	TotalRequests    float64 `json:"total_requests"`
}

// UserExceededSummary reduces a user's exceeded details.
type UserExceededSummary struct {
	TotalExceededDays     int       `json:"total_exceeded_days"`
	TotalExceededRequests float64   `json:"total_exceeded_requests"`
	AverageExceededPerDay float64   `json:"average_exceeded_per_day"`
	WorstDay              *WorstDay `json:"worst_day"`
}

// ProjectedUserData is a user expected to pass the plan limit by month end.
type ProjectedUserData struct {
	User                  string  `json:"user"`
	CurrentRequests       float64 `json:"current_requests"`
	ProjectedMonthlyTotal float64 `json:"projected_monthly_total"`
	DaysElapsed           int     `json:"days_elapsed"`
	DailyAverage          float64 `json:"daily_average"`
}

// ProjectedOverage totals the requests and cost above the plan limit across
// projected users.
type ProjectedOverage struct {
	Users         int     `json:"users"`
	ExtraRequests float64 `json:"extra_requests"`
	ExtraCost     float64 `json:"extra_cost"`
}

// Distribution summarises per-user request totals.
type Distribution struct {
	Users  int     `json:"users"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	P90    float64 `json:"p90"`
	Max    float64 `json:"max"`
}

// QuotaOverview bundles the headline quota counters for a plan.
type QuotaOverview struct {
	Plan                         Plan             `json:"plan"`
	PlanLimit                    float64          `json:"plan_limit"`
	TotalRequests                float64          `json:"total_requests"`
	DistinctUsers                int              `json:"distinct_users"`
	UsersExceedingQuota          int              `json:"users_exceeding_quota"`
	RequestsForUsersExceeding    float64          `json:"requests_for_users_exceeding"`
	FlaggedExceedingRequests     float64          `json:"flagged_exceeding_requests"`
	ProjectedUsersExceedingQuota int              `json:"projected_users_exceeding_quota"`
	ProjectedOverage             ProjectedOverage `json:"projected_overage"`
	PotentialCost                float64          `json:"potential_cost"`
	LastDate                     string           `json:"last_date,omitempty"`
	Distribution                 Distribution     `json:"distribution"`
}
