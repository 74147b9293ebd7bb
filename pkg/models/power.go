package models

// PowerUserData is the breakdown for a single power user.
type PowerUserData struct {
	User              string             `json:"user"`
	TotalRequests     float64            `json:"total_requests"`
	ExceedingRequests float64            `json:"exceeding_requests"`
	RequestsByModel   map[string]float64 `json:"requests_by_model"`
	DailyActivity     []DailyRequests    `json:"daily_activity"`
}

// PowerUserSummary is the top decile of users by total usage.
type PowerUserSummary struct {
	PowerUsers             []PowerUserData `json:"power_users"`
	TotalPowerUsers        int             `json:"total_power_users"`
	TotalPowerUserRequests float64         `json:"total_power_user_requests"`
	PowerUserModelSummary  []ModelSummary  `json:"power_user_model_summary"`
}

// Names returns the power user names in rank order.
func (s PowerUserSummary) Names() []string {
	names := make([]string, 0, len(s.PowerUsers))
	for _, u := range s.PowerUsers {
		names = append(names, u.User)
	}
	return names
}

// PowerUserDailyBreakdown is one day of activity across a set of users,
// split by compliance and by model.
type PowerUserDailyBreakdown struct {
	Date              string             `json:"date"`
	CompliantRequests float64            `json:"compliant_requests"`
	ExceedingRequests float64            `json:"exceeding_requests"`
	ByModel           map[string]float64 `json:"by_model"`
}
