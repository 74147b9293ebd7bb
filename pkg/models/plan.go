package models

import (
	"fmt"
	"strings"
)

// Plan is a named quota tier with a fixed monthly request limit.
type Plan string

const (
	PlanIndividual Plan = "Individual"
	PlanBusiness   Plan = "Business"
	PlanEnterprise Plan = "Enterprise"
)

// Plans lists the known plans in ascending limit order.
var Plans = []Plan{PlanIndividual, PlanBusiness, PlanEnterprise}

// ParsePlan resolves a plan name case-insensitively.
func ParsePlan(s string) (Plan, error) {
	for _, p := range Plans {
		if strings.EqualFold(string(p), strings.TrimSpace(s)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown plan %q (want Individual, Business or Enterprise)", s)
}

// Policy is the fixed pricing and quota table the analytics engine runs against.
type Policy struct {
	PlanLimits        map[Plan]float64   `json:"plan_limits"`
	Multipliers       map[string]float64 `json:"multipliers"`
	DefaultModels     []string           `json:"default_models"`
	DefaultLabel      string             `json:"default_label"`
	ExcessRequestCost float64            `json:"excess_request_cost"`
	PowerUserFraction float64            `json:"power_user_fraction"`
}
