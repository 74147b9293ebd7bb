package models

// ModelSummary aggregates usage for one display model.
type ModelSummary struct {
	Model               string  `json:"model"`
	DisplayName         string  `json:"display_name"`
	TotalRequests       float64 `json:"total_requests"`
	CompliantRequests   float64 `json:"compliant_requests"`
	ExceedingRequests   float64 `json:"exceeding_requests"`
	Multiplier          float64 `json:"multiplier"`
	IndividualPlanLimit float64 `json:"individual_plan_limit"`
	BusinessPlanLimit   float64 `json:"business_plan_limit"`
	EnterprisePlanLimit float64 `json:"enterprise_plan_limit"`
	ExcessCost          float64 `json:"excess_cost"`
}

// PlanLimit returns the limit field matching plan, falling back to Business.
func (s ModelSummary) PlanLimit(plan Plan) float64 {
	switch plan {
	case PlanIndividual:
		return s.IndividualPlanLimit
	case PlanEnterprise:
		return s.EnterprisePlanLimit
	default:
		return s.BusinessPlanLimit
	}
}

// Unlimited reports whether requests against this model carry no extra cost.
func (s ModelSummary) Unlimited() bool {
	return s.Multiplier == 0
}
