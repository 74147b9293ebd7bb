// Package analytics derives the chart and table views from a batch of usage
// records. Every function is pure: inputs are never modified and nothing is
// cached between calls, so an Engine may be shared freely across goroutines.
package analytics

import (
	"math"

	"github.com/pario-ai/reqlens/pkg/models"
)

// Policy constants.
const (
	IndividualPlanLimit = 50
	BusinessPlanLimit   = 300
	EnterprisePlanLimit = 1000
	ExcessRequestCost   = 0.04
	PowerUserFraction   = 0.1
	DefaultModelLabel   = "Default"
)

// DefaultPolicy returns the built-in plan limits and model multipliers.
func DefaultPolicy() models.Policy {
	return models.Policy{
		PlanLimits: map[models.Plan]float64{
			models.PlanIndividual: IndividualPlanLimit,
			models.PlanBusiness:   BusinessPlanLimit,
			models.PlanEnterprise: EnterprisePlanLimit,
		},
		Multipliers: map[string]float64{
			"gpt-4o-2024-11-20":          0,
			"gpt-4.1-2025-04-14":         0,
			"gpt-4o":                     0,
			"gpt-4.1":                    0,
			"gpt-4.1-vision":             0,
			"gpt-4.5":                    50,
			"claude-sonnet-3.5":          1,
			"claude-sonnet-3.7":          1,
			"claude-sonnet-3.7-thinking": 1.25,
			"claude-sonnet-4":            1,
			"claude-opus-4":              10,
			"gemini-2.0-flash":           0.25,
			"gemini-2.5-pro":             1,
			"o1":                         10,
			"o3":                         1,
			"o3-mini":                    0.33,
			"o3-mini-2025-01-31":         0.33,
			"o4-mini":                    0.33,
			"o4-mini-2025-04-16":         0.33,
		},
		DefaultModels:     []string{"gpt-4o-2024-11-20", "gpt-4.1-2025-04-14"},
		DefaultLabel:      DefaultModelLabel,
		ExcessRequestCost: ExcessRequestCost,
		PowerUserFraction: PowerUserFraction,
	}
}

// Engine computes the policy-dependent views. Construct it with New; the
// zero value is not usable.
type Engine struct {
	policy   models.Policy
	defaults map[string]bool
}

// New returns an Engine owning a private copy of policy. Missing fields are
// filled from DefaultPolicy.
func New(policy models.Policy) *Engine {
	def := DefaultPolicy()
	p := models.Policy{
		PlanLimits:        make(map[models.Plan]float64, len(def.PlanLimits)),
		Multipliers:       make(map[string]float64, len(policy.Multipliers)),
		DefaultModels:     append([]string(nil), policy.DefaultModels...),
		DefaultLabel:      policy.DefaultLabel,
		ExcessRequestCost: policy.ExcessRequestCost,
		PowerUserFraction: policy.PowerUserFraction,
	}
	for k, v := range def.PlanLimits {
		p.PlanLimits[k] = v
	}
	for k, v := range policy.PlanLimits {
		p.PlanLimits[k] = v
	}
	for k, v := range policy.Multipliers {
		p.Multipliers[k] = v
	}
	if policy.Multipliers == nil {
		p.Multipliers = def.Multipliers
	}
	if policy.DefaultModels == nil {
		p.DefaultModels = def.DefaultModels
	}
	if p.ExcessRequestCost == 0 {
		p.ExcessRequestCost = def.ExcessRequestCost
	}
	if p.DefaultLabel == "" {
		p.DefaultLabel = def.DefaultLabel
	}
	if p.PowerUserFraction <= 0 {
		p.PowerUserFraction = def.PowerUserFraction
	}

	defaults := make(map[string]bool, len(p.DefaultModels))
	for _, m := range p.DefaultModels {
		defaults[m] = true
	}
	return &Engine{policy: p, defaults: defaults}
}

// NewDefault returns an Engine running the built-in policy.
func NewDefault() *Engine {
	return New(DefaultPolicy())
}

// Multiplier returns the cost weight of model. Default models weigh 0 and
// unlisted models weigh 1.
func (e *Engine) Multiplier(model string) float64 {
	if e.defaults[model] {
		return 0
	}
	if m, ok := e.policy.Multipliers[model]; ok {
		return m
	}
	return 1
}

// IsDefaultModel reports whether model is grouped under the default label.
func (e *Engine) IsDefaultModel(model string) bool {
	return e.defaults[model]
}

// Limit returns the monthly request limit for plan, using the Business limit
// for unknown plans.
func (e *Engine) Limit(plan models.Plan) float64 {
	if l, ok := e.policy.PlanLimits[plan]; ok {
		return l
	}
	return e.policy.PlanLimits[models.PlanBusiness]
}

// UnitCost returns the price of one excess request.
func (e *Engine) UnitCost() float64 {
	return e.policy.ExcessRequestCost
}

// powerUserCount returns how many of n users form the top fraction, at least
// one when n > 0.
func (e *Engine) powerUserCount(n int) int {
	if n == 0 {
		return 0
	}
	// Rounding first keeps 30*0.1 at 3 instead of 3.0000000000000004.
	raw := math.Round(float64(n)*e.policy.PowerUserFraction*1e9) / 1e9
	count := int(math.Ceil(raw))
	if count < 1 {
		count = 1
	}
	if count > n {
		count = n
	}
	return count
}
