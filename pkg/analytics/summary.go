package analytics

import (
	"sort"
	"strings"

	"github.com/pario-ai/reqlens/pkg/models"
)

type summaryGroup struct {
	summary      models.ModelSummary
	constituents []string
}

// ModelSummary totals requests per model, merging the default models into a
// single row, and prices the exceeding requests. Rows are sorted by total
// requests, highest first.
func (e *Engine) ModelSummary(records []models.UsageRecord) []models.ModelSummary {
	perModel := newOrderedGroups[string, models.ModelSummary]()
	for _, r := range records {
		s := perModel.get(r.Model, func() models.ModelSummary {
			display := r.Model
			if e.IsDefaultModel(r.Model) {
				display = e.policy.DefaultLabel
			}
			return e.newSummary(r.Model, display, e.Multiplier(r.Model))
		})
		s.TotalRequests += r.RequestsUsed
		if r.ExceedsQuota {
			s.ExceedingRequests += r.RequestsUsed
		} else {
			s.CompliantRequests += r.RequestsUsed
		}
	}

	grouped := newOrderedGroups[string, summaryGroup]()
	for _, s := range perModel.values() {
		g := grouped.get(s.DisplayName, func() summaryGroup {
			return summaryGroup{summary: *s}
		})
		if len(g.constituents) > 0 {
			g.summary.TotalRequests += s.TotalRequests
			g.summary.CompliantRequests += s.CompliantRequests
			g.summary.ExceedingRequests += s.ExceedingRequests
		}
		g.constituents = append(g.constituents, s.Model)
	}

	out := make([]models.ModelSummary, 0, grouped.len())
	for _, g := range grouped.values() {
		s := g.summary
		if s.DisplayName == e.policy.DefaultLabel {
			// Limits stay at the plan constants; a 0 multiplier means
			// unlimited and is never divided by.
			limits := e.newSummary("", "", 0)
			s.Multiplier = 0
			s.IndividualPlanLimit = limits.IndividualPlanLimit
			s.BusinessPlanLimit = limits.BusinessPlanLimit
			s.EnterprisePlanLimit = limits.EnterprisePlanLimit
			s.Model = e.defaultGroupLabel(g.constituents)
		}
		s.ExcessCost = s.ExceedingRequests * s.Multiplier * e.policy.ExcessRequestCost
		out = append(out, s)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalRequests > out[j].TotalRequests
	})
	return out
}

func (e *Engine) newSummary(model, display string, multiplier float64) models.ModelSummary {
	return models.ModelSummary{
		Model:               model,
		DisplayName:         display,
		Multiplier:          multiplier,
		IndividualPlanLimit: e.Limit(models.PlanIndividual),
		BusinessPlanLimit:   e.Limit(models.PlanBusiness),
		EnterprisePlanLimit: e.Limit(models.PlanEnterprise),
	}
}

// defaultGroupLabel renders e.g. "Default (gpt-4.1-2025-04-14, gpt-4o-2024-11-20)".
func (e *Engine) defaultGroupLabel(constituents []string) string {
	names := append([]string(nil), constituents...)
	sort.Strings(names)
	return e.policy.DefaultLabel + " (" + strings.Join(names, ", ") + ")"
}
