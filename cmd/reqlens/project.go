package main

import (
	"github.com/spf13/cobra"

	"github.com/pario-ai/reqlens/pkg/models"
	"github.com/pario-ai/reqlens/pkg/report"
)

type projectionOutput struct {
	Plan      models.Plan                `json:"plan"`
	PlanLimit float64                    `json:"plan_limit"`
	Users     []models.ProjectedUserData `json:"users"`
	Overage   models.ProjectedOverage    `json:"overage"`
}

func newProjectCmd(g *globalFlags) *cobra.Command {
	var src sourceFlags

	cmd := &cobra.Command{
		Use:   "project",
		Short: "List users projected to pass the plan limit by month end",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.loadConfig(cmd)
			if err != nil {
				return err
			}
			plan, err := src.resolvePlan(cfg)
			if err != nil {
				return err
			}
			recs, err := src.records(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			e := newEngine()
			users := e.ProjectedUsers(recs, plan)
			out := projectionOutput{
				Plan:      plan,
				PlanLimit: e.Limit(plan),
				Users:     users,
				Overage:   e.ProjectedOverage(users, plan),
			}
			return emit(cmd.OutOrStdout(), src.json, out, report.Projection(users, out.Overage, plan, out.PlanLimit))
		},
	}
	src.bind(cmd, true)
	return cmd
}
