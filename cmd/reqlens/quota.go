package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pario-ai/reqlens/pkg/analytics"
	"github.com/pario-ai/reqlens/pkg/models"
	"github.com/pario-ai/reqlens/pkg/report"
)

type quotaOutput struct {
	Plan                      models.Plan `json:"plan"`
	PlanLimit                 float64     `json:"plan_limit"`
	UsersExceedingQuota       int         `json:"users_exceeding_quota"`
	RequestsForUsersExceeding float64     `json:"requests_for_users_exceeding"`
	FlaggedExceedingRequests  float64     `json:"flagged_exceeding_requests"`
}

func newQuotaCmd(g *globalFlags) *cobra.Command {
	var src sourceFlags

	cmd := &cobra.Command{
		Use:   "quota",
		Short: "Count users over the plan limit and flagged exceeding requests",
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
			out := quotaOutput{
				Plan:                      plan,
				PlanLimit:                 e.Limit(plan),
				UsersExceedingQuota:       e.UsersExceedingQuota(recs, plan),
				RequestsForUsersExceeding: e.RequestsForUsersExceedingQuota(recs, plan),
				FlaggedExceedingRequests:  analytics.FlaggedExceedingRequests(recs),
			}

			var b strings.Builder
			fmt.Fprintf(&b, "%s plan limit: %s requests per user\n", plan, report.Num(out.PlanLimit))
			fmt.Fprintf(&b, "Users exceeding quota:   %d\n", out.UsersExceedingQuota)
			fmt.Fprintf(&b, "Requests by those users: %s\n", report.Num(out.RequestsForUsersExceeding))
			fmt.Fprintf(&b, "Flagged exceeding:       %s\n", report.Num(out.FlaggedExceedingRequests))
			return emit(cmd.OutOrStdout(), src.json, out, b.String())
		},
	}
	src.bind(cmd, true)
	return cmd
}
