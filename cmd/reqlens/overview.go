package main

import (
	"github.com/spf13/cobra"

	"github.com/pario-ai/reqlens/pkg/report"
)

func newOverviewCmd(g *globalFlags) *cobra.Command {
	var src sourceFlags

	cmd := &cobra.Command{
		Use:   "overview",
		Short: "Show every headline quota counter, projection and cost at once",
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
			q := newEngine().QuotaOverview(recs, plan)
			return emit(cmd.OutOrStdout(), src.json, q, report.Quota(q))
		},
	}
	src.bind(cmd, true)
	return cmd
}
