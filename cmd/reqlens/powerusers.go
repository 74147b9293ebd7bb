package main

import (
	"github.com/spf13/cobra"

	"github.com/pario-ai/reqlens/pkg/analytics"
	"github.com/pario-ai/reqlens/pkg/report"
)

func newPowerUsersCmd(g *globalFlags) *cobra.Command {
	var (
		src       sourceFlags
		users     []string
		breakdown bool
	)

	cmd := &cobra.Command{
		Use:   "power-users",
		Short: "Show the top 10% of users by request volume",
		Long: `Show the top 10% of users by request volume.

With --breakdown, print a per-day, per-model table for the power users, or
for the users named with --user.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.loadConfig(cmd)
			if err != nil {
				return err
			}
			recs, err := src.records(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			summary := newEngine().PowerUsers(recs)
			if !breakdown && len(users) == 0 {
				return emit(cmd.OutOrStdout(), src.json, summary, report.PowerUsers(summary))
			}

			names := users
			if len(names) == 0 {
				names = summary.Names()
			}
			days := analytics.PowerUserDailyBreakdown(recs, names)
			return emit(cmd.OutOrStdout(), src.json, days, report.PowerUserBreakdown(days, analytics.UniqueModels(days)))
		},
	}
	src.bind(cmd, false)
	cmd.Flags().BoolVar(&breakdown, "breakdown", false, "print the daily per-model breakdown")
	cmd.Flags().StringArrayVarP(&users, "user", "u", nil, "break down these users instead of the power users (repeatable)")
	return cmd
}
