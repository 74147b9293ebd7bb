package main

import (
	"github.com/spf13/cobra"

	"github.com/pario-ai/reqlens/pkg/analytics"
	"github.com/pario-ai/reqlens/pkg/report"
)

func newDailyCmd(g *globalFlags) *cobra.Command {
	var src sourceFlags

	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Show compliant and exceeding requests per day and model",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.loadConfig(cmd)
			if err != nil {
				return err
			}
			recs, err := src.records(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			rows := analytics.AggregateByDay(recs)
			return emit(cmd.OutOrStdout(), src.json, rows, report.Daily(rows))
		},
	}
	src.bind(cmd, false)
	return cmd
}
