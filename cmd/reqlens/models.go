package main

import (
	"github.com/spf13/cobra"

	"github.com/pario-ai/reqlens/pkg/report"
)

func newModelsCmd(g *globalFlags) *cobra.Command {
	var src sourceFlags

	cmd := &cobra.Command{
		Use:   "models",
		Short: "Summarise requests, multipliers and excess cost per model",
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
			rows := newEngine().ModelSummary(recs)
			return emit(cmd.OutOrStdout(), src.json, rows, report.Models(rows, plan))
		},
	}
	src.bind(cmd, true)
	return cmd
}
