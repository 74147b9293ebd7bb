package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pario-ai/reqlens/pkg/analytics"
	"github.com/pario-ai/reqlens/pkg/models"
	"github.com/pario-ai/reqlens/pkg/report"
)

type userOutput struct {
	Analysis models.UserAnalysis        `json:"analysis"`
	Exceeded models.UserExceededSummary `json:"exceeded"`
}

func newUserCmd(g *globalFlags) *cobra.Command {
	var src sourceFlags

	cmd := &cobra.Command{
		Use:   "user <name>",
		Short: "Show one user's totals, weekly breakdown and exceeded-quota summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig(cmd)
			if err != nil {
				return err
			}
			recs, err := src.records(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			a, ok := analytics.UserAnalysis(recs, args[0])
			if !ok {
				return fmt.Errorf("no activity found for %s", args[0])
			}
			out := userOutput{Analysis: a, Exceeded: analytics.UserExceededSummary(recs, args[0])}
			text := report.UserAnalysis(a) + "\n" + report.UserExceeded(args[0], out.Exceeded)
			return emit(cmd.OutOrStdout(), src.json, out, text)
		},
	}
	src.bind(cmd, false)
	return cmd
}
