package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/pario-ai/reqlens/pkg/calendar"
	"github.com/pario-ai/reqlens/pkg/report"
)

type monthsOutput struct {
	Months   []calendar.MonthOption  `json:"months"`
	Coverage *calendar.MonthCoverage `json:"coverage,omitempty"`
}

func newMonthsCmd(g *globalFlags) *cobra.Command {
	var src sourceFlags

	cmd := &cobra.Command{
		Use:   "months",
		Short: "List the months present in the data",
		Long: `List the months present in the data, newest first.

With --month, also report how many days of that month have data.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.loadConfig(cmd)
			if err != nil {
				return err
			}
			recs, err := src.allRecords(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			now := time.Now()
			out := monthsOutput{Months: calendar.AvailableMonths(recs, now)}
			text := report.Months(out.Months)
			if src.month != "" {
				m, err := calendar.ParseMonth(src.month)
				if err != nil {
					return err
				}
				c := calendar.Coverage(recs, m, now)
				out.Coverage = &c
				text += "\n" + report.Coverage(m, c)
			}
			return emit(cmd.OutOrStdout(), src.json, out, text)
		},
	}
	src.bind(cmd, false)
	return cmd
}
