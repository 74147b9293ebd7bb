package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pario-ai/reqlens/pkg/analytics"
	"github.com/pario-ai/reqlens/pkg/models"
	"github.com/pario-ai/reqlens/pkg/report"
)

type exceededOutput struct {
	Details []models.ExceededRequestDetail `json:"details"`
	Summary *models.UserExceededSummary    `json:"summary,omitempty"`
}

func newExceededCmd(g *globalFlags) *cobra.Command {
	var (
		src  sourceFlags
		date string
		user string
	)

	cmd := &cobra.Command{
		Use:   "exceeded",
		Short: "List user-days with requests that exceeded quota",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if date != "" {
				if _, err := time.Parse(models.DateLayout, date); err != nil {
					return fmt.Errorf("invalid --date %q: want YYYY-MM-DD", date)
				}
			}
			cfg, err := g.loadConfig(cmd)
			if err != nil {
				return err
			}
			recs, err := src.records(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			out := exceededOutput{
				Details: analytics.ExceededRequestDetails(recs, analytics.ExceededFilter{Date: date, User: user}),
			}
			text := report.Exceeded(out.Details)
			if user != "" {
				s := analytics.UserExceededSummary(recs, user)
				out.Summary = &s
				text = report.UserExceeded(user, s) + "\n" + text
			}
			return emit(cmd.OutOrStdout(), src.json, out, text)
		},
	}
	src.bind(cmd, false)
	cmd.Flags().StringVar(&date, "date", "", "only this day (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&user, "user", "u", "", "only this user, with a summary")
	return cmd
}
