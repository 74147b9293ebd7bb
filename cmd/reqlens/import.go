package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pario-ai/reqlens/pkg/store"
)

func newImportCmd(g *globalFlags) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "import <export.csv>",
		Short: "Parse a premium request CSV export and store it as a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := g.logger(cfg)

			recs, err := parseFile(args[0])
			if err != nil {
				return err
			}

			st, err := store.New(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("init store: %w", err)
			}
			defer func() { _ = st.Close() }()

			ds, err := st.CreateDataset(cmd.Context(), name, recs)
			if err != nil {
				return err
			}
			logger.Info().Str("dataset", ds.ID).Int("records", ds.RecordCount).Msg("dataset imported")

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d records as %s (%s, %s to %s)\n",
				ds.RecordCount, ds.ID, ds.Name, ds.FirstDate, ds.LastDate)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "dataset name (default: import timestamp)")
	return cmd
}
