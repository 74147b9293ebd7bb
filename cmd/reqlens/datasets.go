package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pario-ai/reqlens/pkg/report"
	"github.com/pario-ai/reqlens/pkg/store"
)

func newDatasetsCmd(g *globalFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "datasets",
		Short: "List or delete imported datasets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return listDatasets(cmd, g, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")

	cmd.AddCommand(newDatasetsListCmd(g), newDatasetsDeleteCmd(g))
	return cmd
}

func newDatasetsListCmd(g *globalFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List imported datasets, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return listDatasets(cmd, g, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func listDatasets(cmd *cobra.Command, g *globalFlags, asJSON bool) error {
	cfg, err := g.loadConfig(cmd)
	if err != nil {
		return err
	}
	st, err := store.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer func() { _ = st.Close() }()

	list, err := st.ListDatasets(cmd.Context())
	if err != nil {
		return err
	}
	return emit(cmd.OutOrStdout(), asJSON, list, report.Datasets(list))
}

func newDatasetsDeleteCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a dataset and its records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig(cmd)
			if err != nil {
				return err
			}
			st, err := store.New(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("init store: %w", err)
			}
			defer func() { _ = st.Close() }()

			if err := st.DeleteDataset(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("delete %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted dataset %s\n", args[0])
			return nil
		},
	}
}
