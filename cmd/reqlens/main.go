package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pario-ai/reqlens/pkg/config"
)

var version = "dev"

func main() {
	config.LoadEnv()
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:           "reqlens",
		Short:         "reqlens: premium request usage analytics for AI coding assistants",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&g.configPath, "config", "c", "reqlens.yaml", "path to config file")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "log level (overrides config)")

	root.AddCommand(
		newImportCmd(g),
		newDatasetsCmd(g),
		newDailyCmd(g),
		newModelsCmd(g),
		newPowerUsersCmd(g),
		newExceededCmd(g),
		newQuotaCmd(g),
		newProjectCmd(g),
		newUserCmd(g),
		newMonthsCmd(g),
		newOverviewCmd(g),
		newServeCmd(g),
		newMCPCmd(g),
		newVersionCmd(),
	)
	return root
}
