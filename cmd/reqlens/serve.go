package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pario-ai/reqlens/pkg/api"
	"github.com/pario-ai/reqlens/pkg/metrics"
	"github.com/pario-ai/reqlens/pkg/store"
)

func newServeCmd(g *globalFlags) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analytics as a JSON HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.loadConfig(cmd)
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.Listen = listen
			}
			logger := g.logger(cfg)

			st, err := store.New(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("init store: %w", err)
			}
			defer func() { _ = st.Close() }()

			router := api.NewRouter(api.RouterDeps{
				Store:          st,
				Engine:         newEngine(),
				Metrics:        metrics.New(),
				Logger:         logger,
				DefaultPlan:    cfg.DefaultPlan(),
				MaxUploadBytes: cfg.Server.MaxUploadBytes,
			})

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return api.NewServer(cfg.Listen, router, cfg.Server.ReadTimeout, logger).ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVarP(&listen, "listen", "l", "", "listen address (overrides config)")
	return cmd
}
