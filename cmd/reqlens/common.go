package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pario-ai/reqlens/pkg/analytics"
	"github.com/pario-ai/reqlens/pkg/calendar"
	"github.com/pario-ai/reqlens/pkg/config"
	"github.com/pario-ai/reqlens/pkg/ingest"
	"github.com/pario-ai/reqlens/pkg/logging"
	"github.com/pario-ai/reqlens/pkg/models"
	"github.com/pario-ai/reqlens/pkg/store"
)

// globalFlags holds the persistent root flags.
type globalFlags struct {
	configPath string
	logLevel   string
}

// loadConfig reads the config file. A missing file at the default path
// means defaults; a missing file the user named is an error.
func (g *globalFlags) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(g.configPath)
	if errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("config") {
		cfg = config.Default()
		err = nil
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	return cfg, nil
}

func (g *globalFlags) logger(cfg *config.Config) zerolog.Logger {
	return logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
}

// sourceFlags selects the records an analysis command runs on.
type sourceFlags struct {
	file    string
	dataset string
	month   string
	plan    string
	json    bool
}

func (s *sourceFlags) bind(cmd *cobra.Command, withPlan bool) {
	cmd.Flags().StringVarP(&s.file, "file", "f", "", "analyse a CSV export directly instead of a stored dataset")
	cmd.Flags().StringVarP(&s.dataset, "dataset", "d", "", "stored dataset ID (default: latest import)")
	cmd.Flags().StringVarP(&s.month, "month", "m", "", "restrict to a month (YYYY-MM)")
	cmd.Flags().BoolVar(&s.json, "json", false, "print JSON instead of a table")
	if withPlan {
		cmd.Flags().StringVarP(&s.plan, "plan", "p", "", "plan limit to apply: Individual, Business or Enterprise (default from config)")
	}
}

// records loads the selected records, narrowed to --month.
func (s *sourceFlags) records(ctx context.Context, cfg *config.Config) ([]models.UsageRecord, error) {
	var month calendar.Month
	if s.month != "" {
		m, err := calendar.ParseMonth(s.month)
		if err != nil {
			return nil, err
		}
		month = m
	}

	recs, err := s.allRecords(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if s.month != "" {
		recs = calendar.FilterByMonth(recs, month)
	}
	return recs, nil
}

// allRecords loads the selected records ignoring --month.
func (s *sourceFlags) allRecords(ctx context.Context, cfg *config.Config) ([]models.UsageRecord, error) {
	if s.file != "" {
		return parseFile(s.file)
	}

	st, err := store.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}
	defer func() { _ = st.Close() }()

	var ds models.Dataset
	if s.dataset == "" {
		ds, err = st.Latest(ctx)
		if errors.Is(err, store.ErrDatasetNotFound) {
			return nil, errors.New("no datasets imported yet; run `reqlens import <file.csv>` or pass --file")
		}
	} else {
		ds, err = st.Dataset(ctx, s.dataset)
	}
	if err != nil {
		return nil, fmt.Errorf("dataset %q: %w", s.dataset, err)
	}
	return st.Records(ctx, ds.ID)
}

func (s *sourceFlags) resolvePlan(cfg *config.Config) (models.Plan, error) {
	if s.plan == "" {
		return cfg.DefaultPlan(), nil
	}
	return models.ParsePlan(s.plan)
}

func parseFile(path string) ([]models.UsageRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open export: %w", err)
	}
	defer f.Close()

	recs, err := ingest.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return recs, nil
}

// emit writes v as indented JSON when asJSON is set, text otherwise.
func emit(w io.Writer, asJSON bool, v any, text string) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	_, err := io.WriteString(w, text)
	if err == nil && len(text) > 0 && text[len(text)-1] != '\n' {
		_, err = io.WriteString(w, "\n")
	}
	return err
}

// newEngine returns the engine every command runs against.
func newEngine() *analytics.Engine {
	return analytics.NewDefault()
}
