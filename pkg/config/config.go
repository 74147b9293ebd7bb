package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/pario-ai/reqlens/pkg/models"
)

// Config holds all reqlens configuration.
type Config struct {
	Listen string       `yaml:"listen"`
	DBPath string       `yaml:"db_path"`
	Plan   string       `yaml:"plan"`
	Log    LogConfig    `yaml:"log"`
	Server ServerConfig `yaml:"server"`
}

// LogConfig controls log output. Format is "console" or "json".
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	MaxUploadBytes int64         `yaml:"max_upload_bytes"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Listen: ":8080",
		DBPath: "reqlens.db",
		Plan:   string(models.PlanBusiness),
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Server: ServerConfig{
			MaxUploadBytes: 32 << 20,
			ReadTimeout:    30 * time.Second,
		},
	}
}

// LoadEnv loads a .env file from the working directory if one exists.
func LoadEnv() {
	_ = godotenv.Load()
}

// Load reads a YAML config file and expands environment variables. Values
// from a .env file are visible to the expansion.
func Load(path string) (*Config, error) {
	LoadEnv()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultPlan returns the configured plan.
func (c *Config) DefaultPlan() models.Plan {
	p, err := models.ParsePlan(c.Plan)
	if err != nil {
		return models.PlanBusiness
	}
	return p
}

// Validate checks field values that YAML decoding cannot.
func (c *Config) Validate() error {
	var errs []error
	if _, err := models.ParsePlan(c.Plan); err != nil {
		errs = append(errs, fmt.Errorf("plan: %w", err))
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "console", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format: want console or json, got %q", c.Log.Format))
	}
	if c.Server.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("server.max_upload_bytes must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
