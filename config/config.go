// Package config loads the application configuration from the environment.
// File: config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the full application configuration.
type Config struct {
	Env            string   `env:"APP_ENV" envDefault:"development"`
	Port           string   `env:"PORT" envDefault:"8080"`
	ApplicationURL string   `env:"APPLICATION_URL" envDefault:"http://localhost:8080"`
	SessionSecret  string   `env:"SESSION_SECRET" envDefault:"dev-session-secret"`
	LogDir         string   `env:"LOG_DIR" envDefault:"logs"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`

	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"file"`
	SnapshotSlot  string `env:"SNAPSHOT_SLOT" envDefault:"badmintonApp"`
	DataDir       string `env:"DATA_DIR" envDefault:"data"`
	SQLitePath    string `env:"SQLITE_PATH" envDefault:"data/club.db"`
	PostgresDSN   string `env:"POSTGRES_DSN"`
	S3Bucket      string `env:"S3_BUCKET"`
	S3Region      string `env:"S3_REGION" envDefault:"ap-southeast-1"`
	S3Prefix      string `env:"S3_PREFIX" envDefault:"snapshots"`

	MetricsEnabled   bool   `env:"METRICS_ENABLED" envDefault:"false"`
	MetricsNamespace string `env:"METRICS_NAMESPACE" envDefault:"BadmintonClub"`
	TracingEnabled   bool   `env:"TRACING_ENABLED" envDefault:"false"`
}

// IsProduction reports whether the app runs with APP_ENV=production.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads an optional .env file, then parses the environment.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse reads the configuration from environment variables only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.StorageDriver = strings.ToLower(strings.TrimSpace(cfg.StorageDriver))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks settings that depend on each other.
func (c Config) Validate() error {
	if strings.TrimSpace(c.SnapshotSlot) == "" {
		return fmt.Errorf("SNAPSHOT_SLOT must not be empty")
	}
	switch c.StorageDriver {
	case "file", "memory", "sqlite":
	case "postgres":
		if c.PostgresDSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required for the postgres storage driver")
		}
	case "s3":
		if c.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required for the s3 storage driver")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.IsProduction() && c.SessionSecret == "dev-session-secret" {
		return fmt.Errorf("SESSION_SECRET must be set in production")
	}
	return nil
}
