// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all application configuration.
type Config struct {
	// HTTP Server
	HTTPPort            string        `env:"HTTP_PORT"             envDefault:"8080"`
	HTTPReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT"     envDefault:"15s"`
	HTTPWriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT"    envDefault:"15s"`
	HTTPIdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT"     envDefault:"60s"`
	HTTPShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:5173"`

	// Database
	DatabasePath string `env:"DATABASE_PATH" envDefault:"./data/depreciation.db"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Projections
	ProjectionYears int `env:"PROJECTION_YEARS" envDefault:"10"`

	// Snapshots
	SnapshotEnabled  bool          `env:"SNAPSHOT_ENABLED"  envDefault:"true"`
	SnapshotInterval time.Duration `env:"SNAPSHOT_INTERVAL" envDefault:"1h"`
	SnapshotPersist  bool          `env:"SNAPSHOT_PERSIST"  envDefault:"true"`
}

// MaxProjectionYears bounds PROJECTION_YEARS and the HTTP range limit.
const MaxProjectionYears = 100

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the server can't run with.
func (c *Config) Validate() error {
	if c.ProjectionYears < 1 || c.ProjectionYears > MaxProjectionYears {
		return fmt.Errorf("PROJECTION_YEARS must be between 1 and %d, got %d", MaxProjectionYears, c.ProjectionYears)
	}
	if c.SnapshotEnabled && c.SnapshotInterval <= 0 {
		return fmt.Errorf("SNAPSHOT_INTERVAL must be positive, got %s", c.SnapshotInterval)
	}
	if strings.TrimSpace(c.DatabasePath) == "" {
		return fmt.Errorf("DATABASE_PATH must not be empty")
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.HTTPPort
}
