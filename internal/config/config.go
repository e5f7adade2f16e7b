// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Loading functions accept context.Context as the first parameter.
// - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"fmt"
	"strings"

	"github.com/okian/postboard/internal/adapters/repository"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DBDriver selects the database backend: sqlite or postgres.
	// Load lowercases it; Validate expects the exact driver name.
	DBDriver string `koanf:"db_driver"`

	// DBDSN is the driver specific connection string.
	DBDSN string `koanf:"db_dsn"`

	// DBMaxOpenConns caps the connection pool; zero means unlimited.
	DBMaxOpenConns int `koanf:"db_max_open_conns"`

	// DBSlowQueryMS is the threshold above which queries are logged as slow.
	DBSlowQueryMS int `koanf:"db_slow_query_ms"`

	// CORSAllowedOrigins is a comma separated list of origins, "*" allows any.
	CORSAllowedOrigins string `koanf:"cors_allowed_origins"`

	// MetricsEnabled toggles Prometheus recording.
	MetricsEnabled bool `koanf:"metrics_enabled"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":8080",
		DBDriver:           repository.DriverSQLite,
		DBDSN:              "postboard.db",
		DBMaxOpenConns:     10,
		DBSlowQueryMS:      200,
		CORSAllowedOrigins: "*",
		MetricsEnabled:     true,
	}
}

// AllowedOrigins splits CORSAllowedOrigins into its trimmed, non-empty parts.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.DBDSN) == "":
		return fmt.Errorf("%w: db_dsn must not be empty", ErrInvalidConfig)
	case c.DBMaxOpenConns < 0:
		return fmt.Errorf("%w: db_max_open_conns must not be negative", ErrInvalidConfig)
	case c.DBSlowQueryMS < 0:
		return fmt.Errorf("%w: db_slow_query_ms must not be negative", ErrInvalidConfig)
	}
	switch c.DBDriver {
	case repository.DriverSQLite, repository.DriverPostgres:
	default:
		return fmt.Errorf("%w: unknown db_driver %q", ErrInvalidConfig, c.DBDriver)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: unknown log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}
