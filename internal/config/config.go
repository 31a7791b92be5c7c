// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// MaxPageSize caps GET /activity?limit.
	MaxPageSize int `koanf:"max_page_size"`

	// ActivitySize bounds the in-memory activity feed.
	ActivitySize int `koanf:"activity_size"`

	// MetricsIntervalMS sets how often store gauges are refreshed.
	MetricsIntervalMS int `koanf:"metrics_interval_ms"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention; it is reserved for future use and currently
// unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              ":8080",
		MaxPageSize:       100,
		ActivitySize:      200,
		MetricsIntervalMS: 10_000,
	}
}
