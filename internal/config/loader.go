package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if EDASH_CONFIG is set
//  3. env (prefix EDASH_)
//
// A .env file in the working directory is loaded first when present, so
// local development can keep EDASH_* vars out of the shell.
func Load(ctx context.Context) (*Config, error) {
	_ = godotenv.Load()

	base := New(ctx)

	k := koanf.New(".")

	if path := os.Getenv("EDASH_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: EDASH_ADDR, EDASH_MAX_PAGE_SIZE, ...
	// Map env keys like EDASH_MAX_PAGE_SIZE -> max_page_size (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("EDASH_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "edash_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.MaxPageSize < 1:
		return fmt.Errorf("%w: max_page_size must be positive", ErrInvalidConfig)
	case c.ActivitySize < 1:
		return fmt.Errorf("%w: activity_size must be positive", ErrInvalidConfig)
	case c.MetricsIntervalMS < 1:
		return fmt.Errorf("%w: metrics_interval_ms must be positive", ErrInvalidConfig)
	}
	return nil
}
