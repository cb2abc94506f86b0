package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if WATCHKEEP_CONFIG is set
//  3. env (prefix WATCHKEEP_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("WATCHKEEP_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: WATCHKEEP_ADDR, WATCHKEEP_GITHUB_TOKEN, ...
	// Map env keys like WATCHKEEP_REPO_FULL_NAME -> repo_full_name.
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("WATCHKEEP_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "watchkeep_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	// Basic validation
	if cfg.Addr == "" {
		return nil, fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if cfg.SubmissionsDir == "" || cfg.SnapshotPath == "" {
		return nil, fmt.Errorf("%w: submissions_dir and snapshot_path must not be empty", ErrInvalidConfig)
	}
	if cfg.RateLimitWindowSeconds <= 0 {
		return nil, fmt.Errorf("%w: rate_limit_window_seconds must be positive", ErrInvalidConfig)
	}
	return &cfg, nil
}
