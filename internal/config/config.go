// Package config loads keyfold's environment configuration.
//
// Environment variables:
//   - KEYFOLD_HOME overrides the configuration root (default ~/.keyfold)
//   - KEYFOLD_KEY supplies the master key non-interactively, for scripts
//     and CI; equivalent to typing it at the prompt
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// DefaultRootName is the directory created under the user's home when
// KEYFOLD_HOME is not set.
const DefaultRootName = ".keyfold"

// Config holds all settings read from the environment.
type Config struct {
	// Root is the configuration root holding the key and vault files.
	Root string `env:"KEYFOLD_HOME"`

	// MasterKey, when non-empty, is used instead of prompting.
	MasterKey string `env:"KEYFOLD_KEY"`
}

// Load parses the environment and fills in defaults.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if cfg.Root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		cfg.Root = filepath.Join(home, DefaultRootName)
	}

	return cfg, nil
}
