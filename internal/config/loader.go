package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"
)

// EnvConfigPath names the environment variable holding an optional config file path.
const EnvConfigPath = "LINGUA_CONFIG"

// Load reads configuration from an optional file and environment variables.
// Priority: ENV > file > defaults (via env-default tags).
// The file path comes from LINGUA_CONFIG; its extension selects the format
// (.yaml, .yml, .toml or .json). Without LINGUA_CONFIG only the environment is read.
func Load() (*Config, error) {
	var cfg Config

	if path := os.Getenv(EnvConfigPath); path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config: file %s: %w", path, err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if cfg.Home == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("config: get home directory: %w", err)
		}
		cfg.Home = filepath.Join(home, ".lingua")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return &cfg, nil
}

// Usage returns a description of every environment variable Load reads.
func Usage() (string, error) {
	var cfg Config
	return cleanenv.GetDescription(&cfg, nil)
}
