// Package config loads the bootstrap configuration of the lingua process.
package config

import "path/filepath"

// Storage drivers accepted by StorageConfig.Driver.
const (
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

// Config is the root bootstrap configuration.
type Config struct {
	Home    string        `yaml:"home"    toml:"home"    env:"LINGUA_HOME"`
	Storage StorageConfig `yaml:"storage" toml:"storage"`
	Log     LogConfig     `yaml:"log"     toml:"log"`
	SRS     SRSConfig     `yaml:"srs"     toml:"srs"`
	AI      AIConfig      `yaml:"ai"      toml:"ai"`
}

// StorageConfig selects the record store.
type StorageConfig struct {
	Driver string `yaml:"driver" toml:"driver" env:"LINGUA_STORAGE" env-default:"sqlite"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  toml:"level"  env:"LINGUA_LOG_LEVEL"  env-default:"warn"`
	Format string `yaml:"format" toml:"format" env:"LINGUA_LOG_FORMAT" env-default:"text"`
}

// SRSConfig bounds the review schedule and session size.
type SRSConfig struct {
	MaxIntervalDays int `yaml:"max_interval_days" toml:"max_interval_days" env:"LINGUA_SRS_MAX_INTERVAL_DAYS" env-default:"365"`
	MaxStage        int `yaml:"max_stage"         toml:"max_stage"         env:"LINGUA_SRS_MAX_STAGE"         env-default:"16"`
	SessionLimit    int `yaml:"session_limit"     toml:"session_limit"     env:"LINGUA_SESSION_LIMIT"         env-default:"50"`
}

// AIConfig holds provider throttling and environment API keys.
type AIConfig struct {
	RequestsPerSecond float64 `yaml:"rate"  toml:"rate"  env:"LINGUA_AI_RATE"  env-default:"1"`
	Burst             int     `yaml:"burst" toml:"burst" env:"LINGUA_AI_BURST" env-default:"3"`
	OpenAIAPIKey      string  `yaml:"-"     toml:"-"     env:"OPENAI_API_KEY"`
	AnthropicAPIKey   string  `yaml:"-"     toml:"-"     env:"ANTHROPIC_API_KEY"`
}

// DataDir returns the directory holding the record store.
func (c *Config) DataDir() string {
	return filepath.Join(c.Home, "data")
}

// PromptDir returns the directory holding prompt templates.
func (c *Config) PromptDir() string {
	return filepath.Join(c.Home, "prompts")
}
