package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	t.Setenv("HOME", "/home/learner")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/home/learner/.lingua", cfg.Home)
	assert.Equal(t, StorageSQLite, cfg.Storage.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, 365, cfg.SRS.MaxIntervalDays)
	assert.Equal(t, 16, cfg.SRS.MaxStage)
	assert.Equal(t, 50, cfg.SRS.SessionLimit)
	assert.InDelta(t, 1.0, cfg.AI.RequestsPerSecond, 0.0001)
	assert.Equal(t, "/home/learner/.lingua/data", cfg.DataDir())
	assert.Equal(t, "/home/learner/.lingua/prompts", cfg.PromptDir())
}

func TestLoad_Env(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	t.Setenv("LINGUA_HOME", "/tmp/lingua")
	t.Setenv("LINGUA_STORAGE", "memory")
	t.Setenv("LINGUA_LOG_LEVEL", "debug")
	t.Setenv("LINGUA_SRS_MAX_INTERVAL_DAYS", "180")
	t.Setenv("LINGUA_SESSION_LIMIT", "20")
	t.Setenv("LINGUA_AI_RATE", "0.5")
	t.Setenv("OPENAI_API_KEY", "sk-env")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/lingua", cfg.Home)
	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 180, cfg.SRS.MaxIntervalDays)
	assert.Equal(t, 20, cfg.SRS.SessionLimit)
	assert.InDelta(t, 0.5, cfg.AI.RequestsPerSecond, 0.0001)
	assert.Equal(t, "sk-env", cfg.AI.OpenAIAPIKey)
}

func TestLoad_TOMLFile(t *testing.T) {
	path := writeConfig(t, "lingua.toml", `
home = "/srv/lingua"

[storage]
driver = "memory"

[srs]
max_stage = 8
`)
	t.Setenv(EnvConfigPath, path)
	t.Setenv("LINGUA_LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/srv/lingua", cfg.Home)
	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
	assert.Equal(t, 8, cfg.SRS.MaxStage)
	assert.Equal(t, 365, cfg.SRS.MaxIntervalDays)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_YAMLFileEnvOverrides(t *testing.T) {
	path := writeConfig(t, "lingua.yaml", "storage:\n  driver: memory\nsrs:\n  session_limit: 10\n")
	t.Setenv(EnvConfigPath, path)
	t.Setenv("LINGUA_SESSION_LIMIT", "30")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
	assert.Equal(t, 30, cfg.SRS.SessionLimit)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv(EnvConfigPath, filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Home:    "/tmp",
			Storage: StorageConfig{Driver: StorageSQLite},
			SRS:     SRSConfig{MaxIntervalDays: 365, MaxStage: 16, SessionLimit: 50},
			AI:      AIConfig{RequestsPerSecond: 1},
		}
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"unknown driver", func(c *Config) { c.Storage.Driver = "postgres" }},
		{"zero interval", func(c *Config) { c.SRS.MaxIntervalDays = 0 }},
		{"zero stage", func(c *Config) { c.SRS.MaxStage = 0 }},
		{"zero session", func(c *Config) { c.SRS.SessionLimit = 0 }},
		{"negative rate", func(c *Config) { c.AI.RequestsPerSecond = -1 }},
	}

	base := valid()
	require.NoError(t, base.Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestUsage(t *testing.T) {
	usage, err := Usage()
	require.NoError(t, err)
	assert.Contains(t, usage, "LINGUA_HOME")
	assert.Contains(t, usage, "OPENAI_API_KEY")
}
