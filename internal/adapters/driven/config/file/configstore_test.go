package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStore_WithNestedDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	store, err := NewConfigStore(dir)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ConfigFile), store.Path())
	_, err = os.Stat(dir)
	assert.NoError(t, err)
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("ai.provider", "openai"))

	val, ok := store.Get("ai.provider")
	assert.True(t, ok)
	assert.Equal(t, "openai", val)

	_, ok = store.Get("ai.missing")
	assert.False(t, ok)
}

func TestConfigStore_GetString(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("ai.base_url", "http://localhost:11434/v1"))
	require.NoError(t, store.Set("srs.max_stage", 12))

	assert.Equal(t, "http://localhost:11434/v1", store.GetString("ai.base_url"))
	assert.Equal(t, "", store.GetString("nonexistent"))
	assert.Equal(t, "", store.GetString("srs.max_stage"), "wrong type")
}

func TestConfigStore_GetInt(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("srs.max_stage", 12))
	require.NoError(t, store.Set("ai.provider", "openai"))

	assert.Equal(t, 12, store.GetInt("srs.max_stage"))
	assert.Equal(t, 0, store.GetInt("ai.provider"), "wrong type")
	assert.Equal(t, 0, store.GetInt("nonexistent"))
}

func TestConfigStore_Persistence(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store.Set("ai.provider", "anthropic"))
	require.NoError(t, store.Set("ai.api_key", "sk-test"))
	require.NoError(t, store.Set("srs.max_stage", 10))

	reopened, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "anthropic", reopened.GetString("ai.provider"))
	assert.Equal(t, "sk-test", reopened.GetString("ai.api_key"))
	assert.Equal(t, 10, reopened.GetInt("srs.max_stage"), "TOML integers reload as int64")
}

func TestConfigStore_WritesTables(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("ai.provider", "openai"))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "[ai]")
	assert.Contains(t, string(data), "provider = 'openai'")
}

func TestConfigStore_ReadsHandWrittenFile(t *testing.T) {
	tmpDir := t.TempDir()
	content := `
[ai]
provider = "openai"
base_url = "http://localhost:11434/v1"

[srs]
max_interval_days = 180
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ConfigFile), []byte(content), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "openai", store.GetString("ai.provider"))
	assert.Equal(t, "http://localhost:11434/v1", store.GetString("ai.base_url"))
	assert.Equal(t, 180, store.GetInt("srs.max_interval_days"))
	assert.Equal(t, []string{"ai.base_url", "ai.provider", "srs.max_interval_days"}, store.Keys())
}

func TestConfigStore_Unset(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("ai.api_key", "secret"))
	require.NoError(t, store.Unset("ai.api_key"))
	require.NoError(t, store.Unset("never.set"))

	reopened, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	_, ok := reopened.Get("ai.api_key")
	assert.False(t, ok)
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("ai.api_key", "secret"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_Load_NonExistent(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, store.Load())
	assert.Empty(t, store.Keys())
}

func TestConfigStore_EmptyFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ConfigFile), nil, 0600))

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	assert.Empty(t, store.Keys())
}

func TestNewConfigStore_LoadCorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ConfigFile), []byte("not = [valid"), 0600))

	_, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.Set("srs.max_stage", i))
		}()
		go func() {
			defer wg.Done()
			_ = store.GetInt("srs.max_stage")
		}()
	}
	wg.Wait()

	_, ok := store.Get("srs.max_stage")
	assert.True(t, ok)
}

func TestNestMap(t *testing.T) {
	nested := nestMap(map[string]any{
		"ai.provider": "openai",
		"ai.api_key":  "k",
		"top":         1,
	})

	assert.Equal(t, map[string]any{
		"ai":  map[string]any{"provider": "openai", "api_key": "k"},
		"top": 1,
	}, nested)

	assert.Equal(t, map[string]any{"ai.provider": "x", "ai": "scalar"},
		nestMap(map[string]any{"ai": "scalar", "ai.provider": "x"}))
}
