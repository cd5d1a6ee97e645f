package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lingua/internal/core/domain"
)

func TestSettingsShow_Defaults(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "settings")

	require.NoError(t, err)
	assert.Contains(t, out, "[Models]")
	assert.Contains(t, out, "[Reading]")
	assert.Contains(t, out, "Voice:          embedded-device-voice")
	assert.Contains(t, out, "Provider: (not set)")
	assert.Contains(t, out, "API Key: (not set)")
	assert.Contains(t, out, "Configuration is valid.")
}

func TestSettingsSet(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "settings", "set", "segmentLength", "120")

	require.NoError(t, err)
	assert.Contains(t, out, "Set segmentLength = 120")

	settings, err := settingsService.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 120, settings.SegmentLength)

	out, err = execute(t, "settings", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Words per page: 120")
}

func TestSettingsSet_InvalidKey(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "settings", "set", "fontSize", "12")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "valid keys:")
	assert.Contains(t, err.Error(), "segmentLength")
}

func TestSettingsProvider_Flags(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "settings", "provider", "--provider", "openai", "--api-key", "sk-test-1234567890")

	require.NoError(t, err)
	assert.Contains(t, out, "AI provider set to "+domain.AIProviderOpenAI.Description())

	out, err = execute(t, "settings", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "API Key: sk-t...7890")
	assert.NotContains(t, out, "sk-test-1234567890")
}

func TestSettingsProvider_InvalidProvider(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "settings", "provider", "--provider", "gemini")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsProvider_Clear(t *testing.T) {
	setupTestServices(t)
	_, err := execute(t, "settings", "provider", "--provider", "anthropic", "--api-key", "sk-ant-abcdefghij")
	require.NoError(t, err)

	out, err := execute(t, "settings", "provider", "--clear")

	require.NoError(t, err)
	assert.Contains(t, out, "AI provider configuration removed.")
	assert.Equal(t, domain.ProviderSettings{}, providerService.Get())
}

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"", "****"},
		{"short", "****"},
		{"12345678", "****"},
		{"123456789", "1234...6789"},
		{"sk-proj-abcdefghijklmnop", "sk-p...mnop"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, maskAPIKey(tt.key), "key %q", tt.key)
	}
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"", 1},
		{"2", 2},
		{"0", 1},
		{"3", 1},
		{"x", 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseChoice(tt.input, 2, 1), "input %q", tt.input)
	}
}
