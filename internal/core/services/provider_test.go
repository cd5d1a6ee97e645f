package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lingua/internal/adapters/driven/config/file"
	"github.com/custodia-labs/lingua/internal/core/domain"
)

type mockValidator struct {
	got *domain.ProviderSettings
	err error
}

func (m *mockValidator) ValidateProvider(settings *domain.ProviderSettings) error {
	m.got = settings
	return m.err
}

func newTestConfigStore(t *testing.T) *file.ConfigStore {
	t.Helper()
	store, err := file.NewConfigStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestProviderService_GetEmpty(t *testing.T) {
	svc := NewProviderService(newTestConfigStore(t), nil, nil)

	settings := svc.Get()

	assert.False(t, settings.IsConfigured())
	assert.NoError(t, svc.Validate())
}

func TestProviderService_SetAndGet(t *testing.T) {
	store := newTestConfigStore(t)
	svc := NewProviderService(store, nil, nil)

	require.NoError(t, svc.Set(domain.AIProviderOpenAI, "http://localhost:11434/v1", ""))

	settings := svc.Get()
	assert.Equal(t, domain.AIProviderOpenAI, settings.Provider)
	assert.Equal(t, "http://localhost:11434/v1", settings.BaseURL)
	assert.True(t, settings.IsConfigured())

	require.NoError(t, svc.Set(domain.AIProviderAnthropic, "", "sk-ant"))
	settings = svc.Get()
	assert.Equal(t, domain.AIProviderAnthropic, settings.Provider)
	assert.Empty(t, settings.BaseURL)
	assert.Equal(t, "sk-ant", settings.APIKey)

	require.NoError(t, svc.Set(domain.AIProviderAnthropic, "", ""))
	assert.Equal(t, "sk-ant", svc.Get().APIKey, "empty key keeps the stored key")

	assert.ErrorIs(t, svc.Set("cohere", "", "k"), domain.ErrInvalidInput)
}

func TestProviderService_FallbackKeys(t *testing.T) {
	store := newTestConfigStore(t)
	keys := map[domain.AIProvider]string{domain.AIProviderAnthropic: "env-key"}
	svc := NewProviderService(store, nil, keys)

	settings := svc.Get()
	assert.Equal(t, domain.AIProviderAnthropic, settings.Provider)
	assert.Equal(t, "env-key", settings.APIKey)

	require.NoError(t, svc.Set(domain.AIProviderOpenAI, "", ""))
	settings = svc.Get()
	assert.Equal(t, domain.AIProviderOpenAI, settings.Provider)
	assert.Empty(t, settings.APIKey)
}

func TestProviderService_Clear(t *testing.T) {
	store := newTestConfigStore(t)
	svc := NewProviderService(store, nil, nil)
	require.NoError(t, svc.Set(domain.AIProviderOpenAI, "http://localhost:1234/v1", "key"))

	require.NoError(t, svc.Clear())

	assert.Empty(t, store.Keys())
	assert.False(t, svc.Get().IsConfigured())
}

func TestProviderService_Validate(t *testing.T) {
	store := newTestConfigStore(t)
	validator := &mockValidator{err: errors.New("unreachable")}
	svc := NewProviderService(store, validator, nil)
	require.NoError(t, svc.Set(domain.AIProviderOpenAI, "", "key"))

	err := svc.Validate()

	require.Error(t, err)
	require.NotNil(t, validator.got)
	assert.Equal(t, "key", validator.got.APIKey)
}
