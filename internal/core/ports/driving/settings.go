package driving

import (
	"context"

	"github.com/custodia-labs/lingua/internal/core/domain"
)

// SettingsService manages the application settings record.
type SettingsService interface {
	// Load returns the settings with defaults merged under any stored values.
	// The record is created on first load.
	Load(ctx context.Context) (*domain.Settings, error)

	// Save validates and stores the full settings record.
	Save(ctx context.Context, settings domain.Settings) error

	// Set updates one option by its JSON name and returns the updated settings.
	Set(ctx context.Context, key, value string) (*domain.Settings, error)
}

// ProviderService manages AI provider selection and credentials.
type ProviderService interface {
	// Get returns the current provider configuration.
	Get() domain.ProviderSettings

	// Set stores the provider, base URL and API key.
	// An empty API key keeps the stored key.
	Set(provider domain.AIProvider, baseURL, apiKey string) error

	// Clear removes the stored provider configuration.
	Clear() error

	// Validate checks the configured provider by pinging it.
	Validate() error
}
