package services

import (
	"fmt"

	"github.com/custodia-labs/lingua/internal/core/domain"
	"github.com/custodia-labs/lingua/internal/core/ports/driven"
	"github.com/custodia-labs/lingua/internal/core/ports/driving"
)

// Ensure ProviderService implements the interface.
var _ driving.ProviderService = (*ProviderService)(nil)

// Config keys for provider storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyAIProvider = "ai.provider"
	keyAIBaseURL  = "ai.base_url"
	keyAIAPIKey   = "ai.api_key"
)

// ProviderService manages the AI provider configuration in the config store.
// API keys from the environment fill in when none is stored.
type ProviderService struct {
	configStore  driven.ConfigStore
	aiValidator  driven.AIConfigValidator
	fallbackKeys map[domain.AIProvider]string
}

// NewProviderService creates a new provider service.
// fallbackKeys maps providers to API keys taken from the environment.
func NewProviderService(
	configStore driven.ConfigStore,
	aiValidator driven.AIConfigValidator,
	fallbackKeys map[domain.AIProvider]string,
) *ProviderService {
	return &ProviderService{
		configStore:  configStore,
		aiValidator:  aiValidator,
		fallbackKeys: fallbackKeys,
	}
}

// Get returns the current provider configuration.
// Without a stored provider, the first provider with an environment key is used.
func (s *ProviderService) Get() domain.ProviderSettings {
	provider := s.getProvider()
	settings := domain.ProviderSettings{
		Provider: provider,
		BaseURL:  s.configStore.GetString(keyAIBaseURL),
		APIKey:   s.configStore.GetString(keyAIAPIKey),
	}
	if settings.APIKey == "" {
		settings.APIKey = s.fallbackKeys[provider]
	}
	return settings
}

// Set stores the provider configuration.
func (s *ProviderService) Set(provider domain.AIProvider, baseURL, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: invalid AI provider: %s", domain.ErrInvalidInput, provider)
	}

	if err := s.configStore.Set(keyAIProvider, provider.String()); err != nil {
		return fmt.Errorf("save ai provider: %w", err)
	}
	if baseURL == "" {
		if err := s.configStore.Unset(keyAIBaseURL); err != nil {
			return fmt.Errorf("save ai base_url: %w", err)
		}
	} else if err := s.configStore.Set(keyAIBaseURL, baseURL); err != nil {
		return fmt.Errorf("save ai base_url: %w", err)
	}
	if apiKey != "" {
		if err := s.configStore.Set(keyAIAPIKey, apiKey); err != nil {
			return fmt.Errorf("save ai api_key: %w", err)
		}
	}
	return nil
}

// Clear removes the stored provider configuration.
func (s *ProviderService) Clear() error {
	for _, key := range []string{keyAIProvider, keyAIBaseURL, keyAIAPIKey} {
		if err := s.configStore.Unset(key); err != nil {
			return fmt.Errorf("clear %s: %w", key, err)
		}
	}
	return nil
}

// Validate checks the current provider configuration by pinging the provider.
func (s *ProviderService) Validate() error {
	if s.aiValidator == nil {
		return nil
	}
	settings := s.Get()
	return s.aiValidator.ValidateProvider(&settings)
}

func (s *ProviderService) getProvider() domain.AIProvider {
	provider := domain.AIProvider(s.configStore.GetString(keyAIProvider))
	if provider.IsValid() {
		return provider
	}
	for _, p := range domain.AllAIProviders() {
		if s.fallbackKeys[p] != "" {
			return p
		}
	}
	return ""
}
