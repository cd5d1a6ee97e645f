package ai

import (
	"github.com/custodia-labs/lingua/internal/core/domain"
	"github.com/custodia-labs/lingua/internal/core/ports/driven"
)

// Ensure ConfigValidator implements the interface.
var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// ConfigValidator validates AI provider configurations.
type ConfigValidator struct{}

// NewConfigValidator creates a new AI config validator.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// ValidateProvider validates a provider configuration by pinging the provider.
func (v *ConfigValidator) ValidateProvider(config *domain.ProviderSettings) error {
	return ValidateLLMConfig(config)
}
