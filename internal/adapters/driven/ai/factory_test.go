package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lingua/internal/core/domain"
)

func TestCreateLLMService_NotConfigured(t *testing.T) {
	svc, err := CreateLLMService(nil)
	require.NoError(t, err)
	assert.Nil(t, svc)

	svc, err = CreateLLMService(&domain.ProviderSettings{Provider: domain.AIProviderOpenAI})
	require.NoError(t, err)
	assert.Nil(t, svc)
}

func TestCreateLLMService_Providers(t *testing.T) {
	tests := []struct {
		provider domain.AIProvider
		model    string
	}{
		{domain.AIProviderOpenAI, "gpt-4o-mini"},
		{domain.AIProviderAnthropic, "claude-3-5-haiku-latest"},
	}

	for _, tt := range tests {
		t.Run(string(tt.provider), func(t *testing.T) {
			svc, err := CreateLLMService(&domain.ProviderSettings{Provider: tt.provider, APIKey: "key"})
			require.NoError(t, err)
			require.NotNil(t, svc)
			assert.Equal(t, tt.model, svc.ModelName())
		})
	}
}

func TestCreateAndValidateLLMService(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/models" {
			_, _ = w.Write([]byte(`{"data":[]}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	svc, err := CreateAndValidateLLMService(context.Background(), &domain.ProviderSettings{
		Provider: domain.AIProviderOpenAI,
		BaseURL:  server.URL,
	})
	require.NoError(t, err)
	require.NotNil(t, svc)
	assert.NoError(t, svc.Close())
}

func TestCreateAndValidateLLMService_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := CreateAndValidateLLMService(context.Background(), &domain.ProviderSettings{
		Provider: domain.AIProviderOpenAI,
		BaseURL:  server.URL,
	})
	assert.ErrorIs(t, err, domain.ErrAIUnavailable)
}

func TestConfigValidator(t *testing.T) {
	v := NewConfigValidator()

	assert.NoError(t, v.ValidateProvider(nil))
	assert.NoError(t, v.ValidateProvider(&domain.ProviderSettings{}))
}
