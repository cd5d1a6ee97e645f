package ai

import (
	"context"
	"sync"

	"github.com/custodia-labs/lingua/internal/core/ports/driven"
)

// mockLLM is a mock implementation of driven.LLMService for testing.
type mockLLM struct {
	mu       sync.Mutex
	response string
	err      error
	prompts  []string
	opts     []driven.GenerateOptions
}

func (m *mockLLM) Generate(_ context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
	m.opts = append(m.opts, opts)
	return m.response, m.err
}

func (m *mockLLM) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	return m.Generate(ctx, messages[len(messages)-1].Content, driven.GenerateOptions(opts))
}

func (m *mockLLM) ModelName() string { return "mock" }

func (m *mockLLM) Ping(_ context.Context) error { return nil }

func (m *mockLLM) Close() error { return nil }

// mockSpeechLLM is an LLM that also synthesises speech.
type mockSpeechLLM struct {
	mockLLM
	audio string
	model string
}

func (m *mockSpeechLLM) Synthesize(_ context.Context, _, model string) (string, error) {
	m.model = model
	return m.audio, m.err
}

// mockPrompts returns fixed templates keyed by name.
type mockPrompts struct {
	templates map[string]string
}

func (m *mockPrompts) Load(name string) (string, error) {
	if t, ok := m.templates[name]; ok {
		return t, nil
	}
	return "%s|%s|%s", nil
}

func (m *mockPrompts) Reload() {}
