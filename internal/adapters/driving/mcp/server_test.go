package mcp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("nil flashcard service returns error", func(t *testing.T) {
		server, err := NewServer(&Ports{Library: &mockLibraryService{}})
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingFlashcardService)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		server, err := newTestServer(&mockFlashcardService{}, nil, &mockLibraryService{})
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestPorts_Validate(t *testing.T) {
	t.Run("empty ports", func(t *testing.T) {
		ports := &Ports{}
		assert.ErrorIs(t, ports.Validate(), ErrMissingFlashcardService)
	})

	t.Run("missing library", func(t *testing.T) {
		ports := &Ports{Flashcards: &mockFlashcardService{}}
		assert.ErrorIs(t, ports.Validate(), ErrMissingLibraryService)
	})

	t.Run("review is optional", func(t *testing.T) {
		ports := &Ports{Flashcards: &mockFlashcardService{}, Library: &mockLibraryService{}}
		assert.NoError(t, ports.Validate())
	})

	t.Run("all ports is valid", func(t *testing.T) {
		ports := &Ports{
			Flashcards: &mockFlashcardService{},
			Review:     &mockReviewService{},
			Library:    &mockLibraryService{},
		}
		assert.NoError(t, ports.Validate())
	})
}

func TestServer_RunHTTP(t *testing.T) {
	server, err := newTestServer(&mockFlashcardService{}, nil, &mockLibraryService{})
	require.NoError(t, err)

	t.Run("stops when context is cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- server.RunHTTP(ctx, "127.0.0.1:0") }()

		time.Sleep(50 * time.Millisecond)
		cancel()

		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("RunHTTP did not return after cancel")
		}
	})

	t.Run("invalid address", func(t *testing.T) {
		err := server.RunHTTP(context.Background(), "127.0.0.1:-1")
		assert.Error(t, err)
	})
}
