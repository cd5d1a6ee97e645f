package openai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/custodia-labs/lingua/internal/core/ports/driven"
)

// Ensure LLMService implements the speech port.
var _ driven.SpeechSynthesizer = (*LLMService)(nil)

// Speech defaults. PCM output is 24 kHz 16-bit mono little-endian.
const (
	DefaultSpeechModel = "gpt-4o-mini-tts"
	DefaultVoice       = "alloy"
)

type speechRequest struct {
	Model          string `json:"model"`
	Input          string `json:"input"`
	Voice          string `json:"voice"`
	ResponseFormat string `json:"response_format"`
}

// Synthesize renders text with the /audio/speech endpoint and returns the
// raw PCM as base64. An empty body yields no audio and no error.
func (s *LLMService) Synthesize(ctx context.Context, text, model string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	if model == "" {
		model = DefaultSpeechModel
	}

	body, status, err := s.post(ctx, "/audio/speech", speechRequest{
		Model:          model,
		Input:          text,
		Voice:          DefaultVoice,
		ResponseFormat: "pcm",
	})
	if err != nil {
		return "", fmt.Errorf("openai speech: %w", err)
	}

	if status != http.StatusOK {
		var errResp struct {
			Error *apiError `json:"error"`
		}
		if json.Unmarshal(body, &errResp) == nil && errResp.Error != nil {
			return "", fmt.Errorf("openai speech error: %s", errResp.Error.Message)
		}
		return "", fmt.Errorf("openai speech error (status %d)", status)
	}

	if len(body) == 0 {
		return "", nil
	}
	return base64.StdEncoding.EncodeToString(body), nil
}
