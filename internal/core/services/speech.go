package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/lingua/internal/core/domain"
	"github.com/custodia-labs/lingua/internal/core/ports/driving"
)

// Ensure SpeechService implements the interface.
var _ driving.SpeechService = (*SpeechService)(nil)

// SpeechService speaks text and evaluates pronunciation attempts.
type SpeechService struct {
	settings driving.SettingsService
	ai       Collaborators
}

// NewSpeechService creates a new speech service.
func NewSpeechService(settings driving.SettingsService, ai Collaborators) *SpeechService {
	return &SpeechService{settings: settings, ai: ai}
}

// Speak returns base64 PCM audio for text.
// With the device voice selected no audio is produced and the result is empty.
func (s *SpeechService) Speak(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	settings, err := s.settings.Load(ctx)
	if err != nil {
		return "", err
	}
	if settings.TTSEngine != domain.TTSEngineCloud {
		return "", nil
	}
	if s.ai.Speech == nil {
		return "", domain.ErrAIUnavailable
	}
	return s.ai.Speech.Synthesize(ctx, text, settings.TTSModel)
}

// EvaluatePronunciation scores a transcript against its reference text.
func (s *SpeechService) EvaluatePronunciation(ctx context.Context, reference, transcript string) (*domain.PronunciationResult, error) {
	if strings.TrimSpace(reference) == "" {
		return nil, fmt.Errorf("%w: reference text is empty", domain.ErrInvalidInput)
	}
	if s.ai.Pronunciation == nil {
		return nil, domain.ErrAIUnavailable
	}
	settings, err := s.settings.Load(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.ai.Pronunciation.Evaluate(ctx, reference, transcript, settings.PronunciationModel)
	if err != nil {
		return nil, err
	}
	result.Score = min(max(result.Score, 0), 100)
	return result, nil
}
