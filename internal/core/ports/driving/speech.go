package driving

import (
	"context"

	"github.com/custodia-labs/lingua/internal/core/domain"
)

// SpeechService speaks text and evaluates pronunciation.
type SpeechService interface {
	// Speak returns base64 PCM audio for text, or an empty string when the
	// device voice is selected or the provider produced no audio.
	Speak(ctx context.Context, text string) (string, error)

	// EvaluatePronunciation scores a transcript against its reference text.
	EvaluatePronunciation(ctx context.Context, reference, transcript string) (*domain.PronunciationResult, error)
}
