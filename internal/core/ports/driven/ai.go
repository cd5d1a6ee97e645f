package driven

import (
	"context"

	"github.com/custodia-labs/lingua/internal/core/domain"
)

// Analyzer extracts learnable items from text.
type Analyzer interface {
	// AnalyzeText extracts items of the enabled types from a segment of text,
	// pitched at the target CEFR level.
	AnalyzeText(ctx context.Context, text, targetLevel, model string, types []domain.WordType) ([]domain.WordAnalysis, error)

	// AnalyzeWord analyses a single user-chosen word in the context of text.
	AnalyzeWord(ctx context.Context, word, text, targetLevel, model string) (domain.WordAnalysis, error)
}

// Translator translates segment text into Persian.
type Translator interface {
	Translate(ctx context.Context, text, model string) (string, error)
}

// SpeechSynthesizer turns text into audio.
type SpeechSynthesizer interface {
	// Synthesize returns base64-encoded raw PCM audio, or an empty string when
	// the provider produced no audio. No audio is not an error.
	Synthesize(ctx context.Context, text, model string) (string, error)
}

// PronunciationEvaluator scores a spoken attempt against its reference text.
type PronunciationEvaluator interface {
	Evaluate(ctx context.Context, reference, transcript, model string) (*domain.PronunciationResult, error)
}

// Segmenter splits article text into pages.
type Segmenter interface {
	// Split divides text into segments of about wordsPerSegment words.
	// Segment titles are derived from title. ArticleID is left empty.
	Split(title, text string, wordsPerSegment int) []domain.Segment
}
