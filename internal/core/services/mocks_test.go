package services

import (
	"context"
	"time"

	"github.com/custodia-labs/lingua/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/lingua/internal/core/domain"
	"github.com/custodia-labs/lingua/internal/normalisers"
	"github.com/custodia-labs/lingua/internal/segmenter"
)

// --- Mock implementations ---

// mockAnalyzer implements driven.Analyzer for testing.
type mockAnalyzer struct {
	items     []domain.WordAnalysis
	word      domain.WordAnalysis
	err       error
	gotLevel  string
	gotModel  string
	gotTypes  []domain.WordType
	textCalls int
}

func (m *mockAnalyzer) AnalyzeText(_ context.Context, _, targetLevel, model string, types []domain.WordType) ([]domain.WordAnalysis, error) {
	m.textCalls++
	m.gotLevel = targetLevel
	m.gotModel = model
	m.gotTypes = types
	return m.items, m.err
}

func (m *mockAnalyzer) AnalyzeWord(_ context.Context, _, _, targetLevel, model string) (domain.WordAnalysis, error) {
	m.gotLevel = targetLevel
	m.gotModel = model
	return m.word, m.err
}

// mockTranslator implements driven.Translator for testing.
type mockTranslator struct {
	out string
	err error
}

func (m *mockTranslator) Translate(_ context.Context, _, _ string) (string, error) {
	return m.out, m.err
}

// mockSpeech implements driven.SpeechSynthesizer for testing.
type mockSpeech struct {
	audio string
	err   error
	model string
	calls int
}

func (m *mockSpeech) Synthesize(_ context.Context, _, model string) (string, error) {
	m.calls++
	m.model = model
	return m.audio, m.err
}

// mockEvaluator implements driven.PronunciationEvaluator for testing.
type mockEvaluator struct {
	result *domain.PronunciationResult
	err    error
}

func (m *mockEvaluator) Evaluate(_ context.Context, _, _, _ string) (*domain.PronunciationResult, error) {
	return m.result, m.err
}

// --- Test helpers ---

var testNow = time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

func newTestLibrary(ai Collaborators) (*LibraryService, *memory.Store) {
	store := memory.NewStore()
	lib := NewLibraryService(
		store,
		NewSettingsService(store),
		segmenter.New(segmenter.WithoutJapanese()),
		normalisers.NewDefaultRegistry(),
		ai,
		NewArticleCache(),
	)
	lib.SetClock(FixedClock(testNow))
	return lib, store
}

func word(wordType domain.WordType, w, lemma string) domain.WordAnalysis {
	return domain.WordAnalysis{
		Type:               wordType,
		Word:               w,
		Lemma:              lemma,
		Collocations:       []string{},
		Level:              "B2",
		PersianTranslation: "fa-" + lemma,
	}
}

func card(id, articleID string, wordType domain.WordType, level, headword string, stage int, next domain.Timestamp) domain.Flashcard {
	return domain.Flashcard{
		WordAnalysis: domain.WordAnalysis{
			Type:         wordType,
			Word:         headword,
			Lemma:        headword,
			Level:        level,
			Collocations: []string{},
		},
		ID:         id,
		ArticleID:  articleID,
		Stage:      stage,
		NextReview: next,
	}
}
