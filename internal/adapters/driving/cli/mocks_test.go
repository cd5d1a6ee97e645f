package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lingua/internal/adapters/driven/config/file"
	"github.com/custodia-labs/lingua/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/lingua/internal/core/domain"
	"github.com/custodia-labs/lingua/internal/core/services"
	"github.com/custodia-labs/lingua/internal/normalisers"
	"github.com/custodia-labs/lingua/internal/segmenter"
)

// --- Mock implementations ---

type stubAnalyzer struct {
	items []domain.WordAnalysis
	word  domain.WordAnalysis
}

func (s *stubAnalyzer) AnalyzeText(context.Context, string, string, string, []domain.WordType) ([]domain.WordAnalysis, error) {
	return s.items, nil
}

func (s *stubAnalyzer) AnalyzeWord(context.Context, string, string, string, string) (domain.WordAnalysis, error) {
	return s.word, nil
}

type stubTranslator struct{ out string }

func (s *stubTranslator) Translate(context.Context, string, string) (string, error) {
	return s.out, nil
}

type stubEvaluator struct{ result domain.PronunciationResult }

func (s *stubEvaluator) Evaluate(context.Context, string, string, string) (*domain.PronunciationResult, error) {
	r := s.result
	return &r, nil
}

// --- Test helpers ---

var testNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

type testEnv struct {
	store   *memory.Store
	library *services.LibraryService
}

func testItem(wordType domain.WordType, w, lemma, level, fa string) domain.WordAnalysis {
	return domain.WordAnalysis{
		Type:               wordType,
		Word:               w,
		Lemma:              lemma,
		Level:              level,
		PersianTranslation: fa,
		Collocations:       []string{},
	}
}

// setupTestServices wires real services over an in-memory store with stub
// AI collaborators and restores the package state when the test ends.
func setupTestServices(t *testing.T) *testEnv {
	t.Helper()

	store := memory.NewStore()
	t.Cleanup(func() { _ = store.Close() })

	configStore, err := file.NewConfigStore(t.TempDir())
	require.NoError(t, err)

	ai := services.Collaborators{
		Analyzer: &stubAnalyzer{
			items: []domain.WordAnalysis{
				testItem(domain.WordTypeVocabulary, "climbed", "climb", "A2", "بالا رفتن"),
				testItem(domain.WordTypeVocabulary, "keeper", "keeper", "B1", "نگهبان"),
				testItem(domain.WordTypeLiterary, "restless sea", "restless sea", "C1", "دریای ناآرام"),
			},
			word: testItem(domain.WordTypeVocabulary, "lighthouse", "lighthouse", "B1", "فانوس دریایی"),
		},
		Translator: &stubTranslator{out: "نگهبان هر شب از پله‌ها بالا می‌رفت."},
		Pronunciation: &stubEvaluator{result: domain.PronunciationResult{
			Score:    80,
			Feedback: "Clear, but stress the second syllable.",
			Words:    []domain.WordStatus{{Word: "lighthouse", Correct: false}},
		}},
	}

	settings := services.NewSettingsService(store)
	cache := services.NewArticleCache()
	clock := services.FixedClock(testNow)

	library := services.NewLibraryService(store, settings,
		segmenter.New(segmenter.WithoutJapanese()), normalisers.NewDefaultRegistry(), ai, cache)
	library.SetClock(clock)

	flashcards := services.NewFlashcardService(store, domain.DefaultSessionLimit)
	flashcards.SetClock(clock)

	review := services.NewReviewService(store, services.DefaultScheduleConfig())
	review.SetClock(clock)

	backup := services.NewBackupService(store, cache)
	backup.SetClock(clock)

	SetServices(Services{
		Library:     library,
		Flashcards:  flashcards,
		Review:      review,
		Backup:      backup,
		Settings:    settings,
		Provider:    services.NewProviderService(configStore, nil, nil),
		Collections: services.NewCollectionService(store),
		Speech:      services.NewSpeechService(settings, ai),
	})
	t.Cleanup(func() { SetServices(Services{}) })

	return &testEnv{store: store, library: library}
}

// importSample imports a short article and returns its ID.
func (e *testEnv) importSample(t *testing.T) string {
	t.Helper()
	article, err := e.library.ImportText(context.Background(), domain.ImportRequest{
		Title: "The Lighthouse",
		Text:  "The keeper climbed the stairs every night above the restless sea.",
	})
	require.NoError(t, err)
	return article.ID
}

// execute runs the root command with args and returns everything it printed.
// Flag values are reset first so earlier runs do not leak into this one.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	resetFlags(rootCmd)
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}
