package services

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/lingua/internal/core/domain"
	"github.com/custodia-labs/lingua/internal/core/ports/driven"
	"github.com/custodia-labs/lingua/internal/core/ports/driving"
	"github.com/custodia-labs/lingua/internal/logger"
)

// Ensure LibraryService implements the interface.
var _ driving.LibraryService = (*LibraryService)(nil)

// DefaultTargetLevel is the CEFR level used when none is given.
const DefaultTargetLevel = "B2"

// DefaultArticleTitle is used for imports without a title.
const DefaultArticleTitle = "Untitled"

// Collaborators groups the AI collaborators. Nil members disable their features.
type Collaborators struct {
	Analyzer      driven.Analyzer
	Translator    driven.Translator
	Speech        driven.SpeechSynthesizer
	Pronunciation driven.PronunciationEvaluator
}

// LibraryService imports articles and manages segment analysis and approval.
type LibraryService struct {
	store       driven.RecordStore
	settings    driving.SettingsService
	segmenter   driven.Segmenter
	normalisers driven.NormaliserRegistry
	ai          Collaborators
	cache       *ArticleCache
	clock       Clock
}

// NewLibraryService creates a new library service.
func NewLibraryService(
	store driven.RecordStore,
	settings driving.SettingsService,
	segmenter driven.Segmenter,
	normalisers driven.NormaliserRegistry,
	ai Collaborators,
	cache *ArticleCache,
) *LibraryService {
	if cache == nil {
		cache = NewArticleCache()
	}
	return &LibraryService{
		store:       store,
		settings:    settings,
		segmenter:   segmenter,
		normalisers: normalisers,
		ai:          ai,
		cache:       cache,
	}
}

// SetClock replaces the clock used for import and flashcard timestamps.
func (s *LibraryService) SetClock(c Clock) {
	s.clock = c
}

// ImportText segments text and stores the article with its segments.
func (s *LibraryService) ImportText(ctx context.Context, req domain.ImportRequest) (*domain.Article, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, fmt.Errorf("%w: text is empty", domain.ErrInvalidInput)
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = DefaultArticleTitle
	}

	settings, err := s.settings.Load(ctx)
	if err != nil {
		return nil, err
	}

	segments := s.segmenter.Split(title, req.Text, settings.SegmentLength)
	if len(segments) == 0 {
		return nil, fmt.Errorf("%w: text has no words", domain.ErrInvalidInput)
	}

	article := domain.Article{
		ID:           uuid.New().String(),
		Title:        title,
		Segments:     make([]domain.Segment, len(segments)),
		CollectionID: req.CollectionID,
		ProcessedAt:  s.clock.now(),
	}
	for i := range segments {
		segments[i].ID = domain.SegmentID(article.ID, i)
		segments[i].ArticleID = article.ID
		segments[i].Index = i
		article.Segments[i] = segments[i].Lightweight()
	}

	defer s.cache.Invalidate()
	kinds := []domain.EntityKind{domain.KindArticles, domain.KindSegments}
	err = s.store.RunInTx(ctx, driven.TxReadWrite, kinds, func(ctx context.Context) error {
		if article.CollectionID != "" {
			if _, err := s.store.Collections().Get(ctx, article.CollectionID); err != nil {
				return fmt.Errorf("collection %s: %w", article.CollectionID, err)
			}
		}
		for _, seg := range segments {
			if err := s.store.Segments().Put(ctx, seg); err != nil {
				return err
			}
		}
		return s.store.Articles().Put(ctx, article)
	})
	if err != nil {
		return nil, fmt.Errorf("import article: %w", err)
	}

	logger.Info("imported %q as %s (%d segments)", article.Title, article.ID, len(segments))
	return &article, nil
}

// ImportRaw normalises raw input and imports the resulting text.
func (s *LibraryService) ImportRaw(ctx context.Context, raw *domain.RawDocument, collectionID string) (*domain.Article, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}
	if s.normalisers == nil {
		return nil, fmt.Errorf("%w: no normalisers configured", domain.ErrUnsupportedType)
	}
	text, err := s.normalisers.Normalise(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("normalise %s: %w", raw.URI, err)
	}
	return s.ImportText(ctx, domain.ImportRequest{
		Title:        text.Title,
		Text:         text.Text,
		CollectionID: collectionID,
	})
}

// ListArticles returns every article, newest first.
func (s *LibraryService) ListArticles(ctx context.Context) ([]domain.Article, error) {
	return s.cache.Get(ctx, func(ctx context.Context) ([]domain.Article, error) {
		articles, err := s.store.Articles().ListByProcessedAt(ctx)
		if err != nil {
			return nil, fmt.Errorf("list articles: %w", err)
		}
		slices.Reverse(articles)
		return articles, nil
	})
}

// GetArticle retrieves an article by ID.
func (s *LibraryService) GetArticle(ctx context.Context, id string) (*domain.Article, error) {
	return s.store.Articles().Get(ctx, id)
}

// GetSegment retrieves one segment of an article.
func (s *LibraryService) GetSegment(ctx context.Context, articleID string, index int) (*domain.Segment, error) {
	return s.store.Segments().Get(ctx, articleID, index)
}

// AnalyzeSegment runs analysis on a segment and stores the extracted items.
// Items that were already approved are kept so approvals stay valid.
func (s *LibraryService) AnalyzeSegment(ctx context.Context, articleID string, index int, targetLevel string) (*domain.Segment, error) {
	if s.ai.Analyzer == nil {
		return nil, domain.ErrAIUnavailable
	}
	settings, err := s.settings.Load(ctx)
	if err != nil {
		return nil, err
	}
	seg, err := s.GetSegment(ctx, articleID, index)
	if err != nil {
		return nil, err
	}

	words, err := s.ai.Analyzer.AnalyzeText(ctx, seg.Content, levelOrDefault(targetLevel),
		settings.AnalysisModel, settings.EnabledTypes)
	if err != nil {
		return nil, err
	}

	return s.updateSegment(ctx, articleID, index, func(_ context.Context, seg *domain.Segment) error {
		seg.AnalyzedWords = mergeAnalysis(seg, words)
		seg.IsAnalyzed = true
		return nil
	})
}

// TranslateSegment stores the Persian translation of a segment.
func (s *LibraryService) TranslateSegment(ctx context.Context, articleID string, index int) (*domain.Segment, error) {
	if s.ai.Translator == nil {
		return nil, domain.ErrAIUnavailable
	}
	settings, err := s.settings.Load(ctx)
	if err != nil {
		return nil, err
	}
	seg, err := s.GetSegment(ctx, articleID, index)
	if err != nil {
		return nil, err
	}

	translation, err := s.ai.Translator.Translate(ctx, seg.Content, settings.TranslationModel)
	if err != nil {
		return nil, err
	}

	return s.updateSegment(ctx, articleID, index, func(_ context.Context, seg *domain.Segment) error {
		seg.PersianTranslation = translation
		return nil
	})
}

// ApproveWords approves analysed items by lemma and creates one flashcard per new approval.
func (s *LibraryService) ApproveWords(ctx context.Context, articleID string, index int, lemmas []string) ([]domain.Flashcard, error) {
	now := s.clock.now()
	created := []domain.Flashcard{}

	_, err := s.updateSegment(ctx, articleID, index, func(ctx context.Context, seg *domain.Segment) error {
		for _, lemma := range lemmas {
			lemma = strings.TrimSpace(lemma)
			word, ok := seg.FindWord(lemma)
			if !ok {
				return fmt.Errorf("%w: %q is not an analysed item of this segment", domain.ErrInvalidInput, lemma)
			}
			if !seg.Approve(lemma) {
				continue
			}
			card := domain.NewFlashcard(uuid.New().String(), articleID, word, now)
			if err := s.store.Flashcards().Put(ctx, card); err != nil {
				return err
			}
			created = append(created, card)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// AddCustomWord analyses a user-chosen word in the context of the segment,
// then adds it to the segment as an approved item with its flashcard.
func (s *LibraryService) AddCustomWord(ctx context.Context, articleID string, index int, word, targetLevel string) (*domain.Flashcard, error) {
	if strings.TrimSpace(word) == "" {
		return nil, fmt.Errorf("%w: word is empty", domain.ErrInvalidInput)
	}
	if s.ai.Analyzer == nil {
		return nil, domain.ErrAIUnavailable
	}
	settings, err := s.settings.Load(ctx)
	if err != nil {
		return nil, err
	}
	seg, err := s.GetSegment(ctx, articleID, index)
	if err != nil {
		return nil, err
	}

	analysis, err := s.ai.Analyzer.AnalyzeWord(ctx, word, seg.Content, levelOrDefault(targetLevel), settings.AnalysisModel)
	if err != nil {
		return nil, err
	}
	key := analysis.Key()
	if key == "" {
		return nil, fmt.Errorf("%w: analysis returned no headword for %q", domain.ErrInvalidInput, word)
	}

	var card domain.Flashcard
	_, err = s.updateSegment(ctx, articleID, index, func(ctx context.Context, seg *domain.Segment) error {
		if seg.IsApproved(key) {
			return fmt.Errorf("%w: %q is already approved", domain.ErrInvalidInput, key)
		}
		seg.PutWord(analysis)
		seg.Approve(key)
		card = domain.NewFlashcard(uuid.New().String(), articleID, analysis, s.clock.now())
		return s.store.Flashcards().Put(ctx, card)
	})
	if err != nil {
		return nil, err
	}
	return &card, nil
}

// updateSegment reloads a segment, applies fn and stores the segment together
// with the article's lightweight copy, all in one transaction.
func (s *LibraryService) updateSegment(
	ctx context.Context, articleID string, index int, fn func(ctx context.Context, seg *domain.Segment) error,
) (*domain.Segment, error) {
	var updated domain.Segment

	defer s.cache.Invalidate()
	kinds := []domain.EntityKind{domain.KindArticles, domain.KindSegments, domain.KindFlashcards}
	err := s.store.RunInTx(ctx, driven.TxReadWrite, kinds, func(ctx context.Context) error {
		seg, err := s.store.Segments().Get(ctx, articleID, index)
		if err != nil {
			return err
		}
		article, err := s.store.Articles().Get(ctx, articleID)
		if err != nil {
			return err
		}

		if err := fn(ctx, seg); err != nil {
			return err
		}

		if err := s.store.Segments().Put(ctx, *seg); err != nil {
			return err
		}
		if article.ReplaceSegment(*seg) {
			if err := s.store.Articles().Put(ctx, *article); err != nil {
				return err
			}
		}
		updated = *seg
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update segment %s/%d: %w", articleID, index, err)
	}
	return &updated, nil
}

// mergeAnalysis keeps approved items from the current analysis and adds the
// new items whose lemma is not already present.
func mergeAnalysis(seg *domain.Segment, words []domain.WordAnalysis) []domain.WordAnalysis {
	merged := make([]domain.WordAnalysis, 0, len(words)+len(seg.ApprovedWordIDs))
	seen := make(map[string]bool)
	for _, w := range seg.AnalyzedWords {
		if seg.IsApproved(w.Key()) && !seen[w.Key()] {
			merged = append(merged, w)
			seen[w.Key()] = true
		}
	}
	for _, w := range words {
		if key := w.Key(); key != "" && !seen[key] {
			merged = append(merged, w)
			seen[key] = true
		}
	}
	return merged
}

func levelOrDefault(level string) string {
	if level = strings.TrimSpace(level); level != "" {
		return level
	}
	return DefaultTargetLevel
}
