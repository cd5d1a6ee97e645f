// Package storetest holds behaviour tests shared by every RecordStore implementation.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lingua/internal/core/domain"
	"github.com/custodia-labs/lingua/internal/core/ports/driven"
)

// Factory creates an empty store for one test.
type Factory func(t *testing.T) driven.RecordStore

// Run runs the shared record store tests against stores created by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("ArticleRoundTrip", func(t *testing.T) { testArticleRoundTrip(t, newStore(t)) })
	t.Run("ArticleListOrder", func(t *testing.T) { testArticleListOrder(t, newStore(t)) })
	t.Run("SegmentKeys", func(t *testing.T) { testSegmentKeys(t, newStore(t)) })
	t.Run("FlashcardIndexes", func(t *testing.T) { testFlashcardIndexes(t, newStore(t)) })
	t.Run("FlashcardUpsert", func(t *testing.T) { testFlashcardUpsert(t, newStore(t)) })
	t.Run("SettingsSingleton", func(t *testing.T) { testSettingsSingleton(t, newStore(t)) })
	t.Run("Collections", func(t *testing.T) { testCollections(t, newStore(t)) })
	t.Run("NotFound", func(t *testing.T) { testNotFound(t, newStore(t)) })
	t.Run("TxCommit", func(t *testing.T) { testTxCommit(t, newStore(t)) })
	t.Run("TxRollback", func(t *testing.T) { testTxRollback(t, newStore(t)) })
	t.Run("TxPanic", func(t *testing.T) { testTxPanic(t, newStore(t)) })
	t.Run("TxScope", func(t *testing.T) { testTxScope(t, newStore(t)) })
	t.Run("TxNested", func(t *testing.T) { testTxNested(t, newStore(t)) })
}

// Card builds a flashcard for tests.
func Card(id, articleID string, wordType domain.WordType, level string, stage int, next domain.Timestamp) domain.Flashcard {
	return domain.Flashcard{
		WordAnalysis: domain.WordAnalysis{
			Type:         wordType,
			Word:         id,
			Lemma:        id,
			Level:        level,
			Collocations: []string{},
		},
		ID:         id,
		ArticleID:  articleID,
		Stage:      stage,
		NextReview: next,
	}
}

func ids(cards []domain.Flashcard) []string {
	out := make([]string, len(cards))
	for i := range cards {
		out[i] = cards[i].ID
	}
	return out
}

func testArticleRoundTrip(t *testing.T, store driven.RecordStore) {
	ctx := context.Background()
	article := domain.Article{
		ID:           "a1",
		Title:        "First",
		CollectionID: "c1",
		ProcessedAt:  1000,
		Segments: []domain.Segment{
			{ArticleID: "a1", Index: 0, Title: "First", AnalyzedWords: []domain.WordAnalysis{}, ApprovedWordIDs: []string{}},
		},
	}

	require.NoError(t, store.Articles().Put(ctx, article))

	got, err := store.Articles().Get(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, article, *got)

	n, err := store.Articles().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func testArticleListOrder(t *testing.T, store driven.RecordStore) {
	ctx := context.Background()
	require.NoError(t, store.Articles().Put(ctx, domain.Article{ID: "late", ProcessedAt: 300}))
	require.NoError(t, store.Articles().Put(ctx, domain.Article{ID: "early", ProcessedAt: 100}))
	require.NoError(t, store.Articles().Put(ctx, domain.Article{ID: "middle", ProcessedAt: 200}))

	articles, err := store.Articles().ListByProcessedAt(ctx)
	require.NoError(t, err)
	require.Len(t, articles, 3)
	assert.Equal(t, "early", articles[0].ID)
	assert.Equal(t, "middle", articles[1].ID)
	assert.Equal(t, "late", articles[2].ID)
}

func testSegmentKeys(t *testing.T, store driven.RecordStore) {
	ctx := context.Background()
	for i := 2; i >= 0; i-- {
		require.NoError(t, store.Segments().Put(ctx, domain.Segment{
			ID: fmt.Sprintf("a1-%d", i), ArticleID: "a1", Index: i, Content: fmt.Sprintf("page %d", i),
			AnalyzedWords: []domain.WordAnalysis{}, ApprovedWordIDs: []string{},
		}))
	}
	require.NoError(t, store.Segments().Put(ctx, domain.Segment{
		ArticleID: "a2", Index: 0, Content: "other",
		AnalyzedWords: []domain.WordAnalysis{}, ApprovedWordIDs: []string{},
	}))

	seg, err := store.Segments().Get(ctx, "a1", 1)
	require.NoError(t, err)
	assert.Equal(t, "page 1", seg.Content)
	assert.Equal(t, "a1-1", seg.ID)

	segments, err := store.Segments().ListByArticle(ctx, "a1")
	require.NoError(t, err)
	require.Len(t, segments, 3)
	for i, s := range segments {
		assert.Equal(t, i, s.Index)
	}

	// Replace keeps the key unique.
	require.NoError(t, store.Segments().Put(ctx, domain.Segment{
		ArticleID: "a1", Index: 1, Content: "rewritten", IsAnalyzed: true,
		AnalyzedWords: []domain.WordAnalysis{}, ApprovedWordIDs: []string{},
	}))
	n, err := store.Segments().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	all, err := store.Segments().List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "a1", all[0].ArticleID)
	assert.Equal(t, "rewritten", all[1].Content)
	assert.Equal(t, "a2", all[3].ArticleID)
}

func testFlashcardIndexes(t *testing.T, store driven.RecordStore) {
	ctx := context.Background()
	cards := []domain.Flashcard{
		Card("c1", "a1", domain.WordTypeVocabulary, "B1", 0, 500),
		Card("c2", "a1", domain.WordTypeGrammar, "C1", 2, 100),
		Card("c3", "a2", domain.WordTypeVocabulary, "B1", 1, 300),
		Card("c4", "a2", domain.WordTypeLiterary, "C2", 0, 900),
	}
	for _, c := range cards {
		require.NoError(t, store.Flashcards().Put(ctx, c))
	}

	tests := []struct {
		name  string
		index domain.FlashcardIndex
		r     domain.KeyRange
		limit int
		want  []string
	}{
		{"article exact", domain.IndexArticleID, domain.Only("a1"), 0, []string{"c1", "c2"}},
		{"type exact", domain.IndexType, domain.Only("vocabulary"), 0, []string{"c1", "c3"}},
		{"level exact", domain.IndexLevel, domain.Only("B1"), 0, []string{"c1", "c3"}},
		{"stage zero", domain.IndexStage, domain.Only(0), 0, []string{"c1", "c4"}},
		{"due at 300", domain.IndexNextReview, domain.AtMost(domain.Timestamp(300)), 0, []string{"c2", "c3"}},
		{"due open upper", domain.IndexNextReview, domain.KeyRange{Upper: domain.Timestamp(300), UpperOpen: true}, 0, []string{"c2"}},
		{"review order", domain.IndexNextReview, domain.AtLeast(domain.Timestamp(0)), 0, []string{"c2", "c3", "c1", "c4"}},
		{"limited", domain.IndexNextReview, domain.AtLeast(domain.Timestamp(0)), 2, []string{"c2", "c3"}},
		{"no match", domain.IndexArticleID, domain.Only("missing"), 0, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.Flashcards().FindByIndex(ctx, tt.index, tt.r, tt.limit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}

	_, err := store.Flashcards().FindByIndex(ctx, domain.FlashcardIndex("word"), domain.Only("x"), 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func testFlashcardUpsert(t *testing.T, store driven.RecordStore) {
	ctx := context.Background()
	card := Card("c1", "a1", domain.WordTypeVocabulary, "B1", 0, 100)
	require.NoError(t, store.Flashcards().Put(ctx, card))

	card.Stage = 3
	card.NextReview = 800
	require.NoError(t, store.Flashcards().Put(ctx, card))

	got, err := store.Flashcards().Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 3, got.Stage)
	assert.Equal(t, domain.Timestamp(800), got.NextReview)

	// Index reflects the new values.
	old, err := store.Flashcards().FindByIndex(ctx, domain.IndexStage, domain.Only(0), 0)
	require.NoError(t, err)
	assert.Empty(t, old)

	n, err := store.Flashcards().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	all, err := store.Flashcards().List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"c1"}, ids(all))
}

func testSettingsSingleton(t *testing.T, store driven.RecordStore) {
	ctx := context.Background()

	_, err := store.Settings().Get(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	settings := domain.DefaultSettings()
	settings.ID = "something-else"
	settings.SegmentLength = 500
	require.NoError(t, store.Settings().Put(ctx, settings))

	got, err := store.Settings().Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.SettingsID, got.ID)
	assert.Equal(t, 500, got.SegmentLength)
}

func testCollections(t *testing.T, store driven.RecordStore) {
	ctx := context.Background()
	require.NoError(t, store.Collections().Put(ctx, domain.Collection{ID: "b", Name: "Books"}))
	require.NoError(t, store.Collections().Put(ctx, domain.Collection{ID: "a", Name: "Articles"}))
	require.NoError(t, store.Collections().Put(ctx, domain.Collection{ID: "b", Name: "Novels"}))

	got, err := store.Collections().Get(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "Novels", got.Name)

	all, err := store.Collections().List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].ID)

	n, err := store.Collections().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func testNotFound(t *testing.T, store driven.RecordStore) {
	ctx := context.Background()

	_, err := store.Articles().Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = store.Segments().Get(ctx, "missing", 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = store.Flashcards().Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = store.Collections().Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func testTxCommit(t *testing.T, store driven.RecordStore) {
	ctx := context.Background()
	kinds := []domain.EntityKind{domain.KindArticles, domain.KindFlashcards}

	err := store.RunInTx(ctx, driven.TxReadWrite, kinds, func(ctx context.Context) error {
		if err := store.Articles().Put(ctx, domain.Article{ID: "a1"}); err != nil {
			return err
		}
		// Reads inside the transaction see its own writes.
		if _, err := store.Articles().Get(ctx, "a1"); err != nil {
			return err
		}
		return store.Flashcards().Put(ctx, Card("c1", "a1", domain.WordTypeVocabulary, "B1", 0, 0))
	})
	require.NoError(t, err)

	_, err = store.Articles().Get(ctx, "a1")
	assert.NoError(t, err)
	_, err = store.Flashcards().Get(ctx, "c1")
	assert.NoError(t, err)
}

func testTxRollback(t *testing.T, store driven.RecordStore) {
	ctx := context.Background()
	require.NoError(t, store.Articles().Put(ctx, domain.Article{ID: "a1", Title: "before"}))
	boom := errors.New("boom")

	err := store.RunInTx(ctx, driven.TxReadWrite, []domain.EntityKind{domain.KindArticles, domain.KindSegments},
		func(ctx context.Context) error {
			if err := store.Articles().Put(ctx, domain.Article{ID: "a1", Title: "after"}); err != nil {
				return err
			}
			if err := store.Articles().Put(ctx, domain.Article{ID: "a2"}); err != nil {
				return err
			}
			if err := store.Segments().Put(ctx, domain.Segment{ArticleID: "a2", Index: 0}); err != nil {
				return err
			}
			return boom
		})
	require.ErrorIs(t, err, boom)

	got, err := store.Articles().Get(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "before", got.Title)
	_, err = store.Articles().Get(ctx, "a2")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = store.Segments().Get(ctx, "a2", 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func testTxPanic(t *testing.T, store driven.RecordStore) {
	ctx := context.Background()

	assert.Panics(t, func() {
		_ = store.RunInTx(ctx, driven.TxReadWrite, []domain.EntityKind{domain.KindCollections},
			func(ctx context.Context) error {
				if err := store.Collections().Put(ctx, domain.Collection{ID: "c1"}); err != nil {
					return err
				}
				panic("boom")
			})
	})

	_, err := store.Collections().Get(ctx, "c1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// The store stays usable after the panic.
	require.NoError(t, store.Collections().Put(ctx, domain.Collection{ID: "c2"}))
}

func testTxScope(t *testing.T, store driven.RecordStore) {
	ctx := context.Background()

	err := store.RunInTx(ctx, driven.TxReadOnly, []domain.EntityKind{domain.KindArticles},
		func(ctx context.Context) error {
			return store.Articles().Put(ctx, domain.Article{ID: "a1"})
		})
	assert.ErrorIs(t, err, domain.ErrTxScope)

	err = store.RunInTx(ctx, driven.TxReadWrite, []domain.EntityKind{domain.KindArticles},
		func(ctx context.Context) error {
			return store.Flashcards().Put(ctx, Card("c1", "a1", domain.WordTypeVocabulary, "", 0, 0))
		})
	assert.ErrorIs(t, err, domain.ErrTxScope)

	n, err := store.Flashcards().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func testTxNested(t *testing.T, store driven.RecordStore) {
	ctx := context.Background()
	boom := errors.New("boom")

	err := store.RunInTx(ctx, driven.TxReadWrite, []domain.EntityKind{domain.KindArticles},
		func(ctx context.Context) error {
			inner := store.RunInTx(ctx, driven.TxReadWrite, []domain.EntityKind{domain.KindArticles},
				func(ctx context.Context) error {
					return store.Articles().Put(ctx, domain.Article{ID: "inner"})
				})
			if inner != nil {
				return inner
			}
			return boom
		})
	require.ErrorIs(t, err, boom)

	_, err = store.Articles().Get(ctx, "inner")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = store.RunInTx(ctx, driven.TxReadOnly, nil, func(ctx context.Context) error {
		return store.RunInTx(ctx, driven.TxReadWrite, []domain.EntityKind{domain.KindArticles},
			func(context.Context) error { return nil })
	})
	assert.ErrorIs(t, err, domain.ErrTxScope)
}
