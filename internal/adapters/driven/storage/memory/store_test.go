package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lingua/internal/adapters/driven/storage/storetest"
	"github.com/custodia-labs/lingua/internal/core/domain"
	"github.com/custodia-labs/lingua/internal/core/ports/driven"
)

func TestStore_Behaviour(t *testing.T) {
	storetest.Run(t, func(*testing.T) driven.RecordStore {
		return NewStore()
	})
}

func TestStore_ReturnsCopies(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	seg := domain.Segment{
		ArticleID:       "a1",
		Index:           0,
		AnalyzedWords:   []domain.WordAnalysis{{Lemma: "run", Collocations: []string{"run fast"}}},
		ApprovedWordIDs: []string{},
	}
	require.NoError(t, store.Segments().Put(ctx, seg))

	// Mutating the caller's value does not touch the stored record.
	seg.AnalyzedWords[0].Collocations[0] = "changed"

	got, err := store.Segments().Get(ctx, "a1", 0)
	require.NoError(t, err)
	assert.Equal(t, "run fast", got.AnalyzedWords[0].Collocations[0])

	got.ApprovedWordIDs = append(got.ApprovedWordIDs, "run")
	again, err := store.Segments().Get(ctx, "a1", 0)
	require.NoError(t, err)
	assert.Empty(t, again.ApprovedWordIDs)
}

func TestRunInTx_RestoresOnlyScopedKinds(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	require.NoError(t, store.Flashcards().Put(ctx, storetest.Card("c1", "a1", domain.WordTypeVocabulary, "B1", 0, 0)))

	err := store.RunInTx(ctx, driven.TxReadWrite, []domain.EntityKind{domain.KindFlashcards, domain.KindSettings},
		func(ctx context.Context) error {
			require.NoError(t, store.Settings().Put(ctx, domain.DefaultSettings()))
			card := storetest.Card("c1", "a1", domain.WordTypeVocabulary, "B1", 4, 99)
			require.NoError(t, store.Flashcards().Put(ctx, card))
			return assert.AnError
		})
	require.ErrorIs(t, err, assert.AnError)

	card, err := store.Flashcards().Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 0, card.Stage)

	_, err = store.Settings().Get(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRunInTx_ReadOnlyAllowsConcurrentReaders(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	require.NoError(t, store.Articles().Put(ctx, domain.Article{ID: "a1"}))

	err := store.RunInTx(ctx, driven.TxReadOnly, []domain.EntityKind{domain.KindArticles},
		func(txCtx context.Context) error {
			// A reader outside the transaction is not blocked by it.
			n, err := store.Articles().Count(ctx)
			if err != nil {
				return err
			}
			assert.Equal(t, 1, n)
			_, err = store.Articles().Get(txCtx, "a1")
			return err
		})
	assert.NoError(t, err)
}

func TestClose(t *testing.T) {
	assert.NoError(t, NewStore().Close())
}
