package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lingua/internal/core/domain"
)

func firstCard(t *testing.T) domain.Flashcard {
	t.Helper()
	cards, err := flashcardService.Query(context.Background(), domain.FlashcardQuery{})
	require.NoError(t, err)
	require.NotEmpty(t, cards)
	return cards[0]
}

func TestReview_Pass(t *testing.T) {
	env := setupTestServices(t)
	env.approveSample(t)
	card := firstCard(t)
	require.Equal(t, 0, card.Stage)

	out, err := execute(t, "review", card.ID, "5")

	require.NoError(t, err)
	assert.Contains(t, out, "climbed: stage 1, next review")

	updated, err := flashcardService.Get(context.Background(), card.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Stage)
	assert.Greater(t, updated.NextReview, card.NextReview)
}

func TestReview_Fail(t *testing.T) {
	env := setupTestServices(t)
	env.approveSample(t)
	card := firstCard(t)

	out, err := execute(t, "review", card.ID, "1")

	require.NoError(t, err)
	assert.Contains(t, out, "stage 0")
}

func TestReview_BadQuality(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "review", "card-1", "great")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReview_UnknownCard(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "review", "missing", "4")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
