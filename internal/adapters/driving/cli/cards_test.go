package cli

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lingua/internal/core/domain"
)

// approveSample imports the sample article and approves all three items.
func (e *testEnv) approveSample(t *testing.T) string {
	t.Helper()
	id := e.importSample(t)
	ctx := context.Background()
	_, err := e.library.AnalyzeSegment(ctx, id, 0, "")
	require.NoError(t, err)
	_, err = e.library.ApproveWords(ctx, id, 0, []string{"climb", "keeper", "restless sea"})
	require.NoError(t, err)
	return id
}

func TestCardsList_Empty(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "cards", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "No flashcards found.")
}

func TestCardsList(t *testing.T) {
	env := setupTestServices(t)
	env.approveSample(t)

	out, err := execute(t, "cards", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "Total: 3 cards")
	assert.Less(t, strings.Index(out, "climbed"), strings.Index(out, "keeper"))
	assert.Less(t, strings.Index(out, "keeper"), strings.Index(out, "restless sea"))
}

func TestCardsList_Filters(t *testing.T) {
	env := setupTestServices(t)
	env.approveSample(t)

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"type", []string{"--type", "literary"}, []string{"restless sea"}},
		{"level", []string{"--level", "B1"}, []string{"keeper"}},
		{"search translation", []string{"--search", "نگهبان"}, []string{"keeper"}},
		{"limit and offset", []string{"--limit", "1", "--offset", "1"}, []string{"keeper"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"cards", "list", "--json"}, tt.args...)
			out, err := execute(t, args...)
			require.NoError(t, err)

			var cards []domain.Flashcard
			require.NoError(t, json.Unmarshal([]byte(out), &cards))
			words := make([]string, len(cards))
			for i := range cards {
				words[i] = cards[i].Word
			}
			assert.Equal(t, tt.want, words)
		})
	}
}

func TestCardsSession(t *testing.T) {
	env := setupTestServices(t)
	env.approveSample(t)

	out, err := execute(t, "cards", "session", "--mode", "new", "--limit", "2")

	require.NoError(t, err)
	assert.Contains(t, out, "Total: 2 cards")
}

func TestCardsSession_DueByDefault(t *testing.T) {
	env := setupTestServices(t)
	env.approveSample(t)

	out, err := execute(t, "cards", "session")

	require.NoError(t, err)
	assert.Contains(t, out, "Total: 3 cards")
}

func TestCardsSession_InvalidMode(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "cards", "session", "--mode", "later")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
