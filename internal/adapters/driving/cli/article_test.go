package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lingua/internal/core/domain"
)

func TestArticleList_Empty(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "article", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "No articles yet")
}

func TestArticleList(t *testing.T) {
	env := setupTestServices(t)
	id := env.importSample(t)

	out, err := execute(t, "article", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "Articles:")
	assert.Contains(t, out, id)
	assert.Contains(t, out, "The Lighthouse")
	assert.Contains(t, out, "1 (0 analysed)")
	assert.Contains(t, out, "Total: 1 articles")
}

func TestArticleList_JSON(t *testing.T) {
	env := setupTestServices(t)
	id := env.importSample(t)

	out, err := execute(t, "article", "list", "--json")

	require.NoError(t, err)
	var articles []domain.Article
	require.NoError(t, json.Unmarshal([]byte(out), &articles))
	require.Len(t, articles, 1)
	assert.Equal(t, id, articles[0].ID)
}

func TestArticleShow(t *testing.T) {
	env := setupTestServices(t)
	id := env.importSample(t)

	out, err := execute(t, "article", "show", id)

	require.NoError(t, err)
	assert.Contains(t, out, "Article: "+id)
	assert.Contains(t, out, "Title:    The Lighthouse")
	assert.Contains(t, out, "0. The Lighthouse (not analysed)")
}

func TestArticleShow_NotFound(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "article", "show", "missing")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
