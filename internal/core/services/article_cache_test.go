package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lingua/internal/core/domain"
)

func TestArticleCache(t *testing.T) {
	ctx := context.Background()
	cache := NewArticleCache()

	loads := 0
	load := func(context.Context) ([]domain.Article, error) {
		loads++
		return []domain.Article{{ID: "a1", Segments: []domain.Segment{{Index: 0}}}}, nil
	}

	first, err := cache.Get(ctx, load)
	require.NoError(t, err)
	first[0].Segments[0].Title = "mutated"

	second, err := cache.Get(ctx, load)
	require.NoError(t, err)
	assert.Equal(t, 1, loads)
	assert.Empty(t, second[0].Segments[0].Title, "callers get copies")

	cache.Invalidate()
	_, err = cache.Get(ctx, load)
	require.NoError(t, err)
	assert.Equal(t, 2, loads)
}

func TestArticleCache_LoadError(t *testing.T) {
	ctx := context.Background()
	cache := NewArticleCache()

	_, err := cache.Get(ctx, func(context.Context) ([]domain.Article, error) {
		return nil, errors.New("disk")
	})
	require.Error(t, err)

	articles, err := cache.Get(ctx, func(context.Context) ([]domain.Article, error) {
		return []domain.Article{}, nil
	})
	require.NoError(t, err)
	assert.Empty(t, articles)
}

func TestArticleCache_NilInvalidate(t *testing.T) {
	var cache *ArticleCache
	assert.NotPanics(t, cache.Invalidate)
}
