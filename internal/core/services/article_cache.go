package services

import (
	"context"
	"slices"
	"sync"

	"github.com/custodia-labs/lingua/internal/core/domain"
)

// ArticleCache is a read-through cache of the article list.
// Every operation that writes articles must call Invalidate.
type ArticleCache struct {
	mu       sync.Mutex
	articles []domain.Article
	valid    bool
}

// NewArticleCache creates an empty cache.
func NewArticleCache() *ArticleCache {
	return &ArticleCache{}
}

// Get returns the cached list, calling load on a miss.
// Callers receive a copy they may modify.
func (c *ArticleCache) Get(ctx context.Context, load func(context.Context) ([]domain.Article, error)) ([]domain.Article, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.valid {
		articles, err := load(ctx)
		if err != nil {
			return nil, err
		}
		c.articles = articles
		c.valid = true
	}
	return cloneArticles(c.articles), nil
}

// Invalidate drops the cached list. The next Get reloads it.
func (c *ArticleCache) Invalidate() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.articles = nil
	c.valid = false
}

func cloneArticles(articles []domain.Article) []domain.Article {
	out := make([]domain.Article, len(articles))
	for i, a := range articles {
		a.Segments = slices.Clone(a.Segments)
		out[i] = a
	}
	return out
}
