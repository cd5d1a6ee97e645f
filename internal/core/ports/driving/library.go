package driving

import (
	"context"

	"github.com/custodia-labs/lingua/internal/core/domain"
)

// LibraryService manages articles, their segments and word approval.
type LibraryService interface {
	// ImportText segments text into a new article.
	ImportText(ctx context.Context, req domain.ImportRequest) (*domain.Article, error)

	// ImportRaw normalises raw input (HTML, plain text) and imports it.
	ImportRaw(ctx context.Context, raw *domain.RawDocument, collectionID string) (*domain.Article, error)

	// ListArticles returns every article, newest first.
	ListArticles(ctx context.Context) ([]domain.Article, error)

	// GetArticle retrieves an article by ID.
	GetArticle(ctx context.Context, id string) (*domain.Article, error)

	// GetSegment retrieves one segment of an article.
	GetSegment(ctx context.Context, articleID string, index int) (*domain.Segment, error)

	// AnalyzeSegment extracts learnable items from a segment and stores them.
	AnalyzeSegment(ctx context.Context, articleID string, index int, targetLevel string) (*domain.Segment, error)

	// TranslateSegment stores the Persian translation of a segment.
	TranslateSegment(ctx context.Context, articleID string, index int) (*domain.Segment, error)

	// ApproveWords approves analysed items by lemma and creates their flashcards.
	// Returns the flashcards created; already approved lemmas are skipped.
	ApproveWords(ctx context.Context, articleID string, index int, lemmas []string) ([]domain.Flashcard, error)

	// AddCustomWord analyses a user-chosen word, adds it to the segment and
	// creates its flashcard.
	AddCustomWord(ctx context.Context, articleID string, index int, word, targetLevel string) (*domain.Flashcard, error)
}
