package driven

import (
	"context"

	"github.com/custodia-labs/lingua/internal/core/domain"
)

// TxMode selects whether a transaction may write.
type TxMode int

const (
	// TxReadOnly permits reads only.
	TxReadOnly TxMode = iota

	// TxReadWrite permits reads and writes. Read-write transactions are serialized.
	TxReadWrite
)

// String returns the string representation of the mode.
func (m TxMode) String() string {
	if m == TxReadWrite {
		return "readwrite"
	}
	return "readonly"
}

// RecordStore is the local persistent store for all entity kinds.
//
// Every sub-store method takes a context; when the context was handed out by
// RunInTx the operation joins that transaction. Outside a transaction each
// operation is atomic on its own.
type RecordStore interface {
	// Articles returns the article store.
	Articles() ArticleStore

	// Segments returns the segment store.
	Segments() SegmentStore

	// Flashcards returns the flashcard store.
	Flashcards() FlashcardStore

	// Settings returns the settings store.
	Settings() SettingsStore

	// Collections returns the collection store.
	Collections() CollectionStore

	// RunInTx runs fn inside a transaction over the given kinds.
	// Every write made through the context passed to fn becomes visible
	// together when fn returns nil; if fn returns an error or panics, none do.
	// Writes in a read-only transaction, or to a kind outside kinds, fail with
	// domain.ErrTxScope. Calling RunInTx with a context that already carries a
	// transaction joins it.
	RunInTx(ctx context.Context, mode TxMode, kinds []domain.EntityKind, fn func(ctx context.Context) error) error

	// Close releases the underlying resources.
	Close() error
}

// ArticleStore persists articles keyed by id.
type ArticleStore interface {
	// Put inserts or fully replaces an article.
	Put(ctx context.Context, article domain.Article) error

	// Get returns the article or domain.ErrNotFound.
	Get(ctx context.Context, id string) (*domain.Article, error)

	// ListByProcessedAt returns all articles ordered by processing time ascending.
	ListByProcessedAt(ctx context.Context) ([]domain.Article, error)

	// Count returns the number of articles.
	Count(ctx context.Context) (int, error)
}

// SegmentStore persists segments keyed by (articleID, index).
type SegmentStore interface {
	// Put inserts or fully replaces a segment.
	Put(ctx context.Context, segment domain.Segment) error

	// Get returns the segment or domain.ErrNotFound.
	Get(ctx context.Context, articleID string, index int) (*domain.Segment, error)

	// ListByArticle returns the segments of one article ordered by index.
	ListByArticle(ctx context.Context, articleID string) ([]domain.Segment, error)

	// List returns every segment ordered by article id then index.
	List(ctx context.Context) ([]domain.Segment, error)

	// Count returns the number of segments.
	Count(ctx context.Context) (int, error)
}

// FlashcardStore persists flashcards keyed by id with secondary indexes on
// articleId, stage, nextReview, type and level.
type FlashcardStore interface {
	// Put inserts or fully replaces a flashcard.
	Put(ctx context.Context, card domain.Flashcard) error

	// Get returns the flashcard or domain.ErrNotFound.
	Get(ctx context.Context, id string) (*domain.Flashcard, error)

	// FindByIndex returns the cards whose index key falls in r, ordered by
	// index key ascending then id. A limit <= 0 means unbounded.
	FindByIndex(ctx context.Context, index domain.FlashcardIndex, r domain.KeyRange, limit int) ([]domain.Flashcard, error)

	// List returns every flashcard ordered by id.
	List(ctx context.Context) ([]domain.Flashcard, error)

	// Count returns the number of flashcards.
	Count(ctx context.Context) (int, error)
}

// SettingsStore persists the single settings record.
type SettingsStore interface {
	// Put inserts or replaces the settings record. The id is forced to domain.SettingsID.
	Put(ctx context.Context, settings domain.Settings) error

	// Get returns the stored record as-is or domain.ErrNotFound.
	Get(ctx context.Context) (*domain.Settings, error)
}

// CollectionStore persists collections keyed by id.
type CollectionStore interface {
	// Put inserts or fully replaces a collection.
	Put(ctx context.Context, collection domain.Collection) error

	// Get returns the collection or domain.ErrNotFound.
	Get(ctx context.Context, id string) (*domain.Collection, error)

	// List returns every collection ordered by id.
	List(ctx context.Context) ([]domain.Collection, error)

	// Count returns the number of collections.
	Count(ctx context.Context) (int, error)
}
