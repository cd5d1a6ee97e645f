package driving

import (
	"context"

	"github.com/custodia-labs/lingua/internal/core/domain"
)

// FlashcardService queries flashcards and selects study sessions.
type FlashcardService interface {
	// Query returns one page of flashcards matching q, sorted by headword.
	Query(ctx context.Context, q domain.FlashcardQuery) ([]domain.Flashcard, error)

	// CardsForSession selects up to limit cards for a study session in random order.
	// A limit of zero or less uses the default session size.
	CardsForSession(ctx context.Context, mode domain.SessionMode, filters domain.SessionFilters, limit int) ([]domain.Flashcard, error)

	// Get retrieves a flashcard by ID.
	Get(ctx context.Context, id string) (*domain.Flashcard, error)
}

// ReviewService records flashcard reviews.
type ReviewService interface {
	// Review grades a card (0-5, pass at 3 or more) and stores its new schedule.
	Review(ctx context.Context, cardID string, quality int) (*domain.Flashcard, error)
}
