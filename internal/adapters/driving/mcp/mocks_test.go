package mcp

import (
	"context"

	"github.com/custodia-labs/lingua/internal/core/domain"
	"github.com/custodia-labs/lingua/internal/core/ports/driving"
)

var (
	_ driving.FlashcardService = (*mockFlashcardService)(nil)
	_ driving.ReviewService    = (*mockReviewService)(nil)
	_ driving.LibraryService   = (*mockLibraryService)(nil)
)

// mockFlashcardService is a mock implementation of driving.FlashcardService.
type mockFlashcardService struct {
	cards       []domain.Flashcard
	err         error
	lastQuery   domain.FlashcardQuery
	lastMode    domain.SessionMode
	lastFilters domain.SessionFilters
	lastLimit   int
}

func (m *mockFlashcardService) Query(_ context.Context, q domain.FlashcardQuery) ([]domain.Flashcard, error) {
	m.lastQuery = q
	return m.cards, m.err
}

func (m *mockFlashcardService) CardsForSession(
	_ context.Context, mode domain.SessionMode, filters domain.SessionFilters, limit int,
) ([]domain.Flashcard, error) {
	m.lastMode, m.lastFilters, m.lastLimit = mode, filters, limit
	return m.cards, m.err
}

func (m *mockFlashcardService) Get(_ context.Context, id string) (*domain.Flashcard, error) {
	for i := range m.cards {
		if m.cards[i].ID == id {
			return &m.cards[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

// mockReviewService is a mock implementation of driving.ReviewService.
type mockReviewService struct {
	card        *domain.Flashcard
	err         error
	lastID      string
	lastQuality int
}

func (m *mockReviewService) Review(_ context.Context, cardID string, quality int) (*domain.Flashcard, error) {
	m.lastID, m.lastQuality = cardID, quality
	return m.card, m.err
}

// mockLibraryService is a mock implementation of driving.LibraryService.
type mockLibraryService struct {
	articles []domain.Article
	segment  *domain.Segment
	err      error
}

func (m *mockLibraryService) ImportText(_ context.Context, _ domain.ImportRequest) (*domain.Article, error) {
	return nil, m.err
}

func (m *mockLibraryService) ImportRaw(_ context.Context, _ *domain.RawDocument, _ string) (*domain.Article, error) {
	return nil, m.err
}

func (m *mockLibraryService) ListArticles(_ context.Context) ([]domain.Article, error) {
	return m.articles, m.err
}

func (m *mockLibraryService) GetArticle(_ context.Context, _ string) (*domain.Article, error) {
	return nil, m.err
}

func (m *mockLibraryService) GetSegment(_ context.Context, _ string, _ int) (*domain.Segment, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.segment == nil {
		return nil, domain.ErrNotFound
	}
	return m.segment, nil
}

func (m *mockLibraryService) AnalyzeSegment(_ context.Context, _ string, _ int, _ string) (*domain.Segment, error) {
	return m.segment, m.err
}

func (m *mockLibraryService) TranslateSegment(_ context.Context, _ string, _ int) (*domain.Segment, error) {
	return m.segment, m.err
}

func (m *mockLibraryService) ApproveWords(_ context.Context, _ string, _ int, _ []string) ([]domain.Flashcard, error) {
	return nil, m.err
}

func (m *mockLibraryService) AddCustomWord(_ context.Context, _ string, _ int, _, _ string) (*domain.Flashcard, error) {
	return nil, m.err
}

func newTestServer(flashcards *mockFlashcardService, review *mockReviewService, library *mockLibraryService) (*Server, error) {
	ports := &Ports{Flashcards: flashcards, Library: library}
	if review != nil {
		ports.Review = review
	}
	return NewServer(ports)
}
