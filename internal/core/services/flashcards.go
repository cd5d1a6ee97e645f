package services

import (
	"cmp"
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"

	"github.com/custodia-labs/lingua/internal/core/domain"
	"github.com/custodia-labs/lingua/internal/core/ports/driven"
	"github.com/custodia-labs/lingua/internal/core/ports/driving"
)

// Ensure FlashcardService implements the interface.
var _ driving.FlashcardService = (*FlashcardService)(nil)

// FlashcardService is the query engine over flashcards.
type FlashcardService struct {
	store        driven.RecordStore
	sessionLimit int
	clock        Clock

	mu  sync.Mutex
	rng *rand.Rand
}

// NewFlashcardService creates a new flashcard service.
// A sessionLimit of zero or less uses domain.DefaultSessionLimit.
func NewFlashcardService(store driven.RecordStore, sessionLimit int) *FlashcardService {
	if sessionLimit <= 0 {
		sessionLimit = domain.DefaultSessionLimit
	}
	return &FlashcardService{
		store:        store,
		sessionLimit: sessionLimit,
	}
}

// SetClock replaces the clock used to decide which cards are due.
func (s *FlashcardService) SetClock(c Clock) {
	s.clock = c
}

// SetRand replaces the random source used to shuffle sessions.
func (s *FlashcardService) SetRand(r *rand.Rand) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rng = r
}

// Get retrieves a flashcard by ID.
func (s *FlashcardService) Get(ctx context.Context, id string) (*domain.Flashcard, error) {
	return s.store.Flashcards().Get(ctx, id)
}

// Query returns one page of matching flashcards.
//
// Candidates come from a single index chosen by priority (article, then
// type, then level); the remaining criteria and the search text are applied
// in memory. Results are sorted by headword before offset and limit apply.
func (s *FlashcardService) Query(ctx context.Context, q domain.FlashcardQuery) ([]domain.Flashcard, error) {
	q.Normalize()

	cards, err := s.seed(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query flashcards: %w", err)
	}

	filters := domain.SessionFilters{ArticleID: q.ArticleID, Type: q.Type, Level: q.Level}
	search := strings.ToLower(strings.TrimSpace(q.Search))

	matched := make([]domain.Flashcard, 0, len(cards))
	for i := range cards {
		if filters.Matches(&cards[i]) && matchesSearch(&cards[i], search) {
			matched = append(matched, cards[i])
		}
	}

	slices.SortFunc(matched, compareHeadwords)
	return paginate(matched, q.Offset, q.Limit), nil
}

// seed loads the candidates from the highest-priority index with a criterion.
func (s *FlashcardService) seed(ctx context.Context, q domain.FlashcardQuery) ([]domain.Flashcard, error) {
	cards := s.store.Flashcards()
	switch {
	case domain.Specified(q.ArticleID):
		return cards.FindByIndex(ctx, domain.IndexArticleID, domain.Only(q.ArticleID), 0)
	case domain.Specified(q.Type):
		return cards.FindByIndex(ctx, domain.IndexType, domain.Only(q.Type), 0)
	case domain.Specified(q.Level):
		return cards.FindByIndex(ctx, domain.IndexLevel, domain.Only(q.Level), 0)
	default:
		return cards.List(ctx)
	}
}

// CardsForSession selects up to limit cards for a study session, shuffled.
//
// In due and new modes the filters are applied before the limit, so a
// session is never short while matching cards remain.
func (s *FlashcardService) CardsForSession(
	ctx context.Context, mode domain.SessionMode, filters domain.SessionFilters, limit int,
) ([]domain.Flashcard, error) {
	if limit <= 0 {
		limit = s.sessionLimit
	}

	var candidates []domain.Flashcard
	var err error
	switch mode {
	case domain.SessionDue:
		candidates, err = s.store.Flashcards().FindByIndex(ctx, domain.IndexNextReview, domain.AtMost(s.clock.now()), 0)
	case domain.SessionNew:
		candidates, err = s.store.Flashcards().FindByIndex(ctx, domain.IndexStage, domain.Only(0), 0)
	case domain.SessionAll:
		candidates, err = s.Query(ctx, domain.FlashcardQuery{
			ArticleID: filters.ArticleID,
			Type:      filters.Type,
			Level:     filters.Level,
			Limit:     limit,
		})
	default:
		return nil, fmt.Errorf("%w: unknown session mode %q", domain.ErrInvalidInput, mode)
	}
	if err != nil {
		return nil, fmt.Errorf("select %s session: %w", mode, err)
	}

	selected := make([]domain.Flashcard, 0, min(len(candidates), limit))
	for i := range candidates {
		if len(selected) == limit {
			break
		}
		if filters.Matches(&candidates[i]) {
			selected = append(selected, candidates[i])
		}
	}

	s.shuffle(selected)
	return selected, nil
}

// shuffle permutes cards uniformly at random (Fisher-Yates).
func (s *FlashcardService) shuffle(cards []domain.Flashcard) {
	swap := func(i, j int) { cards[i], cards[j] = cards[j], cards[i] }

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rng != nil {
		s.rng.Shuffle(len(cards), swap)
		return
	}
	rand.Shuffle(len(cards), swap)
}

func matchesSearch(card *domain.Flashcard, search string) bool {
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(card.Word), search) ||
		strings.Contains(strings.ToLower(card.PersianTranslation), search)
}

// compareHeadwords orders cards by case-folded headword, then raw headword, then ID.
func compareHeadwords(a, b domain.Flashcard) int {
	return cmp.Or(
		cmp.Compare(strings.ToLower(a.Word), strings.ToLower(b.Word)),
		cmp.Compare(a.Word, b.Word),
		cmp.Compare(a.ID, b.ID),
	)
}

func paginate(cards []domain.Flashcard, offset, limit int) []domain.Flashcard {
	if offset >= len(cards) {
		return []domain.Flashcard{}
	}
	cards = cards[offset:]
	if limit > 0 && limit < len(cards) {
		cards = cards[:limit]
	}
	return cards
}
