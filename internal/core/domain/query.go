package domain

import "strings"

// AnyValue is the sentinel criterion value meaning "no restriction".
const AnyValue = "all"

// DefaultSessionLimit is the session size used when no limit is given.
const DefaultSessionLimit = 50

// Specified returns true if a filter criterion restricts results.
// Empty values and "all" are treated as unspecified.
func Specified(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && !strings.EqualFold(v, AnyValue)
}

// FlashcardQuery describes a paginated flashcard search.
type FlashcardQuery struct {
	// ArticleID restricts results to one article.
	ArticleID string

	// Type restricts results to one word type.
	Type string

	// Level restricts results to one difficulty level.
	Level string

	// Search is a case-insensitive substring matched against the headword
	// or the Persian translation.
	Search string

	// Limit is the maximum number of results (0 = all).
	Limit int

	// Offset skips the first results after sorting.
	Offset int
}

// Normalize clamps negative pagination values to their defaults.
func (q *FlashcardQuery) Normalize() {
	if q.Offset < 0 {
		q.Offset = 0
	}
	if q.Limit < 0 {
		q.Limit = 0
	}
}

// SessionMode selects which cards a study session draws from.
type SessionMode string

const (
	// SessionDue selects cards whose next review is not after now.
	SessionDue SessionMode = "due"

	// SessionNew selects cards that have never been passed.
	SessionNew SessionMode = "new"

	// SessionAll selects any card matching the filters.
	SessionAll SessionMode = "all"
)

// IsValid returns true if the session mode is known.
func (m SessionMode) IsValid() bool {
	switch m {
	case SessionDue, SessionNew, SessionAll:
		return true
	default:
		return false
	}
}

// String returns the string representation of the session mode.
func (m SessionMode) String() string {
	return string(m)
}

// SessionFilters restrict the cards selected for a session.
type SessionFilters struct {
	ArticleID string
	Type      string
	Level     string
}

// Matches returns true if the card satisfies every specified filter.
func (f SessionFilters) Matches(card *Flashcard) bool {
	if Specified(f.ArticleID) && card.ArticleID != f.ArticleID {
		return false
	}
	if Specified(f.Type) && string(card.Type) != f.Type {
		return false
	}
	if Specified(f.Level) && card.Level != f.Level {
		return false
	}
	return true
}
