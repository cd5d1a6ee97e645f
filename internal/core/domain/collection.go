package domain

// Collection groups articles under a user-chosen name.
type Collection struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// EntityKind names one of the record kinds held by the record store.
type EntityKind string

const (
	// KindArticles is the article store.
	KindArticles EntityKind = "articles"

	// KindSegments is the segment store.
	KindSegments EntityKind = "segments"

	// KindFlashcards is the flashcard store.
	KindFlashcards EntityKind = "flashcards"

	// KindSettings is the settings store.
	KindSettings EntityKind = "settings"

	// KindCollections is the collection store.
	KindCollections EntityKind = "collections"
)

// AllEntityKinds returns every entity kind.
func AllEntityKinds() []EntityKind {
	return []EntityKind{KindArticles, KindSegments, KindFlashcards, KindSettings, KindCollections}
}
