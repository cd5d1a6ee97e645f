package domain

// Flashcard is an approved item under spaced-repetition review.
// It references its article by id without owning it.
type Flashcard struct {
	WordAnalysis

	// ID is the unique identifier.
	ID string `json:"id"`

	// ArticleID is the article the item was approved from.
	ArticleID string `json:"articleId"`

	// NextReview is when the card is next due.
	NextReview Timestamp `json:"nextReview"`

	// Stage is the number of consecutive successful reviews (>= 0).
	Stage int `json:"stage"`

	// CreatedAt is when the card was created.
	CreatedAt Timestamp `json:"createdAt"`
}

// NewFlashcard creates a stage-0 card that is due immediately.
func NewFlashcard(id, articleID string, word WordAnalysis, now Timestamp) Flashcard {
	return Flashcard{
		WordAnalysis: word,
		ID:           id,
		ArticleID:    articleID,
		NextReview:   now,
		Stage:        0,
		CreatedAt:    now,
	}
}

// IsDue returns true if the card should be reviewed at now.
func (f *Flashcard) IsDue(now Timestamp) bool {
	return f.NextReview <= now
}

// IsNew returns true if the card has never been passed.
func (f *Flashcard) IsNew() bool {
	return f.Stage == 0
}

// FlashcardIndex names a secondary index over flashcards.
type FlashcardIndex string

const (
	// IndexArticleID indexes flashcards by article id.
	IndexArticleID FlashcardIndex = "articleId"

	// IndexStage indexes flashcards by review stage.
	IndexStage FlashcardIndex = "stage"

	// IndexNextReview indexes flashcards by next review time.
	IndexNextReview FlashcardIndex = "nextReview"

	// IndexType indexes flashcards by word type.
	IndexType FlashcardIndex = "type"

	// IndexLevel indexes flashcards by difficulty level.
	IndexLevel FlashcardIndex = "level"
)

// IsValid returns true if the index is one of the known flashcard indexes.
func (i FlashcardIndex) IsValid() bool {
	switch i {
	case IndexArticleID, IndexStage, IndexNextReview, IndexType, IndexLevel:
		return true
	default:
		return false
	}
}

// KeyOf returns the index key of the card for this index.
func (i FlashcardIndex) KeyOf(f *Flashcard) any {
	switch i {
	case IndexArticleID:
		return f.ArticleID
	case IndexStage:
		return f.Stage
	case IndexNextReview:
		return f.NextReview
	case IndexType:
		return string(f.Type)
	case IndexLevel:
		return f.Level
	default:
		return nil
	}
}
