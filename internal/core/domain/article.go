package domain

import (
	"slices"
	"strconv"
)

// Article is an imported text. It owns its segments logically; the full
// segments are stored separately and the article keeps a lightweight copy
// of each (content cleared) for listing.
type Article struct {
	// ID is the unique identifier.
	ID string `json:"id"`

	// Title is the article title.
	Title string `json:"title"`

	// Segments holds lightweight segment copies in index order.
	Segments []Segment `json:"segments"`

	// CollectionID optionally groups the article into a collection.
	CollectionID string `json:"collectionId,omitempty"`

	// ProcessedAt is when the article was imported.
	ProcessedAt Timestamp `json:"processedAt"`
}

// SegmentCount returns the number of segments in the article.
func (a *Article) SegmentCount() int {
	return len(a.Segments)
}

// ReplaceSegment updates the lightweight copy of seg held by the article.
// Returns false if the article has no segment at seg.Index.
func (a *Article) ReplaceSegment(seg Segment) bool {
	for i := range a.Segments {
		if a.Segments[i].Index == seg.Index {
			a.Segments[i] = seg.Lightweight()
			return true
		}
	}
	return false
}

// AnalyzedCount returns how many segments have been analysed.
func (a *Article) AnalyzedCount() int {
	n := 0
	for i := range a.Segments {
		if a.Segments[i].IsAnalyzed {
			n++
		}
	}
	return n
}

// Segment is one page of an article, unique per (ArticleID, Index).
type Segment struct {
	// ID identifies the segment in exported documents. The store keys
	// segments by (ArticleID, Index).
	ID string `json:"id"`

	// ArticleID links the segment to its article.
	ArticleID string `json:"articleId"`

	// Index is the 0-based position within the article.
	Index int `json:"index"`

	// Title is the display title of the page.
	Title string `json:"title"`

	// Content is the page text. Cleared in lightweight copies.
	Content string `json:"content"`

	// AnalyzedWords holds the items extracted by analysis and custom additions.
	AnalyzedWords []WordAnalysis `json:"analyzedWords"`

	// ApprovedWordIDs lists the lemmas approved for flashcard creation.
	// Always a subset of the lemmas in AnalyzedWords.
	ApprovedWordIDs []string `json:"approvedWordIds"`

	// PersianTranslation is the translated page text, once requested.
	PersianTranslation string `json:"persianTranslation,omitempty"`

	// IsAnalyzed is set once analysis has completed.
	IsAnalyzed bool `json:"isAnalyzed"`
}

// SegmentID returns the identifier assigned to page index of an article.
func SegmentID(articleID string, index int) string {
	return articleID + "-" + strconv.Itoa(index)
}

// Lightweight returns a copy of the segment with its content cleared.
func (s Segment) Lightweight() Segment {
	s.Content = ""
	return s
}

// PutWord stores w in AnalyzedWords, replacing the item with the same lemma.
func (s *Segment) PutWord(w WordAnalysis) {
	key := w.Key()
	if i := slices.IndexFunc(s.AnalyzedWords, func(old WordAnalysis) bool { return old.Key() == key }); i >= 0 {
		s.AnalyzedWords[i] = w
		return
	}
	s.AnalyzedWords = append(s.AnalyzedWords, w)
}

// FindWord returns the analysed item with the given lemma.
func (s *Segment) FindWord(lemma string) (WordAnalysis, bool) {
	for _, w := range s.AnalyzedWords {
		if w.Key() == lemma {
			return w, true
		}
	}
	return WordAnalysis{}, false
}

// IsApproved returns true if the lemma has already been approved.
func (s *Segment) IsApproved(lemma string) bool {
	return slices.Contains(s.ApprovedWordIDs, lemma)
}

// Approve records the lemma as approved. Returns false if it was already approved.
func (s *Segment) Approve(lemma string) bool {
	if s.IsApproved(lemma) {
		return false
	}
	s.ApprovedWordIDs = append(s.ApprovedWordIDs, lemma)
	return true
}
