package domain

import (
	"fmt"
	"time"
)

// BackupVersion is the only backup format version this build reads and writes.
const BackupVersion = 1

// Backup is the portable whole-database document.
//
// On import a nil slice means the kind was absent from the document and is
// left untouched; an empty slice is present but contributes nothing.
type Backup struct {
	Version     int          `json:"version"`
	Timestamp   Timestamp    `json:"timestamp"`
	Articles    []Article    `json:"articles"`
	Segments    []Segment    `json:"segments"`
	Flashcards  []Flashcard  `json:"flashcards"`
	Settings    *Settings    `json:"settings,omitempty"`
	Collections []Collection `json:"collections"`
}

// BackupFileName returns the conventional file name for a backup taken at t.
func BackupFileName(t time.Time) string {
	return fmt.Sprintf("lingua-backup-%s.json", t.UTC().Format("2006-01-02"))
}

// Validate checks every record for the structure the store requires.
// Any violation is reported as ErrMalformedBackup. A document without a
// version is read as the current version.
func (b *Backup) Validate() error {
	if b.Version == 0 {
		b.Version = BackupVersion
	}
	if b.Version != BackupVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrMalformedBackup, b.Version)
	}
	for i := range b.Articles {
		if b.Articles[i].ID == "" {
			return fmt.Errorf("%w: article %d has no id", ErrMalformedBackup, i)
		}
	}
	for i := range b.Segments {
		seg := &b.Segments[i]
		if seg.ArticleID == "" || seg.Index < 0 {
			return fmt.Errorf("%w: segment %d has an invalid key", ErrMalformedBackup, i)
		}
		if err := validateWords(seg.AnalyzedWords); err != nil {
			return fmt.Errorf("%w: segment %s/%d: %w", ErrMalformedBackup, seg.ArticleID, seg.Index, err)
		}
	}
	for i := range b.Flashcards {
		card := &b.Flashcards[i]
		if card.ID == "" {
			return fmt.Errorf("%w: flashcard %d has no id", ErrMalformedBackup, i)
		}
		if card.Stage < 0 {
			return fmt.Errorf("%w: flashcard %s has negative stage", ErrMalformedBackup, card.ID)
		}
		if card.Type != "" && !card.Type.IsValid() {
			return fmt.Errorf("%w: flashcard %s has unknown type %q", ErrMalformedBackup, card.ID, card.Type)
		}
	}
	for i := range b.Collections {
		if b.Collections[i].ID == "" {
			return fmt.Errorf("%w: collection %d has no id", ErrMalformedBackup, i)
		}
	}
	return nil
}

// RecordCount returns the total number of records in the document.
func (b *Backup) RecordCount() int {
	n := len(b.Articles) + len(b.Segments) + len(b.Flashcards) + len(b.Collections)
	if b.Settings != nil {
		n++
	}
	return n
}

func validateWords(words []WordAnalysis) error {
	for _, w := range words {
		if w.Type != "" && !w.Type.IsValid() {
			return fmt.Errorf("unknown word type %q", w.Type)
		}
	}
	return nil
}
