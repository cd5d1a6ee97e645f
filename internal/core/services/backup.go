package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/custodia-labs/lingua/internal/core/domain"
	"github.com/custodia-labs/lingua/internal/core/ports/driven"
	"github.com/custodia-labs/lingua/internal/core/ports/driving"
	"github.com/custodia-labs/lingua/internal/logger"
)

// Ensure BackupService implements the interface.
var _ driving.BackupService = (*BackupService)(nil)

// BackupService exports and imports the whole record store.
type BackupService struct {
	store driven.RecordStore
	cache *ArticleCache
	clock Clock
}

// NewBackupService creates a new backup service.
// The article cache, when given, is invalidated after every import.
func NewBackupService(store driven.RecordStore, cache *ArticleCache) *BackupService {
	return &BackupService{store: store, cache: cache}
}

// SetClock replaces the clock used for backup timestamps.
func (s *BackupService) SetClock(c Clock) {
	s.clock = c
}

// Export reads every record inside one read-only transaction.
func (s *BackupService) Export(ctx context.Context) (*domain.Backup, error) {
	doc := &domain.Backup{
		Version:   domain.BackupVersion,
		Timestamp: s.clock.now(),
	}

	err := s.store.RunInTx(ctx, driven.TxReadOnly, domain.AllEntityKinds(), func(ctx context.Context) error {
		var err error
		if doc.Articles, err = s.store.Articles().ListByProcessedAt(ctx); err != nil {
			return fmt.Errorf("articles: %w", err)
		}
		if doc.Segments, err = s.store.Segments().List(ctx); err != nil {
			return fmt.Errorf("segments: %w", err)
		}
		if doc.Flashcards, err = s.store.Flashcards().List(ctx); err != nil {
			return fmt.Errorf("flashcards: %w", err)
		}
		if doc.Collections, err = s.store.Collections().List(ctx); err != nil {
			return fmt.Errorf("collections: %w", err)
		}

		settings, err := s.store.Settings().Get(ctx)
		switch {
		case errors.Is(err, domain.ErrNotFound):
		case err != nil:
			return fmt.Errorf("settings: %w", err)
		default:
			doc.Settings = settings
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}

	doc.Articles = nonNil(doc.Articles)
	doc.Segments = nonNil(doc.Segments)
	doc.Flashcards = nonNil(doc.Flashcards)
	doc.Collections = nonNil(doc.Collections)
	return doc, nil
}

// Import merges doc into the store inside one read-write transaction.
// Every kind present in the document is upserted record by record;
// absent kinds are untouched. Nothing is written if doc is invalid.
func (s *BackupService) Import(ctx context.Context, doc *domain.Backup) error {
	if doc == nil {
		return fmt.Errorf("%w: empty document", domain.ErrMalformedBackup)
	}
	if err := doc.Validate(); err != nil {
		return err
	}

	defer s.cache.Invalidate()
	err := s.store.RunInTx(ctx, driven.TxReadWrite, domain.AllEntityKinds(), func(ctx context.Context) error {
		for _, a := range doc.Articles {
			if err := s.store.Articles().Put(ctx, a); err != nil {
				return fmt.Errorf("article %s: %w", a.ID, err)
			}
		}
		for _, seg := range doc.Segments {
			if err := s.store.Segments().Put(ctx, seg); err != nil {
				return fmt.Errorf("segment %s/%d: %w", seg.ArticleID, seg.Index, err)
			}
		}
		for _, card := range doc.Flashcards {
			if err := s.store.Flashcards().Put(ctx, card); err != nil {
				return fmt.Errorf("flashcard %s: %w", card.ID, err)
			}
		}
		for _, c := range doc.Collections {
			if err := s.store.Collections().Put(ctx, c); err != nil {
				return fmt.Errorf("collection %s: %w", c.ID, err)
			}
		}
		if doc.Settings != nil {
			if err := s.store.Settings().Put(ctx, *doc.Settings); err != nil {
				return fmt.Errorf("settings: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}

	logger.Info("imported backup with %d records", doc.RecordCount())
	return nil
}

// Write exports the database as an indented JSON document.
func (s *BackupService) Write(ctx context.Context, w io.Writer) (*domain.Backup, error) {
	doc, err := s.Export(ctx)
	if err != nil {
		return nil, err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("write backup: %w", err)
	}
	return doc, nil
}

// Read decodes a JSON backup and imports it. Unknown top-level keys are ignored.
func (s *BackupService) Read(ctx context.Context, r io.Reader) (*domain.Backup, error) {
	var doc domain.Backup
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedBackup, err)
	}
	if err := s.Import(ctx, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
