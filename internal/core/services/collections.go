package services

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/lingua/internal/core/domain"
	"github.com/custodia-labs/lingua/internal/core/ports/driven"
	"github.com/custodia-labs/lingua/internal/core/ports/driving"
)

// Ensure CollectionService implements the interface.
var _ driving.CollectionService = (*CollectionService)(nil)

// CollectionService manages article collections.
type CollectionService struct {
	store driven.RecordStore
}

// NewCollectionService creates a new collection service.
func NewCollectionService(store driven.RecordStore) *CollectionService {
	return &CollectionService{store: store}
}

// Create adds a new collection.
func (s *CollectionService) Create(ctx context.Context, name, description string) (*domain.Collection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: collection name is required", domain.ErrInvalidInput)
	}

	c := domain.Collection{
		ID:          uuid.New().String(),
		Name:        name,
		Description: strings.TrimSpace(description),
	}
	if err := s.store.Collections().Put(ctx, c); err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}
	return &c, nil
}

// List returns every collection sorted by name.
func (s *CollectionService) List(ctx context.Context) ([]domain.Collection, error) {
	collections, err := s.store.Collections().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	slices.SortFunc(collections, func(a, b domain.Collection) int {
		return cmp.Or(
			cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)),
			cmp.Compare(a.ID, b.ID),
		)
	})
	return collections, nil
}

// Get retrieves a collection by ID.
func (s *CollectionService) Get(ctx context.Context, id string) (*domain.Collection, error) {
	return s.store.Collections().Get(ctx, id)
}
