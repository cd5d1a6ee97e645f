package driving

import (
	"context"

	"github.com/custodia-labs/lingua/internal/core/domain"
)

// CollectionService manages article collections.
type CollectionService interface {
	// Create adds a new collection.
	Create(ctx context.Context, name, description string) (*domain.Collection, error)

	// List returns every collection sorted by name.
	List(ctx context.Context) ([]domain.Collection, error)

	// Get retrieves a collection by ID.
	Get(ctx context.Context, id string) (*domain.Collection, error)
}
