package driven

import (
	"context"

	"github.com/custodia-labs/lingua/internal/core/domain"
)

// Normaliser turns raw input into a title and readable text.
// Each normaliser handles specific MIME types (e.g., HTML).
type Normaliser interface {
	// SupportedMIMETypes returns the MIME types this normaliser handles.
	SupportedMIMETypes() []string

	// Priority returns the selection priority (higher = preferred).
	// Format-specific normalisers should return 50-89.
	// Fallback normalisers should return 1-9.
	Priority() int

	// Normalise extracts the title and text of a raw document.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*domain.NormalisedText, error)
}
