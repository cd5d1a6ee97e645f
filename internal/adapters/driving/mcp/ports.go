package mcp

import (
	"github.com/custodia-labs/lingua/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Flashcards queries cards and selects sessions.
	Flashcards driving.FlashcardService

	// Review records review outcomes. Optional; without it review_card fails.
	Review driving.ReviewService

	// Library lists articles and reads their pages.
	Library driving.LibraryService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Flashcards == nil {
		return ErrMissingFlashcardService
	}
	if p.Library == nil {
		return ErrMissingLibraryService
	}
	return nil
}
