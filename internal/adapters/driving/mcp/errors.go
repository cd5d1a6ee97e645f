// Package mcp provides an MCP (Model Context Protocol) server adapter for Lingua.
// It lets AI assistants query flashcards, pick study sessions, record reviews
// and read imported articles.
package mcp

import "errors"

var (
	// ErrMissingFlashcardService is returned when the flashcard service is not provided.
	ErrMissingFlashcardService = errors.New("mcp: flashcard service is required")

	// ErrMissingLibraryService is returned when the library service is not provided.
	ErrMissingLibraryService = errors.New("mcp: library service is required")

	// ErrReviewUnavailable is returned by review_card when no review service is wired.
	ErrReviewUnavailable = errors.New("mcp: reviews are not enabled")
)
