// Package domain defines the core business entities for Lingua.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Article: An imported text, split into segments
//   - Segment: One page of an article with its analysis state
//   - WordAnalysis: A vocabulary, grammar, literary or historical item
//   - Flashcard: An approved item under spaced-repetition review
//   - Settings: The single application settings record
//   - Collection: A user-defined group of articles
//   - Backup: The portable whole-database document
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
