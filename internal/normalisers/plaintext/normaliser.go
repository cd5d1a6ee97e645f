package plaintext

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/lingua/internal/core/domain"
	"github.com/custodia-labs/lingua/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles plain text and Markdown files.
type Normaliser struct{}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{
		"text/plain",
		"text/markdown",
		"text/x-markdown",
	}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 5 // Fallback normaliser
}

// Normalise converts raw bytes to text with Windows line endings removed.
// A leading Markdown heading becomes the title when none is given.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*domain.NormalisedText, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	text := strings.ReplaceAll(string(raw.Content), "\r\n", "\n")
	text = strings.TrimPrefix(text, "\ufeff")

	title := raw.Title
	if title == "" {
		if heading, rest, ok := leadingHeading(text); ok {
			title, text = heading, rest
		} else {
			title = extractTitle(raw.URI)
		}
	}

	return &domain.NormalisedText{Title: title, Text: strings.TrimSpace(text)}, nil
}

// leadingHeading splits off a first line of the form "# Heading".
func leadingHeading(text string) (heading, rest string, ok bool) {
	trimmed := strings.TrimLeft(text, "\n")
	first, rest, _ := strings.Cut(trimmed, "\n")
	if !strings.HasPrefix(first, "# ") {
		return "", text, false
	}
	return strings.TrimSpace(strings.TrimPrefix(first, "# ")), rest, true
}

// extractTitle extracts a human-readable title from a URI.
func extractTitle(uri string) string {
	filename := filepath.Base(uri)
	filename = strings.TrimSuffix(filename, filepath.Ext(filename))
	filename = strings.ReplaceAll(filename, "_", " ")
	return strings.ReplaceAll(filename, "-", " ")
}
