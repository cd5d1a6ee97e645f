package markdown

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lingua/internal/core/domain"
	"github.com/custodia-labs/lingua/internal/core/ports/driven"
)

func TestSupportedMIMETypes(t *testing.T) {
	mimeTypes := New().SupportedMIMETypes()

	assert.Contains(t, mimeTypes, "text/markdown")
	assert.Contains(t, mimeTypes, "text/x-markdown")
	assert.Len(t, mimeTypes, 2)
}

func TestPriority(t *testing.T) {
	assert.Equal(t, 50, New().Priority())
}

func TestNormalise_Success(t *testing.T) {
	raw := &domain.RawDocument{
		URI:      "/path/to/document.md",
		MIMEType: "text/markdown",
		Content:  []byte("# Hello World\n\nThis is a **bold** test."),
	}

	result, err := New().Normalise(context.Background(), raw)

	require.NoError(t, err)
	assert.Equal(t, "Hello World", result.Title)
	assert.Equal(t, "This is a bold test.", result.Text)
}

func TestNormalise_NilDocument(t *testing.T) {
	result, err := New().Normalise(context.Background(), nil)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, result)
}

func TestNormalise_EmptyContent(t *testing.T) {
	result, err := New().Normalise(context.Background(), &domain.RawDocument{URI: "/notes/empty-file.md"})

	require.NoError(t, err)
	assert.Equal(t, "empty file", result.Title)
	assert.Empty(t, result.Text)
}

func TestNormalise_TitleExtraction(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		uri      string
		title    string
		expected string
	}{
		{"first H1", "Intro\n# Main Title\n## Sub", "/doc.md", "", "Main Title"},
		{"ignores H2", "## Only Sub\ntext", "/my_reading-list.md", "", "my reading list"},
		{"explicit title wins", "# Heading", "/doc.md", "Chosen", "Chosen"},
		{"heading with spaces", "#   Spaced Out  ", "/doc.md", "", "Spaced Out"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := New().Normalise(context.Background(), &domain.RawDocument{
				URI:     tc.uri,
				Title:   tc.title,
				Content: []byte(tc.content),
			})
			require.NoError(t, err)
			assert.Equal(t, tc.expected, result.Title)
		})
	}
}

func TestStripMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"links keep text", "Read [the story](https://example.com) now.", "Read the story now."},
		{"images removed", "Look ![a cat](cat.png) here.", "Look  here."},
		{"inline code keeps text", "Use `run` daily.", "Use run daily."},
		{"fenced code removed", "Before\n```go\nfmt.Println()\n```\nAfter", "Before\n\nAfter"},
		{"headings", "## Chapter one\nText", "Chapter one\nText"},
		{"strong", "A **very** __good__ day.", "A very good day."},
		{"emphasis", "An *old* and _quiet_ town.", "An old and quiet town."},
		{"keeps inner underscores", "snake_case_word", "snake_case_word"},
		{"blockquote", "> To be or not to be", "To be or not to be"},
		{"lists", "- apples\n* pears\n1. plums", "apples\npears\nplums"},
		{"horizontal rule", "Top\n\n---\n\nBottom", "Top\n\nBottom"},
		{"html comment", "Keep<!-- hidden --> this", "Keep this"},
		{"collapse blank lines", "One\n\n\n\n\nTwo", "One\n\nTwo"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, stripMarkdown(tc.input))
		})
	}
}

func TestNormalise_ComplexMarkdown(t *testing.T) {
	content := "# The Lighthouse\n\n" +
		"The keeper climbed the **stairs** every night.\n\n" +
		"> The sea was calm.\n\n" +
		"- He lit the lamp\n- He watched the ships\n\n" +
		"See [the log](log.md) for details.\n"

	result, err := New().Normalise(context.Background(), &domain.RawDocument{
		URI:     "/stories/lighthouse.md",
		Content: []byte(content),
	})

	require.NoError(t, err)
	assert.Equal(t, "The Lighthouse", result.Title)
	assert.Equal(t, "The keeper climbed the stairs every night.\n\n"+
		"The sea was calm.\n\n"+
		"He lit the lamp\nHe watched the ships\n\n"+
		"See the log for details.", result.Text)
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.Normaliser = New()
}
