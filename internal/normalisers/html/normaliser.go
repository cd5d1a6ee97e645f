package html

import (
	"bytes"
	"context"
	"html"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-shiori/go-readability"

	"github.com/custodia-labs/lingua/internal/core/domain"
	"github.com/custodia-labs/lingua/internal/core/ports/driven"
	"github.com/custodia-labs/lingua/internal/logger"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles HTML pages. It extracts the main article with
// readability and falls back to stripping the whole page when no article
// can be found.
type Normaliser struct{}

// New creates a new HTML normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/html", "application/xhtml+xml"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Format-specific, higher than plaintext
}

// Normalise extracts the readable article from an HTML page.
// The text keeps one paragraph per line.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*domain.NormalisedText, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	page := sanitizeRuby(raw.Content)
	title, body := extractArticle(page, raw.URI)
	if body == "" {
		body = stripHTML(string(page))
	}
	if title == "" {
		title = extractHTMLTitle(string(page), raw.URI)
	}
	if raw.Title != "" {
		title = raw.Title
	}

	return &domain.NormalisedText{Title: title, Text: body}, nil
}

// extractArticle runs readability over the page.
// Returns empty strings if no article could be extracted.
func extractArticle(page []byte, uri string) (title, body string) {
	var pageURL *url.URL
	if parsed, err := url.Parse(uri); err == nil && parsed.Scheme != "" {
		pageURL = parsed
	}

	article, err := readability.FromReader(bytes.NewReader(page), pageURL)
	if err != nil {
		logger.Debug("readability failed for %s: %v", uri, err)
		return "", ""
	}

	return strings.TrimSpace(article.Title), stripHTML(article.Content)
}

// Pre-compiled regular expressions for HTML parsing performance.
var (
	titleTag          = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	scriptTag         = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag          = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	headTag           = regexp.MustCompile(`(?is)<head[^>]*>.*?</head>`)
	htmlComments      = regexp.MustCompile(`(?s)<!--.*?-->`)
	rubyText          = regexp.MustCompile(`(?is)<rt[^>]*>.*?</rt>|<rp[^>]*>.*?</rp>`)
	blockElements     = regexp.MustCompile(`(?i)</(p|div|h[1-6]|li|tr|blockquote|pre|table|section|article)>`)
	openBlockElements = regexp.MustCompile(`(?i)<(p|div|h[1-6]|li|tr|blockquote|pre|table|section|article)[^>]*>`)
	brTags            = regexp.MustCompile(`(?i)<br\s*/?>`)
	allTags           = regexp.MustCompile(`<[^>]+>`)
	multiSpaces       = regexp.MustCompile(`[ \t]+`)
)

// sanitizeRuby removes ruby annotations so furigana does not duplicate the base text.
func sanitizeRuby(page []byte) []byte {
	return rubyText.ReplaceAll(page, nil)
}

// extractHTMLTitle extracts a title from the <title> tag or falls back to the file name.
func extractHTMLTitle(content, uri string) string {
	matches := titleTag.FindStringSubmatch(content)
	if len(matches) > 1 {
		title := strings.TrimSpace(html.UnescapeString(matches[1]))
		if title != "" {
			return title
		}
	}

	filename := filepath.Base(uri)
	filename = strings.TrimSuffix(filename, filepath.Ext(filename))
	filename = strings.ReplaceAll(filename, "_", " ")
	return strings.ReplaceAll(filename, "-", " ")
}

// stripHTML removes tags and returns one trimmed paragraph per line.
func stripHTML(content string) string {
	content = scriptTag.ReplaceAllString(content, "")
	content = styleTag.ReplaceAllString(content, "")
	content = headTag.ReplaceAllString(content, "")
	content = htmlComments.ReplaceAllString(content, "")

	content = openBlockElements.ReplaceAllString(content, "\n")
	content = blockElements.ReplaceAllString(content, "\n")
	content = brTags.ReplaceAllString(content, "\n")
	content = allTags.ReplaceAllString(content, "")

	content = html.UnescapeString(content)
	content = multiSpaces.ReplaceAllString(content, " ")

	lines := strings.Split(content, "\n")
	result := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			result = append(result, line)
		}
	}
	return strings.Join(result, "\n")
}
