// Package eml extracts the text of saved email messages, such as newsletters.
package eml

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/lingua/internal/core/domain"
	"github.com/custodia-labs/lingua/internal/core/ports/driven"
	htmlnorm "github.com/custodia-labs/lingua/internal/normalisers/html"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles EML messages. The subject becomes the title and the
// body the text; HTML bodies go through the HTML normaliser.
type Normaliser struct {
	html driven.Normaliser
}

// New creates a new EML normaliser.
func New() *Normaliser {
	return &Normaliser{html: htmlnorm.New()}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"message/rfc822"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise converts an email message to a title and body text.
// Plain text parts are preferred over HTML parts.
func (n *Normaliser) Normalise(ctx context.Context, raw *domain.RawDocument) (*domain.NormalisedText, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	msg, err := mail.ReadMessage(bytes.NewReader(raw.Content))
	if err != nil {
		return nil, fmt.Errorf("%w: not an email message: %w", domain.ErrInvalidInput, err)
	}

	body, err := n.extractBody(ctx, msg.Header.Get("Content-Type"), msg.Header.Get("Content-Transfer-Encoding"), msg.Body)
	if err != nil {
		return nil, err
	}

	title := raw.Title
	if title == "" {
		title = decodeHeader(msg.Header.Get("Subject"))
	}
	if title == "" {
		title = titleFromURI(raw.URI)
	}

	return &domain.NormalisedText{Title: title, Text: strings.TrimSpace(body)}, nil
}

// decodeHeader decodes RFC 2047 encoded words.
func decodeHeader(header string) string {
	if header == "" {
		return ""
	}
	dec := new(mime.WordDecoder)
	decoded, err := dec.DecodeHeader(header)
	if err != nil {
		return header
	}
	return strings.TrimSpace(decoded)
}

func (n *Normaliser) extractBody(ctx context.Context, contentType, encoding string, r io.Reader) (string, error) {
	if contentType == "" {
		contentType = "text/plain"
	}
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = "text/plain"
	}

	if strings.HasPrefix(mediaType, "multipart/") {
		return n.extractMultipart(ctx, r, params["boundary"])
	}

	content, err := io.ReadAll(decodeTransfer(r, encoding))
	if err != nil {
		return "", fmt.Errorf("%w: read message body: %w", domain.ErrInvalidInput, err)
	}
	if mediaType == "text/html" {
		return n.htmlText(ctx, content)
	}
	return strings.ReplaceAll(string(content), "\r\n", "\n"), nil
}

func (n *Normaliser) extractMultipart(ctx context.Context, r io.Reader, boundary string) (string, error) {
	if boundary == "" {
		return "", fmt.Errorf("%w: multipart message without boundary", domain.ErrInvalidInput)
	}

	var textParts, htmlParts []string
	mr := multipart.NewReader(r, boundary)
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: read message part: %w", domain.ErrInvalidInput, err)
		}

		mediaType, _, parseErr := mime.ParseMediaType(part.Header.Get("Content-Type"))
		if parseErr != nil {
			mediaType = "text/plain"
		}
		// multipart.Part already decodes quoted-printable.
		encoding := part.Header.Get("Content-Transfer-Encoding")

		switch {
		case mediaType == "text/plain":
			text, err := n.extractBody(ctx, part.Header.Get("Content-Type"), encoding, part)
			if err == nil && strings.TrimSpace(text) != "" {
				textParts = append(textParts, text)
			}
		case mediaType == "text/html":
			text, err := n.extractBody(ctx, part.Header.Get("Content-Type"), encoding, part)
			if err == nil && strings.TrimSpace(text) != "" {
				htmlParts = append(htmlParts, text)
			}
		case strings.HasPrefix(mediaType, "multipart/"):
			nested, err := n.extractBody(ctx, part.Header.Get("Content-Type"), "", part)
			if err == nil && strings.TrimSpace(nested) != "" {
				textParts = append(textParts, nested)
			}
		}
		part.Close()
	}

	if len(textParts) > 0 {
		return strings.Join(textParts, "\n"), nil
	}
	return strings.Join(htmlParts, "\n"), nil
}

func (n *Normaliser) htmlText(ctx context.Context, content []byte) (string, error) {
	text, err := n.html.Normalise(ctx, &domain.RawDocument{MIMEType: "text/html", Content: content})
	if err != nil {
		return "", err
	}
	return text.Text, nil
}

func decodeTransfer(r io.Reader, encoding string) io.Reader {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "quoted-printable":
		return quotedprintable.NewReader(r)
	case "base64":
		return base64.NewDecoder(base64.StdEncoding, r)
	default:
		return r
	}
}

func titleFromURI(uri string) string {
	filename := filepath.Base(uri)
	filename = strings.TrimSuffix(filename, filepath.Ext(filename))
	filename = strings.ReplaceAll(filename, "_", " ")
	return strings.ReplaceAll(filename, "-", " ")
}
