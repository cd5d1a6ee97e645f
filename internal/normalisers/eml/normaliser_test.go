package eml

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lingua/internal/core/domain"
	"github.com/custodia-labs/lingua/internal/core/ports/driven"
)

func normalise(t *testing.T, uri, content string) *domain.NormalisedText {
	t.Helper()
	result, err := New().Normalise(context.Background(), &domain.RawDocument{
		URI:     uri,
		Content: []byte(strings.ReplaceAll(content, "\n", "\r\n")),
	})
	require.NoError(t, err)
	return result
}

func TestSupportedMIMETypes(t *testing.T) {
	assert.Equal(t, []string{"message/rfc822"}, New().SupportedMIMETypes())
}

func TestPriority(t *testing.T) {
	assert.Equal(t, 50, New().Priority())
}

func TestNormalise_NilDocument(t *testing.T) {
	result, err := New().Normalise(context.Background(), nil)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, result)
}

func TestNormalise_PlainText(t *testing.T) {
	result := normalise(t, "/mail/letter.eml", `From: editor@example.com
To: reader@example.com
Subject: Weekly Reading
Content-Type: text/plain

The river froze early this year.
Skaters came out by the hundred.
`)

	assert.Equal(t, "Weekly Reading", result.Title)
	assert.Equal(t, "The river froze early this year.\nSkaters came out by the hundred.", result.Text)
	assert.NotContains(t, result.Text, "editor@example.com")
}

func TestNormalise_NoSubject(t *testing.T) {
	result := normalise(t, "/mail/winter_digest.eml", `From: editor@example.com

Snow fell all night.
`)

	assert.Equal(t, "winter digest", result.Title)
	assert.Equal(t, "Snow fell all night.", result.Text)
}

func TestNormalise_EncodedSubject(t *testing.T) {
	result := normalise(t, "a.eml", `Subject: =?UTF-8?B?Q2Fmw6kgbm90ZXM=?=

Body.
`)

	assert.Equal(t, "Café notes", result.Title)
}

func TestNormalise_QuotedPrintable(t *testing.T) {
	result := normalise(t, "a.eml", `Subject: QP
Content-Type: text/plain; charset=utf-8
Content-Transfer-Encoding: quoted-printable

A caf=C3=A9 by the =
harbour.
`)

	assert.Equal(t, "A café by the harbour.", result.Text)
}

func TestNormalise_Base64(t *testing.T) {
	result := normalise(t, "a.eml", `Subject: B64
Content-Transfer-Encoding: base64

VGhlIHRpZGUgdHVybmVkLg==
`)

	assert.Equal(t, "The tide turned.", result.Text)
}

func TestNormalise_HTMLBody(t *testing.T) {
	result := normalise(t, "a.eml", `Subject: Newsletter
Content-Type: text/html

<html><body><p>First paragraph.</p><p>Second paragraph.</p></body></html>
`)

	assert.Contains(t, result.Text, "First paragraph.")
	assert.Contains(t, result.Text, "Second paragraph.")
	assert.NotContains(t, result.Text, "<p>")
}

func TestNormalise_MultipartPrefersPlainText(t *testing.T) {
	result := normalise(t, "a.eml", `Subject: Alternative
MIME-Version: 1.0
Content-Type: multipart/alternative; boundary="b1"

--b1
Content-Type: text/html

<p>HTML version</p>
--b1
Content-Type: text/plain

Plain version
--b1--
`)

	assert.Equal(t, "Plain version", result.Text)
}

func TestNormalise_MultipartHTMLOnly(t *testing.T) {
	result := normalise(t, "a.eml", `Subject: Mixed
MIME-Version: 1.0
Content-Type: multipart/mixed; boundary="outer"

--outer
Content-Type: text/html

<p>Only HTML here</p>
--outer
Content-Type: application/pdf

%PDF-1.4
--outer--
`)

	assert.Contains(t, result.Text, "Only HTML here")
	assert.NotContains(t, result.Text, "PDF")
}

func TestNormalise_InvalidMessage(t *testing.T) {
	_, err := New().Normalise(context.Background(), &domain.RawDocument{
		URI:     "a.eml",
		Content: []byte("no headers and no blank line"),
	})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDecodeHeader(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"Plain", "Plain"},
		{"=?ISO-8859-1?Q?Caf=E9?=", "Café"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, decodeHeader(tt.in))
	}
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.Normaliser = (*Normaliser)(nil)
}
