package domain

// RawDocument represents opaque bytes handed to the importer.
// It is the input before normalisation into plain text.
type RawDocument struct {
	// URI is the original location (file path, URL, etc).
	URI string

	// MIMEType is the content type (e.g., "text/html").
	MIMEType string

	// Content is the raw bytes.
	Content []byte

	// Title overrides any title the normaliser would derive.
	Title string
}

// NormalisedText is the output of a normaliser: a title and readable text.
type NormalisedText struct {
	Title string
	Text  string
}

// ImportRequest describes plain text to be turned into an article.
type ImportRequest struct {
	Title        string
	Text         string
	CollectionID string
}

// PronunciationResult is the evaluation of a spoken attempt.
type PronunciationResult struct {
	// Score is the overall score from 0 to 100.
	Score int `json:"score"`

	// Feedback is a short human-readable comment.
	Feedback string `json:"feedback"`

	// Words holds the per-word verdicts.
	Words []WordStatus `json:"words"`
}

// WordStatus is the verdict for one word of a pronunciation attempt.
type WordStatus struct {
	Word    string `json:"word"`
	Correct bool   `json:"correct"`
}
