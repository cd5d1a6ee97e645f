package domain

import "strings"

// WordType classifies an extracted item.
type WordType string

const (
	// WordTypeVocabulary is a single word or phrase worth learning.
	WordTypeVocabulary WordType = "vocabulary"

	// WordTypeGrammar is a grammatical construction.
	WordTypeGrammar WordType = "grammar"

	// WordTypeLiterary is a figure of speech or stylistic device.
	WordTypeLiterary WordType = "literary"

	// WordTypeHistorical is a historical or cultural reference.
	WordTypeHistorical WordType = "historical"
)

// AllWordTypes returns every word type in display order.
func AllWordTypes() []WordType {
	return []WordType{
		WordTypeVocabulary,
		WordTypeGrammar,
		WordTypeLiterary,
		WordTypeHistorical,
	}
}

// IsValid returns true if the word type is one of the known types.
func (t WordType) IsValid() bool {
	switch t {
	case WordTypeVocabulary, WordTypeGrammar, WordTypeLiterary, WordTypeHistorical:
		return true
	default:
		return false
	}
}

// String returns the string representation of the word type.
func (t WordType) String() string {
	return string(t)
}

// WordAnalysis is one item extracted from a segment by the analysis collaborator.
// It is embedded in segments and copied into flashcards; it is never stored on its own.
type WordAnalysis struct {
	Type               WordType `json:"type"`
	Word               string   `json:"word"`
	Lemma              string   `json:"lemma"`
	Phonetic           string   `json:"phonetic,omitempty"`
	PartOfSpeech       string   `json:"partOfSpeech,omitempty"`
	Collocations       []string `json:"collocations"`
	Context            string   `json:"context"`
	Level              string   `json:"level"`
	Definition         string   `json:"definition"`
	PersianTranslation string   `json:"persianTranslation"`
	ExampleSentence    string   `json:"exampleSentence"`
}

// Key returns the identity of the item within its segment.
// Falls back to the surface form when the collaborator returned no lemma.
func (w WordAnalysis) Key() string {
	if lemma := strings.TrimSpace(w.Lemma); lemma != "" {
		return lemma
	}
	return strings.TrimSpace(w.Word)
}
