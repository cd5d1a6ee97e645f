// Package segmenter splits imported article text into pages of roughly
// equal word count.
package segmenter

import (
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"

	"github.com/custodia-labs/lingua/internal/core/domain"
	"github.com/custodia-labs/lingua/internal/core/ports/driven"
	"github.com/custodia-labs/lingua/internal/logger"
)

// Ensure Segmenter implements the interface.
var _ driven.Segmenter = (*Segmenter)(nil)

// DefaultJapaneseThreshold is the share of letters in Japanese script above
// which a paragraph is counted with the morphological tokenizer.
const DefaultJapaneseThreshold = 0.3

// Segmenter packs paragraphs greedily into segments of about N words.
// Paragraphs longer than N words are split on word boundaries.
type Segmenter struct {
	threshold float64
	japanese  bool

	once    sync.Once
	tok     *tokenizer.Tokenizer
	tokErr  error
	tokInit func() (*tokenizer.Tokenizer, error)
}

// Option configures the segmenter.
type Option func(*Segmenter)

// WithJapaneseThreshold sets the script share that switches to the tokenizer.
func WithJapaneseThreshold(share float64) Option {
	return func(s *Segmenter) {
		if share > 0 && share <= 1 {
			s.threshold = share
		}
	}
}

// WithoutJapanese disables the morphological tokenizer; all text is split on whitespace.
func WithoutJapanese() Option {
	return func(s *Segmenter) {
		s.japanese = false
	}
}

// New creates a new segmenter with the given options.
// The Japanese tokenizer is loaded lazily on first use.
func New(opts ...Option) *Segmenter {
	s := &Segmenter{
		threshold: DefaultJapaneseThreshold,
		japanese:  true,
		tokInit: func() (*tokenizer.Tokenizer, error) {
			return tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// unit is one token of a paragraph. Only word units count toward the budget.
type unit struct {
	text string
	word bool
}

// paragraph is a tokenised line of text and the separator used to rejoin it.
type paragraph struct {
	units []unit
	sep   string
	words int
}

// Split divides text into segments of about wordsPerSegment words.
// Empty text produces no segments.
func (s *Segmenter) Split(title, text string, wordsPerSegment int) []domain.Segment {
	if wordsPerSegment <= 0 {
		wordsPerSegment = domain.DefaultSegmentLength
	}

	var pages []string
	var current []string
	count := 0

	flush := func() {
		if len(current) > 0 {
			pages = append(pages, strings.Join(current, "\n"))
			current, count = nil, 0
		}
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		p := s.tokenise(line)

		if count+p.words <= wordsPerSegment {
			current = append(current, line)
			count += p.words
			continue
		}

		flush()
		if p.words <= wordsPerSegment {
			current, count = []string{line}, p.words
			continue
		}

		// Oversized paragraph: emit full pieces, keep the remainder open.
		pieces := splitUnits(p, wordsPerSegment)
		for _, piece := range pieces[:len(pieces)-1] {
			pages = append(pages, piece.text)
		}
		last := pieces[len(pieces)-1]
		current, count = []string{last.text}, last.words
	}
	flush()

	segments := make([]domain.Segment, len(pages))
	for i, page := range pages {
		segments[i] = domain.Segment{
			Index:           i,
			Title:           pageTitle(title, i, len(pages)),
			Content:         page,
			AnalyzedWords:   []domain.WordAnalysis{},
			ApprovedWordIDs: []string{},
		}
	}
	return segments
}

// CountWords returns the number of words in text.
func (s *Segmenter) CountWords(text string) int {
	n := 0
	for _, line := range strings.Split(text, "\n") {
		n += s.tokenise(line).words
	}
	return n
}

type piece struct {
	text  string
	words int
}

// splitUnits cuts a paragraph into pieces of at most budget words.
func splitUnits(p paragraph, budget int) []piece {
	var pieces []piece
	var buf []string
	words := 0
	for _, u := range p.units {
		if u.word && words == budget {
			pieces = append(pieces, piece{text: strings.Join(buf, p.sep), words: words})
			buf, words = nil, 0
		}
		buf = append(buf, u.text)
		if u.word {
			words++
		}
	}
	if len(buf) > 0 {
		pieces = append(pieces, piece{text: strings.Join(buf, p.sep), words: words})
	}
	return pieces
}

// tokenise splits a line into units, using the Japanese tokenizer when the
// line is mostly Japanese script.
func (s *Segmenter) tokenise(line string) paragraph {
	if s.japanese && japaneseShare(line) >= s.threshold {
		if tok := s.tokenizer(); tok != nil {
			return tokeniseJapanese(tok, line)
		}
	}

	fields := strings.Fields(line)
	units := make([]unit, len(fields))
	for i, f := range fields {
		units[i] = unit{text: f, word: true}
	}
	return paragraph{units: units, sep: " ", words: len(fields)}
}

func (s *Segmenter) tokenizer() *tokenizer.Tokenizer {
	s.once.Do(func() {
		s.tok, s.tokErr = s.tokInit()
		if s.tokErr != nil {
			logger.Warn("japanese tokenizer unavailable, counting by whitespace: %v", s.tokErr)
		}
	})
	return s.tok
}

func tokeniseJapanese(tok *tokenizer.Tokenizer, line string) paragraph {
	p := paragraph{sep: ""}
	for _, t := range tok.Tokenize(line) {
		if t.Class == tokenizer.DUMMY || t.Surface == "" {
			continue
		}
		word := strings.TrimSpace(t.Surface) != "" && !isSymbol(t)
		p.units = append(p.units, unit{text: t.Surface, word: word})
		if word {
			p.words++
		}
	}
	return p
}

// isSymbol reports whether the token is punctuation (IPA part of speech 記号).
func isSymbol(t tokenizer.Token) bool {
	features := t.Features()
	return len(features) > 0 && features[0] == "記号"
}

// japaneseShare returns the share of letters written in kana or kanji.
func japaneseShare(line string) float64 {
	letters, japanese := 0, 0
	for _, r := range line {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if unicode.In(r, unicode.Hiragana, unicode.Katakana, unicode.Han) {
			japanese++
		}
	}
	if letters == 0 {
		return 0
	}
	return float64(japanese) / float64(letters)
}

func pageTitle(title string, i, n int) string {
	if title == "" {
		title = "Part"
	}
	if n <= 1 {
		return title
	}
	return fmt.Sprintf("%s (%d/%d)", title, i+1, n)
}
