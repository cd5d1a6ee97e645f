package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/lingua/internal/core/ports/driven"
	"github.com/custodia-labs/lingua/internal/logger"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads LLM prompts from user-editable files on disk.
// Prompts are loaded from a configurable directory with fallback to embedded defaults.
//
// The store uses lazy initialisation - files are only created when first accessed,
// not in the constructor. This makes testing easier and avoids unexpected I/O.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// defaultPrompts contains embedded default prompts.
// These are used when user files don't exist and as the initial content for new files.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	driven.PromptAnalyzeText: `You are a language teacher preparing study material for a learner at CEFR level %s.
Extract the items from the text below that a learner at that level should study.
Only return items of these types: %s.

Respond with a JSON object of the form {"items": [...]} where every item has the fields:
type, word, lemma, phonetic, partOfSpeech, collocations (array of strings), context (the sentence it appears in),
level (CEFR), definition (English), persianTranslation, exampleSentence.
Return JSON only, with no commentary.

Text:
%s`,

	driven.PromptAnalyzeWord: `You are a language teacher. Analyse the word "%s" for a learner at CEFR level %s,
as it is used in the text below.

Respond with one JSON object with the fields:
type (one of vocabulary, grammar, literary, historical), word, lemma, phonetic, partOfSpeech,
collocations (array of strings), context, level, definition, persianTranslation, exampleSentence.
Return JSON only, with no commentary.

Text:
%s`,

	driven.PromptTranslate: `Translate the following text into fluent, natural Persian (Farsi).
Keep the paragraph structure. Return ONLY the translation, nothing else.

Text:
%s`,

	driven.PromptPronunciation: `A learner read the reference text aloud. Compare the speech-to-text transcript with the reference.

Reference: %s
Transcript: %s

Respond with one JSON object: {"score": 0-100, "feedback": "short advice", "words": [{"word": "...", "correct": true}]}
with one entry in words per reference word, in order. Return JSON only.`,
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to ~/.lingua/prompts/.
//
// The constructor does not perform any I/O - directory creation and
// file writes happen lazily on first Load() call.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		home, err := DefaultHome()
		if err != nil {
			return nil, err
		}
		promptDir = filepath.Join(home, "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt template for the given name.
// On first call, initialises the prompt directory and creates default files.
// Returns cached value if available, otherwise loads from file.
// Falls back to embedded default if file doesn't exist.
func (s *PromptStore) Load(name string) (string, error) {
	// Ensure directory and defaults exist (lazy init)
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		// Fall back to embedded defaults if init failed
		if prompt, ok := defaultPrompts[name]; ok {
			return prompt, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	// Check cache first (read lock)
	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	// Load from file (no lock held during I/O)
	prompt, err := s.loadFromFile(name)
	if err != nil {
		// Fall back to embedded default
		if defaultPrompt, ok := defaultPrompts[name]; ok {
			return defaultPrompt, nil
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	if def, ok := defaultPrompts[name]; ok && placeholders(prompt) != placeholders(def) {
		logger.Warn("prompt %s has %d placeholders, want %d; using the default",
			name, placeholders(prompt), placeholders(def))
		prompt = def
	}

	// Cache the result (write lock)
	// Use double-check pattern to avoid overwriting concurrent loads
	s.mu.Lock()
	if _, ok := s.cache[name]; !ok {
		s.cache[name] = prompt
	} else {
		// Another goroutine loaded it first, use their value
		prompt = s.cache[name]
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// initialise creates the prompt directory and default files.
// Called once via sync.Once on first Load().
func (s *PromptStore) initialise() {
	// Create directory
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	// Create default prompt files (only if they don't exist)
	for name, content := range defaultPrompts {
		path := filepath.Join(s.promptDir, name+".txt")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
				return
			}
		}
	}

	// Create README
	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

// loadFromFile reads a prompt from disk.
func (s *PromptStore) loadFromFile(name string) (string, error) {
	path := filepath.Join(s.promptDir, name+".txt")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// createReadme writes a README file explaining the prompts directory.
func (s *PromptStore) createReadme() error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil // Already exists or stat error (ignore)
	}

	content := `# Lingua Prompts

This directory contains the prompts Lingua sends to the configured AI provider.

## Files

- ` + "`analyze_text.txt`" + ` - Extracts study items from a segment
- ` + "`analyze_word.txt`" + ` - Analyses a single word added by hand
- ` + "`translate.txt`" + ` - Translates a segment into Persian
- ` + "`pronunciation.txt`" + ` - Scores a spoken attempt against its text

## Customisation

Edit any file to change the output. Changes take effect on the next command.
Delete a file to restore its default on the next run.

## Format Placeholders

Prompts use Go fmt placeholders (` + "`%s`" + `) filled in this order:

- analyze_text: level, item types, text
- analyze_word: word, level, text
- translate: text
- pronunciation: reference, transcript

Keep the placeholders and the JSON response shape when customising.
`
	return os.WriteFile(path, []byte(content), 0600)
}

// placeholders counts the fmt verbs a template expects.
func placeholders(tmpl string) int {
	return strings.Count(tmpl, "%s") + strings.Count(tmpl, "%d")
}
