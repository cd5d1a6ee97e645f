package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations should return a sensible default
	// or an error, depending on whether the prompt is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	// This is useful when prompts may have been edited on disk.
	Reload()
}

// Well-known prompt names used throughout the application.
// These constants define the contract between prompt consumers and providers.
const (
	// PromptAnalyzeText extracts learnable items from a segment.
	// Placeholders: %s (target level), %s (comma-separated types), %s (text).
	PromptAnalyzeText = "analyze_text"

	// PromptAnalyzeWord analyses one word in context.
	// Placeholders: %s (word), %s (target level), %s (context text).
	PromptAnalyzeWord = "analyze_word"

	// PromptTranslate translates a segment into Persian.
	// Placeholders: %s (text).
	PromptTranslate = "translate"

	// PromptPronunciation scores a spoken attempt.
	// Placeholders: %s (reference), %s (transcript).
	PromptPronunciation = "pronunciation"
)
