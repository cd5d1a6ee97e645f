// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - RecordStore: Articles, segments, flashcards, settings and collections
//   - Segmenter: Splits imported text into pages
//   - Normaliser: Transforms raw input into readable text
//   - ConfigStore: User configuration (AI provider, credentials)
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - Analyzer, Translator: Without them, segment analysis and translation are disabled.
//   - SpeechSynthesizer: Without it, only device voices are available.
//   - PronunciationEvaluator: Without it, pronunciation scoring is disabled.
//   - LLMService, PromptStore: Back the AI collaborators above.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
