package domain

import (
	"fmt"
	"slices"
)

// SettingsID is the fixed primary key of the settings record.
const SettingsID = "app-settings"

// DefaultSegmentLength is the default number of words per segment.
const DefaultSegmentLength = 1200

// TTSEngine selects how text is spoken.
type TTSEngine string

const (
	// TTSEngineDevice uses the voices built into the device. No audio is produced by Lingua.
	TTSEngineDevice TTSEngine = "embedded-device-voice"

	// TTSEngineCloud uses the speech synthesis collaborator.
	TTSEngineCloud TTSEngine = "cloud-ai-voice"
)

// IsValid returns true if the engine is known.
func (e TTSEngine) IsValid() bool {
	return e == TTSEngineDevice || e == TTSEngineCloud
}

// String returns the string representation of the engine.
func (e TTSEngine) String() string {
	return string(e)
}

// Settings is the single application settings record.
type Settings struct {
	// ID is always SettingsID.
	ID string `json:"id"`

	// AnalysisModel is the model used for segment and word analysis.
	AnalysisModel string `json:"analysisModel"`

	// TranslationModel is the model used for segment translation.
	TranslationModel string `json:"translationModel"`

	// TTSModel is the model used for cloud speech synthesis.
	TTSModel string `json:"ttsModel"`

	// PronunciationModel is the model used for pronunciation evaluation.
	PronunciationModel string `json:"pronunciationModel"`

	// TTSEngine selects device or cloud speech.
	TTSEngine TTSEngine `json:"ttsEngine"`

	// SegmentLength is the number of words per segment on import.
	SegmentLength int `json:"segmentLength"`

	// EnabledTypes lists the word types requested from analysis.
	EnabledTypes []WordType `json:"enabledTypes"`
}

// DefaultSettings returns the settings used when nothing is stored.
func DefaultSettings() Settings {
	return Settings{
		ID:                 SettingsID,
		AnalysisModel:      "gpt-4o-mini",
		TranslationModel:   "gpt-4o-mini",
		TTSModel:           "gpt-4o-mini-tts",
		PronunciationModel: "gpt-4o-mini",
		TTSEngine:          TTSEngineDevice,
		SegmentLength:      DefaultSegmentLength,
		EnabledTypes:       AllWordTypes(),
	}
}

// MergeOver returns the defaults overlaid with every field set in s.
// Fields left empty in a partially stored record keep their default.
func (s Settings) MergeOver(defaults Settings) Settings {
	merged := defaults
	merged.ID = SettingsID
	if s.AnalysisModel != "" {
		merged.AnalysisModel = s.AnalysisModel
	}
	if s.TranslationModel != "" {
		merged.TranslationModel = s.TranslationModel
	}
	if s.TTSModel != "" {
		merged.TTSModel = s.TTSModel
	}
	if s.PronunciationModel != "" {
		merged.PronunciationModel = s.PronunciationModel
	}
	if s.TTSEngine != "" {
		merged.TTSEngine = s.TTSEngine
	}
	if s.SegmentLength > 0 {
		merged.SegmentLength = s.SegmentLength
	}
	if s.EnabledTypes != nil {
		merged.EnabledTypes = slices.Clone(s.EnabledTypes)
	}
	return merged
}

// Validate checks the settings for values the application cannot use.
func (s Settings) Validate() error {
	if s.SegmentLength <= 0 {
		return fmt.Errorf("%w: segment length must be positive", ErrInvalidInput)
	}
	if !s.TTSEngine.IsValid() {
		return fmt.Errorf("%w: unknown tts engine %q", ErrInvalidInput, s.TTSEngine)
	}
	for _, t := range s.EnabledTypes {
		if !t.IsValid() {
			return fmt.Errorf("%w: unknown word type %q", ErrInvalidInput, t)
		}
	}
	return nil
}

// AIProvider identifies an AI service provider.
type AIProvider string

const (
	// AIProviderOpenAI is the OpenAI API or any OpenAI-compatible server.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is the Anthropic API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if this is a known provider.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// SupportsSpeech returns true if the provider can synthesise speech.
func (p AIProvider) SupportsSpeech() bool {
	return p == AIProviderOpenAI
}

// String returns the string representation of the provider.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOpenAI:
		return "OpenAI API (or compatible server via base URL)"
	case AIProviderAnthropic:
		return "Anthropic API"
	default:
		return "Unknown provider"
	}
}

// AllAIProviders returns every supported provider.
func AllAIProviders() []AIProvider {
	return []AIProvider{AIProviderOpenAI, AIProviderAnthropic}
}

// ProviderSettings holds AI provider configuration.
type ProviderSettings struct {
	// Provider is the AI service provider.
	Provider AIProvider

	// BaseURL overrides the provider endpoint (e.g. a local OpenAI-compatible server).
	BaseURL string

	// APIKey is the provider API key.
	APIKey string
}

// IsConfigured returns true if the provider is set up.
func (p ProviderSettings) IsConfigured() bool {
	if !p.Provider.IsValid() {
		return false
	}
	// A custom base URL may point at a local server that needs no key.
	return p.APIKey != "" || p.BaseURL != ""
}
