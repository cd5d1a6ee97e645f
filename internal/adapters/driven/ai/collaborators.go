package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/custodia-labs/lingua/internal/core/domain"
	"github.com/custodia-labs/lingua/internal/core/ports/driven"
	"github.com/custodia-labs/lingua/internal/logger"
)

// Ensure Collaborators implements the AI collaborator interfaces.
var (
	_ driven.Analyzer               = (*Collaborators)(nil)
	_ driven.Translator             = (*Collaborators)(nil)
	_ driven.SpeechSynthesizer      = (*Collaborators)(nil)
	_ driven.PronunciationEvaluator = (*Collaborators)(nil)
)

// Collaborators implements analysis, translation, speech and pronunciation
// evaluation on top of a single LLM service.
type Collaborators struct {
	llm     driven.LLMService
	prompts driven.PromptStore
	limiter *RateLimiter
}

// Option configures Collaborators.
type Option func(*Collaborators)

// WithRateLimit paces provider requests to rps requests per second.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Collaborators) {
		c.limiter = NewRateLimiter(rps, burst)
	}
}

// New creates the collaborators. A nil llm yields collaborators that report
// domain.ErrAIUnavailable on every call.
func New(llm driven.LLMService, prompts driven.PromptStore, opts ...Option) *Collaborators {
	c := &Collaborators{
		llm:     llm,
		prompts: prompts,
		limiter: NewRateLimiter(DefaultRequestsPerSecond, DefaultBurstSize),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Available reports whether an LLM provider is configured.
func (c *Collaborators) Available() bool {
	return c.llm != nil
}

// AnalyzeText extracts items of the enabled types from text.
func (c *Collaborators) AnalyzeText(
	ctx context.Context, text, targetLevel, model string, types []domain.WordType,
) ([]domain.WordAnalysis, error) {
	if len(types) == 0 {
		return []domain.WordAnalysis{}, nil
	}

	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}

	prompt, err := c.render(driven.PromptAnalyzeText, targetLevel, strings.Join(names, ", "), text)
	if err != nil {
		return nil, err
	}

	out, err := c.generate(ctx, prompt, model, true)
	if err != nil {
		return nil, fmt.Errorf("analyse text: %w", err)
	}

	items, err := parseItems(out)
	if err != nil {
		return nil, fmt.Errorf("analyse text: %w", err)
	}

	result := make([]domain.WordAnalysis, 0, len(items))
	for _, item := range items {
		item = tidy(item)
		if !item.Type.IsValid() || !slices.Contains(types, item.Type) {
			logger.Debug("ai: dropping item %q of type %q", item.Word, item.Type)
			continue
		}
		if item.Key() == "" {
			continue
		}
		result = append(result, item)
	}
	return result, nil
}

// AnalyzeWord analyses a single word in the context of text.
func (c *Collaborators) AnalyzeWord(
	ctx context.Context, word, text, targetLevel, model string,
) (domain.WordAnalysis, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return domain.WordAnalysis{}, fmt.Errorf("%w: word is required", domain.ErrInvalidInput)
	}

	prompt, err := c.render(driven.PromptAnalyzeWord, word, targetLevel, text)
	if err != nil {
		return domain.WordAnalysis{}, err
	}

	out, err := c.generate(ctx, prompt, model, true)
	if err != nil {
		return domain.WordAnalysis{}, fmt.Errorf("analyse word: %w", err)
	}

	var item domain.WordAnalysis
	if err := json.Unmarshal([]byte(extractJSON(out)), &item); err != nil {
		return domain.WordAnalysis{}, fmt.Errorf("analyse word: decode response: %w", err)
	}

	item = tidy(item)
	if item.Word == "" {
		item.Word = word
	}
	if !item.Type.IsValid() {
		item.Type = domain.WordTypeVocabulary
	}
	if item.Level == "" {
		item.Level = targetLevel
	}
	return item, nil
}

// Translate translates text into Persian.
func (c *Collaborators) Translate(ctx context.Context, text, model string) (string, error) {
	prompt, err := c.render(driven.PromptTranslate, text)
	if err != nil {
		return "", err
	}

	out, err := c.generate(ctx, prompt, model, false)
	if err != nil {
		return "", fmt.Errorf("translate: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// Synthesize returns base64 PCM audio for text.
// Providers without speech support report domain.ErrAIUnavailable.
func (c *Collaborators) Synthesize(ctx context.Context, text, model string) (string, error) {
	if c.llm == nil {
		return "", domain.ErrAIUnavailable
	}
	speech, ok := c.llm.(driven.SpeechSynthesizer)
	if !ok {
		return "", fmt.Errorf("%w: provider does not support speech synthesis", domain.ErrAIUnavailable)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}
	audio, err := speech.Synthesize(ctx, text, model)
	if err != nil {
		c.observe(err)
		return "", fmt.Errorf("synthesize: %w", err)
	}
	return audio, nil
}

// Evaluate scores a spoken attempt against its reference text.
func (c *Collaborators) Evaluate(
	ctx context.Context, reference, transcript, model string,
) (*domain.PronunciationResult, error) {
	prompt, err := c.render(driven.PromptPronunciation, reference, transcript)
	if err != nil {
		return nil, err
	}

	out, err := c.generate(ctx, prompt, model, true)
	if err != nil {
		return nil, fmt.Errorf("evaluate pronunciation: %w", err)
	}

	var result domain.PronunciationResult
	if err := json.Unmarshal([]byte(extractJSON(out)), &result); err != nil {
		return nil, fmt.Errorf("evaluate pronunciation: decode response: %w", err)
	}

	result.Score = min(max(result.Score, 0), 100)
	if result.Words == nil {
		result.Words = []domain.WordStatus{}
	}
	return &result, nil
}

// render loads a prompt template and fills in its placeholders.
func (c *Collaborators) render(name string, args ...any) (string, error) {
	if c.prompts == nil {
		return "", fmt.Errorf("prompt %q: no prompt store", name)
	}
	tmpl, err := c.prompts.Load(name)
	if err != nil {
		return "", fmt.Errorf("load prompt: %w", err)
	}
	return fmt.Sprintf(tmpl, args...), nil
}

// generate sends one prompt to the LLM, respecting the rate limit.
func (c *Collaborators) generate(ctx context.Context, prompt, model string, jsonMode bool) (string, error) {
	if c.llm == nil {
		return "", domain.ErrAIUnavailable
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	out, err := c.llm.Generate(ctx, prompt, driven.GenerateOptions{
		Model: model,
		JSON:  jsonMode,
	})
	if err != nil {
		c.observe(err)
		return "", err
	}
	return out, nil
}

func (c *Collaborators) observe(err error) {
	if errors.Is(err, domain.ErrRateLimited) {
		logger.Warn("ai: provider rate limit reached, backing off for %s", c.limiter.backoff)
		c.limiter.RecordRateLimitError()
	}
}

// parseItems accepts either {"items": [...]} or a bare array.
func parseItems(out string) ([]domain.WordAnalysis, error) {
	payload := extractJSON(out)

	if strings.HasPrefix(payload, "[") {
		var items []domain.WordAnalysis
		if err := json.Unmarshal([]byte(payload), &items); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		return items, nil
	}

	var wrapped struct {
		Items []domain.WordAnalysis `json:"items"`
	}
	if err := json.Unmarshal([]byte(payload), &wrapped); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return wrapped.Items, nil
}

// extractJSON strips Markdown code fences and surrounding prose from a model response.
func extractJSON(out string) string {
	s := strings.TrimSpace(out)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			s = s[nl+1:]
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}

	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return s
	}
	closer := byte('}')
	if s[start] == '[' {
		closer = ']'
	}
	end := strings.LastIndexByte(s, closer)
	if end < start {
		return s[start:]
	}
	return s[start : end+1]
}

func tidy(item domain.WordAnalysis) domain.WordAnalysis {
	item.Type = domain.WordType(strings.ToLower(strings.TrimSpace(string(item.Type))))
	item.Word = strings.TrimSpace(item.Word)
	item.Lemma = strings.TrimSpace(item.Lemma)
	if item.Collocations == nil {
		item.Collocations = []string{}
	}
	return item
}
