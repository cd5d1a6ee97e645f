// Command lingua is a vocabulary-learning tool: it imports texts, extracts
// learnable items with an AI provider and schedules them for review.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/lingua/internal/adapters/driven/ai"
	"github.com/custodia-labs/lingua/internal/adapters/driven/config/file"
	"github.com/custodia-labs/lingua/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/lingua/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/lingua/internal/adapters/driving/cli"
	"github.com/custodia-labs/lingua/internal/config"
	"github.com/custodia-labs/lingua/internal/core/domain"
	"github.com/custodia-labs/lingua/internal/core/ports/driven"
	"github.com/custodia-labs/lingua/internal/core/services"
	"github.com/custodia-labs/lingua/internal/logger"
	"github.com/custodia-labs/lingua/internal/normalisers"
	"github.com/custodia-labs/lingua/internal/segmenter"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := run(ctx)
	cancel()
	if err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	logger.Configure(cfg.Log.Level, cfg.Log.Format)

	store, err := openStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	defer store.Close()

	configStore, err := file.NewConfigStore(cfg.Home)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	prompts, err := file.NewPromptStore(cfg.PromptDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}

	providerService := services.NewProviderService(configStore, ai.NewConfigValidator(), map[domain.AIProvider]string{
		domain.AIProviderOpenAI:    cfg.AI.OpenAIAPIKey,
		domain.AIProviderAnthropic: cfg.AI.AnthropicAPIKey,
	})

	collaborators, closeAI := buildCollaborators(providerService.Get(), prompts, cfg.AI)
	defer closeAI()

	settingsService := services.NewSettingsService(store)
	cache := services.NewArticleCache()

	schedule := services.DefaultScheduleConfig()
	schedule.MaxStage = cfg.SRS.MaxStage
	schedule.MaxIntervalDays = cfg.SRS.MaxIntervalDays

	cli.SetServices(cli.Services{
		Library: services.NewLibraryService(store, settingsService, segmenter.New(),
			normalisers.NewDefaultRegistry(), collaborators, cache),
		Flashcards:  services.NewFlashcardService(store, cfg.SRS.SessionLimit),
		Review:      services.NewReviewService(store, schedule),
		Backup:      services.NewBackupService(store, cache),
		Settings:    settingsService,
		Provider:    providerService,
		Collections: services.NewCollectionService(store),
		Speech:      services.NewSpeechService(settingsService, collaborators),
	})
	cli.SetVersion(version)

	// cobra prints the error itself
	return cli.Execute(ctx)
}

func openStore(cfg *config.Config) (driven.RecordStore, error) {
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		logger.Warn("using in-memory storage, nothing will be saved")
		return memory.NewStore(), nil
	default:
		store, err := sqlite.NewStore(cfg.DataDir())
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		return store, nil
	}
}

// buildCollaborators connects the configured AI provider. Without one the
// collaborators stay nil and AI operations report domain.ErrAIUnavailable.
func buildCollaborators(
	provider domain.ProviderSettings, prompts driven.PromptStore, cfg config.AIConfig,
) (services.Collaborators, func()) {
	llm, err := ai.CreateLLMService(&provider)
	if err != nil {
		logger.Warn("AI provider unavailable: %v", err)
		return services.Collaborators{}, func() {}
	}
	if llm == nil {
		logger.Debug("no AI provider configured")
		return services.Collaborators{}, func() {}
	}

	c := ai.New(llm, prompts, ai.WithRateLimit(cfg.RequestsPerSecond, cfg.Burst))
	collaborators := services.Collaborators{
		Analyzer:      c,
		Translator:    c,
		Pronunciation: c,
	}
	if _, ok := llm.(driven.SpeechSynthesizer); ok {
		collaborators.Speech = c
	}
	return collaborators, func() { _ = llm.Close() }
}
