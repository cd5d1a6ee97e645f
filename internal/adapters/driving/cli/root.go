// Package cli implements the lingua command tree.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lingua/internal/core/ports/driving"
	"github.com/custodia-labs/lingua/internal/logger"
)

var (
	version = "dev"
	verbose bool
)

// Services wired by main.
var (
	libraryService    driving.LibraryService
	flashcardService  driving.FlashcardService
	reviewService     driving.ReviewService
	backupService     driving.BackupService
	settingsService   driving.SettingsService
	providerService   driving.ProviderService
	collectionService driving.CollectionService
	speechService     driving.SpeechService
)

var rootCmd = &cobra.Command{
	Use:   "lingua",
	Short: "Read, analyse and review vocabulary from real texts",
	Long: `Lingua imports articles, splits them into pages, extracts vocabulary and
grammar with an AI provider, and schedules approved items as flashcards
for spaced-repetition review.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if verbose {
			logger.SetVerbose(true)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Services holds the driving ports used by the commands.
type Services struct {
	Library     driving.LibraryService
	Flashcards  driving.FlashcardService
	Review      driving.ReviewService
	Backup      driving.BackupService
	Settings    driving.SettingsService
	Provider    driving.ProviderService
	Collections driving.CollectionService
	Speech      driving.SpeechService
}

// SetServices installs the services used by every command.
func SetServices(s Services) {
	libraryService = s.Library
	flashcardService = s.Flashcards
	reviewService = s.Review
	backupService = s.Backup
	settingsService = s.Settings
	providerService = s.Provider
	collectionService = s.Collections
	speechService = s.Speech
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
