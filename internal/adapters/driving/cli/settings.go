package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/lingua/internal/core/domain"
	"github.com/custodia-labs/lingua/internal/core/services"
)

var (
	providerName    string
	providerBaseURL string
	providerAPIKey  string
	providerClear   bool
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change models, speech, segmentation and analysis settings, and
configure the AI provider.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change one setting",
	Long: `Change one setting.

Keys:
  analysisModel       model used for page and word analysis
  translationModel    model used for page translation
  ttsModel            model used for cloud speech
  pronunciationModel  model used for pronunciation scoring
  ttsEngine           embedded-device-voice or cloud-ai-voice
  segmentLength       words per page for new imports
  enabledTypes        comma-separated word types, or "all"`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsProviderCmd = &cobra.Command{
	Use:   "provider",
	Short: "Configure the AI provider",
	Long: `Configure the AI provider used for analysis, translation, speech and
pronunciation. Without flags an interactive prompt asks for each value and
reads the API key without echo.

Examples:
  lingua settings provider --provider openai --api-key sk-...
  lingua settings provider --provider openai --base-url http://localhost:11434/v1
  lingua settings provider --clear`,
	Args: cobra.NoArgs,
	RunE: runSettingsProvider,
}

func init() {
	settingsProviderCmd.Flags().StringVar(&providerName, "provider", "", "provider: openai or anthropic")
	settingsProviderCmd.Flags().StringVar(&providerBaseURL, "base-url", "", "custom API base URL (e.g. a local OpenAI-compatible server)")
	settingsProviderCmd.Flags().StringVar(&providerAPIKey, "api-key", "", "API key (kept unchanged when omitted)")
	settingsProviderCmd.Flags().BoolVar(&providerClear, "clear", false, "remove the provider configuration")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsProviderCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if err := requireService("settings", settingsService); err != nil {
		return err
	}

	settings, err := settingsService.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Models]")
	cmd.Printf("  Analysis:      %s\n", settings.AnalysisModel)
	cmd.Printf("  Translation:   %s\n", settings.TranslationModel)
	cmd.Printf("  Speech:        %s\n", settings.TTSModel)
	cmd.Printf("  Pronunciation: %s\n", settings.PronunciationModel)
	cmd.Println()

	cmd.Println("[Reading]")
	cmd.Printf("  Voice:          %s\n", settings.TTSEngine)
	cmd.Printf("  Words per page: %d\n", settings.SegmentLength)
	types := make([]string, len(settings.EnabledTypes))
	for i, t := range settings.EnabledTypes {
		types[i] = t.String()
	}
	cmd.Printf("  Enabled types:  %s\n", strings.Join(types, ", "))
	cmd.Println()

	if providerService == nil {
		return nil
	}

	provider := providerService.Get()
	cmd.Println("[AI Provider]")
	if provider.Provider == "" {
		cmd.Println("  Provider: (not set)")
	} else {
		cmd.Printf("  Provider: %s\n", provider.Provider.Description())
	}
	if provider.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", provider.BaseURL)
	}
	if provider.APIKey != "" {
		cmd.Printf("  API Key: %s\n", maskAPIKey(provider.APIKey))
	} else {
		cmd.Println("  API Key: (not set)")
	}
	cmd.Println()

	if err := providerService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'lingua settings provider' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if err := requireService("settings", settingsService); err != nil {
		return err
	}

	if _, err := settingsService.Set(cmd.Context(), args[0], args[1]); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return fmt.Errorf("%w (valid keys: %s)", err, strings.Join(services.SettingsKeys(), ", "))
		}
		return fmt.Errorf("failed to update settings: %w", err)
	}

	cmd.Printf("Set %s = %s\n", args[0], args[1])
	return nil
}

func runSettingsProvider(cmd *cobra.Command, _ []string) error {
	if err := requireService("provider", providerService); err != nil {
		return err
	}

	if providerClear {
		if err := providerService.Clear(); err != nil {
			return fmt.Errorf("failed to clear provider: %w", err)
		}
		cmd.Println("AI provider configuration removed.")
		return nil
	}

	provider, baseURL, apiKey := domain.AIProvider(providerName), providerBaseURL, providerAPIKey
	if providerName == "" {
		var err error
		provider, baseURL, apiKey, err = promptProvider(cmd)
		if err != nil {
			return err
		}
	}

	if err := providerService.Set(provider, baseURL, apiKey); err != nil {
		return fmt.Errorf("failed to save provider: %w", err)
	}
	cmd.Printf("AI provider set to %s\n", provider.Description())

	if err := providerService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	}
	return nil
}

func promptProvider(cmd *cobra.Command) (domain.AIProvider, string, string, error) {
	reader := bufio.NewReader(cmd.InOrStdin())

	cmd.Println("Select AI Provider")
	cmd.Println("------------------")
	providers := domain.AllAIProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(providers), 1)
	provider := providers[idx-1]

	cmd.Print("Base URL (leave empty for the provider default): ")
	baseURL := readLine(reader)

	cmd.Print("API key (leave empty to keep the current key): ")
	apiKey := readPassword(reader)
	cmd.Println()

	if !provider.IsValid() {
		return "", "", "", errors.New("invalid selection")
	}
	return provider, baseURL, apiKey, nil
}

func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads a secret without echo when stdin is a terminal.
func readPassword(reader *bufio.Reader) string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
