package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lingua/internal/core/domain"
)

var (
	cardsArticle string
	cardsType    string
	cardsLevel   string
	cardsSearch  string
	cardsLimit   int
	cardsOffset  int
	cardsMode    string
	cardsJSON    bool
)

var cardsCmd = &cobra.Command{
	Use:     "cards",
	Aliases: []string{"flashcards"},
	Short:   "Browse flashcards and pick study sessions",
}

var cardsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Search flashcards",
	Long: `List flashcards sorted by headword. Filter by article, type and level, and
search the headword or Persian translation.`,
	Args: cobra.NoArgs,
	RunE: runCardsList,
}

var cardsSessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Pick cards for a study session",
	Long: `Select cards for a session in random order.

Modes:
  due  - cards whose next review has arrived (default)
  new  - cards never passed
  all  - any card matching the filters`,
	Args: cobra.NoArgs,
	RunE: runCardsSession,
}

func init() {
	for _, c := range []*cobra.Command{cardsListCmd, cardsSessionCmd} {
		c.Flags().StringVarP(&cardsArticle, "article", "a", "", "restrict to one article ID")
		c.Flags().StringVarP(&cardsType, "type", "t", "", "restrict to one word type")
		c.Flags().StringVarP(&cardsLevel, "level", "l", "", "restrict to one CEFR level")
		c.Flags().BoolVar(&cardsJSON, "json", false, "output as JSON")
	}
	cardsListCmd.Flags().StringVarP(&cardsSearch, "search", "s", "", "substring of headword or translation")
	cardsListCmd.Flags().IntVarP(&cardsLimit, "limit", "n", 0, "maximum number of cards (0 = all)")
	cardsListCmd.Flags().IntVar(&cardsOffset, "offset", 0, "number of cards to skip")
	cardsSessionCmd.Flags().StringVarP(&cardsMode, "mode", "m", string(domain.SessionDue), "session mode: due, new or all")
	cardsSessionCmd.Flags().IntVarP(&cardsLimit, "limit", "n", 0, "maximum number of cards (0 = configured default)")

	cardsCmd.AddCommand(cardsListCmd)
	cardsCmd.AddCommand(cardsSessionCmd)
	rootCmd.AddCommand(cardsCmd)
}

func runCardsList(cmd *cobra.Command, _ []string) error {
	if err := requireService("flashcard", flashcardService); err != nil {
		return err
	}

	cards, err := flashcardService.Query(cmd.Context(), domain.FlashcardQuery{
		ArticleID: cardsArticle,
		Type:      cardsType,
		Level:     cardsLevel,
		Search:    cardsSearch,
		Limit:     cardsLimit,
		Offset:    cardsOffset,
	})
	if err != nil {
		return fmt.Errorf("failed to query flashcards: %w", err)
	}

	return outputCards(cmd, cards)
}

func runCardsSession(cmd *cobra.Command, _ []string) error {
	if err := requireService("flashcard", flashcardService); err != nil {
		return err
	}

	mode := domain.SessionMode(cardsMode)
	if !mode.IsValid() {
		return fmt.Errorf("%w: unknown session mode %q", domain.ErrInvalidInput, cardsMode)
	}

	cards, err := flashcardService.CardsForSession(cmd.Context(), mode, domain.SessionFilters{
		ArticleID: cardsArticle,
		Type:      cardsType,
		Level:     cardsLevel,
	}, cardsLimit)
	if err != nil {
		return fmt.Errorf("failed to select session: %w", err)
	}

	return outputCards(cmd, cards)
}

func outputCards(cmd *cobra.Command, cards []domain.Flashcard) error {
	if cardsJSON {
		return printJSON(cmd, cards)
	}

	if len(cards) == 0 {
		cmd.Println("No flashcards found.")
		return nil
	}

	for i := range cards {
		printCard(cmd, &cards[i])
		cmd.Println()
	}
	cmd.Printf("Total: %d cards\n", len(cards))
	return nil
}
