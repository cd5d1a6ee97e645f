package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lingua/internal/core/domain"
)

var (
	segmentLevel string
	segmentJSON  bool
)

var segmentCmd = &cobra.Command{
	Use:     "segment",
	Aliases: []string{"page"},
	Short:   "Read, analyse and approve article pages",
}

var segmentShowCmd = &cobra.Command{
	Use:   "show [article-id] [index]",
	Short: "Print a page with its analysed items",
	Args:  cobra.ExactArgs(2),
	RunE:  runSegmentShow,
}

var segmentAnalyzeCmd = &cobra.Command{
	Use:   "analyze [article-id] [index]",
	Short: "Extract learnable items from a page",
	Long: `Ask the AI provider for vocabulary, grammar, literary and historical items
in a page, pitched at the target CEFR level. Items already approved on the
page are kept.`,
	Args: cobra.ExactArgs(2),
	RunE: runSegmentAnalyze,
}

var segmentTranslateCmd = &cobra.Command{
	Use:   "translate [article-id] [index]",
	Short: "Translate a page into Persian",
	Args:  cobra.ExactArgs(2),
	RunE:  runSegmentTranslate,
}

var segmentApproveCmd = &cobra.Command{
	Use:   "approve [article-id] [index] [lemma...]",
	Short: "Approve analysed items and create their flashcards",
	Args:  cobra.MinimumNArgs(3),
	RunE:  runSegmentApprove,
}

var segmentAddWordCmd = &cobra.Command{
	Use:   "add-word [article-id] [index] [word]",
	Short: "Analyse a word of your choice and add it as a flashcard",
	Args:  cobra.ExactArgs(3),
	RunE:  runSegmentAddWord,
}

func init() {
	segmentShowCmd.Flags().BoolVar(&segmentJSON, "json", false, "output as JSON")
	segmentAnalyzeCmd.Flags().StringVarP(&segmentLevel, "level", "l", "", "target CEFR level (default B2)")
	segmentAddWordCmd.Flags().StringVarP(&segmentLevel, "level", "l", "", "target CEFR level (default B2)")

	segmentCmd.AddCommand(segmentShowCmd)
	segmentCmd.AddCommand(segmentAnalyzeCmd)
	segmentCmd.AddCommand(segmentTranslateCmd)
	segmentCmd.AddCommand(segmentApproveCmd)
	segmentCmd.AddCommand(segmentAddWordCmd)
	rootCmd.AddCommand(segmentCmd)
}

func segmentArgs(args []string) (string, int, error) {
	if err := requireService("library", libraryService); err != nil {
		return "", 0, err
	}
	idx, err := parseIndex(args[1])
	if err != nil {
		return "", 0, err
	}
	return args[0], idx, nil
}

func runSegmentShow(cmd *cobra.Command, args []string) error {
	articleID, idx, err := segmentArgs(args)
	if err != nil {
		return err
	}

	seg, err := libraryService.GetSegment(cmd.Context(), articleID, idx)
	if err != nil {
		return fmt.Errorf("failed to get page: %w", err)
	}

	if segmentJSON {
		return printJSON(cmd, seg)
	}

	printSegment(cmd, seg)
	return nil
}

func runSegmentAnalyze(cmd *cobra.Command, args []string) error {
	articleID, idx, err := segmentArgs(args)
	if err != nil {
		return err
	}

	cmd.Println("Analysing page...")
	seg, err := libraryService.AnalyzeSegment(cmd.Context(), articleID, idx, segmentLevel)
	if err != nil {
		return fmt.Errorf("failed to analyse page: %w", err)
	}

	printItems(cmd, seg)
	return nil
}

func runSegmentTranslate(cmd *cobra.Command, args []string) error {
	articleID, idx, err := segmentArgs(args)
	if err != nil {
		return err
	}

	seg, err := libraryService.TranslateSegment(cmd.Context(), articleID, idx)
	if err != nil {
		return fmt.Errorf("failed to translate page: %w", err)
	}

	cmd.Println(seg.PersianTranslation)
	return nil
}

func runSegmentApprove(cmd *cobra.Command, args []string) error {
	articleID, idx, err := segmentArgs(args)
	if err != nil {
		return err
	}

	cards, err := libraryService.ApproveWords(cmd.Context(), articleID, idx, args[2:])
	if err != nil {
		return fmt.Errorf("failed to approve: %w", err)
	}

	if len(cards) == 0 {
		cmd.Println("Nothing new to approve.")
		return nil
	}
	cmd.Printf("Created %d flashcards:\n", len(cards))
	for i := range cards {
		cmd.Printf("  %s  %s\n", cards[i].ID, cards[i].Word)
	}
	return nil
}

func runSegmentAddWord(cmd *cobra.Command, args []string) error {
	articleID, idx, err := segmentArgs(args)
	if err != nil {
		return err
	}

	card, err := libraryService.AddCustomWord(cmd.Context(), articleID, idx, args[2], segmentLevel)
	if err != nil {
		return fmt.Errorf("failed to add word: %w", err)
	}

	cmd.Println("Created flashcard:")
	printCard(cmd, card)
	return nil
}

func printSegment(cmd *cobra.Command, seg *domain.Segment) {
	cmd.Println(seg.Title)
	cmd.Println()
	cmd.Println(seg.Content)
	if seg.PersianTranslation != "" {
		cmd.Println()
		cmd.Println("[Translation]")
		cmd.Println(seg.PersianTranslation)
	}
	if seg.IsAnalyzed {
		cmd.Println()
		printItems(cmd, seg)
	}
}

func printItems(cmd *cobra.Command, seg *domain.Segment) {
	if len(seg.AnalyzedWords) == 0 {
		cmd.Println("No items found.")
		return
	}

	approved := make(map[string]bool, len(seg.ApprovedWordIDs))
	for _, id := range seg.ApprovedWordIDs {
		approved[id] = true
	}

	cmd.Printf("Items (%d):\n", len(seg.AnalyzedWords))
	for _, w := range seg.AnalyzedWords {
		mark := " "
		if approved[w.Key()] {
			mark = "*"
		}
		cmd.Printf("  %s %-20s %-10s %-3s %s\n", mark, w.Key(), w.Type, w.Level, w.PersianTranslation)
	}
}
