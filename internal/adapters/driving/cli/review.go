package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lingua/internal/core/domain"
)

var reviewCmd = &cobra.Command{
	Use:   "review [card-id] [quality]",
	Short: "Record a review of a flashcard",
	Long: `Record how well you recalled a card, from 0 (forgot) to 5 (perfect).
A quality of 3 or more moves the card to the next stage and doubles its
interval; anything lower resets it.`,
	Args: cobra.ExactArgs(2),
	RunE: runReview,
}

func init() {
	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, args []string) error {
	if err := requireService("review", reviewService); err != nil {
		return err
	}

	quality, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("%w: quality must be an integer, got %q", domain.ErrInvalidInput, args[1])
	}

	card, err := reviewService.Review(cmd.Context(), args[0], quality)
	if err != nil {
		return fmt.Errorf("failed to review card: %w", err)
	}

	cmd.Printf("%s: stage %d, next review %s\n", card.Word, card.Stage, formatTime(card.NextReview))
	return nil
}
