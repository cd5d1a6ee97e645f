package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lingua/internal/core/domain"
)

var errNotConfigured = errors.New("not configured")

func requireService(name string, svc any) error {
	if svc == nil {
		return fmt.Errorf("%s service %w", name, errNotConfigured)
	}
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func parseIndex(arg string) (int, error) {
	idx, err := strconv.Atoi(arg)
	if err != nil || idx < 0 {
		return 0, fmt.Errorf("%w: page index must be a non-negative integer, got %q", domain.ErrInvalidInput, arg)
	}
	return idx, nil
}

func formatTime(ts domain.Timestamp) string {
	return ts.Time().Local().Format("2006-01-02 15:04")
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func printCard(cmd *cobra.Command, card *domain.Flashcard) {
	cmd.Printf("  %s\n", card.ID)
	cmd.Printf("    %s [%s, %s]\n", card.Word, card.Type, card.Level)
	if card.PersianTranslation != "" {
		cmd.Printf("    Translation: %s\n", card.PersianTranslation)
	}
	if card.Definition != "" {
		cmd.Printf("    Definition:  %s\n", card.Definition)
	}
	cmd.Printf("    Stage: %d  Next review: %s\n", card.Stage, formatTime(card.NextReview))
}
