package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var articleJSON bool

var articleCmd = &cobra.Command{
	Use:   "article",
	Short: "Browse imported articles",
}

var articleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List articles, newest first",
	Args:  cobra.NoArgs,
	RunE:  runArticleList,
}

var articleShowCmd = &cobra.Command{
	Use:   "show [article-id]",
	Short: "Show an article and its pages",
	Args:  cobra.ExactArgs(1),
	RunE:  runArticleShow,
}

func init() {
	articleListCmd.Flags().BoolVar(&articleJSON, "json", false, "output as JSON")
	articleShowCmd.Flags().BoolVar(&articleJSON, "json", false, "output as JSON")

	articleCmd.AddCommand(articleListCmd)
	articleCmd.AddCommand(articleShowCmd)
	rootCmd.AddCommand(articleCmd)
}

func runArticleList(cmd *cobra.Command, _ []string) error {
	if err := requireService("library", libraryService); err != nil {
		return err
	}

	articles, err := libraryService.ListArticles(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list articles: %w", err)
	}

	if articleJSON {
		return printJSON(cmd, articles)
	}

	if len(articles) == 0 {
		cmd.Println("No articles yet. Import one with 'lingua import file <path>'.")
		return nil
	}

	cmd.Println("Articles:")
	cmd.Println()
	for i := range articles {
		a := &articles[i]
		cmd.Printf("  %s\n", a.ID)
		cmd.Printf("    Title:    %s\n", a.Title)
		cmd.Printf("    Pages:    %d (%d analysed)\n", a.SegmentCount(), a.AnalyzedCount())
		cmd.Printf("    Imported: %s\n", formatTime(a.ProcessedAt))
		cmd.Println()
	}
	cmd.Printf("Total: %d articles\n", len(articles))
	return nil
}

func runArticleShow(cmd *cobra.Command, args []string) error {
	if err := requireService("library", libraryService); err != nil {
		return err
	}

	article, err := libraryService.GetArticle(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get article: %w", err)
	}

	if articleJSON {
		return printJSON(cmd, article)
	}

	cmd.Printf("Article: %s\n\n", article.ID)
	cmd.Printf("  Title:    %s\n", article.Title)
	if article.CollectionID != "" {
		cmd.Printf("  Collection: %s\n", article.CollectionID)
	}
	cmd.Printf("  Imported: %s\n", formatTime(article.ProcessedAt))
	cmd.Println()
	cmd.Println("  Pages:")
	for _, seg := range article.Segments {
		status := "not analysed"
		if seg.IsAnalyzed {
			status = fmt.Sprintf("%d items, %d approved", len(seg.AnalyzedWords), len(seg.ApprovedWordIDs))
		}
		cmd.Printf("    %d. %s (%s)\n", seg.Index, seg.Title, status)
	}
	return nil
}
