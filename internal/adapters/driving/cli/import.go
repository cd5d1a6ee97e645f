package cli

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lingua/internal/adapters/driving/inbox"
	"github.com/custodia-labs/lingua/internal/core/domain"
)

// maxFetchBytes bounds the size of a page fetched by import url.
const maxFetchBytes = 10 << 20

var (
	importTitle      string
	importCollection string
	importDebounce   time.Duration
)

var httpClient = &http.Client{Timeout: 30 * time.Second}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import texts as articles",
	Long:  `Import a file, a web page, or every file dropped into a directory.`,
}

var importFileCmd = &cobra.Command{
	Use:   "file [path]",
	Short: "Import a text, Markdown, HTML, Word or email file",
	Args:  cobra.ExactArgs(1),
	RunE:  runImportFile,
}

var importURLCmd = &cobra.Command{
	Use:   "url [url]",
	Short: "Import a web page",
	Args:  cobra.ExactArgs(1),
	RunE:  runImportURL,
}

var importWatchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Import files as they appear in a directory",
	Long: `Watch a directory and import every text, Markdown, HTML, Word (.docx) or
email (.eml) file created or changed in it. Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runImportWatch,
}

func init() {
	for _, c := range []*cobra.Command{importFileCmd, importURLCmd, importWatchCmd} {
		c.Flags().StringVarP(&importCollection, "collection", "c", "", "collection ID to file the article under")
	}
	importFileCmd.Flags().StringVarP(&importTitle, "title", "t", "", "article title (default: derived from the file)")
	importURLCmd.Flags().StringVarP(&importTitle, "title", "t", "", "article title (default: derived from the page)")
	importWatchCmd.Flags().DurationVar(&importDebounce, "debounce", inbox.DefaultDebounce, "quiet period before a changed file is imported")

	importCmd.AddCommand(importFileCmd)
	importCmd.AddCommand(importURLCmd)
	importCmd.AddCommand(importWatchCmd)
	rootCmd.AddCommand(importCmd)
}

func runImportFile(cmd *cobra.Command, args []string) error {
	if err := requireService("library", libraryService); err != nil {
		return err
	}

	path := args[0]
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	article, err := libraryService.ImportRaw(cmd.Context(), &domain.RawDocument{
		URI:     path,
		Content: content,
		Title:   importTitle,
	}, importCollection)
	if err != nil {
		return fmt.Errorf("failed to import: %w", err)
	}

	printImported(cmd, article)
	return nil
}

func runImportURL(cmd *cobra.Command, args []string) error {
	if err := requireService("library", libraryService); err != nil {
		return err
	}

	url := args[0]
	req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to fetch %s: status %d", url, resp.StatusCode)
	}
	content, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", url, err)
	}

	article, err := libraryService.ImportRaw(cmd.Context(), &domain.RawDocument{
		URI:      url,
		MIMEType: resp.Header.Get("Content-Type"),
		Content:  content,
		Title:    importTitle,
	}, importCollection)
	if err != nil {
		return fmt.Errorf("failed to import: %w", err)
	}

	printImported(cmd, article)
	return nil
}

func runImportWatch(cmd *cobra.Command, args []string) error {
	if err := requireService("library", libraryService); err != nil {
		return err
	}

	dir, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("invalid directory: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	watcher := inbox.New(dir, libraryService,
		inbox.WithDebounce(importDebounce),
		inbox.WithCollection(importCollection),
	)
	defer watcher.Close()

	results, err := watcher.Watch(ctx)
	if err != nil {
		return err
	}

	cmd.Printf("Watching %s (Ctrl+C to stop)\n", dir)
	for res := range results {
		if res.Err != nil {
			cmd.PrintErrf("Failed to import %s: %v\n", filepath.Base(res.Path), res.Err)
			continue
		}
		printImported(cmd, res.Article)
	}
	return nil
}

func printImported(cmd *cobra.Command, article *domain.Article) {
	cmd.Printf("Imported %q (%d pages)\n", article.Title, article.SegmentCount())
	cmd.Printf("  ID: %s\n", article.ID)
}
