package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lingua/internal/core/domain"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Export and import the whole library",
}

var backupExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write a backup file",
	Long: `Write every article, page, flashcard, collection and the settings to a JSON
backup file. Without a file name the backup is written to
lingua-backup-YYYY-MM-DD.json in the current directory. Use "-" for stdout.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBackupExport,
}

var backupImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Merge a backup file into the library",
	Long: `Merge a backup into the library. Records with the same ID are replaced;
everything else is kept. A malformed file changes nothing. Use "-" for stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runBackupImport,
}

func init() {
	backupCmd.AddCommand(backupExportCmd)
	backupCmd.AddCommand(backupImportCmd)
	rootCmd.AddCommand(backupCmd)
}

func runBackupExport(cmd *cobra.Command, args []string) error {
	if err := requireService("backup", backupService); err != nil {
		return err
	}

	path := domain.BackupFileName(time.Now())
	if len(args) == 1 {
		path = args[0]
	}

	var w io.Writer
	if path == "-" {
		w = cmd.OutOrStdout()
	} else {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create backup file: %w", err)
		}
		defer f.Close()
		w = f
	}

	doc, err := backupService.Write(cmd.Context(), w)
	if err != nil {
		return fmt.Errorf("failed to export: %w", err)
	}

	if path != "-" {
		cmd.Printf("Exported %d articles, %d pages, %d flashcards to %s\n",
			len(doc.Articles), len(doc.Segments), len(doc.Flashcards), path)
	}
	return nil
}

func runBackupImport(cmd *cobra.Command, args []string) error {
	if err := requireService("backup", backupService); err != nil {
		return err
	}

	var r io.Reader
	if args[0] == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open backup file: %w", err)
		}
		defer f.Close()
		r = f
	}

	doc, err := backupService.Read(cmd.Context(), r)
	if err != nil {
		return fmt.Errorf("failed to import: %w", err)
	}

	cmd.Printf("Imported %d articles, %d pages, %d flashcards\n",
		len(doc.Articles), len(doc.Segments), len(doc.Flashcards))
	return nil
}
