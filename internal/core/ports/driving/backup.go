package driving

import (
	"context"
	"io"

	"github.com/custodia-labs/lingua/internal/core/domain"
)

// BackupService exports and imports the whole database.
type BackupService interface {
	// Export reads every record into a backup document.
	Export(ctx context.Context) (*domain.Backup, error)

	// Import merges a backup document into the store atomically.
	// Kinds absent from the document are left untouched.
	Import(ctx context.Context, doc *domain.Backup) error

	// Write exports the database as JSON to w.
	Write(ctx context.Context, w io.Writer) (*domain.Backup, error)

	// Read decodes a JSON backup from r and imports it.
	Read(ctx context.Context, r io.Reader) (*domain.Backup, error)
}
