package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lingua/internal/core/domain"
)

func TestCollectionList_Empty(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "collection", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "No collections.")
}

func TestCollectionAddAndList(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "collection", "add", "Sea stories", "-d", "Short fiction about the coast")

	require.NoError(t, err)
	assert.Contains(t, out, `Created collection "Sea stories"`)

	out, err = execute(t, "collection", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Sea stories")
	assert.Contains(t, out, "Short fiction about the coast")
}

func TestImportFile_UnknownCollection(t *testing.T) {
	setupTestServices(t)
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("Gulls circled the pier."), 0o644))

	_, err := execute(t, "import", "file", path, "--collection", "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
