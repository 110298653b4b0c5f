package attachment_test

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portalhq/portal/internal/attachment"
)

func TestDiskStore_SaveAndOpen(t *testing.T) {
	store, err := attachment.NewDiskStore(t.TempDir())
	require.NoError(t, err)

	path, size, err := store.Save("report.pdf", strings.NewReader("file content"))
	require.NoError(t, err)

	assert.Equal(t, int64(len("file content")), size)
	assert.Equal(t, ".pdf", filepath.Ext(path), "stored name should keep the original extension")
	assert.NotEqual(t, "report.pdf", path, "stored name should not be the client-supplied name")

	rc, err := store.Open(path)
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "file content", string(data))
}

func TestDiskStore_SaveUniqueNames(t *testing.T) {
	store, err := attachment.NewDiskStore(t.TempDir())
	require.NoError(t, err)

	p1, _, err := store.Save("a.txt", strings.NewReader("one"))
	require.NoError(t, err)
	p2, _, err := store.Save("a.txt", strings.NewReader("two"))
	require.NoError(t, err)

	assert.NotEqual(t, p1, p2, "same upload name must not collide on disk")
}

func TestDiskStore_Remove(t *testing.T) {
	store, err := attachment.NewDiskStore(t.TempDir())
	require.NoError(t, err)

	path, _, err := store.Save("a.txt", strings.NewReader("one"))
	require.NoError(t, err)

	require.NoError(t, store.Remove(path))

	_, err = store.Open(path)
	assert.Error(t, err)
}

func TestDiskStore_RemoveMissingFileIsNoop(t *testing.T) {
	store, err := attachment.NewDiskStore(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, store.Remove("does-not-exist.bin"))
}

func TestNewDiskStore_CreatesBaseDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")

	_, err := attachment.NewDiskStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
