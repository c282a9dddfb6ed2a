package upload

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_WritesWithUniqueName(t *testing.T) {
	storage := NewLocalFileStorageWithPath(t.TempDir())

	path, err := storage.Store(context.Background(), strings.NewReader("conteudo"), "dados.xlsx")
	require.NoError(t, err)

	base := filepath.Base(path)
	assert.True(t, strings.HasPrefix(base, "dados_"), base)
	assert.True(t, strings.HasSuffix(base, ".xlsx"), base)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "conteudo", string(content))
}

func TestStore_SameNameDoesNotCollide(t *testing.T) {
	storage := NewLocalFileStorageWithPath(t.TempDir())

	p1, err := storage.Store(context.Background(), strings.NewReader("um"), "dados.xlsx")
	require.NoError(t, err)
	p2, err := storage.Store(context.Background(), strings.NewReader("dois"), "dados.xlsx")
	require.NoError(t, err)

	assert.NotEqual(t, p1, p2)
}

func TestGetReader_RoundTrip(t *testing.T) {
	storage := NewLocalFileStorageWithPath(t.TempDir())

	path, err := storage.Store(context.Background(), strings.NewReader("abc"), "f.xls")
	require.NoError(t, err)

	rc, err := storage.GetReader(context.Background(), path)
	require.NoError(t, err)
	defer rc.Close()

	buf := make([]byte, 8)
	n, _ := rc.Read(buf)
	assert.Equal(t, "abc", string(buf[:n]))
}

func TestDelete(t *testing.T) {
	storage := NewLocalFileStorageWithPath(t.TempDir())

	path, err := storage.Store(context.Background(), strings.NewReader("x"), "f.xlsx")
	require.NoError(t, err)

	require.NoError(t, storage.Delete(context.Background(), path))

	exists, err := storage.Exists(context.Background(), path)
	require.NoError(t, err)
	assert.False(t, exists)

	// Deleting again is not an error.
	assert.NoError(t, storage.Delete(context.Background(), path))
}

func TestGetFileSize(t *testing.T) {
	storage := NewLocalFileStorageWithPath(t.TempDir())

	path, err := storage.Store(context.Background(), strings.NewReader("12345"), "f.xlsx")
	require.NoError(t, err)

	size, err := storage.GetFileSize(path)
	require.NoError(t, err)
	assert.Equal(t, int64(5), size)
}
