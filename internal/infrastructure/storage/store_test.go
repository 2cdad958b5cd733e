package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-local/internal/domain/repository"
	"github.com/jhoicas/inventario-local/internal/infrastructure/storage"
)

func exerciseBlobStore(t *testing.T, s repository.BlobStore) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "koreanMarketInventory")
	require.NoError(t, err)
	assert.False(t, ok, "clave ausente")

	require.NoError(t, s.Set(ctx, "koreanMarketInventory", []byte(`[]`)))
	require.NoError(t, s.Set(ctx, "koreanMarketInventory", []byte(`[{"id":"a"}]`)))

	data, ok, err := s.Get(ctx, "koreanMarketInventory")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"a"}]`, string(data))
}

func TestMemoryStore(t *testing.T) {
	exerciseBlobStore(t, storage.NewMemoryStore())
}

func TestMemoryStore_CopiaLosBytes(t *testing.T) {
	s := storage.NewMemoryStore()
	ctx := context.Background()
	in := []byte("abc")
	require.NoError(t, s.Set(ctx, "k", in))
	in[0] = 'x'

	out, _, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(out))
}

func TestFileStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	s, err := storage.NewFileStore(dir)
	require.NoError(t, err)

	exerciseBlobStore(t, s)

	_, err = os.Stat(filepath.Join(dir, "koreanMarketInventory.json"))
	assert.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no quedan archivos temporales")
}

func TestFileStore_ClaveSanitizada(t *testing.T) {
	dir := t.TempDir()
	s, err := storage.NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, s.Set(context.Background(), "../fuera", []byte("x")))
	_, err = os.Stat(filepath.Join(dir, ".._fuera.json"))
	assert.NoError(t, err)
}

func TestFileStore_ContextoCancelado(t *testing.T) {
	s, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.Set(ctx, "k", []byte("x")), context.Canceled)
	_, _, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
}
