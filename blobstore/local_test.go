package blobstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vocab.json"), []byte(`["cat"]`), 0o644))

	store := NewLocalStore(dir)

	t.Run("Open", func(t *testing.T) {
		b, err := store.Open(ctx, "vocab.json")
		require.NoError(t, err)
		defer func() { _ = b.Close() }()
		assert.Equal(t, int64(9), b.Size())
	})

	t.Run("ReadAll", func(t *testing.T) {
		data, err := ReadAll(ctx, store, "vocab.json")
		require.NoError(t, err)
		assert.Equal(t, `["cat"]`, string(data))
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := store.Open(ctx, "nope.bin")
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("Canceled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := store.Open(cctx, "vocab.json")
		assert.ErrorIs(t, err, context.Canceled)
	})
}
