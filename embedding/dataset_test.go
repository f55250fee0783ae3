package embedding

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridword/themegen/blobstore"
	"github.com/gridword/themegen/distance"
)

func TestDatasetRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	ds := &Dataset{
		Vocabulary: []string{"cat", "dog", "kitten"},
		Vectors: []float32{
			3, 4, 0,
			0, 5, 0,
			1, 1, 1,
		},
		Dimension: 3,
	}
	require.NoError(t, SaveDataset(dir, "vocab.json", "vectors.bin", ds))

	loaded, err := LoadDataset(ctx, blobstore.NewLocalStore(dir), "vocab.json", "vectors.bin")
	require.NoError(t, err)
	assert.Equal(t, ds.Vocabulary, loaded.Vocabulary)
	assert.Equal(t, 3, loaded.Dimension)
	assert.Equal(t, ds.Vectors, loaded.Vectors)

	// Building from the reloaded pair reproduces the same normalized vectors.
	want, err := New(ds.Vocabulary, ds.Vectors, ds.Dimension)
	require.NoError(t, err)
	got, err := New(loaded.Vocabulary, loaded.Vectors, loaded.Dimension)
	require.NoError(t, err)
	for _, w := range ds.Vocabulary {
		wv, _ := want.Vector(w)
		gv, _ := got.Vector(w)
		require.Len(t, gv, 3)
		for i := range wv {
			assert.InDelta(t, wv[i], gv[i], 1e-6)
		}
		assert.InDelta(t, 1.0, distance.Dot(gv, gv), 1e-5)
	}
}

func TestLoadDatasetIntegrity(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	// Header declares 3 vectors, vocabulary has 2.
	payload, err := EncodeVectorPayload(3, 2, make([]float32, 6))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vectors.bin"), payload, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vocab.json"), []byte(`["a","b"]`), 0o644))

	_, err = LoadDataset(ctx, blobstore.NewLocalStore(dir), "vocab.json", "vectors.bin")
	var ie *ErrIntegrity
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, 2, ie.VocabularyWords)
	assert.Equal(t, 3, ie.DeclaredVectors)
}

func TestLoadDatasetTruncated(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	payload, err := EncodeVectorPayload(2, 2, make([]float32, 4))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vectors.bin"), payload[:len(payload)-4], 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vocab.json"), []byte(`["a","b"]`), 0o644))

	_, err = LoadDataset(ctx, blobstore.NewLocalStore(dir), "vocab.json", "vectors.bin")
	assert.ErrorContains(t, err, "truncated")
}

func TestSnapshotRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.snap")

	idx := testIndex(t)
	require.NoError(t, idx.SaveSnapshot(path))

	loaded, err := LoadSnapshot(path)
	require.NoError(t, err)
	assert.Equal(t, idx.Stats(), loaded.Stats())

	want, err := idx.Search("cat", 3)
	require.NoError(t, err)
	got, err := loaded.Search("cat", 3)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSaveSnapshotNotInitialized(t *testing.T) {
	var empty Index
	err := empty.SaveSnapshot(filepath.Join(t.TempDir(), "index.snap"))
	assert.ErrorIs(t, err, ErrNotInitialized)
}
