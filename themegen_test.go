package themegen

import (
	"context"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridword/themegen/config"
	"github.com/gridword/themegen/embedding"
	"github.com/gridword/themegen/freq"
	"github.com/gridword/themegen/puzzle"
)

// writeDatasets lays out a small but fully generatable dataset directory:
// ten words with distinct 4-dimensional vectors, all very common.
func writeDatasets(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	vocab := []string{"sea", "wave", "tide", "reef", "dog", "cat", "bird", "fish", "tree", "rock"}
	rng := rand.New(rand.NewSource(7))
	vectors := make([]float32, 0, len(vocab)*4)
	for range vocab {
		for d := 0; d < 4; d++ {
			vectors = append(vectors, rng.Float32())
		}
	}
	require.NoError(t, embedding.SaveDataset(dir, "vocabulary.json", "vectors.bin", &embedding.Dataset{
		Vocabulary: vocab,
		Vectors:    vectors,
		Dimension:  4,
	}))

	counts := make(map[string]uint64, len(vocab))
	for _, w := range vocab {
		counts[w] = 2_000_000
	}
	require.NoError(t, freq.SaveCorpus(filepath.Join(dir, "frequencies.msgpack"), counts))
	return dir
}

func testConfig(dir string) *config.Config {
	cfg := config.Default()
	cfg.Data.Dir = dir
	cfg.Generation.Size = 2
	cfg.Generation.MinSimilarity = 0
	cfg.Generation.QualityThreshold = 0
	return cfg
}

func TestOpenAndGenerate(t *testing.T) {
	ctx := context.Background()
	dir := writeDatasets(t)

	gen, err := Open(ctx, testConfig(dir), WithSeed(42))
	require.NoError(t, err)

	stats := gen.Stats()
	assert.Equal(t, 10, stats.Index.Words)
	assert.Equal(t, 10, stats.Corpus.Words)
	assert.Zero(t, stats.Ledger.Total)

	p, err := gen.Puzzle(ctx)
	require.NoError(t, err)
	require.Len(t, p.Categories, 2)
	assert.Len(t, p.Words, 4)

	seen := make(map[string]struct{})
	for _, w := range p.Words {
		seen[w] = struct{}{}
	}
	assert.Len(t, seen, 4, "puzzle words must be pairwise distinct")

	assert.Equal(t, 1, p.Categories[0].Difficulty)
	assert.Equal(t, 2, p.Categories[1].Difficulty)

	// Both theme words are now remembered across the session.
	for _, c := range p.Categories {
		assert.True(t, gen.Ledger().IsUsed(c.ThemeWord))
	}
}

func TestOpenMissingCorpusDegrades(t *testing.T) {
	ctx := context.Background()
	dir := writeDatasets(t)

	cfg := testConfig(dir)
	cfg.Data.FrequencyFile = "absent.msgpack"

	gen, err := Open(ctx, cfg, WithSeed(1))
	require.NoError(t, err, "a missing frequency corpus must not fail the open")

	// Without a corpus there is no theme source, so assembly exhausts its
	// budget instead of crashing.
	_, err = gen.Puzzle(ctx)
	var exhausted *puzzle.ErrRetryExhausted
	assert.ErrorAs(t, err, &exhausted)
}

func TestGenerateSkipsExhaustedSlots(t *testing.T) {
	ctx := context.Background()
	dir := writeDatasets(t)

	cfg := testConfig(dir)
	cfg.Data.FrequencyFile = "absent.msgpack"

	gen, err := Open(ctx, cfg, WithSeed(1))
	require.NoError(t, err)

	puzzles, err := gen.Generate(ctx, 2)
	require.NoError(t, err, "exhausted slots are skipped, never fatal")
	assert.Empty(t, puzzles)
}
