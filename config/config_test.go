package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("MissingFileUsesDefaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("PartialFileOverridesDefaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		body := `
[generation]
size = 6
discard_closest = true

[generation.frequency_tiers]
"5" = 5000

[data]
dir = "/srv/puzzles"
`
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 6, cfg.Generation.Size)
		assert.True(t, cfg.Generation.DiscardClosest)
		assert.Equal(t, "/srv/puzzles", cfg.Data.Dir)
		// Untouched keys keep their defaults.
		assert.Equal(t, 100, cfg.Generation.PuzzleAttempts)
		assert.Equal(t, "vocabulary.json", cfg.Data.VocabularyFile)
		assert.Equal(t, map[int]uint64{5: 5000}, cfg.Tiers())
	})

	t.Run("InvalidValuesRejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(path, []byte("[generation]\nsize = 1\n"), 0o644))
		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestTiers(t *testing.T) {
	cfg := Default()
	assert.Nil(t, cfg.Tiers())

	cfg.Generation.FrequencyTiers = map[string]uint64{"1": 500000, "bogus": 1, "0": 2}
	assert.Equal(t, map[int]uint64{1: 500000}, cfg.Tiers())
}
