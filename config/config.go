// Package config manages TOML configuration for puzzle generation.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds the entire config structure.
type Config struct {
	Data       DataConfig       `toml:"data"`
	Generation GenerationConfig `toml:"generation"`
}

// DataConfig points at the on-disk datasets.
type DataConfig struct {
	// Dir is the base directory for local datasets. Ignored when a remote
	// blob store is configured.
	Dir string `toml:"dir"`
	// VocabularyFile is the JSON vocabulary array.
	VocabularyFile string `toml:"vocabulary_file"`
	// VectorsFile is the binary embedding payload.
	VectorsFile string `toml:"vectors_file"`
	// FrequencyFile is the msgpack frequency corpus. Optional.
	FrequencyFile string `toml:"frequency_file"`
	// LedgerFile is the used-theme ledger JSON.
	LedgerFile string `toml:"ledger_file"`
	// S3Bucket, when set, loads datasets from S3 instead of Dir.
	S3Bucket string `toml:"s3_bucket"`
	// S3Prefix is the key prefix inside S3Bucket.
	S3Prefix string `toml:"s3_prefix"`
}

// GenerationConfig holds assembly parameters.
type GenerationConfig struct {
	Size             int               `toml:"size"`
	CategoryAttempts int               `toml:"category_attempts"`
	PuzzleAttempts   int               `toml:"puzzle_attempts"`
	MinSimilarity    float64           `toml:"min_similarity"`
	QualityThreshold float64           `toml:"quality_threshold"`
	DiscardClosest   bool              `toml:"discard_closest"`
	FrequencyTiers   map[string]uint64 `toml:"frequency_tiers"`
}

// Default returns a Config with built-in defaults.
func Default() *Config {
	return &Config{
		Data: DataConfig{
			Dir:            "data",
			VocabularyFile: "vocabulary.json",
			VectorsFile:    "vectors.bin",
			FrequencyFile:  "frequencies.msgpack",
			LedgerFile:     "used_themes.json",
		},
		Generation: GenerationConfig{
			Size:             4,
			CategoryAttempts: 20,
			PuzzleAttempts:   100,
			MinSimilarity:    0.3,
			QualityThreshold: 0.5,
		},
	}
}

// Load reads a TOML file over the defaults. A missing path returns the
// defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks parameter ranges.
func (c *Config) Validate() error {
	g := c.Generation
	if g.Size < 2 {
		return fmt.Errorf("generation.size must be at least 2, got %d", g.Size)
	}
	if g.CategoryAttempts < 1 {
		return fmt.Errorf("generation.category_attempts must be positive, got %d", g.CategoryAttempts)
	}
	if g.PuzzleAttempts < 1 {
		return fmt.Errorf("generation.puzzle_attempts must be positive, got %d", g.PuzzleAttempts)
	}
	if g.MinSimilarity < 0 || g.MinSimilarity > 1 {
		return fmt.Errorf("generation.min_similarity must be in [0,1], got %g", g.MinSimilarity)
	}
	if g.QualityThreshold < 0 || g.QualityThreshold > 1 {
		return fmt.Errorf("generation.quality_threshold must be in [0,1], got %g", g.QualityThreshold)
	}
	return nil
}

// Tiers converts the TOML frequency_tiers table (string difficulty keys) to
// the map the assembler consumes. Malformed keys are skipped.
func (c *Config) Tiers() map[int]uint64 {
	if len(c.Generation.FrequencyTiers) == 0 {
		return nil
	}
	out := make(map[int]uint64, len(c.Generation.FrequencyTiers))
	for k, v := range c.Generation.FrequencyTiers {
		var d int
		if _, err := fmt.Sscanf(k, "%d", &d); err == nil && d >= 1 {
			out[d] = v
		}
	}
	return out
}
