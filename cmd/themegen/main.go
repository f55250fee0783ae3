/*
Package main implements the themegen puzzle generation CLI.

Themegen builds word-association puzzles from a word-embedding dataset: each
puzzle is a grid of categories whose words share a hidden theme word, with
difficulty rising category by category. Datasets are read from a local
directory or from S3, and previously used theme words are remembered across
runs in a JSON ledger.

# Usage

Generate one puzzle with the default config:

	themegen

Generate ten puzzles with a custom config and deterministic seed:

	themegen -config config.toml -n 10 -seed 42

Write the batch to a file instead of stdout:

	themegen -n 10 -o puzzles.json

# Configuration

Runtime configuration lives in a TOML file:

	[data]
	dir = "data"
	vocabulary_file = "vocabulary.json"
	vectors_file = "vectors.bin"
	frequency_file = "frequencies.msgpack"
	ledger_file = "used_themes.json"

	[generation]
	size = 4
	category_attempts = 20
	puzzle_attempts = 100
	min_similarity = 0.3
	quality_threshold = 0.5

A slot whose assembly budget runs out is logged and skipped; the exit status
is non-zero only when no puzzle at all could be produced.
*/
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/gridword/themegen"
	"github.com/gridword/themegen/config"
	"github.com/gridword/themegen/internal/logger"
)

const version = "0.1.0"

func main() {
	configPath := flag.String("config", "", "Path to TOML config file")
	count := flag.Int("n", 1, "Number of puzzles to generate")
	seed := flag.Int64("seed", 0, "Random seed (0 means non-deterministic)")
	output := flag.String("o", "", "Output file (default stdout)")
	debug := flag.Bool("d", false, "Enable debug logging")
	showVersion := flag.Bool("version", false, "Show version")
	flag.Parse()

	if *showVersion {
		fmt.Printf("themegen %s\n", version)
		return
	}

	if *debug {
		log.SetLevel(log.DebugLevel)
	}
	lg := logger.NewWithLevel("themegen", log.GetLevel())

	if err := run(context.Background(), lg, *configPath, *count, *seed, *output); err != nil {
		lg.Fatal(err)
	}
}

func run(ctx context.Context, lg *log.Logger, configPath string, count int, seed int64, output string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	opts := []func(o *themegen.Options){themegen.WithLogger(lg)}
	if seed != 0 {
		opts = append(opts, themegen.WithSeed(seed))
	}

	gen, err := themegen.Open(ctx, cfg, opts...)
	if err != nil {
		return err
	}

	puzzles, err := gen.Generate(ctx, count)
	if err != nil {
		return err
	}
	if len(puzzles) == 0 {
		return fmt.Errorf("could not produce any of the %d requested puzzles", count)
	}

	data, err := json.MarshalIndent(puzzles, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if output == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return err
	}
	lg.Info("wrote puzzles", "count", len(puzzles), "file", output)
	return nil
}
