package themegen

import (
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/gridword/themegen/blobstore"
)

// Options configures a Generator beyond what the config file covers.
type Options struct {
	// Logger receives structured progress and warnings. Defaults to a
	// stderr logger at the global level.
	Logger *log.Logger
	// RNG drives theme selection and word shuffling. Supply a seeded
	// source for reproducible generation.
	RNG *rand.Rand
	// Store overrides dataset loading; when nil the store is derived from
	// the config (local directory or S3).
	Store blobstore.BlobStore
}

// WithLogger sets the session logger.
func WithLogger(l *log.Logger) func(o *Options) {
	return func(o *Options) { o.Logger = l }
}

// WithRNG sets the random source.
func WithRNG(rng *rand.Rand) func(o *Options) {
	return func(o *Options) { o.RNG = rng }
}

// WithSeed sets a deterministic random source.
func WithSeed(seed int64) func(o *Options) {
	return func(o *Options) { o.RNG = rand.New(rand.NewSource(seed)) }
}

// WithStore sets the blob store datasets are read from.
func WithStore(store blobstore.BlobStore) func(o *Options) {
	return func(o *Options) { o.Store = store }
}
