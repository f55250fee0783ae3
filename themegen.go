package themegen

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/gridword/themegen/blobstore"
	"github.com/gridword/themegen/config"
	"github.com/gridword/themegen/embedding"
	"github.com/gridword/themegen/freq"
	"github.com/gridword/themegen/internal/logger"
	"github.com/gridword/themegen/ledger"
	"github.com/gridword/themegen/lemma"
	"github.com/gridword/themegen/puzzle"
	"github.com/gridword/themegen/retrieve"
)

// Generator wires the embedding index, frequency oracle, canonical-form
// resolver, used-theme ledger and assemblers into one generation session.
type Generator struct {
	cfg       *config.Config
	index     *embedding.Index
	oracle    *freq.Oracle
	resolver  *lemma.Resolver
	ledger    *ledger.Ledger
	assembler *puzzle.Assembler
	log       *log.Logger
}

// Open loads the datasets named by cfg and builds a ready Generator.
// The frequency corpus is optional: a missing corpus file degrades theme
// selection and filtering rather than failing the open.
func Open(ctx context.Context, cfg *config.Config, optFns ...func(o *Options)) (*Generator, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logger.Default("themegen")
	}
	rng := opts.RNG
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}

	store := opts.Store
	if store == nil {
		if cfg.Data.S3Bucket != "" {
			s3store, err := blobstore.NewS3StoreFromEnv(ctx, cfg.Data.S3Bucket, cfg.Data.S3Prefix)
			if err != nil {
				return nil, fmt.Errorf("open s3 store: %w", err)
			}
			store = s3store
		} else {
			store = blobstore.NewLocalStore(cfg.Data.Dir)
		}
	}

	ds, err := embedding.LoadDataset(ctx, store, cfg.Data.VocabularyFile, cfg.Data.VectorsFile)
	if err != nil {
		return nil, fmt.Errorf("load embedding dataset: %w", err)
	}
	index, err := embedding.New(ds.Vocabulary, ds.Vectors, ds.Dimension)
	if err != nil {
		return nil, fmt.Errorf("build embedding index: %w", err)
	}
	opts.Logger.Info("embedding index ready",
		"words", index.Len(), "dimension", index.Dimension())

	var oracle *freq.Oracle
	if cfg.Data.FrequencyFile != "" {
		oracle, err = freq.LoadCorpus(ctx, store, cfg.Data.FrequencyFile)
		if err != nil {
			if !errors.Is(err, blobstore.ErrNotFound) {
				return nil, fmt.Errorf("load frequency corpus: %w", err)
			}
			opts.Logger.Warn("frequency corpus missing, theme selection degraded",
				"file", cfg.Data.FrequencyFile)
		}
	}

	dictionary := ds.Vocabulary
	if oracle.Available() {
		dictionary = oracle.Words()
	}
	resolver := lemma.NewResolver(dictionary)

	ledgerPath := cfg.Data.LedgerFile
	if !filepath.IsAbs(ledgerPath) {
		ledgerPath = filepath.Join(cfg.Data.Dir, ledgerPath)
	}
	led, err := ledger.Open(ledgerPath)
	if err != nil {
		return nil, fmt.Errorf("open used-theme ledger: %w", err)
	}

	retriever := retrieve.New(index, oracle, resolver,
		func(o *retrieve.Options) { o.Logger = opts.Logger })

	categories := puzzle.NewCategoryAssembler(retriever, oracle, led,
		func(o *puzzle.CategoryOptions) {
			o.MaxAttempts = cfg.Generation.CategoryAttempts
			o.MinSimilarity = cfg.Generation.MinSimilarity
			o.DiscardClosest = cfg.Generation.DiscardClosest
			o.Tiers = cfg.Tiers()
			o.RNG = rng
			o.Logger = opts.Logger
		})
	assembler := puzzle.New(categories, func(o *puzzle.Options) {
		o.Size = cfg.Generation.Size
		o.MaxAttempts = cfg.Generation.PuzzleAttempts
		o.QualityThreshold = cfg.Generation.QualityThreshold
		o.RNG = rng
		o.Logger = opts.Logger
	})

	return &Generator{
		cfg:       cfg,
		index:     index,
		oracle:    oracle,
		resolver:  resolver,
		ledger:    led,
		assembler: assembler,
		log:       opts.Logger,
	}, nil
}

// Puzzle assembles one puzzle. On budget exhaustion the error is a
// *puzzle.ErrRetryExhausted; callers generating batches should skip the
// slot, not abort.
func (g *Generator) Puzzle(ctx context.Context) (*puzzle.Puzzle, error) {
	return g.assembler.Assemble(ctx)
}

// Generate assembles up to n puzzles, skipping exhausted slots. It returns
// the puzzles it managed to produce; the error is non-nil only for fatal
// conditions, never for exhausted slots.
func (g *Generator) Generate(ctx context.Context, n int) ([]*puzzle.Puzzle, error) {
	puzzles := make([]*puzzle.Puzzle, 0, n)
	for i := 0; i < n; i++ {
		p, err := g.assembler.Assemble(ctx)
		if err != nil {
			var exhausted *puzzle.ErrRetryExhausted
			if errors.As(err, &exhausted) {
				g.log.Warn("skipping puzzle slot",
					"slot", i+1, "attempts", exhausted.Attempts)
				continue
			}
			return puzzles, err
		}
		puzzles = append(puzzles, p)
		g.log.Info("puzzle assembled",
			"slot", i+1, "id", p.ID, "quality", p.QualityScore)
	}
	if len(puzzles) < n {
		g.log.Warn("produced fewer puzzles than requested",
			"requested", n, "produced", len(puzzles))
	}
	return puzzles, nil
}

// Index exposes the loaded embedding index for read-only queries.
func (g *Generator) Index() *embedding.Index { return g.index }

// Ledger exposes the used-theme ledger.
func (g *Generator) Ledger() *ledger.Ledger { return g.ledger }

// Stats summarizes the loaded datasets and ledger state.
type Stats struct {
	Index  embedding.Stats
	Corpus freq.Stats
	Ledger ledger.Stats
}

// Stats returns a snapshot of the generator's dataset and ledger state.
func (g *Generator) Stats() Stats {
	return Stats{
		Index:  g.index.Stats(),
		Corpus: g.oracle.Stats(),
		Ledger: g.ledger.Stats(),
	}
}
