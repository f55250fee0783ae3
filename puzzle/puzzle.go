package puzzle

import (
	"context"
	"errors"
	"math/rand"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/gridword/themegen/internal/logger"
)

const (
	// DefaultPuzzleAttempts bounds full-puzzle retries.
	DefaultPuzzleAttempts = 100

	// DefaultSize is the grid dimension: categories per puzzle and words per
	// category.
	DefaultSize = 4
)

// Options configures an Assembler.
type Options struct {
	// Size is the grid dimension.
	Size int
	// MaxAttempts bounds whole-puzzle retries.
	MaxAttempts int
	// QualityThreshold is the minimum QualityScore for acceptance.
	QualityThreshold float64

	RNG    *rand.Rand
	Logger *log.Logger
}

// Assembler drives category construction across difficulty levels 1..Size
// and accepts or rejects the resulting puzzle by quality score.
type Assembler struct {
	categories *CategoryAssembler
	opts       Options
}

// New creates a puzzle Assembler on top of a CategoryAssembler.
func New(categories *CategoryAssembler, optFns ...func(o *Options)) *Assembler {
	opts := Options{
		Size:             DefaultSize,
		MaxAttempts:      DefaultPuzzleAttempts,
		QualityThreshold: DefaultQualityThreshold,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.RNG == nil {
		opts.RNG = rand.New(rand.NewSource(rand.Int63()))
	}
	if opts.Logger == nil {
		opts.Logger = logger.Default("puzzle")
	}
	return &Assembler{categories: categories, opts: opts}
}

// Assemble builds one complete puzzle. A failed category abandons the whole
// attempt and restarts from the first category; partially built categories
// are never reused. On budget exhaustion it returns a *ErrRetryExhausted.
func (a *Assembler) Assemble(ctx context.Context) (*Puzzle, error) {
	size := a.opts.Size

	p, attempts, err := attemptUntil(ctx, a.opts.MaxAttempts, func(attempt int) (*Puzzle, bool, error) {
		categories := make([]Category, 0, size)
		words := make([]string, 0, size*size)

		for i := 0; i < size; i++ {
			cat, err := a.categories.Assemble(ctx, words, i+1, size)
			if err != nil {
				var exhausted *ErrRetryExhausted
				if errors.As(err, &exhausted) {
					a.opts.Logger.Debug("category exhausted, restarting attempt",
						"attempt", attempt, "category", i+1)
					return nil, false, nil
				}
				return nil, false, err
			}
			categories = append(categories, cat)
			words = append(words, cat.Words...)
		}

		if !allDistinct(words) {
			a.opts.Logger.Warn("duplicate word slipped through filters, restarting", "attempt", attempt)
			return nil, false, nil
		}

		shuffled := make([]string, len(words))
		copy(shuffled, words)
		a.opts.RNG.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		quality := QualityScore(categories, shuffled)
		if quality < a.opts.QualityThreshold {
			a.opts.Logger.Debug("puzzle below quality threshold",
				"attempt", attempt, "quality", quality)
			return nil, false, nil
		}

		return &Puzzle{
			ID:           uuid.NewString(),
			Difficulty:   size,
			Categories:   categories,
			Words:        shuffled,
			QualityScore: quality,
		}, true, nil
	})
	if errors.Is(err, errExhausted) {
		return nil, &ErrRetryExhausted{Stage: "puzzle", Attempts: attempts}
	}
	return p, err
}

// allDistinct re-checks global word uniqueness, case-insensitively. The
// retrieval gates should make this unconditionally true.
func allDistinct(words []string) bool {
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		key := strings.ToLower(w)
		if _, ok := seen[key]; ok {
			return false
		}
		seen[key] = struct{}{}
	}
	return true
}
