package puzzle

import (
	"context"
	"errors"
	"math/rand"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/gridword/themegen/embedding"
	"github.com/gridword/themegen/internal/logger"
	"github.com/gridword/themegen/ledger"
)

const (
	// DefaultCategoryAttempts bounds the theme-word search per category.
	DefaultCategoryAttempts = 20

	// DefaultMinSimilarity is the floor on a category's weakest
	// word-to-theme similarity.
	DefaultMinSimilarity = 0.3

	// candidateBuffer is how many candidates beyond the category size are
	// requested, so the intra-category containment filter has slack.
	candidateBuffer = 5
)

var errNoEligibleTheme = errors.New("no theme word meets the frequency threshold")

// CandidateSource supplies the filtered, ranked candidate list for a theme
// word. *retrieve.Retriever implements it.
type CandidateSource interface {
	Retrieve(themeWord string, k int, existing []string, frequencyThreshold uint64) ([]embedding.Candidate, error)
}

// ThemeSource draws random theme words at a frequency tier. *freq.Oracle
// implements it.
type ThemeSource interface {
	RandomEligible(rng *rand.Rand, minCount uint64) (string, bool)
}

// ThemeLedger is the durable cross-run memory of theme-word decisions.
// *ledger.Ledger implements it.
type ThemeLedger interface {
	IsUsed(word string) bool
	MarkUsed(word string, rejected bool, opts ...ledger.MarkOption) error
}

// CategoryOptions configures a CategoryAssembler.
type CategoryOptions struct {
	// MaxAttempts bounds theme-word retries per category.
	MaxAttempts int
	// MinSimilarity is the acceptance floor for a category's minimum
	// word-to-theme similarity.
	MinSimilarity float64
	// DiscardClosest over-fetches by the difficulty level and drops that
	// many nearest neighbors before selection, pushing categories toward
	// less obvious associations.
	DiscardClosest bool
	// Tiers overrides the difficulty to frequency-threshold mapping for the
	// levels it names; unnamed levels fall back to FrequencyThreshold.
	Tiers map[int]uint64

	RNG    *rand.Rand
	Logger *log.Logger
}

// CategoryAssembler builds one valid category per call, drawing theme words
// at the difficulty's frequency tier and retrying within a fixed budget.
type CategoryAssembler struct {
	source CandidateSource
	themes ThemeSource
	ledger ThemeLedger
	opts   CategoryOptions
}

// NewCategoryAssembler creates a CategoryAssembler. themeLedger may be nil,
// in which case cross-run dedup is disabled.
func NewCategoryAssembler(source CandidateSource, themes ThemeSource, themeLedger ThemeLedger, optFns ...func(o *CategoryOptions)) *CategoryAssembler {
	opts := CategoryOptions{
		MaxAttempts:   DefaultCategoryAttempts,
		MinSimilarity: DefaultMinSimilarity,
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
	return &CategoryAssembler{
		source: source,
		themes: themes,
		ledger: themeLedger,
		opts:   opts,
	}
}

// threshold resolves the frequency floor for a difficulty level, honoring
// per-level overrides.
func (a *CategoryAssembler) threshold(difficulty, size int) uint64 {
	if t, ok := a.opts.Tiers[difficulty]; ok {
		return t
	}
	return FrequencyThreshold(difficulty, size)
}

// Assemble produces one category of size words at the given difficulty,
// avoiding every word in existing. On budget exhaustion it returns a
// *ErrRetryExhausted; any other error is fatal to the caller.
func (a *CategoryAssembler) Assemble(ctx context.Context, existing []string, difficulty, size int) (Category, error) {
	threshold := a.threshold(difficulty, size)

	cat, attempts, err := attemptUntil(ctx, a.opts.MaxAttempts, func(attempt int) (Category, bool, error) {
		theme, ok := a.themes.RandomEligible(a.opts.RNG, threshold)
		if !ok {
			return Category{}, false, errNoEligibleTheme
		}
		if a.ledger != nil && a.ledger.IsUsed(theme) {
			return Category{}, false, nil
		}
		for _, w := range existing {
			if strings.EqualFold(w, theme) {
				return Category{}, false, nil
			}
		}

		fetch := size + candidateBuffer
		discarded := 0
		if a.opts.DiscardClosest {
			discarded = difficulty
			fetch += difficulty
		}

		candidates, err := a.source.Retrieve(theme, fetch, existing, threshold)
		if err != nil {
			return Category{}, false, err
		}
		total := len(candidates)
		if discarded > 0 {
			if len(candidates) <= discarded {
				return Category{}, false, nil
			}
			candidates = candidates[discarded:]
		}

		selected := selectNonContaining(candidates, size)
		if len(selected) < size {
			a.opts.Logger.Debug("theme neighborhood too thin",
				"theme", theme, "selected", len(selected), "need", size)
			return Category{}, false, nil
		}

		minSim := selected[0].Similarity
		for _, c := range selected[1:] {
			if c.Similarity < minSim {
				minSim = c.Similarity
			}
		}
		if float64(minSim) < a.opts.MinSimilarity {
			if a.ledger != nil {
				if err := a.ledger.MarkUsed(theme, true, ledger.WithSimilarity(float64(minSim))); err != nil {
					return Category{}, false, err
				}
			}
			return Category{}, false, nil
		}

		if a.ledger != nil {
			if err := a.ledger.MarkUsed(theme, false, ledger.WithSimilarity(float64(minSim))); err != nil {
				return Category{}, false, err
			}
		}

		words := make([]string, len(selected))
		for i, c := range selected {
			words[i] = c.Word
		}
		return Category{
			ID:         uuid.NewString(),
			ThemeWord:  theme,
			Words:      words,
			Difficulty: difficulty,
			Similarity: float64(minSim),
			Metrics: CategoryMetrics{
				TotalNeighbors:     total,
				FrequencyThreshold: threshold,
				DiscardedClosest:   discarded,
				Attempts:           attempt,
			},
		}, true, nil
	})
	if errors.Is(err, errExhausted) || errors.Is(err, errNoEligibleTheme) {
		return Category{}, &ErrRetryExhausted{Stage: "category", Attempts: attempts}
	}
	return cat, err
}

// selectNonContaining greedily keeps up to limit candidates with no pairwise
// lexical containment, preserving similarity order. This is a second,
// intra-category filter on top of retrieval's inter-category gates.
func selectNonContaining(candidates []embedding.Candidate, limit int) []embedding.Candidate {
	selected := make([]embedding.Candidate, 0, limit)
	for _, c := range candidates {
		clash := false
		for _, s := range selected {
			if lexicalContainment(c.Word, s.Word) {
				clash = true
				break
			}
		}
		if clash {
			continue
		}
		selected = append(selected, c)
		if len(selected) == limit {
			break
		}
	}
	return selected
}

// lexicalContainment reports whether one word contains the other,
// case-insensitively.
func lexicalContainment(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	return strings.Contains(la, lb) || strings.Contains(lb, la)
}
