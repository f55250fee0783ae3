package retrieve

import (
	"strings"

	"github.com/charmbracelet/log"

	"github.com/gridword/themegen/embedding"
	"github.com/gridword/themegen/internal/logger"
)

const (
	// minBatch is the smallest expansion-search batch.
	minBatch = 20
	// ceilingFactor bounds the total neighbors examined per query at
	// ceilingFactor * k.
	ceilingFactor = 5
)

// Retriever produces filtered, ranked candidate lists for theme words.
type Retriever struct {
	index *embedding.Index
	freq  FrequencyOracle
	lemma CanonicalResolver
	log   *log.Logger
}

// Options configures a Retriever.
type Options struct {
	Logger *log.Logger
}

// New creates a Retriever over the given index and capabilities.
// freq and lemma may be unavailable; retrieval degrades per filter.
func New(index *embedding.Index, freq FrequencyOracle, lemma CanonicalResolver, optFns ...func(o *Options)) *Retriever {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logger.Default("retrieve")
	}
	return &Retriever{
		index: index,
		freq:  freq,
		lemma: lemma,
		log:   opts.Logger,
	}
}

// Retrieve returns up to k candidates for themeWord, in descending
// similarity order, that pass the frequency gate and do not collide with the
// theme word or any word in existing.
//
// The theme word itself is pre-checked against existing: a canonical-form
// collision (or, without a resolver, a case-insensitive exact match) yields
// an empty result immediately.
//
// Neighbors are requested from the index in growing batches of
// max(minBatch, 2k), examining at most ceilingFactor*k in total, so a
// polluted neighborhood costs proportionally more instead of always scanning
// a large fixed window.
func (r *Retriever) Retrieve(themeWord string, k int, existing []string, frequencyThreshold uint64) ([]embedding.Candidate, error) {
	if k <= 0 {
		return nil, embedding.ErrInvalidK
	}

	if HasMatchingCanonicalForm(r.lemma, themeWord, existing) {
		r.log.Debug("theme collides with existing words", "theme", themeWord)
		return nil, nil
	}

	resolverUp := r.lemma != nil && r.lemma.Available()
	themeCanonical := ""
	var existingCanonical []string
	if resolverUp {
		themeCanonical = r.lemma.CanonicalForm(themeWord)
		existingCanonical = make([]string, len(existing))
		for i, w := range existing {
			existingCanonical[i] = r.lemma.CanonicalForm(w)
		}
	}

	batch := 2 * k
	if batch < minBatch {
		batch = minBatch
	}
	ceiling := ceilingFactor * k

	accepted := make([]embedding.Candidate, 0, k)
	examined := 0

	for fetch := batch; examined < ceiling && len(accepted) < k; fetch += batch {
		if fetch > ceiling {
			fetch = ceiling
		}
		neighbors, err := r.index.Search(themeWord, fetch)
		if err != nil {
			return nil, err
		}
		if len(neighbors) <= examined {
			break // neighborhood exhausted
		}

		for _, cand := range neighbors[examined:] {
			examined++
			if r.admit(cand.Word, themeWord, themeCanonical, existing, existingCanonical, resolverUp, frequencyThreshold) {
				accepted = append(accepted, cand)
				if len(accepted) == k {
					break
				}
			}
			if examined >= ceiling {
				break
			}
		}
		if len(neighbors) < fetch {
			break // index returned everything it has
		}
	}

	return accepted, nil
}

// admit applies the per-candidate filter chain, short-circuiting on the
// first failure: frequency gate, theme-collision gate, existing-set gate.
func (r *Retriever) admit(word, theme, themeCanonical string, existing, existingCanonical []string, resolverUp bool, frequencyThreshold uint64) bool {
	// Frequency gate: only a known-and-below-threshold score rejects. A word
	// absent from the corpus is unknown, not rare.
	if r.freq != nil && r.freq.Available() {
		if score, known := r.freq.Score(word); known && score < frequencyThreshold {
			return false
		}
	}

	// Theme-collision gate.
	if resolverUp {
		if r.lemma.CanonicalForm(word) == themeCanonical {
			return false
		}
	} else if containsEitherWay(word, theme) {
		return false
	}

	// Existing-set collision gate.
	if resolverUp {
		wc := r.lemma.CanonicalForm(word)
		for _, ec := range existingCanonical {
			if wc == ec {
				return false
			}
		}
		for _, e := range existing {
			if strings.EqualFold(e, word) {
				return false
			}
		}
	} else {
		for _, e := range existing {
			if containsEitherWay(word, e) {
				return false
			}
		}
	}

	return true
}
