package freq

import (
	"math/rand"
	"sort"
	"strings"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
)

// Oracle answers corpus frequency queries. A word absent from the corpus is
// "unknown", never "zero frequency" — callers must not reject unknown words.
//
// A nil Oracle reports itself unavailable; every consumer degrades rather
// than failing.
type Oracle struct {
	words  []string // sorted lowercase corpus words; position is the word's id
	counts []uint64 // parallel to words
	index  map[string]int
	max    uint64

	mu       sync.Mutex
	eligible map[uint64]*roaring.Bitmap // threshold -> ids of words with count >= threshold
}

// New builds an oracle from raw occurrence counts. Keys are lowercased;
// duplicate keys keep the larger count.
func New(counts map[string]uint64) *Oracle {
	merged := make(map[string]uint64, len(counts))
	for w, c := range counts {
		key := strings.ToLower(w)
		if prev, ok := merged[key]; !ok || c > prev {
			merged[key] = c
		}
	}

	words := make([]string, 0, len(merged))
	for w := range merged {
		words = append(words, w)
	}
	sort.Strings(words)

	o := &Oracle{
		words:    words,
		counts:   make([]uint64, len(words)),
		index:    make(map[string]int, len(words)),
		eligible: make(map[uint64]*roaring.Bitmap),
	}
	for i, w := range words {
		c := merged[w]
		o.counts[i] = c
		o.index[w] = i
		if c > o.max {
			o.max = c
		}
	}
	return o
}

// Available reports whether the oracle is loaded and usable.
func (o *Oracle) Available() bool {
	return o != nil && len(o.words) > 0
}

// Has reports whether the word is present in the corpus (case-insensitive).
func (o *Oracle) Has(word string) bool {
	if !o.Available() {
		return false
	}
	_, ok := o.index[strings.ToLower(word)]
	return ok
}

// Score returns the raw occurrence count for a word. Larger means more
// common. Words absent from the corpus report zero with ok=false; treat
// them as unknown, not as rare.
func (o *Oracle) Score(word string) (uint64, bool) {
	if !o.Available() {
		return 0, false
	}
	i, ok := o.index[strings.ToLower(word)]
	if !ok {
		return 0, false
	}
	return o.counts[i], true
}

// Eligible returns the set of corpus word ids whose count meets minCount.
// The bitmap is memoized per threshold and must be treated as read-only.
func (o *Oracle) Eligible(minCount uint64) *roaring.Bitmap {
	if !o.Available() {
		return roaring.New()
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if bm, ok := o.eligible[minCount]; ok {
		return bm
	}
	bm := roaring.New()
	for i, c := range o.counts {
		if c >= minCount {
			bm.Add(uint32(i))
		}
	}
	o.eligible[minCount] = bm
	return bm
}

// RandomEligible draws a uniformly random word whose count meets minCount.
// Returns false when no word qualifies.
func (o *Oracle) RandomEligible(rng *rand.Rand, minCount uint64) (string, bool) {
	bm := o.Eligible(minCount)
	n := bm.GetCardinality()
	if n == 0 {
		return "", false
	}
	id, err := bm.Select(uint32(rng.Int63n(int64(n))))
	if err != nil {
		return "", false
	}
	return o.words[id], true
}

// Words returns the sorted corpus vocabulary. The slice aliases oracle
// storage and must not be modified.
func (o *Oracle) Words() []string {
	if o == nil {
		return nil
	}
	return o.words
}

// Stats describes a loaded corpus.
type Stats struct {
	Words    int
	MaxCount uint64
}

// Stats returns statistics about the corpus.
func (o *Oracle) Stats() Stats {
	if o == nil {
		return Stats{}
	}
	return Stats{Words: len(o.words), MaxCount: o.max}
}
