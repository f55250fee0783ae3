package embedding

import (
	"strings"

	"github.com/gridword/themegen/distance"
	"github.com/gridword/themegen/internal/queue"
)

// Candidate is one scored neighbor returned by a search.
// Candidates are transient query results and are never persisted.
type Candidate struct {
	Word       string
	Similarity float32
}

// Index owns the word-to-vector bijection and serves k-nearest-neighbor
// queries by inner product over unit-normalized vectors.
//
// The zero value is an uninitialized index; queries against it fail with
// ErrNotInitialized. Build one with New or LoadSnapshot.
type Index struct {
	dimension int
	words     []string          // vocabulary index -> word, order fixed at build
	lower     []string          // lowercased counterpart of words
	byWord    map[string]uint32 // lowercased word -> vocabulary index
	vectors   []float32         // row-major, len(words) * dimension, unit-normalized
	zeroRows  int               // rows left unnormalized because they had zero norm
	ready     bool
}

// New builds an index from a vocabulary list and a flat row-major vector
// payload of len(vocabulary) x dimension float32 values.
//
// Each vector is L2-normalized in the index's own storage; zero vectors are
// left as-is rather than producing NaN. The input slice is not retained.
func New(vocabulary []string, vectors []float32, dimension int) (*Index, error) {
	if dimension <= 0 {
		return nil, &ErrInvalidDimension{Dimension: dimension}
	}
	if len(vectors) != len(vocabulary)*dimension {
		return nil, &ErrIntegrity{
			VocabularyWords: len(vocabulary),
			DeclaredVectors: len(vectors) / dimension,
		}
	}

	idx := &Index{
		dimension: dimension,
		words:     make([]string, len(vocabulary)),
		lower:     make([]string, len(vocabulary)),
		byWord:    make(map[string]uint32, len(vocabulary)),
		vectors:   make([]float32, len(vectors)),
	}
	copy(idx.words, vocabulary)
	copy(idx.vectors, vectors)

	for i, w := range idx.words {
		key := strings.ToLower(w)
		idx.lower[i] = key
		if _, exists := idx.byWord[key]; !exists {
			idx.byWord[key] = uint32(i)
		}
	}
	for i := 0; i < len(idx.words); i++ {
		row := idx.vectors[i*dimension : (i+1)*dimension]
		if !distance.NormalizeL2InPlace(row) {
			idx.zeroRows++
		}
	}

	idx.ready = true
	return idx, nil
}

// Len returns the number of vocabulary entries.
func (idx *Index) Len() int { return len(idx.words) }

// Dimension returns the vector dimensionality.
func (idx *Index) Dimension() int { return idx.dimension }

// Contains reports whether the word (case-insensitively) is in the vocabulary.
func (idx *Index) Contains(word string) bool {
	if !idx.ready {
		return false
	}
	_, ok := idx.byWord[strings.ToLower(word)]
	return ok
}

// Vector returns the stored unit-normalized vector for a word.
// The returned slice aliases index storage and must not be modified.
func (idx *Index) Vector(word string) ([]float32, bool) {
	if !idx.ready {
		return nil, false
	}
	i, ok := idx.byWord[strings.ToLower(word)]
	if !ok {
		return nil, false
	}
	return idx.row(i), true
}

// Search resolves word case-insensitively and returns up to k neighbors
// ordered by similarity descending, ties broken by vocabulary order.
//
// An unknown word yields an empty result, not an error: unknown words are a
// routine condition for theme candidates. Similarities are clamped to [0, 1].
// The query word itself (any casing) is excluded.
func (idx *Index) Search(word string, k int) ([]Candidate, error) {
	if !idx.ready {
		return nil, ErrNotInitialized
	}
	if k <= 0 {
		return nil, ErrInvalidK
	}

	key := strings.ToLower(word)
	qi, ok := idx.byWord[key]
	if !ok {
		return nil, nil
	}
	q := idx.row(qi)

	top := queue.NewTopK(k)
	for i := range idx.words {
		if idx.lower[i] == key {
			continue
		}
		sim := distance.ClampSimilarity(distance.Dot(q, idx.row(uint32(i))))
		top.Offer(queue.Item{Index: uint32(i), Similarity: sim})
	}

	items := top.Drain()
	out := make([]Candidate, len(items))
	for i, it := range items {
		out[i] = Candidate{Word: idx.words[it.Index], Similarity: it.Similarity}
	}
	return out, nil
}

// Similarity returns the clamped cosine similarity of two vocabulary words.
// Unknown words yield zero.
func (idx *Index) Similarity(a, b string) float32 {
	va, ok := idx.Vector(a)
	if !ok {
		return 0
	}
	vb, ok := idx.Vector(b)
	if !ok {
		return 0
	}
	return distance.ClampSimilarity(distance.Dot(va, vb))
}

// Stats describes a built index.
type Stats struct {
	Words     int
	Dimension int
	ZeroRows  int
}

// Stats returns statistics about the index.
func (idx *Index) Stats() Stats {
	return Stats{
		Words:     len(idx.words),
		Dimension: idx.dimension,
		ZeroRows:  idx.zeroRows,
	}
}

func (idx *Index) row(i uint32) []float32 {
	off := int(i) * idx.dimension
	return idx.vectors[off : off+idx.dimension]
}
