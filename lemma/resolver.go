package lemma

import (
	"strings"

	"github.com/tchap/go-patricia/v2/patricia"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz"

// Resolver maps words to their canonical form. The dictionary backs both
// spelling correction (edit distance 1) and validation of stemmed roots.
type Resolver struct {
	dict *patricia.Trie
	size int
}

// NewResolver builds a resolver from a dictionary of known words.
// Words are lowercased; duplicates are ignored.
func NewResolver(dictionary []string) *Resolver {
	r := &Resolver{dict: patricia.NewTrie()}
	for _, w := range dictionary {
		key := strings.ToLower(strings.TrimSpace(w))
		if key == "" {
			continue
		}
		if r.dict.Insert(patricia.Prefix(key), struct{}{}) {
			r.size++
		}
	}
	return r
}

// Available reports whether the resolver has a usable dictionary.
// A nil resolver is unavailable.
func (r *Resolver) Available() bool {
	return r != nil && r.size > 0
}

// Known reports whether the word appears in the dictionary.
func (r *Resolver) Known(word string) bool {
	if !r.Available() {
		return false
	}
	return r.dict.Match(patricia.Prefix(strings.ToLower(word)))
}

// CanonicalForm returns the spelling-corrected, morphologically reduced root
// of a word. It is idempotent: CanonicalForm(CanonicalForm(w)) equals
// CanonicalForm(w).
func (r *Resolver) CanonicalForm(word string) string {
	w := strings.ToLower(strings.TrimSpace(word))
	if w == "" {
		return ""
	}
	if r.Available() && !r.dict.Match(patricia.Prefix(w)) {
		if corrected, ok := r.correct(w); ok {
			w = corrected
		}
	}
	// Stem to a fixpoint so repeated resolution is stable.
	for i := 0; i < 3; i++ {
		next := r.stem(w)
		if next == w {
			break
		}
		w = next
	}
	return w
}

// correct returns the first dictionary word within edit distance 1 of w,
// generated in a fixed order for determinism.
func (r *Resolver) correct(w string) (string, bool) {
	// Deletions.
	for i := 0; i < len(w); i++ {
		cand := w[:i] + w[i+1:]
		if len(cand) > 0 && r.dict.Match(patricia.Prefix(cand)) {
			return cand, true
		}
	}
	// Transpositions.
	for i := 0; i+1 < len(w); i++ {
		if w[i] == w[i+1] {
			continue
		}
		cand := w[:i] + string(w[i+1]) + string(w[i]) + w[i+2:]
		if r.dict.Match(patricia.Prefix(cand)) {
			return cand, true
		}
	}
	// Substitutions.
	for i := 0; i < len(w); i++ {
		for _, c := range alphabet {
			if byte(c) == w[i] {
				continue
			}
			cand := w[:i] + string(c) + w[i+1:]
			if r.dict.Match(patricia.Prefix(cand)) {
				return cand, true
			}
		}
	}
	// Insertions.
	for i := 0; i <= len(w); i++ {
		for _, c := range alphabet {
			cand := w[:i] + string(c) + w[i:]
			if r.dict.Match(patricia.Prefix(cand)) {
				return cand, true
			}
		}
	}
	return "", false
}

// stem applies one round of suffix reduction. Roots confirmed by the
// dictionary are preferred; heuristic results are kept only when long enough
// to plausibly stand alone.
func (r *Resolver) stem(w string) string {
	switch {
	case strings.HasSuffix(w, "ies") && len(w) > 4:
		return w[:len(w)-3] + "y"
	case strings.HasSuffix(w, "sses"):
		return w[:len(w)-2]
	case strings.HasSuffix(w, "ches"), strings.HasSuffix(w, "shes"),
		strings.HasSuffix(w, "xes"), strings.HasSuffix(w, "zes"):
		return w[:len(w)-2]
	case strings.HasSuffix(w, "ss"), strings.HasSuffix(w, "us"), strings.HasSuffix(w, "is"):
		return w
	case strings.HasSuffix(w, "s") && len(w) > 3:
		return w[:len(w)-1]
	case strings.HasSuffix(w, "ing") && len(w) > 5:
		return r.reduceParticiple(w, 3)
	case strings.HasSuffix(w, "ed") && len(w) > 4:
		return r.reduceParticiple(w, 2)
	}
	return w
}

// reduceParticiple strips an -ing/-ed suffix, undoing consonant doubling
// (running -> run) and restoring a trailing e when the dictionary confirms
// it (making -> make).
func (r *Resolver) reduceParticiple(w string, suffixLen int) string {
	base := w[:len(w)-suffixLen]
	if len(base) < 3 {
		return w
	}
	n := len(base)
	if base[n-1] == base[n-2] && !isVowel(base[n-1]) {
		undoubled := base[:n-1]
		if !r.Available() || r.dict.Match(patricia.Prefix(undoubled)) {
			return undoubled
		}
		return base
	}
	if r.Available() {
		if r.dict.Match(patricia.Prefix(base)) {
			return base
		}
		if r.dict.Match(patricia.Prefix(base + "e")) {
			return base + "e"
		}
	}
	return base
}

func isVowel(b byte) bool {
	switch b {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}
