package retrieve

import "strings"

// FrequencyOracle is the corpus frequency capability.
// Implementations report availability explicitly; consumers branch once per
// filter step instead of catching failures.
type FrequencyOracle interface {
	Available() bool
	Has(word string) bool
	Score(word string) (uint64, bool)
}

// CanonicalResolver is the canonical-form capability.
// CanonicalForm is expected to be idempotent.
type CanonicalResolver interface {
	Available() bool
	CanonicalForm(word string) string
}

// HasMatchingCanonicalForm reports whether word collides with any member of
// set. A case-insensitive exact match is always a collision; with an
// available resolver, matching canonical forms (inflectional variants) also
// collide. The relation is symmetric for a fixed resolver state.
func HasMatchingCanonicalForm(res CanonicalResolver, word string, set []string) bool {
	lower := strings.ToLower(word)
	canonical := ""
	if res != nil && res.Available() {
		canonical = res.CanonicalForm(word)
	}
	for _, other := range set {
		if strings.ToLower(other) == lower {
			return true
		}
		if canonical != "" && res.CanonicalForm(other) == canonical {
			return true
		}
	}
	return false
}

// containsEitherWay reports whether one word lexically contains the other,
// case-insensitively. This is the degraded stand-in for canonical-form
// equality when no resolver is available.
func containsEitherWay(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	return strings.Contains(la, lb) || strings.Contains(lb, la)
}
