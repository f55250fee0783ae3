// Package retrieve turns a raw theme word into a de-duplicated,
// quality-filtered candidate list suitable for one puzzle category.
//
// Retrieval composes the embedding index with two optional capabilities, a
// frequency oracle and a canonical-form resolver. Capability absence is a
// steady-state condition: each filter degrades to a lexical heuristic instead
// of failing.
package retrieve
