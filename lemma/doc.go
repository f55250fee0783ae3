// Package lemma resolves words to a canonical form: lowercased, spelling
// corrected against a dictionary, and reduced to a morphological root.
//
// The resolver is a capability: consumers check Available and fall back to
// simpler lexical heuristics when no dictionary was loaded, rather than
// treating absence as an error.
package lemma
