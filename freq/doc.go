// Package freq implements the corpus frequency oracle: raw occurrence counts
// per word, eligibility sets per frequency threshold, and random draws of
// eligible theme words.
//
// The corpus is immutable after load, so eligibility bitmaps memoized per
// threshold stay valid for the lifetime of the oracle.
package freq
