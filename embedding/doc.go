// Package embedding implements the vocabulary embedding index: a fixed
// dimension float32 vector per vocabulary word, unit-normalized at load time,
// queried by brute-force inner product for k-nearest-neighbor lookups.
//
// The index is immutable after construction and safe for concurrent reads.
package embedding
