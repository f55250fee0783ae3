// Package distance provides vector distance and normalization primitives
// used by the embedding index.
package distance
