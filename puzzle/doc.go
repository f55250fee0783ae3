// Package puzzle assembles word-association puzzles from retrieved
// candidates. A puzzle is a grid of categories, each holding words tied to a
// hidden theme, with difficulty rising category by category.
//
// Assembly is a bounded-retry search, not an optimization: categories and
// puzzles are rebuilt from scratch until they satisfy the hard constraints
// (global word uniqueness, minimum similarity, non-decreasing difficulty) or
// the attempt budget runs out.
package puzzle
