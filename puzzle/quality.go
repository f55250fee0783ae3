package puzzle

import "strings"

// Quality score weights and acceptance default. The score is a weighted
// composite of mean category similarity, difficulty-progression correctness,
// and lexical diversity of the full word set.
const (
	weightSimilarity  = 0.6
	weightProgression = 0.3
	weightDiversity   = 0.1

	// DefaultQualityThreshold is the minimum score an assembled puzzle must
	// reach to be accepted.
	DefaultQualityThreshold = 0.5
)

// QualityScore computes the acceptance score in [0,1] for a set of
// categories and the puzzle's full word list.
func QualityScore(categories []Category, words []string) float64 {
	if len(categories) == 0 || len(words) == 0 {
		return 0
	}

	var sum float64
	for _, c := range categories {
		sum += c.Similarity
	}
	meanSimilarity := sum / float64(len(categories))

	// Always true by construction, re-verified defensively.
	progression := 1.0
	for i := 1; i < len(categories); i++ {
		if categories[i].Difficulty < categories[i-1].Difficulty {
			progression = 0.5
			break
		}
	}

	return weightSimilarity*meanSimilarity +
		weightProgression*progression +
		weightDiversity*wordDiversity(words)
}

// wordDiversity averages two normalized signals: how varied the word lengths
// are, and how much of the alphabet the words cover.
func wordDiversity(words []string) float64 {
	lengths := make(map[int]struct{}, len(words))
	letters := make(map[rune]struct{}, 26)
	for _, w := range words {
		lengths[len(w)] = struct{}{}
		for _, r := range strings.ToLower(w) {
			if r >= 'a' && r <= 'z' {
				letters[r] = struct{}{}
			}
		}
	}

	lengthSpread := float64(len(lengths)) / float64(len(words))
	letterCoverage := float64(len(letters)) / 26
	if letterCoverage > 1 {
		letterCoverage = 1
	}
	return (lengthSpread + letterCoverage) / 2
}
