package puzzle

// Fixed frequency tiers for the first three difficulty levels, in raw corpus
// occurrence counts. Difficulty 1 admits only extremely common theme words;
// later levels reach into the long tail.
const (
	tier1     uint64 = 1_000_000
	tier2     uint64 = 100_000
	tier3     uint64 = 10_000
	tierFloor uint64 = 1_000
)

// FrequencyThreshold maps a difficulty level to the minimum corpus frequency
// a theme word must have at that level, for a puzzle of the given size. The
// mapping is monotonically non-increasing in difficulty: levels 1-3 use
// fixed tiers, and levels 4..size interpolate linearly from tier 3 down to
// the floor as difficulty approaches size.
func FrequencyThreshold(difficulty, size int) uint64 {
	switch {
	case difficulty <= 1:
		return tier1
	case difficulty == 2:
		return tier2
	case difficulty == 3:
		return tier3
	}
	if difficulty >= size || size <= 4 {
		return tierFloor
	}
	span := float64(size - 3)
	step := float64(difficulty-3) / span
	return tier3 - uint64(step*float64(tier3-tierFloor))
}
