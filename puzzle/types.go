package puzzle

// CategoryMetrics records how much work one category cost to assemble.
type CategoryMetrics struct {
	TotalNeighbors     int    `json:"totalNeighbors"`
	FrequencyThreshold uint64 `json:"frequencyThreshold"`
	DiscardedClosest   int    `json:"discardedClosest"`
	Attempts           int    `json:"attempts"`
}

// Category is one group of semantically related words tied to a hidden theme
// word. It is immutable once accepted into a Puzzle.
type Category struct {
	ID         string          `json:"id"`
	ThemeWord  string          `json:"themeWord"`
	Words      []string        `json:"words"`
	Difficulty int             `json:"difficulty"`
	Similarity float64         `json:"similarity"`
	Metrics    CategoryMetrics `json:"metrics"`
}

// Puzzle is a complete grid: size categories of size words each. Words holds
// the flattened, shuffled presentation order; category membership is not
// derivable from it.
type Puzzle struct {
	ID           string     `json:"id"`
	Difficulty   int        `json:"difficulty"`
	Categories   []Category `json:"categories"`
	Words        []string   `json:"words"`
	QualityScore float64    `json:"qualityScore"`
}
