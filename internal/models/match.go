package models

// LocationNotFound is the sentinel offset returned when no search strategy
// could locate the needle inside the haystack.
const LocationNotFound = -1

// MatchStrategy identifies which search tier produced a match.
type MatchStrategy string

const (
	// StrategyExact indicates a literal substring match.
	StrategyExact MatchStrategy = "exact"
	// StrategyCaseInsensitive indicates a lower-cased substring match.
	StrategyCaseInsensitive MatchStrategy = "case_insensitive"
	// StrategyBitap indicates a bounded edit-distance (bitap) match.
	StrategyBitap MatchStrategy = "bitap"
	// StrategyWindowed indicates a sliding-window fuzzy match.
	StrategyWindowed MatchStrategy = "windowed"
	// StrategyNone indicates that no strategy succeeded.
	StrategyNone MatchStrategy = "none"
)

// MatchResult holds the outcome of a snippet location search.
// Location is a 0-based character offset into the searched text, or
// LocationNotFound. Score is in [0,1]; exact, case-insensitive and
// accepted bitap matches carry 1.0, windowed matches carry their window
// score.
type MatchResult struct {
	Location int           `json:"location"`
	Score    float64       `json:"score"`
	Strategy MatchStrategy `json:"strategy"`
}

// Found reports whether the search located the needle.
func (mr MatchResult) Found() bool {
	return mr.Location != LocationNotFound
}

// NoMatch returns the canonical not-found result.
func NoMatch() MatchResult {
	return MatchResult{
		Location: LocationNotFound,
		Score:    0,
		Strategy: StrategyNone,
	}
}
