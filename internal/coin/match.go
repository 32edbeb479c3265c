package coin

import "math"

// DefaultTolerance accepts detections within 10% of a reference radius.
const DefaultTolerance = 0.10

// Match is the candidate selected for a detected radius.
type Match struct {
	Candidate
	Difference float64 `json:"difference"`
}

// FindMatch returns the candidate closest to detected among those within
// tolerance, and false when none qualifies.
//
// A candidate with reference radius r qualifies when
//
//	|detected - r| <= r * tolerance
//
// Candidates are scanned in order and only a strictly smaller difference
// replaces the current best, so on exact ties the earliest candidate wins.
func FindMatch(detected float64, candidates []Candidate, tolerance float64) (Match, bool) {
	var best Match
	found := false
	bestDiff := math.MaxFloat64

	for _, c := range candidates {
		diff := math.Abs(detected - c.Radius)
		margin := c.Radius * tolerance
		if diff <= margin && diff < bestDiff {
			bestDiff = diff
			best = Match{Candidate: c, Difference: diff}
			found = true
		}
	}

	return best, found
}
