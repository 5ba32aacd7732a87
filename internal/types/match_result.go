package types

// ImprovementCount is the number of improvement recommendations every match result carries.
const ImprovementCount = 3

// MatchResult holds the resume-to-job fit score and improvement recommendations.
type MatchResult struct {
	MatchPercentage int      `json:"match_percentage"`
	Improvements    []string `json:"improvements"`
}

// MatchBand classifies a match percentage for display.
type MatchBand string

const (
	// MatchBandHigh is 70% and above
	MatchBandHigh MatchBand = "high"
	// MatchBandMedium is 50% to 69%
	MatchBandMedium MatchBand = "medium"
	// MatchBandLow is below 50%
	MatchBandLow MatchBand = "low"
)

// BandFor returns the display band for a match percentage.
func BandFor(pct int) MatchBand {
	switch {
	case pct >= 70:
		return MatchBandHigh
	case pct >= 50:
		return MatchBandMedium
	default:
		return MatchBandLow
	}
}
