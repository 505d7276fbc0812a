package models

import "strconv"

// ScoreTier groups album scores into the three badge levels shown on a card
type ScoreTier string

const (
	TierHigh ScoreTier = "high" // score >= 9
	TierMid  ScoreTier = "mid"  // 7 <= score < 9
	TierLow  ScoreTier = "low"  // score < 7
)

// Album represents a single rated record in the catalog
type Album struct {
	Title  string  `json:"title" yaml:"title"`
	Artist string  `json:"artist" yaml:"artist"`
	Year   int     `json:"year" yaml:"year"`
	Genre  string  `json:"genre" yaml:"genre"`
	Score  float64 `json:"score" yaml:"score"` // 0 to 10
	Note   string  `json:"note,omitempty" yaml:"note,omitempty"`
}

// TierFor maps a score onto exactly one tier
func TierFor(score float64) ScoreTier {
	switch {
	case score >= 9:
		return TierHigh
	case score >= 7:
		return TierMid
	default:
		return TierLow
	}
}

// Tier returns the score tier of the album
func (a Album) Tier() ScoreTier {
	return TierFor(a.Score)
}

// HasNote reports whether the album carries a listener note
func (a Album) HasNote() bool {
	return a.Note != ""
}

// ScoreText formats the score without trailing zeros (9.5, 6, 7.25)
func (a Album) ScoreText() string {
	return strconv.FormatFloat(a.Score, 'f', -1, 64)
}

// Class returns the CSS class used for the tier badge
func (t ScoreTier) Class() string {
	return "score-" + string(t)
}
