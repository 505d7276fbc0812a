package models

import "testing"

func TestTierFor(t *testing.T) {
	tests := []struct {
		score float64
		want  ScoreTier
	}{
		{10, TierHigh},
		{9, TierHigh},
		{8.99, TierMid},
		{7, TierMid},
		{6.99, TierLow},
		{0, TierLow},
	}

	for _, tt := range tests {
		if got := TierFor(tt.score); got != tt.want {
			t.Errorf("TierFor(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestScoreText(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{9.5, "9.5"},
		{6, "6"},
		{7.25, "7.25"},
		{10, "10"},
	}

	for _, tt := range tests {
		a := Album{Score: tt.score}
		if got := a.ScoreText(); got != tt.want {
			t.Errorf("ScoreText() for %v = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestTierClass(t *testing.T) {
	if got := (Album{Score: 9.1}).Tier().Class(); got != "score-high" {
		t.Errorf("expected score-high, got %s", got)
	}
	if got := TierLow.Class(); got != "score-low" {
		t.Errorf("expected score-low, got %s", got)
	}
}
