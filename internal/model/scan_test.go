package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerdictFor(t *testing.T) {
	tests := []struct {
		want  Verdict
		score float64
	}{
		{score: 0, want: VerdictHuman},
		{score: 0.40, want: VerdictHuman},
		{score: 0.41, want: VerdictMixed},
		{score: 0.70, want: VerdictMixed},
		{score: 0.71, want: VerdictAI},
		{score: 1, want: VerdictAI},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, VerdictFor(tt.score), "score %v", tt.score)
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		want  int
	}{
		{name: "zero", score: 0, want: 0},
		{name: "one", score: 1, want: 100},
		{name: "rounds half up", score: 0.705, want: 71},
		{name: "rounds down", score: 0.424, want: 42},
		{name: "below range", score: -0.3, want: 0},
		{name: "above range", score: 1.7, want: 100},
		{name: "nan", score: math.NaN(), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentage(tt.score)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, 0)
			assert.LessOrEqual(t, got, 100)
		})
	}
}

func TestClampScore(t *testing.T) {
	assert.Zero(t, ClampScore(math.NaN()))
	assert.Zero(t, ClampScore(math.Inf(-1)))
	assert.InDelta(t, 1.0, ClampScore(math.Inf(1)), 0)
	assert.InDelta(t, 0.25, ClampScore(0.25), 0)
}

func TestScanRecord_Verdict(t *testing.T) {
	rec := ScanRecord{Score: 0.71}
	assert.Equal(t, VerdictAI, rec.Verdict())
	assert.Equal(t, 71, rec.Percentage())
	assert.Equal(t, 2, rec.Verdict().Level())
}
