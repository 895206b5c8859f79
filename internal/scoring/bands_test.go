package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProbabilityFor_BandEdges(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		bands []probabilityBand
		want  float64
	}{
		{"ats top", 80, atsBands, 0.85},
		{"ats just below top", 79.99, atsBands, 0.65},
		{"ats 60", 60, atsBands, 0.65},
		{"ats 40", 40, atsBands, 0.40},
		{"ats floor", 0, atsBands, 0.15},
		{"recruiter 75", 75, recruiterBands, 0.75},
		{"recruiter 45", 45, recruiterBands, 0.40},
		{"recruiter 44", 44, recruiterBands, 0.20},
		{"interview 70", 70, interviewBands, 0.70},
		{"interview 55", 55, interviewBands, 0.55},
		{"interview 39", 39, interviewBands, 0.20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, probabilityFor(tt.score, tt.bands))
		})
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, ClampScore(-300))
	assert.Equal(t, 100.0, ClampScore(140))
	assert.Equal(t, 42.5, ClampScore(42.5))
	assert.Equal(t, 0.0, ClampProbability(-0.1))
	assert.Equal(t, 1.0, ClampProbability(1.3))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 33.33, round2(100.0/3.0))
	assert.Equal(t, 66.67, round2(200.0/3.0))
}
