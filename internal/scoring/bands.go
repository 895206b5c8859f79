// Package scoring implements the three independent stage scorers of the hiring funnel:
// automated screening (ATS), recruiter review and interview readiness.
//
// Every scorer is a pure function of its inputs. Scores are clamped to [0,100] and
// mapped to advancement probabilities through discrete band tables.
package scoring

import (
	"math"

	"github.com/jonathan/hiring-funnel/internal/types"
)

// probabilityBand maps every score at or above Min to Probability.
type probabilityBand struct {
	Min         float64
	Probability float64
}

// Band tables are ordered from the highest threshold down.
var (
	atsBands = []probabilityBand{
		{80, 0.85},
		{60, 0.65},
		{40, 0.40},
		{0, 0.15},
	}
	recruiterBands = []probabilityBand{
		{75, 0.75},
		{60, 0.60},
		{45, 0.40},
		{0, 0.20},
	}
	interviewBands = []probabilityBand{
		{70, 0.70},
		{55, 0.55},
		{40, 0.35},
		{0, 0.20},
	}
)

// probabilityFor returns the probability of the first band whose threshold the score meets.
func probabilityFor(score float64, bands []probabilityBand) float64 {
	for _, b := range bands {
		if score >= b.Min {
			return b.Probability
		}
	}
	return bands[len(bands)-1].Probability
}

// ClampScore bounds a raw score to [0,100].
func ClampScore(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

// ClampProbability bounds a raw probability to [0,1].
func ClampProbability(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// round2 rounds to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ATSProbability maps an ATS score to its advancement probability.
func ATSProbability(score float64) float64 { return probabilityFor(score, atsBands) }

// RecruiterProbability maps a recruiter score to its advancement probability.
func RecruiterProbability(score float64) float64 { return probabilityFor(score, recruiterBands) }

// InterviewProbability maps an interview score to its advancement probability.
func InterviewProbability(score float64) float64 { return probabilityFor(score, interviewBands) }

// RedFlagDeduction is the recruiter score lost to one red flag of the given severity.
func RedFlagDeduction(severity types.Severity) float64 { return redFlagDeductions[severity] }
