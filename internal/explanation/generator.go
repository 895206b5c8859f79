// Package explanation turns scored stage results into summaries, key factors and
// priority-ordered recommendations.
package explanation

import (
	"fmt"

	"github.com/jonathan/hiring-funnel/internal/calibration"
	"github.com/jonathan/hiring-funnel/internal/types"
)

// Input is everything the generator reads. It never modifies any of it.
type Input struct {
	RoleLevel types.RoleLevel
	ATS       *types.ATSResult
	Recruiter *types.RecruiterResult
	Interview *types.InterviewResult
	Aggregate *types.AggregatedScore
}

// Generate builds the deterministic explanation for an analysis.
func Generate(in Input) types.Explanation {
	factors := calibration.Factors(in.RoleLevel)
	roleContext := RoleContext(in.RoleLevel, factors)

	exp := types.Explanation{
		OverallSummary: overallSummary(in.Aggregate),
		RoleContext:    roleContext,
		ATS: types.StageExplanation{
			Stage:       types.StageATS,
			Score:       in.ATS.Score,
			Probability: in.ATS.AdvancementProbability,
			Summary:     stageSummary(types.StageATS, in.ATS.Score, roleContext),
			KeyFactors:  atsKeyFactors(in.ATS),
		},
		Recruiter: types.StageExplanation{
			Stage:       types.StageRecruiter,
			Score:       in.Recruiter.Score,
			Probability: in.Recruiter.AdvancementProbability,
			Summary:     stageSummary(types.StageRecruiter, in.Recruiter.Score, roleContext),
			KeyFactors:  recruiterKeyFactors(in.Recruiter, in.RoleLevel, factors),
		},
		Interview: types.StageExplanation{
			Stage:       types.StageInterview,
			Score:       in.Interview.Score,
			Probability: in.Interview.AdvancementProbability,
			Summary:     stageSummary(types.StageInterview, in.Interview.Score, roleContext),
			KeyFactors:  interviewKeyFactors(in.Interview, in.RoleLevel, factors),
		},
	}
	exp.Recommendations = SortRecommendations(buildRecommendations(in, factors))
	return exp
}

// RoleContext describes the calibration in effect, or "" for the default band.
func RoleContext(level types.RoleLevel, factors types.CalibrationFactors) string {
	if calibration.IsDefault(factors) {
		return ""
	}
	switch factors.Band {
	case calibration.BandEarlyCareer:
		return fmt.Sprintf("Calibrated for the %s level: missing KPIs and experience are penalized far less, and projects, internships and leadership count for more.", level.Label())
	default:
		return fmt.Sprintf("Calibrated for the %s level: penalties for missing KPIs and experience are moderately reduced.", level.Label())
	}
}

// reducedNote is appended to key factors whose penalty was softened by calibration.
func reducedNote(level types.RoleLevel) string {
	if calibration.IsEarlyCareer(level) {
		return " (penalty reduced for entry-level role)"
	}
	return " (penalty reduced for mid-level role)"
}

func overallSummary(agg *types.AggregatedScore) string {
	p := agg.OverallProbability
	var outlook string
	switch {
	case p >= 0.5:
		outlook = "Strong overall outlook"
	case p >= 0.25:
		outlook = "Moderate overall outlook"
	case p >= 0.1:
		outlook = "Challenging overall outlook"
	default:
		outlook = "Low overall outlook"
	}

	summary := fmt.Sprintf("%s: estimated %.0f%% chance of receiving an offer (range %.0f%% to %.0f%%). Biggest drop-off: %s stage.",
		outlook, p*100, agg.ConfidenceInterval.Lower*100, agg.ConfidenceInterval.Upper*100, bottleneck(agg.Funnel))
	if agg.FloorApplied {
		summary += fmt.Sprintf(" The estimate was raised to the %.0f%% floor for this role level.", agg.ProbabilityFloor*100)
	}
	return summary
}

// bottleneck returns the stage with the largest probability drop along the funnel.
func bottleneck(f types.Funnel) types.Stage {
	stage, drop := types.StageATS, 1-f.ATSPass
	if d := f.ATSPass - f.RecruiterPass; d > drop {
		stage, drop = types.StageRecruiter, d
	}
	if d := f.RecruiterPass - f.InterviewPass; d > drop {
		stage, drop = types.StageInterview, d
	}
	if d := f.InterviewPass - f.InterviewPass*f.Offer; d > drop {
		stage = types.StageOffer
	}
	return stage
}
