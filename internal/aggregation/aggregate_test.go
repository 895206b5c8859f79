package aggregation

import (
	"testing"

	"github.com/jonathan/hiring-funnel/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stages(atsScore, atsProb, recScore, recProb, intScore, intProb float64) (*types.ATSResult, *types.RecruiterResult, *types.InterviewResult) {
	return &types.ATSResult{Score: atsScore, AdvancementProbability: atsProb},
		&types.RecruiterResult{Score: recScore, AdvancementProbability: recProb},
		&types.InterviewResult{Score: intScore, AdvancementProbability: intProb}
}

func TestAggregate_StrongCandidate(t *testing.T) {
	a, r, i := stages(90, 0.9, 90, 0.9, 90, 0.9)

	got := Aggregate(a, r, i, types.RoleUnset, FloorAdvisory)

	assert.Equal(t, 0.9, got.Funnel.ATSPass)
	assert.Equal(t, 0.9, got.Funnel.RecruiterPass)
	assert.Equal(t, 0.9, got.Funnel.InterviewPass)
	assert.InDelta(t, 0.86, got.Funnel.Offer, 1e-9)
	assert.InDelta(t, 0.62694, got.OverallProbability, 1e-5)
	assert.InDelta(t, 0.6267, got.OverallProbability, 1e-3)
	assert.InDelta(t, 90.0, got.OverallScore, 1e-9)
	assert.Empty(t, got.RiskFactors)
}

func TestAggregate_ConfidenceInterval(t *testing.T) {
	a, r, i := stages(90, 0.85, 80, 0.75, 80, 0.7)

	got := Aggregate(a, r, i, types.RoleSenior, FloorAdvisory)

	p := got.OverallProbability
	assert.InDelta(t, p*0.9, got.ConfidenceInterval.Lower, 1e-12)
	assert.InDelta(t, p*1.1, got.ConfidenceInterval.Upper, 1e-12)
	assert.Equal(t, 0.95, got.ConfidenceInterval.ConfidenceLevel)
}

func TestAggregate_Contributions(t *testing.T) {
	a, r, i := stages(50, 0.4, 60, 0.6, 70, 0.7)

	got := Aggregate(a, r, i, types.RoleUnset, "")

	assert.InDelta(t, 15.0, got.Contributions.ATS, 1e-9)
	assert.InDelta(t, 18.0, got.Contributions.Recruiter, 1e-9)
	assert.InDelta(t, 28.0, got.Contributions.Interview, 1e-9)
	assert.InDelta(t, 61.0, got.OverallScore, 1e-9)
	assert.Equal(t, string(FloorAdvisory), got.FloorPolicy)
}

func TestOfferProbability(t *testing.T) {
	assert.InDelta(t, 0.9, OfferProbability(1.0), 1e-12)
	assert.InDelta(t, 0.7+0.4*0.01, OfferProbability(0.51), 1e-12)
	assert.InDelta(t, 0.25, OfferProbability(0.5), 1e-12)
	assert.InDelta(t, 0.1, OfferProbability(0.2), 1e-12)
	assert.Equal(t, 0.0, OfferProbability(0))
}

func TestBuildFunnel_Monotonic(t *testing.T) {
	grid := []float64{0, 0.1, 0.15, 0.2, 0.35, 0.4, 0.5, 0.55, 0.6, 0.65, 0.7, 0.75, 0.85, 0.9, 1}
	for _, a := range grid {
		for _, r := range grid {
			for _, i := range grid {
				f := BuildFunnel(a, r, i)
				require.LessOrEqual(t, f.RecruiterPass, f.ATSPass)
				require.LessOrEqual(t, f.InterviewPass, f.RecruiterPass)
				require.GreaterOrEqual(t, f.Offer, 0.0)
				require.LessOrEqual(t, f.Offer, 1.0)
			}
		}
	}
}

func TestBuildFunnel_CapsLaterStages(t *testing.T) {
	f := BuildFunnel(0.4, 0.75, 0.7)
	assert.Equal(t, 0.4, f.RecruiterPass)
	assert.Equal(t, 0.4, f.InterviewPass)
	assert.InDelta(t, 0.2, f.Offer, 1e-12)
}

func TestAggregate_FloorAdvisory(t *testing.T) {
	// strong screen, weak later stages for an entry-level candidate
	a, r, i := stages(85, 0.85, 40, 0.20, 45, 0.35)

	got := Aggregate(a, r, i, types.RoleEntry, FloorAdvisory)

	assert.Equal(t, 0.25, got.ProbabilityFloor)
	assert.False(t, got.FloorApplied)
	assert.Less(t, got.OverallProbability, 0.25)
	assert.Equal(t, got.UnflooredOverall, got.OverallProbability)
}

func TestAggregate_FloorSoftGuard(t *testing.T) {
	a, r, i := stages(85, 0.85, 40, 0.20, 45, 0.35)

	got := Aggregate(a, r, i, types.RoleEntry, FloorSoftGuard)

	assert.True(t, got.FloorApplied)
	assert.Equal(t, 0.25, got.OverallProbability)
	assert.Less(t, got.UnflooredOverall, 0.25)
	assert.InDelta(t, 0.225, got.ConfidenceInterval.Lower, 1e-12)
	assert.InDelta(t, 0.275, got.ConfidenceInterval.Upper, 1e-12)
	assert.Equal(t, string(FloorSoftGuard), got.FloorPolicy)
	// the funnel itself is never rewritten
	assert.Equal(t, 0.2, got.Funnel.RecruiterPass)
}

func TestAggregate_FloorSoftGuardNeedsATSPass(t *testing.T) {
	a, r, i := stages(70, 0.65, 40, 0.20, 45, 0.35)

	got := Aggregate(a, r, i, types.RoleEntry, FloorSoftGuard)

	assert.False(t, got.FloorApplied)
	assert.Less(t, got.OverallProbability, 0.25)
}

func TestAggregate_FloorSoftGuardAboveFloor(t *testing.T) {
	a, r, i := stages(90, 0.9, 90, 0.9, 90, 0.9)

	got := Aggregate(a, r, i, types.RoleSenior, FloorSoftGuard)

	assert.False(t, got.FloorApplied)
	assert.Equal(t, 0.10, got.ProbabilityFloor)
}

func TestParseFloorPolicy(t *testing.T) {
	p, err := ParseFloorPolicy("")
	require.NoError(t, err)
	assert.Equal(t, FloorAdvisory, p)

	p, err = ParseFloorPolicy("Soft_Guard")
	require.NoError(t, err)
	assert.Equal(t, FloorSoftGuard, p)

	_, err = ParseFloorPolicy("hard")
	assert.Error(t, err)
}

func TestCollectRiskFactors(t *testing.T) {
	a := &types.ATSResult{Score: 35}
	r := &types.RecruiterResult{RedFlags: []types.Finding{
		{Type: "generic_resume", Severity: types.SeverityMedium, Description: "short"},
		{Type: "missing_experience", Severity: types.SeverityHigh, Description: "none"},
		{Type: "limited_skills", Severity: types.SeverityLow, Description: "few"},
	}}
	i := &types.InterviewResult{ConsistencyRisks: []types.ConsistencyRisk{
		{Claim: "Helped out", Severity: types.SeverityHigh, Description: "vague"},
		{Claim: "Did stuff", Severity: types.SeverityMedium, Description: "thin"},
	}}

	got := CollectRiskFactors(a, r, i)

	require.Len(t, got, 6)
	impacts := make([]float64, len(got))
	for k, rf := range got {
		impacts[k] = rf.Impact
	}
	assert.Equal(t, []float64{-0.25, -0.20, -0.15, -0.10, -0.08, -0.03}, impacts)
	assert.Equal(t, "low_ats_compatibility", got[0].Factor)
	assert.Equal(t, types.SeverityHigh, got[0].Severity)
	assert.Equal(t, types.StageInterview, got[1].Stage)
	assert.Equal(t, "missing_experience", got[2].Factor)
}

func TestCollectRiskFactors_ATSMediumAndStableTies(t *testing.T) {
	a := &types.ATSResult{Score: 45}
	r := &types.RecruiterResult{RedFlags: []types.Finding{
		{Type: "missing_experience", Severity: types.SeverityHigh},
		{Type: "generic_resume", Severity: types.SeverityHigh},
	}}

	got := CollectRiskFactors(a, r, &types.InterviewResult{})

	require.Len(t, got, 3)
	assert.Equal(t, "low_ats_compatibility", got[0].Factor)
	assert.Equal(t, types.SeverityMedium, got[0].Severity)
	assert.Equal(t, "missing_experience", got[1].Factor)
	assert.Equal(t, "generic_resume", got[2].Factor)
}

func TestCollectRiskFactors_NoATSRiskAtCutoff(t *testing.T) {
	got := CollectRiskFactors(&types.ATSResult{Score: 50}, &types.RecruiterResult{}, &types.InterviewResult{})
	assert.Empty(t, got)
}

func TestGroupRiskFactors(t *testing.T) {
	factors := []types.RiskFactor{
		{Factor: "consistency_risk", Stage: types.StageInterview, Impact: -0.20, Severity: types.SeverityHigh, Description: "a"},
		{Factor: "missing_experience", Stage: types.StageRecruiter, Impact: -0.15, Severity: types.SeverityHigh, Description: "b"},
		{Factor: "consistency_risk", Stage: types.StageInterview, Impact: -0.10, Severity: types.SeverityMedium, Description: "c"},
		{Factor: "consistency_risk", Stage: types.StageInterview, Impact: -0.10, Severity: types.SeverityMedium, Description: "c"},
	}

	got := GroupRiskFactors(factors)

	require.Len(t, got, 2)
	assert.Equal(t, "consistency_risk", got[0].Factor)
	assert.Equal(t, 3, got[0].Count)
	assert.InDelta(t, -0.40, got[0].TotalImpact, 1e-9)
	assert.Equal(t, types.SeverityHigh, got[0].Severity)
	assert.Equal(t, []string{"a", "c"}, got[0].Descriptions)
	assert.Equal(t, "missing_experience", got[1].Factor)
	assert.Equal(t, 1, got[1].Count)
}

func TestGroupRiskFactors_Empty(t *testing.T) {
	assert.Empty(t, GroupRiskFactors(nil))
}
