package explanation

import (
	"strings"
	"testing"

	"github.com/jonathan/hiring-funnel/internal/aggregation"
	"github.com/jonathan/hiring-funnel/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildInput(level types.RoleLevel, ats types.ATSResult, rec types.RecruiterResult, iv types.InterviewResult) Input {
	agg := aggregation.Aggregate(&ats, &rec, &iv, level, aggregation.FloorAdvisory)
	return Input{RoleLevel: level, ATS: &ats, Recruiter: &rec, Interview: &iv, Aggregate: &agg}
}

func TestStageSummary_Bands(t *testing.T) {
	assert.Contains(t, stageSummary(types.StageATS, 85, ""), "should clear most ATS filters")
	assert.Contains(t, stageSummary(types.StageATS, 70, ""), "should clear most ATS filters")
	assert.Contains(t, stageSummary(types.StageATS, 50, ""), "may clear automated screening")
	assert.Contains(t, stageSummary(types.StageATS, 49.9, ""), "high risk of being filtered out")
	assert.Contains(t, stageSummary(types.StageRecruiter, 30, ""), "(score 30/100)")
	assert.True(t, strings.HasSuffix(stageSummary(types.StageInterview, 90, "Context."), " Context."))
}

func TestGenerate_RoleContext(t *testing.T) {
	ats := types.ATSResult{Score: 100, AdvancementProbability: 0.85}
	rec := types.RecruiterResult{Score: 90, AdvancementProbability: 0.75}
	iv := types.InterviewResult{Score: 90, AdvancementProbability: 0.7}

	senior := Generate(buildInput(types.RoleSenior, ats, rec, iv))
	assert.Empty(t, senior.RoleContext)
	assert.NotContains(t, senior.ATS.Summary, "Calibrated for")

	entry := Generate(buildInput(types.RoleEntry, ats, rec, iv))
	assert.Contains(t, entry.RoleContext, "Calibrated for the entry level")
	assert.Contains(t, entry.Recruiter.Summary, entry.RoleContext)

	mid := Generate(buildInput(types.RoleMid, ats, rec, iv))
	assert.Contains(t, mid.RoleContext, "moderately reduced")
}

func TestGenerate_ATSRecommendations(t *testing.T) {
	ats := types.ATSResult{
		Score:                  30,
		AdvancementProbability: 0.15,
		RejectionReasons: []types.Finding{
			{Type: "missing_email", Severity: types.SeverityHigh},
			{Type: "missing_phone", Severity: types.SeverityHigh},
			{Type: "low_keyword_match", Severity: types.SeverityMedium},
		},
		Keywords: types.KeywordAnalysis{
			JobKeywords:     []string{"python", "react", "aws"},
			Matched:         []types.KeywordMatch{{Keyword: "python", Location: types.LocationExperience, Weight: 0.6}},
			Missing:         []string{"react", "aws"},
			MatchPercentage: 33.33,
		},
	}
	rec := types.RecruiterResult{Score: 90, AdvancementProbability: 0.75}
	iv := types.InterviewResult{Score: 90, AdvancementProbability: 0.7}

	got := Generate(buildInput(types.RoleUnset, ats, rec, iv))

	require.Len(t, got.Recommendations, 3)
	email := got.Recommendations[0]
	assert.Equal(t, types.PriorityCritical, email.Priority)
	assert.Equal(t, "contact_info", email.Category)
	require.NotNil(t, email.ExpectedScoreDelta)
	assert.Equal(t, 25.0, *email.ExpectedScoreDelta)
	// 30 -> 55 moves the ATS band from 0.15 to 0.40
	assert.Equal(t, 0.25, *email.ExpectedProbabilityDelta)

	assert.Equal(t, types.PriorityHigh, got.Recommendations[1].Priority)
	assert.Equal(t, "contact_info", got.Recommendations[1].Category)
	kw := got.Recommendations[2]
	assert.Equal(t, "keywords", kw.Category)
	assert.Contains(t, kw.Action, "react, aws")
	assert.Equal(t, 20.0, *kw.ExpectedScoreDelta)

	assert.Contains(t, got.ATS.KeyFactors, "Keyword match: 33% (1 of 3 job keywords)")
	assert.Contains(t, got.ATS.KeyFactors, "No email address found")
	assert.Contains(t, got.ATS.KeyFactors, "Missing keywords: react, aws")
}

func TestGenerate_EarlyCareerAnnotationsAndScaledDeltas(t *testing.T) {
	ats := types.ATSResult{Score: 100, AdvancementProbability: 0.85}
	rec := types.RecruiterResult{
		Score:                  82,
		AdvancementProbability: 0.75,
		WordCount:              3,
		RedFlags: []types.Finding{
			{Type: "generic_resume", Severity: types.SeverityLow, Description: "Résumé is only 3 words"},
			{Type: "missing_experience", Severity: types.SeverityMedium, Description: "No work experience"},
		},
		CareerProgression: types.CareerProgression{Score: 0.3, Trajectory: types.TrajectoryInsufficientData},
		JobStability:      types.JobStability{Score: 1, Assessment: "insufficient_data"},
	}
	iv := types.InterviewResult{
		Score:                  85,
		AdvancementProbability: 0.7,
		Claims:                 []types.ResumeClaim{{Text: "Helped with events", Defensibility: 0.3}},
		ConsistencyRisks:       []types.ConsistencyRisk{{Claim: "Helped with events", Severity: types.SeverityHigh, Description: "vague"}},
		AverageDefensibility:   0.3,
	}

	got := Generate(buildInput(types.RoleEntry, ats, rec, iv))

	annotated := 0
	for _, f := range got.Recruiter.KeyFactors {
		if strings.HasSuffix(f, "(penalty reduced for entry-level role)") {
			annotated++
		}
	}
	assert.Equal(t, 3, annotated)

	var claim *types.Recommendation
	for i := range got.Recommendations {
		if got.Recommendations[i].Category == "claim_depth" {
			claim = &got.Recommendations[i]
		}
	}
	require.NotNil(t, claim)
	// 10 points scaled by the 0.5 vague-claim multiplier
	assert.Equal(t, 5.0, *claim.ExpectedScoreDelta)

	for _, r := range got.Recommendations {
		if r.Category == "experience" {
			assert.Contains(t, r.Action, "projects, internships")
			assert.Equal(t, types.PriorityMedium, r.Priority)
		}
	}
}

func TestGenerate_TopThreeRisks(t *testing.T) {
	risks := []types.ConsistencyRisk{
		{Claim: "m1", Severity: types.SeverityMedium},
		{Claim: "h1", Severity: types.SeverityHigh},
		{Claim: "m2", Severity: types.SeverityMedium},
		{Claim: "h2", Severity: types.SeverityHigh},
		{Claim: "m3", Severity: types.SeverityMedium},
	}
	ats := types.ATSResult{Score: 100, AdvancementProbability: 0.85}
	rec := types.RecruiterResult{Score: 100, AdvancementProbability: 0.75}
	iv := types.InterviewResult{Score: 40, AdvancementProbability: 0.35, ConsistencyRisks: risks}

	got := Generate(buildInput(types.RoleMid, ats, rec, iv))

	require.Len(t, got.Recommendations, 3)
	assert.Contains(t, got.Recommendations[0].Action, `"h1"`)
	assert.Contains(t, got.Recommendations[1].Action, `"h2"`)
	assert.Contains(t, got.Recommendations[2].Action, `"m1"`)
	assert.Equal(t, types.PriorityMedium, got.Recommendations[2].Priority)
}

func TestGenerate_KPIRecommendation(t *testing.T) {
	ats := types.ATSResult{Score: 100, AdvancementProbability: 0.85}
	rec := types.RecruiterResult{Score: 100, AdvancementProbability: 0.75}
	iv := types.InterviewResult{Score: 92, AdvancementProbability: 0.7, KPIPenaltyApplied: true}

	got := Generate(buildInput(types.RoleStaff, ats, rec, iv))

	require.Len(t, got.Recommendations, 1)
	assert.Equal(t, "kpi_metrics", got.Recommendations[0].Category)
	assert.Equal(t, 8.0, *got.Recommendations[0].ExpectedScoreDelta)
	assert.Equal(t, 0.0, *got.Recommendations[0].ExpectedProbabilityDelta)
	assert.Contains(t, got.Interview.KeyFactors, "No revenue or KPI metrics for a senior-level role")
}

func TestSortRecommendations_Stable(t *testing.T) {
	in := []types.Recommendation{
		{Priority: types.PriorityLow, Action: "l1"},
		{Priority: types.PriorityMedium, Action: "m1"},
		{Priority: types.PriorityCritical, Action: "c1"},
		{Priority: types.PriorityHigh, Action: "h1"},
		{Priority: types.PriorityLow, Action: "l2"},
		{Priority: types.PriorityCritical, Action: "c2"},
		{Priority: types.PriorityMedium, Action: "m2"},
		{Priority: types.PriorityHigh, Action: "h2"},
	}

	got := SortRecommendations(in)

	actions := make([]string, len(got))
	for i, r := range got {
		actions[i] = r.Action
	}
	assert.Equal(t, []string{"c1", "c2", "h1", "h2", "m1", "m2", "l1", "l2"}, actions)
	// input untouched
	assert.Equal(t, "l1", in[0].Action)
}

func TestOverallSummary(t *testing.T) {
	strong := &types.AggregatedScore{
		OverallProbability: 0.63,
		ConfidenceInterval: types.ConfidenceInterval{Lower: 0.567, Upper: 0.693},
		Funnel:             types.Funnel{ATSPass: 0.9, RecruiterPass: 0.9, InterviewPass: 0.9, Offer: 0.86},
	}
	assert.Contains(t, overallSummary(strong), "Strong overall outlook: estimated 63% chance")

	low := &types.AggregatedScore{
		OverallProbability: 0.003,
		Funnel:             types.Funnel{ATSPass: 0.85, RecruiterPass: 0.2, InterviewPass: 0.2, Offer: 0.1},
	}
	assert.Contains(t, overallSummary(low), "Low overall outlook")
	assert.Contains(t, overallSummary(low), "Biggest drop-off: recruiter stage")

	floored := &types.AggregatedScore{OverallProbability: 0.25, ProbabilityFloor: 0.25, FloorApplied: true}
	assert.Contains(t, overallSummary(floored), "raised to the 25% floor")
}

func TestGenerate_Deterministic(t *testing.T) {
	ats := types.ATSResult{Score: 45, AdvancementProbability: 0.4, RejectionReasons: []types.Finding{{Type: "missing_phone", Severity: types.SeverityHigh}}}
	rec := types.RecruiterResult{Score: 60, AdvancementProbability: 0.6}
	iv := types.InterviewResult{Score: 55, AdvancementProbability: 0.55}
	in := buildInput(types.RoleMid, ats, rec, iv)

	assert.Equal(t, Generate(in), Generate(in))
}
