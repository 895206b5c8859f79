package rewriting

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"github.com/jonathan/hiring-funnel/internal/llm"
	"github.com/jonathan/hiring-funnel/internal/types"
)

// fakeClient returns canned JSON per stage, keyed by the "Stage: x" line of the prompt.
type fakeClient struct {
	mu        sync.Mutex
	responses map[types.Stage]string
	err       error
	prompts   []string
}

func (f *fakeClient) GenerateJSON(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	for stage, resp := range f.responses {
		if strings.Contains(prompt, "Stage: "+string(stage)+"\n") {
			return resp, nil
		}
	}
	return "", errors.New("no canned response")
}

func (f *fakeClient) GetModel(llm.ModelTier) string { return "fake-model" }

func (f *fakeClient) Close() error { return nil }

func (f *fakeClient) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

func cannedResponse(summary string) string {
	data, _ := json.Marshal(map[string]any{
		"summary":            summary,
		"probe_points":       []string{"Walk through the launch", " "},
		"prioritized_issues": []string{"Add missing keywords"},
		"outlook":            "Likely to advance with small fixes.",
	})
	return string(data)
}

func goodResponses() map[types.Stage]string {
	return map[types.Stage]string{
		types.StageATS:       "```json\n" + cannedResponse("Your résumé clears most automated filters.") + "\n```",
		types.StageRecruiter: cannedResponse("A recruiter will likely see steady growth."),
		types.StageInterview: cannedResponse("Interviewers will probe your metrics; 2 claims need depth."),
	}
}

func sampleResult() *types.AnalysisResult {
	return &types.AnalysisResult{
		AnalysisID: "a-1",
		RoleLevel:  types.RoleEntry,
		Aggregate: types.AggregatedScore{
			RiskFactors: []types.RiskFactor{
				{Factor: "consistency_risk", Stage: types.StageInterview, Impact: 0.05, Severity: types.SeverityMedium, Description: "Vague claim"},
				{Factor: "consistency_risk", Stage: types.StageInterview, Impact: 0.05, Severity: types.SeverityMedium, Description: "Another vague claim"},
				{Factor: "low_ats_compatibility", Stage: types.StageATS, Impact: 0.15, Severity: types.SeverityHigh, Description: "Low keyword match"},
			},
		},
		Explanation: types.Explanation{
			OverallSummary: "Moderate outlook: estimated 31% chance of an offer.",
			RoleContext:    "Calibrated for the entry level",
			ATS: types.StageExplanation{
				Stage: types.StageATS, Score: 72, Probability: 0.75,
				Summary: "Strong ATS compatibility (72/100).", KeyFactors: []string{"Keyword match 60%"},
			},
			Recruiter: types.StageExplanation{
				Stage: types.StageRecruiter, Score: 65, Probability: 0.55,
				Summary: "Moderate recruiter appeal (65/100).", KeyFactors: []string{"Career trajectory: developing"},
			},
			Interview: types.StageExplanation{
				Stage: types.StageInterview, Score: 58, Probability: 0.35,
				Summary: "Moderate interview readiness (58/100).", KeyFactors: []string{"2 claims lack depth"},
			},
			Recommendations: []types.Recommendation{
				{Priority: types.PriorityHigh, Category: "keywords", Action: "Add missing keywords", Stage: types.StageATS},
				{Priority: types.PriorityMedium, Category: "kpi_metrics", Action: "Quantify outcomes", Stage: types.StageInterview},
			},
		},
	}
}
