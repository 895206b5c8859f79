package types

// Priority orders recommendations
type Priority string

// Recommendation priorities, most urgent first
const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// Order returns the sort position of a priority; lower sorts first.
func (p Priority) Order() int {
	switch p {
	case PriorityCritical:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	default:
		return 3
	}
}

// Recommendation is an actionable improvement with its estimated effect.
type Recommendation struct {
	Priority                 Priority `json:"priority"`
	Category                 string   `json:"category"`
	Action                   string   `json:"action"`
	Impact                   string   `json:"impact"`
	Reasoning                string   `json:"reasoning"`
	Stage                    Stage    `json:"stage"`
	ExpectedScoreDelta       *float64 `json:"expected_score_delta,omitempty"`
	ExpectedProbabilityDelta *float64 `json:"expected_probability_delta,omitempty"`
}

// StageExplanation is the prose and key facts for one stage.
type StageExplanation struct {
	Stage       Stage    `json:"stage"`
	Score       float64  `json:"score"`
	Probability float64  `json:"probability"`
	Summary     string   `json:"summary"`
	KeyFactors  []string `json:"key_factors"`
}

// EnhancedBlock is optional prose appended by the language-model rewriter.
type EnhancedBlock struct {
	ProbePoints       []string `json:"probe_points,omitempty"`
	PrioritizedIssues []string `json:"prioritized_issues,omitempty"`
	Outlook           string   `json:"outlook,omitempty"`
}

// Explanation is the natural-language rendering of an analysis.
type Explanation struct {
	OverallSummary  string                   `json:"overall_summary"`
	RoleContext     string                   `json:"role_context,omitempty"`
	ATS             StageExplanation         `json:"ats"`
	Recruiter       StageExplanation         `json:"recruiter"`
	Interview       StageExplanation         `json:"interview"`
	Recommendations []Recommendation         `json:"recommendations"`
	Enhanced        map[Stage]*EnhancedBlock `json:"enhanced,omitempty"`
}

// Stages returns pointers to the per-stage explanations in funnel order.
func (e *Explanation) Stages() []*StageExplanation {
	return []*StageExplanation{&e.ATS, &e.Recruiter, &e.Interview}
}
