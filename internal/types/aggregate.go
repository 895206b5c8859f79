package types

// Funnel holds the conditional pass probability for each stage.
// Each value is capped by the one before it.
type Funnel struct {
	ATSPass       float64 `json:"ats_pass"`
	RecruiterPass float64 `json:"recruiter_pass"`
	InterviewPass float64 `json:"interview_pass"`
	Offer         float64 `json:"offer"`
}

// ConfidenceInterval is a heuristic band around the overall probability.
type ConfidenceInterval struct {
	Lower           float64 `json:"lower"`
	Upper           float64 `json:"upper"`
	ConfidenceLevel float64 `json:"confidence_level"`
}

// RiskFactor is a single contributor to a lower hiring probability.
type RiskFactor struct {
	Factor      string   `json:"factor"`
	Stage       Stage    `json:"stage"`
	Impact      float64  `json:"impact"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
}

// RiskGroup collapses risk factors sharing a stage and factor name.
type RiskGroup struct {
	Factor       string   `json:"factor"`
	Stage        Stage    `json:"stage"`
	Count        int      `json:"count"`
	TotalImpact  float64  `json:"total_impact"`
	Severity     Severity `json:"severity"`
	Descriptions []string `json:"descriptions"`
}

// StageContributions are the weighted stage scores that sum to the overall score.
type StageContributions struct {
	ATS       float64 `json:"ats"`
	Recruiter float64 `json:"recruiter"`
	Interview float64 `json:"interview"`
}

// AggregatedScore is the funnel-level result combining all three stages.
type AggregatedScore struct {
	OverallProbability float64            `json:"overall_probability"`
	ConfidenceInterval ConfidenceInterval `json:"confidence_interval"`
	Funnel             Funnel             `json:"funnel"`
	OverallScore       float64            `json:"overall_score"`
	RiskFactors        []RiskFactor       `json:"risk_factors"`
	Contributions      StageContributions `json:"stage_contributions"`
	ProbabilityFloor   float64            `json:"probability_floor"`
	FloorPolicy        string             `json:"floor_policy"`
	FloorApplied       bool               `json:"floor_applied"`
	UnflooredOverall   float64            `json:"unfloored_overall_probability"`
}
