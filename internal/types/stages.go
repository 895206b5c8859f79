package types

// Stage names a step of the hiring funnel
type Stage string

// Funnel stages in evaluation order
const (
	StageATS       Stage = "ats"
	StageRecruiter Stage = "recruiter"
	StageInterview Stage = "interview"
	StageOffer     Stage = "offer"
)

// Severity grades a negative finding
type Severity string

// Severity levels from least to most damaging
const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Rank orders severities so that critical sorts highest.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 3
	case SeverityHigh:
		return 2
	case SeverityMedium:
		return 1
	default:
		return 0
	}
}

// Finding is a severity-tagged negative observation produced by a stage scorer.
type Finding struct {
	Type        string   `json:"type"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
}

// KeywordLocation is the résumé section a matched keyword was found in
type KeywordLocation string

// Keyword locations, weighted skills > summary > experience
const (
	LocationSkills     KeywordLocation = "skills"
	LocationSummary    KeywordLocation = "summary"
	LocationExperience KeywordLocation = "experience"
)

// KeywordMatch records where a job-description keyword appeared in the résumé.
type KeywordMatch struct {
	Keyword  string          `json:"keyword"`
	Location KeywordLocation `json:"location"`
	Weight   float64         `json:"weight"`
}

// KeywordAnalysis is the ATS keyword breakdown.
type KeywordAnalysis struct {
	JobKeywords        []string       `json:"job_keywords"`
	Matched            []KeywordMatch `json:"matched"`
	Missing            []string       `json:"missing"`
	MatchPercentage    float64        `json:"match_percentage"`
	WeightedMatchScore float64        `json:"weighted_match_score"`
}

// ATSResult is the output of the automated-screening stage.
type ATSResult struct {
	Score                  float64             `json:"score"`
	AdvancementProbability float64             `json:"advancement_probability"`
	ATSSystem              ATSSystem           `json:"ats_system"`
	RejectionReasons       []Finding           `json:"rejection_reasons"`
	Keywords               KeywordAnalysis     `json:"keyword_analysis"`
	Calibration            *CalibrationFactors `json:"calibration,omitempty"`
}

// Trajectory describes the shape of a candidate's career history
type Trajectory string

// Career trajectories
const (
	TrajectoryInsufficientData       Trajectory = "insufficient_data"
	TrajectoryTransferableExperience Trajectory = "transferable_experience"
	TrajectoryEntryLevel             Trajectory = "entry_level"
	TrajectoryDeveloping             Trajectory = "developing"
	TrajectoryProgressive            Trajectory = "progressive"
)

// CareerProgression is the recruiter's view of career growth.
type CareerProgression struct {
	Score             float64    `json:"score"`
	Trajectory        Trajectory `json:"trajectory"`
	JobCount          int        `json:"job_count"`
	SignalBoost       float64    `json:"signal_boost"`
	TransferableCount int        `json:"transferable_signal_count"`
}

// JobStability is the recruiter's view of tenure.
type JobStability struct {
	Score               float64 `json:"score"`
	AverageTenureMonths float64 `json:"average_tenure_months"`
	DatedPositions      int     `json:"dated_positions"`
	Assessment          string  `json:"assessment"`
}

// RecruiterResult is the output of the recruiter-review stage.
type RecruiterResult struct {
	Score                  float64              `json:"score"`
	AdvancementProbability float64              `json:"advancement_probability"`
	Persona                RecruiterPersona     `json:"persona"`
	RedFlags               []Finding            `json:"red_flags"`
	CareerProgression      CareerProgression    `json:"career_progression"`
	JobStability           JobStability         `json:"job_stability"`
	TransferableSignals    []TransferableSignal `json:"transferable_signals"`
	WordCount              int                  `json:"word_count"`
}

// Depth indicates how much substance a résumé claim carries
type Depth string

// Claim depths
const (
	DepthSurface  Depth = "surface"
	DepthModerate Depth = "moderate"
	DepthDeep     Depth = "deep"
)

// ResumeClaim is a bullet-point assertion an interviewer may probe.
type ResumeClaim struct {
	Text            string    `json:"text"`
	Defensibility   float64   `json:"defensibility"`
	Depth           Depth     `json:"depth"`
	HasMetric       bool      `json:"has_metric"`
	HasKPI          bool      `json:"has_kpi"`
	OwnershipVerb   bool      `json:"ownership_verb"`
	ConsistencyRisk *Severity `json:"consistency_risk,omitempty"`
}

// ConsistencyRisk is a claim likely to fall apart under questioning.
type ConsistencyRisk struct {
	Claim       string   `json:"claim"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
}

// PredictedQuestion is an interview question the candidate should prepare for.
type PredictedQuestion struct {
	Question   string  `json:"question"`
	Claim      string  `json:"claim"`
	Category   string  `json:"category"`
	Likelihood float64 `json:"likelihood"`
}

// InterviewResult is the output of the interview-readiness stage.
type InterviewResult struct {
	Score                  float64             `json:"score"`
	AdvancementProbability float64             `json:"advancement_probability"`
	Claims                 []ResumeClaim       `json:"claims"`
	ConsistencyRisks       []ConsistencyRisk   `json:"consistency_risks"`
	PredictedQuestions     []PredictedQuestion `json:"predicted_questions"`
	AverageDefensibility   float64             `json:"average_defensibility"`
	OwnershipBoost         float64             `json:"ownership_boost"`
	KPIPenaltyApplied      bool                `json:"kpi_penalty_applied"`
}
