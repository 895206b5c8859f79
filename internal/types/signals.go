package types

// SignalType is the kind of evidence a transferable signal represents
type SignalType string

// Transferable signal types in detection order
const (
	SignalLearningVelocity  SignalType = "learning_velocity"
	SignalOwnership         SignalType = "ownership"
	SignalLeadership        SignalType = "leadership"
	SignalTransferableSkill SignalType = "transferable_skill"
)

// Strength grades how convincing a signal's evidence is
type Strength string

// Signal strengths
const (
	StrengthWeak   Strength = "weak"
	StrengthMedium Strength = "medium"
	StrengthStrong Strength = "strong"
)

// TransferableSignal is textual evidence of skill or initiative outside formal paid work.
type TransferableSignal struct {
	Type      SignalType `json:"type"`
	Evidence  string     `json:"evidence"`
	Strength  Strength   `json:"strength"`
	Relevance float64    `json:"relevance"`
}

// CalibrationFactors are role-level multipliers applied to penalties and signal weights.
type CalibrationFactors struct {
	Band                     string  `json:"band"`
	MissingKPIPenalty        float64 `json:"missing_kpi_penalty"`
	MissingNiceToHavePenalty float64 `json:"missing_nice_to_have_penalty"`
	MissingExperiencePenalty float64 `json:"missing_experience_penalty"`
	VagueClaimPenalty        float64 `json:"vague_claim_penalty"`
	TransferableSkillWeight  float64 `json:"transferable_skill_weight"`
	LearningVelocityWeight   float64 `json:"learning_velocity_weight"`
	OwnershipWeight          float64 `json:"ownership_weight"`
	DirectMatchWeight        float64 `json:"direct_match_weight"`
	ProbabilityFloor         float64 `json:"probability_floor"`
}
