// Package calibration maps a candidate's role level onto the multipliers the stage scorers
// apply to penalties and signal weights.
package calibration

import "github.com/jonathan/hiring-funnel/internal/types"

// Band names
const (
	BandEarlyCareer = "early_career"
	BandMid         = "mid"
	BandSenior      = "senior"
)

var earlyCareerFactors = types.CalibrationFactors{
	Band:                     BandEarlyCareer,
	MissingKPIPenalty:        0.2,
	MissingNiceToHavePenalty: 0.3,
	MissingExperiencePenalty: 0.4,
	VagueClaimPenalty:        0.5,
	TransferableSkillWeight:  1.5,
	LearningVelocityWeight:   1.6,
	OwnershipWeight:          1.4,
	DirectMatchWeight:        1.0,
	ProbabilityFloor:         0.25,
}

var midFactors = types.CalibrationFactors{
	Band:                     BandMid,
	MissingKPIPenalty:        0.7,
	MissingNiceToHavePenalty: 0.6,
	MissingExperiencePenalty: 0.8,
	VagueClaimPenalty:        0.8,
	TransferableSkillWeight:  1.1,
	LearningVelocityWeight:   1.1,
	OwnershipWeight:          1.05,
	DirectMatchWeight:        1.0,
	ProbabilityFloor:         0.15,
}

// seniorFactors also covers an unset role level.
var seniorFactors = types.CalibrationFactors{
	Band:                     BandSenior,
	MissingKPIPenalty:        1.0,
	MissingNiceToHavePenalty: 1.0,
	MissingExperiencePenalty: 1.0,
	VagueClaimPenalty:        1.0,
	TransferableSkillWeight:  1.0,
	LearningVelocityWeight:   1.0,
	OwnershipWeight:          1.0,
	DirectMatchWeight:        1.1,
	ProbabilityFloor:         0.10,
}

// Factors returns the calibration multipliers for a role level.
// The returned value is a copy; callers may not affect later calls.
func Factors(level types.RoleLevel) types.CalibrationFactors {
	switch {
	case IsEarlyCareer(level):
		return earlyCareerFactors
	case level == types.RoleMid:
		return midFactors
	default:
		return seniorFactors
	}
}

// IsEarlyCareer reports whether the level is intern, entry or associate PM.
func IsEarlyCareer(level types.RoleLevel) bool {
	switch level {
	case types.RoleIntern, types.RoleEntry, types.RoleAssociatePM:
		return true
	default:
		return false
	}
}

// IsDefault reports whether factors are the uncalibrated senior band.
func IsDefault(f types.CalibrationFactors) bool {
	return f.Band == BandSenior || f.Band == ""
}

// Reduced reports whether a penalty multiplier softens the base penalty.
func Reduced(multiplier float64) bool {
	return multiplier < 1.0
}

// IsSeniorOrAbove reports whether the level is senior or higher.
func IsSeniorOrAbove(level types.RoleLevel) bool {
	return level.IsSeniorOrAbove()
}
