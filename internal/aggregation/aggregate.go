// Package aggregation combines the three stage results into a conditional-probability
// funnel, an overall score and a ranked list of risk factors.
package aggregation

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"

	"github.com/jonathan/hiring-funnel/internal/calibration"
	"github.com/jonathan/hiring-funnel/internal/types"
)

// Stage weights for the overall score
const (
	atsWeight       = 0.3
	recruiterWeight = 0.3
	interviewWeight = 0.4
)

// Funnel constants
const (
	offerThreshold      = 0.5
	offerBase           = 0.7
	offerSlope          = 0.4
	offerLowMultiplier  = 0.5
	confidenceBandRatio = 0.10
	confidenceLevel     = 0.95
	softGuardATSPass    = 0.75
)

// ATS risk thresholds and impacts
const (
	atsRiskThreshold     = 50.0
	atsHighRiskThreshold = 40.0
	atsHighRiskImpact    = -0.25
	atsMediumRiskImpact  = -0.15
)

var redFlagImpacts = map[types.Severity]float64{
	types.SeverityCritical: -0.15,
	types.SeverityHigh:     -0.15,
	types.SeverityMedium:   -0.08,
	types.SeverityLow:      -0.03,
}

var consistencyRiskImpacts = map[types.Severity]float64{
	types.SeverityCritical: -0.20,
	types.SeverityHigh:     -0.20,
	types.SeverityMedium:   -0.10,
	types.SeverityLow:      -0.05,
}

// FloorPolicy selects how the role-level probability floor is applied.
type FloorPolicy string

// Floor policies
const (
	// FloorAdvisory reports the floor without changing the overall probability.
	FloorAdvisory FloorPolicy = "advisory"
	// FloorSoftGuard lifts the overall probability to the floor when the ATS stage passes comfortably.
	FloorSoftGuard FloorPolicy = "soft_guard"
)

// ParseFloorPolicy converts a config value to a FloorPolicy. Empty means advisory.
func ParseFloorPolicy(s string) (FloorPolicy, error) {
	switch p := FloorPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return FloorAdvisory, nil
	case FloorAdvisory, FloorSoftGuard:
		return p, nil
	default:
		return "", fmt.Errorf("unknown floor policy %q (want %q or %q)", s, FloorAdvisory, FloorSoftGuard)
	}
}

// Aggregate builds the funnel and overall score from the three stage results.
// Stage results are trusted to be in range.
func Aggregate(ats *types.ATSResult, recruiter *types.RecruiterResult, interview *types.InterviewResult, level types.RoleLevel, policy FloorPolicy) types.AggregatedScore {
	funnel := BuildFunnel(ats.AdvancementProbability, recruiter.AdvancementProbability, interview.AdvancementProbability)
	overall := funnel.ATSPass * funnel.RecruiterPass * funnel.InterviewPass * funnel.Offer

	if policy == "" {
		policy = FloorAdvisory
	}
	floor := calibration.Factors(level).ProbabilityFloor

	result := types.AggregatedScore{
		Funnel:             funnel,
		OverallProbability: overall,
		UnflooredOverall:   overall,
		ProbabilityFloor:   floor,
		FloorPolicy:        string(policy),
		Contributions: types.StageContributions{
			ATS:       ats.Score * atsWeight,
			Recruiter: recruiter.Score * recruiterWeight,
			Interview: interview.Score * interviewWeight,
		},
		RiskFactors: CollectRiskFactors(ats, recruiter, interview),
	}
	result.OverallScore = clamp(result.Contributions.ATS+result.Contributions.Recruiter+result.Contributions.Interview, 0, 100)

	if policy == FloorSoftGuard && funnel.ATSPass >= softGuardATSPass && overall < floor {
		result.OverallProbability = floor
		result.FloorApplied = true
	}
	result.ConfidenceInterval = confidenceInterval(result.OverallProbability)
	return result
}

// BuildFunnel caps each stage by the one before it and derives the offer probability.
func BuildFunnel(atsProb, recruiterProb, interviewProb float64) types.Funnel {
	f := types.Funnel{ATSPass: clamp(atsProb, 0, 1)}
	f.RecruiterPass = math.Min(clamp(recruiterProb, 0, 1), f.ATSPass)
	f.InterviewPass = math.Min(clamp(interviewProb, 0, 1), f.RecruiterPass)
	f.Offer = OfferProbability(f.InterviewPass)
	return f
}

// OfferProbability is a two-piece function of the interview pass probability with a
// step at 0.5: above it the offer ramps linearly from 0.7 to 0.9.
func OfferProbability(interviewPass float64) float64 {
	if interviewPass > offerThreshold {
		return offerBase + (interviewPass-offerThreshold)*offerSlope
	}
	return interviewPass * offerLowMultiplier
}

func confidenceInterval(p float64) types.ConfidenceInterval {
	spread := p * confidenceBandRatio
	return types.ConfidenceInterval{
		Lower:           clamp(p-spread, 0, 1),
		Upper:           clamp(p+spread, 0, 1),
		ConfidenceLevel: confidenceLevel,
	}
}

// CollectRiskFactors gathers risk factors from every stage, most damaging first.
// Factors with equal impact keep stage order.
func CollectRiskFactors(ats *types.ATSResult, recruiter *types.RecruiterResult, interview *types.InterviewResult) []types.RiskFactor {
	factors := make([]types.RiskFactor, 0)

	if ats.Score < atsRiskThreshold {
		rf := types.RiskFactor{
			Factor:      "low_ats_compatibility",
			Stage:       types.StageATS,
			Impact:      atsMediumRiskImpact,
			Severity:    types.SeverityMedium,
			Description: fmt.Sprintf("ATS compatibility score of %.0f is below the %.0f screening cutoff", ats.Score, atsRiskThreshold),
		}
		if ats.Score < atsHighRiskThreshold {
			rf.Impact, rf.Severity = atsHighRiskImpact, types.SeverityHigh
		}
		factors = append(factors, rf)
	}

	for _, flag := range recruiter.RedFlags {
		factors = append(factors, types.RiskFactor{
			Factor:      flag.Type,
			Stage:       types.StageRecruiter,
			Impact:      redFlagImpacts[flag.Severity],
			Severity:    flag.Severity,
			Description: flag.Description,
		})
	}

	for _, risk := range interview.ConsistencyRisks {
		factors = append(factors, types.RiskFactor{
			Factor:      "consistency_risk",
			Stage:       types.StageInterview,
			Impact:      consistencyRiskImpacts[risk.Severity],
			Severity:    risk.Severity,
			Description: fmt.Sprintf("%s: %q", risk.Description, risk.Claim),
		})
	}

	sort.SliceStable(factors, func(i, j int) bool {
		return factors[i].Impact < factors[j].Impact
	})
	return factors
}

// GroupRiskFactors deduplicates risk factors by stage and factor name, keeping
// first-seen order and the most severe severity of each group.
func GroupRiskFactors(factors []types.RiskFactor) []types.RiskGroup {
	groups := make([]types.RiskGroup, 0)
	index := make(map[string]int)

	for _, rf := range factors {
		key := string(rf.Stage) + "/" + rf.Factor
		i, ok := index[key]
		if !ok {
			index[key] = len(groups)
			groups = append(groups, types.RiskGroup{
				Factor:       rf.Factor,
				Stage:        rf.Stage,
				Severity:     rf.Severity,
				Descriptions: make([]string, 0, 1),
			})
			i = len(groups) - 1
		}
		g := &groups[i]
		g.Count++
		g.TotalImpact += rf.Impact
		if rf.Severity.Rank() > g.Severity.Rank() {
			g.Severity = rf.Severity
		}
		if rf.Description != "" && !slices.Contains(g.Descriptions, rf.Description) {
			g.Descriptions = append(g.Descriptions, rf.Description)
		}
	}

	for i := range groups {
		groups[i].TotalImpact = math.Round(groups[i].TotalImpact*100) / 100
	}
	return groups
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
