package explanation

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/jonathan/hiring-funnel/internal/calibration"
	"github.com/jonathan/hiring-funnel/internal/scoring"
	"github.com/jonathan/hiring-funnel/internal/types"
)

const maxRiskRecommendations = 3

// SortRecommendations orders recommendations critical > high > medium > low.
// Equal priorities keep their input order.
func SortRecommendations(recs []types.Recommendation) []types.Recommendation {
	sorted := make([]types.Recommendation, len(recs))
	copy(sorted, recs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority.Order() < sorted[j].Priority.Order()
	})
	return sorted
}

// buildRecommendations derives recommendations from stage findings in stage order.
func buildRecommendations(in Input, factors types.CalibrationFactors) []types.Recommendation {
	recs := make([]types.Recommendation, 0)
	recs = append(recs, atsRecommendations(in.ATS)...)
	recs = append(recs, recruiterRecommendations(in.Recruiter, in.RoleLevel)...)
	recs = append(recs, interviewRecommendations(in.Interview, factors)...)
	return recs
}

func atsRecommendations(ats *types.ATSResult) []types.Recommendation {
	recs := make([]types.Recommendation, 0)
	delta := func(points float64) (*float64, *float64) {
		return stageDeltas(ats.Score, points, scoring.ATSProbability)
	}

	for _, r := range ats.RejectionReasons {
		var rec types.Recommendation
		switch r.Type {
		case "missing_email":
			rec = types.Recommendation{
				Priority:  types.PriorityCritical,
				Category:  "contact_info",
				Action:    "Add a professional email address to the résumé header",
				Impact:    "Removes an automatic ATS rejection",
				Reasoning: "Applicant tracking systems use the email address as the candidate identifier",
			}
			rec.ExpectedScoreDelta, rec.ExpectedProbabilityDelta = delta(scoring.MissingEmailDeduction)
		case "missing_phone":
			rec = types.Recommendation{
				Priority:  types.PriorityHigh,
				Category:  "contact_info",
				Action:    "Add a phone number to the résumé header",
				Impact:    "Restores a required contact field",
				Reasoning: "Many ATS forms and recruiters filter out applications without a phone number",
			}
			rec.ExpectedScoreDelta, rec.ExpectedProbabilityDelta = delta(scoring.MissingPhoneDeduction)
		case "missing_work_history":
			rec = types.Recommendation{
				Priority:  types.PriorityCritical,
				Category:  "work_history",
				Action:    "Add a clearly headed experience section with titles, employers and dates",
				Impact:    "Lets the ATS parse your work history",
				Reasoning: "An unparsed work history is treated as no experience at all",
			}
			rec.ExpectedScoreDelta, rec.ExpectedProbabilityDelta = delta(scoring.MissingWorkHistoryDeduction)
		case "low_keyword_match":
			missing := firstN(ats.Keywords.Missing, maxListedKeywords)
			rec = types.Recommendation{
				Priority:  types.PriorityHigh,
				Category:  "keywords",
				Action:    "Work these job keywords into your skills and experience sections where accurate: " + strings.Join(missing, ", "),
				Impact:    "Raises keyword match toward the 60% screening threshold",
				Reasoning: fmt.Sprintf("Only %.0f%% of the job's keywords appear in the résumé", ats.Keywords.MatchPercentage),
			}
			rec.ExpectedScoreDelta, rec.ExpectedProbabilityDelta = delta(scoring.KeywordDeduction(ats.Keywords.MatchPercentage))
		default:
			continue
		}
		rec.Stage = types.StageATS
		recs = append(recs, rec)
	}
	return recs
}

func recruiterRecommendations(rec *types.RecruiterResult, level types.RoleLevel) []types.Recommendation {
	early := calibration.IsEarlyCareer(level)
	recs := make([]types.Recommendation, 0)

	for _, f := range rec.RedFlags {
		var r types.Recommendation
		switch f.Type {
		case "generic_resume":
			r = types.Recommendation{
				Category:  "content_depth",
				Action:    "Expand each role or project with two or three specific accomplishments",
				Impact:    "Makes the résumé read as tailored rather than generic",
				Reasoning: fmt.Sprintf("At %d words the résumé gives a recruiter little to go on", rec.WordCount),
			}
		case "missing_experience":
			r = types.Recommendation{
				Category:  "experience",
				Action:    "Add your work history with titles, employers and dates",
				Impact:    "Gives the recruiter evidence of relevant experience",
				Reasoning: "Recruiters screen first for relevant experience",
			}
			if early {
				r.Action = "Add projects, internships, volunteering or coursework that show relevant skills"
				r.Reasoning = "Entry-level candidates are judged on transferable experience when paid work is missing"
			}
		case "limited_skills":
			r = types.Recommendation{
				Category:  "skills",
				Action:    "List the tools and technologies you have actually used in a dedicated skills section",
				Impact:    "Helps recruiters map you to the role quickly",
				Reasoning: "Fewer than three skills makes the fit hard to judge",
			}
		default:
			continue
		}
		r.Priority = priorityFor(f.Severity)
		r.Stage = types.StageRecruiter
		r.ExpectedScoreDelta, r.ExpectedProbabilityDelta = stageDeltas(rec.Score, scoring.RedFlagDeduction(f.Severity), scoring.RecruiterProbability)
		recs = append(recs, r)
	}
	return recs
}

func interviewRecommendations(iv *types.InterviewResult, factors types.CalibrationFactors) []types.Recommendation {
	recs := make([]types.Recommendation, 0)

	risks := make([]types.ConsistencyRisk, len(iv.ConsistencyRisks))
	copy(risks, iv.ConsistencyRisks)
	sort.SliceStable(risks, func(i, j int) bool {
		return risks[i].Severity.Rank() > risks[j].Severity.Rank()
	})

	for _, risk := range firstN(risks, maxRiskRecommendations) {
		points := scoring.MediumRiskDeduction * factors.VagueClaimPenalty
		if risk.Severity == types.SeverityHigh {
			points = scoring.HighRiskDeduction * factors.VagueClaimPenalty
		}
		r := types.Recommendation{
			Priority:  priorityFor(risk.Severity),
			Category:  "claim_depth",
			Action:    fmt.Sprintf("Rewrite %q with your specific contribution and a measurable result", risk.Claim),
			Impact:    "Turns a vague claim into one you can defend in detail",
			Reasoning: risk.Description,
			Stage:     types.StageInterview,
		}
		r.ExpectedScoreDelta, r.ExpectedProbabilityDelta = stageDeltas(iv.Score, points, scoring.InterviewProbability)
		recs = append(recs, r)
	}

	if iv.KPIPenaltyApplied {
		r := types.Recommendation{
			Priority:  types.PriorityMedium,
			Category:  "kpi_metrics",
			Action:    "Quantify business outcomes such as revenue, conversion, retention or cost savings",
			Impact:    "Shows senior-level ownership of results",
			Reasoning: "Senior candidates are expected to tie their work to business metrics",
			Stage:     types.StageInterview,
		}
		r.ExpectedScoreDelta, r.ExpectedProbabilityDelta = stageDeltas(iv.Score, scoring.MissingKPIDeduction*factors.MissingKPIPenalty, scoring.InterviewProbability)
		recs = append(recs, r)
	}
	return recs
}

// stageDeltas estimates the score and band-probability gain of recovering points.
func stageDeltas(score, points float64, band func(float64) float64) (*float64, *float64) {
	newScore := scoring.ClampScore(score + points)
	scoreDelta := round2(newScore - score)
	probDelta := round2(band(newScore) - band(score))
	return &scoreDelta, &probDelta
}

func priorityFor(s types.Severity) types.Priority {
	switch s {
	case types.SeverityCritical:
		return types.PriorityCritical
	case types.SeverityHigh:
		return types.PriorityHigh
	case types.SeverityMedium:
		return types.PriorityMedium
	default:
		return types.PriorityLow
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
