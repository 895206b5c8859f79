package explanation

import (
	"fmt"
	"strings"

	"github.com/jonathan/hiring-funnel/internal/calibration"
	"github.com/jonathan/hiring-funnel/internal/types"
)

const maxListedKeywords = 5

func atsKeyFactors(ats *types.ATSResult) []string {
	kw := ats.Keywords
	out := make([]string, 0)

	if len(kw.JobKeywords) > 0 {
		out = append(out, fmt.Sprintf("Keyword match: %.0f%% (%d of %d job keywords)", kw.MatchPercentage, len(kw.Matched), len(kw.JobKeywords)))
	} else {
		out = append(out, "No recognized keywords in the job description")
	}
	if len(kw.Missing) > 0 {
		out = append(out, "Missing keywords: "+strings.Join(firstN(kw.Missing, maxListedKeywords), ", "))
	}
	for _, r := range ats.RejectionReasons {
		switch r.Type {
		case "missing_email":
			out = append(out, "No email address found")
		case "missing_phone":
			out = append(out, "No phone number found")
		case "missing_work_history":
			out = append(out, "No work history parsed")
		}
	}
	if len(kw.Matched) > 0 {
		out = append(out, fmt.Sprintf("Keyword placement score: %.0f/100 (skills section weighs most)", kw.WeightedMatchScore))
	}
	return out
}

func recruiterKeyFactors(rec *types.RecruiterResult, level types.RoleLevel, factors types.CalibrationFactors) []string {
	early := calibration.IsEarlyCareer(level)
	out := make([]string, 0)

	cp := rec.CareerProgression
	out = append(out, fmt.Sprintf("Career trajectory: %s (%.2f)", strings.ReplaceAll(string(cp.Trajectory), "_", " "), cp.Score))

	js := rec.JobStability
	if js.Assessment != "insufficient_data" {
		out = append(out, fmt.Sprintf("Average tenure: %.0f months (%s)", js.AverageTenureMonths, strings.ReplaceAll(js.Assessment, "_", " ")))
	}

	if len(rec.TransferableSignals) > 0 {
		kinds := make([]string, 0, len(rec.TransferableSignals))
		for _, s := range rec.TransferableSignals {
			kinds = append(kinds, strings.ReplaceAll(string(s.Type), "_", " "))
		}
		out = append(out, "Transferable signals: "+strings.Join(kinds, ", "))
	}

	for _, f := range rec.RedFlags {
		line := f.Description
		// early-career flags are downgraded one severity level
		if early && f.Severity != types.SeverityHigh {
			line += reducedNote(level)
		}
		out = append(out, line)
	}

	if cp.Score < 0.5 && calibration.Reduced(factors.MissingExperiencePenalty) {
		out = append(out, "Limited career progression"+reducedNote(level))
	}
	return out
}

func interviewKeyFactors(iv *types.InterviewResult, level types.RoleLevel, factors types.CalibrationFactors) []string {
	out := make([]string, 0)

	if len(iv.Claims) == 0 {
		out = append(out, "No bullet-point claims found to assess")
	} else {
		out = append(out, fmt.Sprintf("%d claims analyzed, average defensibility %.2f", len(iv.Claims), iv.AverageDefensibility))
	}

	metrics := 0
	for _, c := range iv.Claims {
		if c.HasMetric {
			metrics++
		}
	}
	if metrics > 0 {
		out = append(out, fmt.Sprintf("%d claims include quantified results", metrics))
	}

	high, medium := 0, 0
	for _, r := range iv.ConsistencyRisks {
		switch r.Severity {
		case types.SeverityHigh:
			high++
		case types.SeverityMedium:
			medium++
		}
	}
	if high+medium > 0 {
		line := fmt.Sprintf("%d vague claims (%d high risk, %d medium risk)", high+medium, high, medium)
		if calibration.Reduced(factors.VagueClaimPenalty) {
			line += reducedNote(level)
		}
		out = append(out, line)
	}

	if iv.OwnershipBoost > 0 {
		out = append(out, fmt.Sprintf("Ownership claims raised average defensibility by %.2f", iv.OwnershipBoost))
	}
	if iv.KPIPenaltyApplied {
		out = append(out, "No revenue or KPI metrics for a senior-level role")
	}
	return out
}

func firstN[T any](list []T, n int) []T {
	if len(list) <= n {
		return list
	}
	return list[:n]
}
