package scoring

import (
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/hiring-funnel/internal/calibration"
	"github.com/jonathan/hiring-funnel/internal/signals"
	"github.com/jonathan/hiring-funnel/internal/types"
)

// Red flag deductions by severity
var redFlagDeductions = map[types.Severity]float64{
	types.SeverityCritical: 15,
	types.SeverityHigh:     15,
	types.SeverityMedium:   8,
	types.SeverityLow:      3,
}

// Recruiter scoring constants
const (
	genericResumeWordCount     = 200
	limitedSkillsCount         = 3
	weakProgressionThreshold   = 0.5
	weakProgressionDeduction   = 10.0
	maxSignalOffset            = 5.0
	signalOffsetPerSignal      = 2.5
	unstableThreshold          = 0.5
	unstableDeduction          = 12.0
	unstableDeductionEarly     = 6.0
	maxProgressionScore        = 0.85
	maxTransferableProgression = 0.6
	placeholderTenureMonths    = 24.0
)

// ScoreRecruiter scores how a recruiter would react to the résumé on a first read.
// now anchors open-ended ("present") date ranges.
func ScoreRecruiter(resume *types.ParsedResume, text string, persona types.RecruiterPersona, level types.RoleLevel, now time.Time) types.RecruiterResult {
	if resume == nil {
		resume = &types.ParsedResume{}
	}
	factors := calibration.Factors(level)
	early := calibration.IsEarlyCareer(level)
	found := signals.Detect(text)
	if found == nil {
		found = make([]types.TransferableSignal, 0)
	}
	wordCount := len(strings.Fields(text))

	progression := careerProgression(resume.WorkExperience, found, early, factors)
	stability := jobStability(resume.WorkExperience, now)
	flags := redFlags(resume, wordCount, found, early)

	score := 100.0 - flagDeduction(flags)
	if progression.Score < weakProgressionThreshold {
		score -= weakProgressionDeduction * factors.MissingExperiencePenalty
		if early && len(found) > 0 {
			score += min(maxSignalOffset, signalOffsetPerSignal*float64(len(found)))
		}
	}
	if stability.Score < unstableThreshold {
		if early {
			score -= unstableDeductionEarly
		} else {
			score -= unstableDeduction
		}
	}
	score = ClampScore(score)

	return types.RecruiterResult{
		Score:                  score,
		AdvancementProbability: probabilityFor(score, recruiterBands),
		Persona:                types.NormalizeRecruiterPersona(string(persona)),
		RedFlags:               flags,
		CareerProgression:      progression,
		JobStability:           stability,
		TransferableSignals:    found,
		WordCount:              wordCount,
	}
}

// flagDeduction sums the per-severity deductions for red flags.
func flagDeduction(flags []types.Finding) float64 {
	total := 0.0
	for _, f := range flags {
		total += redFlagDeductions[f.Severity]
	}
	return total
}

// careerProgression scores career growth from job count, falling back to transferable
// signals for early-career candidates with no paid history.
func careerProgression(jobs []types.WorkExperience, found []types.TransferableSignal, early bool, factors types.CalibrationFactors) types.CareerProgression {
	n := len(found)
	p := types.CareerProgression{JobCount: len(jobs), TransferableCount: n}

	if len(jobs) == 0 && early {
		p.Score = min(maxTransferableProgression, 0.3+0.1*float64(n))
		p.Trajectory = types.TrajectoryInsufficientData
		if n > 0 {
			p.Trajectory = types.TrajectoryTransferableExperience
		}
		return p
	}

	switch len(jobs) {
	case 0:
		p.Score, p.Trajectory = 0.5, types.TrajectoryInsufficientData
	case 1:
		p.Score, p.Trajectory = 0.5, types.TrajectoryEntryLevel
	case 2:
		p.Score, p.Trajectory = 0.65, types.TrajectoryDeveloping
	default:
		p.Score, p.Trajectory = 0.8, types.TrajectoryProgressive
	}

	if early {
		perSignal := min(0.1, 0.05*factors.OwnershipWeight)
		p.SignalBoost = perSignal * float64(signals.Count(found, types.SignalOwnership, types.SignalLeadership))
		boosted := min(maxProgressionScore, p.Score+p.SignalBoost)
		p.SignalBoost = max(0, boosted-p.Score)
		p.Score = boosted
	}
	return p
}

// jobStability averages tenure over explicitly dated positions, assuming a uniform
// placeholder tenure when no position carries parseable dates.
func jobStability(jobs []types.WorkExperience, now time.Time) types.JobStability {
	if len(jobs) == 0 {
		return types.JobStability{Score: 1.0, Assessment: "insufficient_data"}
	}

	total, dated := 0.0, 0
	for _, job := range jobs {
		if months, ok := tenureMonths(job.StartDate, job.EndDate, now); ok {
			total += months
			dated++
		}
	}

	s := types.JobStability{DatedPositions: dated, AverageTenureMonths: placeholderTenureMonths}
	if dated > 0 {
		s.AverageTenureMonths = round2(total / float64(dated))
	}

	switch {
	case s.AverageTenureMonths < 12:
		s.Score, s.Assessment = 0.3, "frequent_changes"
	case s.AverageTenureMonths < 18:
		s.Score, s.Assessment = 0.6, "moderate_tenure"
	default:
		s.Score, s.Assessment = 1.0, "stable"
	}
	if dated == 0 {
		s.Assessment = "assumed_average"
	}
	return s
}

var dateLayouts = []string{"2006-01", "2006-1", "01/2006", "1/2006", "Jan 2006", "January 2006", "2006"}

// parseResumeDate parses the month-precision dates found in parsed résumés.
func parseResumeDate(s string, now time.Time) (time.Time, bool) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "":
		return time.Time{}, false
	case "present", "current", "now":
		return now, true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// tenureMonths returns the length of a dated position in months.
// An empty end date marks the current role and runs until now.
func tenureMonths(start, end string, now time.Time) (float64, bool) {
	from, ok := parseResumeDate(start, now)
	if !ok {
		return 0, false
	}
	to, ok := now, true
	if strings.TrimSpace(end) != "" {
		to, ok = parseResumeDate(end, now)
	}
	if !ok || to.Before(from) {
		return 0, false
	}
	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	return float64(max(months, 1)), true
}

// redFlags applies the recruiter's quick-scan heuristics.
func redFlags(resume *types.ParsedResume, wordCount int, found []types.TransferableSignal, early bool) []types.Finding {
	flags := make([]types.Finding, 0)

	if wordCount < genericResumeWordCount {
		severity := types.SeverityMedium
		if early {
			severity = types.SeverityLow
		}
		flags = append(flags, types.Finding{
			Type:        "generic_resume",
			Severity:    severity,
			Description: fmt.Sprintf("Résumé is only %d words; recruiters read short résumés as generic", wordCount),
		})
	}

	if len(resume.WorkExperience) == 0 {
		switch {
		case !early:
			flags = append(flags, types.Finding{
				Type:        "missing_experience",
				Severity:    types.SeverityHigh,
				Description: "No work experience is listed",
			})
		case len(found) == 0:
			flags = append(flags, types.Finding{
				Type:        "missing_experience",
				Severity:    types.SeverityMedium,
				Description: "No work experience or transferable experience such as projects or internships is listed",
			})
		}
	}

	if len(resume.Skills) < limitedSkillsCount {
		severity := types.SeverityMedium
		if early {
			severity = types.SeverityLow
		}
		flags = append(flags, types.Finding{
			Type:        "limited_skills",
			Severity:    severity,
			Description: fmt.Sprintf("Only %d skills listed", len(resume.Skills)),
		})
	}

	return flags
}
