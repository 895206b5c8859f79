package scoring

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jonathan/hiring-funnel/internal/calibration"
	"github.com/jonathan/hiring-funnel/internal/types"
)

// Claim defensibility levels
const (
	metricDefensibility  = 0.9
	strongDefensibility  = 0.7
	defaultDefensibility = 0.5
	passiveDefensibility = 0.3
)

// Interview scoring constants
const (
	minClaimWords          = 3
	highRiskThreshold      = 0.4
	mediumRiskThreshold    = 0.6
	probeThreshold         = 0.5
	maxPredictedQuestions  = 5
	ownershipBoostPerClaim = 0.1
	maxBoostedAverage      = 0.85
	HighRiskDeduction      = 10.0
	MediumRiskDeduction    = 5.0
	weakAverageDeduction   = 15.0
	MissingKPIDeduction    = 8.0
	questionClaimMaxChars  = 80
)

var (
	bulletLine    = regexp.MustCompile(`^\s*(?:[-*•▪◦–]|\d+[.)])\s+(.+)$`)
	unitMetric    = regexp.MustCompile(`(?i)(\$\s?\d|\d+(\.\d+)?\s?(%|percent\b|x\b|k\b|m\b|b\b|ms\b|seconds?\b|minutes?\b|hours?\b|days?\b|weeks?\b|months?\b))`)
	countMetric   = regexp.MustCompile(`(?i)(?:^|[^\w.$])(\d[\d,]*)\+?\s+([a-z]+)`)
	kpiPattern    = regexp.MustCompile(`(?i)(\$\s?\d|\d+(\.\d+)?\s?(%|percent)|\b(revenue|kpi|conversion|retention|churn|arr|mrr|roi|nps|margin|sales)\b)`)
	strongVerbs   = regexp.MustCompile(`(?i)\b(built|developed|implemented|optimized|designed|architected|engineered|launched|delivered|automated|created|migrated|scaled|shipped|led|reduced|increased|improved)\b`)
	passiveVerbs  = regexp.MustCompile(`(?i)\b(helped|assisted|contributed|participated|supported|involved\s+in|worked\s+on|responsible\s+for|exposure\s+to)\b`)
	ownershipVerb = regexp.MustCompile(`(?i)\b(owned|led|built|created|managed|founded|started)\b`)
)

// ScoreInterview estimates how well the résumé's claims would hold up in interviews.
func ScoreInterview(resume *types.ParsedResume, text string, level types.RoleLevel) types.InterviewResult {
	if resume == nil {
		resume = &types.ParsedResume{}
	}
	factors := calibration.Factors(level)
	early := calibration.IsEarlyCareer(level)

	claims := ExtractClaims(resume, text)
	risks := make([]types.ConsistencyRisk, 0)
	ownershipClaims := 0
	hasKPI := false
	total := 0.0

	for i := range claims {
		c := &claims[i]
		total += c.Defensibility
		if c.OwnershipVerb {
			ownershipClaims++
		}
		if c.HasKPI {
			hasKPI = true
		}
		if severity, ok := consistencySeverity(c.Defensibility); ok {
			c.ConsistencyRisk = &severity
			risks = append(risks, types.ConsistencyRisk{
				Claim:       c.Text,
				Severity:    severity,
				Description: riskDescription(severity),
			})
		}
	}

	avg := defaultDefensibility
	if len(claims) > 0 {
		avg = total / float64(len(claims))
	}
	result := types.InterviewResult{
		Claims:           claims,
		ConsistencyRisks: risks,
	}
	if early && ownershipClaims > 0 {
		boosted := max(avg, min(avg+ownershipBoostPerClaim*float64(ownershipClaims), maxBoostedAverage))
		result.OwnershipBoost = boosted - avg
		avg = boosted
	}
	result.AverageDefensibility = avg
	result.PredictedQuestions = predictQuestions(claims)

	score := 100.0
	for _, r := range risks {
		switch r.Severity {
		case types.SeverityHigh:
			score -= HighRiskDeduction * factors.VagueClaimPenalty
		case types.SeverityMedium:
			score -= MediumRiskDeduction * factors.VagueClaimPenalty
		}
	}
	if avg < probeThreshold {
		score -= weakAverageDeduction * factors.VagueClaimPenalty
	}
	if !early && calibration.IsSeniorOrAbove(level) && !hasKPI {
		score -= MissingKPIDeduction * factors.MissingKPIPenalty
		result.KPIPenaltyApplied = true
	}

	result.Score = ClampScore(score)
	result.AdvancementProbability = probabilityFor(result.Score, interviewBands)
	return result
}

// ExtractClaims collects bullet-like lines from the text and work-experience descriptions.
// Claims shorter than three words are dropped; duplicates keep their first position.
func ExtractClaims(resume *types.ParsedResume, text string) []types.ResumeClaim {
	claims := make([]types.ResumeClaim, 0)
	seen := make(map[string]bool)

	add := func(line string) {
		line = strings.TrimSpace(line)
		if len(strings.Fields(line)) < minClaimWords {
			return
		}
		key := strings.ToLower(line)
		if seen[key] {
			return
		}
		seen[key] = true
		claims = append(claims, AssessClaim(line))
	}

	for _, line := range strings.Split(text, "\n") {
		if m := bulletLine.FindStringSubmatch(line); m != nil {
			add(m[1])
		}
	}
	if resume != nil {
		for _, job := range resume.WorkExperience {
			for _, line := range strings.Split(job.Description, "\n") {
				if m := bulletLine.FindStringSubmatch(line); m != nil {
					line = m[1]
				}
				add(line)
			}
		}
	}
	return claims
}

// AssessClaim rates a single claim's defensibility by pattern priority:
// quantified metric, then strong verb, then passive verb, else the default.
func AssessClaim(text string) types.ResumeClaim {
	c := types.ResumeClaim{
		Text:          text,
		HasMetric:     hasMetric(text),
		OwnershipVerb: ownershipVerb.MatchString(text),
	}
	c.HasKPI = c.HasMetric && kpiPattern.MatchString(text)

	switch {
	case c.HasMetric:
		c.Defensibility, c.Depth = metricDefensibility, types.DepthDeep
	case strongVerbs.MatchString(text):
		c.Defensibility, c.Depth = strongDefensibility, types.DepthModerate
	case passiveVerbs.MatchString(text):
		c.Defensibility, c.Depth = passiveDefensibility, types.DepthSurface
	default:
		c.Defensibility, c.Depth = defaultDefensibility, types.DepthModerate
	}
	return c
}

func consistencySeverity(defensibility float64) (types.Severity, bool) {
	switch {
	case defensibility < highRiskThreshold:
		return types.SeverityHigh, true
	case defensibility < mediumRiskThreshold:
		return types.SeverityMedium, true
	default:
		return "", false
	}
}

func riskDescription(severity types.Severity) string {
	if severity == types.SeverityHigh {
		return "Claim describes a supporting role without concrete outcomes and is likely to unravel under follow-up questions"
	}
	return "Claim lacks a measurable result; expect the interviewer to probe for specifics"
}

// predictQuestions builds depth probes for weak claims, then metric checks for deep ones.
func predictQuestions(claims []types.ResumeClaim) []types.PredictedQuestion {
	questions := make([]types.PredictedQuestion, 0, maxPredictedQuestions)

	for _, c := range claims {
		if len(questions) == maxPredictedQuestions {
			return questions
		}
		if c.Defensibility < probeThreshold {
			questions = append(questions, types.PredictedQuestion{
				Question:   fmt.Sprintf("What exactly was your personal contribution to %q?", shorten(c.Text)),
				Claim:      c.Text,
				Category:   "depth_probe",
				Likelihood: 0.8,
			})
		}
	}
	for _, c := range claims {
		if len(questions) == maxPredictedQuestions {
			return questions
		}
		if c.Depth == types.DepthDeep {
			questions = append(questions, types.PredictedQuestion{
				Question:   fmt.Sprintf("How did you measure the result in %q, and what was the baseline?", shorten(c.Text)),
				Claim:      c.Text,
				Category:   "metric_verification",
				Likelihood: 0.6,
			})
		}
	}
	return questions
}

func shorten(s string) string {
	r := []rune(s)
	if len(r) <= questionClaimMaxChars {
		return s
	}
	return strings.TrimSpace(string(r[:questionClaimMaxChars])) + "..."
}

// countStopWords follow numbers that are not counts, as in "3 of" or "2 and".
var countStopWords = map[string]bool{
	"a": true, "an": true, "and": true, "as": true, "at": true, "by": true, "for": true, "from": true,
	"in": true, "is": true, "of": true, "on": true, "or": true, "the": true, "to": true, "was": true, "with": true,
}

// hasMetric reports whether a claim carries a quantified result: a currency amount, a number
// with a unit or magnitude, or a count of something ("500 students"). Years and version
// numbers such as "Python 3" or "Go 1.21" do not count.
func hasMetric(text string) bool {
	if unitMetric.MatchString(text) {
		return true
	}
	for _, m := range countMetric.FindAllStringSubmatch(text, -1) {
		if isYear(m[1]) || countStopWords[strings.ToLower(m[2])] {
			continue
		}
		return true
	}
	return false
}

func isYear(token string) bool {
	if len(token) != 4 || strings.Contains(token, ",") {
		return false
	}
	return token[:2] == "19" || token[:2] == "20"
}
