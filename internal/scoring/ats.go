package scoring

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jonathan/hiring-funnel/internal/types"
)

// ATS deductions
const (
	MissingEmailDeduction       = 25.0
	MissingPhoneDeduction       = 25.0
	MissingWorkHistoryDeduction = 30.0
	keywordMatchThreshold       = 60.0
	maxKeywordDeduction         = 20.0
	lowKeywordMatchThreshold    = 50.0
	veryLowKeywordMatch         = 30.0
)

// Keyword location weights, informational only
const (
	skillsLocationWeight     = 1.0
	summaryLocationWeight    = 0.8
	experienceLocationWeight = 0.6
)

// keywordVocabulary is the fixed set of terms looked for in job descriptions.
var keywordVocabulary = []string{
	// languages
	"python", "java", "javascript", "typescript", "golang", "rust", "ruby", "php",
	"c++", "c#", "swift", "kotlin", "scala", "sql",
	// frameworks and data
	"react", "angular", "vue", "node.js", "django", "flask", "spring boot",
	"postgresql", "mysql", "mongodb", "redis", "kafka", "spark", "hadoop",
	"pandas", "tensorflow", "pytorch",
	// infrastructure
	"aws", "azure", "gcp", "docker", "kubernetes", "terraform", "ci/cd",
	"linux", "git", "microservices", "graphql", "rest api",
	// practices and domains
	"machine learning", "data analysis", "analytics", "tableau", "excel",
	"agile", "scrum", "jira", "figma", "user research", "a/b testing",
	"product management", "project management", "roadmap", "stakeholder",
	"salesforce", "seo", "marketing", "communication", "leadership",
}

// keywordPatterns holds one compiled token-boundary matcher per vocabulary entry.
var keywordPatterns = compileKeywordPatterns(keywordVocabulary)

func compileKeywordPatterns(words []string) map[string]*regexp.Regexp {
	patterns := make(map[string]*regexp.Regexp, len(words))
	for _, w := range words {
		patterns[w] = regexp.MustCompile(`(?i)(^|[^a-z0-9+#])` + regexp.QuoteMeta(w) + `($|[^a-z0-9+#])`)
	}
	return patterns
}

// summaryHeadings mark the end of the summary region of résumé text.
var summaryHeadings = regexp.MustCompile(`(?im)^\s*(work\s+|professional\s+)?(experience|employment|work\s+history)\b`)

// summaryFallbackChars is the summary region size when no heading is found.
const summaryFallbackChars = 300

// ExtractKeywords returns the vocabulary terms present in text, in vocabulary order.
func ExtractKeywords(text string) []string {
	var found []string
	for _, kw := range keywordVocabulary {
		if keywordPatterns[kw].MatchString(text) {
			found = append(found, kw)
		}
	}
	return found
}

// ScoreATS scores a résumé against an applicant tracking system screen.
// The factors are echoed in the result when supplied and do not change the score.
func ScoreATS(resume *types.ParsedResume, text, jobDescription string, system types.ATSSystem, factors *types.CalibrationFactors) types.ATSResult {
	if resume == nil {
		resume = &types.ParsedResume{}
	}

	keywords := analyzeKeywords(resume, text, jobDescription)

	score := 100.0
	reasons := make([]types.Finding, 0)

	if !resume.PersonalInfo.HasEmail() {
		score -= MissingEmailDeduction
		reasons = append(reasons, types.Finding{
			Type:        "missing_email",
			Severity:    types.SeverityHigh,
			Description: "No email address was found; most ATS parsers reject applications without one",
		})
	}
	if !resume.PersonalInfo.HasPhone() {
		score -= MissingPhoneDeduction
		reasons = append(reasons, types.Finding{
			Type:        "missing_phone",
			Severity:    types.SeverityHigh,
			Description: "No phone number was found in the contact section",
		})
	}
	if len(resume.WorkExperience) == 0 {
		score -= MissingWorkHistoryDeduction
		reasons = append(reasons, types.Finding{
			Type:        "missing_work_history",
			Severity:    types.SeverityCritical,
			Description: "No work history entries could be parsed",
		})
	}

	if len(keywords.JobKeywords) > 0 {
		score -= KeywordDeduction(keywords.MatchPercentage)
		if keywords.MatchPercentage < lowKeywordMatchThreshold {
			severity := types.SeverityMedium
			if keywords.MatchPercentage < veryLowKeywordMatch {
				severity = types.SeverityHigh
			}
			reasons = append(reasons, types.Finding{
				Type:     "low_keyword_match",
				Severity: severity,
				Description: fmt.Sprintf("Only %.2f%% of job keywords were found (%d of %d); missing: %s",
					keywords.MatchPercentage, len(keywords.Matched), len(keywords.JobKeywords),
					strings.Join(keywords.Missing, ", ")),
			})
		}
	}

	score = ClampScore(score)

	result := types.ATSResult{
		Score:                  score,
		AdvancementProbability: probabilityFor(score, atsBands),
		ATSSystem:              types.NormalizeATSSystem(string(system)),
		RejectionReasons:       reasons,
		Keywords:               keywords,
	}
	if factors != nil {
		f := *factors
		result.Calibration = &f
	}
	return result
}

// KeywordDeduction is the ATS score lost for a keyword match percentage below the threshold.
func KeywordDeduction(matchPercentage float64) float64 {
	if matchPercentage >= keywordMatchThreshold {
		return 0
	}
	return min(keywordMatchThreshold-matchPercentage, maxKeywordDeduction)
}

// analyzeKeywords matches job-description keywords against the résumé text and skills list.
func analyzeKeywords(resume *types.ParsedResume, text, jobDescription string) types.KeywordAnalysis {
	analysis := types.KeywordAnalysis{
		JobKeywords: ExtractKeywords(jobDescription),
		Matched:     make([]types.KeywordMatch, 0),
		Missing:     make([]string, 0),
	}
	if len(analysis.JobKeywords) == 0 {
		return analysis
	}

	summary := summaryRegion(text)
	totalWeight := 0.0
	for _, kw := range analysis.JobKeywords {
		inSkills := skillsContain(resume.Skills, kw)
		re := keywordPatterns[kw]
		if !inSkills && !re.MatchString(text) {
			analysis.Missing = append(analysis.Missing, kw)
			continue
		}

		match := types.KeywordMatch{Keyword: kw, Location: types.LocationExperience, Weight: experienceLocationWeight}
		switch {
		case inSkills:
			match.Location, match.Weight = types.LocationSkills, skillsLocationWeight
		case re.MatchString(summary):
			match.Location, match.Weight = types.LocationSummary, summaryLocationWeight
		}
		totalWeight += match.Weight
		analysis.Matched = append(analysis.Matched, match)
	}

	found := float64(len(analysis.JobKeywords))
	analysis.MatchPercentage = round2(float64(len(analysis.Matched)) / found * 100)
	analysis.WeightedMatchScore = round2(totalWeight / found * 100)
	return analysis
}

// skillsContain reports whether any parsed skill contains the keyword.
func skillsContain(skills []string, keyword string) bool {
	re := keywordPatterns[keyword]
	for _, s := range skills {
		if strings.EqualFold(strings.TrimSpace(s), keyword) || re.MatchString(s) {
			return true
		}
	}
	return false
}

// summaryRegion returns the text preceding the first experience heading.
func summaryRegion(text string) string {
	if loc := summaryHeadings.FindStringIndex(text); loc != nil {
		return text[:loc[0]]
	}
	if len(text) > summaryFallbackChars {
		return text[:summaryFallbackChars]
	}
	return text
}
