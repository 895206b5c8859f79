package explanation

import (
	"fmt"

	"github.com/jonathan/hiring-funnel/internal/types"
)

// Score bands for summary templates
const (
	strongBand   = 70.0
	moderateBand = 50.0
)

type summaryTemplates struct {
	strong, moderate, weak string
}

var stageTemplates = map[types.Stage]summaryTemplates{
	types.StageATS: {
		strong:   "Your résumé is well formatted for automated screening (score %.0f/100) and should clear most ATS filters.",
		moderate: "Your résumé may clear automated screening (score %.0f/100), but missing details or keywords could get it filtered out.",
		weak:     "Your résumé is at high risk of being filtered out by automated screening (score %.0f/100).",
	},
	types.StageRecruiter: {
		strong:   "A recruiter is likely to see a clear, credible story (score %.0f/100).",
		moderate: "A recruiter may move you forward (score %.0f/100), though some gaps could raise questions on a quick scan.",
		weak:     "A recruiter is likely to pass on this résumé in a quick scan (score %.0f/100).",
	},
	types.StageInterview: {
		strong:   "Your claims are specific enough to hold up well in interviews (score %.0f/100).",
		moderate: "Most claims should hold up in interviews (score %.0f/100), but some will draw probing follow-ups.",
		weak:     "Several claims are likely to fall apart under interview questioning (score %.0f/100).",
	},
}

// stageSummary picks the template for the score band and appends the role context.
func stageSummary(stage types.Stage, score float64, roleContext string) string {
	t := stageTemplates[stage]
	tmpl := t.weak
	switch {
	case score >= strongBand:
		tmpl = t.strong
	case score >= moderateBand:
		tmpl = t.moderate
	}
	summary := fmt.Sprintf(tmpl, score)
	if roleContext != "" {
		summary += " " + roleContext
	}
	return summary
}
