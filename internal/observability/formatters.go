// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/hiring-funnel/internal/aggregation"
	"github.com/jonathan/hiring-funnel/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	inner := boxWidth - 4
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, inner))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(truncate(line, inner), inner))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// pad right-pads s with spaces to n runes; %-*s counts bytes.
func pad(s string, n int) string {
	if c := utf8.RuneCountInString(s); c < n {
		return s + strings.Repeat(" ", n-c)
	}
	return s
}

func bar(p float64) string {
	const width = 20
	filled := int(p*width + 0.5)
	filled = max(0, min(width, filled))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// PrintFunnel outputs the stage-by-stage pass probabilities and the overall outlook.
func (p *Printer) PrintFunnel(result *types.AnalysisResult) {
	if result == nil {
		return
	}
	agg := result.Aggregate

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Role level: %s\n", result.RoleLevel.Label()))
	sb.WriteString(fmt.Sprintf("Overall:    %.1f/100\n\n", agg.OverallScore))

	rows := []struct {
		name string
		p    float64
	}{
		{"ATS", agg.Funnel.ATSPass},
		{"Recruiter", agg.Funnel.RecruiterPass},
		{"Interview", agg.Funnel.InterviewPass},
		{"Offer", agg.Funnel.Offer},
	}
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%-10s %s %5.1f%%\n", r.name, bar(r.p), r.p*100))
	}

	ci := agg.ConfidenceInterval
	sb.WriteString(fmt.Sprintf("\nHiring probability: %.1f%% (%.0f%% CI %.1f%%-%.1f%%)",
		agg.OverallProbability*100, ci.ConfidenceLevel*100, ci.Lower*100, ci.Upper*100))
	if agg.FloorApplied {
		sb.WriteString(fmt.Sprintf("\nFloor applied (%s): %.1f%% before floor", agg.FloorPolicy, agg.UnflooredOverall*100))
	}

	p.printBox("HIRING FUNNEL", sb.String())
}

// PrintStages outputs the score and key factors of each stage.
func (p *Printer) PrintStages(expl *types.Explanation) {
	if expl == nil {
		return
	}

	var sb strings.Builder
	stages := expl.Stages()
	for i, st := range stages {
		sb.WriteString(fmt.Sprintf("%s  score %.1f  pass %.0f%%\n", strings.ToUpper(string(st.Stage)), st.Score, st.Probability*100))
		count := min(len(st.KeyFactors), 3)
		for _, f := range st.KeyFactors[:count] {
			sb.WriteString(fmt.Sprintf("  • %s\n", f))
		}
		if i < len(stages)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("STAGE BREAKDOWN", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRisks outputs the top risk factors grouped by stage and factor.
func (p *Printer) PrintRisks(risks []types.RiskFactor) {
	if len(risks) == 0 {
		p.printBox("RISK FACTORS", "✅ No risk factors found")
		return
	}

	groups := aggregation.GroupRiskFactors(risks)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d risk factors in %d groups:\n\n", len(risks), len(groups)))

	count := min(len(groups), maxItemsToShow)
	for i, g := range groups[:count] {
		sb.WriteString(fmt.Sprintf("⚠ [%s] %s (%s)", g.Stage, g.Factor, g.Severity))
		if g.Count > 1 {
			sb.WriteString(fmt.Sprintf(" x%d", g.Count))
		}
		sb.WriteString("\n")
		if len(g.Descriptions) > 0 {
			sb.WriteString(fmt.Sprintf("  %s\n", g.Descriptions[0]))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(groups) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more groups", len(groups)-maxItemsToShow))
	}

	p.printBox("RISK FACTORS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRecommendations outputs the highest-priority recommendations.
func (p *Printer) PrintRecommendations(recs []types.Recommendation) {
	if len(recs) == 0 {
		return
	}

	var sb strings.Builder
	count := min(len(recs), maxItemsToShow)
	for i, r := range recs[:count] {
		sb.WriteString(fmt.Sprintf("#%d [%s] %s\n", i+1, r.Priority, r.Action))
		line := fmt.Sprintf("    %s, impact %s", r.Stage, r.Impact)
		if r.ExpectedProbabilityDelta != nil {
			line += fmt.Sprintf(", %+.0f%% pass", *r.ExpectedProbabilityDelta*100)
		}
		sb.WriteString(line + "\n")
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(recs) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more", len(recs)-maxItemsToShow))
	}

	p.printBox("RECOMMENDATIONS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintEnhanced outputs the language-model probe points, when present.
func (p *Printer) PrintEnhanced(expl *types.Explanation) {
	if expl == nil || len(expl.Enhanced) == 0 {
		return
	}

	var sb strings.Builder
	for _, stage := range []types.Stage{types.StageATS, types.StageRecruiter, types.StageInterview} {
		block := expl.Enhanced[stage]
		if block == nil {
			continue
		}
		sb.WriteString(strings.ToUpper(string(stage)) + "\n")
		if block.Outlook != "" {
			sb.WriteString(fmt.Sprintf("  %s\n", block.Outlook))
		}
		count := min(len(block.ProbePoints), 3)
		for _, pp := range block.ProbePoints[:count] {
			sb.WriteString(fmt.Sprintf("  ? %s\n", pp))
		}
	}

	p.printBox("ENHANCED NOTES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintResult outputs every section for an analysis.
func (p *Printer) PrintResult(result *types.AnalysisResult) {
	if result == nil {
		return
	}
	p.PrintFunnel(result)
	p.PrintStages(&result.Explanation)
	p.PrintRisks(result.Aggregate.RiskFactors)
	p.PrintRecommendations(result.Explanation.Recommendations)
	p.PrintEnhanced(&result.Explanation)
}
