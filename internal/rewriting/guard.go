package rewriting

import (
	"fmt"
	"regexp"
	"strings"
)

const maxSummaryWords = 90

var numberPattern = regexp.MustCompile(`\d+(?:[.,]\d+)?`)

// response is the JSON shape the model must return.
type response struct {
	Summary           string   `json:"summary"`
	ProbePoints       []string `json:"probe_points"`
	PrioritizedIssues []string `json:"prioritized_issues"`
	Outlook           string   `json:"outlook"`
}

// numbersIn returns the distinct numeric tokens of text, normalised so "0.50" and "0.5" match.
func numbersIn(text string) map[string]bool {
	found := make(map[string]bool)
	for _, m := range numberPattern.FindAllString(text, -1) {
		found[normalizeNumber(m)] = true
	}
	return found
}

func normalizeNumber(s string) string {
	s = strings.ReplaceAll(s, ",", ".")
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	return s
}

// introducedNumbers lists numbers in candidate that never appear in source.
func introducedNumbers(source, candidate string) []string {
	allowed := numbersIn(source)
	var extra []string
	seen := make(map[string]bool)
	for _, m := range numberPattern.FindAllString(candidate, -1) {
		n := normalizeNumber(m)
		if !allowed[n] && !seen[n] {
			seen[n] = true
			extra = append(extra, m)
		}
	}
	return extra
}

// vet rejects a response that is empty, too long, or that states numbers the input never gave.
func (r *response) vet(source string) error {
	r.Summary = strings.TrimSpace(r.Summary)
	r.Outlook = strings.TrimSpace(r.Outlook)
	r.ProbePoints = compact(r.ProbePoints)
	r.PrioritizedIssues = compact(r.PrioritizedIssues)

	if r.Summary == "" {
		return fmt.Errorf("summary is empty")
	}
	if n := len(strings.Fields(r.Summary)); n > maxSummaryWords {
		return fmt.Errorf("summary has %d words, limit is %d", n, maxSummaryWords)
	}

	all := strings.Join(append(append([]string{r.Summary, r.Outlook}, r.ProbePoints...), r.PrioritizedIssues...), "\n")
	if extra := introducedNumbers(source, all); len(extra) > 0 {
		return fmt.Errorf("response introduces numbers not in the input: %s", strings.Join(extra, ", "))
	}
	return nil
}

func compact(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
