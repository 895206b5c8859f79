package rewriting

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/hiring-funnel/internal/aggregation"
	"github.com/jonathan/hiring-funnel/internal/types"
)

// RewriteInput is everything the model sees for one stage.
type RewriteInput struct {
	Stage           types.Stage            `json:"stage"`
	Score           float64                `json:"score"`
	Probability     float64                `json:"probability"`
	Risks           []types.RiskGroup      `json:"risks"`
	Recommendations []types.Recommendation `json:"recommendations"`
	RoleContext     string                 `json:"role_context"`
	Summary         string                 `json:"summary"`
	KeyFactors      []string               `json:"key_factors"`
}

// BuildInputs derives one RewriteInput per stage, in funnel order.
func BuildInputs(result *types.AnalysisResult) []RewriteInput {
	groups := aggregation.GroupRiskFactors(result.Aggregate.RiskFactors)
	expl := result.Explanation

	inputs := make([]RewriteInput, 0, 3)
	for _, stage := range expl.Stages() {
		in := RewriteInput{
			Stage:       stage.Stage,
			Score:       stage.Score,
			Probability: stage.Probability,
			RoleContext: expl.RoleContext,
			Summary:     stage.Summary,
			KeyFactors:  stage.KeyFactors,
		}
		for _, g := range groups {
			if g.Stage == stage.Stage {
				in.Risks = append(in.Risks, g)
			}
		}
		for _, r := range expl.Recommendations {
			if r.Stage == stage.Stage {
				in.Recommendations = append(in.Recommendations, r)
			}
		}
		inputs = append(inputs, in)
	}
	return inputs
}

// CacheKey is the hex sha256 of the input and model, stable across runs.
func (in RewriteInput) CacheKey(model string) string {
	data, err := json.Marshal(in)
	if err != nil {
		// Marshal of plain data cannot fail; fall back to the summary alone.
		data = []byte(in.Summary)
	}
	sum := sha256.Sum256(append([]byte(model+"\x00"), data...))
	return hex.EncodeToString(sum[:])
}

// promptData renders the input into prompt placeholder values.
func (in RewriteInput) promptData() map[string]string {
	return map[string]string{
		"Stage":           string(in.Stage),
		"Score":           formatNumber(in.Score),
		"Probability":     formatNumber(in.Probability),
		"RoleContext":     orNone(in.RoleContext),
		"Summary":         in.Summary,
		"KeyFactors":      bulletList(in.KeyFactors),
		"Risks":           bulletList(riskLines(in.Risks)),
		"Recommendations": bulletList(recommendationLines(in.Recommendations)),
	}
}

// sourceText is every piece of text the model was given, used to vet numbers it returns.
func (in RewriteInput) sourceText() string {
	d := in.promptData()
	return strings.Join([]string{d["Score"], d["Probability"], d["RoleContext"], d["Summary"], d["KeyFactors"], d["Risks"], d["Recommendations"]}, "\n")
}

func riskLines(groups []types.RiskGroup) []string {
	lines := make([]string, 0, len(groups))
	for _, g := range groups {
		lines = append(lines, fmt.Sprintf("%s (%s, x%d, impact %s): %s",
			g.Factor, g.Severity, g.Count, formatNumber(g.TotalImpact), strings.Join(g.Descriptions, "; ")))
	}
	return lines
}

func recommendationLines(recs []types.Recommendation) []string {
	lines := make([]string, 0, len(recs))
	for _, r := range recs {
		lines = append(lines, fmt.Sprintf("[%s] %s (%s)", r.Priority, r.Action, r.Impact))
	}
	return lines
}

func bulletList(items []string) string {
	if len(items) == 0 {
		return "- none"
	}
	return "- " + strings.Join(items, "\n- ")
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
