// Package signals detects transferable-experience evidence in free résumé text.
package signals

import (
	"regexp"
	"strings"

	"github.com/jonathan/hiring-funnel/internal/types"
)

// pattern is one phrase family member with its fixed strength and relevance.
type pattern struct {
	re        *regexp.Regexp
	strength  types.Strength
	relevance float64
}

// family is an ordered group of patterns that contributes at most one signal.
type family struct {
	signal   types.SignalType
	patterns []pattern
}

// families are evaluated in declaration order; the output preserves it.
var families = []family{
	{
		signal: types.SignalLearningVelocity,
		patterns: []pattern{
			{regexp.MustCompile(`(?i)\bself[- ]taught\b`), types.StrengthStrong, 0.8},
			{regexp.MustCompile(`(?i)\bquickly\s+(learned|mastered|picked\s+up|ramped\s+up)\b`), types.StrengthStrong, 0.8},
			{regexp.MustCompile(`(?i)\b(taught\s+(myself|themselves)|learned\s+\w+\s+in\s+\d+\s+(days?|weeks?|months?))\b`), types.StrengthStrong, 0.75},
			{regexp.MustCompile(`(?i)\b(certification|certified|bootcamp|coursework|online\s+course)s?\b`), types.StrengthMedium, 0.6},
			{regexp.MustCompile(`(?i)\b(learned|learning|studied)\b`), types.StrengthWeak, 0.4},
		},
	},
	{
		signal: types.SignalOwnership,
		patterns: []pattern{
			{regexp.MustCompile(`(?i)\b(founded|co-founded|started)\b`), types.StrengthStrong, 0.85},
			{regexp.MustCompile(`(?i)\bfrom\s+scratch\b`), types.StrengthStrong, 0.8},
			{regexp.MustCompile(`(?i)\b(owned|took\s+ownership|end[- ]to[- ]end)\b`), types.StrengthStrong, 0.8},
			{regexp.MustCompile(`(?i)\b(created|launched|initiated|spearheaded)\b`), types.StrengthMedium, 0.65},
			{regexp.MustCompile(`(?i)\b(built|designed)\b`), types.StrengthMedium, 0.6},
		},
	},
	{
		signal: types.SignalLeadership,
		patterns: []pattern{
			{regexp.MustCompile(`(?i)\bled\s+(a\s+)?team\b`), types.StrengthStrong, 0.85},
			{regexp.MustCompile(`(?i)\b(president|captain|chair|head)\s+of\b`), types.StrengthStrong, 0.8},
			{regexp.MustCompile(`(?i)\b(managed|supervised|coordinated)\b`), types.StrengthMedium, 0.65},
			{regexp.MustCompile(`(?i)\b(mentored|tutored|coached|organized)\b`), types.StrengthMedium, 0.6},
			{regexp.MustCompile(`(?i)\bled\b`), types.StrengthMedium, 0.6},
		},
	},
	{
		signal: types.SignalTransferableSkill,
		patterns: []pattern{
			{regexp.MustCompile(`(?i)\binternships?\b`), types.StrengthStrong, 0.8},
			{regexp.MustCompile(`(?i)\b(research|teaching)\s+assistant\b`), types.StrengthStrong, 0.75},
			{regexp.MustCompile(`(?i)\bfreelanc(e|ed|er|ing)\b`), types.StrengthStrong, 0.75},
			{regexp.MustCompile(`(?i)\bopen[- ]source\b`), types.StrengthMedium, 0.7},
			{regexp.MustCompile(`(?i)\bside\s+projects?\b`), types.StrengthMedium, 0.65},
			{regexp.MustCompile(`(?i)\b(capstone|thesis)\b`), types.StrengthMedium, 0.6},
			{regexp.MustCompile(`(?i)\bhackathons?\b`), types.StrengthMedium, 0.6},
			{regexp.MustCompile(`(?i)\b(volunteer(s|ed|ing)?|club|student\s+organization)\b`), types.StrengthWeak, 0.5},
		},
	},
}

// evidenceRadius is how many characters around a match are kept as evidence.
const evidenceRadius = 60

// Detect scans text for transferable signals. Each family contributes at most one
// signal (its first matching pattern), and results follow family order, not text order.
func Detect(text string) []types.TransferableSignal {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var found []types.TransferableSignal
	for _, fam := range families {
		for _, p := range fam.patterns {
			loc := p.re.FindStringIndex(text)
			if loc == nil {
				continue
			}
			found = append(found, types.TransferableSignal{
				Type:      fam.signal,
				Evidence:  evidence(text, loc[0], loc[1]),
				Strength:  p.strength,
				Relevance: p.relevance,
			})
			break
		}
	}
	return found
}

// Count returns how many signals match any of the given types.
// With no types it counts every signal.
func Count(signals []types.TransferableSignal, kinds ...types.SignalType) int {
	if len(kinds) == 0 {
		return len(signals)
	}
	n := 0
	for _, s := range signals {
		for _, k := range kinds {
			if s.Type == k {
				n++
				break
			}
		}
	}
	return n
}

// evidence returns the line containing the match, trimmed to evidenceRadius on each side.
func evidence(text string, start, end int) string {
	lineStart := strings.LastIndexByte(text[:start], '\n') + 1
	lineEnd := len(text)
	if i := strings.IndexByte(text[end:], '\n'); i >= 0 {
		lineEnd = end + i
	}
	if start-lineStart > evidenceRadius {
		lineStart = start - evidenceRadius
	}
	if lineEnd-end > evidenceRadius {
		lineEnd = end + evidenceRadius
	}
	return strings.TrimSpace(strings.ToValidUTF8(text[lineStart:lineEnd], ""))
}
