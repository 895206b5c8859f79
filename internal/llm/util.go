package llm

import "strings"

// CleanJSONBlock strips markdown fences and conversational preamble from a JSON response.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// Skip a language identifier on the first line
		if idx := strings.Index(text, "\n"); idx >= 0 {
			firstLine := text[:idx]
			if len(firstLine) < 20 && !strings.Contains(firstLine, " ") && !strings.Contains(firstLine, "{") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	if !strings.HasPrefix(text, "{") {
		if idx := strings.Index(text, "{"); idx >= 0 {
			if obj := extractJSONObject(text[idx:]); obj != "" {
				return obj
			}
		}
	}
	return text
}

// extractJSONObject returns the leading balanced {...} object of s, ignoring braces in strings.
func extractJSONObject(s string) string {
	if !strings.HasPrefix(s, "{") {
		return ""
	}

	depth := 0
	inString, escaped := false, false
	for i, r := range s {
		switch {
		case escaped:
			escaped = false
		case r == '\\' && inString:
			escaped = true
		case r == '"':
			inString = !inString
		case inString:
		case r == '{':
			depth++
		case r == '}':
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		}
	}
	return ""
}
