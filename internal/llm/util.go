package llm

import "strings"

// CleanEmailText trims model output and removes a markdown code fence wrapping the whole email.
// Models occasionally fence plain-text answers even when asked not to.
func CleanEmailText(text string) string {
	text = strings.TrimSpace(text)
	if len(text) < 6 || !strings.HasPrefix(text, "```") || !strings.HasSuffix(text, "```") {
		return text
	}

	inner := strings.TrimSuffix(strings.TrimPrefix(text, "```"), "```")
	// A fence in the middle means the backticks are content, not a wrapper
	if strings.Contains(inner, "```") {
		return text
	}
	// Skip a language identifier on the opening line
	if idx := strings.Index(inner, "\n"); idx >= 0 {
		firstLine := inner[:idx]
		if len(firstLine) < 20 && !strings.Contains(firstLine, " ") {
			inner = inner[idx+1:]
		}
	}
	return strings.TrimSpace(inner)
}
