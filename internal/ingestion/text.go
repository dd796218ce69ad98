// Package ingestion normalizes text and URLs before they enter the outreach pipeline.
package ingestion

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Character caps applied to aggregated context.
const (
	MaxTargetChars  = 6000
	MaxStudentChars = 3000
)

// NormalizeWhitespace collapses every run of whitespace into a single ASCII space.
// Leading and trailing runs are collapsed too, not trimmed. Invalid UTF-8 bytes
// become U+FFFD so the result is always valid UTF-8.
func NormalizeWhitespace(content string) string {
	if content == "" {
		return ""
	}

	var sb strings.Builder
	sb.Grow(len(content))

	inSpace := false
	for _, r := range content {
		if unicode.IsSpace(r) {
			if !inSpace {
				sb.WriteByte(' ')
				inSpace = true
			}
			continue
		}
		inSpace = false
		sb.WriteRune(r)
	}

	return sb.String()
}

// Truncate keeps at most maxChars characters (runes) of content.
func Truncate(content string, maxChars int) string {
	if maxChars <= 0 {
		return ""
	}
	if utf8.RuneCountInString(content) <= maxChars {
		return content
	}

	count := 0
	for i := range content {
		if count == maxChars {
			return content[:i]
		}
		count++
	}
	return content
}

// Bound normalizes whitespace and then truncates to maxChars.
func Bound(content string, maxChars int) string {
	return Truncate(NormalizeWhitespace(content), maxChars)
}
