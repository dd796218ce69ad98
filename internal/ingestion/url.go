package ingestion

import (
	"strings"
)

// NormalizeURL trims raw and gives it an https scheme when it has no http(s) prefix.
// Returns "" for blank input.
func NormalizeURL(raw string) string {
	u := strings.TrimSpace(raw)
	if u == "" {
		return ""
	}

	lower := strings.ToLower(u)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return u
	}
	return "https://" + u
}

// NormalizeURLs applies NormalizeURL to each entry, dropping blanks.
// Order and duplicates are preserved. The result is never nil.
func NormalizeURLs(raw []string) []string {
	urls := make([]string, 0, len(raw))
	for _, r := range raw {
		if u := NormalizeURL(r); u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

// SplitURLLines splits newline-separated input (as typed into a form) into normalized URLs.
func SplitURLLines(input string) []string {
	input = strings.ReplaceAll(input, "\r\n", "\n")
	return NormalizeURLs(strings.Split(input, "\n"))
}
