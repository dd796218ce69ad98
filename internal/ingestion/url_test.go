package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "bare host and path", input: "example.edu/staff/jane", expected: "https://example.edu/staff/jane"},
		{name: "https kept", input: "https://example.com", expected: "https://example.com"},
		{name: "http kept", input: "http://example.com", expected: "http://example.com"},
		{name: "uppercase scheme kept", input: "HTTPS://Example.com", expected: "HTTPS://Example.com"},
		{name: "trimmed", input: "  scholar.google.com/citations?user=x \t", expected: "https://scholar.google.com/citations?user=x"},
		{name: "blank", input: "   ", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeURL(tt.input))
		})
	}
}

func TestNormalizeURLs_PreservesOrderAndDuplicates(t *testing.T) {
	got := NormalizeURLs([]string{"b.com", "", "a.com", "b.com"})
	assert.Equal(t, []string{"https://b.com", "https://a.com", "https://b.com"}, got)
}

func TestNormalizeURLs_NeverNil(t *testing.T) {
	assert.NotNil(t, NormalizeURLs(nil))
	assert.Empty(t, NormalizeURLs(nil))
}

func TestSplitURLLines(t *testing.T) {
	got := SplitURLLines("example.edu/jane\r\n\n  https://github.com/jane  \n")
	assert.Equal(t, []string{"https://example.edu/jane", "https://github.com/jane"}, got)
}
