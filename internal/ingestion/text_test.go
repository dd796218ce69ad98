package ingestion

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeWhitespace(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty", input: "", expected: ""},
		{name: "no whitespace", input: "abc", expected: "abc"},
		{name: "tabs and newlines", input: "a\t\tb\n\nc", expected: "a b c"},
		{name: "crlf", input: "line1\r\nline2", expected: "line1 line2"},
		{name: "leading and trailing runs collapse", input: "  a  ", expected: " a "},
		{name: "unicode spaces", input: "a\u00a0\u3000b", expected: "a b"},
		{name: "page break marker", input: "one\n\n--- PAGE BREAK ---\n\ntwo", expected: "one --- PAGE BREAK --- two"},
		{name: "only whitespace", input: "\n\t \n", expected: " "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeWhitespace(tt.input))
		})
	}
}

func TestNormalizeWhitespace_Idempotent(t *testing.T) {
	inputs := []string{
		"Jane researches\n\n distributed   storage.",
		"  \t leading",
		"trailing \n\n",
		"mixed 　spaces",
	}

	for _, in := range inputs {
		once := NormalizeWhitespace(in)
		assert.Equal(t, once, NormalizeWhitespace(once), "input %q", in)
		assert.NotContains(t, once, "  ")
	}
}

func TestNormalizeWhitespace_InvalidUTF8(t *testing.T) {
	out := NormalizeWhitespace("ok\xffok")
	assert.True(t, utf8.ValidString(out))
	assert.Equal(t, "ok\uFFFDok", out)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "", Truncate("abc", 0))
	assert.Equal(t, "abc", Truncate("abc", 3))
	assert.Equal(t, "ab", Truncate("abc", 2))
	assert.Equal(t, "héll", Truncate("héllo", 4))
	assert.Equal(t, "日本", Truncate("日本語", 2))
}

func TestBound_Caps(t *testing.T) {
	long := strings.Repeat("word \n\t", 5000)

	target := Bound(long, MaxTargetChars)
	assert.LessOrEqual(t, utf8.RuneCountInString(target), MaxTargetChars)
	assert.NotContains(t, target, "\n")
	assert.NotContains(t, target, "  ")

	student := Bound(long, MaxStudentChars)
	assert.Equal(t, MaxStudentChars, utf8.RuneCountInString(student))
	assert.True(t, strings.HasPrefix(target, student))
}

func TestBound_MultibyteCap(t *testing.T) {
	long := strings.Repeat("é", MaxStudentChars+10)
	out := Bound(long, MaxStudentChars)
	assert.Equal(t, MaxStudentChars, utf8.RuneCountInString(out))
	assert.True(t, utf8.ValidString(out))
}
