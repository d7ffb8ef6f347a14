package core

import (
	"regexp"
	"strings"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// CleanDescription normalizes a raw product description for matching and
// prompting: trademark symbols and non-breaking spaces are removed outright
// (so a mid-word mark does not split the word), whitespace runs collapse to
// one space, and the result is trimmed.
// Diagnostics should record the original text, not the cleaned form.
func CleanDescription(s string) string {
	if s == "" {
		return ""
	}
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '™', '®', '©', ' ':
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(cleaned, " "))
}
