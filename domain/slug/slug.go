// Package slug turns free-text titles into URL-safe identifiers.
package slug

import (
	"regexp"
	"strings"
)

// MaxLength is the longest slug the normalizer will produce.
const MaxLength = 80

var (
	invalidChars    = regexp.MustCompile(`[^a-z0-9\s-]`)
	whitespaceRuns  = regexp.MustCompile(`\s+`)
	hyphenRuns      = regexp.MustCompile(`-+`)
)

// Normalize converts a title into its base slug form: lowercase, URL-safe
// characters only, whitespace collapsed to single hyphens, truncated to
// MaxLength. The result may be empty when the title has no usable characters.
func Normalize(title string) string {
	s := strings.ToLower(title)
	s = invalidChars.ReplaceAllString(s, "")
	s = whitespaceRuns.ReplaceAllString(s, "-")
	s = hyphenRuns.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	if len(s) > MaxLength {
		s = s[:MaxLength]
		s = strings.TrimRight(s, "-")
	}
	return s
}
