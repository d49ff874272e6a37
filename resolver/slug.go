package resolver

import (
	"regexp"
	"strings"
)

var (
	slugStrip  = regexp.MustCompile(`[^a-zA-Z0-9_\s-]`)
	whitespace = regexp.MustCompile(`\s+`)
)

const (
	bestPrefix  = "best-"
	comparedSfx = "-compared"
)

// Slugify derives a URL slug from a title: lower-cased, punctuation
// stripped, whitespace runs collapsed to single hyphens.
func Slugify(title string) string {
	s := strings.ToLower(title)
	s = slugStrip.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(strings.TrimSpace(s), "-")
	return s
}

// InferCategory extracts a candidate category phrase from an identifier
// like "best-wireless-earbuds-compared" -> "wireless earbuds".
func InferCategory(identifier string) string {
	s := strings.TrimPrefix(identifier, bestPrefix)
	s = strings.TrimSuffix(s, comparedSfx)
	return strings.ReplaceAll(s, "-", " ")
}
