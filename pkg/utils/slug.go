package utils

import (
	"regexp"
	"strings"
)

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases the input, collapses every run of characters
// outside [a-z0-9] into a single hyphen, and trims hyphens from both
// ends. "Tech Corp!" becomes "tech-corp".
func Slugify(name string) string {
	slug := strings.ToLower(name)
	slug = slugPattern.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
