package slugs

import (
	"regexp"
	"strings"
)

var (
	nonSlugChars     = regexp.MustCompile(`[^a-z0-9\s-]`)
	whitespaceRuns   = regexp.MustCompile(`[\s-]+`)
	nonFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)
)

// Slugify derives a URL-safe identifier from a title. It lower-cases the
// input, strips any character outside [a-z0-9\s], and collapses whitespace
// runs into single hyphens. The result is used as the primary key for
// published content, so it must be deterministic: the same title always
// yields the same slug.
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = nonSlugChars.ReplaceAllString(s, "")
	s = whitespaceRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// SanitizeFilename replaces any character outside [A-Za-z0-9.-] with an
// underscore so the name is safe as a storage object path segment.
func SanitizeFilename(name string) string {
	return nonFilenameChars.ReplaceAllString(name, "_")
}
