package utils

import (
	"regexp"
	"strings"
)

// Slugs are lowercase alphanumeric and hyphens only, 2-64 chars.
var slugRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{1,63}$`)

// NormalizeSlug lowercases and trims a slug candidate.
func NormalizeSlug(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ValidSlug reports whether s is an acceptable URL slug.
func ValidSlug(s string) bool {
	return slugRegex.MatchString(s)
}
