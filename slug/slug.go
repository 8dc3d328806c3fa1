// Package slug turns titles into URL-safe identifiers.
package slug

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// disallowed matches anything that is not a word character, whitespace or hyphen.
	disallowed = regexp.MustCompile(`[^a-z0-9_\s\v\x{FEFF}\p{Z}-]`)
	// separators collapses runs of whitespace, underscores and hyphens.
	separators = regexp.MustCompile(`[\s\v\x{FEFF}\p{Z}_-]+`)
)

// Generate creates a URL-friendly slug from s.
// Example: "Hello, World! 2026" -> "hello-world-2026"
func Generate(s string) string {
	result := strings.ToLower(s)
	result = disallowed.ReplaceAllString(result, "")
	result = separators.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

// Unique returns base when it is free, otherwise the first of base-1,
// base-2, ... for which taken reports false.
func Unique(base string, taken func(string) bool) string {
	candidate := base
	for n := 1; taken(candidate); n++ {
		candidate = base + "-" + strconv.Itoa(n)
	}
	return candidate
}
