package domain

import (
	"regexp"
	"strings"
)

var whitespaceOrUnderscoreRun = regexp.MustCompile(`[\s_]+`)

// Normalize canonicalizes a free-text term into the matching key used across
// the corpus: trimmed, lowercased, with every run of whitespace or underscores
// collapsed to a single underscore and no leading or trailing underscores.
//
// The ingestion path applies the same function to stored terms, so a query-time
// canonical form matches the stored form byte-for-byte. Keep this the only
// place that defines canonicalization.
//
// Empty input normalizes to the empty string, which callers treat as
// "no match" rather than an error. Normalize is idempotent.
func Normalize(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = whitespaceOrUnderscoreRun.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}
