// Package scoring holds the pure heuristics of the enrichment pipeline:
// keyword matching, importance, quadrant classification and the SPDI axes.
package scoring

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize lower-cases s and strips diacritics ("Régulation" -> "regulation").
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// ContainsNormalized reports whether needle occurs in haystack once both are normalized.
// An empty needle never matches.
func ContainsNormalized(haystack, needle string) bool {
	n := Normalize(strings.TrimSpace(needle))
	if n == "" {
		return false
	}
	return strings.Contains(Normalize(haystack), n)
}
