// Package textutils provides text normalization helpers shared by the
// categorizer and the import pipeline.
package textutils

import (
	"regexp"
	"strings"
)

var (
	digits      = regexp.MustCompile(`[0-9]`)
	punctuation = regexp.MustCompile(`[^\w\s]`)
	whitespace  = regexp.MustCompile(`\s+`)
)

// NormalizeTitle reduces a transaction title to a merchant key: uppercase,
// digits and punctuation removed, whitespace collapsed. Titles that differ
// only by invoice numbers, dates or reference codes normalize to the same
// key, e.g. "ICA Supermarket #4211" and "ICA SUPERMARKET 17/01" both become
// "ICA SUPERMARKET".
func NormalizeTitle(title string) string {
	normalized := strings.ToUpper(title)
	normalized = digits.ReplaceAllString(normalized, "")
	normalized = punctuation.ReplaceAllString(normalized, "")
	normalized = strings.TrimSpace(normalized)
	return whitespace.ReplaceAllString(normalized, " ")
}
