package normalization

import (
	"strings"
)

// NormalizeEmail lowercases and trims an email address for storage and
// lookup.
func NormalizeEmail(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// NormalizeCode uppercases a catalog code such as a subject or program
// code.
func NormalizeCode(input string) string {
	return strings.ToUpper(strings.TrimSpace(input))
}

// NormalizeTerm lowercases a term name so "Fall" and "fall" compare equal.
func NormalizeTerm(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}
