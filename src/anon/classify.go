package anon

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/samber/lo"
)

// Classification selects the pseudonym generation strategy for a cell
// value. It is derived from the column name and the value shape, and is
// never persisted: once a (column, value) pair is mapped the stored
// pseudonym is returned as-is, so later classifier changes do not
// retroactively affect already-anonymized values.
type Classification int

const (
	ClassUTM Classification = iota
	ClassIdentifier
	ClassCategory
	ClassGeneric
)

func (c Classification) String() string {
	switch c {
	case ClassUTM:
		return "utm"
	case ClassIdentifier:
		return "identifier"
	case ClassCategory:
		return "category"
	case ClassGeneric:
		return "generic"
	default:
		return "unknown"
	}
}

// Column-name substrings that mark marketing/UTM-style columns.
var utmIndicators = []string{"utm_", "campaign", "source", "medium", "term", "content"}

// Classify maps (columnName, value) to a Classification. First match
// wins; the cascade order is semantically significant. The value must
// be non-empty - callers short-circuit empty cells before getting here.
func Classify(columnName, value string) Classification {
	if looksLikeUTM(columnName) {
		return ClassUTM
	}
	if looksLikeID(value) {
		return ClassIdentifier
	}
	if looksLikeCategory(value) {
		return ClassCategory
	}
	return ClassGeneric
}

func looksLikeUTM(columnName string) bool {
	columnLower := strings.ToLower(columnName)
	return lo.SomeBy(utmIndicators, func(indicator string) bool {
		return strings.Contains(columnLower, indicator)
	})
}

func looksLikeID(value string) bool {
	if utf8.RuneCountInString(value) > 20 { // long strings are often IDs
		return true
	}
	if strings.Count(value, "-") >= 2 { // UUID-like patterns
		return true
	}
	if strings.Count(value, "_") >= 2 && containsDigit(value) {
		return true
	}
	return false
}

// looksLikeCategory reports whether the value is a short enumerated
// token: at most 50 characters and, with spaces/hyphens/underscores
// stripped, entirely alphanumeric (and non-empty after stripping).
// IsNumber rather than IsDigit: alphanumeric includes all Unicode
// numerals (Roman numerals, fractions), not just decimal digits.
func looksLikeCategory(value string) bool {
	if utf8.RuneCountInString(value) > 50 {
		return false
	}
	stripped := 0
	for _, r := range value {
		if r == ' ' || r == '-' || r == '_' {
			continue
		}
		if !unicode.IsLetter(r) && !unicode.IsNumber(r) {
			return false
		}
		stripped++
	}
	return stripped > 0
}

func containsDigit(s string) bool {
	return strings.ContainsFunc(s, unicode.IsDigit)
}
