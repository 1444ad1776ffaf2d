// Package ndc provides National Drug Code normalization and validation
// shared by the RxReturns server and SDK.
package ndc

import (
	"regexp"
	"strings"
)

// CanonicalLength is the digit count of a canonical 5-4-2 NDC.
const CanonicalLength = 11

// canonicalPattern matches the canonical 5-4-2 hyphenated form
var canonicalPattern = regexp.MustCompile(`^\d{5}-\d{4}-\d{2}$`)

// nonDigitRegex matches any separator or other non-digit character
var nonDigitRegex = regexp.MustCompile(`[^0-9]`)

// Normalize reformats a raw NDC string into the canonical XXXXX-XXXX-XX
// form. Separators (hyphens, spaces, dots) are stripped and hyphens are
// re-inserted at the 5-4-2 segment boundaries. Returns the empty string
// when the input does not contain exactly 11 digits.
func Normalize(raw string) string {
	digits := nonDigitRegex.ReplaceAllString(strings.TrimSpace(raw), "")
	if len(digits) != CanonicalLength {
		return ""
	}
	return digits[0:5] + "-" + digits[5:9] + "-" + digits[9:11]
}

// IsValidFormat reports whether s is already in the canonical
// XXXXX-XXXX-XX form.
func IsValidFormat(s string) bool {
	return canonicalPattern.MatchString(s)
}
