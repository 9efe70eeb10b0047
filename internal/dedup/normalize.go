package dedup

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeName lowercases, trims and collapses internal whitespace so
// that "  Raj   Shah " and "raj shah" compare equal. Text is NFC
// composed first so native-script names typed with different input
// methods match.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(norm.NFC.String(name))), " ")
}

// NormalizeMobile keeps only the digits of a phone number
func NormalizeMobile(mobile string) string {
	var b strings.Builder
	b.Grow(len(mobile))
	for _, r := range mobile {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
