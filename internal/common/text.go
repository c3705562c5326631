package common

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NFC returns s in Unicode normalization form C. Croatian letters such as
// "č" may arrive decomposed from macOS file systems.
func NFC(s string) string {
	return norm.NFC.String(s)
}

// FoldCase returns the NFC, case-folded form of s for ordering and comparison.
func FoldCase(s string) string {
	// Casers are stateful, so each call gets its own.
	return cases.Fold().String(NFC(s))
}

// StripDiacritics removes combining marks, so "konačna" becomes "konacna".
// The result is NFC.
func StripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return NFC(s)
	}
	// đ has no decomposition.
	return strings.NewReplacer("đ", "d", "Đ", "D").Replace(out)
}
