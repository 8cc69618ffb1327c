package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeText folds a string for fuzzy comparison: lower-case, trimmed,
// diacritics stripped, inner whitespace collapsed. "Café  com Leite" and
// "cafe com leite" normalize to the same value.
func NormalizeText(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	stripper := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if out, _, err := transform.String(stripper, s); err == nil {
		s = out
	}
	return strings.Join(strings.Fields(s), " ")
}

// DigitsOnly reduces a document number to its canonical digits-only form
// ("12.345.678/0001-95" -> "12345678000195").
func DigitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
