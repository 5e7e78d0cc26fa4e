// Package textutils provides text normalization used by rule matching and the
// statistical fallback model.
package textutils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// separatorReplacer maps the punctuation separators found in work-order
// descriptions to spaces so that "oleo/hidraulico" and "oleo-hidraulico" tokenize alike.
var separatorReplacer = strings.NewReplacer(
	"_", " ",
	"-", " ",
	".", " ",
	",", " ",
	";", " ",
	":", " ",
	"/", " ",
	`\`, " ",
)

// Normalize returns the canonical matching form of s: lower case, accents
// stripped, separators turned into spaces and whitespace collapsed.
// Normalize is pure and idempotent; the empty string maps to itself.
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	lowered := strings.ToLower(s)
	stripped := StripAccents(lowered)
	spaced := separatorReplacer.Replace(stripped)

	return strings.Join(strings.Fields(spaced), " ")
}

// StripAccents transliterates accented characters to their unaccented base
// ("hidráulico" -> "hidraulico", "ção" -> "cao"). Characters without a
// decomposition are kept as they are.
func StripAccents(s string) string {
	// transform.Chain keeps state, so a fresh chain is built per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Tokens splits the normalized form of s into words.
func Tokens(s string) []string {
	n := Normalize(s)
	if n == "" {
		return nil
	}
	return strings.Split(n, " ")
}
