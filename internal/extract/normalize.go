// Package extract pulls dates, times and free-text entities out of a user
// utterance. Every function is pure and never fails: absence is reported with
// a false flag or a documented fallback value.
package extract

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold lowercases s and strips diacritics, so "Reunión" and "reunion" compare
// equal. A new transformer is built per call; transformers are stateful.
func Fold(s string) string {
	lower := strings.ToLower(s)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, lower)
	if err != nil {
		return lower
	}
	return out
}

// Normalize folds s and reduces it to space separated words padded with a
// leading and trailing space. Use HasPhrase to search the result.
func Normalize(s string) string {
	folded := Fold(s)
	var b strings.Builder
	b.Grow(len(folded) + 2)
	b.WriteByte(' ')
	lastSpace := true
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastSpace = false
			continue
		}
		if !lastSpace {
			b.WriteByte(' ')
			lastSpace = true
		}
	}
	if !lastSpace {
		b.WriteByte(' ')
	}
	return b.String()
}

// HasPhrase reports whether the normalized text contains phrase as whole
// words. phrase is normalized the same way, so accents are optional.
func HasPhrase(normalized, phrase string) bool {
	p := Normalize(phrase)
	if strings.TrimSpace(p) == "" {
		return false
	}
	return strings.Contains(normalized, p)
}

// HasWordPrefix reports whether the normalized text contains phrase at the
// start of a word, so "emergencia" also finds "emergencias" and "cita" finds
// "citas". The phrase's last word may be inflected; earlier words must match
// whole.
func HasWordPrefix(normalized, phrase string) bool {
	p := strings.TrimRight(Normalize(phrase), " ")
	if strings.TrimSpace(p) == "" {
		return false
	}
	return strings.Contains(normalized, p)
}

// HasAnyWordPrefix reports whether any of phrases starts a word in normalized.
func HasAnyWordPrefix(normalized string, phrases ...string) bool {
	for _, p := range phrases {
		if HasWordPrefix(normalized, p) {
			return true
		}
	}
	return false
}

// HasAnyPhrase reports whether any of phrases occurs in normalized.
func HasAnyPhrase(normalized string, phrases ...string) bool {
	for _, p := range phrases {
		if HasPhrase(normalized, p) {
			return true
		}
	}
	return false
}

// Truncate shortens s to at most n runes, appending "..." when it cut.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
