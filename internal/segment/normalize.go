package segment

import (
	"strings"
	"unicode"
)

// Normalize lowercases text, strips punctuation and symbols, and collapses
// whitespace. It is the canonical form for quality and duplicate checks.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			continue
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// WordCount counts whitespace-separated words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// FirstWords returns the first n words of text and whether it was cut.
func FirstWords(text string, n int) (string, bool) {
	words := strings.Fields(text)
	if n <= 0 || len(words) <= n {
		return strings.Join(words, " "), false
	}
	return strings.Join(words[:n], " "), true
}
