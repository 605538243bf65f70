package score

import "strings"

// punctuation stripped from words before comparison. Matches the set the
// practice UI treats as display-only: ASCII sentence punctuation plus curly
// double quotes that recognition engines occasionally emit.
var punctuation = strings.NewReplacer(
	".", "", ",", "", "!", "", "?", "", ";", "", ":", "",
	`"`, "", "“", "", "”", "",
)

// NormalizeWord lowercases w and strips the comparison punctuation set.
// Original casing and punctuation stay untouched in feedback output; the
// normalized form exists only for equality and distance checks.
func NormalizeWord(w string) string {
	if w == "" {
		return ""
	}
	return punctuation.Replace(strings.ToLower(w))
}

// Tokenize splits s on whitespace into an ordered word sequence, dropping
// empty tokens.
func Tokenize(s string) []string {
	return strings.Fields(s)
}
