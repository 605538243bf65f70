package score

import (
	"math"
	"unicode/utf8"

	"github.com/antzucaro/matchr"
)

// Distance returns the Levenshtein edit distance between a and b.
// Symmetric; zero iff a == b.
func Distance(a, b string) int {
	return matchr.Levenshtein(a, b)
}

// Similarity returns the normalized inverse edit distance between a and b as
// an integer in [0,100]. Two empty strings are defined as fully similar.
func Similarity(a, b string) int {
	maxLen := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if maxLen == 0 {
		return 100
	}
	d := float64(Distance(a, b)) / float64(maxLen)
	return int(math.Round(math.Max(0, 1-d) * 100))
}
