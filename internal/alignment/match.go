package alignment

import (
	"unicode/utf8"

	"github.com/listenupapp/listenup-narration/internal/normalize"
)

// fuzzyTolerance is the fraction of the longer word's length that may be edited
// before two words stop matching.
const fuzzyTolerance = 0.3

// WordsMatch reports whether a transcript word matches a script word.
// Both sides are normalised first. Short words need a near-exact match while
// long words tolerate edits up to 30% of their length (at least one edit).
func WordsMatch(candidate, target string) bool {
	c, t := normalize.Word(candidate), normalize.Word(target)
	if c == "" || t == "" {
		return false
	}
	if c == t {
		return true
	}

	maxLen := max(utf8.RuneCountInString(c), utf8.RuneCountInString(t))
	allowed := max(1, int(fuzzyTolerance*float64(maxLen)))
	return Levenshtein(c, t) <= allowed
}

// MatchConfidence scores the similarity of two words in [0, 1]:
// 1 for an exact normalised match, 0 when either side normalises to nothing.
func MatchConfidence(candidate, target string) float64 {
	c, t := normalize.Word(candidate), normalize.Word(target)
	if c == "" || t == "" {
		return 0
	}
	if c == t {
		return 1
	}

	maxLen := max(utf8.RuneCountInString(c), utf8.RuneCountInString(t))
	return max(0, 1-float64(Levenshtein(c, t))/float64(maxLen))
}
