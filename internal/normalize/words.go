// Package normalize provides text normalisation shared by the alignment engine
// and the transcription client.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Word normalises a single word for comparison: lower-cases it and drops every
// character that is not a letter, digit or apostrophe.
// "Hello," -> "hello", "It’s" -> "it's", "--" -> "".
func Word(word string) string {
	return strings.TrimSpace(strings.Map(keepWordRune, fold(word)))
}

// Tokenize splits sentence text into normalised tokens. Punctuation other than
// apostrophes is removed, tokens are split on whitespace and empty tokens are
// dropped.
// "Hello, world!" -> ["hello", "world"].
func Tokenize(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		return keepWordRune(r)
	}, fold(text))

	return strings.Fields(cleaned)
}

// fold composes the string to NFC, unifies typographic apostrophes and
// lower-cases it. A new Caser is built per call because Casers are stateful.
func fold(s string) string {
	if s == "" {
		return ""
	}
	s = norm.NFC.String(s)
	s = strings.Map(func(r rune) rune {
		switch r {
		case '’', '‘', 'ʼ':
			return '\''
		}
		return r
	}, s)
	return cases.Lower(language.Und).String(s)
}

func keepWordRune(r rune) rune {
	if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' {
		return r
	}
	return -1
}
