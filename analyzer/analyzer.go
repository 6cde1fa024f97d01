// Package analyzer computes descriptive statistics, readability and
// lightweight SEO signals for a block of English text.
//
// Every function is pure over its inputs and safe for concurrent use. Analyze
// is total: it accepts any string, including the empty string, and never
// fails. Rejecting blank input is left to the caller.
package analyzer

import (
	"math"
	"unicode"
	"unicode/utf8"
)

const (
	wordsPerMinute = 200
	topWordCount   = 10
)

// Analyze runs the full pipeline over text and returns the assembled report
func Analyze(text string) Report {
	tokens := Tokenize(text)
	words := len(tokens.Words)

	basic := BasicCounts{
		Characters:         utf8.RuneCountInString(text),
		CharactersNoSpaces: countNonSpace(text),
		Words:              words,
		Sentences:          len(tokens.Sentences),
		Paragraphs:         len(tokens.Paragraphs),
		ReadingTime:        int(math.Ceil(float64(words) / wordsPerMinute)),
	}

	return Report{
		Basic:       basic,
		Readability: Score(basic.Sentences, words, basic.CharactersNoSpaces, AverageSyllables(tokens.Words)),
		WordFreq:    TopK(tokens.Words, topWordCount),
		SEO:         AnalyzeSEO(text, tokens.Words),
	}
}

func countNonSpace(text string) int {
	n := 0
	for _, r := range text {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}
