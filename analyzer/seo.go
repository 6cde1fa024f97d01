package analyzer

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	topKeywordCount = 5
	minKeywordLen   = 3
	maxHeadingLevel = 6
)

// AnalyzeSEO derives keyword density and structural counts from text and its
// word stream. Density is measured against every word in the document, stop
// words included.
func AnalyzeSEO(text string, words []string) SEOMetrics {
	meaningful := make([]string, 0, len(words))
	for _, w := range words {
		if len(w) >= minKeywordLen && !IsStopWord(w) {
			meaningful = append(meaningful, w)
		}
	}

	ranked := CountFrequencies(meaningful)
	top := rank(ranked, topKeywordCount)

	keywords := make([]Keyword, 0, len(top))
	for _, wc := range top {
		keywords = append(keywords, Keyword{
			Word:    wc.Word,
			Count:   wc.Count,
			Density: round(float64(wc.Count)/float64(len(words))*100, 2),
		})
	}

	return SEOMetrics{
		TopKeywords:      keywords,
		HeadingCount:     CountHeadings(text),
		LinkCount:        CountLinks(text),
		KeywordDiversity: len(ranked),
	}
}

// CountHeadings counts Markdown ATX heading lines: one to six '#' at the very
// start of a line, one whitespace character, then at least one more character
// on the same line. Both "\n" and "\r" end a line.
func CountHeadings(text string) int {
	count := 0
	for _, line := range strings.FieldsFunc(text, func(r rune) bool { return r == '\n' || r == '\r' }) {
		if isHeading(line) {
			count++
		}
	}
	return count
}

func isHeading(line string) bool {
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level == 0 || level > maxHeadingLevel || level == len(line) {
		return false
	}
	r, size := utf8.DecodeRuneInString(line[level:])
	return unicode.IsSpace(r) && len(line) > level+size
}

// CountLinks counts non-overlapping http:// or https:// URLs, matched without
// regard to case. A URL runs until the next whitespace character and needs at
// least one character after the scheme.
func CountLinks(text string) int {
	count := 0
	i := 0
	for i < len(text) {
		n := schemeLen(text[i:])
		if n == 0 {
			i++
			continue
		}
		end := i + n
		for end < len(text) {
			r, size := utf8.DecodeRuneInString(text[end:])
			if unicode.IsSpace(r) {
				break
			}
			end += size
		}
		if end == i+n {
			i++
			continue
		}
		count++
		i = end
	}
	return count
}

func schemeLen(s string) int {
	for _, scheme := range []string{"http://", "https://"} {
		if len(s) >= len(scheme) && strings.EqualFold(s[:len(scheme)], scheme) {
			return len(scheme)
		}
	}
	return 0
}
