package analyzer

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Tokenize splits text into sentences, words and paragraphs.
//
// Boundary rules:
//   - a sentence ends at every maximal run of '.', '!' or '?'; text after the
//     last run is not a sentence
//   - a word is a maximal run of ASCII letters, digits and '_'; any other byte
//     (including every byte of a multi-byte rune) separates words
//   - paragraphs are separated by a whitespace run holding at least two
//     newlines; blocks that are blank after trimming are dropped
func Tokenize(text string) Tokens {
	return Tokens{
		Sentences:  splitSentences(text),
		Words:      splitWords(text),
		Paragraphs: splitParagraphs(text),
	}
}

func isTerminator(b byte) bool {
	return b == '.' || b == '!' || b == '?'
}

func isWordByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}

func splitSentences(text string) []string {
	var sentences []string
	start := 0
	i := 0
	for i < len(text) {
		if !isTerminator(text[i]) {
			i++
			continue
		}
		for i < len(text) && isTerminator(text[i]) {
			i++
		}
		sentences = append(sentences, strings.TrimSpace(text[start:i]))
		start = i
	}
	return sentences
}

func splitWords(text string) []string {
	var words []string
	i := 0
	for i < len(text) {
		if !isWordByte(text[i]) {
			i++
			continue
		}
		start := i
		for i < len(text) && isWordByte(text[i]) {
			i++
		}
		words = append(words, text[start:i])
	}
	return words
}

func splitParagraphs(text string) []string {
	var paragraphs []string
	add := func(block string) {
		if block = strings.TrimSpace(block); block != "" {
			paragraphs = append(paragraphs, block)
		}
	}

	start := 0
	i := 0
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !unicode.IsSpace(r) {
			i += size
			continue
		}

		// Measure the whole whitespace run and count its newlines.
		runStart := i
		newlines := 0
		for i < len(text) {
			r, size = utf8.DecodeRuneInString(text[i:])
			if !unicode.IsSpace(r) {
				break
			}
			if r == '\n' {
				newlines++
			}
			i += size
		}
		if newlines >= 2 {
			add(text[start:runStart])
			start = i
		}
	}
	add(text[start:])
	return paragraphs
}
