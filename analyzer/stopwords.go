package analyzer

import (
	"slices"
	"strings"
)

// stopWords are English function words excluded from keyword ranking.
// The set is never modified after init.
var stopWords = func() map[string]struct{} {
	list := []string{
		"the", "a", "an", "and", "or", "but", "in", "on", "at", "to",
		"for", "of", "with", "by", "is", "are", "was", "were", "be", "been",
		"being", "have", "has", "had", "do", "does", "did", "will", "would", "could",
		"should", "this", "that", "these", "those",
	}
	m := make(map[string]struct{}, len(list))
	for _, w := range list {
		m[w] = struct{}{}
	}
	return m
}()

// IsStopWord reports whether word is a stop word, ignoring case.
func IsStopWord(word string) bool {
	_, ok := stopWords[strings.ToLower(word)]
	return ok
}

// StopWords returns the stop-word list in sorted order.
func StopWords() []string {
	out := make([]string, 0, len(stopWords))
	for w := range stopWords {
		out = append(out, w)
	}
	slices.Sort(out)
	return out
}
