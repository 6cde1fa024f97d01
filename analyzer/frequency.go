package analyzer

import (
	"slices"
	"strings"
)

// CountFrequencies builds a case-insensitive word table ranked by count.
// Words with equal counts keep the order in which they were first seen.
// The input slice is not modified.
func CountFrequencies(words []string) []WordCount {
	index := make(map[string]int, len(words))
	table := make([]WordCount, 0, len(words)/2+1)

	for _, w := range words {
		lower := strings.ToLower(w)
		if pos, ok := index[lower]; ok {
			table[pos].Count++
			continue
		}
		index[lower] = len(table)
		table = append(table, WordCount{Word: lower, Count: 1})
	}

	// table is in first-encounter order, so a stable sort keeps ties in that order
	slices.SortStableFunc(table, func(a, b WordCount) int {
		return b.Count - a.Count
	})
	return table
}

// TopK returns at most k entries of the ranked frequency table of words.
func TopK(words []string, k int) []WordCount {
	if k <= 0 {
		return []WordCount{}
	}
	return rank(CountFrequencies(words), k)
}

// rank cuts a table from CountFrequencies down to its first k entries
func rank(table []WordCount, k int) []WordCount {
	if k <= 0 {
		return []WordCount{}
	}
	return slices.Clip(table[:min(len(table), k)])
}
