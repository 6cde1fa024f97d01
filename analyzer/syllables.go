package analyzer

import "strings"

// Syllables estimates the syllable count of a single word.
//
// The estimate is approximate: it counts runs of the vowels a, e, i, o, u and
// y, drops one for a trailing 'e' when there is more than one run, and never
// returns less than 1.
func Syllables(word string) int {
	lower := strings.ToLower(word)

	groups := 0
	inVowels := false
	for i := 0; i < len(lower); i++ {
		if isVowel(lower[i]) {
			if !inVowels {
				groups++
			}
			inVowels = true
			continue
		}
		inVowels = false
	}

	// silent e
	if strings.HasSuffix(lower, "e") && groups > 1 {
		groups--
	}
	return max(groups, 1)
}

// AverageSyllables returns the mean Syllables estimate over words, or 0 when
// there are no words.
func AverageSyllables(words []string) float64 {
	if len(words) == 0 {
		return 0
	}
	total := 0
	for _, w := range words {
		total += Syllables(w)
	}
	return float64(total) / float64(len(words))
}

func isVowel(b byte) bool {
	switch b {
	case 'a', 'e', 'i', 'o', 'u', 'y':
		return true
	}
	return false
}
