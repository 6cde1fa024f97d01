package analyzer

import "math"

// Flesch Reading Ease coefficients
const (
	fleschBase          = 206.835
	fleschSentenceCoeff = 1.015
	fleschSyllableCoeff = 84.6
)

// grades is ordered from the highest threshold down; the first match wins.
var grades = []struct {
	min   float64
	grade Grade
}{
	{90, Grade{"Very Easy", SeverityExcellent}},
	{80, Grade{"Easy", SeverityExcellent}},
	{70, Grade{"Fairly Easy", SeverityGood}},
	{60, Grade{"Standard", SeverityGood}},
	{50, Grade{"Fairly Difficult", SeverityFair}},
	{30, Grade{"Difficult", SeverityPoor}},
}

var veryDifficult = Grade{"Very Difficult", SeverityPoor}

// Score computes the Flesch Reading Ease score and the per-word and
// per-sentence averages. Zero counts produce zero averages; the score is
// clamped into [0, 100] and rounded to one decimal.
func Score(sentences, words, charsNoSpaces int, avgSyllables float64) Readability {
	var wordsPerSentence, charsPerWord float64
	if sentences > 0 {
		wordsPerSentence = round(float64(words)/float64(sentences), 1)
	}
	if words > 0 {
		charsPerWord = round(float64(charsNoSpaces)/float64(words), 1)
	}

	// the rounded sentence length feeds the formula, the syllable average does not
	flesch := fleschBase - fleschSentenceCoeff*wordsPerSentence - fleschSyllableCoeff*avgSyllables
	flesch = round(clamp(flesch, 0, 100), 1)

	return Readability{
		FleschScore:         flesch,
		AvgWordsPerSentence: wordsPerSentence,
		AvgCharsPerWord:     charsPerWord,
		AvgSyllablesPerWord: round(avgSyllables, 1),
		Grade:               Classify(flesch),
	}
}

// Classify maps a Flesch score to its label and severity tier.
func Classify(score float64) Grade {
	for _, g := range grades {
		if score >= g.min {
			return g.grade
		}
	}
	return veryDifficult
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

// round rounds v half away from zero to the given number of decimals
func round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
