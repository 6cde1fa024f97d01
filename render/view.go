// Package render turns an analysis report into something a person reads: a
// view model for the web front end and a styled terminal summary.
package render

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/text-analyzer/backend/analyzer"
)

// frequentWordRows is how many frequency bars the view shows
const frequentWordRows = 8

// View is the presentation model of a Report
type View struct {
	Cards       []Card          `json:"cards"`
	Readability ReadabilityView `json:"readability"`
	SEO         []Row           `json:"seo"`
	Keywords    []KeywordRow    `json:"keywords"`
	Frequent    []FrequencyBar  `json:"frequent"`
}

// Card is one headline metric
type Card struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Row is a label/value line of a detail section
type Row struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type ReadabilityView struct {
	Badge string `json:"badge"` // "94.3 - Very Easy"
	Class string `json:"class"` // CSS class for the badge
	Rows  []Row  `json:"rows"`
}

type KeywordRow struct {
	Word    string `json:"word"`
	Times   string `json:"times"`
	Density string `json:"density"`
}

// FrequencyBar is a frequent word with its bar width relative to the most frequent one
type FrequencyBar struct {
	Word    string  `json:"word"`
	Times   string  `json:"times"`
	Percent float64 `json:"percent"`
}

// Build creates the View for a report
func Build(r analyzer.Report) View {
	grade := r.Readability.Grade
	score := formatScore(r.Readability.FleschScore)

	v := View{
		Cards: []Card{
			{humanize.Comma(int64(r.Basic.Words)), "Words"},
			{humanize.Comma(int64(r.Basic.Characters)), "Characters"},
			{humanize.Comma(int64(r.Basic.Sentences)), "Sentences"},
			{humanize.Comma(int64(r.Basic.Paragraphs)), "Paragraphs"},
			{humanize.Comma(int64(r.Basic.ReadingTime)), "Min Read"},
			{score, "Readability"},
		},
		Readability: ReadabilityView{
			Badge: score + " - " + grade.Label,
			Class: "score-" + string(grade.Severity),
			Rows: []Row{
				{"Average Words per Sentence", fmt.Sprintf("%.1f", r.Readability.AvgWordsPerSentence)},
				{"Average Characters per Word", fmt.Sprintf("%.1f", r.Readability.AvgCharsPerWord)},
				{"Estimated Syllables per Word", fmt.Sprintf("%.1f", r.Readability.AvgSyllablesPerWord)},
			},
		},
		SEO: []Row{
			{"Keyword Diversity", fmt.Sprintf("%d unique keywords", r.SEO.KeywordDiversity)},
			{"Headings Found", fmt.Sprint(r.SEO.HeadingCount)},
			{"Links Found", fmt.Sprint(r.SEO.LinkCount)},
		},
		Keywords: make([]KeywordRow, 0, len(r.SEO.TopKeywords)),
		Frequent: make([]FrequencyBar, 0, frequentWordRows),
	}

	for _, k := range r.SEO.TopKeywords {
		v.Keywords = append(v.Keywords, KeywordRow{
			Word:    k.Word,
			Times:   times(k.Count),
			Density: fmt.Sprintf("%.2f%% density", k.Density),
		})
	}

	for i, wc := range r.WordFreq {
		if i == frequentWordRows {
			break
		}
		v.Frequent = append(v.Frequent, FrequencyBar{
			Word:    wc.Word,
			Times:   times(wc.Count),
			Percent: float64(wc.Count) / float64(r.WordFreq[0].Count) * 100,
		})
	}

	return v
}

func formatScore(score float64) string {
	return fmt.Sprintf("%.1f", score)
}

func times(n int) string {
	return humanize.Comma(int64(n)) + " times"
}
