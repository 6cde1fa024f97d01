package analyzer

// Report represents the complete analysis of a block of text
type Report struct {
	Basic       BasicCounts `json:"basic"`
	Readability Readability `json:"readability"`
	WordFreq    []WordCount `json:"wordFreq"`
	SEO         SEOMetrics  `json:"seo"`
}

// BasicCounts holds the raw counts taken directly from the document
type BasicCounts struct {
	Characters         int `json:"characters"`
	CharactersNoSpaces int `json:"charactersNoSpaces"`
	Words              int `json:"words"`
	Sentences          int `json:"sentences"`
	Paragraphs         int `json:"paragraphs"`
	ReadingTime        int `json:"readingTime"` // minutes at 200 words per minute
}

type Readability struct {
	FleschScore         float64 `json:"fleschScore"`
	AvgWordsPerSentence float64 `json:"avgWordsPerSentence"`
	AvgCharsPerWord     float64 `json:"avgCharsPerWord"`
	AvgSyllablesPerWord float64 `json:"avgSyllablesPerWord"`
	Grade               Grade   `json:"grade"`
}

// Grade is the human label for a Flesch score
type Grade struct {
	Label    string   `json:"label"`
	Severity Severity `json:"severity"`
}

// Severity is a coarse styling tier for a Grade. It carries no analytic meaning.
type Severity string

const (
	SeverityExcellent Severity = "excellent"
	SeverityGood      Severity = "good"
	SeverityFair      Severity = "fair"
	SeverityPoor      Severity = "poor"
)

// WordCount is one entry of a ranked frequency table
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

type SEOMetrics struct {
	TopKeywords      []Keyword `json:"topKeywords"`
	HeadingCount     int       `json:"headingCount"`
	LinkCount        int       `json:"linkCount"`
	KeywordDiversity int       `json:"keywordDiversity"`
}

// Keyword is a ranked keyword with its density across the whole document
type Keyword struct {
	Word    string  `json:"word"`
	Count   int     `json:"count"`
	Density float64 `json:"density"` // percent of all words, two decimals
}

// Tokens are the three independent token streams derived from a document
type Tokens struct {
	Sentences  []string
	Words      []string
	Paragraphs []string
}
