package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/text-analyzer/backend/analyzer"
)

const barWidth = 20

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
	labelStyle   = lipgloss.NewStyle().Faint(true)
	valueStyle   = lipgloss.NewStyle().Bold(true)
	barStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	severityTint = map[analyzer.Severity]lipgloss.Color{
		analyzer.SeverityExcellent: lipgloss.Color("42"),
		analyzer.SeverityGood:      lipgloss.Color("34"),
		analyzer.SeverityFair:      lipgloss.Color("214"),
		analyzer.SeverityPoor:      lipgloss.Color("196"),
	}
)

// Terminal renders a report as a plain-text summary for the CLI
func Terminal(r analyzer.Report) string {
	v := Build(r)
	var b strings.Builder

	cards := make([]string, 0, len(v.Cards))
	for _, c := range v.Cards {
		cards = append(cards, valueStyle.Render(c.Value)+" "+labelStyle.Render(c.Label))
	}
	b.WriteString(strings.Join(cards, "  ·  "))
	b.WriteString("\n\n")

	badge := lipgloss.NewStyle().Bold(true).Foreground(severityTint[r.Readability.Grade.Severity])
	section(&b, "Readability Analysis")
	row(&b, "Flesch Reading Ease", badge.Render(v.Readability.Badge))
	for _, rw := range v.Readability.Rows {
		row(&b, rw.Label, rw.Value)
	}

	section(&b, "SEO Metrics")
	for _, rw := range v.SEO {
		row(&b, rw.Label, rw.Value)
	}

	if len(v.Keywords) > 0 {
		section(&b, "Top Keywords")
		for _, k := range v.Keywords {
			row(&b, fmt.Sprintf("%s (%s)", k.Word, k.Times), k.Density)
		}
	}

	if len(v.Frequent) > 0 {
		section(&b, "Most Frequent Words")
		for _, f := range v.Frequent {
			filled := int(f.Percent / 100 * barWidth)
			bar := barStyle.Render(strings.Repeat("█", filled)) + strings.Repeat("░", barWidth-filled)
			row(&b, f.Word, bar+" "+f.Times)
		}
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

func section(b *strings.Builder, title string) {
	if !strings.HasSuffix(b.String(), "\n\n") {
		b.WriteByte('\n')
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteByte('\n')
}

func row(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "  %-32s %s\n", label, value)
}
