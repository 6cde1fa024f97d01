// Package htmltext flattens an HTML document into plain text the analyzer
// understands: headings become Markdown "#" lines, blocks become paragraphs
// separated by blank lines and absolute link targets are kept as bare URLs.
package htmltext

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// elements whose content never reaches the reader
const skipped = "script, style, noscript, template, head"

var headingLevels = map[string]int{
	"h1": 1, "h2": 2, "h3": 3, "h4": 4, "h5": 5, "h6": 6,
}

var blockElements = map[string]bool{
	"p": true, "div": true, "section": true, "article": true, "main": true,
	"header": true, "footer": true, "aside": true, "nav": true,
	"blockquote": true, "pre": true, "ul": true, "ol": true, "li": true,
	"table": true, "tr": true, "figure": true, "figcaption": true,
	"dl": true, "dt": true, "dd": true, "hr": true,
}

// Extract reads an HTML document from r and returns its readable text
func Extract(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("failed to parse html: %w", err)
	}
	doc.Find(skipped).Remove()

	w := &writer{}
	w.walk(doc.Find("body"))
	return strings.TrimSpace(w.String()), nil
}

// ExtractString is Extract over an in-memory document
func ExtractString(html string) (string, error) {
	return Extract(strings.NewReader(html))
}

type writer struct {
	strings.Builder
	pendingSpace bool
}

func (w *writer) walk(sel *goquery.Selection) {
	sel.Contents().Each(func(_ int, s *goquery.Selection) {
		name := goquery.NodeName(s)
		switch {
		case name == "#text":
			w.text(s.Text())
		case name == "br":
			w.newline()
		case headingLevels[name] > 0:
			w.heading(headingLevels[name], s)
		case name == "a":
			w.walk(s)
			w.link(s)
		case blockElements[name]:
			w.paragraphBreak()
			w.walk(s)
			w.paragraphBreak()
		default:
			w.walk(s)
		}
	})
}

// text writes a run of text with its whitespace collapsed to single spaces
func (w *writer) text(raw string) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		if raw != "" {
			w.pendingSpace = true
		}
		return
	}
	if startsWithSpace(raw) {
		w.pendingSpace = true
	}
	w.flushSpace()
	w.WriteString(strings.Join(fields, " "))
	w.pendingSpace = endsWithSpace(raw)
}

func (w *writer) heading(level int, s *goquery.Selection) {
	title := strings.Join(strings.Fields(s.Text()), " ")
	if title == "" {
		return
	}
	w.paragraphBreak()
	w.WriteString(strings.Repeat("#", level))
	w.WriteByte(' ')
	w.WriteString(title)
	w.paragraphBreak()
}

func (w *writer) link(s *goquery.Selection) {
	href, ok := s.Attr("href")
	if !ok {
		return
	}
	href = strings.TrimSpace(href)
	lower := strings.ToLower(href)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return
	}
	// the anchor text already is the URL
	if strings.TrimSpace(s.Text()) == href {
		return
	}
	w.pendingSpace = true
	w.flushSpace()
	w.WriteString(strings.Join(strings.Fields(href), ""))
	w.pendingSpace = true
}

func (w *writer) flushSpace() {
	if w.pendingSpace && w.Len() > 0 && !w.atLineStart() {
		w.WriteByte(' ')
	}
	w.pendingSpace = false
}

func (w *writer) newline() {
	w.pendingSpace = false
	if w.Len() > 0 {
		w.WriteByte('\n')
	}
}

func (w *writer) paragraphBreak() {
	w.pendingSpace = false
	if w.Len() == 0 {
		return
	}
	s := w.String()
	switch {
	case strings.HasSuffix(s, "\n\n"):
	case strings.HasSuffix(s, "\n"):
		w.WriteByte('\n')
	default:
		w.WriteString("\n\n")
	}
}

func (w *writer) atLineStart() bool {
	s := w.String()
	return s == "" || s[len(s)-1] == '\n'
}

func startsWithSpace(s string) bool {
	return s != "" && strings.TrimLeft(s, " \t\r\n\f") != s
}

func endsWithSpace(s string) bool {
	return s != "" && strings.TrimRight(s, " \t\r\n\f") != s
}
