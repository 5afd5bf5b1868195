package text

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PlainText strips markup from user-supplied text. Spaces and tabs collapse
// within each line; line breaks survive, with blank-line runs kept to one.
// Listing descriptions and chat messages are rendered by clients as plain text.
func PlainText(s string) string {
	if strings.ContainsAny(s, "<&") {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(s)); err == nil {
			doc.Find("script, style").Remove()
			doc.Find("br").ReplaceWithHtml("\n")
			doc.Find("p, div, li, h1, h2, h3, h4, h5, h6, tr").AppendHtml("\n")
			s = doc.Text()
		}
	}
	return normalizeLines(s)
}

// SingleLine is PlainText for one-line fields such as names and titles.
func SingleLine(s string) string {
	return strings.Join(strings.Fields(PlainText(s)), " ")
}

func normalizeLines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			blank = len(out) > 0
			continue
		}
		if blank {
			out = append(out, "")
			blank = false
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
