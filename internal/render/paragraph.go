package render

import (
	"regexp"
	"strings"
)

var paragraphBreak = regexp.MustCompile(`\n{2,}`)

// Paragraphs wraps blank-line separated blocks in <p> tags and turns the
// remaining single newlines into <br>. The input must already be escaped.
func Paragraphs(text string) string {
	text = normalizeNewlines(text)

	var b strings.Builder
	for _, block := range paragraphBreak.Split(text, -1) {
		block = strings.Trim(block, "\n")
		if strings.TrimSpace(block) == "" {
			continue
		}
		b.WriteString("<p>")
		b.WriteString(strings.ReplaceAll(block, "\n", "<br>"))
		b.WriteString("</p>")
	}
	return b.String()
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
