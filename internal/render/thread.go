package render

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// quoteMarker matches a reply attribution line such as
// "On Mon, 3 Jun 2024 at 10:00, Ann <ann@example.com> wrote:".
var quoteMarker = regexp.MustCompile(`^On .* wrote:$`)

const (
	quoteOpen  = `<blockquote class="quoted-reply">`
	quoteClose = `</blockquote>`
)

// IsQuoteMarker reports whether line is a reply attribution line.
func IsQuoteMarker(line string) bool {
	return quoteMarker.MatchString(strings.TrimSpace(line))
}

// segment is a run of lines that share a quote depth. Every segment after the
// first starts with its marker line.
type segment struct {
	depth int
	lines []string
}

// splitThread cuts text at every marker line. Segment n sits at depth n.
func splitThread(text string) []segment {
	lines := strings.Split(normalizeNewlines(text), "\n")

	segments := []segment{{depth: 0}}
	for _, line := range lines {
		if IsQuoteMarker(line) {
			segments = append(segments, segment{depth: len(segments)})
		}
		cur := &segments[len(segments)-1]
		cur.lines = append(cur.lines, line)
	}
	return segments
}

// collapsePlain formats each thread segment with format and nests every
// segment after the first inside one more blockquote than the last.
func collapsePlain(text string, format func(string) string) string {
	segments := splitThread(text)

	var b strings.Builder
	for i, seg := range segments {
		if i > 0 {
			b.WriteString(quoteOpen)
		}
		b.WriteString(format(strings.Join(seg.lines, "\n")))
	}
	for i := 1; i < len(segments); i++ {
		b.WriteString(quoteClose)
	}
	return b.String()
}

// CollapseThreads wraps each marker line of already-built markup, and all
// that follows it, in a nested blockquote. Any blockquote still open at the
// end of input is closed, and the result is re-balanced so a marker inside a
// container element cannot leave stray tags behind.
func CollapseThreads(markup string) string {
	lines := strings.Split(normalizeNewlines(markup), "\n")

	open := 0
	for i, line := range lines {
		if IsQuoteMarker(line) {
			lines[i] = quoteOpen + line
			open++
		}
	}
	if open == 0 {
		return markup
	}

	out := strings.Join(lines, "\n") + strings.Repeat(quoteClose, open)
	return balance(out)
}

// balance parses markup as a body fragment and renders it back, which closes
// every element exactly once. On a parse failure the input is returned.
func balance(markup string) string {
	ctx := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(markup), ctx)
	if err != nil {
		return markup
	}

	var b strings.Builder
	for _, n := range nodes {
		if err := html.Render(&b, n); err != nil {
			return markup
		}
	}
	return b.String()
}
