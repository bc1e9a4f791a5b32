package render

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/x/ansi"
	"golang.org/x/net/html"
)

const quoteGutter = "│ "

// block is one wrapped paragraph of terminal output at a quote depth.
type block struct {
	text  string
	depth int
	pre   bool
}

type termWriter struct {
	blocks []block
	buf    strings.Builder
	depth  int
	pre    int
}

func (w *termWriter) flush() {
	text := w.buf.String()
	w.buf.Reset()
	if strings.TrimSpace(text) == "" {
		return
	}
	if w.pre == 0 {
		text = collapseSpaces(text)
	}
	w.blocks = append(w.blocks, block{text: text, depth: w.depth, pre: w.pre > 0})
}

func (w *termWriter) walk(sel *goquery.Selection) {
	sel.Contents().Each(func(_ int, s *goquery.Selection) {
		node := s.Get(0)
		if node.Type == html.TextNode {
			w.buf.WriteString(node.Data)
			return
		}
		if node.Type != html.ElementNode {
			return
		}

		switch goquery.NodeName(s) {
		case "br":
			w.buf.WriteString("\n")
		case "hr":
			w.flush()
			w.blocks = append(w.blocks, block{text: "───", depth: w.depth})
		case "img":
			alt, _ := s.Attr("alt")
			if alt == "" {
				alt = "image"
			}
			w.buf.WriteString("[" + alt + "]")
		case "a":
			text := strings.TrimSpace(s.Text())
			href, _ := s.Attr("href")
			w.buf.WriteString(text)
			if title, ok := s.Attr("title"); ok && title != "" {
				href = title
			}
			if href != "" && href != text && !strings.HasPrefix(href, "mailto:") {
				w.buf.WriteString(" <" + href + ">")
			}
		case "blockquote":
			w.flush()
			w.depth++
			w.walk(s)
			w.flush()
			w.depth--
		case "pre":
			w.flush()
			w.pre++
			w.walk(s)
			w.flush()
			w.pre--
		case "li":
			w.flush()
			w.buf.WriteString("• ")
			w.walk(s)
			w.flush()
		case "td", "th":
			w.walk(s)
			w.buf.WriteString("  ")
		case "p", "div", "tr", "table", "ul", "ol", "h1", "h2", "h3", "h4", "h5", "h6":
			w.flush()
			w.walk(s)
			w.flush()
		default:
			w.walk(s)
		}
	})
}

// ToTerminal renders sanitized markup as plain text wrapped to width, with a
// gutter marking each level of quoted reply.
func ToTerminal(markup string, width int) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return markup
	}

	w := &termWriter{}
	w.walk(doc.Find("body"))
	w.flush()

	if width < 10 {
		width = 10
	}

	var out strings.Builder
	for i, b := range w.blocks {
		if i > 0 {
			prev := w.blocks[i-1].depth
			out.WriteString("\n")
			out.WriteString(strings.TrimRight(strings.Repeat(quoteGutter, min(prev, b.depth)), " "))
			out.WriteString("\n")
		}

		gutter := strings.Repeat(quoteGutter, b.depth)
		inner := width - ansi.StringWidth(gutter)
		if inner < 10 {
			inner = 10
		}

		text := b.text
		if !b.pre {
			text = ansi.Wordwrap(text, inner, "")
		}
		lines := strings.Split(text, "\n")
		for i, line := range lines {
			lines[i] = gutter + line
		}
		out.WriteString(strings.Join(lines, "\n"))
	}
	return out.String()
}

// collapseSpaces folds runs of spaces and tabs the way a browser would while
// keeping explicit line breaks.
func collapseSpaces(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
