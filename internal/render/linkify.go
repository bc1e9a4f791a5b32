package render

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

const (
	// maxLinkText is the longest URL shown verbatim as anchor text.
	maxLinkText  = 40
	linkHeadLen  = 30
	linkTailLen  = 10
	linkEllipsis = "..."
)

var urlPattern = regexp.MustCompile(`(?i)\b(?:https?://|www\.)[^\s<>"']+`)

// trailingPunct is stripped from the end of a detected URL so sentence
// punctuation is not swallowed into the link. A closing parenthesis is only
// stripped when it has no opening partner inside the URL.
const trailingPunct = ".,;:!?]}"

// trimURL drops trailing punctuation from a matched URL.
func trimURL(url string) string {
	for {
		url = strings.TrimRight(url, trailingPunct)
		if !strings.HasSuffix(url, ")") || strings.Count(url, ")") <= strings.Count(url, "(") {
			return url
		}
		url = url[:len(url)-1]
	}
}

// ShortenURL abbreviates a URL longer than 40 characters to its first 30
// characters, an ellipsis and its last 10 characters.
func ShortenURL(url string) string {
	runes := []rune(url)
	if len(runes) <= maxLinkText {
		return url
	}
	return string(runes[:linkHeadLen]) + linkEllipsis + string(runes[len(runes)-linkTailLen:])
}

// Linkify escapes plain text and wraps every bare http(s):// or www. URL in
// an anchor. The full URL is kept in the title attribute.
func Linkify(text string) string {
	var b strings.Builder
	last := 0

	for _, loc := range urlPattern.FindAllStringIndex(text, -1) {
		start, end := loc[0], loc[1]
		url := trimURL(text[start:end])
		end = start + len(url)
		if url == "" {
			continue
		}

		b.WriteString(html.EscapeString(text[last:start]))

		href := url
		if strings.HasPrefix(strings.ToLower(url), "www.") {
			href = "http://" + url
		}

		fmt.Fprintf(&b,
			`<a href="%s" title="%s" target="_blank">%s</a>`,
			html.EscapeString(href),
			html.EscapeString(url),
			html.EscapeString(ShortenURL(url)),
		)
		last = end
	}

	b.WriteString(html.EscapeString(text[last:]))
	return b.String()
}
