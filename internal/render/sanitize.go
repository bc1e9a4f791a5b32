// Package render turns raw message bodies into safe, readable markup and
// projects that markup onto the terminal.
package render

import (
	"html"
	"regexp"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

// allowedElements are the structural and text tags that survive sanitizing.
var allowedElements = []string{
	"p", "br", "b", "i", "u", "strong", "em", "small", "sub", "sup",
	"a", "img",
	"table", "thead", "tbody", "tfoot", "tr", "th", "td", "caption",
	"ul", "ol", "li",
	"h1", "h2", "h3", "h4", "h5", "h6",
	"blockquote", "div", "span", "hr", "code", "pre",
}

// allowedStyles are the CSS properties kept inside style attributes.
var allowedStyles = []string{
	"color", "background-color", "font-size", "font-weight", "font-style",
	"font-family", "text-align", "text-decoration", "line-height",
	"margin", "margin-left", "margin-right", "margin-top", "margin-bottom",
	"padding", "padding-left", "padding-right", "padding-top", "padding-bottom",
	"border", "border-left", "width", "height", "max-width", "display",
}

// rawTextBlocks match script and style elements with their content. Their
// text is kept as escaped text rather than dropped with the element.
var rawTextBlocks = []*regexp.Regexp{
	regexp.MustCompile(`(?is)<script\b[^>]*>(.*?)</script\s*>`),
	regexp.MustCompile(`(?is)<style\b[^>]*>(.*?)</style\s*>`),
}

// rawTextTag matches a script or style tag left without its partner.
var rawTextTag = regexp.MustCompile(`(?is)<\s*/?\s*(?:script|style)\b[^>]*>`)

// unwrapRawText replaces script and style elements with their escaped text.
func unwrapRawText(markup string) string {
	for _, re := range rawTextBlocks {
		markup = re.ReplaceAllStringFunc(markup, func(block string) string {
			return html.EscapeString(re.FindStringSubmatch(block)[1])
		})
	}
	return rawTextTag.ReplaceAllString(markup, "")
}

// allowedSchemes restricts link and image targets. Relative URLs are allowed
// separately.
var allowedSchemes = []string{"http", "https", "mailto", "tel", "callto", "cid", "xmpp"}

func newPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()

	p.AllowElements(allowedElements...)

	p.AllowAttrs("href", "target").OnElements("a")
	p.AllowAttrs("src", "alt").OnElements("img")
	p.AllowAttrs("title", "width", "height", "class", "id", "style").Globally()
	p.AllowAttrs("colspan", "rowspan", "align", "valign", "cellpadding", "cellspacing", "border").
		OnElements("table", "tr", "th", "td")

	p.AllowStyles(allowedStyles...).Globally()

	p.AllowURLSchemes(allowedSchemes...)
	p.AllowRelativeURLs(true)
	p.RequireParseableURLs(true)

	return p
}

// Sanitize strips every tag, attribute and URL scheme outside the allow-list
// while keeping inner text. Running it on its own output is a no-op.
func Sanitize(markup string) string {
	policyOnce.Do(func() {
		policy = newPolicy()
	})
	return policy.Sanitize(unwrapRawText(markup))
}
