package render

import "strings"

// Format converts a raw message body into sanitized markup. HTML bodies are
// sanitized; plain-text bodies are linkified, split into paragraphs and then
// sanitized as well. Reply attribution lines collapse into nested
// blockquotes on both paths. Format is pure and never panics; an empty
// result means there is nothing to show.
func Format(body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}

	if LooksLikeHTML(body) {
		return strings.TrimSpace(CollapseThreads(Sanitize(body)))
	}

	out := collapsePlain(body, func(text string) string {
		return Paragraphs(Linkify(text))
	})
	return strings.TrimSpace(Sanitize(out))
}
