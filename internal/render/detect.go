package render

import (
	"regexp"
	"strings"
)

// htmlTagPattern matches an opening, closing or self-closing HTML tag.
var htmlTagPattern = regexp.MustCompile(`(?i)<\s*/?\s*[a-z][a-z0-9]*(?:\s[^<>]*)?/?\s*>`)

// LooksLikeHTML reports whether body contains something shaped like an HTML
// tag. Ambiguous bodies fall through to the plain-text path.
func LooksLikeHTML(body string) bool {
	return htmlTagPattern.MatchString(body)
}

// IsEmpty reports whether formatted output has no displayable content, so the
// caller can show a fallback instead.
func IsEmpty(formatted string) bool {
	return strings.TrimSpace(formatted) == ""
}
