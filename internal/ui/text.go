package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
	"github.com/mrz1836/go-sanitize"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// RelativeTime returns "3 hours ago" style text, or "" for the zero time.
func RelativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.Time(t)
}

// ShortDate formats t for a list column: the clock time for today, the month
// and day otherwise.
func ShortDate(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	t = t.Local()
	y1, m1, d1 := t.Date()
	y2, m2, d2 := now.Local().Date()
	if y1 == y2 && m1 == m2 && d1 == d2 {
		return t.Format("15:04")
	}
	if y1 == y2 {
		return t.Format("Jan 02")
	}
	return t.Format("2006-01-02")
}

// Size formats a byte count.
func Size(n int64) string {
	if n < 0 {
		return ""
	}
	return humanize.Bytes(uint64(n))
}

// Count formats an integer with thousands separators.
func Count(n int) string {
	return humanize.Comma(int64(n))
}

// SingleLine flattens s for display in a one-line cell.
func SingleLine(s string) string {
	return strings.Join(strings.Fields(sanitize.SingleLine(s)), " ")
}

// CategoryTitle turns a category key such as "work_travel" into "Work Travel".
func CategoryTitle(s string) string {
	if s == "" {
		return ""
	}
	return titleCaser.String(strings.ReplaceAll(s, "_", " "))
}

// Truncate shortens s to width cells, marking the cut with an ellipsis.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}

// SenderName returns the display part of "Name <addr>", or the address.
func SenderName(sender string) string {
	sender = SingleLine(sender)
	if i := strings.Index(sender, "<"); i > 0 {
		name := strings.Trim(strings.TrimSpace(sender[:i]), `"`)
		if name != "" {
			return name
		}
	}
	return strings.Trim(sender, "<>")
}
