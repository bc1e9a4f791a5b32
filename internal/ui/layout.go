package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/maildesk/internal/theme"
)

// Layout manages the multi-panel terminal layout dimensions.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	StatusBarHeight int
}

// NewLayout creates a Layout with the given terminal dimensions.
// HeaderHeight and StatusBarHeight default to 1.
func NewLayout(width, height int) Layout {
	return Layout{
		Width:           width,
		Height:          height,
		HeaderHeight:    1,
		StatusBarHeight: 1,
	}
}

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the height available for the main content area,
// accounting for the header and status bar.
func (l Layout) ContentHeight() int {
	return l.Height - l.HeaderHeight - l.StatusBarHeight
}

// headerSeparator joins header counters.
const headerSeparator = " │ "

// Header is what the top bar shows: the application name, where the user
// is (folder, page, filters) and the mailbox counters.
type Header struct {
	Title    string
	Location string
	// Counters are shown right-aligned, most important first. When the bar
	// is too narrow the trailing ones are dropped before the location is
	// shortened.
	Counters []string
}

// RenderHeader renders the top bar.
func (l Layout) RenderHeader(h Header) string {
	title := theme.HeaderStyle.Render(h.Title)
	room := l.Width - lipgloss.Width(title)

	counters := h.Counters
	right := theme.HeaderStyle.Render(strings.Join(counters, headerSeparator))
	for len(counters) > 0 && lipgloss.Width(right) > room/2 {
		counters = counters[:len(counters)-1]
		right = theme.HeaderStyle.Render(strings.Join(counters, headerSeparator))
	}
	if len(counters) == 0 {
		right = ""
	}

	var location string
	if h.Location != "" {
		// HeaderStyle pads by one cell on each side.
		avail := room - lipgloss.Width(right) - 2
		location = theme.HeaderStyle.Faint(true).Render(Truncate(h.Location, avail))
		if avail <= 0 {
			location = ""
		}
	}

	gap := max(room-lipgloss.Width(location)-lipgloss.Width(right), 0)
	filler := lipgloss.NewStyle().
		Width(gap).
		Background(theme.HeaderStyle.GetBackground()).
		Render("")

	return lipgloss.JoinHorizontal(lipgloss.Top, title, location, filler, right)
}

// RenderStatusBar renders the bottom status bar with keyboard hints.
func (l Layout) RenderStatusBar(hints string) string {
	rendered := theme.StatusBarStyle.Render(hints)

	gap := l.Width - lipgloss.Width(rendered)
	if gap < 0 {
		gap = 0
	}

	filler := theme.StatusBarStyle.Render(
		lipgloss.NewStyle().
			Width(gap).
			Background(theme.StatusBarStyle.GetBackground()).
			Render(""),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered, filler)
}

// RenderWithFrame composes a full terminal view by vertically joining
// the header, content area, and status bar.
func (l Layout) RenderWithFrame(
	header string,
	content string,
	statusBar string,
) string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		content,
		statusBar,
	)
}

// Placeholder centers a single message in the content area. Views use it for
// their loading, error and empty states.
func Placeholder(width, height int, style lipgloss.Style, text string) string {
	return style.
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(text)
}
