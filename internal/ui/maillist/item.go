package maillist

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/maildesk/internal/model"
	"github.com/nhle/maildesk/internal/theme"
	"github.com/nhle/maildesk/internal/ui"
)

// MessageItem wraps a model.Message so it can be used in a bubbles/list.
type MessageItem struct {
	Message model.Message
}

// FilterValue returns the string used for fuzzy filtering.
func (i MessageItem) FilterValue() string { return i.Message.Subject }

// Title returns the subject line.
func (i MessageItem) Title() string { return ui.SingleLine(i.Message.Subject) }

// Description returns a short summary line for the list.
func (i MessageItem) Description() string {
	parts := []string{
		ui.SenderName(i.Message.Sender),
		i.Message.CategoryLabel(),
		ui.RelativeTime(i.Message.Date.Time),
	}
	return strings.Join(parts, " | ")
}

// ItemDelegate implements list.ItemDelegate for rendering message rows.
type ItemDelegate struct {
	// now is swapped out in tests.
	now func() time.Time
}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused for now).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single message row:
// read marker, star, sender, subject, category, date.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	mi, ok := item.(MessageItem)
	if !ok {
		return
	}
	fmt.Fprint(w, d.renderRow(mi.Message, index == m.Index(), m.Width()))
}

func (d ItemDelegate) renderRow(msg model.Message, selected bool, width int) string {
	now := time.Now
	if d.now != nil {
		now = d.now
	}

	marker := " "
	if !msg.IsRead {
		marker = lipgloss.NewStyle().Foreground(theme.ColorBlue).Render("●")
	}
	star := " "
	if msg.IsStarred {
		star = theme.StarStyle.Render("★")
	}

	date := ui.ShortDate(msg.Date.Time, now())
	category := ""
	if label := msg.CategoryLabel(); label != "" {
		category = theme.CategoryStyle(label).Render(ui.CategoryTitle(label))
	}
	attach := ""
	if len(msg.Attachments()) > 0 {
		attach = theme.DimmedStyle.Render(" ⊕")
	}

	sender := fmt.Sprintf("%-20s", ui.Truncate(ui.SenderName(msg.Sender), 20))

	// Reserve room for the fixed columns before sizing the subject.
	fixed := lipgloss.Width(sender) + lipgloss.Width(category) + lipgloss.Width(date) + 10
	subject := ui.Truncate(ui.SingleLine(msg.Subject), max(width-fixed, 10))
	if subject == "" {
		subject = "(no subject)"
	}

	textStyle := theme.DimmedStyle
	if !msg.IsRead {
		textStyle = theme.UnreadStyle
	}

	line := fmt.Sprintf(
		"%s %s %s  %s%s %s  %s",
		marker, star,
		textStyle.Render(sender),
		textStyle.Render(subject),
		attach, category,
		theme.DimmedStyle.Render(date),
	)

	if selected {
		return theme.SelectedItemStyle.Render(line)
	}
	return theme.ListItemStyle.Render(line)
}
