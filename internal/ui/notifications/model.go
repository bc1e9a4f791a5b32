package notifications

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/maildesk/internal/keys"
	"github.com/nhle/maildesk/internal/model"
	"github.com/nhle/maildesk/internal/resource"
	"github.com/nhle/maildesk/internal/theme"
	"github.com/nhle/maildesk/internal/ui"
)

// CloseMsg signals the parent to close the notification view.
type CloseMsg struct{}

// OpenEmailMsg asks the parent to show the message a notification refers to.
type OpenEmailMsg struct {
	ID model.ID
}

// ChangedMsg reports that the feed changed so the header badge can update.
type ChangedMsg struct{}

type doneMsg struct {
	status string
	err    error
}

// Model is the notification feed view.
type Model struct {
	units       *resource.Notifications
	keys        *keys.KeyMap
	selectedIdx int
	statusMsg   string
	width       int
	height      int
}

// New creates the notification view.
func New(n *resource.Notifications, k *keys.KeyMap, width, height int) Model {
	return Model{units: n, keys: k, width: width, height: height}
}

// Init reloads the feed.
func (m Model) Init() tea.Cmd {
	return m.run("", func(ctx context.Context) error { return m.units.Load(ctx) })
}

func (m Model) run(status string, fn func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return doneMsg{status: status, err: fn(context.Background())}
	}
}

func (m Model) items() []model.Notification {
	return m.units.Snapshot().Data
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case doneMsg:
		switch {
		case msg.err != nil:
			m.statusMsg = resource.ErrorText(msg.err, "Request failed")
		case msg.status != "":
			m.statusMsg = msg.status
		}
		if n := len(m.items()); m.selectedIdx >= n {
			m.selectedIdx = max(n-1, 0)
		}
		return m, ui.Emit(ChangedMsg{})

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	items := m.items()

	switch {
	case key.Matches(msg, m.keys.Back):
		return m, ui.Emit(CloseMsg{})

	case key.Matches(msg, m.keys.Down):
		if len(items) > 0 {
			m.selectedIdx = (m.selectedIdx + 1) % len(items)
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if len(items) > 0 {
			m.selectedIdx--
			if m.selectedIdx < 0 {
				m.selectedIdx = len(items) - 1
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		m.statusMsg = ""
		return m, m.Init()
	}

	if m.selectedIdx >= len(items) {
		return m, nil
	}
	n := items[m.selectedIdx]
	units := m.units

	switch {
	case key.Matches(msg, m.keys.Select):
		cmds := []tea.Cmd{}
		if !n.IsRead {
			cmds = append(cmds, m.run("", func(ctx context.Context) error { return units.MarkRead(ctx, n.ID) }))
		}
		if n.EmailID != "" {
			cmds = append(cmds, ui.Emit(OpenEmailMsg{ID: n.EmailID}))
		}
		return m, tea.Batch(cmds...)

	case key.Matches(msg, m.keys.ToggleRead):
		if n.IsRead {
			return m, nil
		}
		return m, m.run("Marked read", func(ctx context.Context) error { return units.MarkRead(ctx, n.ID) })

	case key.Matches(msg, m.keys.Delete), key.Matches(msg, m.keys.Trash):
		return m, m.run("Notification deleted", func(ctx context.Context) error { return units.Delete(ctx, n.ID) })
	}
	return m, nil
}

// View renders the feed.
func (m Model) View() string {
	snap := m.units.Snapshot()
	items := snap.Data
	var b strings.Builder

	title := "Notifications"
	if unread := m.units.Unread(); unread > 0 {
		title += " " + theme.BadgeStyle.Render(fmt.Sprintf("%d new", unread))
	}
	b.WriteString(theme.TitleStyle.Render(title))
	b.WriteString("\n\n")

	switch {
	case snap.Err != nil && len(items) == 0:
		b.WriteString(theme.ErrorStyle.Render(snap.ErrText("Failed to load notifications")))
	case snap.Loading && len(items) == 0:
		b.WriteString(theme.DimmedStyle.Render("Loading notifications..."))
	case len(items) == 0:
		b.WriteString(theme.DimmedStyle.Italic(true).Render("You're all caught up."))
	default:
		now := time.Now()
		for i, n := range items {
			line := m.renderItem(n, now)
			if i == m.selectedIdx {
				b.WriteString(theme.SelectedItemStyle.Render(line))
			} else {
				b.WriteString(theme.ListItemStyle.Render(line))
			}
			b.WriteString("\n")
		}
	}

	if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(theme.NoticeStyle.Render(m.statusMsg))
	}

	b.WriteString("\n\n")
	b.WriteString(theme.DimmedStyle.Render(
		"enter open | u mark read | X delete | r reload | esc back",
	))

	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Height(m.height).Render(b.String())
}

func (m Model) renderItem(n model.Notification, now time.Time) string {
	marker := " "
	if !n.IsRead {
		marker = theme.UnreadStyle.Render("●")
	}
	kind := theme.NotificationStyle(n.Type).Render(fmt.Sprintf("[%s]", n.Type))
	title := ui.SingleLine(n.Title)
	if !n.IsRead {
		title = lipgloss.NewStyle().Bold(true).Render(title)
	}
	when := ""
	if !n.CreatedAt.IsZero() {
		when = theme.DimmedStyle.Render(ui.ShortDate(n.CreatedAt.Time, now))
	}

	line := fmt.Sprintf("%s %s %s  %s", marker, kind, title, when)
	if body := ui.SingleLine(n.Message); body != "" {
		line += "\n    " + theme.DimmedStyle.Render(ui.Truncate(body, max(m.width-10, 20)))
	}
	return line
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
