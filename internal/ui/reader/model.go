package reader

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/maildesk/internal/keys"
	"github.com/nhle/maildesk/internal/model"
	"github.com/nhle/maildesk/internal/nav"
	"github.com/nhle/maildesk/internal/render"
	"github.com/nhle/maildesk/internal/theme"
	"github.com/nhle/maildesk/internal/ui"
)

// CloseMsg signals the parent to navigate back to the list view.
type CloseMsg struct{}

// StepMsg asks the parent to open the next (Delta > 0) or previous message.
type StepMsg struct {
	Delta int
}

// Model is the message reader view.
type Model struct {
	msg      *model.Message
	nav      nav.Navigator
	inTrash  bool
	viewport viewport.Model
	keys     *keys.KeyMap
	width    int
	height   int
}

// New creates a new reader view model.
func New(k *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		keys:     k,
		width:    width,
		height:   height,
	}
}

// SetMessage shows msg. nv supplies the position and the availability of
// next and previous.
func (m *Model) SetMessage(msg model.Message, nv nav.Navigator, inTrash bool) {
	sameMessage := m.msg != nil && m.msg.ID == msg.ID
	m.msg = &msg
	m.nav = nv
	m.inTrash = inTrash
	m.viewport.SetContent(m.renderContent())
	if !sameMessage {
		m.viewport.GotoTop()
	}
}

// Clear drops the shown message.
func (m *Model) Clear() {
	m.msg = nil
	m.viewport.SetContent("")
}

// Current returns the shown message.
func (m Model) Current() (model.Message, bool) {
	if m.msg == nil {
		return model.Message{}, false
	}
	return *m.msg, true
}

// Update handles messages for the reader view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, ui.Emit(CloseMsg{})

		case key.Matches(msg, m.keys.NextMessage):
			if m.nav.HasNext() {
				return m, ui.Emit(StepMsg{Delta: 1})
			}
			return m, nil

		case key.Matches(msg, m.keys.PrevMessage):
			if m.nav.HasPrev() {
				return m, ui.Emit(StepMsg{Delta: -1})
			}
			return m, nil
		}

		if m.msg != nil {
			if cmd := ui.MessageKey(m.keys, msg, *m.msg, m.inTrash); cmd != nil {
				return m, cmd
			}
		}
	}

	// Delegate to viewport for scrolling (j/k, up/down, pgup/pgdn)
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the reader.
func (m Model) View() string {
	if m.msg == nil {
		return ui.Placeholder(m.width, m.height, theme.DimmedStyle, "No message selected")
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), m.renderPosition())
}

func (m Model) renderPosition() string {
	if m.nav.Len() == 0 || m.nav.Index() < 0 {
		return ""
	}

	next, prev := "n next", "p prev"
	if !m.nav.HasNext() {
		next = theme.DimmedStyle.Render(next)
	}
	if !m.nav.HasPrev() {
		prev = theme.DimmedStyle.Render(prev)
	}
	return lipgloss.NewStyle().Padding(0, 1).Render(fmt.Sprintf(
		"%d of %d  %s  %s", m.nav.Index()+1, m.nav.Len(), prev, next,
	))
}

// renderContent builds the header block and the rendered body.
func (m Model) renderContent() string {
	if m.msg == nil {
		return ""
	}
	msg := m.msg
	var sections []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	subject := ui.SingleLine(msg.Subject)
	if subject == "" {
		subject = "(no subject)"
	}
	sections = append(sections, titleStyle.Render(subject))

	var badges []string
	if label := msg.CategoryLabel(); label != "" {
		badges = append(badges, theme.CategoryStyle(label).Render(ui.CategoryTitle(label)))
	}
	if msg.IsStarred {
		badges = append(badges, theme.StarStyle.Render("★ starred"))
	}
	for _, flag := range []struct {
		on   bool
		name string
	}{{msg.IsArchived, "archived"}, {msg.IsSpam, "spam"}, {msg.IsTrashed, "trash"}} {
		if flag.on {
			badges = append(badges, theme.DimmedStyle.Render(flag.name))
		}
	}
	if len(badges) > 0 {
		sections = append(sections, strings.Join(badges, "  "))
	}
	sections = append(sections, "")

	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray).Width(10)
	valStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)
	meta := func(label, value string) {
		if value == "" {
			return
		}
		sections = append(sections, metaStyle.Render(label)+valStyle.Render(value))
	}

	meta("From:", ui.SingleLine(msg.Sender))
	meta("To:", msg.AccountEmail)
	if !msg.Date.IsZero() {
		meta("Date:", fmt.Sprintf("%s (%s)",
			msg.Date.Local().Format("Mon, 02 Jan 2006 15:04"), ui.RelativeTime(msg.Date.Time)))
	}
	if len(msg.Tags) > 0 {
		tags := append([]string(nil), msg.Tags...)
		sort.Strings(tags)
		meta("Tags:", strings.Join(tags, ", "))
	}
	for _, a := range msg.Attachments() {
		meta("Attached:", fmt.Sprintf("%s (%s)", a.Filename, ui.Size(a.Size)))
	}

	sepStyle := lipgloss.NewStyle().Foreground(theme.ColorSubtle)
	separator := sepStyle.Render(strings.Repeat("─", max(min(m.width-4, 80), 1)))
	sections = append(sections, "", separator, "")

	body := render.ToTerminal(render.Format(msg.Body), max(m.width-4, 20))
	if strings.TrimSpace(body) == "" {
		body = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Italic(true).
			Render("No content")
	}
	sections = append(sections, body)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetSize updates the reader dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
	if m.msg != nil {
		m.viewport.SetContent(m.renderContent())
	}
}
