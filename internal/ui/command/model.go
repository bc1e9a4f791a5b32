package command

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/maildesk/internal/theme"
)

// CommandMsg is emitted when the user executes a command.
type CommandMsg string

// AnswerMsg is emitted when the user answers a question opened with Ask.
type AnswerMsg struct {
	Kind  string
	Value string
}

// Model is the command palette view. It doubles as a one-line prompt.
type Model struct {
	input    textinput.Model
	commands []string
	title    string
	kind     string
	width    int
	height   int
}

// New creates a command palette that suggests the given command names.
func New(commands []string, width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "type a command..."
	ti.Prompt = ": "
	ti.ShowSuggestions = true
	ti.SetSuggestions(commands)
	ti.Focus()
	ti.Width = width - 6

	return Model{
		input:    ti,
		commands: commands,
		title:    "Command Palette",
		width:    width,
		height:   height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Ask switches the palette into a prompt. The answer is delivered as an
// AnswerMsg tagged with kind.
func (m *Model) Ask(kind, title, placeholder, initial string) tea.Cmd {
	m.kind = kind
	m.title = title
	m.input.Prompt = "> "
	m.input.Placeholder = placeholder
	m.input.ShowSuggestions = false
	m.input.SetValue(initial)
	m.input.CursorEnd()
	return m.input.Focus()
}

// Reset returns the palette to command mode with an empty input.
func (m *Model) Reset() {
	m.kind = ""
	m.title = "Command Palette"
	m.input.Prompt = ": "
	m.input.Placeholder = "type a command..."
	m.input.ShowSuggestions = true
	m.input.Reset()
}

// Asking reports whether the palette is acting as a prompt.
func (m Model) Asking() bool {
	return m.kind != ""
}

// Update handles messages for the command palette.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			value := strings.TrimSpace(m.input.Value())
			kind := m.kind
			m.Reset()
			if kind != "" {
				return m, func() tea.Msg {
					return AnswerMsg{Kind: kind, Value: value}
				}
			}
			if value != "" {
				return m, func() tea.Msg {
					return CommandMsg(value)
				}
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the command palette.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	title := titleStyle.Render(m.title)
	input := m.input.View()

	content := lipgloss.JoinVertical(lipgloss.Left, title, input)
	if !m.Asking() && len(m.commands) > 0 {
		content = lipgloss.JoinVertical(lipgloss.Left, content, "",
			theme.DimmedStyle.Render(strings.Join(m.commands, "  ")))
	}

	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Render(content)
}

// SetSize updates the command palette dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 6
}

// Focus gives keyboard focus to the text input.
func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}
