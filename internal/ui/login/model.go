package login

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/maildesk/internal/theme"
)

// SubmitMsg asks the parent to sign in with the entered credentials.
type SubmitMsg struct {
	Email    string
	Password string
}

// CancelMsg is dispatched when the user leaves the form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	email    string
	password string
}

// Model is the sign-in form.
type Model struct {
	form    *huh.Form
	fb      *formBindings
	server  string
	err     string
	pending bool
	width   int
	height  int
}

// New creates a sign-in form for the given server.
func New(server string, width, height int) Model {
	return Model{
		fb:     &formBindings{},
		server: server,
		width:  width,
		height: height,
	}
}

// Start resets the form. The email is kept so a failed attempt only needs
// the password again.
func (m *Model) Start() tea.Cmd {
	m.fb.password = ""
	m.pending = false
	m.form = m.buildForm()
	return m.form.Init()
}

// SetError shows the server's refusal and reopens the form.
func (m *Model) SetError(msg string) tea.Cmd {
	m.err = msg
	return m.Start()
}

// Update handles messages for the form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil || m.pending {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.pending = true
		m.err = ""
		email := strings.TrimSpace(m.fb.email)
		password := m.fb.password
		return m, func() tea.Msg { return SubmitMsg{Email: email, Password: password} }
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(theme.TitleStyle.Render("Sign in"))
	b.WriteString("\n")
	b.WriteString(theme.DimmedStyle.Render(m.server))
	b.WriteString("\n\n")

	if m.pending {
		b.WriteString(theme.NoticeStyle.Render("Signing in..."))
	} else {
		b.WriteString(m.form.View())
	}

	if m.err != "" {
		b.WriteString("\n")
		b.WriteString(theme.ErrorStyle.Render(m.err))
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Placeholder("you@example.com").
				Value(&m.fb.email).
				Validate(func(s string) error {
					if !strings.Contains(s, "@") {
						return fmt.Errorf("enter an email address")
					}
					return nil
				}),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.password).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("password is required")
					}
					return nil
				}),
		),
	).WithWidth(min(max(m.width-4, 40), 60))
}
