package accounts

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/maildesk/internal/keys"
	"github.com/nhle/maildesk/internal/model"
	"github.com/nhle/maildesk/internal/resource"
	"github.com/nhle/maildesk/internal/theme"
	"github.com/nhle/maildesk/internal/ui"
)

// CloseMsg signals the parent to close the account manager.
type CloseMsg struct{}

type mode int

const (
	modeList mode = iota
	modeForm
	modeConfirmDelete
	modeBusy
)

type formBindings struct {
	email    string
	password string
	server   string
	port     string
	confirm  bool
}

type doneMsg struct {
	status string
	err    error
}

// Model is the admin view over the remote service's IMAP accounts.
type Model struct {
	mode        mode
	units       *resource.Accounts
	keys        *keys.KeyMap
	selectedIdx int
	form        *huh.Form
	fb          *formBindings
	statusMsg   string
	isErr       bool
	width       int
	height      int
}

// New creates the account manager.
func New(a *resource.Accounts, k *keys.KeyMap, width, height int) Model {
	return Model{units: a, keys: k, fb: &formBindings{}, width: width, height: height}
}

// Init reloads the account list.
func (m Model) Init() tea.Cmd {
	return m.run("", func(ctx context.Context, a *resource.Accounts) error { return a.Load(ctx) })
}

func (m Model) run(status string, fn func(context.Context, *resource.Accounts) error) tea.Cmd {
	a := m.units
	return func() tea.Msg {
		return doneMsg{status: status, err: fn(context.Background(), a)}
	}
}

// add sends a new account. A failed local login check is shown next to the
// result but does not stop the account being added.
func (m Model) add(acct model.NewAccount) tea.Cmd {
	a := m.units
	return func() tea.Msg {
		warning, err := a.Add(context.Background(), acct)
		status := "Account added"
		if warning != nil {
			status += fmt.Sprintf(" (local IMAP check failed: %v)", warning)
		}
		return doneMsg{status: status, err: err}
	}
}

func (m Model) items() []model.Account {
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
		m.mode = modeList
		m.isErr = msg.err != nil
		if msg.err != nil {
			m.statusMsg = resource.ErrorText(msg.err, "Request failed")
		} else if msg.status != "" {
			m.statusMsg = msg.status
		}
		if n := len(m.items()); m.selectedIdx >= n {
			m.selectedIdx = max(n-1, 0)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeList:
			return m.handleListKey(msg)
		case modeBusy:
			return m, nil
		}
	}

	if m.mode == modeForm || m.mode == modeConfirmDelete {
		return m.updateForm(msg)
	}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
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
		return m, m.Init()

	case msg.String() == "n":
		*m.fb = formBindings{port: "993"}
		m.form = m.buildForm()
		m.mode = modeForm
		return m, m.form.Init()
	}

	if m.selectedIdx >= len(items) {
		return m, nil
	}
	acct := items[m.selectedIdx]

	switch {
	case msg.String() == " ", key.Matches(msg, m.keys.Select):
		next := !acct.Active
		status := "Account disabled"
		if next {
			status = "Account enabled"
		}
		return m, m.run(status, func(ctx context.Context, a *resource.Accounts) error {
			return a.SetActive(ctx, acct.Email, next)
		})

	case msg.String() == "v":
		m.mode = modeBusy
		m.statusMsg = fmt.Sprintf("Testing %s...", acct.Email)
		m.isErr = false
		return m, m.run("Connection OK", func(ctx context.Context, a *resource.Accounts) error {
			return a.Test(ctx, acct.Email)
		})

	case key.Matches(msg, m.keys.Delete), msg.String() == "d":
		m.fb.confirm = false
		m.form = huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Remove account %s?", acct.Email)).
					Description("Messages already fetched are kept.").
					Affirmative("Yes, remove").
					Negative("Cancel").
					Value(&m.fb.confirm),
			),
		).WithWidth(m.formWidth()).WithHeight(m.formHeight())
		m.mode = modeConfirmDelete
		return m, m.form.Init()
	}
	return m, nil
}

func (m Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Placeholder("name@example.com").
				Value(&m.fb.email).
				Validate(func(s string) error {
					if !strings.Contains(s, "@") {
						return errors.New("enter a full email address")
					}
					return nil
				}),
			huh.NewInput().
				Title("Password").
				Description("An app password for providers that require one.").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.password).
				Validate(func(s string) error {
					if s == "" {
						return errors.New("password is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("IMAP server").
				Placeholder("derived from the address when empty").
				Value(&m.fb.server),
			huh.NewInput().
				Title("IMAP port").
				Value(&m.fb.port).
				Validate(func(s string) error {
					if s == "" {
						return nil
					}
					if n, err := strconv.Atoi(s); err != nil || n <= 0 || n > 65535 {
						return errors.New("port must be a number between 1 and 65535")
					}
					return nil
				}),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		m.mode = modeList
		return m, nil
	}
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateAborted:
		m.mode = modeList
		return m, nil

	case huh.StateCompleted:
		if m.mode == modeConfirmDelete {
			items := m.items()
			if !m.fb.confirm || m.selectedIdx >= len(items) {
				m.mode = modeList
				return m, nil
			}
			email := items[m.selectedIdx].Email
			m.mode = modeBusy
			return m, m.run("Account removed", func(ctx context.Context, a *resource.Accounts) error {
				return a.Remove(ctx, email)
			})
		}

		port, _ := strconv.Atoi(m.fb.port)
		acct := model.NewAccount{
			Email:      m.fb.email,
			Password:   m.fb.password,
			IMAPServer: strings.TrimSpace(m.fb.server),
			IMAPPort:   port,
		}
		m.mode = modeBusy
		m.statusMsg = fmt.Sprintf("Verifying %s...", acct.Email)
		m.isErr = false
		return m, m.add(acct)
	}
	return m, cmd
}

// View renders the account manager.
func (m Model) View() string {
	if m.mode == modeForm || m.mode == modeConfirmDelete {
		if m.form == nil {
			return ""
		}
		return lipgloss.NewStyle().Padding(1, 2).Render(
			theme.TitleStyle.Render("Mail account") + "\n" + m.form.View(),
		)
	}

	snap := m.units.Snapshot()
	items := snap.Data
	var b strings.Builder

	b.WriteString(theme.TitleStyle.Render("Mail accounts"))
	b.WriteString("\n\n")

	switch {
	case snap.Err != nil && len(items) == 0:
		b.WriteString(theme.ErrorStyle.Render(snap.ErrText("Failed to load accounts")))
	case snap.Loading && len(items) == 0:
		b.WriteString(theme.DimmedStyle.Render("Loading accounts..."))
	case len(items) == 0:
		b.WriteString(theme.DimmedStyle.Italic(true).Render("No accounts configured. Press 'n' to add one."))
	default:
		for i, a := range items {
			line := renderAccount(a)
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
		if m.isErr {
			b.WriteString(theme.ErrorStyle.Render(m.statusMsg))
		} else {
			b.WriteString(theme.NoticeStyle.Render(m.statusMsg))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(theme.DimmedStyle.Render(
		"n add | space enable/disable | v test | d remove | esc back",
	))

	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Height(m.height).Render(b.String())
}

func renderAccount(a model.Account) string {
	state := theme.NotificationStyle(model.NotificationSuccess).Render("active")
	if !a.Active {
		state = theme.DimmedStyle.Render("paused")
	}
	line := fmt.Sprintf("%-36s %s", a.Email, state)
	if a.IMAPServer != "" {
		server := a.IMAPServer
		if a.IMAPPort > 0 {
			server = fmt.Sprintf("%s:%d", server, a.IMAPPort)
		}
		line += theme.DimmedStyle.Render("  " + server)
	}
	return line
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) formWidth() int {
	return min(max(m.width-4, 40), 100)
}

func (m Model) formHeight() int {
	return max(m.height-4, 10)
}
