package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

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

// CloseMsg signals the parent to close the user manager.
type CloseMsg struct{}

type mode int

const (
	modeList mode = iota
	modeForm
	modeConfirmDelete
)

type formBindings struct {
	name     string
	email    string
	password string
	role     string
	confirm  bool
}

type doneMsg struct {
	status string
	err    error
}

// Model is the admin user manager.
type Model struct {
	mode        mode
	units       *resource.Users
	keys        *keys.KeyMap
	self        model.Role
	selectedIdx int
	editingID   model.ID
	isNew       bool
	form        *huh.Form
	fb          *formBindings
	statusMsg   string
	isErr       bool
	width       int
	height      int
}

// New creates the user manager. self is the signed-in user's role and limits
// which roles the form offers.
func New(u *resource.Users, k *keys.KeyMap, self model.Role, width, height int) Model {
	return Model{units: u, keys: k, self: self, fb: &formBindings{}, width: width, height: height}
}

// Init reloads the user list.
func (m Model) Init() tea.Cmd {
	return m.run("", func(ctx context.Context, u *resource.Users) error { return u.Load(ctx) })
}

func (m Model) run(status string, fn func(context.Context, *resource.Users) error) tea.Cmd {
	u := m.units
	return func() tea.Msg {
		return doneMsg{status: status, err: fn(context.Background(), u)}
	}
}

func (m Model) items() []model.User {
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
		if m.mode == modeList {
			return m.handleListKey(msg)
		}
	}

	if m.mode != modeList {
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
		m.isNew = true
		m.editingID = ""
		*m.fb = formBindings{role: string(model.RoleUser)}
		m.form = m.buildForm()
		m.mode = modeForm
		return m, m.form.Init()
	}

	if m.selectedIdx >= len(items) {
		return m, nil
	}
	u := items[m.selectedIdx]

	switch {
	case msg.String() == "e", key.Matches(msg, m.keys.Select):
		m.isNew = false
		m.editingID = u.ID
		*m.fb = formBindings{name: u.Name, email: u.Email, role: string(u.Role)}
		m.form = m.buildForm()
		m.mode = modeForm
		return m, m.form.Init()

	case msg.String() == " ":
		next := !u.Active
		status := "User disabled"
		if next {
			status = "User enabled"
		}
		return m, m.run(status, func(ctx context.Context, users *resource.Users) error {
			return users.SetActive(ctx, u.ID, next)
		})

	case key.Matches(msg, m.keys.Delete), msg.String() == "d":
		m.fb.confirm = false
		m.form = huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Delete user %s?", u.Email)).
					Affirmative("Yes, delete").
					Negative("Cancel").
					Value(&m.fb.confirm),
			),
		).WithWidth(m.formWidth()).WithHeight(m.formHeight())
		m.mode = modeConfirmDelete
		return m, m.form.Init()
	}
	return m, nil
}

func (m Model) roleOptions() []huh.Option[string] {
	var opts []huh.Option[string]
	for _, r := range model.Roles {
		if m.self.CanManage(r) {
			opts = append(opts, huh.NewOption(ui.CategoryTitle(string(r)), string(r)))
		}
	}
	if len(opts) == 0 {
		opts = append(opts, huh.NewOption(ui.CategoryTitle(string(model.RoleUser)), string(model.RoleUser)))
	}
	return opts
}

func (m Model) buildForm() *huh.Form {
	isNew := m.isNew
	passwordDesc := "Leave empty to keep the current password."
	if isNew {
		passwordDesc = "At least 8 characters."
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&m.fb.name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("name is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Email").
				Value(&m.fb.email).
				Validate(func(s string) error {
					if !strings.Contains(s, "@") {
						return errors.New("enter a full email address")
					}
					return nil
				}),
			huh.NewInput().
				Title("Password").
				Description(passwordDesc).
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.password).
				Validate(func(s string) error {
					if s == "" && !isNew {
						return nil
					}
					if len(s) < 8 {
						return errors.New("password must be at least 8 characters")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Role").
				Options(m.roleOptions()...).
				Value(&m.fb.role),
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
			m.mode = modeList
			if !m.fb.confirm || m.selectedIdx >= len(items) {
				return m, nil
			}
			id := items[m.selectedIdx].ID
			return m, m.run("User deleted", func(ctx context.Context, u *resource.Users) error {
				return u.Delete(ctx, id)
			})
		}

		in := model.UserInput{
			Name:     strings.TrimSpace(m.fb.name),
			Email:    strings.TrimSpace(m.fb.email),
			Password: m.fb.password,
			Role:     model.Role(m.fb.role),
		}
		m.mode = modeList
		if m.isNew {
			return m, m.run("User created", func(ctx context.Context, u *resource.Users) error {
				return u.Create(ctx, in)
			})
		}
		id := m.editingID
		return m, m.run("User updated", func(ctx context.Context, u *resource.Users) error {
			return u.Update(ctx, id, in)
		})
	}
	return m, cmd
}

// View renders the user manager.
func (m Model) View() string {
	if m.mode != modeList {
		if m.form == nil {
			return ""
		}
		title := "Edit user"
		if m.isNew && m.mode == modeForm {
			title = "New user"
		}
		return lipgloss.NewStyle().Padding(1, 2).Render(
			theme.TitleStyle.Render(title) + "\n" + m.form.View(),
		)
	}

	snap := m.units.Snapshot()
	items := snap.Data
	var b strings.Builder

	b.WriteString(theme.TitleStyle.Render("Users"))
	b.WriteString("\n\n")

	switch {
	case snap.Err != nil && len(items) == 0:
		b.WriteString(theme.ErrorStyle.Render(snap.ErrText("Failed to load users")))
	case snap.Loading && len(items) == 0:
		b.WriteString(theme.DimmedStyle.Render("Loading users..."))
	case len(items) == 0:
		b.WriteString(theme.DimmedStyle.Italic(true).Render("No users."))
	default:
		now := time.Now()
		for i, u := range items {
			line := renderUser(u, now)
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
		"n new | e edit | space enable/disable | d delete | esc back",
	))

	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Height(m.height).Render(b.String())
}

func renderUser(u model.User, now time.Time) string {
	line := fmt.Sprintf("%-24s %-32s %s",
		ui.Truncate(u.Name, 24), ui.Truncate(u.Email, 32),
		theme.RoleStyle(string(u.Role)).Render(string(u.Role)))
	if !u.Active {
		line += theme.DimmedStyle.Render("  disabled")
	}
	if !u.LastLogin.IsZero() {
		line += theme.DimmedStyle.Render("  last login " + ui.ShortDate(u.LastLogin.Time, now))
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
