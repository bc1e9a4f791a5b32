package templates

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/maildesk/internal/api"
	"github.com/nhle/maildesk/internal/keys"
	"github.com/nhle/maildesk/internal/model"
	"github.com/nhle/maildesk/internal/resource"
	"github.com/nhle/maildesk/internal/theme"
	"github.com/nhle/maildesk/internal/ui"
)

// CloseMsg signals the parent to close the template view.
type CloseMsg struct{}

type mode int

const (
	modeList mode = iota
	modeForm
	modeConfirmDelete
)

type formBindings struct {
	name    string
	subject string
	content string
	confirm bool
}

type savedMsg struct {
	status string
	err    error
}

// Model manages reply templates.
type Model struct {
	mode        mode
	units       *resource.Templates
	keys        *keys.KeyMap
	selectedIdx int
	editingID   model.ID
	isNew       bool
	form        *huh.Form
	confirmForm *huh.Form
	fb          *formBindings
	statusMsg   string
	width       int
	height      int
}

// New creates the template manager.
func New(t *resource.Templates, k *keys.KeyMap, width, height int) Model {
	return Model{
		mode:  modeList,
		units: t,
		keys:  k,
		fb:    &formBindings{},
		width: width, height: height,
	}
}

// Init loads templates.
func (m Model) Init() tea.Cmd {
	t := m.units
	return func() tea.Msg {
		return savedMsg{err: t.Load(context.Background())}
	}
}

func (m Model) items() []model.Template {
	return m.units.Snapshot().Data
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %s", resource.ErrorText(msg.err, "request failed"))
		} else if msg.status != "" {
			m.statusMsg = msg.status
		}
		m.mode = modeList
		if n := len(m.items()); m.selectedIdx >= n {
			m.selectedIdx = max(n-1, 0)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateActiveForm(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch m.mode {
	case modeList:
		return m.handleListKey(msg)
	case modeForm:
		return m.updateForm(msg)
	case modeConfirmDelete:
		return m.updateConfirm(msg)
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
		*m.fb = formBindings{}
		m.form = m.buildForm()
		m.mode = modeForm
		return m, m.form.Init()

	case msg.String() == "e", key.Matches(msg, m.keys.Select):
		if len(items) == 0 {
			return m, nil
		}
		t := items[m.selectedIdx]
		m.isNew = false
		m.editingID = t.ID
		*m.fb = formBindings{name: t.Name, subject: t.Subject, content: t.Content}
		m.form = m.buildForm()
		m.mode = modeForm
		return m, m.form.Init()

	case key.Matches(msg, m.keys.Delete), msg.String() == "d":
		if len(items) == 0 {
			return m, nil
		}
		m.fb.confirm = false
		m.confirmForm = m.buildConfirmForm(items[m.selectedIdx].Name)
		m.mode = modeConfirmDelete
		return m, m.confirmForm.Init()
	}
	return m, nil
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(field + " is required")
		}
		return nil
	}
}

func (m Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Placeholder("Template name").
				Value(&m.fb.name).
				Validate(required("name")),
			huh.NewInput().
				Title("Subject").
				Placeholder("Re: ...").
				Value(&m.fb.subject),
			huh.NewText().
				Title("Content").
				Description("Markdown is rendered to HTML when sent.").
				Lines(8).
				Value(&m.fb.content).
				Validate(required("content")),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) buildConfirmForm(name string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete template %q?", name)).
				Affirmative("Yes, delete").
				Negative("Cancel").
				Value(&m.fb.confirm),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}
	if m.form.State == huh.StateCompleted {
		return m, m.save()
	}
	if m.form.State == huh.StateAborted {
		m.mode = modeList
		return m, nil
	}
	return m, cmd
}

func (m Model) updateConfirm(msg tea.Msg) (Model, tea.Cmd) {
	if m.confirmForm == nil {
		return m, nil
	}
	mdl, cmd := m.confirmForm.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.confirmForm = f
	}
	if m.confirmForm.State == huh.StateCompleted {
		items := m.items()
		if m.fb.confirm && m.selectedIdx < len(items) {
			return m, m.remove(items[m.selectedIdx].ID)
		}
		m.mode = modeList
		return m, nil
	}
	if m.confirmForm.State == huh.StateAborted {
		m.mode = modeList
		return m, nil
	}
	return m, cmd
}

func (m Model) updateActiveForm(msg tea.Msg) (Model, tea.Cmd) {
	switch m.mode {
	case modeForm:
		return m.updateForm(msg)
	case modeConfirmDelete:
		return m.updateConfirm(msg)
	}
	return m, nil
}

// View renders the template manager.
func (m Model) View() string {
	switch m.mode {
	case modeForm:
		return m.viewForm(m.form)
	case modeConfirmDelete:
		return m.viewForm(m.confirmForm)
	default:
		return m.viewList()
	}
}

func (m Model) viewList() string {
	snap := m.units.Snapshot()
	items := snap.Data
	var b strings.Builder

	b.WriteString(theme.TitleStyle.Render("Reply templates"))
	b.WriteString("\n\n")

	switch {
	case snap.Err != nil && len(items) == 0:
		b.WriteString(theme.ErrorStyle.Render(snap.ErrText("Failed to load templates")))
	case snap.Loading && len(items) == 0:
		b.WriteString(theme.DimmedStyle.Render("Loading templates..."))
	case len(items) == 0:
		b.WriteString(theme.DimmedStyle.Italic(true).Render("No templates yet. Press 'n' to create one."))
	default:
		for i, t := range items {
			label := t.Name
			if t.Subject != "" {
				label += theme.DimmedStyle.Render("  " + ui.Truncate(ui.SingleLine(t.Subject), 50))
			}
			if i == m.selectedIdx {
				b.WriteString(theme.SelectedItemStyle.Render(label))
			} else {
				b.WriteString(theme.ListItemStyle.Render(label))
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
		"n new | e edit | d delete | esc back",
	))

	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Height(m.height).Render(b.String())
}

func (m Model) viewForm(f *huh.Form) string {
	if f == nil {
		return ""
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(f.View())
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

func (m Model) save() tea.Cmd {
	t := m.units
	in := api.TemplateInput{
		Name:    strings.TrimSpace(m.fb.name),
		Subject: m.fb.subject,
		Content: m.fb.content,
	}
	id := m.editingID
	isNew := m.isNew
	return func() tea.Msg {
		if isNew {
			return savedMsg{status: "Template saved", err: t.Create(context.Background(), in)}
		}
		return savedMsg{status: "Template saved", err: t.Update(context.Background(), id, in)}
	}
}

func (m Model) remove(id model.ID) tea.Cmd {
	t := m.units
	return func() tea.Msg {
		return savedMsg{status: "Template deleted", err: t.Delete(context.Background(), id)}
	}
}
