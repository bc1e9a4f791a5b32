package compose

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/maildesk/internal/model"
	"github.com/nhle/maildesk/internal/resource"
	"github.com/nhle/maildesk/internal/theme"
	"github.com/nhle/maildesk/internal/ui"
)

// Intent is what the user chose to do with the reply.
type Intent string

const (
	IntentSend    Intent = "send"
	IntentSave    Intent = "save"
	IntentDiscard Intent = "discard"
)

// SubmitMsg carries the finished draft and the chosen intent to the parent.
type SubmitMsg struct {
	Draft  model.Draft
	Intent Intent
}

// CancelMsg is dispatched when the user aborts the form.
type CancelMsg struct{}

type stage int

const (
	stageIdle stage = iota
	stageTemplate
	stageEdit
	stageSending
)

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	template string
	account  string
	to       string
	subject  string
	body     string
	intent   string
}

// Model is the reply composer.
type Model struct {
	form      *huh.Form
	fb        *formBindings
	stage     stage
	draft     model.Draft
	accounts  []model.Account
	templates []model.Template
	resumed   bool
	errMsg    string
	width     int
	height    int
}

// New creates an idle composer.
func New(width, height int) Model {
	return Model{fb: &formBindings{}, width: width, height: height}
}

// Start opens the composer on c. When templates are available the user picks
// one first.
func (m *Model) Start(c *resource.Compose, templates []model.Template) tea.Cmd {
	m.draft = c.Draft
	m.accounts = c.Accounts
	m.templates = templates
	m.resumed = c.Resumed
	m.errMsg = ""
	*m.fb = formBindings{intent: string(IntentSend)}

	if len(templates) > 0 && !c.Resumed {
		m.stage = stageTemplate
		m.form = m.buildTemplateForm()
	} else {
		m.stage = stageEdit
		m.form = m.buildEditForm()
	}
	return m.form.Init()
}

// SetError reports a failed send and returns to the form with the user's
// input intact.
func (m *Model) SetError(err error) tea.Cmd {
	m.errMsg = resource.ErrorText(err, "Failed to send reply")
	m.stage = stageEdit
	m.form = m.buildEditForm()
	return m.form.Init()
}

// Draft returns the draft as last submitted.
func (m Model) Draft() model.Draft {
	return m.draft
}

// Update handles messages for the composer.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil || m.stage == stageSending {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateAborted:
		m.stage = stageIdle
		return m, ui.Emit(CancelMsg{})

	case huh.StateCompleted:
		if m.stage == stageTemplate {
			m.applyTemplate()
			m.stage = stageEdit
			m.form = m.buildEditForm()
			return m, m.form.Init()
		}
		return m, m.handleSubmit()
	}

	return m, cmd
}

func (m *Model) applyTemplate() {
	for _, t := range m.templates {
		if t.ID.String() == m.fb.template {
			m.draft = resource.ApplyTemplate(m.draft, t)
			return
		}
	}
}

func (m *Model) handleSubmit() tea.Cmd {
	m.draft.AccountEmail = m.fb.account
	m.draft.ToEmail = strings.TrimSpace(m.fb.to)
	m.draft.Subject = m.fb.subject
	m.draft.Body = m.fb.body

	intent := Intent(m.fb.intent)
	if intent == IntentSend {
		m.stage = stageSending
	} else {
		m.stage = stageIdle
	}
	d := m.draft
	return ui.Emit(SubmitMsg{Draft: d, Intent: intent})
}

func (m Model) buildTemplateForm() *huh.Form {
	opts := []huh.Option[string]{huh.NewOption("(no template)", "")}
	for _, t := range m.templates {
		opts = append(opts, huh.NewOption(t.Name, t.ID.String()))
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Start from a template").
				Options(opts...).
				Value(&m.fb.template),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) buildEditForm() *huh.Form {
	m.fb.account = m.draft.AccountEmail
	m.fb.to = m.draft.ToEmail
	m.fb.subject = m.draft.Subject
	m.fb.body = m.draft.Body

	var accountField huh.Field
	if len(m.accounts) > 0 {
		opts := make([]huh.Option[string], 0, len(m.accounts))
		for _, a := range m.accounts {
			opts = append(opts, huh.NewOption(a.Email, a.Email))
		}
		accountField = huh.NewSelect[string]().
			Title("From").
			Options(opts...).
			Value(&m.fb.account)
	} else {
		accountField = huh.NewInput().
			Title("From").
			Placeholder("you@example.com").
			Value(&m.fb.account).
			Validate(required("sending account"))
	}

	return huh.NewForm(
		huh.NewGroup(
			accountField,
			huh.NewInput().
				Title("To").
				Value(&m.fb.to).
				Validate(required("recipient")),
			huh.NewInput().
				Title("Subject").
				Value(&m.fb.subject),
			huh.NewText().
				Title("Body").
				Description("Markdown").
				Lines(max(m.height-22, 6)).
				Value(&m.fb.body),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Then").
				Options(
					huh.NewOption("Send now", string(IntentSend)),
					huh.NewOption("Save as draft", string(IntentSave)),
					huh.NewOption("Discard", string(IntentDiscard)),
				).
				Value(&m.fb.intent),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(field + " is required")
		}
		return nil
	}
}

// View renders the composer.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	title := "Reply"
	if m.resumed {
		title += theme.DimmedStyle.Render("  (resumed draft)")
	}

	var b strings.Builder
	b.WriteString(theme.TitleStyle.Render(title))
	b.WriteString("\n")
	if m.errMsg != "" {
		b.WriteString(theme.ErrorStyle.Render(m.errMsg))
		b.WriteString("\n")
	}
	if m.stage == stageSending {
		b.WriteString(theme.NoticeStyle.Render(fmt.Sprintf("Sending to %s...", m.draft.ToEmail)))
	} else {
		b.WriteString(m.form.View())
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	if m.form != nil {
		m.form = m.form.WithWidth(m.formWidth()).WithHeight(m.formHeight())
	}
}

func (m Model) formWidth() int {
	return min(max(m.width-4, 40), 100)
}

func (m Model) formHeight() int {
	return max(m.height-4, 10)
}
