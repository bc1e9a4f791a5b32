package settings

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/maildesk/internal/config"
	"github.com/nhle/maildesk/internal/keys"
	"github.com/nhle/maildesk/internal/model"
	"github.com/nhle/maildesk/internal/theme"
	"github.com/nhle/maildesk/internal/ui"
)

// Mode is the current state of the settings view.
type Mode int

const (
	ModeSummary    Mode = iota // Show current settings
	ModeForm                   // Edit settings
	ModeValidating             // Probing the service
)

// DoneMsg signals the settings view should close.
type DoneMsg struct{}

// SavedMsg carries the edited configuration to the parent, which persists
// and applies it.
type SavedMsg struct {
	Config config.Config
}

// ProbeFunc checks that a service answers at baseURL.
type ProbeFunc func(ctx context.Context, baseURL string) error

type probeResultMsg struct {
	url string
	err error
}

type formBindings struct {
	baseURL       string
	timeout       string
	perPage       string
	pollInterval  string
	confirmDelay  string
	defaultFolder string
	cachePath     string
	logFile       string
	exportDir     string
}

// Model edits the persisted configuration.
type Model struct {
	mode      Mode
	cfg       config.Config
	path      string
	keys      *keys.KeyMap
	probe     ProbeFunc
	form      *huh.Form
	fb        *formBindings
	spinner   spinner.Model
	statusMsg string
	isErr     bool
	width     int
	height    int
}

// New creates the settings view over a copy of cfg. path is shown so the
// user knows where changes are written.
func New(cfg config.Config, path string, k *keys.KeyMap, probe ProbeFunc, width, height int) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return Model{
		cfg:     cfg,
		path:    path,
		keys:    k,
		probe:   probe,
		fb:      &formBindings{},
		spinner: sp,
		width:   width,
		height:  height,
	}
}

// SetConfig replaces the displayed configuration, typically after a save.
func (m *Model) SetConfig(cfg config.Config) {
	m.cfg = cfg
	m.mode = ModeSummary
}

// SetStatus shows a transient message under the summary.
func (m *Model) SetStatus(msg string, isErr bool) {
	m.statusMsg = msg
	m.isErr = isErr
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case probeResultMsg:
		m.mode = ModeSummary
		if msg.err != nil {
			m.SetStatus(fmt.Sprintf("%s is not reachable: %v", msg.url, msg.err), true)
		} else {
			m.SetStatus(fmt.Sprintf("%s is reachable", msg.url), false)
		}
		return m, nil

	case spinner.TickMsg:
		if m.mode == ModeValidating {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case ModeSummary:
			return m.handleSummaryKey(msg)
		case ModeValidating:
			return m, nil
		}
	}

	if m.mode == ModeForm {
		return m.updateForm(msg)
	}
	return m, nil
}

func (m Model) handleSummaryKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, ui.Emit(DoneMsg{})

	case msg.String() == "e", key.Matches(msg, m.keys.Select):
		m.loadBindings()
		m.form = m.buildForm()
		m.mode = ModeForm
		m.statusMsg = ""
		return m, m.form.Init()

	case msg.String() == "v":
		return m.startProbe(m.cfg.API.BaseURL)
	}
	return m, nil
}

func (m Model) startProbe(baseURL string) (Model, tea.Cmd) {
	if m.probe == nil {
		return m, nil
	}
	m.mode = ModeValidating
	probe := m.probe
	return m, tea.Batch(
		m.spinner.Tick,
		func() tea.Msg {
			return probeResultMsg{url: baseURL, err: probe(context.Background(), baseURL)}
		},
	)
}

func (m *Model) loadBindings() {
	c := m.cfg
	*m.fb = formBindings{
		baseURL:       c.API.BaseURL,
		timeout:       strconv.Itoa(c.API.TimeoutSec),
		perPage:       strconv.Itoa(c.UI.PerPage),
		pollInterval:  strconv.Itoa(c.UI.PollIntervalSec),
		confirmDelay:  strconv.Itoa(c.UI.StatsConfirmDelayMs),
		defaultFolder: c.UI.DefaultFolder,
		cachePath:     c.Cache.Path,
		logFile:       c.Log.File,
		exportDir:     c.Export.Dir,
	}
}

func validateURL(s string) error {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("enter a full URL such as http://localhost:5000")
	}
	return nil
}

func validateInt(lo, hi int) func(string) error {
	return func(s string) error {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil || n < lo || n > hi {
			return fmt.Errorf("enter a number between %d and %d", lo, hi)
		}
		return nil
	}
}

func (m Model) buildForm() *huh.Form {
	folders := make([]huh.Option[string], 0, len(model.Folders))
	for _, f := range model.Folders {
		folders = append(folders, huh.NewOption(ui.CategoryTitle(f), f))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Service URL").
				Description("Takes effect after restart.").
				Value(&m.fb.baseURL).
				Validate(validateURL),
			huh.NewInput().
				Title("Request timeout (seconds)").
				Value(&m.fb.timeout).
				Validate(validateInt(1, 600)),
			huh.NewInput().
				Title("Messages per page").
				Value(&m.fb.perPage).
				Validate(validateInt(1, 200)),
			huh.NewInput().
				Title("Background refresh (seconds)").
				Value(&m.fb.pollInterval).
				Validate(validateInt(10, 3600)),
			huh.NewInput().
				Title("Statistics confirm delay (ms)").
				Value(&m.fb.confirmDelay).
				Validate(validateInt(1, 10000)),
			huh.NewSelect[string]().
				Title("Start in folder").
				Options(folders...).
				Value(&m.fb.defaultFolder),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Cache database").
				Description("Takes effect after restart.").
				Value(&m.fb.cachePath),
			huh.NewInput().
				Title("Log file").
				Description("Takes effect after restart.").
				Value(&m.fb.logFile),
			huh.NewInput().
				Title("Export directory").
				Value(&m.fb.exportDir),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func atoi(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}

// apply copies validated form values onto cfg.
func (fb formBindings) apply(cfg config.Config) config.Config {
	cfg.API.BaseURL = strings.TrimSpace(fb.baseURL)
	cfg.API.TimeoutSec = atoi(fb.timeout)
	cfg.UI.PerPage = atoi(fb.perPage)
	cfg.UI.PollIntervalSec = atoi(fb.pollInterval)
	cfg.UI.StatsConfirmDelayMs = atoi(fb.confirmDelay)
	cfg.UI.DefaultFolder = fb.defaultFolder
	if p := strings.TrimSpace(fb.cachePath); p != "" {
		cfg.Cache.Path = p
	}
	if p := strings.TrimSpace(fb.logFile); p != "" {
		cfg.Log.File = p
	}
	if p := strings.TrimSpace(fb.exportDir); p != "" {
		cfg.Export.Dir = p
	}
	return cfg
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		m.mode = ModeSummary
		return m, nil
	}
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateAborted:
		m.mode = ModeSummary
		return m, nil
	case huh.StateCompleted:
		m.mode = ModeSummary
		cfg := m.fb.apply(m.cfg)
		return m, ui.Emit(SavedMsg{Config: cfg})
	}
	return m, cmd
}

// View renders the settings view.
func (m Model) View() string {
	if m.mode == ModeForm && m.form != nil {
		return lipgloss.NewStyle().Padding(1, 2).Render(
			theme.TitleStyle.Render("Edit settings") + "\n" + m.form.View(),
		)
	}

	var b strings.Builder
	b.WriteString(theme.TitleStyle.Render("Settings"))
	b.WriteString("\n")
	b.WriteString(theme.DimmedStyle.Render(m.path))
	b.WriteString("\n\n")

	rows := [][2]string{
		{"Service URL", m.cfg.API.BaseURL},
		{"Request timeout", fmt.Sprintf("%ds", m.cfg.API.TimeoutSec)},
		{"Messages per page", strconv.Itoa(m.cfg.UI.PerPage)},
		{"Background refresh", fmt.Sprintf("%ds", m.cfg.UI.PollIntervalSec)},
		{"Statistics confirm delay", fmt.Sprintf("%dms", m.cfg.UI.StatsConfirmDelayMs)},
		{"Start in folder", m.cfg.UI.DefaultFolder},
		{"Cache database", m.cfg.Cache.Path},
		{"Log file", m.cfg.Log.File},
		{"Export directory", m.cfg.Export.Dir},
	}
	labelStyle := lipgloss.NewStyle().Width(26).Foreground(theme.ColorGray)
	for _, r := range rows {
		b.WriteString(labelStyle.Render(r[0]))
		b.WriteString(r[1])
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case m.mode == ModeValidating:
		b.WriteString(m.spinner.View() + " Checking " + m.cfg.API.BaseURL + "...")
	case m.statusMsg != "" && m.isErr:
		b.WriteString(theme.ErrorStyle.Render(m.statusMsg))
	case m.statusMsg != "":
		b.WriteString(theme.NoticeStyle.Render(m.statusMsg))
	}

	b.WriteString("\n\n")
	b.WriteString(theme.DimmedStyle.Render("e edit | v check service | esc back"))

	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Height(m.height).Render(b.String())
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
