package categories

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/maildesk/internal/keys"
	"github.com/nhle/maildesk/internal/model"
	"github.com/nhle/maildesk/internal/resource"
	"github.com/nhle/maildesk/internal/theme"
	"github.com/nhle/maildesk/internal/ui"
)

// CloseMsg signals the parent to close the category view.
type CloseMsg struct{}

// SelectMsg asks the parent to filter the message list by category. Both
// fields empty clears the category filter.
type SelectMsg struct {
	Main string
	Sub  string
}

type loadedMsg struct{ err error }

// row is one visible line of the tree.
type row struct {
	main  string
	sub   string
	count int
	node  *model.CategoryNode
}

// Model is the category browser: main categories with lazily expanded
// sub categories.
type Model struct {
	units       *resource.Categories
	keys        *keys.KeyMap
	selectedIdx int
	width       int
	height      int
}

// New creates the category browser.
func New(c *resource.Categories, k *keys.KeyMap, width, height int) Model {
	return Model{units: c, keys: k, width: width, height: height}
}

// Init loads the main categories.
func (m Model) Init() tea.Cmd {
	c := m.units
	return func() tea.Msg {
		return loadedMsg{err: c.Load(context.Background())}
	}
}

func (m Model) rows() []row {
	nodes := m.units.Snapshot().Data
	var rows []row
	for i := range nodes {
		n := &nodes[i]
		rows = append(rows, row{main: n.Name, count: n.Count, node: n})
		if !n.Expanded {
			continue
		}
		for _, c := range n.Children {
			rows = append(rows, row{main: n.Name, sub: c.Name, count: c.Count})
		}
	}
	return rows
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case loadedMsg:
		if n := len(m.rows()); m.selectedIdx >= n {
			m.selectedIdx = max(n-1, 0)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	rows := m.rows()

	switch {
	case key.Matches(msg, m.keys.Back):
		return m, ui.Emit(CloseMsg{})

	case key.Matches(msg, m.keys.Down):
		if len(rows) > 0 {
			m.selectedIdx = (m.selectedIdx + 1) % len(rows)
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if len(rows) > 0 {
			m.selectedIdx--
			if m.selectedIdx < 0 {
				m.selectedIdx = len(rows) - 1
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, m.Init()

	case msg.String() == "x":
		return m, ui.Emit(SelectMsg{})
	}

	if m.selectedIdx >= len(rows) {
		return m, nil
	}
	r := rows[m.selectedIdx]

	switch {
	case key.Matches(msg, m.keys.Select):
		if r.sub != "" {
			return m, ui.Emit(SelectMsg{Main: r.main, Sub: r.sub})
		}
		c := m.units
		main := r.main
		return m, func() tea.Msg {
			return loadedMsg{err: c.Toggle(context.Background(), main)}
		}

	case msg.String() == "f":
		return m, ui.Emit(SelectMsg{Main: r.main, Sub: r.sub})
	}
	return m, nil
}

// View renders the tree.
func (m Model) View() string {
	snap := m.units.Snapshot()
	var b strings.Builder

	b.WriteString(theme.TitleStyle.Render("Categories"))
	b.WriteString("\n\n")

	rows := m.rows()
	switch {
	case snap.Err != nil:
		b.WriteString(theme.ErrorStyle.Render(snap.ErrText("Failed to load categories")))
	case snap.Loading && len(rows) == 0:
		b.WriteString(theme.DimmedStyle.Render("Loading categories..."))
	case len(rows) == 0:
		b.WriteString(theme.DimmedStyle.Italic(true).Render("No categories yet."))
	default:
		for i, r := range rows {
			line := m.renderRow(r)
			if i == m.selectedIdx {
				b.WriteString(theme.SelectedItemStyle.Render(line))
			} else {
				b.WriteString(theme.ListItemStyle.Render(line))
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n\n")
	b.WriteString(theme.DimmedStyle.Render(
		"enter expand/filter | f filter | x clear filter | r reload | esc back",
	))

	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Height(m.height).Render(b.String())
}

func (m Model) renderRow(r row) string {
	count := theme.DimmedStyle.Render(fmt.Sprintf("(%s)", ui.Count(r.count)))
	if r.sub != "" {
		return fmt.Sprintf("    %s %s", ui.CategoryTitle(r.sub), count)
	}

	arrow := "▸"
	if r.node.Expanded {
		arrow = "▾"
	}
	label := theme.CategoryStyle(r.main).Render(ui.CategoryTitle(r.main))
	line := fmt.Sprintf("%s %s %s", arrow, label, count)
	if r.node.Expanded && r.node.Loaded && len(r.node.Children) == 0 {
		line += theme.DimmedStyle.Render("  no sub categories")
	}
	return line
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
