package maillist

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/maildesk/internal/keys"
	"github.com/nhle/maildesk/internal/model"
	"github.com/nhle/maildesk/internal/resource"
	"github.com/nhle/maildesk/internal/theme"
	"github.com/nhle/maildesk/internal/ui"
)

// OpenMsg asks the parent to open the message at Index.
type OpenMsg struct {
	Index int
}

// FilterMsg asks the parent to load the list with a new filter set.
type FilterMsg struct {
	Filter model.MessageFilter
}

// Model is the message list view.
type Model struct {
	list        list.Model
	browser     *resource.Browser
	keys        *keys.KeyMap
	folders     []string
	searchMode  bool
	searchInput textinput.Model
	notice      string
	width       int
	height      int
}

// New creates the message list over browser.
func New(b *resource.Browser, k *keys.KeyMap, folders []string, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height-3)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	si := textinput.New()
	si.Placeholder = "search messages..."
	si.Prompt = "/ "
	si.Width = width - 4

	if len(folders) == 0 {
		folders = model.Folders
	}

	return Model{
		list:        l,
		browser:     b,
		keys:        k,
		folders:     folders,
		searchInput: si,
		width:       width,
		height:      height,
	}
}

// Sync rebuilds the rows from the current snapshot, keeping the cursor in
// range.
func (m *Model) Sync() tea.Cmd {
	msgs := m.browser.Messages.Snapshot().Data.Messages
	items := make([]list.Item, len(msgs))
	for i, msg := range msgs {
		items[i] = MessageItem{Message: msg}
	}

	idx := m.list.Index()
	cmd := m.list.SetItems(items)
	if len(items) > 0 {
		m.list.Select(min(idx, len(items)-1))
	}
	return cmd
}

// Select moves the cursor to i, used to follow the reader.
func (m *Model) Select(i int) {
	m.list.Select(i)
}

// SetNotice shows a transient line under the list.
func (m *Model) SetNotice(s string) {
	m.notice = s
}

// Searching reports whether the search input has focus.
func (m Model) Searching() bool {
	return m.searchMode
}

// Update handles messages for the message list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if m.searchMode {
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		f := m.browser.Messages.Filter()
		f.Search = strings.TrimSpace(m.searchInput.Value())
		f.Page = 1
		return m, ui.Emit(FilterMsg{Filter: f})

	case "esc":
		m.searchMode = false
		m.searchInput.Reset()
		f := m.browser.Messages.Filter()
		if f.Search == "" {
			return m, nil
		}
		f.Search = ""
		f.Page = 1
		return m, ui.Emit(FilterMsg{Filter: f})
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m Model) selected() (model.Message, bool) {
	item, ok := m.list.SelectedItem().(MessageItem)
	if !ok {
		return model.Message{}, false
	}
	return item.Message, true
}

func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		if _, ok := m.selected(); !ok {
			return m, nil
		}
		return m, ui.Emit(OpenMsg{Index: m.list.Index()})

	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.SetValue(m.browser.Messages.Filter().Search)
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.NextFolder):
		return m, m.stepFolder(1)

	case key.Matches(msg, m.keys.PrevFolder):
		return m, m.stepFolder(-1)

	case key.Matches(msg, m.keys.NextPage):
		p := m.browser.Messages.Snapshot().Data.Pagination
		if !p.HasNext() {
			return m, nil
		}
		f := m.browser.Messages.Filter()
		f.Page = p.Page + 1
		return m, ui.Emit(FilterMsg{Filter: f})

	case key.Matches(msg, m.keys.PrevPage):
		p := m.browser.Messages.Snapshot().Data.Pagination
		if !p.HasPrev() {
			return m, nil
		}
		f := m.browser.Messages.Filter()
		f.Page = p.Page - 1
		return m, ui.Emit(FilterMsg{Filter: f})

	case key.Matches(msg, m.keys.MarkAllRead):
		return m, ui.Emit(ui.RequestMsg{Kind: ui.RequestMarkAllRead})

	case key.Matches(msg, m.keys.FetchNow):
		return m, ui.Emit(ui.RequestMsg{Kind: ui.RequestFetch})

	case key.Matches(msg, m.keys.ExportPage):
		return m, ui.Emit(ui.RequestMsg{Kind: ui.RequestExportPage})
	}

	if sel, ok := m.selected(); ok {
		inTrash := m.browser.Messages.Filter().Folder == model.FolderTrash
		if cmd := ui.MessageKey(m.keys, msg, sel, inTrash); cmd != nil {
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// stepFolder moves to the next or previous folder, clearing category and
// search filters.
func (m Model) stepFolder(delta int) tea.Cmd {
	f := m.browser.Messages.Filter()
	idx := 0
	for i, name := range m.folders {
		if name == f.Folder {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(m.folders)) % len(m.folders)

	return ui.Emit(FilterMsg{Filter: model.MessageFilter{
		Folder:  m.folders[idx],
		Account: f.Account,
		PerPage: f.PerPage,
		Page:    1,
	}})
}

// View renders the folder bar, the list, and the pagination footer.
func (m Model) View() string {
	sections := []string{m.renderFolders()}

	if m.searchMode {
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.searchInput.View()))
	}

	sections = append(sections, m.renderBody(), m.renderFooter())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) bodyHeight() int {
	h := m.height - 3
	if m.searchMode {
		h--
	}
	return max(h, 1)
}

// renderBody shows exactly one of loading, error, empty or the rows.
func (m Model) renderBody() string {
	snap := m.browser.Messages.Snapshot()
	h := m.bodyHeight()

	switch {
	case snap.Err != nil:
		return ui.Placeholder(m.width, h, theme.ErrorStyle,
			snap.ErrText("Failed to load messages")+"\n\nPress r to retry.")
	case len(snap.Data.Messages) == 0 && (snap.Loading || !snap.Loaded):
		return ui.Placeholder(m.width, h, theme.DimmedStyle, "Loading messages...")
	case len(snap.Data.Messages) == 0:
		return ui.Placeholder(m.width, h, theme.DimmedStyle, m.emptyText())
	}

	l := m.list
	l.SetSize(m.width, h)
	return l.View()
}

func (m Model) emptyText() string {
	f := m.browser.Messages.Filter()
	if f.Search != "" || f.Category != "" || f.MainCategory != "" || f.Account != "" {
		return "No matching messages.\nTry adjusting your filters."
	}
	return fmt.Sprintf("No messages in %s.", f.Folder)
}

func (m Model) renderFolders() string {
	current := m.browser.Messages.Filter().Folder
	tabs := make([]string, 0, len(m.folders))
	for _, name := range m.folders {
		label := ui.CategoryTitle(name)
		if name == current {
			tabs = append(tabs, theme.ActiveTabStyle.Render(label))
		} else {
			tabs = append(tabs, theme.TabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderFooter() string {
	snap := m.browser.Messages.Snapshot()
	p := snap.Data.Pagination

	var parts []string
	if p.Pages > 0 {
		parts = append(parts, fmt.Sprintf("page %d/%d · %s messages", p.Page, p.Pages, ui.Count(p.Total)))
	}
	if s := m.FilterSummary(); s != "" {
		parts = append(parts, s)
	}
	if snap.Loading && snap.Loaded {
		parts = append(parts, "refreshing...")
	}

	line := theme.DimmedStyle.Render(strings.Join(parts, " | "))
	if m.notice != "" {
		line += "  " + theme.NoticeStyle.Render(m.notice)
	}
	return lipgloss.NewStyle().Padding(0, 1).Render(line)
}

// FilterSummary describes the active search, category and account filters.
func (m Model) FilterSummary() string {
	f := m.browser.Messages.Filter()
	var parts []string
	if f.Search != "" {
		parts = append(parts, fmt.Sprintf("search %q", f.Search))
	}
	switch {
	case f.MainCategory != "" && f.SubCategory != "":
		parts = append(parts, "category "+ui.CategoryTitle(f.MainCategory)+"/"+ui.CategoryTitle(f.SubCategory))
	case f.MainCategory != "":
		parts = append(parts, "category "+ui.CategoryTitle(f.MainCategory))
	case f.Category != "":
		parts = append(parts, "category "+ui.CategoryTitle(f.Category))
	}
	if f.Account != "" {
		parts = append(parts, "account "+f.Account)
	}
	return strings.Join(parts, ", ")
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, m.bodyHeight())
	m.searchInput.Width = width - 4
}
