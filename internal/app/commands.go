package app

import (
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/maildesk/internal/config"
	"github.com/nhle/maildesk/internal/model"
	"github.com/nhle/maildesk/internal/ui"
)

// paletteCommands are suggested by the command palette and listed in help.
var paletteCommands = []string{
	"refresh", "fetch", "read all", "export page", "clear",
	"inbox", "unread", "starred", "archive", "spam", "trash",
	"categories", "notifications", "templates", "accounts", "users", "settings",
	"login", "logout", "quit",
}

// settingsSavedMsg reports the outcome of persisting the configuration.
type settingsSavedMsg struct {
	cfg config.Config
	err error
}

func (m Model) saveSettings(cfg config.Config) tea.Cmd {
	path := m.cfgPath
	return func() tea.Msg {
		return settingsSavedMsg{cfg: cfg, err: config.Save(path, &cfg)}
	}
}

// executeCommand handles a command string from the command palette.
func (m *Model) executeCommand(cmd string) tea.Cmd {
	cmd = strings.ToLower(strings.TrimSpace(cmd))

	if slices.Contains(model.Folders, cmd) {
		f := m.units.Messages.Filter()
		f.Folder, f.Page = cmd, 1
		m.currentView = ViewList
		return m.loadFilter(f)
	}

	switch cmd {
	case "refresh", "sync", "r":
		return tea.Batch(m.refetch(), m.loadStats(), m.poller.Refresh())
	case "fetch":
		m.setStatus("Fetching new mail...", false)
		return m.fetchNow()
	case "read all", "mark all read":
		return m.markAllRead()
	case "export page", "export":
		return m.exportPage()
	case "clear", "clear filters":
		f := m.units.Messages.Filter()
		f.Search, f.Category, f.MainCategory, f.SubCategory, f.Account = "", "", "", "", ""
		f.Page = 1
		m.currentView = ViewList
		return m.loadFilter(f)
	case "categories":
		m.open(ViewCategories)
		return m.categoriesView.Init()
	case "notifications":
		m.open(ViewNotifications)
		return m.notificationsView.Init()
	case "templates":
		m.open(ViewTemplates)
		return m.templatesView.Init()
	case "accounts":
		return m.openAdmin(ViewAccounts)
	case "users":
		return m.openAdmin(ViewUsers)
	case "settings", "config":
		m.settingsView.SetConfig(m.cfg)
		m.open(ViewSettings)
		return nil
	case "login":
		return ui.Emit(needLoginMsg{})
	case "logout":
		if !m.units.Session.Active() {
			return nil
		}
		return m.signOut()
	case "quit", "q":
		m.poller.Stop()
		return tea.Quit
	default:
		if account, ok := strings.CutPrefix(cmd, "account "); ok {
			f := m.units.Messages.Filter()
			f.Account, f.Page = strings.TrimSpace(account), 1
			m.currentView = ViewList
			return m.loadFilter(f)
		}
		m.setStatus("Unknown command: "+cmd, true)
		return nil
	}
}
