package app

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/maildesk/internal/api"
	"github.com/nhle/maildesk/internal/config"
	"github.com/nhle/maildesk/internal/keys"
	"github.com/nhle/maildesk/internal/model"
	"github.com/nhle/maildesk/internal/nav"
	"github.com/nhle/maildesk/internal/refresh"
	"github.com/nhle/maildesk/internal/resource"
	appsync "github.com/nhle/maildesk/internal/sync"
	"github.com/nhle/maildesk/internal/theme"
	"github.com/nhle/maildesk/internal/ui"
	"github.com/nhle/maildesk/internal/ui/accounts"
	"github.com/nhle/maildesk/internal/ui/categories"
	"github.com/nhle/maildesk/internal/ui/command"
	"github.com/nhle/maildesk/internal/ui/compose"
	helpview "github.com/nhle/maildesk/internal/ui/help"
	"github.com/nhle/maildesk/internal/ui/login"
	"github.com/nhle/maildesk/internal/ui/maillist"
	"github.com/nhle/maildesk/internal/ui/notifications"
	"github.com/nhle/maildesk/internal/ui/reader"
	"github.com/nhle/maildesk/internal/ui/settings"
	"github.com/nhle/maildesk/internal/ui/templates"
	"github.com/nhle/maildesk/internal/ui/users"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewList ViewState = iota
	ViewReader
	ViewLogin
	ViewCategories
	ViewNotifications
	ViewTemplates
	ViewCompose
	ViewAccounts
	ViewUsers
	ViewSettings
	ViewHelp
	ViewCommand
)

// tagPrompt is the command palette question kind for adding tags.
const tagPrompt = "tag"

// Options configures the root model.
type Options struct {
	Config     *config.Config
	ConfigPath string
	Units      *Units
}

// Model is the root Bubble Tea model that manages view routing,
// layout, and access to the data units.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	cfg          config.Config
	cfgPath      string
	units        *Units
	keys         *keys.KeyMap
	poller       *appsync.Poller

	listView          maillist.Model
	reader            reader.Model
	loginView         login.Model
	categoriesView    categories.Model
	notificationsView notifications.Model
	templatesView     templates.Model
	composeView       compose.Model
	accountsView      accounts.Model
	usersView         users.Model
	settingsView      settings.Model
	helpView          helpview.Model
	commandView       command.Model

	ready            bool
	status           string
	statusErr        bool
	authErrorMessage string
	tagTarget        model.ID

	// detached is set while the reader shows a message fetched outside the
	// current page.
	detached bool
}

// New creates the root model. Without an active session it starts on the
// sign-in form.
func New(opts Options) Model {
	k := keys.DefaultKeyMap()
	u := opts.Units
	cfg := *opts.Config

	m := Model{
		currentView: ViewList,
		cfg:         cfg,
		cfgPath:     opts.ConfigPath,
		units:       u,
		keys:        k,
		poller:      appsync.New(u.Notifications, u.Bus, cfg.PollInterval()),

		listView:          maillist.New(u.Browser, k, model.Folders, 80, 24),
		reader:            reader.New(k, 80, 24),
		loginView:         login.New(u.Client.BaseURL(), 80, 24),
		categoriesView:    categories.New(u.Categories, k, 80, 24),
		notificationsView: notifications.New(u.Notifications, k, 80, 24),
		templatesView:     templates.New(u.Templates, k, 80, 24),
		composeView:       compose.New(80, 24),
		accountsView:      accounts.New(u.Managed, k, 80, 24),
		usersView:         users.New(u.Users, k, u.Session.Role(), 80, 24),
		settingsView:      settings.New(cfg, opts.ConfigPath, k, probe(cfg.Timeout()), 80, 24),
		helpView:          helpview.New(k, paletteCommands, 80, 24),
		commandView:       command.New(paletteCommands, 80, 24),
	}
	m.helpView.SetIdentity(m.identity())
	return m
}

// probe checks a service URL with a throwaway client.
func probe(timeout time.Duration) settings.ProbeFunc {
	return func(ctx context.Context, baseURL string) error {
		return api.NewClient(baseURL, nil, timeout).Health(ctx)
	}
}

// Init fills the list from the offline cache, then either signs in or loads
// live data and starts polling.
func (m Model) Init() tea.Cmd {
	if !m.units.Session.Active() {
		return tea.Batch(m.warm(), ui.Emit(needLoginMsg{}))
	}
	return tea.Batch(m.warm(), m.bootstrap(), m.poller.Start())
}

func (m Model) identity() string {
	user, ok := m.units.Session.User()
	if !ok {
		return "Not signed in"
	}
	name := user.Email
	if user.Name != "" {
		name = fmt.Sprintf("%s <%s>", user.Name, user.Email)
	}
	return fmt.Sprintf("Signed in as %s (%s)", name, user.Role)
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

func (m *Model) setErr(err error, fallback string) {
	m.setStatus(resource.ErrorText(err, fallback), true)
}

// open switches to view v, remembering where the user came from.
func (m *Model) open(v ViewState) {
	if m.currentView != v {
		m.previousView = m.currentView
	}
	m.currentView = v
}

// back returns to the list or reader that opened a panel.
func (m *Model) back() {
	if m.previousView == ViewReader && m.units.Browser.Nav().Viewing() {
		m.currentView = ViewReader
		return
	}
	m.currentView = ViewList
}

func (m Model) inTrash() bool {
	return m.units.Messages.Filter().Folder == model.FolderTrash
}

// syncReader re-points the reader at the open message after the list
// changed, or closes it when the message is gone.
func (m *Model) syncReader() {
	if m.currentView != ViewReader || m.detached {
		return
	}
	if msg, ok := m.units.Browser.Current(); ok {
		nv := m.units.Browser.Nav()
		m.reader.SetMessage(msg, nv, m.inTrash())
		m.listView.Select(nv.Index())
		return
	}
	if _, ok := m.reader.Current(); ok && !m.units.Browser.Nav().Viewing() {
		m.reader.Clear()
		m.currentView = ViewList
	}
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w, h := m.layout.ContentWidth(), m.layout.ContentHeight()
		m.listView.SetSize(w, h)
		m.reader.SetSize(w, h)
		m.loginView.SetSize(w, h)
		m.categoriesView.SetSize(w, h)
		m.notificationsView.SetSize(w, h)
		m.templatesView.SetSize(w, h)
		m.composeView.SetSize(w, h)
		m.accountsView.SetSize(w, h)
		m.usersView.SetSize(w, h)
		m.settingsView.SetSize(w, h)
		m.helpView.SetSize(w, h)
		m.commandView.SetSize(w, h)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	// === Session ===

	case needLoginMsg:
		m.open(ViewLogin)
		if msg.reason != "" {
			return m, m.loginView.SetError(msg.reason)
		}
		return m, m.loginView.Start()

	case login.SubmitMsg:
		return m, m.signIn(msg.Email, msg.Password)

	case signedInMsg:
		if msg.err != nil {
			return m, m.loginView.SetError(resource.ErrorText(msg.err, "Sign in failed"))
		}
		log.Printf("signed in as %s (%s)", msg.user.Email, msg.user.Role)
		m.authErrorMessage = ""
		m.currentView = ViewList
		m.usersView = users.New(m.units.Users, m.keys, m.units.Session.Role(), m.layout.ContentWidth(), m.layout.ContentHeight())
		m.helpView.SetIdentity(m.identity())
		m.setStatus("Signed in as "+msg.user.Email, false)
		return m, tea.Batch(m.bootstrap(), m.poller.Start())

	case login.CancelMsg:
		// Without a session the cached page can still be browsed.
		m.currentView = ViewList
		if !m.units.Session.Active() {
			m.setStatus("Offline: press L to sign in", true)
		}
		return m, nil

	// === Loading ===

	case warmMsg:
		if msg.ok {
			m.listView.SetNotice("cached " + ui.RelativeTime(msg.at))
		}
		return m, m.listView.Sync()

	case bootstrapMsg:
		m.listView.SetNotice("")
		m.units.Browser.Reconcile()
		if msg.err != nil {
			log.Printf("bootstrap: %v", msg.err)
			if isAuthErr(msg.err) {
				return m, tea.Batch(m.listView.Sync(), ui.Emit(needLoginMsg{reason: "Please sign in"}))
			}
			m.setErr(msg.err, "Some data failed to load")
		}
		return m, m.listView.Sync()

	case listLoadedMsg:
		if msg.reset {
			m.units.Browser.Reset()
		} else {
			m.units.Browser.Reconcile()
		}
		if msg.err == nil {
			m.listView.SetNotice("")
		} else if isAuthErr(msg.err) {
			m.authErrorMessage = "Session expired. Press L to sign in again."
		}
		m.syncReader()
		return m, m.listView.Sync()

	case statsLoadedMsg:
		if msg.err != nil && isAuthErr(msg.err) {
			m.authErrorMessage = "Session expired. Press L to sign in again."
		}
		return m, nil

	case appsync.PollResultMsg:
		if msg.AuthError != "" {
			m.authErrorMessage = msg.AuthError
		} else if msg.Error == nil {
			m.authErrorMessage = ""
		}
		if msg.NewCount > 0 {
			m.setStatus(fmt.Sprintf("%d new notification(s). Press N to view", msg.NewCount), false)
		}
		return m, m.poller.WaitForNextResult()

	case appsync.SignalMsg:
		wait := m.poller.WaitForNextResult()
		switch msg.Signal {
		case refresh.Stats:
			return m, tea.Batch(wait, m.loadStats())
		case refresh.Messages:
			return m, tea.Batch(wait, m.refetch())
		case refresh.Notifications:
			return m, tea.Batch(wait, m.loadNotifications())
		}
		return m, wait

	// === List and reader ===

	case maillist.FilterMsg:
		m.setStatus("", false)
		return m, m.loadFilter(msg.Filter)

	case maillist.OpenMsg:
		msg2, run := m.units.Browser.Open(msg.Index)
		if !m.units.Browser.Nav().Viewing() {
			return m, nil
		}
		m.detached = false
		m.reader.SetMessage(msg2, m.units.Browser.Nav(), m.inTrash())
		m.open(ViewReader)
		return m, tea.Batch(m.listView.Sync(), runRead(run))

	case reader.StepMsg:
		next, run, ok := m.units.Browser.Step(msg.Delta)
		if !ok {
			return m, nil
		}
		nv := m.units.Browser.Nav()
		m.reader.SetMessage(next, nv, m.inTrash())
		m.listView.Select(nv.Index())
		return m, tea.Batch(m.listView.Sync(), runRead(run))

	case reader.CloseMsg:
		m.detached = false
		m.units.Browser.Close()
		m.reader.Clear()
		m.currentView = ViewList
		return m, nil

	case readDoneMsg:
		if msg.err != nil {
			m.setErr(msg.err, "Could not update read state")
		}
		m.syncReader()
		return m, m.listView.Sync()

	case ui.ActionMsg:
		m.setStatus("", false)
		return m, m.applyAction(msg.ID, msg.Action, nil)

	case actionDoneMsg:
		if msg.err != nil {
			if isAuthErr(msg.err) {
				m.authErrorMessage = "Session expired. Press L to sign in again."
			}
			m.setStatus(m.units.Dispatcher.Err(), true)
		} else {
			m.setStatus(actionDone(msg.action), false)
		}
		m.units.Browser.Reconcile()
		m.syncReader()
		return m, m.listView.Sync()

	case ui.RequestMsg:
		return m.handleRequest(msg)

	case opDoneMsg:
		if msg.err != nil {
			m.setErr(msg.err, "Request failed")
		} else {
			m.setStatus(msg.status, false)
		}
		m.units.Browser.Reconcile()
		m.syncReader()
		return m, m.listView.Sync()

	case command.AnswerMsg:
		m.back()
		if msg.Kind == tagPrompt && m.tagTarget != "" {
			tags := parseTags(msg.Value)
			id := m.tagTarget
			m.tagTarget = ""
			if len(tags) == 0 {
				return m, nil
			}
			return m, m.applyAction(id, string(model.ActionTag), tags)
		}
		return m, nil

	case command.CommandMsg:
		m.back()
		return m, m.executeCommand(string(msg))

	// === Compose ===

	case composeReadyMsg:
		if msg.err != nil {
			m.setErr(msg.err, "Could not start reply")
			return m, nil
		}
		m.open(ViewCompose)
		return m, m.composeView.Start(msg.compose, msg.templates)

	case compose.SubmitMsg:
		switch msg.Intent {
		case compose.IntentSend:
			return m, m.sendReply(msg.Draft)
		case compose.IntentSave:
			return m, m.saveDraft(msg.Draft)
		default:
			return m, m.discardDraft(msg.Draft)
		}

	case composeDoneMsg:
		if msg.err != nil && msg.sent {
			return m, m.composeView.SetError(msg.err)
		}
		m.back()
		if msg.err != nil {
			m.setErr(msg.err, "Could not save draft")
			return m, nil
		}
		m.setStatus(msg.status, false)
		return m, nil

	case compose.CancelMsg:
		m.back()
		return m, nil

	// === Panels ===

	case categories.SelectMsg:
		f := m.units.Messages.Filter()
		f.MainCategory, f.SubCategory, f.Category = msg.Main, msg.Sub, ""
		f.Page = 1
		m.currentView = ViewList
		return m, m.loadFilter(f)

	case notifications.OpenEmailMsg:
		msgs := m.units.Messages.Snapshot().Data.Messages
		for i, mm := range msgs {
			if mm.ID == msg.ID {
				m.currentView = ViewList
				return m.Update(maillist.OpenMsg{Index: i})
			}
		}
		return m, m.fetchMessage(msg.ID)

	case remoteMessageMsg:
		if msg.err != nil {
			m.setErr(msg.err, "Message not found")
			return m, nil
		}
		m.units.Browser.Close()
		m.detached = true
		m.reader.SetMessage(*msg.msg, nav.Navigator{}, msg.msg.IsTrashed)
		m.open(ViewReader)
		return m, nil

	case notifications.ChangedMsg:
		return m, nil

	case settings.SavedMsg:
		return m, m.saveSettings(msg.Config)

	case settingsSavedMsg:
		if msg.err != nil {
			m.settingsView.SetStatus(resource.ErrorText(msg.err, "Could not save settings"), true)
			return m, nil
		}
		perPageChanged := msg.cfg.UI.PerPage != m.cfg.UI.PerPage
		m.cfg = msg.cfg
		m.units.Dispatcher.ConfirmDelay = m.cfg.ConfirmDelay()
		m.settingsView.SetConfig(m.cfg)
		m.settingsView.SetStatus("Saved", false)
		if perPageChanged {
			f := m.units.Messages.Filter()
			f.PerPage, f.Page = m.cfg.UI.PerPage, 1
			return m, m.loadFilter(f)
		}
		return m, nil

	case categories.CloseMsg, notifications.CloseMsg, templates.CloseMsg,
		accounts.CloseMsg, users.CloseMsg, settings.DoneMsg:
		m.back()
		return m, nil

	case tea.KeyMsg:
		if cmd, handled := m.handleGlobalKey(msg); handled {
			return m, cmd
		}
		if m.currentView == ViewCommand && msg.String() == "esc" {
			m.commandView.Reset()
			m.tagTarget = ""
			m.back()
			return m, nil
		}
		if m.currentView == ViewHelp && msg.String() == "esc" {
			m.back()
			return m, nil
		}
		if m.currentView == ViewList || m.currentView == ViewReader {
			m.setStatus("", false)
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// capturesText reports whether the active view is taking free text input,
// in which case single-letter shortcuts belong to it.
func (m Model) capturesText() bool {
	switch m.currentView {
	case ViewLogin, ViewCompose, ViewCommand, ViewTemplates, ViewAccounts, ViewUsers, ViewSettings:
		return true
	case ViewList:
		return m.listView.Searching()
	}
	return false
}

// handleGlobalKey processes keys that work across views.
func (m *Model) handleGlobalKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if msg.String() == "ctrl+c" {
		m.poller.Stop()
		return tea.Quit, true
	}
	if m.capturesText() {
		return nil, false
	}

	browsing := m.currentView == ViewList || m.currentView == ViewReader

	switch {
	case key.Matches(msg, m.keys.Quit) && msg.String() == "q" && m.currentView == ViewList:
		m.poller.Stop()
		return tea.Quit, true

	case key.Matches(msg, m.keys.Help):
		if m.currentView == ViewHelp {
			m.back()
			return nil, true
		}
		m.open(ViewHelp)
		return nil, true

	case key.Matches(msg, m.keys.Command):
		m.commandView.Reset()
		m.open(ViewCommand)
		return m.commandView.Focus(), true
	}

	if !browsing {
		return nil, false
	}

	switch {
	case key.Matches(msg, m.keys.Refresh) && m.currentView == ViewList:
		m.setStatus("Refreshing...", false)
		return tea.Batch(m.refetch(), m.loadStats(), m.poller.Refresh()), true

	case key.Matches(msg, m.keys.Categories):
		m.open(ViewCategories)
		return m.categoriesView.Init(), true

	case key.Matches(msg, m.keys.Notifications):
		m.open(ViewNotifications)
		return m.notificationsView.Init(), true

	case key.Matches(msg, m.keys.Templates):
		m.open(ViewTemplates)
		return m.templatesView.Init(), true

	case key.Matches(msg, m.keys.Accounts):
		return m.openAdmin(ViewAccounts), true

	case key.Matches(msg, m.keys.Users):
		return m.openAdmin(ViewUsers), true

	case key.Matches(msg, m.keys.Settings):
		m.settingsView.SetConfig(m.cfg)
		m.open(ViewSettings)
		return nil, true

	case key.Matches(msg, m.keys.Session):
		if m.units.Session.Active() {
			return m.signOut(), true
		}
		return ui.Emit(needLoginMsg{}), true
	}
	return nil, false
}

// openAdmin opens an admin-only panel, or explains why it cannot.
func (m *Model) openAdmin(v ViewState) tea.Cmd {
	if !m.units.Session.IsAdmin() {
		m.setStatus("Administrator access required", true)
		return nil
	}
	m.open(v)
	if v == ViewUsers {
		return m.usersView.Init()
	}
	return m.accountsView.Init()
}

// handleRequest performs a non-action operation asked for by the list or
// the reader.
func (m Model) handleRequest(req ui.RequestMsg) (tea.Model, tea.Cmd) {
	var target model.Message
	if req.ID != "" {
		found, ok := m.units.Messages.Find(req.ID)
		if !ok {
			if cur, ok := m.reader.Current(); ok && cur.ID == req.ID {
				found = cur
			} else {
				m.setStatus("Message is no longer in the list", true)
				return m, nil
			}
		}
		target = found
	}

	switch req.Kind {
	case ui.RequestToggleRead:
		run := m.units.Messages.SetRead(target.ID, !target.IsRead)
		m.syncReader()
		return m, tea.Batch(m.listView.Sync(), runRead(run))

	case ui.RequestTag:
		m.tagTarget = target.ID
		m.open(ViewCommand)
		current := strings.Join(target.Tags, ", ")
		return m, m.commandView.Ask(tagPrompt, "Tags for "+ui.Truncate(ui.SingleLine(target.Subject), 40),
			"comma separated", current)

	case ui.RequestReply:
		m.setStatus("Preparing reply...", false)
		return m, m.startCompose(target.ID)

	case ui.RequestExport:
		return m, m.exportMessage(target)

	case ui.RequestExportPage:
		return m, m.exportPage()

	case ui.RequestDelete:
		return m, m.deleteMessage(target.ID)

	case ui.RequestMarkAllRead:
		return m, m.markAllRead()

	case ui.RequestFetch:
		m.setStatus("Fetching new mail...", false)
		return m, m.fetchNow()
	}
	return m, nil
}

// actionDone is the status line shown after a successful action.
func actionDone(name string) string {
	a, err := model.ParseAction(name)
	if err != nil {
		return "Done"
	}
	switch a {
	case model.ActionStar:
		return "Star toggled"
	case model.ActionArchive:
		return "Archived"
	case model.ActionTrash:
		return "Moved to trash"
	case model.ActionRestore:
		return "Restored to inbox"
	case model.ActionSpam:
		return "Marked as spam"
	case model.ActionTag:
		return "Tags added"
	}
	return "Done"
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewList:
		m.listView, cmd = m.listView.Update(msg)
	case ViewReader:
		m.reader, cmd = m.reader.Update(msg)
	case ViewLogin:
		m.loginView, cmd = m.loginView.Update(msg)
	case ViewCategories:
		m.categoriesView, cmd = m.categoriesView.Update(msg)
	case ViewNotifications:
		m.notificationsView, cmd = m.notificationsView.Update(msg)
	case ViewTemplates:
		m.templatesView, cmd = m.templatesView.Update(msg)
	case ViewCompose:
		m.composeView, cmd = m.composeView.Update(msg)
	case ViewAccounts:
		m.accountsView, cmd = m.accountsView.Update(msg)
	case ViewUsers:
		m.usersView, cmd = m.usersView.Update(msg)
	case ViewSettings:
		m.settingsView, cmd = m.settingsView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader(ui.Header{
		Title:    "maildesk",
		Location: m.location(),
		Counters: m.counters(),
	})
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.statusLine())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewList:
		return m.listView.View()
	case ViewReader:
		return m.reader.View()
	case ViewLogin:
		return m.loginView.View()
	case ViewCategories:
		return m.categoriesView.View()
	case ViewNotifications:
		return m.notificationsView.View()
	case ViewTemplates:
		return m.templatesView.View()
	case ViewCompose:
		return m.composeView.View()
	case ViewAccounts:
		return m.accountsView.View()
	case ViewUsers:
		return m.usersView.View()
	case ViewSettings:
		return m.settingsView.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	default:
		return ""
	}
}

// location describes the open folder, page and filters.
func (m Model) location() string {
	f := m.units.Messages.Filter()
	loc := ui.CategoryTitle(f.Folder)
	if p := m.units.Messages.Snapshot().Data.Pagination; p.Pages > 1 {
		loc += fmt.Sprintf(" · page %d/%d", p.Page, p.Pages)
	}
	if summary := m.listView.FilterSummary(); summary != "" {
		loc += " · " + summary
	}
	return loc
}

// counters is the right side of the header: session state, unread and total
// counts, the notification badge and the poll state.
func (m Model) counters() []string {
	var parts []string
	if !m.units.Session.Active() {
		parts = append(parts, "signed out")
	}

	if st := m.units.Stats.Snapshot(); st.Loaded {
		parts = append(parts, fmt.Sprintf("%s unread / %s",
			ui.Count(st.Data.UnreadEmails), ui.Count(st.Data.TotalEmails)))
	}
	if n := m.units.Notifications.Unread(); n > 0 {
		parts = append(parts, theme.BadgeStyle.Render(fmt.Sprintf("%d new", n)))
	}

	switch s := m.poller.Status(); s.State {
	case appsync.PollRunning:
		parts = append(parts, "syncing")
	case appsync.PollError:
		parts = append(parts, "⚠ offline")
	}
	return parts
}

// statusLine returns the transient status, or keyboard hints for the
// current view.
func (m Model) statusLine() string {
	browsing := m.currentView == ViewList || m.currentView == ViewReader
	if browsing && m.authErrorMessage != "" {
		return theme.ErrorStyle.Render(m.authErrorMessage)
	}
	if browsing && m.status != "" {
		if m.statusErr {
			return theme.ErrorStyle.Render(m.status)
		}
		return m.status
	}
	return m.keyHints()
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		if m.commandView.Asking() {
			return "enter confirm | esc cancel"
		}
		return "tab complete | enter execute | esc back"
	case ViewReader:
		return "esc back | n/p next/prev | s star | a archive | d trash | R reply | t tag | u unread"
	case ViewLogin, ViewCompose:
		return "enter submit | esc cancel"
	case ViewCategories, ViewNotifications, ViewTemplates, ViewAccounts, ViewUsers, ViewSettings:
		return "j/k move | esc back"
	default:
		if summary := m.listView.FilterSummary(); summary != "" {
			return summary + " | :clear to reset"
		}
		return "q quit | ? help | / search | tab folder | enter open | c categories | N notifications"
	}
}
