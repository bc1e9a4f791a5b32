package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Navigation
	Down key.Binding
	Up   key.Binding

	// Selection
	Select key.Binding

	// Back / Quit
	Back key.Binding
	Quit key.Binding

	// Search
	Search key.Binding

	// Command palette
	Command key.Binding

	// Help toggle
	Help key.Binding

	// Manual refresh
	Refresh key.Binding

	// Folders and paging
	NextFolder key.Binding
	PrevFolder key.Binding
	NextPage   key.Binding
	PrevPage   key.Binding

	// Reader
	NextMessage key.Binding
	PrevMessage key.Binding

	// Message actions
	Star        key.Binding
	Archive     key.Binding
	Trash       key.Binding
	Spam        key.Binding
	Restore     key.Binding
	ToggleRead  key.Binding
	Tag         key.Binding
	Reply       key.Binding
	Delete      key.Binding
	MarkAllRead key.Binding
	FetchNow    key.Binding
	Export      key.Binding
	ExportPage  key.Binding

	// Panels
	Categories    key.Binding
	Notifications key.Binding
	Templates     key.Binding
	Accounts      key.Binding
	Users         key.Binding
	Settings      key.Binding
	Session       key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Command: key.NewBinding(
			key.WithKeys(":"),
			key.WithHelp(":", "command palette"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		NextFolder: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next folder"),
		),
		PrevFolder: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev folder"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "prev page"),
		),
		NextMessage: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next message"),
		),
		PrevMessage: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "prev message"),
		),
		Star: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "star"),
		),
		Archive: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "archive"),
		),
		Trash: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "trash"),
		),
		Spam: key.NewBinding(
			key.WithKeys("!"),
			key.WithHelp("!", "spam"),
		),
		Restore: key.NewBinding(
			key.WithKeys("z"),
			key.WithHelp("z", "restore"),
		),
		ToggleRead: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "read/unread"),
		),
		Tag: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "tag"),
		),
		Reply: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "reply"),
		),
		Delete: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "delete forever"),
		),
		MarkAllRead: key.NewBinding(
			key.WithKeys("M"),
			key.WithHelp("M", "mark all read"),
		),
		FetchNow: key.NewBinding(
			key.WithKeys("F"),
			key.WithHelp("F", "fetch now"),
		),
		Export: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "export .eml"),
		),
		ExportPage: key.NewBinding(
			key.WithKeys("E"),
			key.WithHelp("E", "export page .mbox"),
		),
		Categories: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "categories"),
		),
		Notifications: key.NewBinding(
			key.WithKeys("N"),
			key.WithHelp("N", "notifications"),
		),
		Templates: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "templates"),
		),
		Accounts: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "accounts"),
		),
		Users: key.NewBinding(
			key.WithKeys("U"),
			key.WithHelp("U", "users"),
		),
		Settings: key.NewBinding(
			key.WithKeys(","),
			key.WithHelp(",", "settings"),
		),
		Session: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "sign in/out"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.Select, k.Back,
		k.Quit, k.Help, k.Search,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Back, k.Quit},
		{k.Search, k.Command, k.Help, k.Refresh, k.NextFolder, k.PrevFolder, k.NextPage, k.PrevPage},
		{k.NextMessage, k.PrevMessage, k.Star, k.Archive, k.Trash, k.Spam, k.Restore, k.ToggleRead},
		{k.Tag, k.Reply, k.Delete, k.MarkAllRead, k.FetchNow, k.Export, k.ExportPage},
		{k.Categories, k.Notifications, k.Templates, k.Accounts, k.Users, k.Settings, k.Session},
	}
}
