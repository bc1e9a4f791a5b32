package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/maildesk/internal/keys"
	"github.com/nhle/maildesk/internal/model"
)

// ActionMsg asks the root model to apply a named action to a message.
type ActionMsg struct {
	ID     model.ID
	Action string
}

// Request kinds carried by RequestMsg.
const (
	RequestToggleRead  = "toggle_read"
	RequestTag         = "tag"
	RequestReply       = "reply"
	RequestExport      = "export"
	RequestExportPage  = "export_page"
	RequestDelete      = "delete"
	RequestMarkAllRead = "mark_all_read"
	RequestFetch       = "fetch"
)

// RequestMsg asks the root model for an operation that is not a message
// action. ID is empty for requests that apply to the whole list.
type RequestMsg struct {
	Kind string
	ID   model.ID
}

// Emit wraps msg in a command.
func Emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// MessageKey maps the per-message keys shared by the list and the reader to
// requests for sel. It returns nil for any other key. Permanent deletion is
// only offered for trashed messages.
func MessageKey(k *keys.KeyMap, msg tea.KeyMsg, sel model.Message, inTrash bool) tea.Cmd {
	action := func(a model.Action) tea.Cmd {
		return Emit(ActionMsg{ID: sel.ID, Action: string(a)})
	}
	request := func(kind string) tea.Cmd {
		return Emit(RequestMsg{Kind: kind, ID: sel.ID})
	}

	switch {
	case key.Matches(msg, k.Star):
		return action(model.ActionStar)
	case key.Matches(msg, k.Archive):
		return action(model.ActionArchive)
	case key.Matches(msg, k.Trash):
		return action(model.ActionTrash)
	case key.Matches(msg, k.Spam):
		return action(model.ActionSpam)
	case key.Matches(msg, k.Restore):
		return action(model.ActionRestore)
	case key.Matches(msg, k.ToggleRead):
		return request(RequestToggleRead)
	case key.Matches(msg, k.Tag):
		return request(RequestTag)
	case key.Matches(msg, k.Reply):
		return request(RequestReply)
	case key.Matches(msg, k.Export):
		return request(RequestExport)
	case key.Matches(msg, k.Delete):
		if sel.IsTrashed || inTrash {
			return request(RequestDelete)
		}
	}
	return nil
}
