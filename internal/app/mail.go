package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/maildesk/internal/api"
	"github.com/nhle/maildesk/internal/export"
	"github.com/nhle/maildesk/internal/model"
	"github.com/nhle/maildesk/internal/resource"
	"github.com/nhle/maildesk/internal/session"
	"github.com/nhle/maildesk/internal/ui"
)

// requestTimeout bounds a single user-triggered operation.
const requestTimeout = 60 * time.Second

// bootstrapMsg reports the initial concurrent load.
type bootstrapMsg struct{ err error }

// warmMsg reports whether the list was filled from the offline cache.
type warmMsg struct {
	at time.Time
	ok bool
}

// listLoadedMsg is sent after the message list was re-read. reset returns
// the navigator to the list; otherwise it is reconciled.
type listLoadedMsg struct {
	err   error
	reset bool
}

// readDoneMsg is sent when a read/unread server call finishes.
type readDoneMsg struct{ err error }

// actionDoneMsg is sent when the dispatcher finished applying an action.
type actionDoneMsg struct {
	action string
	err    error
}

// opDoneMsg reports a list-wide operation with a status line.
type opDoneMsg struct {
	status string
	err    error
}

// statsLoadedMsg is sent after the header statistics were re-read.
type statsLoadedMsg struct{ err error }

// composeReadyMsg carries a prepared reply.
type composeReadyMsg struct {
	compose   *resource.Compose
	templates []model.Template
	err       error
}

// composeDoneMsg reports a send, save or discard.
type composeDoneMsg struct {
	status string
	draft  model.Draft
	sent   bool
	err    error
}

// remoteMessageMsg carries a message fetched by ID, outside the current page.
type remoteMessageMsg struct {
	msg *model.Message
	err error
}

// signedInMsg reports the outcome of a login attempt.
type signedInMsg struct {
	user model.User
	err  error
}

// needLoginMsg opens the sign-in form.
type needLoginMsg struct{ reason string }

func withTimeout(fn func(ctx context.Context) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return fn(ctx)
	}
}

// isAuthErr reports whether err means the user must sign in again.
func isAuthErr(err error) bool {
	return errors.Is(err, session.ErrNoSession) || errors.Is(err, api.ErrUnauthorized)
}

func (m Model) bootstrap() tea.Cmd {
	u := m.units
	return withTimeout(func(ctx context.Context) tea.Msg {
		return bootstrapMsg{err: u.Bootstrap(ctx)}
	})
}

func (m Model) warm() tea.Cmd {
	msgs := m.units.Messages
	return withTimeout(func(ctx context.Context) tea.Msg {
		at, ok := msgs.Warm(ctx)
		return warmMsg{at: at, ok: ok}
	})
}

func (m Model) loadFilter(f model.MessageFilter) tea.Cmd {
	msgs := m.units.Messages
	return withTimeout(func(ctx context.Context) tea.Msg {
		return listLoadedMsg{err: msgs.Load(ctx, f), reset: true}
	})
}

func (m Model) refetch() tea.Cmd {
	msgs := m.units.Messages
	return withTimeout(func(ctx context.Context) tea.Msg {
		return listLoadedMsg{err: msgs.Refetch(ctx)}
	})
}

func (m Model) loadStats() tea.Cmd {
	stats := m.units.Stats
	return withTimeout(func(ctx context.Context) tea.Msg {
		return statsLoadedMsg{err: stats.Load(ctx)}
	})
}

func (m Model) loadNotifications() tea.Cmd {
	n := m.units.Notifications
	return withTimeout(func(ctx context.Context) tea.Msg {
		return statsLoadedMsg{err: n.Load(ctx)}
	})
}

// runRead turns the server half of an optimistic read toggle into a command.
func runRead(run func(context.Context) error) tea.Cmd {
	if run == nil {
		return nil
	}
	return withTimeout(func(ctx context.Context) tea.Msg {
		return readDoneMsg{err: run(ctx)}
	})
}

func (m Model) applyAction(id model.ID, action string, value any) tea.Cmd {
	d := m.units.Dispatcher
	d.ClearErr()
	return withTimeout(func(ctx context.Context) tea.Msg {
		return actionDoneMsg{action: action, err: d.Apply(ctx, id, action, value)}
	})
}

// parseTags splits a comma separated answer into trimmed, distinct tags.
func parseTags(s string) []string {
	var tags []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(s, ",") {
		tag := strings.TrimSpace(part)
		if tag == "" || seen[strings.ToLower(tag)] {
			continue
		}
		seen[strings.ToLower(tag)] = true
		tags = append(tags, tag)
	}
	return tags
}

func (m Model) deleteMessage(id model.ID) tea.Cmd {
	msgs := m.units.Messages
	return withTimeout(func(ctx context.Context) tea.Msg {
		return opDoneMsg{status: "Message deleted permanently", err: msgs.Delete(ctx, id)}
	})
}

func (m Model) markAllRead() tea.Cmd {
	msgs := m.units.Messages
	return withTimeout(func(ctx context.Context) tea.Msg {
		return opDoneMsg{status: "All messages marked read", err: msgs.MarkAllRead(ctx)}
	})
}

func (m Model) fetchNow() tea.Cmd {
	msgs := m.units.Messages
	return withTimeout(func(ctx context.Context) tea.Msg {
		res, err := msgs.FetchNow(ctx, 0)
		if err != nil {
			return opDoneMsg{err: err}
		}
		status := fmt.Sprintf("Fetched %s new messages from %d of %d accounts",
			ui.Count(res.TotalFetched), res.SuccessfulAccounts, res.TotalAccounts)
		if res.FailedAccounts > 0 {
			status += fmt.Sprintf(" (%d failed)", res.FailedAccounts)
		}
		return opDoneMsg{status: status}
	})
}

func (m Model) exportMessage(msg model.Message) tea.Cmd {
	dir := m.cfg.Export.Dir
	return func() tea.Msg {
		path, err := export.SaveEML(dir, msg)
		return opDoneMsg{status: "Saved " + path, err: err}
	}
}

func (m Model) exportPage() tea.Cmd {
	dir := m.cfg.Export.Dir
	f := m.units.Messages.Filter()
	msgs := m.units.Messages.Snapshot().Data.Messages
	return func() tea.Msg {
		if len(msgs) == 0 {
			return opDoneMsg{err: errors.New("nothing to export")}
		}
		name := fmt.Sprintf("%s-page%d", f.Folder, max(f.Page, 1))
		path, err := export.SaveMbox(dir, name, msgs)
		return opDoneMsg{status: fmt.Sprintf("Saved %d messages to %s", len(msgs), path), err: err}
	}
}

func (m Model) startCompose(id model.ID) tea.Cmd {
	composer := m.units.Composer
	templates := m.units.Templates
	return withTimeout(func(ctx context.Context) tea.Msg {
		c, err := composer.Start(ctx, id)
		if err != nil {
			return composeReadyMsg{err: err}
		}
		// Templates are optional; a failure only hides the picker.
		_ = templates.Load(ctx)
		return composeReadyMsg{compose: c, templates: templates.Snapshot().Data}
	})
}

func (m Model) sendReply(d model.Draft) tea.Cmd {
	composer := m.units.Composer
	return withTimeout(func(ctx context.Context) tea.Msg {
		return composeDoneMsg{status: "Reply sent to " + d.ToEmail, draft: d, sent: true, err: composer.Send(ctx, d)}
	})
}

func (m Model) saveDraft(d model.Draft) tea.Cmd {
	composer := m.units.Composer
	return withTimeout(func(ctx context.Context) tea.Msg {
		saved, err := composer.SaveDraft(ctx, d)
		return composeDoneMsg{status: "Draft saved", draft: saved, err: err}
	})
}

func (m Model) discardDraft(d model.Draft) tea.Cmd {
	composer := m.units.Composer
	return withTimeout(func(ctx context.Context) tea.Msg {
		return composeDoneMsg{status: "Reply discarded", draft: d, err: composer.Discard(ctx, d)}
	})
}

func (m Model) fetchMessage(id model.ID) tea.Cmd {
	client := m.units.Client
	return withTimeout(func(ctx context.Context) tea.Msg {
		msg, err := client.GetMessage(ctx, id)
		return remoteMessageMsg{msg: msg, err: err}
	})
}

func (m Model) signIn(email, password string) tea.Cmd {
	client := m.units.Client
	sess := m.units.Session
	return withTimeout(func(ctx context.Context) tea.Msg {
		res, err := client.Login(ctx, email, password)
		if err != nil {
			return signedInMsg{err: err}
		}
		if err := sess.Begin(res.AccessToken, res.RefreshToken, res.User); err != nil {
			return signedInMsg{err: err}
		}
		return signedInMsg{user: res.User}
	})
}

func (m Model) signOut() tea.Cmd {
	client := m.units.Client
	sess := m.units.Session
	m.poller.Stop()
	return withTimeout(func(ctx context.Context) tea.Msg {
		logoutErr := client.Logout(ctx)
		if err := sess.End(); err != nil {
			return needLoginMsg{reason: "Signed out, but the stored session could not be cleared"}
		}
		if logoutErr != nil && !isAuthErr(logoutErr) {
			return needLoginMsg{reason: "Signed out locally; the server did not confirm"}
		}
		return needLoginMsg{reason: "Signed out"}
	})
}
