package resource

import (
	"context"
	"log"
	"slices"
	"sync"
	"time"

	"github.com/nhle/maildesk/internal/api"
	"github.com/nhle/maildesk/internal/model"
	"github.com/nhle/maildesk/internal/refresh"
	"github.com/nhle/maildesk/internal/store"
)

// PageCache keeps the last page fetched for each filter set.
type PageCache interface {
	SavePage(ctx context.Context, f model.MessageFilter, page model.MessagePage) error
	LoadPage(ctx context.Context, f model.MessageFilter) (*store.CachedPage, error)
}

// Messages is the message-list unit: the current page under the active
// filter set.
type Messages struct {
	client *api.Client
	bus    *refresh.Bus

	q query[model.MessagePage]

	filterMu sync.Mutex
	filter   model.MessageFilter

	// Cache, when set, receives every successfully fetched page.
	Cache PageCache
}

// NewMessages creates the unit with an initial filter.
func NewMessages(client *api.Client, bus *refresh.Bus, filter model.MessageFilter) *Messages {
	if filter.Page < 1 {
		filter.Page = 1
	}
	return &Messages{client: client, bus: bus, filter: filter}
}

// Filter returns the active filter set.
func (m *Messages) Filter() model.MessageFilter {
	m.filterMu.Lock()
	defer m.filterMu.Unlock()
	return m.filter
}

// Snapshot returns the cached page and flags.
func (m *Messages) Snapshot() State[model.MessagePage] {
	return m.q.snapshot()
}

// Load replaces the filter set and fetches its first requested page.
func (m *Messages) Load(ctx context.Context, f model.MessageFilter) error {
	if f.Page < 1 {
		f.Page = 1
	}
	m.filterMu.Lock()
	m.filter = f
	m.filterMu.Unlock()
	return m.Refetch(ctx)
}

// Refetch re-reads the page under the active filter set.
func (m *Messages) Refetch(ctx context.Context) error {
	f := m.Filter()
	seq := m.q.begin()

	page, err := m.client.ListMessages(ctx, f)

	var data model.MessagePage
	if page != nil {
		data = *page
	}
	if !m.q.finish(seq, data, err) {
		return nil
	}
	if err == nil && m.Cache != nil {
		if cerr := m.Cache.SavePage(ctx, f, data); cerr != nil {
			log.Printf("caching message page: %v", cerr)
		}
	}
	return err
}

// Warm fills an empty unit with the cached page for the active filter set
// and returns when that page was fetched. It does nothing once a fetch has
// succeeded.
func (m *Messages) Warm(ctx context.Context) (time.Time, bool) {
	if m.Cache == nil || m.q.snapshot().Loaded {
		return time.Time{}, false
	}

	cached, err := m.Cache.LoadPage(ctx, m.Filter())
	if err != nil {
		return time.Time{}, false
	}

	applied := false
	m.q.mu.Lock()
	if !m.q.state.Loaded {
		m.q.state.Data = cached.Page
		applied = true
	}
	m.q.mu.Unlock()
	return cached.FetchedAt, applied
}

// Page moves to page n of the current filter set.
func (m *Messages) Page(ctx context.Context, n int) error {
	f := m.Filter()
	f.Page = n
	return m.Load(ctx, f)
}

// Find returns the cached message with id.
func (m *Messages) Find(id model.ID) (model.Message, bool) {
	page := m.q.snapshot().Data
	for _, msg := range page.Messages {
		if msg.ID == id {
			return msg, true
		}
	}
	return model.Message{}, false
}

// setRead flips the cached read flag of id and returns the previous value.
// The page slice is copied so snapshots already handed out stay unchanged.
func (m *Messages) setRead(id model.ID, read bool) (prev bool, found bool) {
	m.q.patch(func(page *model.MessagePage) {
		i := slices.IndexFunc(page.Messages, func(msg model.Message) bool { return msg.ID == id })
		if i < 0 {
			return
		}
		msgs := slices.Clone(page.Messages)
		prev, found = msgs[i].IsRead, true
		msgs[i].IsRead = read
		page.Messages = msgs
	})
	return prev, found
}

// SetRead applies the read flag to the cached message immediately and
// returns the server call to run. If the call fails, the flag is restored to
// its previous value.
func (m *Messages) SetRead(id model.ID, read bool) func(context.Context) error {
	prev, found := m.setRead(id, read)

	return func(ctx context.Context) error {
		var err error
		if read {
			err = m.client.MarkRead(ctx, id)
		} else {
			err = m.client.MarkUnread(ctx, id)
		}
		if err != nil {
			log.Printf("marking message %s read=%t: %v", id, read, err)
			if found {
				m.restoreRead(id, read, prev)
			}
			return err
		}

		m.bus.Publish(refresh.Stats)
		return nil
	}
}

// restoreRead rolls back an optimistic flip unless a refetch has already
// replaced the value.
func (m *Messages) restoreRead(id model.ID, applied, prev bool) {
	m.q.patch(func(page *model.MessagePage) {
		i := slices.IndexFunc(page.Messages, func(msg model.Message) bool { return msg.ID == id })
		if i < 0 || page.Messages[i].IsRead != applied {
			return
		}
		msgs := slices.Clone(page.Messages)
		msgs[i].IsRead = prev
		page.Messages = msgs
	})
}

// MarkRead marks id read, optimistically.
func (m *Messages) MarkRead(ctx context.Context, id model.ID) error {
	return m.SetRead(id, true)(ctx)
}

// MarkUnread marks id unread, optimistically.
func (m *Messages) MarkUnread(ctx context.Context, id model.ID) error {
	return m.SetRead(id, false)(ctx)
}

// settle refetches the list and asks the statistics display to re-read.
func (m *Messages) settle(ctx context.Context) {
	if err := m.Refetch(ctx); err != nil {
		log.Printf("refetching messages: %v", err)
	}
	m.bus.Publish(refresh.Stats)
}

// MarkAllRead marks every message read.
func (m *Messages) MarkAllRead(ctx context.Context) error {
	if err := m.client.MarkAllRead(ctx); err != nil {
		m.q.fail(err)
		return err
	}
	m.settle(ctx)
	return nil
}

// Delete permanently removes a trashed message.
func (m *Messages) Delete(ctx context.Context, id model.ID) error {
	if err := m.client.DeleteMessage(ctx, id); err != nil {
		m.q.fail(err)
		return err
	}
	m.settle(ctx)
	return nil
}

// FetchNow triggers a server-side fetch from every account and reloads.
func (m *Messages) FetchNow(ctx context.Context, limit int) (*api.FetchResult, error) {
	res, err := m.client.FetchNow(ctx, limit)
	if err != nil {
		return nil, err
	}
	m.settle(ctx)
	return res, nil
}
