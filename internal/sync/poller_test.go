package sync

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	gosync "sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/maildesk/internal/api"
	"github.com/nhle/maildesk/internal/model"
	"github.com/nhle/maildesk/internal/refresh"
	"github.com/nhle/maildesk/internal/resource"
	"github.com/nhle/maildesk/internal/session"
)

type feed struct {
	mu    gosync.Mutex
	items []model.Notification
}

func (f *feed) set(items ...model.Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = items
}

func (f *feed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"notifications": f.items,
		"total":         len(f.items),
	})
}

func newPoller(t *testing.T, f *feed, signedIn bool) (*Poller, *refresh.Bus) {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	sess := session.New(nil)
	if signedIn {
		require.NoError(t, sess.Begin("tok", "", model.User{ID: "1", Role: model.RoleUser}))
	}
	client := api.NewClient(srv.URL, sess, time.Second)
	bus := refresh.NewBus()
	p := New(resource.NewNotifications(client), bus, time.Hour)
	t.Cleanup(p.Stop)
	return p, bus
}

// next runs cmd until it yields a message of type T.
func next[T any](t *testing.T, p *Poller, cmd func() any) T {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		got := make(chan any, 1)
		go func() { got <- cmd() }()
		select {
		case msg := <-got:
			if v, ok := msg.(T); ok {
				return v
			}
			cmd = func() any { return p.WaitForNextResult()() }
		case <-deadline:
			t.Fatalf("timed out waiting for %T", *new(T))
		}
	}
}

func TestPoller(t *testing.T) {
	t.Run("first poll counts nothing as new", func(t *testing.T) {
		f := &feed{}
		f.set(model.Notification{ID: "1"}, model.Notification{ID: "2", IsRead: true})
		p, _ := newPoller(t, f, true)

		start := p.Start()
		res := next[PollResultMsg](t, p, func() any { return start() })
		assert.NoError(t, res.Error)
		assert.Equal(t, 0, res.NewCount)
		assert.Equal(t, 1, res.Unread)
		assert.Equal(t, PollIdle, p.Status().State)
	})

	t.Run("refresh reports unseen unread notifications", func(t *testing.T) {
		f := &feed{}
		f.set(model.Notification{ID: "1"})
		p, _ := newPoller(t, f, true)

		start := p.Start()
		next[PollResultMsg](t, p, func() any { return start() })

		f.set(model.Notification{ID: "1"}, model.Notification{ID: "3"}, model.Notification{ID: "4", IsRead: true})
		p.Refresh()
		res := next[PollResultMsg](t, p, func() any { return p.WaitForNextResult()() })
		assert.Equal(t, 1, res.NewCount)
		assert.Equal(t, 2, res.Unread)
	})

	t.Run("poll publishes stats signal", func(t *testing.T) {
		f := &feed{}
		p, _ := newPoller(t, f, true)

		start := p.Start()
		sig := next[SignalMsg](t, p, func() any { return start() })
		assert.Equal(t, refresh.Stats, sig.Signal)
	})

	t.Run("relays bus signals", func(t *testing.T) {
		f := &feed{}
		p, bus := newPoller(t, f, true)

		start := p.Start()
		next[PollResultMsg](t, p, func() any { return start() })

		bus.Publish(refresh.Messages)
		sig := next[SignalMsg](t, p, func() any { return p.WaitForNextResult()() })
		if sig.Signal == refresh.Stats {
			sig = next[SignalMsg](t, p, func() any { return p.WaitForNextResult()() })
		}
		assert.Equal(t, refresh.Messages, sig.Signal)
	})

	t.Run("no session is an auth error", func(t *testing.T) {
		f := &feed{}
		p, _ := newPoller(t, f, false)

		start := p.Start()
		res := next[PollResultMsg](t, p, func() any { return start() })
		assert.ErrorIs(t, res.Error, session.ErrNoSession)
		assert.NotEmpty(t, res.AuthError)
		assert.Equal(t, PollError, p.Status().State)
	})

	t.Run("stop unsubscribes", func(t *testing.T) {
		f := &feed{}
		p, _ := newPoller(t, f, true)

		p.Start()
		assert.Equal(t, len(forwarded), relays(p))
		p.Stop()
		assert.Equal(t, 0, relays(p))
	})

	t.Run("stop ends commands still waiting", func(t *testing.T) {
		f := &feed{}
		p, bus := newPoller(t, f, true)

		start := p.Start()
		next[PollResultMsg](t, p, func() any { return start() })

		stale := p.WaitForNextResult()
		p.Stop()
		start = p.Start()

		got := make(chan tea.Msg, 1)
		go func() { got <- stale() }()
		select {
		case msg := <-got:
			assert.Nil(t, msg)
		case <-time.After(2 * time.Second):
			t.Fatal("waiting command outlived Stop")
		}

		bus.Publish(refresh.Messages)
		sig := next[SignalMsg](t, p, func() any { return start() })
		if sig.Signal == refresh.Stats {
			sig = next[SignalMsg](t, p, func() any { return p.WaitForNextResult()() })
		}
		assert.Equal(t, refresh.Messages, sig.Signal)
	})

	t.Run("waiting before start returns at once", func(t *testing.T) {
		p, _ := newPoller(t, &feed{}, true)
		assert.Nil(t, p.WaitForNextResult()())
	})

	t.Run("restarts after stop", func(t *testing.T) {
		f := &feed{}
		f.set(model.Notification{ID: "1"})
		p, _ := newPoller(t, f, true)

		start := p.Start()
		next[PollResultMsg](t, p, func() any { return start() })
		p.Stop()

		f.set(model.Notification{ID: "1"}, model.Notification{ID: "2"})
		start = p.Start()
		require.NotNil(t, start)
		res := next[PollResultMsg](t, p, func() any { return start() })
		assert.Equal(t, 0, res.NewCount, "a restart begins a fresh baseline")
		assert.Equal(t, 2, res.Unread)
		assert.Equal(t, len(forwarded), relays(p))
	})
}

// relays returns how many bus subscriptions the poller holds.
func relays(p *Poller) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.unsubs)
}
