package resource

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/maildesk/internal/api"
	"github.com/nhle/maildesk/internal/model"
	"github.com/nhle/maildesk/internal/refresh"
	"github.com/nhle/maildesk/internal/session"
)

func TestDispatcherSuccessResynchronizes(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	b := newBackend(t)
	b.withList(pageOf(model.Message{ID: "m1"}, model.Message{ID: "m2"}))
	var sent map[string]any
	b.handle("POST /api/emails/{id}/action", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&sent)
		writeJSON(w, http.StatusOK, map[string]string{"status": "trash"})
	})

	msgs, bus := newUnits(t, b)
	require.NoError(t, msgs.Refetch(ctx))
	b.reset()

	stats, unsub := bus.Subscribe(refresh.Stats)
	defer unsub()

	d := NewDispatcher(msgs.client, msgs, bus, 0)

	var delayed func()
	var delay time.Duration
	d.afterFunc = func(dur time.Duration, f func()) {
		delay, delayed = dur, f
	}

	require.NoError(t, d.Apply(ctx, "m1", "trash", nil))

	assert.Equal(1, b.count("POST /api/emails/m1/action"))
	assert.Equal(1, b.count("GET /api/emails/"))
	assert.Equal("trash", sent["action"])
	assert.Empty(d.Err())

	assert.Len(stats, 1, "one immediate statistics signal")
	require.NotNil(t, delayed)
	assert.Equal(DefaultConfirmDelay, delay)

	delayed()
	assert.Len(stats, 2, "one more after the confirmation delay")
	assert.Equal(1, b.count("GET /api/emails/"), "the delayed signal does not refetch the list")
}

func TestDispatcherDelayedSignalFiresForReal(t *testing.T) {
	ctx := context.Background()

	b := newBackend(t)
	b.withList(pageOf())
	b.json("POST /api/emails/{id}/action", http.StatusOK, map[string]string{})

	msgs, bus := newUnits(t, b)
	stats, unsub := bus.Subscribe(refresh.Stats)
	defer unsub()

	d := NewDispatcher(msgs.client, msgs, bus, 20*time.Millisecond)
	require.NoError(t, d.Apply(ctx, "m1", "archive", nil))

	<-stats
	select {
	case <-stats:
	case <-time.After(time.Second):
		t.Fatal("delayed statistics signal never arrived")
	}
}

func TestDispatcherWithoutSession(t *testing.T) {
	assert := assert.New(t)

	b := newBackend(t)
	bus := refresh.NewBus()
	c := api.NewClient(b.srv.URL, session.New(nil), 0)
	msgs := NewMessages(c, bus, model.MessageFilter{})

	stats, unsub := bus.Subscribe(refresh.Stats)
	defer unsub()

	d := NewDispatcher(c, msgs, bus, 0)
	err := d.Apply(context.Background(), "m1", "star", nil)

	assert.ErrorIs(err, session.ErrNoSession)
	assert.Equal("not signed in", d.Err())
	assert.Equal(0, b.total())
	assert.Len(stats, 0)
}

func TestDispatcherFailure(t *testing.T) {
	t.Run("Server message is recorded", func(t *testing.T) {
		assert := assert.New(t)

		b := newBackend(t)
		b.withList(pageOf())
		b.json("POST /api/emails/{id}/action", http.StatusNotFound, map[string]string{"error": "Email not found"})

		msgs, bus := newUnits(t, b)
		stats, unsub := bus.Subscribe(refresh.Stats)
		defer unsub()

		d := NewDispatcher(msgs.client, msgs, bus, 0)
		err := d.Apply(context.Background(), "gone", "trash", nil)

		assert.Error(err)
		assert.Equal("Email not found", d.Err())
		assert.Equal(1, b.count("POST /api/emails/gone/action"), "no retry")
		assert.Equal(0, b.count("GET /api/emails/"))
		assert.Len(stats, 0)
	})

	t.Run("Generic fallback", func(t *testing.T) {
		b := newBackend(t)
		b.handle("POST /api/emails/{id}/action", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		msgs, bus := newUnits(t, b)
		d := NewDispatcher(msgs.client, msgs, bus, 0)
		d.Apply(context.Background(), "m1", "star", nil)
		assert.Equal(t, "Action failed", d.Err())
	})

	t.Run("Unknown action never reaches the server", func(t *testing.T) {
		b := newBackend(t)
		msgs, bus := newUnits(t, b)
		d := NewDispatcher(msgs.client, msgs, bus, 0)

		assert.Error(t, d.Apply(context.Background(), "m1", "explode", nil))
		assert.NotEmpty(t, d.Err())
		assert.Equal(t, 0, b.total())
	})
}

func TestDispatcherActionRouting(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	b := newBackend(t)
	b.withList(pageOf())
	var action string
	b.handle("POST /api/emails/{id}/action", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		action, _ = body["action"].(string)
	})
	var tags []string
	b.handle("POST /api/emails/{id}/tags", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Tags []string `json:"tags"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		tags = body.Tags
	})

	msgs, bus := newUnits(t, b)
	d := NewDispatcher(msgs.client, msgs, bus, 0)
	d.afterFunc = func(time.Duration, func()) {}

	require.NoError(t, d.Apply(ctx, "m1", "report_spam", nil))
	assert.Equal("spam", action)

	require.NoError(t, d.Apply(ctx, "m1", "tag", []string{"urgent"}))
	assert.Equal([]string{"urgent"}, tags)
	assert.Equal(1, b.count("POST /api/emails/m1/action"))
	assert.Equal(1, b.count("POST /api/emails/m1/tags"))

	assert.Error(d.Apply(ctx, "m1", "tag", nil))
}
