package resource

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/maildesk/internal/model"
	"github.com/nhle/maildesk/internal/nav"
	"github.com/nhle/maildesk/internal/refresh"
)

func TestMarkUnreadThenOpen(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	b := newBackend(t)
	b.withList(pageOf(
		model.Message{ID: "m0", IsRead: true},
		model.Message{ID: "m1", IsRead: true},
		model.Message{ID: "m2", IsRead: false},
	))
	b.json("POST /api/emails/{id}/read", http.StatusOK, map[string]string{})
	b.json("POST /api/emails/{id}/unread", http.StatusOK, map[string]string{})

	msgs, _ := newUnits(t, b)
	require.NoError(t, msgs.Refetch(ctx))

	require.NoError(t, msgs.MarkUnread(ctx, "m1"))
	m1, _ := msgs.Find("m1")
	assert.False(m1.IsRead)

	browser := NewBrowser(msgs)
	opened, run := browser.Open(1)
	assert.Equal(model.ID("m1"), opened.ID)
	require.NotNil(t, run)
	require.NoError(t, run(ctx))

	assert.Equal(1, b.count("POST /api/emails/m1/read"))
	assert.Equal(0, b.count("POST /api/emails/m0/read"))
	assert.Equal(0, b.count("POST /api/emails/m2/read"))
	assert.Equal(nav.Viewing, browser.Nav().Mode())

	m1, _ = msgs.Find("m1")
	assert.True(m1.IsRead)

	// Opening it again, or opening a read message, fires nothing.
	_, run = browser.Open(1)
	assert.Nil(run)
	_, run = browser.Open(0)
	assert.Nil(run)
	assert.Equal(1, b.count("POST /api/emails/m1/read"))
}

func TestBrowserStep(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	b := newBackend(t)
	b.withList(pageOf(
		model.Message{ID: "a", IsRead: true},
		model.Message{ID: "b", IsRead: false},
	))
	b.json("POST /api/emails/{id}/read", http.StatusOK, map[string]string{})

	msgs, _ := newUnits(t, b)
	require.NoError(t, msgs.Refetch(ctx))

	browser := NewBrowser(msgs)
	browser.Open(0)

	msg, run, moved := browser.Step(1)
	assert.True(moved)
	assert.Equal(model.ID("b"), msg.ID)
	require.NotNil(t, run)
	require.NoError(t, run(ctx))

	_, _, moved = browser.Step(1)
	assert.False(moved)

	cur, ok := browser.Current()
	assert.True(ok)
	assert.Equal(model.ID("b"), cur.ID)

	browser.Close()
	_, ok = browser.Current()
	assert.False(ok)
}

func TestReadFailureRestoresFlag(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	b := newBackend(t)
	b.withList(pageOf(model.Message{ID: "m1", IsRead: false}))
	b.json("POST /api/emails/{id}/read", http.StatusInternalServerError, map[string]string{"error": "boom"})

	msgs, bus := newUnits(t, b)
	stats, unsub := bus.Subscribe(refresh.Stats)
	defer unsub()
	require.NoError(t, msgs.Refetch(ctx))

	run := msgs.SetRead("m1", true)
	m1, _ := msgs.Find("m1")
	assert.True(m1.IsRead, "flag flips before the server answers")

	assert.Error(run(ctx))
	m1, _ = msgs.Find("m1")
	assert.False(m1.IsRead, "flag is restored after failure")
	assert.Len(stats, 0)
}

func TestSnapshotsAreNotMutatedByPatches(t *testing.T) {
	ctx := context.Background()

	b := newBackend(t)
	b.withList(pageOf(model.Message{ID: "m1", IsRead: false}))
	b.json("POST /api/emails/{id}/read", http.StatusOK, map[string]string{})

	msgs, _ := newUnits(t, b)
	require.NoError(t, msgs.Refetch(ctx))

	before := msgs.Snapshot()
	require.NoError(t, msgs.MarkRead(ctx, "m1"))

	assert.False(t, before.Data.Messages[0].IsRead)
	assert.True(t, msgs.Snapshot().Data.Messages[0].IsRead)
}

func TestStaleResponseIsDiscarded(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	b := newBackend(t)
	firstArrived := make(chan struct{})
	releaseFirst := make(chan struct{})
	b.handle("GET /api/emails/{$}", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			close(firstArrived)
			<-releaseFirst
			writeJSON(w, http.StatusOK, pageOf(model.Message{ID: "old"}))
			return
		}
		writeJSON(w, http.StatusOK, pageOf(model.Message{ID: "new"}))
	})

	msgs, _ := newUnits(t, b)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		msgs.Page(ctx, 1)
	}()

	<-firstArrived
	require.NoError(t, msgs.Page(ctx, 2))
	close(releaseFirst)
	wg.Wait()

	snap := msgs.Snapshot()
	require.Len(t, snap.Data.Messages, 1)
	assert.Equal(model.ID("new"), snap.Data.Messages[0].ID)
	assert.False(snap.Loading)
}

func TestListErrorKeepsData(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	b := newBackend(t)
	var fail atomic.Bool
	b.handle("GET /api/emails/{$}", func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "Admin access required"})
			return
		}
		writeJSON(w, http.StatusOK, pageOf(model.Message{ID: "m1"}))
	})

	msgs, _ := newUnits(t, b)
	require.NoError(t, msgs.Refetch(ctx))

	fail.Store(true)
	assert.Error(msgs.Load(ctx, model.MessageFilter{Folder: model.FolderTrash}))

	snap := msgs.Snapshot()
	assert.Equal("Admin access required", snap.ErrText("Failed to load"))
	assert.Len(snap.Data.Messages, 1)
	assert.Equal(model.FolderTrash, msgs.Filter().Folder)
	assert.Equal(1, msgs.Filter().Page)
}

func TestBulkOperationsSettle(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	b := newBackend(t)
	b.withList(pageOf())
	b.json("POST /api/emails/mark_all_read", http.StatusOK, map[string]string{})
	b.json("DELETE /api/emails/{id}", http.StatusOK, map[string]string{})
	b.json("POST /api/emails/fetch", http.StatusOK, map[string]any{
		"results": map[string]any{"total_accounts": 2, "total_emails_fetched": 5},
	})

	msgs, bus := newUnits(t, b)
	stats, unsub := bus.Subscribe(refresh.Stats)
	defer unsub()

	require.NoError(t, msgs.MarkAllRead(ctx))
	require.NoError(t, msgs.Delete(ctx, "m9"))
	res, err := msgs.FetchNow(ctx, 0)
	require.NoError(t, err)

	assert.Equal(5, res.TotalFetched)
	assert.Equal(3, b.count("GET /api/emails/"))
	assert.Len(stats, 3)
}
