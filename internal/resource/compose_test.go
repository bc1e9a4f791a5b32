package resource

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/maildesk/internal/model"
	"github.com/nhle/maildesk/internal/store"
	"github.com/nhle/maildesk/internal/testutil"
)

func composeBackend(t *testing.T) *backend {
	b := newBackend(t)
	b.json("GET /api/replies/accounts", http.StatusOK, map[string]any{
		"accounts": []map[string]any{{"email": "desk@example.com", "is_active": true}},
	})
	b.json("GET /api/replies/template/{id}", http.StatusOK, map[string]any{
		"template": map[string]any{
			"to_email":       "ann@example.com",
			"subject":        "Re: Hello",
			"body":           "> quoted",
			"reply_to_id":    9,
			"original_email": map[string]any{"id": 9, "account_email": "me@example.com"},
		},
	})
	return b
}

func TestComposerStart(t *testing.T) {
	ctx := context.Background()

	t.Run("seeds from the server", func(t *testing.T) {
		b := composeBackend(t)
		c, _ := b.client(model.RoleUser)

		got, err := NewComposer(c, testutil.NewTestStore(t)).Start(ctx, "9")
		require.NoError(t, err)
		assert.False(t, got.Resumed)
		assert.Equal(t, "9", got.Draft.ReplyToID)
		assert.Equal(t, "ann@example.com", got.Draft.ToEmail)
		assert.Equal(t, "me@example.com", got.Draft.AccountEmail)
		require.Len(t, got.Accounts, 1)
	})

	t.Run("resumes a saved draft", func(t *testing.T) {
		b := composeBackend(t)
		c, _ := b.client(model.RoleUser)
		s := testutil.NewTestStore(t)
		_, err := s.SaveDraft(ctx, model.Draft{ReplyToID: "9", Body: "half written"})
		require.NoError(t, err)

		got, err := NewComposer(c, s).Start(ctx, "9")
		require.NoError(t, err)
		assert.True(t, got.Resumed)
		assert.Equal(t, "half written", got.Draft.Body)
		assert.Equal(t, 0, b.count("GET /api/replies/template/9"))
	})
}

func TestComposerSend(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t)

	var sent map[string]any
	b.handle("POST /api/replies/compose", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&sent)
		writeJSON(w, http.StatusOK, map[string]string{"message": "ok"})
	})
	c, _ := b.client(model.RoleUser)
	s := testutil.NewTestStore(t)
	composer := NewComposer(c, s)

	d, err := composer.SaveDraft(ctx, model.Draft{
		ReplyToID:    "9",
		AccountEmail: "desk@example.com",
		ToEmail:      "ann@example.com",
		Subject:      "Re: Hello",
		Body:         "**thanks**",
	})
	require.NoError(t, err)

	require.NoError(t, composer.Send(ctx, d))
	assert.Equal(t, "**thanks**", sent["body"])
	assert.Contains(t, sent["body_html"], "<strong>thanks</strong>")
	assert.EqualValues(t, 9, sent["reply_to_id"])

	drafts, err := s.ListDrafts(ctx)
	require.NoError(t, err)
	assert.Empty(t, drafts)
}

func TestComposerSendValidates(t *testing.T) {
	b := newBackend(t)
	c, _ := b.client(model.RoleUser)

	err := NewComposer(c, nil).Send(context.Background(), model.Draft{AccountEmail: "a@x"})
	assert.Error(t, err)
	assert.Equal(t, 0, b.total())
}

func TestApplyTemplate(t *testing.T) {
	d := model.Draft{Subject: "Re: x", Body: "old"}

	got := ApplyTemplate(d, model.Template{Content: "new"})
	assert.Equal(t, "Re: x", got.Subject)
	assert.Equal(t, "new", got.Body)

	got = ApplyTemplate(d, model.Template{Subject: "Thanks", Content: "new"})
	assert.Equal(t, "Thanks", got.Subject)
}

func TestMessagesWarmFromCache(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t)
	b.withList(pageOf(model.Message{ID: "1", Subject: "fresh"}))
	s := testutil.NewTestStore(t)

	m, _ := newUnits(t, b)
	m.Cache = s

	_, ok := m.Warm(ctx)
	assert.False(t, ok)

	require.NoError(t, m.Refetch(ctx))

	m2, _ := newUnits(t, b)
	m2.Cache = s
	_, ok = m2.Warm(ctx)
	require.True(t, ok)
	assert.Equal(t, "fresh", m2.Snapshot().Data.Messages[0].Subject)
	assert.False(t, m2.Snapshot().Loaded)
}

func TestComposerDiscard(t *testing.T) {
	ctx := context.Background()
	b := newBackend(t)
	c, _ := b.client(model.RoleUser)
	s := testutil.NewTestStore(t)
	composer := NewComposer(c, s)

	d, err := composer.SaveDraft(ctx, model.Draft{ReplyToID: "9", Body: "never mind"})
	require.NoError(t, err)

	require.NoError(t, composer.Discard(ctx, d))
	_, err = s.DraftForMessage(ctx, "9")
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.NoError(t, composer.Discard(ctx, d), "discarding twice is harmless")
	assert.NoError(t, composer.Discard(ctx, model.Draft{}), "unsaved drafts have nothing to drop")
}
