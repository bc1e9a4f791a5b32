package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/maildesk/internal/model"
	"github.com/nhle/maildesk/internal/store"
	"github.com/nhle/maildesk/internal/testutil"
)

func TestMigrations(t *testing.T) {
	s := testutil.NewTestStore(t)

	v, err := s.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestDrafts(t *testing.T) {
	ctx := context.Background()

	t.Run("save assigns id and round trips", func(t *testing.T) {
		s := testutil.NewTestStore(t)

		saved, err := s.SaveDraft(ctx, model.Draft{
			ReplyToID: "42",
			ToEmail:   "ann@example.com",
			Subject:   "Re: hello",
			Body:      "thanks",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, saved.ID)

		got, err := s.GetDraft(ctx, saved.ID)
		require.NoError(t, err)
		assert.Equal(t, "Re: hello", got.Subject)
		assert.Equal(t, "ann@example.com", got.ToEmail)
	})

	t.Run("one draft per message", func(t *testing.T) {
		s := testutil.NewTestStore(t)

		first, err := s.SaveDraft(ctx, model.Draft{ReplyToID: "7", Body: "one"})
		require.NoError(t, err)
		second, err := s.SaveDraft(ctx, model.Draft{ReplyToID: "7", Body: "two"})
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)

		drafts, err := s.ListDrafts(ctx)
		require.NoError(t, err)
		require.Len(t, drafts, 1)
		assert.Equal(t, "two", drafts[0].Body)

		d, err := s.DraftForMessage(ctx, "7")
		require.NoError(t, err)
		assert.Equal(t, "two", d.Body)
	})

	t.Run("empty draft rejected", func(t *testing.T) {
		s := testutil.NewTestStore(t)

		_, err := s.SaveDraft(ctx, model.Draft{Body: "  "})
		assert.Error(t, err)
	})

	t.Run("delete", func(t *testing.T) {
		s := testutil.NewTestStore(t)

		d, err := s.SaveDraft(ctx, model.Draft{Body: "x"})
		require.NoError(t, err)
		require.NoError(t, s.DeleteDraft(ctx, d.ID))

		_, err = s.GetDraft(ctx, d.ID)
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.ErrorIs(t, s.DeleteDraft(ctx, d.ID), store.ErrNotFound)
	})

	t.Run("missing message draft", func(t *testing.T) {
		s := testutil.NewTestStore(t)

		_, err := s.DraftForMessage(ctx, "nope")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestPageCache(t *testing.T) {
	ctx := context.Background()
	inbox := model.MessageFilter{Folder: "inbox", Page: 1, PerPage: 50}

	t.Run("save and load", func(t *testing.T) {
		s := testutil.NewTestStore(t)

		page := model.MessagePage{
			Messages:   []model.Message{{ID: "1", Subject: "hi"}},
			Pagination: model.Pagination{Page: 1, PerPage: 50, Total: 1, Pages: 1},
		}
		require.NoError(t, s.SavePage(ctx, inbox, page))

		cached, err := s.LoadPage(ctx, inbox)
		require.NoError(t, err)
		require.Len(t, cached.Page.Messages, 1)
		assert.Equal(t, "hi", cached.Page.Messages[0].Subject)
		assert.Equal(t, 1, cached.Page.Pagination.Total)
		assert.WithinDuration(t, time.Now(), cached.FetchedAt, time.Minute)
	})

	t.Run("filters are keyed separately", func(t *testing.T) {
		s := testutil.NewTestStore(t)

		require.NoError(t, s.SavePage(ctx, inbox, model.MessagePage{}))

		_, err := s.LoadPage(ctx, model.MessageFilter{Folder: "spam", Page: 1, PerPage: 50})
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("prune", func(t *testing.T) {
		s := testutil.NewTestStore(t)

		require.NoError(t, s.SavePage(ctx, inbox, model.MessagePage{}))

		n, err := s.PrunePages(ctx, time.Now().Add(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		_, err = s.LoadPage(ctx, inbox)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}
