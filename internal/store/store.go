package store

import (
	"context"
	"time"

	"github.com/nhle/maildesk/internal/model"
)

// Store defines the local persistence used by the console: unsent reply
// drafts, and the last message page seen per filter so the list can be shown
// before the first fetch completes.
type Store interface {
	// === Drafts ===

	SaveDraft(ctx context.Context, d model.Draft) (model.Draft, error)
	GetDraft(ctx context.Context, id string) (*model.Draft, error)
	DraftForMessage(ctx context.Context, replyToID string) (*model.Draft, error)
	ListDrafts(ctx context.Context) ([]model.Draft, error)
	DeleteDraft(ctx context.Context, id string) error

	// === Page cache ===

	SavePage(ctx context.Context, f model.MessageFilter, page model.MessagePage) error
	LoadPage(ctx context.Context, f model.MessageFilter) (*CachedPage, error)
	PrunePages(ctx context.Context, olderThan time.Time) (int64, error)
}

// CachedPage is a stored message page and when it was fetched.
type CachedPage struct {
	Page      model.MessagePage
	FetchedAt time.Time
}
