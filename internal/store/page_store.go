package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nhle/maildesk/internal/model"
)

// filterKey identifies a message filter in the page cache.
func filterKey(f model.MessageFilter) string {
	return fmt.Sprintf("folder=%s|search=%s|cat=%s|main=%s|sub=%s|acct=%s|page=%d|per=%d",
		f.Folder, f.Search, f.Category, f.MainCategory, f.SubCategory, f.Account, f.Page, f.PerPage)
}

// SavePage stores page as the latest result for f.
func (s *SQLiteStore) SavePage(ctx context.Context, f model.MessageFilter, page model.MessagePage) error {
	payload, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("marshaling page: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO page_cache (filter_key, payload, fetched_at) VALUES (?, ?, ?)
		ON CONFLICT(filter_key) DO UPDATE SET payload = excluded.payload, fetched_at = excluded.fetched_at`,
		filterKey(f), string(payload), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("saving page: %w", err)
	}
	return nil
}

// LoadPage returns the stored page for f, or ErrNotFound.
func (s *SQLiteStore) LoadPage(ctx context.Context, f model.MessageFilter) (*CachedPage, error) {
	var row struct {
		Payload   string    `db:"payload"`
		FetchedAt time.Time `db:"fetched_at"`
	}
	err := s.db.GetContext(ctx, &row,
		"SELECT payload, fetched_at FROM page_cache WHERE filter_key = ?", filterKey(f))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading page: %w", err)
	}

	var cached CachedPage
	if err := json.Unmarshal([]byte(row.Payload), &cached.Page); err != nil {
		return nil, fmt.Errorf("decoding cached page: %w", err)
	}
	cached.FetchedAt = row.FetchedAt
	return &cached, nil
}

// PrunePages removes pages fetched before olderThan.
func (s *SQLiteStore) PrunePages(ctx context.Context, olderThan time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM page_cache WHERE fetched_at < ?", olderThan.UTC())
	if err != nil {
		return 0, fmt.Errorf("pruning page cache: %w", err)
	}
	return result.RowsAffected()
}
