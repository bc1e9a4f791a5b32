package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/maildesk/internal/model"
)

// ErrNotFound is returned when a looked-up row does not exist.
var ErrNotFound = errors.New("not found")

// SaveDraft inserts or updates a draft. A draft without an id gets one.
// Saving a second draft for the same message replaces the first.
func (s *SQLiteStore) SaveDraft(ctx context.Context, d model.Draft) (model.Draft, error) {
	if strings.TrimSpace(d.Body) == "" && strings.TrimSpace(d.Subject) == "" {
		return d, fmt.Errorf("draft must have a subject or body")
	}

	if d.ID == "" && d.ReplyToID != "" {
		if existing, err := s.DraftForMessage(ctx, d.ReplyToID); err == nil {
			d.ID = existing.ID
		}
	}
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	d.UpdatedAt = time.Now().UTC()

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO drafts (id, reply_to_id, account_email, to_email, subject, body, updated_at)
		VALUES (:id, :reply_to_id, :account_email, :to_email, :subject, :body, :updated_at)
		ON CONFLICT(id) DO UPDATE SET
			reply_to_id   = excluded.reply_to_id,
			account_email = excluded.account_email,
			to_email      = excluded.to_email,
			subject       = excluded.subject,
			body          = excluded.body,
			updated_at    = excluded.updated_at`, d)
	if err != nil {
		return d, fmt.Errorf("saving draft %s: %w", d.ID, err)
	}
	return d, nil
}

// GetDraft returns the draft with id.
func (s *SQLiteStore) GetDraft(ctx context.Context, id string) (*model.Draft, error) {
	var d model.Draft
	err := s.db.GetContext(ctx, &d, "SELECT * FROM drafts WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting draft %s: %w", id, err)
	}
	return &d, nil
}

// DraftForMessage returns the most recent draft replying to a message.
func (s *SQLiteStore) DraftForMessage(ctx context.Context, replyToID string) (*model.Draft, error) {
	var d model.Draft
	err := s.db.GetContext(ctx, &d,
		"SELECT * FROM drafts WHERE reply_to_id = ? ORDER BY updated_at DESC LIMIT 1", replyToID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting draft for message %s: %w", replyToID, err)
	}
	return &d, nil
}

// ListDrafts returns every draft, newest first.
func (s *SQLiteStore) ListDrafts(ctx context.Context) ([]model.Draft, error) {
	var drafts []model.Draft
	if err := s.db.SelectContext(ctx, &drafts, "SELECT * FROM drafts ORDER BY updated_at DESC"); err != nil {
		return nil, fmt.Errorf("listing drafts: %w", err)
	}
	return drafts, nil
}

// DeleteDraft removes a draft.
func (s *SQLiteStore) DeleteDraft(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM drafts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting draft %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
