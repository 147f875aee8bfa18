package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dkarlsen/mailterm/internal/model"
)

// SaveDraft inserts or replaces a draft. A draft without an ID gets a
// fresh UUID; the (possibly updated) draft is returned.
func (s *SQLiteStore) SaveDraft(
	ctx context.Context,
	d model.Draft,
) (model.Draft, error) {
	now := time.Now().UTC()
	if d.ID == "" {
		d.ID = uuid.New().String()
		d.CreatedAt = now
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	d.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO drafts (
			id, sender, recipient, subject, body, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Sender, d.Recipient, d.Subject, d.Body,
		d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return model.Draft{}, fmt.Errorf("saving draft %s: %w", d.ID, err)
	}

	return d, nil
}

// LatestDraft returns the most recently updated draft, or nil when there
// are none.
func (s *SQLiteStore) LatestDraft(ctx context.Context) (*model.Draft, error) {
	var d model.Draft
	err := s.db.GetContext(
		ctx, &d,
		"SELECT * FROM drafts ORDER BY updated_at DESC LIMIT 1",
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading latest draft: %w", err)
	}
	return &d, nil
}

// GetDrafts returns all drafts, newest first.
func (s *SQLiteStore) GetDrafts(ctx context.Context) ([]model.Draft, error) {
	var drafts []model.Draft
	err := s.db.SelectContext(
		ctx, &drafts,
		"SELECT * FROM drafts ORDER BY updated_at DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("querying drafts: %w", err)
	}
	return drafts, nil
}

// DeleteDraft removes a draft by ID. Deleting a missing draft is not an
// error.
func (s *SQLiteStore) DeleteDraft(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM drafts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting draft %s: %w", id, err)
	}
	return nil
}
