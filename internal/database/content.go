package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nao1215/rivalscope/internal/model"
)

const contentColumns = `id, competitor_id, url, title, content_text, hash, type, created_at`

type contentRow struct {
	ID           string `db:"id"`
	CompetitorID string `db:"competitor_id"`
	URL          string `db:"url"`
	Title        string `db:"title"`
	ContentText  string `db:"content_text"`
	Hash         string `db:"hash"`
	Type         string `db:"type"`
	CreatedAt    string `db:"created_at"`
}

// InsertContentSnapshot appends a content snapshot.
func (s *Store) InsertContentSnapshot(ctx context.Context, c *model.ContentSnapshot) error {
	query := `INSERT INTO content_snapshots (` + contentColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, s.q(query),
		c.ID, c.CompetitorID, c.URL, c.Title, c.ContentText, c.Hash, c.Type, formatTime(c.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert content snapshot: %w", err)
	}
	return nil
}

// LatestContentSnapshot returns the newest snapshot of the given type.
func (s *Store) LatestContentSnapshot(ctx context.Context, competitorID, contentType string) (*model.ContentSnapshot, error) {
	query := `SELECT ` + contentColumns + ` FROM content_snapshots
		WHERE competitor_id = ? AND type = ? ORDER BY created_at DESC LIMIT 1`

	var row contentRow
	err := s.db.GetContext(ctx, &row, s.q(query), competitorID, contentType)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("content snapshot: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get content snapshot: %w", err)
	}
	return &model.ContentSnapshot{
		ID:           row.ID,
		CompetitorID: row.CompetitorID,
		URL:          row.URL,
		Title:        row.Title,
		ContentText:  row.ContentText,
		Hash:         row.Hash,
		Type:         row.Type,
		CreatedAt:    parseTimestamp(row.CreatedAt),
	}, nil
}
