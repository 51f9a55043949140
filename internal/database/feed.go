package database

import (
	"context"
	"fmt"

	"github.com/nao1215/rivalscope/internal/model"
)

// DefaultSuggestionListLimit is the number of suggestions shown by default.
const DefaultSuggestionListLimit = 5

const suggestionColumns = `id, owner_id, type, text, created_at`

type suggestionRow struct {
	ID        string `db:"id"`
	Owner     string `db:"owner_id"`
	Type      string `db:"type"`
	Text      string `db:"text"`
	CreatedAt string `db:"created_at"`
}

// InsertSuggestion appends a suggestion.
func (s *Store) InsertSuggestion(ctx context.Context, sg *model.Suggestion) error {
	query := `INSERT INTO suggestions (` + suggestionColumns + `) VALUES (?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, s.q(query), sg.ID, sg.Owner, sg.Type, sg.Text, formatTime(sg.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert suggestion: %w", err)
	}
	return nil
}

// ListSuggestions returns owner's newest suggestions of the given type.
// An empty type selects model.SuggestionTypeSEO; a non-positive limit
// selects DefaultSuggestionListLimit.
func (s *Store) ListSuggestions(ctx context.Context, owner, suggestionType string, limit int) ([]model.Suggestion, error) {
	if suggestionType == "" {
		suggestionType = model.SuggestionTypeSEO
	}
	if limit <= 0 {
		limit = DefaultSuggestionListLimit
	}
	query := `SELECT ` + suggestionColumns + ` FROM suggestions
		WHERE owner_id = ? AND type = ? ORDER BY created_at DESC LIMIT ?`

	var rows []suggestionRow
	if err := s.db.SelectContext(ctx, &rows, s.q(query), owner, suggestionType, limit); err != nil {
		return nil, fmt.Errorf("failed to list suggestions: %w", err)
	}
	out := make([]model.Suggestion, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.Suggestion{
			ID:        r.ID,
			Owner:     r.Owner,
			Type:      r.Type,
			Text:      r.Text,
			CreatedAt: parseTimestamp(r.CreatedAt),
		})
	}
	return out, nil
}

const alertColumns = `id, owner_id, message, is_read, created_at`

type alertRow struct {
	ID        string `db:"id"`
	Owner     string `db:"owner_id"`
	Message   string `db:"message"`
	IsRead    bool   `db:"is_read"`
	CreatedAt string `db:"created_at"`
}

// InsertAlert appends an alert.
func (s *Store) InsertAlert(ctx context.Context, a *model.Alert) error {
	query := `INSERT INTO alerts (` + alertColumns + `) VALUES (?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, s.q(query), a.ID, a.Owner, a.Message, a.IsRead, formatTime(a.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert alert: %w", err)
	}
	return nil
}

// ListAlerts returns owner's alerts, newest first.
func (s *Store) ListAlerts(ctx context.Context, owner string, unreadOnly bool, limit int) ([]model.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts WHERE owner_id = ?`
	args := []any{owner}
	if unreadOnly {
		query += ` AND is_read = ?`
		args = append(args, false)
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, listLimit(limit))

	var rows []alertRow
	if err := s.db.SelectContext(ctx, &rows, s.q(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	out := make([]model.Alert, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.Alert{
			ID:        r.ID,
			Owner:     r.Owner,
			Message:   r.Message,
			IsRead:    r.IsRead,
			CreatedAt: parseTimestamp(r.CreatedAt),
		})
	}
	return out, nil
}

// MarkAlertRead flags one of owner's alerts as read.
func (s *Store) MarkAlertRead(ctx context.Context, owner, id string) error {
	res, err := s.db.ExecContext(ctx, s.q(`UPDATE alerts SET is_read = ? WHERE id = ? AND owner_id = ?`), true, id, owner)
	if err != nil {
		return fmt.Errorf("failed to mark alert read: %w", err)
	}
	return requireRow(res, "alert")
}
