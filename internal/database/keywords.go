package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nao1215/rivalscope/internal/model"
)

const keywordColumns = `id, owner_id, keyword, search_engine, created_at`

type keywordRow struct {
	ID           string `db:"id"`
	Owner        string `db:"owner_id"`
	Keyword      string `db:"keyword"`
	SearchEngine string `db:"search_engine"`
	CreatedAt    string `db:"created_at"`
}

func (r keywordRow) toModel() model.Keyword {
	return model.Keyword{
		ID:           r.ID,
		Owner:        r.Owner,
		Keyword:      r.Keyword,
		SearchEngine: r.SearchEngine,
		CreatedAt:    parseTimestamp(r.CreatedAt),
	}
}

// AddKeyword tracks keyword for owner, returning the existing row when the
// (owner, keyword, engine) triple is already tracked. Keywords are stored
// trimmed and lowercase; an empty engine means model.DefaultSearchEngine.
func (s *Store) AddKeyword(ctx context.Context, owner, keyword, engine string, createdAt time.Time) (*model.Keyword, error) {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return nil, errors.New("keyword must not be empty")
	}
	if engine == "" {
		engine = model.DefaultSearchEngine
	}

	insert := `INSERT INTO keywords (` + keywordColumns + `) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (owner_id, keyword, search_engine) DO NOTHING`
	if _, err := s.db.ExecContext(ctx, s.q(insert), uuid.NewString(), owner, keyword, engine, formatTime(createdAt)); err != nil {
		return nil, fmt.Errorf("failed to insert keyword: %w", err)
	}

	var row keywordRow
	query := `SELECT ` + keywordColumns + ` FROM keywords WHERE owner_id = ? AND keyword = ? AND search_engine = ?`
	if err := s.db.GetContext(ctx, &row, s.q(query), owner, keyword, engine); err != nil {
		return nil, fmt.Errorf("failed to get keyword: %w", err)
	}
	k := row.toModel()
	return &k, nil
}

// ListKeywords returns owner's tracked keywords ordered alphabetically.
func (s *Store) ListKeywords(ctx context.Context, owner string) ([]model.Keyword, error) {
	query := `SELECT ` + keywordColumns + ` FROM keywords WHERE owner_id = ? ORDER BY keyword, search_engine`

	var rows []keywordRow
	if err := s.db.SelectContext(ctx, &rows, s.q(query), owner); err != nil {
		return nil, fmt.Errorf("failed to list keywords: %w", err)
	}
	out := make([]model.Keyword, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toModel())
	}
	return out, nil
}

// DeleteKeyword stops tracking a keyword and removes its rankings.
func (s *Store) DeleteKeyword(ctx context.Context, owner, id string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	rankings := `DELETE FROM rankings WHERE keyword_id IN (SELECT id FROM keywords WHERE id = ? AND owner_id = ?)`
	if _, err := tx.ExecContext(ctx, tx.Rebind(rankings), id, owner); err != nil {
		return fmt.Errorf("failed to delete rankings: %w", err)
	}
	res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM keywords WHERE id = ? AND owner_id = ?`), id, owner)
	if err != nil {
		return fmt.Errorf("failed to delete keyword: %w", err)
	}
	if err := requireRow(res, "keyword"); err != nil {
		return err
	}
	return tx.Commit()
}

const rankingColumns = `id, keyword_id, competitor_id, position, traffic_estimate, created_at`

type rankingRow struct {
	ID              string `db:"id"`
	KeywordID       string `db:"keyword_id"`
	CompetitorID    string `db:"competitor_id"`
	Position        int    `db:"position"`
	TrafficEstimate int64  `db:"traffic_estimate"`
	CreatedAt       string `db:"created_at"`
}

func (r rankingRow) toModel() model.Ranking {
	return model.Ranking{
		ID:              r.ID,
		KeywordID:       r.KeywordID,
		CompetitorID:    r.CompetitorID,
		Position:        r.Position,
		TrafficEstimate: r.TrafficEstimate,
		CreatedAt:       parseTimestamp(r.CreatedAt),
	}
}

// InsertRanking appends a ranking observation.
func (s *Store) InsertRanking(ctx context.Context, r *model.Ranking) error {
	query := `INSERT INTO rankings (` + rankingColumns + `) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, s.q(query),
		r.ID, r.KeywordID, r.CompetitorID, r.Position, r.TrafficEstimate, formatTime(r.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert ranking: %w", err)
	}
	return nil
}

// LatestRanking returns the most recent ranking for a keyword/competitor pair.
func (s *Store) LatestRanking(ctx context.Context, keywordID, competitorID string) (*model.Ranking, error) {
	query := `SELECT ` + rankingColumns + ` FROM rankings
		WHERE keyword_id = ? AND competitor_id = ? ORDER BY created_at DESC LIMIT 1`

	var row rankingRow
	err := s.db.GetContext(ctx, &row, s.q(query), keywordID, competitorID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("ranking: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest ranking: %w", err)
	}
	r := row.toModel()
	return &r, nil
}

// ListRankings returns up to limit rankings of a competitor, newest first.
func (s *Store) ListRankings(ctx context.Context, competitorID string, limit int) ([]model.Ranking, error) {
	query := `SELECT ` + rankingColumns + ` FROM rankings
		WHERE competitor_id = ? ORDER BY created_at DESC LIMIT ?`

	var rows []rankingRow
	if err := s.db.SelectContext(ctx, &rows, s.q(query), competitorID, listLimit(limit)); err != nil {
		return nil, fmt.Errorf("failed to list rankings: %w", err)
	}
	out := make([]model.Ranking, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toModel())
	}
	return out, nil
}
