package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nao1215/rivalscope/internal/model"
)

const competitorColumns = `id, owner_id, domain, created_at`

type competitorRow struct {
	ID        string `db:"id"`
	Owner     string `db:"owner_id"`
	Domain    string `db:"domain"`
	CreatedAt string `db:"created_at"`
}

func (r competitorRow) toModel() model.Competitor {
	return model.Competitor{
		ID:        r.ID,
		Domain:    r.Domain,
		Owner:     r.Owner,
		CreatedAt: parseTimestamp(r.CreatedAt),
	}
}

// UpsertCompetitor returns the competitor for (owner, domain), inserting it
// when absent. INSERT ... ON CONFLICT DO NOTHING followed by a SELECT makes
// concurrent callers converge on one row.
func (s *Store) UpsertCompetitor(ctx context.Context, owner, domain string, createdAt time.Time) (*model.Competitor, error) {
	insert := `INSERT INTO competitors (` + competitorColumns + `) VALUES (?, ?, ?, ?)
		ON CONFLICT (owner_id, domain) DO NOTHING`
	if _, err := s.db.ExecContext(ctx, s.q(insert), uuid.NewString(), owner, domain, formatTime(createdAt)); err != nil {
		return nil, fmt.Errorf("failed to insert competitor: %w", err)
	}
	return s.GetCompetitor(ctx, owner, domain)
}

// GetCompetitor returns the competitor with the given normalized domain.
func (s *Store) GetCompetitor(ctx context.Context, owner, domain string) (*model.Competitor, error) {
	query := `SELECT ` + competitorColumns + ` FROM competitors WHERE owner_id = ? AND domain = ?`
	return s.getCompetitor(ctx, query, owner, domain)
}

// GetCompetitorByID returns one of owner's competitors by id.
func (s *Store) GetCompetitorByID(ctx context.Context, owner, id string) (*model.Competitor, error) {
	query := `SELECT ` + competitorColumns + ` FROM competitors WHERE owner_id = ? AND id = ?`
	return s.getCompetitor(ctx, query, owner, id)
}

func (s *Store) getCompetitor(ctx context.Context, query string, args ...any) (*model.Competitor, error) {
	var row competitorRow
	err := s.db.GetContext(ctx, &row, s.q(query), args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("competitor: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get competitor: %w", err)
	}
	c := row.toModel()
	return &c, nil
}

// ListCompetitors returns owner's competitors ordered by domain.
func (s *Store) ListCompetitors(ctx context.Context, owner string) ([]model.Competitor, error) {
	query := `SELECT ` + competitorColumns + ` FROM competitors WHERE owner_id = ? ORDER BY domain`

	var rows []competitorRow
	if err := s.db.SelectContext(ctx, &rows, s.q(query), owner); err != nil {
		return nil, fmt.Errorf("failed to list competitors: %w", err)
	}
	out := make([]model.Competitor, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toModel())
	}
	return out, nil
}

// ListOwners returns every owner with at least one competitor.
func (s *Store) ListOwners(ctx context.Context) ([]string, error) {
	var owners []string
	if err := s.db.SelectContext(ctx, &owners, `SELECT DISTINCT owner_id FROM competitors ORDER BY owner_id`); err != nil {
		return nil, fmt.Errorf("failed to list owners: %w", err)
	}
	return owners, nil
}

// DeleteCompetitor removes one of owner's competitors together with its
// pages, snapshots, rankings and content snapshots.
func (s *Store) DeleteCompetitor(ctx context.Context, owner, id string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"rankings", "content_snapshots", "seo_metrics", "scraped_pages"} {
		query := `DELETE FROM ` + table + ` WHERE competitor_id IN
			(SELECT id FROM competitors WHERE id = ? AND owner_id = ?)`
		if _, err := tx.ExecContext(ctx, tx.Rebind(query), id, owner); err != nil {
			return fmt.Errorf("failed to delete from %s: %w", table, err)
		}
	}

	res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM competitors WHERE id = ? AND owner_id = ?`), id, owner)
	if err != nil {
		return fmt.Errorf("failed to delete competitor: %w", err)
	}
	if err := requireRow(res, "competitor"); err != nil {
		return err
	}
	return tx.Commit()
}
