package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nao1215/rivalscope/internal/model"
)

const metricsColumns = `id, competitor_id, backlinks, domain_authority, traffic_estimate, created_at`

type metricsRow struct {
	ID              string `db:"id"`
	CompetitorID    string `db:"competitor_id"`
	Backlinks       int64  `db:"backlinks"`
	DomainAuthority int    `db:"domain_authority"`
	TrafficEstimate int64  `db:"traffic_estimate"`
	CreatedAt       string `db:"created_at"`
}

func (r metricsRow) toModel() model.SeoMetricsSnapshot {
	return model.SeoMetricsSnapshot{
		ID:              r.ID,
		CompetitorID:    r.CompetitorID,
		Backlinks:       r.Backlinks,
		DomainAuthority: r.DomainAuthority,
		TrafficEstimate: r.TrafficEstimate,
		CreatedAt:       parseTimestamp(r.CreatedAt),
	}
}

// InsertMetrics appends a metrics snapshot.
func (s *Store) InsertMetrics(ctx context.Context, m *model.SeoMetricsSnapshot) error {
	query := `INSERT INTO seo_metrics (` + metricsColumns + `) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, s.q(query),
		m.ID, m.CompetitorID, m.Backlinks, m.DomainAuthority, m.TrafficEstimate, formatTime(m.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert metrics: %w", err)
	}
	return nil
}

// LatestMetrics returns the most recent snapshot of a competitor.
func (s *Store) LatestMetrics(ctx context.Context, competitorID string) (*model.SeoMetricsSnapshot, error) {
	query := `SELECT ` + metricsColumns + ` FROM seo_metrics
		WHERE competitor_id = ? ORDER BY created_at DESC LIMIT 1`

	var row metricsRow
	err := s.db.GetContext(ctx, &row, s.q(query), competitorID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("metrics: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest metrics: %w", err)
	}
	m := row.toModel()
	return &m, nil
}

// ListMetrics returns up to limit snapshots of a competitor, newest first.
func (s *Store) ListMetrics(ctx context.Context, competitorID string, limit int) ([]model.SeoMetricsSnapshot, error) {
	query := `SELECT ` + metricsColumns + ` FROM seo_metrics
		WHERE competitor_id = ? ORDER BY created_at DESC LIMIT ?`

	var rows []metricsRow
	if err := s.db.SelectContext(ctx, &rows, s.q(query), competitorID, listLimit(limit)); err != nil {
		return nil, fmt.Errorf("failed to list metrics: %w", err)
	}
	out := make([]model.SeoMetricsSnapshot, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toModel())
	}
	return out, nil
}

const pageColumns = `id, competitor_id, url, title, word_count, created_at`

type pageRow struct {
	ID           string `db:"id"`
	CompetitorID string `db:"competitor_id"`
	URL          string `db:"url"`
	Title        string `db:"title"`
	WordCount    int    `db:"word_count"`
	CreatedAt    string `db:"created_at"`
}

// InsertScrapedPage appends a scraped page row.
func (s *Store) InsertScrapedPage(ctx context.Context, p *model.ScrapedPage) error {
	query := `INSERT INTO scraped_pages (` + pageColumns + `) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, s.q(query),
		p.ID, p.CompetitorID, p.URL, p.Title, p.WordCount, formatTime(p.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert scraped page: %w", err)
	}
	return nil
}

// ListScrapedPages returns up to limit pages of a competitor, newest first.
func (s *Store) ListScrapedPages(ctx context.Context, competitorID string, limit int) ([]model.ScrapedPage, error) {
	query := `SELECT ` + pageColumns + ` FROM scraped_pages
		WHERE competitor_id = ? ORDER BY created_at DESC, url LIMIT ?`

	var rows []pageRow
	if err := s.db.SelectContext(ctx, &rows, s.q(query), competitorID, listLimit(limit)); err != nil {
		return nil, fmt.Errorf("failed to list scraped pages: %w", err)
	}
	out := make([]model.ScrapedPage, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.ScrapedPage{
			ID:           r.ID,
			CompetitorID: r.CompetitorID,
			URL:          r.URL,
			Title:        r.Title,
			WordCount:    r.WordCount,
			CreatedAt:    parseTimestamp(r.CreatedAt),
		})
	}
	return out, nil
}
