package monitor

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/sha3"

	"github.com/nao1215/rivalscope/internal/crawler"
	"github.com/nao1215/rivalscope/internal/database"
	"github.com/nao1215/rivalscope/internal/model"
)

// MaxSnapshotContent is the number of content characters kept per snapshot.
const MaxSnapshotContent = 5000

// PageFetcher fetches one page of a domain. *crawler.Fetcher implements it.
type PageFetcher interface {
	FetchPage(ctx context.Context, domain, path string) (*crawler.Page, error)
}

// ContentStore is the persistence needed by ContentMonitor.
type ContentStore interface {
	LatestContentSnapshot(ctx context.Context, competitorID, contentType string) (*model.ContentSnapshot, error)
	InsertContentSnapshot(ctx context.Context, snapshot *model.ContentSnapshot) error
	InsertAlert(ctx context.Context, alert *model.Alert) error
}

// ContentChangeMessage is the alert text raised when homepage content changed.
func ContentChangeMessage(domain string) string {
	return "New content detected on " + domain
}

// Fingerprint returns the SHA3-256 hex digest of a page title and content.
func Fingerprint(title, content string) string {
	h := sha3.New256()
	h.Write([]byte(title))
	h.Write([]byte{0})
	h.Write([]byte(content))
	return hex.EncodeToString(h.Sum(nil))
}

// ContentResult is the outcome of checking one competitor.
type ContentResult struct {
	// Stored is true when a new snapshot was written.
	Stored bool
	// Changed is true when a previous snapshot existed and differs.
	Changed bool
}

// ContentMonitor detects homepage content changes.
type ContentMonitor struct {
	fetcher PageFetcher
	store   ContentStore
	now     func() time.Time
	logger  *slog.Logger
}

// NewContentMonitor creates a content monitor. A nil logger means slog.Default().
func NewContentMonitor(fetcher PageFetcher, store ContentStore, now func() time.Time, logger *slog.Logger) *ContentMonitor {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ContentMonitor{fetcher: fetcher, store: store, now: now, logger: logger}
}

// Check fetches the competitor's homepage and stores a snapshot when there is
// none yet or the fingerprint changed. Only a change raises an alert; the
// first snapshot is the baseline.
func (m *ContentMonitor) Check(ctx context.Context, c model.Competitor) (ContentResult, error) {
	page, err := m.fetcher.FetchPage(ctx, c.Domain, "")
	if err != nil {
		return ContentResult{}, fmt.Errorf("failed to fetch homepage of %s: %w", c.Domain, err)
	}

	content := crawler.Truncate(crawler.SelectContent(page.Doc, crawler.MonitorContentSelectors), MaxSnapshotContent)
	title := page.Record.Title
	hash := Fingerprint(title, content)

	prev, err := m.store.LatestContentSnapshot(ctx, c.ID, model.ContentTypeHomepage)
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		return ContentResult{}, err
	}
	if prev != nil && prev.Hash == hash {
		return ContentResult{}, nil
	}

	now := m.now()
	url := page.Record.FinalURL
	if url == "" {
		url = page.Record.URL
	}
	snapshot := &model.ContentSnapshot{
		ID:           uuid.NewString(),
		CompetitorID: c.ID,
		URL:          url,
		Title:        title,
		ContentText:  content,
		Hash:         hash,
		Type:         model.ContentTypeHomepage,
		CreatedAt:    now,
	}
	if err := m.store.InsertContentSnapshot(ctx, snapshot); err != nil {
		return ContentResult{}, err
	}
	if prev == nil {
		m.logger.Debug("stored baseline content snapshot", "domain", c.Domain)
		return ContentResult{Stored: true}, nil
	}

	m.logger.Info("content change detected", "domain", c.Domain)
	alert := &model.Alert{
		ID:        uuid.NewString(),
		Owner:     c.Owner,
		Message:   ContentChangeMessage(c.Domain),
		CreatedAt: now,
	}
	if err := m.store.InsertAlert(ctx, alert); err != nil {
		m.logger.Error("failed to store content alert", "domain", c.Domain, "error", err)
	}
	return ContentResult{Stored: true, Changed: true}, nil
}
