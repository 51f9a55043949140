package database

// schema is executed statement by statement so it works on drivers that
// reject multi-statement Exec calls.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS competitors (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		domain TEXT NOT NULL,
		created_at TEXT NOT NULL,
		UNIQUE (owner_id, domain)
	)`,
	`CREATE TABLE IF NOT EXISTS scraped_pages (
		id TEXT PRIMARY KEY,
		competitor_id TEXT NOT NULL REFERENCES competitors (id) ON DELETE CASCADE,
		url TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		word_count INTEGER NOT NULL DEFAULT 0 CHECK (word_count >= 0),
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_pages_competitor ON scraped_pages (competitor_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS seo_metrics (
		id TEXT PRIMARY KEY,
		competitor_id TEXT NOT NULL REFERENCES competitors (id) ON DELETE CASCADE,
		backlinks BIGINT NOT NULL CHECK (backlinks >= 0),
		domain_authority INTEGER NOT NULL CHECK (domain_authority BETWEEN 1 AND 100),
		traffic_estimate BIGINT NOT NULL,
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_metrics_competitor ON seo_metrics (competitor_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS suggestions (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		type TEXT NOT NULL,
		text TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_suggestions_owner ON suggestions (owner_id, type, created_at)`,
	`CREATE TABLE IF NOT EXISTS alerts (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		message TEXT NOT NULL,
		is_read BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_alerts_owner ON alerts (owner_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS keywords (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		keyword TEXT NOT NULL,
		search_engine TEXT NOT NULL DEFAULT 'google',
		created_at TEXT NOT NULL,
		UNIQUE (owner_id, keyword, search_engine)
	)`,
	`CREATE TABLE IF NOT EXISTS rankings (
		id TEXT PRIMARY KEY,
		keyword_id TEXT NOT NULL REFERENCES keywords (id) ON DELETE CASCADE,
		competitor_id TEXT NOT NULL REFERENCES competitors (id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		traffic_estimate BIGINT NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_rankings_pair ON rankings (keyword_id, competitor_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS content_snapshots (
		id TEXT PRIMARY KEY,
		competitor_id TEXT NOT NULL REFERENCES competitors (id) ON DELETE CASCADE,
		url TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		content_text TEXT NOT NULL,
		hash TEXT NOT NULL,
		type TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_content_competitor ON content_snapshots (competitor_id, type, created_at)`,
}
