// Package database stores competitors, metrics snapshots, scraped pages,
// suggestions, alerts, tracked keywords, rankings and content snapshots.
//
// The store runs on sqlx over either SQLite (modernc.org/sqlite, the
// default, one file under the XDG data directory) or PostgreSQL (lib/pq).
// Queries are written with ? placeholders and rebound for the driver.
// Timestamps are stored as fixed-width UTC text so that ordering by
// created_at is chronological on both backends.
package database
