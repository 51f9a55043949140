package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"  // PostgreSQL driver
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/rivalscope/internal/config"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Connection pool settings for PostgreSQL.
const (
	DefaultMaxOpenConns    = 10
	DefaultMaxIdleConns    = 5
	DefaultConnMaxLifetime = 5 * time.Minute
	DefaultPingTimeout     = 5 * time.Second
)

// defaultListLimit applies when a caller passes a non-positive limit.
const defaultListLimit = 100

// Store is the relational store.
type Store struct {
	db *sqlx.DB
}

// Options configures Open.
type Options struct {
	// Driver is config.DriverSQLite or config.DriverPostgres.
	Driver string

	// DSN is the connection string. For SQLite it may be empty, in which
	// case the database lives in Dir.
	DSN string

	// Dir is the SQLite data directory.
	Dir string

	// CreateIfNotExists creates the SQLite file and directory if missing.
	CreateIfNotExists bool

	// EnableWAL enables SQLite write-ahead logging.
	EnableWAL bool
}

// DefaultOptions returns SQLite options under the XDG data directory.
func DefaultOptions() Options {
	return Options{
		Driver:            config.DriverSQLite,
		Dir:               config.XDGDataDir(),
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open connects to the configured database and creates the schema.
func Open(ctx context.Context, opts Options) (*Store, error) {
	var (
		db  *sqlx.DB
		err error
	)
	switch opts.Driver {
	case config.DriverSQLite, "":
		db, err = openSQLite(ctx, opts)
	case config.DriverPostgres:
		db, err = openPostgres(ctx, opts.DSN)
	default:
		return nil, fmt.Errorf("%w: %s", config.ErrUnsupportedDriver, opts.Driver)
	}
	if err != nil {
		return nil, err
	}

	s := NewStore(db)
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

// NewStore wraps an open connection. The schema is not created.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func openSQLite(ctx context.Context, opts Options) (*sqlx.DB, error) {
	dsn := opts.DSN
	if dsn == "" {
		dbPath := filepath.Join(opts.Dir, config.DefaultDBFile)
		if opts.CreateIfNotExists {
			if err := os.MkdirAll(opts.Dir, 0750); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
			dsn = dbPath + "?mode=rwc"
		} else {
			if _, err := os.Stat(dbPath); err != nil {
				return nil, fmt.Errorf("database not found at %s: %w", dbPath, err)
			}
			dsn = dbPath + "?mode=rw"
		}
		dsn += "&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	}

	db, err := sqlx.Open(config.DriverSQLite, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if opts.EnableWAL && !strings.Contains(dsn, ":memory:") {
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}
	return db, nil
}

func openPostgres(ctx context.Context, dsn string) (*sqlx.DB, error) {
	if dsn == "" {
		return nil, config.ErrMissingDSN
	}
	db, err := sqlx.Open(config.DriverPostgres, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(DefaultMaxOpenConns)
	db.SetMaxIdleConns(DefaultMaxIdleConns)
	db.SetConnMaxLifetime(DefaultConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, DefaultPingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate creates the schema if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// q rebinds a query written with ? placeholders for the current driver.
func (s *Store) q(query string) string {
	return s.db.Rebind(query)
}

// timeLayout is fixed width so text ordering matches time ordering.
const timeLayout = "2006-01-02 15:04:05.000000000"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// timestampFormats lists the layouts a stored timestamp may have.
var timestampFormats = []string{
	timeLayout,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	time.RFC3339Nano,
}

// parseTimestamp parses a stored timestamp, returning the zero time when no
// layout matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func listLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	return limit
}

// requireRow maps a zero-row result to ErrNotFound.
func requireRow(res interface{ RowsAffected() (int64, error) }, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}
