package config

import (
	"path/filepath"
	"slices"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultTimeout bounds a single page fetch. A page that does not answer
	// in time is recorded as failed; the run continues.
	DefaultTimeout = 10 * time.Second

	// DefaultBatchSize is the number of competitors analyzed concurrently by
	// batch runs. Each competitor's own pages are still fetched sequentially.
	DefaultBatchSize = 5

	// MaxBatchSize caps batch concurrency to keep outbound connections bounded.
	MaxBatchSize = 10

	// AppName is the application name used for XDG directory paths.
	AppName = "rivalscope"

	// DefaultDBFile is the sqlite file name inside the data directory.
	DefaultDBFile = "rivalscope.db"

	// DefaultFetchInterval is the pause between two page fetches of one run.
	DefaultFetchInterval = 250 * time.Millisecond

	// DefaultUserAgent is a realistic desktop browser user agent. Many sites
	// serve reduced markup or block requests with tool-like agents.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

	// DefaultMaxBodySize limits the response body read per page.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultScheme is used to build page URLs from a canonical domain.
	DefaultScheme = "https"

	// DefaultSuggestionLimit is the maximum number of suggestions in a report.
	DefaultSuggestionLimit = 10

	// DefaultOwner owns competitors created from the CLI when no owner is given.
	DefaultOwner = "local"

	// DefaultServeAddr is the listen address of `rivalscope serve`.
	DefaultServeAddr = ":8082"

	// DefaultMonitorSchedule runs the monitor every six hours.
	DefaultMonitorSchedule = "0 */6 * * *"

	// DefaultRateLimit is the sustained API request rate per client (req/s).
	DefaultRateLimit = 5

	// DefaultRateBurst is the API burst size per client.
	DefaultRateBurst = 10

	// DriverSQLite and DriverPostgres are the supported database drivers.
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DefaultCandidatePaths are the pages fetched for every domain, in order.
// The empty path is the homepage.
var DefaultCandidatePaths = []string{"", "about", "products", "blog", "contact"}

// Config holds all runtime options for rivalscope.
// It is populated from defaults, the config file, the environment and CLI
// flags (in that order of increasing precedence) and passed down explicitly.
type Config struct {
	// Targets are the raw competitor inputs given on the command line.
	Targets []string

	// Owner is the user the analyzed competitors belong to.
	Owner string

	// Timeout bounds a single page fetch.
	Timeout time.Duration

	// BatchSize is the number of domains analyzed concurrently.
	BatchSize int

	// FetchInterval is the pause between sequential page fetches of one run.
	FetchInterval time.Duration

	// UserAgent is sent with every page request.
	UserAgent string

	// MaxBodySize is the maximum number of body bytes read per page.
	MaxBodySize int64

	// Scheme is "https" or "http"; it is used to build page URLs.
	Scheme string

	// CandidatePaths are fetched for every domain, in order.
	CandidatePaths []string

	// SuggestionLimit caps the number of suggestions in a report.
	SuggestionLimit int

	Verbose bool
	LogJSON bool

	// ConfigFilePath is the explicit --config path, empty to search.
	ConfigFilePath string

	// SiteConfigs holds what was loaded from the config file, if anything.
	SiteConfigs *File

	JSONReport     bool
	MarkdownReport bool
	ReportFile     string

	// DBDriver is DriverSQLite or DriverPostgres.
	DBDriver string
	// DBDSN is the postgres connection string, or a sqlite file path.
	DBDSN string
	// DBDir is where the default sqlite database lives.
	DBDir string
	// NoSave disables persistence entirely (analysis still runs).
	NoSave bool

	ServeAddr       string
	MonitorSchedule string
	RateLimit       float64
	RateBurst       int
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Owner:           DefaultOwner,
		Timeout:         DefaultTimeout,
		BatchSize:       DefaultBatchSize,
		FetchInterval:   DefaultFetchInterval,
		UserAgent:       DefaultUserAgent,
		MaxBodySize:     DefaultMaxBodySize,
		Scheme:          DefaultScheme,
		CandidatePaths:  slices.Clone(DefaultCandidatePaths),
		SuggestionLimit: DefaultSuggestionLimit,
		DBDriver:        DriverSQLite,
		DBDir:           XDGDataDir(),
		ServeAddr:       DefaultServeAddr,
		MonitorSchedule: DefaultMonitorSchedule,
		RateLimit:       DefaultRateLimit,
		RateBurst:       DefaultRateBurst,
	}
}

// XDGDataDir returns the XDG data directory for rivalscope.
// On Linux: ~/.local/share/rivalscope
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for rivalscope.
// On Linux: ~/.config/rivalscope
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// SQLitePath returns the sqlite database path for this configuration.
// An explicit DSN wins over the data directory.
func (c *Config) SQLitePath() string {
	if c.DBDSN != "" {
		return c.DBDSN
	}
	return filepath.Join(c.DBDir, DefaultDBFile)
}

// Validate checks if the configuration is valid.
// It returns the first problem found as a sentinel error.
func (c *Config) Validate() error {
	if c.Owner == "" {
		return ErrEmptyOwner
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.BatchSize <= 0 || c.BatchSize > MaxBatchSize {
		return ErrInvalidBatchSize
	}
	if c.FetchInterval < 0 {
		return ErrInvalidFetchInterval
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	if c.Scheme != "https" && c.Scheme != "http" {
		return ErrInvalidScheme
	}
	if len(c.CandidatePaths) == 0 {
		return ErrNoCandidatePaths
	}
	if c.SuggestionLimit <= 0 {
		return ErrInvalidSuggestionLimit
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	if c.DBDriver != DriverSQLite && c.DBDriver != DriverPostgres {
		return ErrUnsupportedDriver
	}
	if c.DBDriver == DriverPostgres && c.DBDSN == "" {
		return ErrMissingDSN
	}
	return nil
}

// RequireTargets returns ErrNoTarget when no competitor was given.
func (c *Config) RequireTargets() error {
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}
	return nil
}

// ApplyFile copies values set in the config file onto c. Zero values in
// the file leave c unchanged.
func (c *Config) ApplyFile(f *File) {
	if f == nil {
		return
	}
	c.SiteConfigs = f
	if f.Owner != "" {
		c.Owner = f.Owner
	}
	if f.UserAgent != "" {
		c.UserAgent = f.UserAgent
	}
	if len(f.Paths) > 0 {
		c.CandidatePaths = slices.Clone(f.Paths)
	}
	if f.Database.Driver != "" {
		c.DBDriver = f.Database.Driver
	}
	if f.Database.DSN != "" {
		c.DBDSN = f.Database.DSN
	}
	if f.Server.Addr != "" {
		c.ServeAddr = f.Server.Addr
	}
	if f.Server.Schedule != "" {
		c.MonitorSchedule = f.Server.Schedule
	}
}
