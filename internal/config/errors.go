package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrNoTarget is returned when no competitor domain is specified.
	ErrNoTarget = errors.New("no target specified: provide a competitor domain")

	// ErrEmptyOwner is returned when no owner is configured.
	ErrEmptyOwner = errors.New("owner must not be empty")

	// ErrInvalidTimeout is returned when the per-page timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidBatchSize is returned when the batch size is outside 1..MaxBatchSize.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be between 1 and 10")

	// ErrInvalidFetchInterval is returned when the fetch interval is negative.
	ErrInvalidFetchInterval = errors.New("invalid fetch interval: must be non-negative")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidScheme is returned when the scheme is neither http nor https.
	ErrInvalidScheme = errors.New("invalid scheme: must be http or https")

	// ErrNoCandidatePaths is returned when the candidate path list is empty.
	ErrNoCandidatePaths = errors.New("no candidate paths configured")

	// ErrInvalidSuggestionLimit is returned when the suggestion limit is not positive.
	ErrInvalidSuggestionLimit = errors.New("invalid suggestion limit: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrUnsupportedDriver is returned for database drivers other than sqlite and postgres.
	ErrUnsupportedDriver = errors.New("unsupported database driver: use sqlite or postgres")

	// ErrMissingDSN is returned when postgres is selected without a DSN.
	ErrMissingDSN = errors.New("postgres driver requires a DSN")
)
