// Package log builds slog loggers that redact secrets.
//
// SecureHandler wraps any slog.Handler and masks attribute values whose key
// names a secret (password, token, api_key, dsn, ...) or whose value looks
// like one (bearer tokens, JWTs, long API keys). Database connection
// strings keep their host and database name but lose the password, so a
// failed connection can still be diagnosed from the log:
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	logger.Error("failed to open database", "dsn", "postgres://app:s3cret@db:5432/rivalscope")
//	// dsn=postgres://app:***REDACTED***@db:5432/rivalscope
package log
