package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/rivalscope/internal/config"
	"github.com/nao1215/rivalscope/internal/crawler"
	"github.com/nao1215/rivalscope/internal/database"
	applog "github.com/nao1215/rivalscope/internal/log"
	"github.com/nao1215/rivalscope/internal/monitor"
	"github.com/nao1215/rivalscope/internal/pipeline"
)

// buildConfig creates a Config from defaults, the config file, the
// environment and the command flags, in increasing order of precedence.
// Flags only override when they were set explicitly.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	if err := config.LoadEnv(); err != nil {
		return nil, err
	}

	var err error
	cfg.ConfigFilePath, err = flags.GetString("config")
	if err != nil {
		return nil, err
	}
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cfg.ApplyFile(file)
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	default:
		cfg.SiteConfigs = &config.File{Sites: make(map[string]config.SiteConfig)}
	}

	cfg.ApplyEnv(os.LookupEnv)

	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}
	cfg.Targets = args
	return cfg, nil
}

// applyFlags copies explicitly set flags onto cfg. Flags a command does
// not define are skipped.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	changed := func(name string) bool {
		return flags.Lookup(name) != nil && flags.Changed(name)
	}

	var err error
	// verbose and log-json are read even when unset so defaults stay false.
	if flags.Lookup("verbose") != nil {
		if cfg.Verbose, err = flags.GetBool("verbose"); err != nil {
			return err
		}
	}
	if flags.Lookup("log-json") != nil {
		if cfg.LogJSON, err = flags.GetBool("log-json"); err != nil {
			return err
		}
	}

	stringFlags := map[string]*string{
		"owner":     &cfg.Owner,
		"db-driver": &cfg.DBDriver,
		"db-dsn":    &cfg.DBDSN,
		"output":    &cfg.ReportFile,
		"scheme":    &cfg.Scheme,
		"addr":      &cfg.ServeAddr,
		"schedule":  &cfg.MonitorSchedule,
	}
	for name, dst := range stringFlags {
		if changed(name) {
			if *dst, err = flags.GetString(name); err != nil {
				return err
			}
		}
	}

	boolFlags := map[string]*bool{
		"json":     &cfg.JSONReport,
		"markdown": &cfg.MarkdownReport,
		"no-save":  &cfg.NoSave,
	}
	for name, dst := range boolFlags {
		if changed(name) {
			if *dst, err = flags.GetBool(name); err != nil {
				return err
			}
		}
	}

	if changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return err
		}
	}
	if changed("interval") {
		if cfg.FetchInterval, err = flags.GetDuration("interval"); err != nil {
			return err
		}
	}
	if changed("batch") {
		if cfg.BatchSize, err = flags.GetInt("batch"); err != nil {
			return err
		}
	}
	if changed("max-suggestions") {
		if cfg.SuggestionLimit, err = flags.GetInt("max-suggestions"); err != nil {
			return err
		}
	}
	if changed("rate-limit") {
		if cfg.RateLimit, err = flags.GetFloat64("rate-limit"); err != nil {
			return err
		}
	}
	if changed("rate-burst") {
		if cfg.RateBurst, err = flags.GetInt("rate-burst"); err != nil {
			return err
		}
	}
	return nil
}

// setupLogger creates the redacting logger and makes it the default.
func setupLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	var logger *slog.Logger
	if cfg.LogJSON {
		logger = applog.NewSecureJSONLogger(w, cfg.Verbose)
	} else {
		logger = applog.NewSecureLogger(w, cfg.Verbose)
	}
	slog.SetDefault(logger)
	return logger
}

// signalContext is cancelled on SIGINT or SIGTERM. The returned stop
// function releases the signal handler.
func signalContext(parent context.Context, logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, func() {
		signal.Stop(sigCh)
		cancel()
	}
}

// openStore opens the configured database.
func openStore(ctx context.Context, cfg *config.Config) (*database.Store, error) {
	store, err := database.Open(ctx, database.Options{
		Driver:            cfg.DBDriver,
		DSN:               cfg.DBDSN,
		Dir:               cfg.DBDir,
		CreateIfNotExists: true,
		EnableWAL:         true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return store, nil
}

func newFetcher(cfg *config.Config, logger *slog.Logger) *crawler.Fetcher {
	return crawler.NewFetcher(nil,
		crawler.WithScheme(cfg.Scheme),
		crawler.WithUserAgent(cfg.UserAgent),
		crawler.WithTimeout(cfg.Timeout),
		crawler.WithMaxBodySize(cfg.MaxBodySize),
		crawler.WithInterval(cfg.FetchInterval),
		crawler.WithPaths(cfg.CandidatePaths),
		crawler.WithSiteSettings(func(domain string) crawler.SiteSettings {
			sc := cfg.SiteConfigs.GetSiteConfig(domain)
			return crawler.SiteSettings{Cookie: sc.Cookie, Headers: sc.Headers, Paths: sc.Paths}
		}),
		crawler.WithFetcherLogger(logger),
	)
}

func loadTables(cfg *config.Config) (*config.Tables, error) {
	tables, err := config.TablesFromFile(cfg.SiteConfigs)
	if err != nil {
		return nil, fmt.Errorf("invalid tables in config file: %w", err)
	}
	return tables, nil
}

// newEngine wires the analysis engine. store may be nil to skip persistence.
func newEngine(cfg *config.Config, tables *config.Tables, fetcher *crawler.Fetcher, store *database.Store, logger *slog.Logger, opts ...pipeline.EngineOption) *pipeline.Engine {
	engineOpts := []pipeline.EngineOption{
		pipeline.WithEngineLogger(logger),
		pipeline.WithSuggestionLimit(cfg.SuggestionLimit),
	}
	if store != nil {
		engineOpts = append(engineOpts, pipeline.WithStore(store))
	}
	return pipeline.NewEngine(fetcher, tables, append(engineOpts, opts...)...)
}

// newMonitor wires a monitoring pass: re-analysis through a bounded batch,
// content change detection and rank tracking.
func newMonitor(cfg *config.Config, tables *config.Tables, fetcher *crawler.Fetcher, engine *pipeline.Engine, store *database.Store, logger *slog.Logger, opts ...monitor.Option) *monitor.Monitor {
	batch := pipeline.NewBatchProcessor(engine,
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)
	monitorOpts := []monitor.Option{
		monitor.WithContentMonitor(monitor.NewContentMonitor(fetcher, store, time.Now, logger)),
		monitor.WithRankTracker(monitor.NewRankTracker(monitor.NewHeuristicSource(tables, nil), store, time.Now, logger)),
		monitor.WithLogger(logger),
	}
	return monitor.New(store, batch, append(monitorOpts, opts...)...)
}

// createOutput returns the report destination: the --output file (created
// with private permissions) or out.
func createOutput(cfg *config.Config, out io.Writer) (io.Writer, func() error, error) {
	if cfg.ReportFile == "" {
		return out, func() error { return nil }, nil
	}
	if dir := filepath.Dir(cfg.ReportFile); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, f.Close, nil
}

// withStore builds the config, opens the database and calls fn.
func withStore(cmd *cobra.Command, args []string, fn func(ctx context.Context, store *database.Store, cfg *config.Config) error) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	setupLogger(cfg, cmd.ErrOrStderr())

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(ctx, store, cfg)
}
