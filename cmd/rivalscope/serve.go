package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/nao1215/rivalscope/internal/config"
	"github.com/nao1215/rivalscope/internal/database"
	"github.com/nao1215/rivalscope/internal/monitor"
	"github.com/nao1215/rivalscope/internal/pipeline"
	"github.com/nao1215/rivalscope/internal/server"
	"github.com/nao1215/rivalscope/internal/telemetry"
)

// scheduleOff disables the background monitor of `serve`.
const scheduleOff = "off"

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API and run the monitor on a schedule",
		Long: `Serve starts the JSON HTTP API:

  GET    /api/health
  POST   /api/analyze                  {"domain": "...", "owner": "..."}
  GET    /api/competitors
  DELETE /api/competitors/:id
  GET    /api/competitors/:id/metrics
  GET    /api/competitors/:id/history
  GET    /api/suggestions
  GET    /api/alerts
  POST   /api/alerts/:id/read
  POST   /api/monitor
  GET    /metrics                      (prometheus)

Requests are scoped to the owner in the X-Owner-ID header or the owner query
parameter. The monitor runs for every owner on the configured cron schedule;
use --schedule off to disable it.

Examples:
  rivalscope serve
  rivalscope serve --addr 127.0.0.1:9000 --schedule "*/30 * * * *"`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	cmd.Flags().String("addr", config.DefaultServeAddr, "Listen address")
	cmd.Flags().String("schedule", config.DefaultMonitorSchedule, `Monitor cron schedule, or "off"`)
	cmd.Flags().Float64("rate-limit", config.DefaultRateLimit, "Requests per second allowed per client (0 disables)")
	cmd.Flags().Int("rate-burst", config.DefaultRateBurst, "Request burst allowed per client")
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize, "Number of concurrent analyses during monitoring")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout, "Timeout for each page request")
	cmd.Flags().Duration("interval", config.DefaultFetchInterval, "Pause between page requests to one domain")
	return cmd
}

func runServeCmd(cmd *cobra.Command, args []string) error {
	return withStore(cmd, args, func(ctx context.Context, store *database.Store, cfg *config.Config) error {
		logger := slog.Default()
		ctx, stop := signalContext(ctx, logger)
		defer stop()

		srv, scheduler, err := newServer(cfg, store, logger)
		if err != nil {
			return err
		}
		if scheduler != nil {
			scheduler.Start()
			defer scheduler.Stop()
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Listening on %s\n", cfg.ServeAddr)
		return srv.Run(ctx)
	})
}

// newServer wires the engine, the monitor and the telemetry into the API.
// The scheduler is nil when the schedule is off.
func newServer(cfg *config.Config, store *database.Store, logger *slog.Logger) (*server.Server, *monitor.Scheduler, error) {
	if cfg.Verbose {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	tables, err := loadTables(cfg)
	if err != nil {
		return nil, nil, err
	}
	metrics := telemetry.NewMetrics(nil)
	fetcher := newFetcher(cfg, logger)
	engine := newEngine(cfg, tables, fetcher, store, logger, pipeline.WithObserver(metrics))
	mon := newMonitor(cfg, tables, fetcher, engine, store, logger, monitor.WithObserver(metrics))

	var scheduler *monitor.Scheduler
	if cfg.MonitorSchedule != "" && cfg.MonitorSchedule != scheduleOff {
		scheduler, err = monitor.NewScheduler(mon, store, cfg.MonitorSchedule, logger)
		if err != nil {
			return nil, nil, err
		}
	}

	srv := server.New(cfg.ServeAddr, engine, store,
		server.WithMonitor(mon),
		server.WithMetrics(metrics),
		server.WithLogger(logger),
		server.WithDefaultOwner(cfg.Owner),
		server.WithRateLimit(cfg.RateLimit, cfg.RateBurst),
	)
	return srv, scheduler, nil
}
