package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/rivalscope/internal/config"
	"github.com/nao1215/rivalscope/internal/database"
	"github.com/nao1215/rivalscope/internal/monitor"
)

// NewMonitorCmd creates the monitor command.
func NewMonitorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Re-analyze competitors and detect content and ranking changes",
		Long: `Monitor runs one monitoring pass over the owner's competitors:
- every competitor is analyzed again and a new metrics snapshot is stored
- the homepage content is compared with the last snapshot
- positions of tracked keywords are recorded

Changes raise alerts, see 'rivalscope alerts'.

With --schedule the pass repeats on a cron schedule for every owner until
interrupted.

Examples:
  # One pass for the configured owner
  rivalscope monitor

  # One pass for every owner in the database
  rivalscope monitor --all

  # Every day at 06:00
  rivalscope monitor --schedule "0 6 * * *"`,
		Args: cobra.NoArgs,
		RunE: runMonitorCmd,
	}

	cmd.Flags().String("schedule", "", "Repeat on this 5-field cron schedule")
	cmd.Flags().Bool("all", false, "Monitor the competitors of every owner")
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize, "Number of concurrent analyses")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout, "Timeout for each page request")
	cmd.Flags().Duration("interval", config.DefaultFetchInterval, "Pause between page requests to one domain")
	cmd.Flags().String("scheme", config.DefaultScheme, "URL scheme used to fetch pages (https or http)")
	return cmd
}

func runMonitorCmd(cmd *cobra.Command, args []string) error {
	scheduled := cmd.Flags().Changed("schedule")
	all, err := cmd.Flags().GetBool("all")
	if err != nil {
		return err
	}

	return withStore(cmd, args, func(ctx context.Context, store *database.Store, cfg *config.Config) error {
		logger := slog.Default()
		ctx, stop := signalContext(ctx, logger)
		defer stop()

		tables, err := loadTables(cfg)
		if err != nil {
			return err
		}
		fetcher := newFetcher(cfg, logger)
		engine := newEngine(cfg, tables, fetcher, store, logger)
		mon := newMonitor(cfg, tables, fetcher, engine, store, logger)

		out := cmd.OutOrStdout()
		if !scheduled && !all {
			summary, err := mon.RunOnce(ctx, cfg.Owner)
			if err != nil {
				return err
			}
			printSummary(out, summary)
			return nil
		}

		scheduler, err := monitor.NewScheduler(mon, store, cfg.MonitorSchedule, logger)
		if err != nil {
			return err
		}
		if !scheduled {
			for _, summary := range scheduler.RunAll(ctx) {
				printSummary(out, summary)
			}
			return ctx.Err()
		}

		fmt.Fprintf(out, "Monitoring on schedule %q, press Ctrl+C to stop\n", cfg.MonitorSchedule)
		scheduler.Start()
		<-ctx.Done()
		scheduler.Stop()
		return nil
	})
}

func printSummary(out io.Writer, s monitor.Summary) {
	fmt.Fprintf(out, "[%s] %s (%s)\n", s.Owner, s.String(), s.Elapsed.Round(time.Millisecond))
}
