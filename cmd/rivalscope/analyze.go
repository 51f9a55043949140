package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/rivalscope/internal/config"
	"github.com/nao1215/rivalscope/internal/database"
	"github.com/nao1215/rivalscope/internal/pipeline"
	"github.com/nao1215/rivalscope/internal/report"
)

// NewAnalyzeCmd creates the analyze command.
func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [domain...]",
		Short: "Analyze one or more competitor domains",
		Long: `Analyze fetches the homepage, about, products, blog and contact pages of each
competitor and reports:
- Technical SEO checks (HTTPS, canonical, sitemap, robots.txt, hreflang, ...)
- Estimated backlinks, domain authority and organic traffic
- Top keywords and synthesized rankings
- Content gaps compared with the competitor's industry
- An on-page score with prioritized issues and suggestions

Each run is stored so 'rivalscope history' can show how a competitor changes.

Examples:
  # Analyze a single competitor
  rivalscope analyze shopfast.com

  # Analyze several competitors, three at a time
  rivalscope analyze --batch 3 shopfast.com learnhub.io clinic.health

  # Write a Markdown report to a file
  rivalscope analyze --markdown -o reports/shopfast.md shopfast.com

  # Analyze without touching the database
  rivalscope analyze --no-save --json shopfast.com`,
		Args: cobra.ArbitraryArgs,
		RunE: runAnalyzeCmd,
	}

	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout, "Timeout for each page request")
	cmd.Flags().Duration("interval", config.DefaultFetchInterval, "Pause between page requests to one domain")
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize, "Number of concurrent analyses")
	cmd.Flags().String("scheme", config.DefaultScheme, "URL scheme used to fetch pages (https or http)")
	cmd.Flags().Int("max-suggestions", config.DefaultSuggestionLimit, "Maximum number of suggestions per report")
	cmd.Flags().Bool("no-save", false, "Do not store the results")

	cmd.Flags().BoolP("json", "j", false, "Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false, "Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "", "Write report to specified file path (creates directories if needed)")

	return cmd
}

func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := cfg.RequireTargets(); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cfg, cmd.ErrOrStderr())
	ctx, stop := signalContext(cmd.Context(), logger)
	defer stop()

	return runAnalyze(ctx, cfg, cmd.OutOrStdout(), cmd.ErrOrStderr(), logger)
}

// runAnalyze analyzes every target and writes one report per success.
// Failed targets are reported on errOut; the returned error summarizes them.
func runAnalyze(ctx context.Context, cfg *config.Config, out, errOut io.Writer, logger *slog.Logger) error {
	var store *database.Store
	if !cfg.NoSave {
		var err error
		store, err = openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	tables, err := loadTables(cfg)
	if err != nil {
		return err
	}
	engine := newEngine(cfg, tables, newFetcher(cfg, logger), store, logger)

	dst, closeOutput, err := createOutput(cfg, out)
	if err != nil {
		return err
	}
	defer closeOutput()
	writer := newReportWriter(cfg, dst)
	if cfg.ReportFile != "" {
		// The terminal still gets the plain summary.
		writer = report.NewMultiWriter(writer, report.NewSimpleWriter(out))
	}

	started := time.Now()
	var (
		mu     sync.Mutex
		failed int
	)
	handle := func(res pipeline.BatchResult, _ int) {
		mu.Lock()
		defer mu.Unlock()
		if res.Err != nil {
			failed++
			fmt.Fprintf(errOut, "Analysis failed for %s: %v\n", res.Domain, res.Err)
			return
		}
		if _, err := writer.Write(res.Report); err != nil {
			logger.Error("report failed", "domain", res.Domain, "error", err)
		}
	}

	if len(cfg.Targets) > 1 && cfg.BatchSize > 1 {
		bp := pipeline.NewBatchProcessor(engine,
			pipeline.WithConcurrency(cfg.BatchSize),
			pipeline.WithBatchLogger(logger),
		)
		if err := bp.ProcessBatchWithCallback(ctx, cfg.Owner, cfg.Targets, handle); err != nil {
			return err
		}
	} else {
		for i, target := range cfg.Targets {
			if err := ctx.Err(); err != nil {
				return err
			}
			rep, err := engine.AnalyzeCompetitor(ctx, target, cfg.Owner)
			handle(pipeline.BatchResult{Domain: target, Report: rep, Err: err}, i)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}

	logger.Info("analysis finished",
		"targets", len(cfg.Targets),
		"failed", failed,
		"elapsed", time.Since(started).Round(time.Millisecond),
	)
	if failed > 0 {
		return fmt.Errorf("%d of %d analyses failed", failed, len(cfg.Targets))
	}
	return nil
}

// newReportWriter selects the report format.
func newReportWriter(cfg *config.Config, w io.Writer) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(w, report.WithPrettyPrint(), report.WithVersion(getVersion()))
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(w)
	default:
		return report.NewSimpleWriter(w, report.WithVerbose(cfg.Verbose))
	}
}
