package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nao1215/rivalscope/internal/config"
	"github.com/nao1215/rivalscope/internal/database"
	"github.com/nao1215/rivalscope/internal/model"
	"github.com/nao1215/rivalscope/internal/report"
	"github.com/nao1215/rivalscope/internal/site"
)

const defaultHistoryLimit = 10

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history <domain>",
		Short: "Show stored metrics of a competitor over time",
		Long: `History prints the stored metrics snapshots of a competitor, newest first,
and the change between the two most recent runs.

Examples:
  # Show the last ten runs
  rivalscope history shopfast.com

  # Show the last thirty runs as JSON, including the analyzed pages
  rivalscope history --limit 30 --json shopfast.com`,
		Args: cobra.ExactArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", defaultHistoryLimit, "Number of snapshots to show")
	cmd.Flags().BoolP("json", "j", false, "Output history in JSON format")
	return cmd
}

// historyOutput is the JSON form of the history command.
type historyOutput struct {
	Competitor model.Competitor           `json:"competitor"`
	Snapshots  []model.SeoMetricsSnapshot `json:"snapshots"`
	Delta      *report.Delta              `json:"delta,omitempty"`
	Pages      []model.ScrapedPage        `json:"pages"`
}

func runHistoryCmd(cmd *cobra.Command, args []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	return withStore(cmd, args, func(ctx context.Context, store *database.Store, cfg *config.Config) error {
		return runHistory(ctx, store, cfg, args[0], limit, cmd.OutOrStdout())
	})
}

func runHistory(ctx context.Context, store *database.Store, cfg *config.Config, target string, limit int, out io.Writer) error {
	domain, err := site.Normalize(target)
	if err != nil {
		return err
	}
	competitor, err := store.GetCompetitor(ctx, cfg.Owner, domain)
	if errors.Is(err, database.ErrNotFound) {
		return fmt.Errorf("no history for %s (run 'rivalscope analyze %s' first)", domain, domain)
	}
	if err != nil {
		return err
	}

	snapshots, err := store.ListMetrics(ctx, competitor.ID, limit)
	if err != nil {
		return err
	}

	if !cfg.JSONReport {
		report.WriteHistory(out, domain, snapshots)
		return nil
	}

	pages, err := store.ListScrapedPages(ctx, competitor.ID, limit)
	if err != nil {
		return err
	}
	output := historyOutput{Competitor: *competitor, Snapshots: snapshots, Pages: pages}
	if len(snapshots) >= 2 {
		delta := report.Compare(snapshots[0], snapshots[1])
		output.Delta = &delta
	}
	_, err = report.NewJSONWriter(out, report.WithPrettyPrint()).WriteValue(output)
	return err
}
