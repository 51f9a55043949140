package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nao1215/rivalscope/internal/config"
	"github.com/nao1215/rivalscope/internal/database"
	"github.com/nao1215/rivalscope/internal/report"
)

// NewCompetitorsCmd creates the competitors command.
func NewCompetitorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "competitors",
		Short: "List or delete tracked competitors",
		Long: `Competitors lists the owner's competitors with their latest metrics.
A competitor is added the first time it is analyzed.

Examples:
  # List competitors
  rivalscope competitors

  # Delete a competitor and all of its history
  rivalscope competitors --delete 3f1c6a2e-...`,
		Args: cobra.NoArgs,
		RunE: runCompetitorsCmd,
	}

	cmd.Flags().String("delete", "", "Delete the competitor with this ID, including its history")
	return cmd
}

func runCompetitorsCmd(cmd *cobra.Command, args []string) error {
	deleteID, err := cmd.Flags().GetString("delete")
	if err != nil {
		return err
	}
	return withStore(cmd, args, func(ctx context.Context, store *database.Store, cfg *config.Config) error {
		if deleteID != "" {
			if err := store.DeleteCompetitor(ctx, cfg.Owner, deleteID); err != nil {
				if errors.Is(err, database.ErrNotFound) {
					return fmt.Errorf("competitor %s not found", deleteID)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted competitor %s\n", deleteID)
			return nil
		}
		return listCompetitors(ctx, store, cfg.Owner, cmd.OutOrStdout())
	})
}

func listCompetitors(ctx context.Context, store *database.Store, owner string, out io.Writer) error {
	competitors, err := store.ListCompetitors(ctx, owner)
	if err != nil {
		return err
	}
	if len(competitors) == 0 {
		fmt.Fprintln(out, "No competitors yet. Run 'rivalscope analyze <domain>' to add one.")
		return nil
	}

	rows := make([]report.CompetitorRow, 0, len(competitors))
	for _, c := range competitors {
		row := report.CompetitorRow{Competitor: c}
		latest, err := store.LatestMetrics(ctx, c.ID)
		switch {
		case err == nil:
			row.Latest = latest
		case !errors.Is(err, database.ErrNotFound):
			return err
		}
		rows = append(rows, row)
	}
	report.WriteCompetitors(out, rows)
	return nil
}
