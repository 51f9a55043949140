package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/rivalscope/internal/config"
	"github.com/nao1215/rivalscope/internal/database"
	"github.com/nao1215/rivalscope/internal/report"
)

// NewSuggestionsCmd creates the suggestions command.
func NewSuggestionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggestions",
		Short: "Show the latest stored suggestions",
		Args:  cobra.NoArgs,
		RunE:  runSuggestionsCmd,
	}
	cmd.Flags().IntP("limit", "n", database.DefaultSuggestionListLimit, "Number of suggestions to show")
	return cmd
}

func runSuggestionsCmd(cmd *cobra.Command, args []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	return withStore(cmd, args, func(ctx context.Context, store *database.Store, cfg *config.Config) error {
		suggestions, err := store.ListSuggestions(ctx, cfg.Owner, "", limit)
		if err != nil {
			return err
		}
		if len(suggestions) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No suggestions yet.")
			return nil
		}
		report.WriteSuggestions(cmd.OutOrStdout(), suggestions)
		return nil
	})
}
