package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/rivalscope/internal/config"
	"github.com/nao1215/rivalscope/internal/database"
	"github.com/nao1215/rivalscope/internal/model"
	"github.com/nao1215/rivalscope/internal/report"
)

// NewKeywordsCmd creates the keywords command and its subcommands.
func NewKeywordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keywords",
		Short: "Manage keywords tracked across all competitors",
		Long: `Keywords manages the search terms whose positions 'rivalscope monitor' records
for every competitor. A ranking alert is raised the first time a position is
seen and whenever it changes.

Examples:
  rivalscope keywords add "running shoes" "trail shoes"
  rivalscope keywords list
  rivalscope keywords delete 9b2d...`,
	}

	add := &cobra.Command{
		Use:   "add <keyword>...",
		Short: "Track one or more keywords",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runKeywordsAddCmd,
	}
	add.Flags().String("engine", model.DefaultSearchEngine, "Search engine the keyword is tracked on")

	list := &cobra.Command{
		Use:   "list",
		Short: "List tracked keywords",
		Args:  cobra.NoArgs,
		RunE:  runKeywordsListCmd,
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Stop tracking a keyword and drop its rankings",
		Args:  cobra.ExactArgs(1),
		RunE:  runKeywordsDeleteCmd,
	}

	cmd.AddCommand(add, list, del)
	return cmd
}

func runKeywordsAddCmd(cmd *cobra.Command, args []string) error {
	engine, err := cmd.Flags().GetString("engine")
	if err != nil {
		return err
	}
	return withStore(cmd, nil, func(ctx context.Context, store *database.Store, cfg *config.Config) error {
		for _, kw := range args {
			k, err := store.AddKeyword(ctx, cfg.Owner, kw, engine, time.Now().UTC())
			if err != nil {
				return fmt.Errorf("failed to add keyword %q: %w", kw, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Tracking %q on %s (%s)\n", k.Keyword, k.SearchEngine, k.ID)
		}
		return nil
	})
}

func runKeywordsListCmd(cmd *cobra.Command, args []string) error {
	return withStore(cmd, args, func(ctx context.Context, store *database.Store, cfg *config.Config) error {
		keywords, err := store.ListKeywords(ctx, cfg.Owner)
		if err != nil {
			return err
		}
		if len(keywords) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No tracked keywords. Add one with 'rivalscope keywords add <keyword>'.")
			return nil
		}
		report.WriteKeywords(cmd.OutOrStdout(), keywords)
		return nil
	})
}

func runKeywordsDeleteCmd(cmd *cobra.Command, args []string) error {
	id := args[0]
	return withStore(cmd, nil, func(ctx context.Context, store *database.Store, cfg *config.Config) error {
		if err := store.DeleteKeyword(ctx, cfg.Owner, id); err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return fmt.Errorf("keyword %s not found", id)
			}
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted keyword %s\n", id)
		return nil
	})
}
