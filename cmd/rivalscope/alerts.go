package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/rivalscope/internal/config"
	"github.com/nao1215/rivalscope/internal/database"
	"github.com/nao1215/rivalscope/internal/report"
)

const defaultAlertLimit = 20

// NewAlertsCmd creates the alerts command.
func NewAlertsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "List alerts or mark one as read",
		Long: `Alerts lists notifications raised by analyses and monitoring passes, newest
first. Unread alerts are marked with '*'.

Examples:
  rivalscope alerts
  rivalscope alerts --unread
  rivalscope alerts --read 0c7e...`,
		Args: cobra.NoArgs,
		RunE: runAlertsCmd,
	}

	cmd.Flags().BoolP("unread", "u", false, "Only list unread alerts")
	cmd.Flags().IntP("limit", "n", defaultAlertLimit, "Maximum number of alerts to list")
	cmd.Flags().String("read", "", "Mark the alert with this ID as read")
	return cmd
}

func runAlertsCmd(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	unread, err := flags.GetBool("unread")
	if err != nil {
		return err
	}
	limit, err := flags.GetInt("limit")
	if err != nil {
		return err
	}
	readID, err := flags.GetString("read")
	if err != nil {
		return err
	}

	return withStore(cmd, args, func(ctx context.Context, store *database.Store, cfg *config.Config) error {
		out := cmd.OutOrStdout()
		if readID != "" {
			if err := store.MarkAlertRead(ctx, cfg.Owner, readID); err != nil {
				if errors.Is(err, database.ErrNotFound) {
					return fmt.Errorf("alert %s not found", readID)
				}
				return err
			}
			fmt.Fprintf(out, "Marked alert %s as read\n", readID)
			return nil
		}

		alerts, err := store.ListAlerts(ctx, cfg.Owner, unread, limit)
		if err != nil {
			return err
		}
		if len(alerts) == 0 {
			fmt.Fprintln(out, "No alerts.")
			return nil
		}
		report.WriteAlerts(out, alerts)
		return nil
	})
}
