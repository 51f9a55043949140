package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for rivalscope.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rivalscope",
		Short: "Competitor SEO analysis engine",
		Long: `rivalscope fetches a competitor's key pages, derives technical and content
signals, estimates backlinks, domain authority, rankings and traffic, finds
content gaps and produces prioritized recommendations.

Every run is stored so metrics can be compared over time. Competitors can be
monitored on a schedule for content and ranking changes, and the same engine
is available over HTTP with 'rivalscope serve'.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.BoolP("verbose", "v", false, "Enable verbose logging")
	flags.Bool("log-json", false, "Write logs as JSON")
	flags.StringP("config", "c", "",
		"Configuration file path (default: .rivalscope in current or home directory)")
	flags.String("owner", "", "Owner of the competitors (default: \"local\" or RIVALSCOPE_OWNER)")
	flags.String("db-driver", "", "Database driver: sqlite or postgres (default: sqlite)")
	flags.String("db-dsn", "", "Database connection string (postgres DSN or sqlite file path)")

	cmd.AddCommand(NewAnalyzeCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewCompetitorsCmd())
	cmd.AddCommand(NewKeywordsCmd())
	cmd.AddCommand(NewAlertsCmd())
	cmd.AddCommand(NewSuggestionsCmd())
	cmd.AddCommand(NewMonitorCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
