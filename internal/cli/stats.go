package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/blogi/site-search/internal/storage"
	"github.com/spf13/cobra"
)

// NewStatsCmd creates the 'stats' command for search history.
func NewStatsCmd() *cobra.Command {
	var (
		days       int
		jsonOutput bool
		cleanup    bool
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show search history statistics",
		Long: `Summarize searches recorded by the search, repl, web and serve commands.

Queries are stored as SHA256 hashes, so only counts are shown. --cleanup
first removes records older than history.retentionDays.`,
		Example: `  site-search stats
  site-search stats --days 7
  site-search stats --cleanup --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd, days, jsonOutput, cleanup)
		},
	}

	cmd.Flags().IntVarP(&days, "days", "d", 30, "Summarize the last N days")
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")
	cmd.Flags().BoolVar(&cleanup, "cleanup", false, "Delete records older than the retention period first")

	return cmd
}

func runStats(cmd *cobra.Command, days int, jsonOutput, cleanup bool) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	setupLogging(cmd, cfg, false)

	out := cmd.OutOrStdout()
	if cfg.History.Disabled {
		fmt.Fprintln(out, "Search history is disabled.")
		fmt.Fprintln(out, "Set history.disabled to false in the config to record searches.")
		return nil
	}
	if days <= 0 {
		return fmt.Errorf("--days must be positive, got %d", days)
	}

	store := openStore(cfg)
	if err := store.Init(); err != nil {
		return fmt.Errorf("search history unavailable: %w", err)
	}
	defer store.Close()

	if cleanup {
		if err := store.Cleanup(cfg.Retention()); err != nil {
			return fmt.Errorf("failed to clean up history: %w", err)
		}
	}

	stats, err := store.Stats(time.Now().AddDate(0, 0, -days))
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	printStats(out, stats, days)
	return nil
}

func printStats(w io.Writer, stats storage.Stats, days int) {
	fmt.Fprintf(w, "Search history, last %d days (since %s):\n\n", days, stats.Since.Format("2006-01-02"))
	fmt.Fprintf(w, "  Searches:         %d\n", stats.Searches)
	fmt.Fprintf(w, "  Distinct queries: %d\n", stats.DistinctQueries)
	fmt.Fprintf(w, "  Zero results:     %d\n", stats.ZeroResults)
	fmt.Fprintf(w, "  Average results:  %.1f\n", stats.AverageResults)

	if len(stats.ByOutcome) == 0 {
		return
	}

	outcomes := make([]string, 0, len(stats.ByOutcome))
	for o := range stats.ByOutcome {
		outcomes = append(outcomes, o)
	}
	sort.Strings(outcomes)

	fmt.Fprintln(w, "\n  By outcome:")
	for _, o := range outcomes {
		fmt.Fprintf(w, "    %-12s %d\n", o, stats.ByOutcome[o])
	}
}
