package cli

import (
	"encoding/json"
	"fmt"

	"github.com/blogi/site-search/internal/benchmark"
	"github.com/blogi/site-search/internal/loader"
	"github.com/spf13/cobra"
)

const defaultBenchQueries = 10

// NewBenchCmd creates the 'bench' command for measuring search latency.
func NewBenchCmd() *cobra.Command {
	var (
		idx         indexFlags
		iterations  int
		concurrency int
		queries     []string
		jsonOutput  bool
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark search latency against the index",
		Long: `Run queries repeatedly against the loaded index and report latency.

Without --query, queries are taken from the index itself: the first word of
each title, then tags.`,
		Example: `  site-search bench
  site-search bench --iterations 1000 --concurrency 4
  site-search bench -q kitchen -q "garden lamps" --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(cmd, &idx, queries, benchmark.Options{
				Iterations:  iterations,
				Concurrency: concurrency,
			}, jsonOutput)
		},
	}

	idx.register(cmd)
	cmd.Flags().IntVarP(&iterations, "iterations", "n", benchmark.DefaultIterations, "Runs per query")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", 1, "Queries timed in parallel")
	cmd.Flags().StringArrayVarP(&queries, "query", "q", nil, "Query to time (repeatable)")
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")

	return cmd
}

func runBench(cmd *cobra.Command, idx *indexFlags, queries []string, opts benchmark.Options, jsonOutput bool) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	setupLogging(cmd, cfg, false)

	ctx := cmdContext(cmd)
	l := loader.New(cfg.Timeout())

	loc, err := idx.location(ctx, l, cfg)
	if err != nil {
		return err
	}

	index, err := l.Load(ctx, loc)
	if err != nil {
		return err
	}

	if len(queries) == 0 {
		queries = benchmark.DefaultQueries(index, defaultBenchQueries)
	}

	result, err := benchmark.Run(ctx, index, queries, opts)
	if err != nil {
		return fmt.Errorf("benchmark failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Fprint(out, benchmark.FormatResult(result))
	return nil
}
