/*
Package benchmark measures search latency over a loaded index.

Each query is scored against the whole index Iterations times. Timings are
reported per query (min, mean, p95, max) and overall as queries per second.
Queries run concurrently up to Concurrency; each query's own runs are
sequential so their timings are not skewed by each other.
*/
package benchmark

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/blogi/site-search/internal/search"
	"golang.org/x/sync/errgroup"
)

// DefaultIterations is how many times each query runs.
const DefaultIterations = 100

// Options configures Run.
type Options struct {
	Iterations  int
	Concurrency int
}

// QueryTiming is the latency profile of one query.
type QueryTiming struct {
	Query   string        `json:"query"`
	Results int           `json:"results"`
	Runs    int           `json:"runs"`
	Min     time.Duration `json:"min"`
	Mean    time.Duration `json:"mean"`
	P95     time.Duration `json:"p95"`
	Max     time.Duration `json:"max"`
}

// Result contains the benchmark outcome.
type Result struct {
	Documents int           `json:"documents"`
	Queries   []QueryTiming `json:"queries"`
	Searches  int           `json:"searches"`
	Elapsed   time.Duration `json:"elapsed"`
	PerSecond float64       `json:"perSecond"`
}

// Run times every query against index.
func Run(ctx context.Context, index search.Index, queries []string, opts Options) (*Result, error) {
	if len(queries) == 0 {
		return nil, fmt.Errorf("no queries to benchmark")
	}
	if opts.Iterations <= 0 {
		opts.Iterations = DefaultIterations
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}

	timings := make([]QueryTiming, len(queries))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)

	start := time.Now()
	for i, q := range queries {
		g.Go(func() error {
			timing, err := timeQuery(ctx, index, q, opts.Iterations)
			if err != nil {
				return err
			}
			timings[i] = timing
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	elapsed := time.Since(start)

	searches := len(queries) * opts.Iterations
	result := &Result{
		Documents: len(index),
		Queries:   timings,
		Searches:  searches,
		Elapsed:   elapsed,
	}
	if elapsed > 0 {
		result.PerSecond = float64(searches) / elapsed.Seconds()
	}
	return result, nil
}

func timeQuery(ctx context.Context, index search.Index, query string, iterations int) (QueryTiming, error) {
	durations := make([]time.Duration, 0, iterations)
	var results int

	for i := 0; i < iterations; i++ {
		if err := ctx.Err(); err != nil {
			return QueryTiming{}, err
		}
		start := time.Now()
		results = len(search.Search(query, index))
		durations = append(durations, time.Since(start))
	}

	sort.Slice(durations, func(a, b int) bool { return durations[a] < durations[b] })

	var total time.Duration
	for _, d := range durations {
		total += d
	}

	return QueryTiming{
		Query:   query,
		Results: results,
		Runs:    iterations,
		Min:     durations[0],
		Mean:    total / time.Duration(iterations),
		P95:     durations[percentileIndex(len(durations), 95)],
		Max:     durations[len(durations)-1],
	}, nil
}

// percentileIndex returns the nearest-rank index of the pth percentile.
func percentileIndex(n, p int) int {
	idx := (n*p+99)/100 - 1
	if idx < 0 {
		return 0
	}
	if idx >= n {
		return n - 1
	}
	return idx
}

// DefaultQueries derives up to n queries from the index: the first word of
// each title, then tags. Words too short to search are skipped.
func DefaultQueries(index search.Index, n int) []string {
	seen := make(map[string]bool)
	var queries []string

	add := func(q string) {
		q = strings.ToLower(strings.TrimSpace(q))
		if len(queries) >= n || seen[q] || !search.ValidQuery(q) {
			return
		}
		seen[q] = true
		queries = append(queries, q)
	}

	for _, doc := range index {
		if fields := strings.Fields(doc.Title); len(fields) > 0 {
			add(fields[0])
		}
	}
	for _, doc := range index {
		for _, tag := range doc.Tags {
			add(tag)
		}
	}

	return queries
}

// FormatResult formats the benchmark result for display.
func FormatResult(result *Result) string {
	var sb strings.Builder

	sb.WriteString("╔══════════════════════════════════════════════════════════════╗\n")
	sb.WriteString("║                SEARCH LATENCY BENCHMARK                      ║\n")
	sb.WriteString("╠══════════════════════════════════════════════════════════════╣\n")
	sb.WriteString(fmt.Sprintf("║  Documents: %-6d  Searches: %-8d  Elapsed: %-10s   ║\n",
		result.Documents, result.Searches, result.Elapsed.Round(time.Millisecond)))
	sb.WriteString(fmt.Sprintf("║  Throughput: %-12.0f searches/s                        ║\n", result.PerSecond))
	sb.WriteString("╚══════════════════════════════════════════════════════════════╝\n\n")

	sb.WriteString(fmt.Sprintf("%-20s %7s %10s %10s %10s %10s\n", "QUERY", "RESULTS", "MIN", "MEAN", "P95", "MAX"))
	for _, q := range result.Queries {
		name := q.Query
		if len(name) > 20 {
			name = name[:17] + "..."
		}
		sb.WriteString(fmt.Sprintf("%-20s %7d %10s %10s %10s %10s\n",
			name, q.Results, round(q.Min), round(q.Mean), round(q.P95), round(q.Max)))
	}

	return sb.String()
}

func round(d time.Duration) time.Duration {
	return d.Round(time.Microsecond)
}
