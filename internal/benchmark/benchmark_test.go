package benchmark

import (
	"context"
	"strings"
	"testing"

	"github.com/blogi/site-search/internal/search"
)

func testIndex() search.Index {
	return search.Index{
		{Title: "Modern Kitchen", Content: "kitchen ideas", Tags: []string{"interior", "tiles"}},
		{Title: "Kitchen Remodel", Content: "budget kitchen", Tags: []string{"interior"}},
		{Title: "A Garden", Content: "outdoor lamps", Tags: []string{"x"}},
	}
}

func TestDefaultQueries(t *testing.T) {
	queries := DefaultQueries(testIndex(), 10)

	want := []string{"modern", "kitchen", "interior", "tiles"}
	if strings.Join(queries, ",") != strings.Join(want, ",") {
		t.Errorf("DefaultQueries = %v, want %v", queries, want)
	}

	if got := DefaultQueries(testIndex(), 2); len(got) != 2 {
		t.Errorf("expected limit of 2, got %v", got)
	}
}

func TestRun(t *testing.T) {
	result, err := Run(context.Background(), testIndex(), []string{"kitchen", "garden"}, Options{Iterations: 5, Concurrency: 2})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Documents != 3 || result.Searches != 10 {
		t.Errorf("unexpected totals: %+v", result)
	}
	if len(result.Queries) != 2 {
		t.Fatalf("expected 2 query timings, got %d", len(result.Queries))
	}

	kitchen := result.Queries[0]
	if kitchen.Query != "kitchen" || kitchen.Results != 2 || kitchen.Runs != 5 {
		t.Errorf("unexpected kitchen timing: %+v", kitchen)
	}
	if kitchen.Min > kitchen.Mean || kitchen.Mean > kitchen.Max || kitchen.P95 > kitchen.Max {
		t.Errorf("timings out of order: %+v", kitchen)
	}
	if result.Queries[1].Results != 1 {
		t.Errorf("expected 1 garden result, got %d", result.Queries[1].Results)
	}
}

func TestRunDefaults(t *testing.T) {
	result, err := Run(context.Background(), testIndex(), []string{"kitchen"}, Options{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Queries[0].Runs != DefaultIterations {
		t.Errorf("expected %d runs, got %d", DefaultIterations, result.Queries[0].Runs)
	}
}

func TestRunErrors(t *testing.T) {
	if _, err := Run(context.Background(), testIndex(), nil, Options{}); err == nil {
		t.Error("expected error without queries")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Run(ctx, testIndex(), []string{"kitchen"}, Options{Iterations: 3}); err == nil {
		t.Error("expected error for canceled context")
	}
}

func TestPercentileIndex(t *testing.T) {
	tests := []struct {
		n, p, want int
	}{
		{1, 95, 0},
		{10, 95, 9},
		{100, 95, 94},
		{20, 50, 9},
	}
	for _, tt := range tests {
		if got := percentileIndex(tt.n, tt.p); got != tt.want {
			t.Errorf("percentileIndex(%d, %d) = %d, want %d", tt.n, tt.p, got, tt.want)
		}
	}
}

func TestFormatResult(t *testing.T) {
	result, err := Run(context.Background(), testIndex(), []string{"a very long query about kitchens"}, Options{Iterations: 2})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	out := FormatResult(result)
	for _, want := range []string{"SEARCH LATENCY BENCHMARK", "Documents: 3", "QUERY", "a very long query..."} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}
