package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/blogi/site-search/internal/loader"
	"github.com/blogi/site-search/internal/render"
	"github.com/blogi/site-search/internal/web"
	"github.com/spf13/cobra"
)

// NewSearchCmd creates the 'search' command for one-shot queries.
func NewSearchCmd() *cobra.Command {
	var (
		idx        indexFlags
		limit      int
		jsonOutput bool
		plain      bool
	)

	cmd := &cobra.Command{
		Use:   "search <query>...",
		Short: "Search the index and print the results",
		Long: `Load the index, run one query and print the ranked results.

Arguments are joined with spaces into a single query.`,
		Example: `  site-search search kitchen tiles
  site-search search --index https://example.com/Blogi/search.json remodel
  site-search search --page https://example.com/Blogi/search/ remodel
  site-search search --json --limit 5 interior`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, &idx, strings.Join(args, " "), limit, jsonOutput, plain)
		},
	}

	idx.register(cmd)
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most N results (0 for all)")
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")
	cmd.Flags().BoolVar(&plain, "plain", false, "Disable colors and styling")

	return cmd
}

// runSearch loads the index, runs query and writes the view.
func runSearch(cmd *cobra.Command, idx *indexFlags, query string, limit int, jsonOutput, plain bool) error {
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

	h := openHistory(cfg)
	defer h.Close()

	s := newSession(l, cfg, h.tracker)
	defer s.Close()

	loadErr := s.Load(ctx, loc)

	view := limitView(s.Query(query), limit)

	out := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(web.NewSearchResponse(view)); err != nil {
			return fmt.Errorf("failed to encode results: %w", err)
		}
	} else {
		if err := newRenderer(out, plain).Render(out, view); err != nil {
			return fmt.Errorf("failed to render results: %w", err)
		}
		if len(view.Items) < view.Total {
			fmt.Fprintf(out, "\n(showing %d of %d)\n", len(view.Items), view.Total)
		}
	}

	return loadErr
}

// limitView keeps the first n items of v. Total is left unchanged.
func limitView(v render.View, n int) render.View {
	if n > 0 && len(v.Items) > n {
		v.Items = v.Items[:n]
		v.Results = v.Results[:n]
	}
	return v
}
