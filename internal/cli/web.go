package cli

import (
	"os/signal"
	"syscall"

	"github.com/blogi/site-search/internal/loader"
	"github.com/blogi/site-search/internal/web"
	"github.com/spf13/cobra"
)

// NewWebCmd creates the 'web' command for the browser search page.
func NewWebCmd() *cobra.Command {
	var (
		idx     indexFlags
		addr    string
		baseURL string
		title   string
	)

	cmd := &cobra.Command{
		Use:   "web",
		Short: "Serve the search page over HTTP",
		Long: `Start an HTTP server with the search page, a JSON search API and the index.

Routes:
  /search          search page, pre-filled from ?q=
  /api/search?q=   results as JSON (rate limited per client)
  <indexPath>      the loaded index
  /health          index status

The index loads in the background; searches made before it is ready
show the loading notice.`,
		Example: `  site-search web
  site-search web --addr 127.0.0.1:4000 --index ./_site/search.json
  site-search web --base-url /Blogi --title "Blogi"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWeb(cmd, &idx, addr, baseURL, title)
		},
	}

	idx.register(cmd)
	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from config, :8080)")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "Site base URL published to the page")
	cmd.Flags().StringVar(&title, "title", "", "Site title shown on the page")

	return cmd
}

// runWeb serves until SIGINT or SIGTERM.
func runWeb(cmd *cobra.Command, idx *indexFlags, addr, baseURL, title string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	setupLogging(cmd, cfg, true)

	ctx, stop := signal.NotifyContext(cmdContext(cmd), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	l := loader.New(cfg.Timeout())
	loc, err := idx.location(ctx, l, cfg)
	if err != nil {
		return err
	}

	h := openHistory(cfg)
	defer h.Close()

	s := newSession(l, cfg, h.tracker)
	defer s.Close()

	opts := web.Options{
		Addr:          firstNonEmpty(addr, cfg.Server.Addr),
		IndexLocation: loc,
		IndexPath:     cfg.Site.IndexPath,
		BaseURL:       firstNonEmpty(baseURL, cfg.Site.BaseURL),
		SiteTitle:     firstNonEmpty(title, cfg.Site.Title),
		RateLimit:     cfg.Server.RateLimit,
		Burst:         cfg.Server.Burst,
	}

	return web.New(ctx, s, opts).Run(ctx)
}
