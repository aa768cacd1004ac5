package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/blogi/site-search/internal/loader"
	"github.com/blogi/site-search/internal/mcp"
	"github.com/blogi/site-search/internal/version"
	"github.com/spf13/cobra"
)

// NewServeCmd creates the 'serve' command for running the MCP server.
func NewServeCmd() *cobra.Command {
	var idx indexFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server (stdio transport)",
		Long: `Start the site-search MCP server using stdio transport.

This server exposes 2 tools to AI clients:
  • site_search   - Search the blog and return ranked, highlighted results
  • site_document - Return the full text of one indexed document

The index is loaded before the first request is read. Logs go to stderr.`,
		Example: `  # Run directly
  site-search serve --index https://example.com/Blogi/search.json

  # Add to an MCP client
  claude mcp add blog-search -- site-search serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, &idx)
		},
	}

	idx.register(cmd)

	return cmd
}

// runServe loads the index, then serves requests from stdin until it closes
// or a signal arrives.
func runServe(cmd *cobra.Command, idx *indexFlags) error {
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

	// Requests still get answered after a failed load; they report the error.
	if err := s.Load(ctx, loc); err != nil {
		slog.Error("failed to load index", "location", loc, "error", err)
	} else {
		slog.Info("index loaded", "location", loc, "documents", len(s.Index()))
	}

	server := mcp.NewServer(s, version.Get().Version)
	if err := server.Run(ctx, cmd.InOrStdin(), cmd.OutOrStdout()); err != nil && !errors.Is(err, ctx.Err()) {
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("shutdown complete")
	return nil
}
