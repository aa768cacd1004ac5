/*
Package cli implements the site-search commands.

Every command loads the same configuration (~/.site-search.json unless
--config is given, then SITE_SEARCH_* overrides) and builds its hosts from
it. Commands write results to the command's output stream and logs to
stderr so they can be piped.
*/
package cli

import (
	"github.com/blogi/site-search/internal/version"
	"github.com/spf13/cobra"
)

// NewRootCmd builds the site-search command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "site-search",
		Short: "Keyword search for a static blog",
		Long: `site-search scores a blog's search.json index against keyword queries
and presents the results in a browser, a terminal, or to AI clients over MCP.

Results are ranked by fixed weights over title, content, excerpt, categories
and tags, highlighted, and shown newest-index-order first on ties.`,
		Version:       version.GetVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String(configFlag, "", "Config file (default ~/.site-search.json, .toml for TOML)")
	root.PersistentFlags().String(logLevelFlag, "", "Log level: debug, info, warn, error")

	root.AddCommand(NewSearchCmd())
	root.AddCommand(NewReplCmd())
	root.AddCommand(NewWebCmd())
	root.AddCommand(NewServeCmd())
	root.AddCommand(NewIndexCmd())
	root.AddCommand(NewStatsCmd())
	root.AddCommand(NewBenchCmd())
	root.AddCommand(NewVerifyCmd())
	root.AddCommand(NewConfigCmd())
	root.AddCommand(NewVersionCmd())

	return root
}
