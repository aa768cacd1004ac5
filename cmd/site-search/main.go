/*
Package main is the entry point for the site-search CLI.

site-search is keyword search for a static blog. It loads the search.json
index the site publishes, scores queries against it and shows highlighted
results in a browser, a terminal or an MCP client.

Usage:
  site-search [command]

Available Commands:
  search      Search the index and print the results
  repl        Search interactively from the terminal
  web         Serve the search page over HTTP
  serve       Run the MCP server (stdio transport)
  index       Generate the search index
  stats       Show search history statistics
  bench       Benchmark search latency against the index
  verify      Verify configuration and index
  config      Create and inspect the configuration
  version     Show version information

Examples:
  # Build the index from a Jekyll site
  site-search index build --source ~/blog

  # Search it
  site-search search --index ~/blog/_site/search.json kitchen

  # Run as MCP server
  site-search serve --index https://example.com/Blogi/search.json
*/
package main

import (
	"fmt"
	"os"

	"github.com/blogi/site-search/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
