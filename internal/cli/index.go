package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/blogi/site-search/internal/config"
	"github.com/blogi/site-search/internal/indexgen"
	"github.com/spf13/cobra"
)

// NewIndexCmd creates the 'index' command group.
func NewIndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Generate the search index",
	}

	cmd.AddCommand(newIndexBuildCmd())

	return cmd
}

type indexBuildOptions struct {
	source    string
	output    string
	permalink string
	pages     bool
	future    bool
	pretty    bool
}

func newIndexBuildCmd() *cobra.Command {
	var opts indexBuildOptions

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build search.json from a Jekyll source tree",
		Long: `Read the posts in <source>/_posts and write the search index.

Front matter supplies title, date, categories, tags and excerpt. Posts with
"published: false" or "search: false" are left out, as are posts dated in the
future unless --future is given. Settings from <source>/_config.yml fill in
the title, base URL and permalink when the config does not set them.`,
		Example: `  site-search index build
  site-search index build --source ~/blog --pages
  site-search index build --output ./_site/search.json --pretty`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndexBuild(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.source, "source", "s", "", "Jekyll source directory (default from config, or .)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output file (default <source>/_site/<indexPath>)")
	cmd.Flags().StringVar(&opts.permalink, "permalink", "", "Post URL pattern (default from config or _config.yml)")
	cmd.Flags().BoolVar(&opts.pages, "pages", false, "Also index top-level pages")
	cmd.Flags().BoolVar(&opts.future, "future", false, "Include posts dated in the future")
	cmd.Flags().BoolVar(&opts.pretty, "pretty", false, "Indent the JSON output")

	return cmd
}

func runIndexBuild(cmd *cobra.Command, opts indexBuildOptions) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	setupLogging(cmd, cfg, false)

	source := firstNonEmpty(opts.source, cfg.Site.SourceDir, ".")

	site, err := config.ReadJekyllSite(source)
	switch {
	case err == nil:
		config.ApplyJekyll(cfg, site, source)
	case errors.Is(err, fs.ErrNotExist):
		slog.Debug("no _config.yml found", "source", source)
	default:
		return err
	}

	output := opts.output
	if output == "" {
		output = filepath.Join(source, "_site", strings.TrimPrefix(cfg.Site.IndexPath, "/"))
	}

	start := time.Now()
	index, err := indexgen.Build(cmdContext(cmd), indexgen.Options{
		SourceDir:    source,
		Permalink:    firstNonEmpty(opts.permalink, cfg.Site.Permalink),
		IncludePages: opts.pages,
		Future:       opts.future,
	})
	if err != nil {
		return fmt.Errorf("failed to build index: %w", err)
	}

	if err := indexgen.Write(output, index, opts.pretty); err != nil {
		return fmt.Errorf("failed to write index: %w", err)
	}

	slog.Debug("index built", "documents", len(index), "elapsed", time.Since(start))
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Indexed %d documents to %s\n", len(index), output)

	return nil
}
