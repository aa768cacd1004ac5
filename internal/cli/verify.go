package cli

import (
	"fmt"

	"github.com/blogi/site-search/internal/loader"
	"github.com/spf13/cobra"
)

// NewVerifyCmd creates the 'verify' command for checking config and index.
func NewVerifyCmd() *cobra.Command {
	var idx indexFlags

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify configuration and index",
		Long: `Verify that the configuration is valid and that the index loads.

Documents without a title or URL and URLs indexed more than once are
reported. The command fails if any problem is found.`,
		Example: `  site-search verify
  site-search verify --index ./_site/search.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd, &idx)
		},
	}

	idx.register(cmd)

	return cmd
}

// runVerify validates the configuration and the index it points at.
func runVerify(cmd *cobra.Command, idx *indexFlags) error {
	cfg, configPath, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	setupLogging(cmd, cfg, false)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Config file: %s\n", configPath)

	ctx := cmdContext(cmd)
	l := loader.New(cfg.Timeout())

	loc, err := idx.location(ctx, l, cfg)
	if err != nil {
		fmt.Fprintf(out, "✗ Index: %s\n", err)
		return err
	}

	index, err := l.Load(ctx, loc)
	if err != nil {
		fmt.Fprintf(out, "✗ Index: %s\n", err)
		return err
	}
	fmt.Fprintf(out, "✓ Index: %s\n", loc)
	fmt.Fprintf(out, "✓ Documents: %d\n", len(index))

	problems := 0
	seen := make(map[string]int, len(index))
	for i, doc := range index {
		if doc.Title == "" {
			fmt.Fprintf(out, "✗ document %d: missing title\n", i)
			problems++
		}
		if doc.URL == "" {
			fmt.Fprintf(out, "✗ document %d: missing url\n", i)
			problems++
			continue
		}
		if first, ok := seen[doc.URL]; ok {
			fmt.Fprintf(out, "✗ document %d: url %s already used by document %d\n", i, doc.URL, first)
			problems++
			continue
		}
		seen[doc.URL] = i
	}

	if problems > 0 {
		return fmt.Errorf("found %d problems in index", problems)
	}
	return nil
}
