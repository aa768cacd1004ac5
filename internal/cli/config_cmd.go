package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/blogi/site-search/internal/config"
	"github.com/spf13/cobra"
)

// NewConfigCmd creates the 'config' command group.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create and inspect the configuration",
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var (
		force      bool
		fromJekyll string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with defaults",
		Long: `Write a configuration file with every default filled in.

With --from-jekyll, the site title, base URL, permalink and source directory
are read from the Jekyll site's _config.yml.`,
		Example: `  site-search config init
  site-search config init --from-jekyll ~/blog
  site-search --config ./site-search.toml config init --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigInit(cmd, force, fromJekyll)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file (a .bak copy is kept)")
	cmd.Flags().StringVar(&fromJekyll, "from-jekyll", "", "Jekyll site directory to read _config.yml from")

	return cmd
}

func runConfigInit(cmd *cobra.Command, force bool, fromJekyll string) error {
	path, _ := cmd.Flags().GetString(configFlag)
	if path == "" {
		var err error
		if path, err = config.GetDefaultConfigPath(); err != nil {
			return err
		}
	}

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
	}

	cfg := config.NewConfig()
	if fromJekyll != "" {
		site, err := config.ReadJekyllSite(fromJekyll)
		if err != nil {
			return err
		}
		config.ApplyJekyll(cfg, site, fromJekyll)
	}

	if err := config.Save(cfg, path); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote config to %s\n", path)
	return nil
}

func newConfigShowCmd() *cobra.Command {
	var asTOML bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Print the configuration after defaults, SITE_SEARCH_* environment
variables and flags are applied.`,
		Example: `  site-search config show
  SITE_SEARCH_SERVER_ADDR=:9000 site-search config show --toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd, asTOML)
		},
	}

	cmd.Flags().BoolVar(&asTOML, "toml", false, "Print as TOML instead of JSON")

	return cmd
}

func runConfigShow(cmd *cobra.Command, asTOML bool) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asTOML {
		return toml.NewEncoder(out).Encode(cfg)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(cfg)
}
