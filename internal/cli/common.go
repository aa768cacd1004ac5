package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/blogi/site-search/internal/analytics"
	"github.com/blogi/site-search/internal/config"
	"github.com/blogi/site-search/internal/loader"
	"github.com/blogi/site-search/internal/logger"
	"github.com/blogi/site-search/internal/render"
	"github.com/blogi/site-search/internal/session"
	"github.com/blogi/site-search/internal/storage"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

const (
	configFlag   = "config"
	logLevelFlag = "log-level"
)

var errNoIndex = errors.New("no index location: pass --index or --page, or set site.indexLocation in the config")

// loadConfig reads the config named by --config, or the default config when
// it exists, and applies environment and flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	path, _ := cmd.Flags().GetString(configFlag)

	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFrom(path)
	} else {
		path, err = config.GetDefaultConfigPath()
		if err != nil {
			return nil, "", err
		}
		cfg, err = config.LoadOrDefault(path)
	}
	if err != nil {
		return nil, path, err
	}

	if err := config.ApplyEnv(cfg); err != nil {
		return nil, path, err
	}
	if level, _ := cmd.Flags().GetString(logLevelFlag); level != "" {
		cfg.Settings.LogLevel = level
	}

	return cfg, path, nil
}

// setupLogging sends logs to stderr. Servers default to JSON, interactive
// commands to text.
func setupLogging(cmd *cobra.Command, cfg *config.Config, server bool) {
	format := cfg.Settings.LogFormat
	if format == "" {
		format = "text"
		if server {
			format = "json"
		}
	}
	logger.Init(cmd.ErrOrStderr(), cfg.Settings.LogLevel, format)
}

// indexFlags selects where the index comes from.
type indexFlags struct {
	index string
	page  string
}

func (f *indexFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.index, "index", "i", "", "Index URL or file (default from config)")
	cmd.Flags().StringVar(&f.page, "page", "", "Search page URL to discover the index from")
}

// location resolves the index location: --index, then discovery from
// --page, then the config.
func (f *indexFlags) location(ctx context.Context, l *loader.Loader, cfg *config.Config) (string, error) {
	switch {
	case f.index != "":
		return f.index, nil
	case f.page != "":
		return l.Discover(ctx, f.page, cfg.Site.IndexPath)
	case cfg.Site.IndexLocation != "":
		return cfg.Site.IndexLocation, nil
	case cfg.Site.SourceDir != "":
		return filepath.Join(cfg.Site.SourceDir, "_site", strings.TrimPrefix(cfg.Site.IndexPath, "/")), nil
	}
	return "", errNoIndex
}

// newSession builds a session configured from cfg. tracker may be nil.
func newSession(l *loader.Loader, cfg *config.Config, tracker *analytics.Tracker) *session.Session {
	opts := []session.Option{session.WithSuggestions(!cfg.Settings.DisableSuggestions)}
	if tracker != nil {
		opts = append(opts, session.WithRecorder(tracker))
	}
	return session.New(l, opts...)
}

// history owns the search history store and its tracker.
type history struct {
	store   *storage.SQLiteStorage
	tracker *analytics.Tracker
}

// openHistory opens search history unless it is disabled in cfg. Storage
// failures leave history running as a no-op.
func openHistory(cfg *config.Config) *history {
	if cfg.History.Disabled {
		return &history{}
	}
	store := openStore(cfg)
	return &history{store: store, tracker: analytics.NewTracker(store)}
}

func openStore(cfg *config.Config) *storage.SQLiteStorage {
	if cfg.History.Path != "" {
		return storage.NewStorageAt(cfg.History.Path)
	}
	return storage.NewStorage()
}

// Close flushes pending events and closes the database.
func (h *history) Close() error {
	if h.tracker != nil {
		h.tracker.Stop()
	}
	if h.store != nil {
		return h.store.Close()
	}
	return nil
}

// newRenderer styles output for terminals and falls back to plain text
// otherwise.
func newRenderer(w io.Writer, plain bool) render.Renderer {
	if f, ok := w.(*os.File); ok && !plain && isatty.IsTerminal(f.Fd()) {
		return render.NewTerminal(w)
	}
	return render.NewPlain()
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
