/*
Package web serves the search engine over HTTP.

Routes:

	GET /health          index state
	GET /search?q=       search page with the rendered results container
	GET /api/search?q=   the same view as JSON (rate limited per client IP)
	GET <index path>     the loaded index, cacheable for an hour

The index loads in the background when Run starts, so early requests see the
loading view rather than blocking.
*/
package web

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/blogi/site-search/internal/loader"
	"github.com/blogi/site-search/internal/render"
	"github.com/blogi/site-search/internal/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Defaults for Options.
const (
	DefaultAddr      = ":8080"
	DefaultRateLimit = 10
	DefaultBurst     = 20
	shutdownTimeout  = 10 * time.Second
)

// IndexCacheControl is sent with the index resource.
const IndexCacheControl = "public, max-age=3600"

// Options configures a Server.
type Options struct {
	Addr string
	// IndexLocation is where the session loads the index from.
	IndexLocation string
	// IndexPath is the route the loaded index is served on.
	IndexPath string
	// BaseURL is published in the page's base-url meta tag.
	BaseURL   string
	SiteTitle string
	// RateLimit is requests per second per client on /api/search.
	RateLimit float64
	Burst     int
}

func (o Options) withDefaults() Options {
	if o.Addr == "" {
		o.Addr = DefaultAddr
	}
	if o.IndexPath == "" {
		o.IndexPath = loader.DefaultIndexPath
	}
	if o.RateLimit <= 0 {
		o.RateLimit = DefaultRateLimit
	}
	if o.Burst <= 0 {
		o.Burst = DefaultBurst
	}
	if o.SiteTitle == "" {
		o.SiteTitle = "Search"
	}
	return o
}

// Server is the HTTP host for a Session.
type Server struct {
	echo    *echo.Echo
	session *session.Session
	opts    Options
	page    *template.Template
	limiter *RateLimiter
}

// New builds a server and registers its routes. ctx bounds background
// housekeeping such as rate limiter cleanup.
func New(ctx context.Context, s *session.Session, opts Options) *Server {
	opts = opts.withDefaults()

	srv := &Server{
		echo:    echo.New(),
		session: s,
		opts:    opts,
		page:    newPageTemplate(render.NewHTML()),
		limiter: NewRateLimiter(ctx, rate.Limit(opts.RateLimit), opts.Burst),
	}
	srv.echo.HideBanner = true
	srv.echo.HidePort = true

	srv.echo.Use(securityHeaders())
	srv.echo.Use(requestLogger())
	srv.echo.Use(middleware.Recover())

	srv.echo.GET("/health", srv.handleHealth)
	srv.echo.GET("/search", srv.handlePage)
	srv.echo.GET("/search/", srv.handlePage)
	srv.echo.GET("/api/search", srv.handleAPISearch, srv.limiter.Middleware())
	srv.echo.GET(opts.IndexPath, srv.handleIndex)

	return srv
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run loads the index in the background and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		// Load failures are reported through the session's views.
		_ = s.session.Load(gCtx, s.opts.IndexLocation)
		return nil
	})

	g.Go(func() error {
		slog.Info("starting search server", "address", s.opts.Addr, "index", s.opts.IndexLocation)
		if err := s.echo.Start(s.opts.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		slog.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.echo.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	slog.Info("server exited properly")
	return nil
}
