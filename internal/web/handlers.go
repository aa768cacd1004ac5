package web

import (
	"net/http"
	"strings"

	"github.com/blogi/site-search/internal/render"
	"github.com/blogi/site-search/internal/session"
	"github.com/labstack/echo/v4"
)

type healthResponse struct {
	Status    string `json:"status"`
	Index     string `json:"index"`
	Documents int    `json:"documents"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, healthResponse{
		Status:    "healthy",
		Index:     s.session.Status().String(),
		Documents: len(s.session.Index()),
	})
}

// pageData feeds the page template.
type pageData struct {
	Title   string
	BaseURL string
	Query   string
	View    render.View
}

func (s *Server) handlePage(c echo.Context) error {
	q := c.QueryParam("q")

	view := render.PromptView()
	if strings.TrimSpace(q) != "" {
		view = s.session.Query(q)
	}

	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(http.StatusOK)
	return s.page.ExecuteTemplate(c.Response(), "page", pageData{
		Title:   s.opts.SiteTitle,
		BaseURL: s.opts.BaseURL,
		Query:   q,
		View:    view,
	})
}

// SearchResponse is the body of /api/search.
type SearchResponse struct {
	Query       string        `json:"query"`
	State       string        `json:"state"`
	Message     string        `json:"message"`
	Total       int           `json:"total"`
	Results     []render.Item `json:"results"`
	Suggestions []string      `json:"suggestions,omitempty"`
}

// NewSearchResponse converts a view into its JSON form.
func NewSearchResponse(v render.View) SearchResponse {
	items := v.Items
	if items == nil {
		items = []render.Item{}
	}
	return SearchResponse{
		Query:       v.Query,
		State:       v.State.String(),
		Message:     v.Message(),
		Total:       v.Total,
		Results:     items,
		Suggestions: v.DidYouMean,
	}
}

func (s *Server) handleAPISearch(c echo.Context) error {
	view := s.session.Query(c.QueryParam("q"))
	c.Response().Header().Set("Cache-Control", "no-store")
	return c.JSON(http.StatusOK, NewSearchResponse(view))
}

func (s *Server) handleIndex(c echo.Context) error {
	switch s.session.Status() {
	case session.StatusReady:
		c.Response().Header().Set("Cache-Control", IndexCacheControl)
		return c.JSON(http.StatusOK, s.session.Index())
	case session.StatusFailed:
		return echo.NewHTTPError(http.StatusServiceUnavailable, render.ErrorMessage)
	default:
		c.Response().Header().Set("Retry-After", "1")
		return echo.NewHTTPError(http.StatusServiceUnavailable, render.LoadingMessage)
	}
}
