/*
Package render turns search outcomes into views and draws them.

A View is a plain value describing what the results container should show:
the prompt, a loading or error notice, the no-results help, or the list of
scored results. Renderers draw a View as HTML, styled terminal text or plain
text. Building a View never fails; drawing one only fails on write errors.
*/
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/blogi/site-search/internal/search"
)

// State identifies what a View shows.
type State int

const (
	Prompt State = iota
	Loading
	Error
	NoResults
	Results
)

func (s State) String() string {
	switch s {
	case Prompt:
		return "prompt"
	case Loading:
		return "loading"
	case Error:
		return "error"
	case NoResults:
		return "no_results"
	case Results:
		return "results"
	default:
		return "unknown"
	}
}

// Fixed user-facing messages.
const (
	PromptMessage    = "Enter your search terms above to find content on this site."
	LoadingMessage   = "Search index is still loading. Please wait a moment and try again."
	ErrorMessage     = "Error loading search data. Please try again later."
	NoResultsHint    = "Try different keywords or check your spelling."
	SuggestionsLabel = "Search suggestions:"
	DidYouMeanLabel  = "Did you mean:"
)

// StaticSuggestions are listed under every no-results view.
var StaticSuggestions = []string{
	"Use fewer keywords",
	"Check spelling",
	"Try related terms",
	"Search for specific categories or tags",
}

// MaxTags is how many tags a result item shows.
const MaxTags = 3

// Item is one result prepared for display.
type Item struct {
	URL        string           `json:"url"`
	Title      []search.Segment `json:"title"`
	Excerpt    []search.Segment `json:"excerpt"`
	Date       string           `json:"date,omitempty"`
	Type       string           `json:"type"`
	Categories string           `json:"categories,omitempty"`
	Tags       string           `json:"tags,omitempty"`
	Score      int              `json:"score"`
}

// View is the content of the results container.
type View struct {
	State State
	Query string
	// Total is the number of matching documents. Items may be cut shorter.
	Total      int
	Items      []Item
	Results    []search.ScoredResult
	DidYouMean []string
}

// Renderer draws a View.
type Renderer interface {
	Render(w io.Writer, v View) error
}

// PromptView asks the user to type a query.
func PromptView() View { return View{State: Prompt} }

// LoadingView reports that the index is not available yet.
func LoadingView(query string) View { return View{State: Loading, Query: query} }

// ErrorView reports that the index failed to load.
func ErrorView(query string) View { return View{State: Error, Query: query} }

// ResultsView builds a Results view, or a NoResults view when results is
// empty. query should already be trimmed.
func ResultsView(query string, results []search.ScoredResult, didYouMean []string) View {
	if len(results) == 0 {
		return View{State: NoResults, Query: query, DidYouMean: didYouMean}
	}

	h := search.NewHighlighter(query)
	items := make([]Item, len(results))
	for i, r := range results {
		items[i] = NewItem(r, h)
	}

	return View{State: Results, Query: query, Total: len(results), Items: items, Results: results}
}

// NewItem prepares a scored result for display using h for highlighting.
func NewItem(r search.ScoredResult, h *search.Highlighter) Item {
	tags := r.Tags
	if len(tags) > MaxTags {
		tags = tags[:MaxTags]
	}

	return Item{
		URL:        r.Path(),
		Title:      h.Segments(r.Title),
		Excerpt:    h.Segments(search.Excerpt(r.Document)),
		Date:       r.Date,
		Type:       r.DisplayType(),
		Categories: strings.Join(r.Categories, ", "),
		Tags:       strings.Join(tags, ", "),
		Score:      r.Score,
	}
}

// Message returns the single-line notice for Prompt, Loading and Error views
// and the heading for NoResults and Results views.
func (v View) Message() string {
	switch v.State {
	case Prompt:
		return PromptMessage
	case Loading:
		return LoadingMessage
	case Error:
		return ErrorMessage
	case NoResults:
		return fmt.Sprintf("No results found for \"%s\"", v.Query)
	case Results:
		return ResultsHeader(v.Total, v.Query)
	default:
		return ""
	}
}

// ResultsHeader formats the results heading.
func ResultsHeader(n int, query string) string {
	noun := "results"
	if n == 1 {
		noun = "result"
	}
	return fmt.Sprintf("Found %d %s for \"%s\"", n, noun, query)
}
