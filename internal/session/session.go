/*
Package session owns the search state of one host.

A Session holds the index for its lifetime: it starts out loading, is written
exactly once by Load, and is read concurrently afterwards. Query never returns
an error; every outcome, including a failed load, is a render.View.
*/
package session

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/blogi/site-search/internal/render"
	"github.com/blogi/site-search/internal/search"
)

// Status is the index state of a session.
type Status int

const (
	StatusLoading Status = iota
	StatusReady
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// IndexLoader loads a search index from a location.
type IndexLoader interface {
	Load(ctx context.Context, location string) (search.Index, error)
}

// Recorder observes the outcome of every query that passed the length gate.
type Recorder interface {
	Record(query string, v render.View)
}

// Option configures a Session.
type Option func(*Session)

// WithSuggestions enables "did you mean" titles on empty result sets.
func WithSuggestions(enabled bool) Option {
	return func(s *Session) { s.suggestions = enabled }
}

// WithRecorder sets the recorder notified after each query.
func WithRecorder(r Recorder) Option {
	return func(s *Session) { s.recorder = r }
}

// WithWeights overrides the scoring weights.
func WithWeights(w search.Weights) Option {
	return func(s *Session) { s.weights = w }
}

// Session is the owned search context.
type Session struct {
	loader IndexLoader

	loadOnce sync.Once
	mu       sync.RWMutex
	status   Status
	index    search.Index
	byURL    map[string]int
	err      error

	suggestions bool
	suggester   *search.Suggester
	recorder    Recorder
	weights     search.Weights
}

// New creates a session in the loading state.
func New(loader IndexLoader, opts ...Option) *Session {
	s := &Session{
		loader:      loader,
		status:      StatusLoading,
		suggestions: true,
		weights:     search.DefaultWeights,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load fetches the index. Only the first call does any work; later calls
// return the outcome of the first.
func (s *Session) Load(ctx context.Context, location string) error {
	s.loadOnce.Do(func() {
		index, err := s.loader.Load(ctx, location)
		if err != nil {
			slog.Error("failed to load search index", "location", location, "error", err)
			s.mu.Lock()
			s.status = StatusFailed
			s.err = err
			s.mu.Unlock()
			return
		}
		s.publish(index)
	})

	return s.Err()
}

// SetIndex publishes an already loaded index, as Load would.
func (s *Session) SetIndex(index search.Index) {
	s.loadOnce.Do(func() { s.publish(index) })
}

func (s *Session) publish(index search.Index) {
	byURL := make(map[string]int, len(index))
	for i, doc := range index {
		if _, ok := byURL[doc.Path()]; !ok {
			byURL[doc.Path()] = i
		}
	}

	var suggester *search.Suggester
	if s.suggestions && len(index) > 0 {
		var err error
		suggester, err = search.NewSuggester(index)
		if err != nil {
			slog.Warn("suggestions disabled", "error", err)
			suggester = nil
		}
	}

	s.mu.Lock()
	s.index = index
	s.byURL = byURL
	s.suggester = suggester
	s.status = StatusReady
	s.mu.Unlock()

	slog.Info("search index ready", "documents", len(index))
}

// Status returns the current index state.
func (s *Session) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Err returns the load error, if the load failed.
func (s *Session) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Index returns the loaded index. It is nil until the load completes.
func (s *Session) Index() search.Index {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index
}

// Document looks up a document by URL. A missing leading slash is ignored.
func (s *Session) Document(url string) (search.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.byURL[search.Document{URL: url}.Path()]
	if !ok {
		return search.Document{}, false
	}
	return s.index[i], true
}

// Query runs a search and returns the view to display.
func (s *Session) Query(q string) render.View {
	q = strings.TrimSpace(q)
	if !search.ValidQuery(q) {
		return render.PromptView()
	}

	s.mu.RLock()
	status, index, suggester, weights := s.status, s.index, s.suggester, s.weights
	s.mu.RUnlock()

	var view render.View
	switch {
	case status == StatusFailed:
		view = render.ErrorView(q)
	case len(index) == 0:
		view = render.LoadingView(q)
	default:
		results := search.SearchWithWeights(q, index, weights)
		var didYouMean []string
		if len(results) == 0 && suggester != nil {
			titles, err := suggester.Suggest(q, search.DefaultSuggestionLimit)
			if err != nil {
				slog.Warn("suggestion lookup failed", "error", err)
			}
			didYouMean = titles
		}
		view = render.ResultsView(q, results, didYouMean)
	}

	if s.recorder != nil {
		s.recorder.Record(q, view)
	}

	return view
}

// Close releases the suggester.
func (s *Session) Close() error {
	s.mu.Lock()
	suggester := s.suggester
	s.suggester = nil
	s.mu.Unlock()

	if suggester != nil {
		return suggester.Close()
	}
	return nil
}
