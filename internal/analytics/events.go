/*
Package analytics records searches in the background.

Events are queued without blocking the caller and flushed to storage in small
batches by a single goroutine. The query text never leaves this package: only
its hash is stored.
*/
package analytics

import (
	"time"

	"github.com/blogi/site-search/internal/render"
	"github.com/blogi/site-search/internal/storage"
	"github.com/google/uuid"
)

// SearchEvent is one executed search.
type SearchEvent struct {
	// SearchID identifies the search.
	SearchID string

	// QueryHash is the SHA256 hash of the normalized query.
	QueryHash string

	Timestamp    time.Time
	ResultsCount int

	// Outcome is the state of the view the search produced.
	Outcome string
}

// NewSearchEvent builds an event for query and the view it produced.
func NewSearchEvent(query string, v render.View) SearchEvent {
	return SearchEvent{
		SearchID:     uuid.NewString(),
		QueryHash:    storage.HashQuery(query),
		Timestamp:    time.Now(),
		ResultsCount: len(v.Items),
		Outcome:      outcome(v.State),
	}
}

func outcome(s render.State) string {
	switch s {
	case render.Results:
		return storage.OutcomeResults
	case render.NoResults:
		return storage.OutcomeNoResults
	case render.Loading:
		return storage.OutcomeLoading
	case render.Error:
		return storage.OutcomeError
	default:
		return s.String()
	}
}

// ToStorage converts the event to its storage model.
func (e SearchEvent) ToStorage() storage.SearchRecord {
	return storage.SearchRecord{
		SearchID:     e.SearchID,
		QueryHash:    e.QueryHash,
		Timestamp:    e.Timestamp,
		ResultsCount: e.ResultsCount,
		Outcome:      e.Outcome,
	}
}
