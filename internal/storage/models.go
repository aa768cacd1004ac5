package storage

import "time"

// Search outcomes as stored in search_history.outcome.
const (
	OutcomeResults   = "results"
	OutcomeNoResults = "no_results"
	OutcomeLoading   = "loading"
	OutcomeError     = "error"
)

// SearchRecord is one executed search.
type SearchRecord struct {
	// SearchID is a unique identifier for this search (UUID).
	SearchID string `json:"search_id"`

	// QueryHash is the SHA256 hash of the search query.
	QueryHash string `json:"query_hash"`

	// Timestamp is when the search was performed.
	Timestamp time.Time `json:"timestamp"`

	// ResultsCount is the number of results returned.
	ResultsCount int `json:"results_count"`

	// Outcome is the view state the search produced.
	Outcome string `json:"outcome"`
}

// Stats summarizes stored searches.
type Stats struct {
	Since           time.Time      `json:"since"`
	Searches        int            `json:"searches"`
	DistinctQueries int            `json:"distinct_queries"`
	ZeroResults     int            `json:"zero_results"`
	AverageResults  float64        `json:"average_results"`
	ByOutcome       map[string]int `json:"by_outcome"`
}
