package storage

import (
	"log/slog"
	"time"
)

// RecordSearch stores one search. Write failures are logged, not returned.
func (s *SQLiteStorage) RecordSearch(record SearchRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.enabled || s.db == nil {
		return nil
	}

	outcome := record.Outcome
	if outcome == "" {
		outcome = OutcomeResults
	}

	_, err := s.db.Exec(`
		INSERT INTO search_history (search_id, query_hash, timestamp, results_count, outcome)
		VALUES (?, ?, ?, ?, ?)
	`,
		record.SearchID,
		record.QueryHash,
		record.Timestamp.UTC().Format(time.RFC3339),
		record.ResultsCount,
		outcome,
	)
	if err != nil {
		slog.Warn("failed to record search", "error", err)
	}

	return nil
}

// Stats summarizes searches made at or after since. Disabled storage
// returns empty stats.
func (s *SQLiteStorage) Stats(since time.Time) (Stats, error) {
	stats := Stats{Since: since, ByOutcome: map[string]int{}}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.enabled || s.db == nil {
		return stats, nil
	}

	cutoff := since.UTC().Format(time.RFC3339)

	var avg float64
	err := s.db.QueryRow(`
		SELECT COUNT(*),
		       COUNT(DISTINCT query_hash),
		       COALESCE(SUM(CASE WHEN results_count = 0 THEN 1 ELSE 0 END), 0),
		       COALESCE(AVG(results_count), 0)
		FROM search_history
		WHERE timestamp >= ?
	`, cutoff).Scan(&stats.Searches, &stats.DistinctQueries, &stats.ZeroResults, &avg)
	if err != nil {
		slog.Warn("failed to query search stats", "error", err)
		return stats, nil
	}
	stats.AverageResults = avg

	rows, err := s.db.Query(`
		SELECT outcome, COUNT(*)
		FROM search_history
		WHERE timestamp >= ?
		GROUP BY outcome
	`, cutoff)
	if err != nil {
		slog.Warn("failed to query search outcomes", "error", err)
		return stats, nil
	}
	defer rows.Close()

	for rows.Next() {
		var outcome string
		var count int
		if err := rows.Scan(&outcome, &count); err != nil {
			slog.Warn("failed to scan outcome row", "error", err)
			continue
		}
		stats.ByOutcome[outcome] = count
	}

	return stats, rows.Err()
}

// Cleanup removes records older than retention and reclaims space.
func (s *SQLiteStorage) Cleanup(retention time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.enabled || s.db == nil {
		return nil
	}

	cutoff := time.Now().Add(-retention).UTC().Format(time.RFC3339)

	if _, err := s.db.Exec("DELETE FROM search_history WHERE timestamp < ?", cutoff); err != nil {
		slog.Warn("failed to cleanup search_history", "error", err)
	}

	if _, err := s.db.Exec("VACUUM"); err != nil {
		slog.Warn("failed to vacuum database", "error", err)
	}

	return nil
}
