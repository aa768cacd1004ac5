package search

import (
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
)

// DefaultSuggestionLimit is the number of titles Suggest returns by default.
const DefaultSuggestionLimit = 3

// Suggester offers "did you mean" titles for queries that scored nothing.
// It keeps a fuzzy-matching Bleve index over titles, tags and categories.
type Suggester struct {
	bleveIndex bleve.Index
	mu         sync.RWMutex
}

// NewSuggester builds an in-memory suggester over docs.
func NewSuggester(docs Index) (*Suggester, error) {
	index, err := bleve.NewMemOnly(buildSuggestMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create bleve index: %w", err)
	}

	batch := index.NewBatch()
	for i, doc := range docs {
		fields := map[string]interface{}{
			"title":      doc.Title,
			"tags":       doc.Tags,
			"categories": doc.Categories,
		}
		// Position in the index doubles as the document ID.
		if err := batch.Index(strconv.Itoa(i), fields); err != nil {
			slog.Warn("failed to index document for suggestions", "url", doc.URL, "error", err)
		}
	}

	if err := index.Batch(batch); err != nil {
		index.Close()
		return nil, fmt.Errorf("failed to batch index documents: %w", err)
	}

	return &Suggester{bleveIndex: index}, nil
}

// buildSuggestMapping creates the Bleve mapping: title is stored for display,
// tags and categories only widen what a query can hit.
func buildSuggestMapping() mapping.IndexMapping {
	docMapping := bleve.NewDocumentMapping()

	titleMapping := bleve.NewTextFieldMapping()
	docMapping.AddFieldMappingsAt("title", titleMapping)

	tagsMapping := bleve.NewTextFieldMapping()
	tagsMapping.Store = false
	docMapping.AddFieldMappingsAt("tags", tagsMapping)

	categoriesMapping := bleve.NewTextFieldMapping()
	categoriesMapping.Store = false
	docMapping.AddFieldMappingsAt("categories", categoriesMapping)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}

// Suggest returns up to limit distinct titles that fuzzily match query.
func (s *Suggester) Suggest(query string, limit int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.bleveIndex == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}

	matchQuery := bleve.NewMatchQuery(query)
	matchQuery.SetFuzziness(1)

	searchRequest := bleve.NewSearchRequestOptions(matchQuery, limit*2, 0, false)
	searchRequest.Fields = []string{"title"}

	results, err := s.bleveIndex.Search(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("bleve search failed: %w", err)
	}

	seen := make(map[string]bool)
	titles := make([]string, 0, limit)
	for _, hit := range results.Hits {
		title, _ := hit.Fields["title"].(string)
		if title == "" || seen[title] {
			continue
		}
		seen[title] = true
		titles = append(titles, title)
		if len(titles) == limit {
			break
		}
	}

	return titles, nil
}

// Count returns the number of documents in the suggester.
func (s *Suggester) Count() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.bleveIndex == nil {
		return 0, nil
	}

	docCount, err := s.bleveIndex.DocCount()
	if err != nil {
		return 0, fmt.Errorf("failed to get doc count: %w", err)
	}

	return docCount, nil
}

// Close releases the underlying index.
func (s *Suggester) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.bleveIndex != nil {
		err := s.bleveIndex.Close()
		s.bleveIndex = nil
		return err
	}

	return nil
}
