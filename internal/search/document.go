/*
Package search implements keyword search over a site's static document index.

The index is a small JSON array generated at build time (one entry per post or
page). Queries are scored with fixed additive weights over title, content,
excerpt, categories and tags, and highlighted for display. Scoring is a pure
function of the query and the index; rendering lives in package render.
*/
package search

import "strings"

// DefaultType is the document type shown when a document does not carry one.
const DefaultType = "post"

// Document represents one indexed content page as found in search.json.
type Document struct {
	Title      string   `json:"title"`
	Content    string   `json:"content,omitempty"`
	Excerpt    string   `json:"excerpt,omitempty"`
	URL        string   `json:"url"`
	Date       string   `json:"date,omitempty"`
	Type       string   `json:"type,omitempty"`
	Categories []string `json:"categories,omitempty"`
	Tags       []string `json:"tags,omitempty"`
}

// DisplayType returns the document type, falling back to DefaultType.
func (d Document) DisplayType() string {
	if d.Type == "" {
		return DefaultType
	}
	return d.Type
}

// Path returns the document URL with a guaranteed leading slash.
func (d Document) Path() string {
	if strings.HasPrefix(d.URL, "/") {
		return d.URL
	}
	return "/" + d.URL
}

// Index is the ordered collection of documents loaded from the index resource.
// Once loaded it is never mutated.
type Index []Document

// ScoredResult is a document annotated with its relevance score for one query.
type ScoredResult struct {
	Document
	Score int `json:"score"`
}
