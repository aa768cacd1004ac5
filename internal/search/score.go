package search

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// MinQueryLength is the minimum trimmed query length (in characters) that
// triggers scoring. Shorter queries get the prompt instead.
const MinQueryLength = 2

// Weights are the additive points a document earns per matching rule.
type Weights struct {
	TitleContains    int // title contains the full query
	TitleExact       int // title equals the full query
	TitleToken       int // per query token found in the title
	ContentContains  int // content contains the full query
	ExcerptContains  int // excerpt contains the full query
	CategoryContains int // any category contains the full query
	TagContains      int // any tag contains the full query
	ContentToken     int // per query token found in the content
}

// DefaultWeights is the scoring table used by Search.
var DefaultWeights = Weights{
	TitleContains:    50,
	TitleExact:       100,
	TitleToken:       25,
	ContentContains:  20,
	ExcerptContains:  15,
	CategoryContains: 30,
	TagContains:      25,
	ContentToken:     5,
}

// ValidQuery reports whether the trimmed query is long enough to search.
func ValidQuery(query string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(query)) >= MinQueryLength
}

// Tokenize lowercases the query and splits it on single spaces, dropping
// empty tokens. Repeated tokens are kept.
func Tokenize(query string) []string {
	parts := strings.Split(strings.ToLower(query), " ")
	tokens := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			tokens = append(tokens, part)
		}
	}
	return tokens
}

// Search scores every document in index against query using DefaultWeights.
func Search(query string, index Index) []ScoredResult {
	return SearchWithWeights(query, index, DefaultWeights)
}

// SearchWithWeights scores every document against query and returns those
// with a positive score, highest first. Ties keep index order.
// Queries failing ValidQuery return nil without scoring.
func SearchWithWeights(query string, index Index, weights Weights) []ScoredResult {
	if !ValidQuery(query) {
		return nil
	}

	queryLower := strings.ToLower(query)
	tokens := Tokenize(query)

	results := make([]ScoredResult, 0)
	for _, doc := range index {
		score := weights.Score(doc, queryLower, tokens)
		if score <= 0 {
			continue
		}
		results = append(results, ScoredResult{Document: doc, Score: score})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return results
}

// Score computes the additive score of one document. queryLower and tokens
// must already be lowercased.
func (w Weights) Score(doc Document, queryLower string, tokens []string) int {
	score := 0
	title := strings.ToLower(doc.Title)
	content := strings.ToLower(doc.Content)
	excerpt := strings.ToLower(doc.Excerpt)

	if strings.Contains(title, queryLower) {
		score += w.TitleContains
	}
	if title == queryLower {
		score += w.TitleExact
	}
	for _, token := range tokens {
		if strings.Contains(title, token) {
			score += w.TitleToken
		}
	}

	if strings.Contains(content, queryLower) {
		score += w.ContentContains
	}
	if strings.Contains(excerpt, queryLower) {
		score += w.ExcerptContains
	}

	if anyContains(doc.Categories, queryLower) {
		score += w.CategoryContains
	}
	if anyContains(doc.Tags, queryLower) {
		score += w.TagContains
	}

	for _, token := range tokens {
		if strings.Contains(content, token) {
			score += w.ContentToken
		}
	}

	return score
}

func anyContains(values []string, queryLower string) bool {
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), queryLower) {
			return true
		}
	}
	return false
}
