package search

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// ExcerptLength is the number of content characters used when a document has
// no excerpt of its own.
const ExcerptLength = 200

// Segment is a run of text that either matched a query token or did not.
type Segment struct {
	Text  string `json:"text"`
	Match bool   `json:"match,omitempty"`
}

// Highlighter marks query tokens inside arbitrary text.
//
// All tokens longer than one character are combined into a single
// case-insensitive pattern, longest first, so every region of the text is
// marked at most once even when tokens overlap.
type Highlighter struct {
	pattern *regexp.Regexp
}

// NewHighlighter compiles a highlighter for query.
func NewHighlighter(query string) *Highlighter {
	tokens := highlightTokens(query)
	if len(tokens) == 0 {
		return &Highlighter{}
	}

	quoted := make([]string, len(tokens))
	for i, token := range tokens {
		quoted[i] = regexp.QuoteMeta(token)
	}

	return &Highlighter{
		pattern: regexp.MustCompile("(?i)(?:" + strings.Join(quoted, "|") + ")"),
	}
}

// Segments splits text into matched and unmatched runs. Matched runs keep the
// original casing of text.
func (h *Highlighter) Segments(text string) []Segment {
	if text == "" {
		return nil
	}
	if h == nil || h.pattern == nil {
		return []Segment{{Text: text}}
	}

	locs := h.pattern.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return []Segment{{Text: text}}
	}

	segments := make([]Segment, 0, len(locs)*2+1)
	last := 0
	for _, loc := range locs {
		if loc[0] > last {
			segments = append(segments, Segment{Text: text[last:loc[0]]})
		}
		segments = append(segments, Segment{Text: text[loc[0]:loc[1]], Match: true})
		last = loc[1]
	}
	if last < len(text) {
		segments = append(segments, Segment{Text: text[last:]})
	}

	return segments
}

// Highlight splits text into segments for query.
func Highlight(text, query string) []Segment {
	return NewHighlighter(query).Segments(text)
}

// HighlightString wraps every match of query in text with open and close.
func HighlightString(text, query, open, close string) string {
	var b strings.Builder
	for _, seg := range Highlight(text, query) {
		if seg.Match {
			b.WriteString(open)
			b.WriteString(seg.Text)
			b.WriteString(close)
			continue
		}
		b.WriteString(seg.Text)
	}
	return b.String()
}

// highlightTokens returns the distinct lowercase tokens of query longer than
// one character, longest first.
func highlightTokens(query string) []string {
	seen := make(map[string]bool)
	var tokens []string
	for _, token := range Tokenize(query) {
		if utf8.RuneCountInString(token) <= 1 || seen[token] {
			continue
		}
		seen[token] = true
		tokens = append(tokens, token)
	}

	sort.SliceStable(tokens, func(i, j int) bool {
		return len(tokens[i]) > len(tokens[j])
	})
	return tokens
}

// Excerpt returns the document excerpt, or the first ExcerptLength characters
// of its content followed by "...". Documents with neither yield "".
func Excerpt(doc Document) string {
	if doc.Excerpt != "" {
		return doc.Excerpt
	}
	if doc.Content == "" {
		return ""
	}

	runes := []rune(doc.Content)
	if len(runes) > ExcerptLength {
		runes = runes[:ExcerptLength]
	}
	return string(runes) + "..."
}
