package search

import (
	"reflect"
	"strings"
	"testing"
)

func TestHighlightString(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		query string
		want  string
	}{
		{
			name:  "preserves original casing",
			text:  "Design Tips for Home",
			query: "design tips",
			want:  "<mark>Design</mark> <mark>Tips</mark> for Home",
		},
		{
			name:  "every occurrence",
			text:  "kitchen, Kitchen, KITCHEN",
			query: "kitchen",
			want:  "<mark>kitchen</mark>, <mark>Kitchen</mark>, <mark>KITCHEN</mark>",
		},
		{
			name:  "single character tokens ignored",
			text:  "a kitchen",
			query: "a kitchen",
			want:  "a <mark>kitchen</mark>",
		},
		{
			name:  "overlapping tokens marked once",
			text:  "Designer designs",
			query: "des design",
			want:  "<mark>Design</mark>er <mark>design</mark>s",
		},
		{
			name:  "regex metacharacters are literal",
			text:  "C++ (basics)",
			query: "c++ (basics)",
			want:  "<mark>C++</mark> <mark>(basics)</mark>",
		},
		{
			name:  "no match",
			text:  "Garden",
			query: "kitchen",
			want:  "Garden",
		},
		{
			name:  "empty query",
			text:  "Garden",
			query: "",
			want:  "Garden",
		},
		{
			name:  "empty text",
			text:  "",
			query: "kitchen",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HighlightString(tt.text, tt.query, "<mark>", "</mark>")
			if got != tt.want {
				t.Errorf("HighlightString(%q, %q) = %q, want %q", tt.text, tt.query, got, tt.want)
			}
		})
	}
}

func TestHighlight_Segments(t *testing.T) {
	got := Highlight("Design Tips for Home", "design tips")
	want := []Segment{
		{Text: "Design", Match: true},
		{Text: " "},
		{Text: "Tips", Match: true},
		{Text: " for Home"},
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Highlight() = %+v, want %+v", got, want)
	}
}

func TestHighlight_SegmentsRebuildText(t *testing.T) {
	text := "Kitchen remodel: a kitchen for every home"
	var b strings.Builder
	for _, seg := range Highlight(text, "kitchen home") {
		b.WriteString(seg.Text)
	}

	if b.String() != text {
		t.Errorf("segments do not rebuild text: %q", b.String())
	}
}

func TestHighlightTokens_LongestFirst(t *testing.T) {
	got := highlightTokens("des design a design")
	want := []string{"design", "des"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("highlightTokens() = %v, want %v", got, want)
	}
}

func TestExcerpt(t *testing.T) {
	long := strings.Repeat("x", 250)

	tests := []struct {
		name string
		doc  Document
		want string
	}{
		{"provided excerpt", Document{Excerpt: "Short", Content: "Long content"}, "Short"},
		{"short content", Document{Content: "Long content"}, "Long content..."},
		{"truncated content", Document{Content: long}, strings.Repeat("x", 200) + "..."},
		{"nothing", Document{}, ""},
		{"multibyte content", Document{Content: strings.Repeat("ä", 201)}, strings.Repeat("ä", 200) + "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Excerpt(tt.doc); got != tt.want {
				t.Errorf("Excerpt() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDocument_Defaults(t *testing.T) {
	doc := Document{URL: "posts/one"}

	if doc.Path() != "/posts/one" {
		t.Errorf("expected leading slash, got %q", doc.Path())
	}
	if doc.DisplayType() != "post" {
		t.Errorf("expected default type 'post', got %q", doc.DisplayType())
	}

	doc = Document{URL: "/about/", Type: "page"}
	if doc.Path() != "/about/" {
		t.Errorf("expected unchanged path, got %q", doc.Path())
	}
	if doc.DisplayType() != "page" {
		t.Errorf("expected type 'page', got %q", doc.DisplayType())
	}
}
