package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/blogi/site-search/internal/search"
	"github.com/charmbracelet/lipgloss"
)

var (
	primaryColor   = lipgloss.Color("#0969DA")
	secondaryColor = lipgloss.Color("#8250DF")
	warningColor   = lipgloss.Color("#D29922")
	errorColor     = lipgloss.Color("#CF222E")
	dimColor       = lipgloss.Color("#6E7681")
	linkColor      = lipgloss.Color("#58A6FF")
	titleColor     = lipgloss.Color("#39D353")
	dateColor      = lipgloss.Color("#A371F7")
	highlightColor = lipgloss.Color("#F778BA")
)

// styles is the set of text styles one text renderer draws with.
type styles struct {
	header    lipgloss.Style
	title     lipgloss.Style
	highlight lipgloss.Style
	link      lipgloss.Style
	date      lipgloss.Style
	meta      lipgloss.Style
	warning   lipgloss.Style
	danger    lipgloss.Style
	dim       lipgloss.Style

	// markOpen and markClose surround matches when styling is unavailable.
	markOpen, markClose string
}

// Text renders views as lines of text, styled or not.
type Text struct {
	styles styles
}

// NewTerminal returns a renderer that colors output for w's terminal.
// Color is dropped automatically when w is not a terminal.
func NewTerminal(w io.Writer) *Text {
	r := lipgloss.NewRenderer(w)
	return &Text{styles: styles{
		header:    r.NewStyle().Foreground(primaryColor).Bold(true),
		title:     r.NewStyle().Foreground(titleColor).Bold(true),
		highlight: r.NewStyle().Foreground(highlightColor).Bold(true).Underline(true),
		link:      r.NewStyle().Foreground(linkColor).Underline(true),
		date:      r.NewStyle().Foreground(dateColor).Italic(true),
		meta:      r.NewStyle().Foreground(secondaryColor),
		warning:   r.NewStyle().Foreground(warningColor),
		danger:    r.NewStyle().Foreground(errorColor).Bold(true),
		dim:       r.NewStyle().Foreground(dimColor),
	}}
}

// NewPlain returns a renderer that writes unstyled text and marks matches
// as **match**.
func NewPlain() *Text {
	plain := lipgloss.NewStyle()
	return &Text{styles: styles{
		header:    plain,
		title:     plain,
		highlight: plain,
		link:      plain,
		date:      plain,
		meta:      plain,
		warning:   plain,
		danger:    plain,
		dim:       plain,
		markOpen:  "**",
		markClose: "**",
	}}
}

// Render writes v as text.
func (t *Text) Render(w io.Writer, v View) error {
	s := t.styles
	var b strings.Builder

	switch v.State {
	case Prompt:
		b.WriteString(s.dim.Render(v.Message()) + "\n")
	case Loading:
		b.WriteString(s.warning.Render(v.Message()) + "\n")
	case Error:
		b.WriteString(s.danger.Render(v.Message()) + "\n")
	case NoResults:
		b.WriteString(s.header.Render(v.Message()) + "\n")
		b.WriteString(NoResultsHint + "\n")
		if len(v.DidYouMean) > 0 {
			b.WriteString("\n" + DidYouMeanLabel + "\n")
			for _, title := range v.DidYouMean {
				b.WriteString("  • " + s.title.Render(title) + "\n")
			}
		}
		b.WriteString("\n" + SuggestionsLabel + "\n")
		for _, suggestion := range StaticSuggestions {
			b.WriteString(s.dim.Render("  • "+suggestion) + "\n")
		}
	case Results:
		b.WriteString(s.header.Render(v.Message()) + "\n")
		for i, item := range v.Items {
			b.WriteString("\n")
			fmt.Fprintf(&b, "%s %s\n", s.dim.Render(fmt.Sprintf("%d.", i+1)), t.segments(item.Title, s.title))
			b.WriteString("   " + s.link.Render(item.URL) + "\n")
			if len(item.Excerpt) > 0 {
				b.WriteString("   " + t.segments(item.Excerpt, lipgloss.NewStyle()) + "\n")
			}
			b.WriteString("   " + t.meta(item) + "\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// segments draws highlighted text, matches in the highlight style and the
// rest in base.
func (t *Text) segments(segs []search.Segment, base lipgloss.Style) string {
	var b strings.Builder
	for _, seg := range segs {
		if seg.Match {
			b.WriteString(t.styles.markOpen + t.styles.highlight.Render(seg.Text) + t.styles.markClose)
			continue
		}
		b.WriteString(base.Render(seg.Text))
	}
	return b.String()
}

func (t *Text) meta(item Item) string {
	s := t.styles
	parts := make([]string, 0, 4)
	if item.Date != "" {
		parts = append(parts, s.date.Render(item.Date))
	}
	parts = append(parts, s.meta.Render(item.Type))
	if item.Categories != "" {
		parts = append(parts, s.meta.Render(item.Categories))
	}
	if item.Tags != "" {
		parts = append(parts, s.dim.Render("#"+item.Tags))
	}
	return strings.Join(parts, s.dim.Render(" · "))
}
