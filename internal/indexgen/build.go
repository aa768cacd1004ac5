/*
Package indexgen builds the site's search index from its Jekyll sources.

Posts under _posts and top-level pages with a title become one search.Document
each. Markdown is rendered and reduced to plain text so the index matches what
readers see, not the markup. The output is the JSON array served as
search.json.
*/
package indexgen

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/blogi/site-search/internal/search"
	"github.com/gosimple/slug"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// DateFormat is how document dates appear in the index.
const DateFormat = "January 02, 2006"

// DefaultPermalink is Jekyll's default post URL pattern.
const DefaultPermalink = "/:categories/:year/:month/:day/:title.html"

// Options configures Build.
type Options struct {
	// SourceDir is the Jekyll site root.
	SourceDir string
	// PostsDir defaults to "_posts" inside SourceDir.
	PostsDir string
	// Permalink is the post URL pattern. Defaults to DefaultPermalink.
	Permalink string
	// IncludePages adds top-level pages with a title.
	IncludePages bool
	// Future keeps posts dated after Now.
	Future bool
	// Now defaults to time.Now().
	Now time.Time
}

var (
	postNamePattern = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})-(.+)\.(md|markdown)$`)
	liquidPattern   = regexp.MustCompile(`(?s)\{%.*?%\}|\{\{.*?\}\}`)
)

// Builder converts source files into documents.
type Builder struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// NewBuilder creates a builder with GitHub-flavored markdown rendering.
func NewBuilder() *Builder {
	policy := bluemonday.StrictPolicy()
	policy.AddSpaceWhenStrippingTag(true)

	return &Builder{
		md:     goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy: policy,
	}
}

// Build reads the site at opts.SourceDir and returns its index: posts newest
// first, then pages ordered by URL.
func Build(ctx context.Context, opts Options) (search.Index, error) {
	return NewBuilder().Build(ctx, opts)
}

// Build reads the site at opts.SourceDir and returns its index.
func (b *Builder) Build(ctx context.Context, opts Options) (search.Index, error) {
	if opts.SourceDir == "" {
		return nil, fmt.Errorf("source directory is required")
	}
	if opts.PostsDir == "" {
		opts.PostsDir = filepath.Join(opts.SourceDir, "_posts")
	}
	if opts.Permalink == "" {
		opts.Permalink = DefaultPermalink
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	if info, err := os.Stat(opts.SourceDir); err != nil {
		return nil, fmt.Errorf("failed to read source directory: %w", err)
	} else if !info.IsDir() {
		return nil, fmt.Errorf("source %s is not a directory", opts.SourceDir)
	}

	posts, err := b.buildPosts(ctx, opts)
	if err != nil {
		return nil, err
	}

	index := make(search.Index, 0, len(posts))
	for _, p := range posts {
		index = append(index, p.doc)
	}

	if opts.IncludePages {
		pages, err := b.buildPages(ctx, opts)
		if err != nil {
			return nil, err
		}
		index = append(index, pages...)
	}

	return index, nil
}

type datedDoc struct {
	doc  search.Document
	date time.Time
}

func (b *Builder) buildPosts(ctx context.Context, opts Options) ([]datedDoc, error) {
	var posts []datedDoc

	err := filepath.WalkDir(opts.PostsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == opts.PostsDir {
				return fs.SkipDir
			}
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		m := postNamePattern.FindStringSubmatch(d.Name())
		if m == nil {
			if ext := filepath.Ext(d.Name()); ext == ".md" || ext == ".markdown" {
				slog.Warn("skipping post with invalid file name", "path", path)
			}
			return nil
		}

		doc, date, ok, err := b.buildPost(path, m[1], m[2], opts)
		if err != nil {
			return err
		}
		if ok {
			posts = append(posts, datedDoc{doc: doc, date: date})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read posts: %w", err)
	}

	sort.SliceStable(posts, func(i, j int) bool {
		if !posts[i].date.Equal(posts[j].date) {
			return posts[i].date.After(posts[j].date)
		}
		return posts[i].doc.URL < posts[j].doc.URL
	})

	return posts, nil
}

func (b *Builder) buildPost(path, nameDate, nameTitle string, opts Options) (search.Document, time.Time, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return search.Document{}, time.Time{}, false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	header, body, ok := splitFrontMatter(string(data))
	if !ok {
		slog.Warn("skipping post without front matter", "path", path)
		return search.Document{}, time.Time{}, false, nil
	}

	fm, err := parseFrontMatter(header)
	if err != nil {
		return search.Document{}, time.Time{}, false, fmt.Errorf("%s: %w", path, err)
	}
	if !fm.included() {
		return search.Document{}, time.Time{}, false, nil
	}

	date := fm.Date.Time
	if date.IsZero() {
		date, err = time.Parse("2006-01-02", nameDate)
		if err != nil {
			return search.Document{}, time.Time{}, false, fmt.Errorf("%s: invalid date in file name: %w", path, err)
		}
	}
	if date.After(opts.Now) && !opts.Future {
		slog.Debug("skipping future post", "path", path, "date", date)
		return search.Document{}, time.Time{}, false, nil
	}

	content, firstParagraph, err := b.renderMarkdown(body)
	if err != nil {
		return search.Document{}, time.Time{}, false, fmt.Errorf("%s: %w", path, err)
	}

	title := fm.Title
	if title == "" {
		title = strings.ReplaceAll(nameTitle, "-", " ")
	}

	permalink := opts.Permalink
	if fm.Permalink != "" {
		permalink = fm.Permalink
	}

	docType := fm.Type
	if docType == "" {
		docType = search.DefaultType
	}

	return search.Document{
		Title:      title,
		Content:    content,
		Excerpt:    excerpt(fm, firstParagraph, b),
		URL:        ExpandPermalink(permalink, date, postSlug(nameTitle), fm.categories()),
		Date:       date.Format(DateFormat),
		Type:       docType,
		Categories: fm.categories(),
		Tags:       fm.Tags,
	}, date, true, nil
}

func (b *Builder) buildPages(ctx context.Context, opts Options) (search.Index, error) {
	entries, err := os.ReadDir(opts.SourceDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read pages: %w", err)
	}

	var pages search.Index
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") {
			continue
		}
		ext := filepath.Ext(name)
		if ext != ".md" && ext != ".markdown" && ext != ".html" {
			continue
		}

		doc, ok, err := b.buildPage(filepath.Join(opts.SourceDir, name), ext)
		if err != nil {
			return nil, err
		}
		if ok {
			pages = append(pages, doc)
		}
	}

	sort.SliceStable(pages, func(i, j int) bool { return pages[i].URL < pages[j].URL })
	return pages, nil
}

func (b *Builder) buildPage(path, ext string) (search.Document, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return search.Document{}, false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	header, body, ok := splitFrontMatter(string(data))
	if !ok {
		return search.Document{}, false, nil
	}

	fm, err := parseFrontMatter(header)
	if err != nil {
		return search.Document{}, false, fmt.Errorf("%s: %w", path, err)
	}
	if fm.Title == "" || !fm.included() {
		return search.Document{}, false, nil
	}

	var content, firstParagraph string
	if ext == ".html" {
		content = b.plainText(liquidPattern.ReplaceAllString(body, " "))
	} else {
		content, firstParagraph, err = b.renderMarkdown(body)
		if err != nil {
			return search.Document{}, false, fmt.Errorf("%s: %w", path, err)
		}
	}

	docType := fm.Type
	if docType == "" {
		docType = "page"
	}

	doc := search.Document{
		Title:      fm.Title,
		Content:    content,
		Excerpt:    excerpt(fm, firstParagraph, b),
		URL:        pageURL(fm.Permalink, strings.TrimSuffix(filepath.Base(path), ext)),
		Type:       docType,
		Categories: fm.categories(),
		Tags:       fm.Tags,
	}
	if !fm.Date.IsZero() {
		doc.Date = fm.Date.Format(DateFormat)
	}

	return doc, true, nil
}

// renderMarkdown returns the plain text of a markdown body and of its first
// paragraph.
func (b *Builder) renderMarkdown(body string) (string, string, error) {
	source := []byte(liquidPattern.ReplaceAllString(body, " "))
	doc := b.md.Parser().Parse(text.NewReader(source))

	var buf bytes.Buffer
	if err := b.md.Renderer().Render(&buf, source, doc); err != nil {
		return "", "", fmt.Errorf("failed to render markdown: %w", err)
	}

	var first string
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if _, ok := n.(*ast.Paragraph); !ok {
			continue
		}
		var pbuf bytes.Buffer
		if err := b.md.Renderer().Render(&pbuf, source, n); err == nil {
			first = b.plainText(pbuf.String())
		}
		break
	}

	return b.plainText(buf.String()), first, nil
}

// plainText strips markup and collapses whitespace.
func (b *Builder) plainText(markup string) string {
	return strings.Join(strings.Fields(html.UnescapeString(b.policy.Sanitize(markup))), " ")
}

func excerpt(fm frontMatter, firstParagraph string, b *Builder) string {
	switch {
	case fm.Excerpt != "":
		return b.plainText(fm.Excerpt)
	case fm.Description != "":
		return b.plainText(fm.Description)
	default:
		return firstParagraph
	}
}

// postSlug turns the title part of a post file name into a URL segment.
func postSlug(name string) string {
	if slug.IsSlug(name) {
		return name
	}
	return slug.Make(name)
}

// ExpandPermalink fills a Jekyll permalink pattern. Empty segments left by
// an empty :categories collapse.
func ExpandPermalink(pattern string, date time.Time, title string, categories []string) string {
	cats := make([]string, 0, len(categories))
	for _, c := range categories {
		if s := slug.Make(c); s != "" {
			cats = append(cats, s)
		}
	}

	url := strings.NewReplacer(
		":categories", strings.Join(cats, "/"),
		":year", date.Format("2006"),
		":month", date.Format("01"),
		":day", date.Format("02"),
		":title", title,
		":slug", title,
	).Replace(pattern)

	for strings.Contains(url, "//") {
		url = strings.ReplaceAll(url, "//", "/")
	}
	if !strings.HasPrefix(url, "/") {
		url = "/" + url
	}
	return url
}

func pageURL(permalink, name string) string {
	if permalink != "" {
		if !strings.HasPrefix(permalink, "/") {
			return "/" + permalink
		}
		return permalink
	}
	if name == "index" {
		return "/"
	}
	return "/" + name + ".html"
}
