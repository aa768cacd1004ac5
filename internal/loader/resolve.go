package loader

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DefaultIndexPath is the site-relative path of the index resource.
const DefaultIndexPath = "/search.json"

// ResolveBaseURL computes the site base URL for a page.
//
// An explicit override (the page's base-url meta tag) always wins, even when
// empty. Otherwise the first path segment is treated as a site-root prefix
// when it names a directory other than "search".
func ResolveBaseURL(override string, hasOverride bool, pagePath string) string {
	if hasOverride {
		return override
	}

	var segments []string
	for _, s := range strings.Split(pagePath, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}

	if len(segments) > 0 && !strings.Contains(segments[0], ".") && segments[0] != "search" {
		return "/" + segments[0]
	}

	return ""
}

// IndexURL joins a base URL and the index path.
func IndexURL(baseURL, indexPath string) string {
	if indexPath == "" {
		indexPath = DefaultIndexPath
	}
	if !strings.HasPrefix(indexPath, "/") {
		indexPath = "/" + indexPath
	}
	return strings.TrimSuffix(baseURL, "/") + indexPath
}

// ReadBaseURLMeta extracts the content of <meta name="base-url"> from an HTML
// page. The boolean reports whether the tag exists at all.
func ReadBaseURLMeta(r io.Reader) (string, bool, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", false, fmt.Errorf("failed to parse page: %w", err)
	}

	meta := doc.Find(`meta[name="base-url"]`).First()
	if meta.Length() == 0 {
		return "", false, nil
	}

	content, _ := meta.Attr("content")
	return content, true, nil
}
