package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

const maxPageSize = 4 << 20

// Discover fetches the search page at pageURL and returns the absolute URL of
// the index it would load: the base-url meta tag when present, else the base
// derived from the page path.
func (l *Loader) Discover(ctx context.Context, pageURL, indexPath string) (string, error) {
	page, err := url.Parse(pageURL)
	if err != nil || (page.Scheme != "http" && page.Scheme != "https") || page.Host == "" {
		return "", &IndexLoadError{Location: pageURL, Reason: "page URL must be an absolute http(s) URL", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", &IndexLoadError{Location: pageURL, Reason: "invalid request", Err: err}
	}
	req.Header.Set("Accept", "text/html")

	resp, err := l.client.Do(req)
	if err != nil {
		return "", &IndexLoadError{Location: pageURL, Reason: "network request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &IndexLoadError{
			Location: pageURL,
			Reason:   fmt.Sprintf("server returned status %d", resp.StatusCode),
		}
	}

	override, hasOverride, err := ReadBaseURLMeta(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return "", &IndexLoadError{Location: pageURL, Reason: "failed to read page", Err: err}
	}

	ref, err := url.Parse(IndexURL(ResolveBaseURL(override, hasOverride, page.Path), indexPath))
	if err != nil {
		return "", &IndexLoadError{Location: pageURL, Reason: "invalid base URL", Err: err}
	}

	return page.ResolveReference(ref).String(), nil
}
