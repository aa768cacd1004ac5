/*
Package loader resolves and fetches the static search index.

The index lives at <base><indexPath> (search.json by convention) and is either
fetched over HTTP or read from a built site on disk. Any failure, including a
payload that is not a JSON array, is reported as *IndexLoadError. Loading is
done once per session; there is no retry.
*/
package loader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/blogi/site-search/internal/search"
)

// DefaultTimeout bounds a single index fetch.
const DefaultTimeout = 10 * time.Second

// maxIndexSize caps how much of a response body is read.
const maxIndexSize = 64 << 20

// Loader fetches search indexes from HTTP URLs or local files.
type Loader struct {
	client *http.Client
}

// New creates a loader whose HTTP fetches time out after timeout.
func New(timeout time.Duration) *Loader {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Loader{client: &http.Client{Timeout: timeout}}
}

// NewWithClient creates a loader using a caller-provided HTTP client.
func NewWithClient(client *http.Client) *Loader {
	return &Loader{client: client}
}

// Load reads the index at location. http(s) URLs are fetched; file:// URLs
// and plain paths are read from disk.
func (l *Loader) Load(ctx context.Context, location string) (search.Index, error) {
	var (
		data []byte
		err  error
	)

	switch {
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		data, err = l.fetch(ctx, location)
	default:
		data, err = readFile(location)
	}
	if err != nil {
		return nil, err
	}

	index, err := decodeIndex(location, data)
	if err != nil {
		return nil, err
	}

	slog.Debug("search index loaded", "location", location, "documents", len(index))
	return index, nil
}

// fetch performs the HTTP GET for an index URL.
func (l *Loader) fetch(ctx context.Context, location string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, &IndexLoadError{Location: location, Reason: "invalid request", Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, &IndexLoadError{Location: location, Reason: "network request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &IndexLoadError{
			Location: location,
			Reason:   fmt.Sprintf("server returned status %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxIndexSize))
	if err != nil {
		return nil, &IndexLoadError{Location: location, Reason: "failed to read response", Err: err}
	}

	return body, nil
}

// readFile reads a local index, accepting file:// URLs.
func readFile(location string) ([]byte, error) {
	path := location
	if strings.HasPrefix(location, "file://") {
		u, err := url.Parse(location)
		if err != nil {
			return nil, &IndexLoadError{Location: location, Reason: "invalid file URL", Err: err}
		}
		path = u.Path
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IndexLoadError{Location: location, Reason: "failed to read file", Err: err}
	}

	return data, nil
}

// decodeIndex validates that data is a JSON array of documents.
func decodeIndex(location string, data []byte) (search.Index, error) {
	trimmed := bytes.TrimSpace(data)
	if !json.Valid(trimmed) {
		return nil, &IndexLoadError{Location: location, Reason: "payload is not valid JSON"}
	}
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, &IndexLoadError{Location: location, Reason: "payload is not an array"}
	}

	var index search.Index
	if err := json.Unmarshal(trimmed, &index); err != nil {
		return nil, &IndexLoadError{Location: location, Reason: "malformed document", Err: err}
	}
	if index == nil {
		index = search.Index{}
	}

	return index, nil
}
