package loader

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleIndex = `[
  {"title": "Modern Kitchen", "url": "/modern-kitchen/", "tags": ["interior"]},
  {"title": "Garden Lighting", "url": "garden-lighting", "type": "page"}
]`

func TestLoad_HTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search.json", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleIndex))
	}))
	defer srv.Close()

	index, err := New(time.Second).Load(context.Background(), srv.URL+"/search.json")

	require.NoError(t, err)
	require.Len(t, index, 2)
	assert.Equal(t, "Modern Kitchen", index[0].Title)
	assert.Equal(t, []string{"interior"}, index[0].Tags)
	assert.Equal(t, "page", index[1].Type)
}

func TestLoad_HTTPErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		reason string
	}{
		{"not found", http.StatusNotFound, "", "status 404"},
		{"object payload", http.StatusOK, `{"title": "x"}`, "not an array"},
		{"null payload", http.StatusOK, `null`, "not an array"},
		{"invalid json", http.StatusOK, `[{"title":`, "not valid JSON"},
		{"wrong field type", http.StatusOK, `[{"title": 5}]`, "malformed document"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			index, err := New(time.Second).Load(context.Background(), srv.URL)

			require.Error(t, err)
			assert.Nil(t, index)

			var loadErr *IndexLoadError
			require.True(t, errors.As(err, &loadErr), "expected IndexLoadError, got %T", err)
			assert.Contains(t, loadErr.Reason, tt.reason)
			assert.Equal(t, srv.URL, loadErr.Location)
		})
	}
}

func TestLoad_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := New(time.Second).Load(context.Background(), url+"/search.json")

	var loadErr *IndexLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, "network request failed", loadErr.Reason)
	assert.NotNil(t, errors.Unwrap(err))
}

func TestLoad_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleIndex))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(time.Second).Load(ctx, srv.URL)

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "search.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleIndex), 0644))

	for _, location := range []string{path, "file://" + path} {
		index, err := New(0).Load(context.Background(), location)
		require.NoError(t, err, location)
		assert.Len(t, index, 2)
	}
}

func TestLoad_EmptyArray(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "search.json")
	require.NoError(t, os.WriteFile(path, []byte(" [] \n"), 0644))

	index, err := New(0).Load(context.Background(), path)

	require.NoError(t, err)
	assert.NotNil(t, index)
	assert.Empty(t, index)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := New(0).Load(context.Background(), filepath.Join(t.TempDir(), "missing.json"))

	var loadErr *IndexLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.True(t, strings.HasPrefix(err.Error(), "failed to load search index from "))
}
