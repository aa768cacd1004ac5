package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/blogi/site-search/internal/search"
	"github.com/blogi/site-search/internal/session"
)

func testSession() *session.Session {
	s := session.New(nil, session.WithSuggestions(false))
	s.SetIndex(search.Index{
		{Title: "Modern Kitchen", URL: "/modern-kitchen/", Content: "kitchen ideas", Tags: []string{"interior"}},
		{Title: "Kitchen Remodel", URL: "kitchen-remodel/", Content: "kitchen budget", Date: "May 01, 2024"},
		{Title: "Garden Lighting", URL: "/garden-lighting/", Content: "outdoor lamps", Categories: []string{"outdoor"}},
	})
	return s
}

// roundTrip feeds request lines to a server and decodes every response line.
func roundTrip(t *testing.T, s *Server, lines ...string) []MCPResponse {
	t.Helper()

	var out strings.Builder
	if err := s.Run(context.Background(), strings.NewReader(strings.Join(lines, "\n")), &out); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	var responses []MCPResponse
	scanner := bufio.NewScanner(strings.NewReader(out.String()))
	for scanner.Scan() {
		var resp MCPResponse
		if err := json.Unmarshal(scanner.Bytes(), &resp); err != nil {
			t.Fatalf("invalid response line %q: %v", scanner.Text(), err)
		}
		responses = append(responses, resp)
	}
	return responses
}

func toolText(t *testing.T, resp MCPResponse) string {
	t.Helper()
	if resp.Error != nil {
		t.Fatalf("unexpected error response: %+v", resp.Error)
	}
	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatalf("unexpected result type %T", resp.Result)
	}
	content := result["content"].([]interface{})
	return content[0].(map[string]interface{})["text"].(string)
}

func TestInitializeAndToolsList(t *testing.T) {
	server := NewServer(testSession(), "1.2.3")

	responses := roundTrip(t, server,
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`,
	)

	if len(responses) != 2 {
		t.Fatalf("expected 2 responses (notification is silent), got %d", len(responses))
	}

	info := responses[0].Result.(map[string]interface{})["serverInfo"].(map[string]interface{})
	if info["name"] != "site-search" || info["version"] != "1.2.3" {
		t.Errorf("unexpected serverInfo: %v", info)
	}

	tools := responses[1].Result.(map[string]interface{})["tools"].([]interface{})
	var names []string
	for _, tool := range tools {
		names = append(names, tool.(map[string]interface{})["name"].(string))
	}
	if strings.Join(names, ",") != "site_search,site_document" {
		t.Errorf("unexpected tools: %v", names)
	}
}

func TestSiteSearch(t *testing.T) {
	server := NewServer(testSession(), "dev")

	responses := roundTrip(t, server,
		`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"site_search","arguments":{"query":"kitchen"}}}`,
	)

	text := toolText(t, responses[0])
	if !strings.HasPrefix(text, `Found 2 results for "kitchen"`) {
		t.Errorf("unexpected header: %q", text)
	}
	if !strings.Contains(text, "Modern **Kitchen**") || !strings.Contains(text, "/kitchen-remodel/") {
		t.Errorf("expected highlighted results, got %q", text)
	}
}

func TestSiteSearch_Limit(t *testing.T) {
	server := NewServer(testSession(), "dev")

	responses := roundTrip(t, server,
		`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"site_search","arguments":{"query":"kitchen","limit":1}}}`,
	)

	text := toolText(t, responses[0])
	if !strings.HasPrefix(text, `Found 2 results for "kitchen"`) {
		t.Errorf("header should count every match: %q", text)
	}
	if strings.Contains(text, "Remodel") {
		t.Errorf("expected only one listed result, got %q", text)
	}
	if !strings.Contains(text, "(showing 1 of 2)") {
		t.Errorf("expected truncation note, got %q", text)
	}
}

func TestSiteSearch_ShortQuery(t *testing.T) {
	server := NewServer(testSession(), "dev")

	responses := roundTrip(t, server,
		`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"site_search","arguments":{"query":"k"}}}`,
	)

	if text := toolText(t, responses[0]); !strings.Contains(text, "Enter your search terms") {
		t.Errorf("expected prompt, got %q", text)
	}
}

func TestSiteDocument(t *testing.T) {
	server := NewServer(testSession(), "dev")

	responses := roundTrip(t, server,
		`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"site_document","arguments":{"url":"kitchen-remodel/"}}}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"site_document","arguments":{"url":"/nope/"}}}`,
	)

	text := toolText(t, responses[0])
	for _, want := range []string{"Kitchen Remodel", "URL: /kitchen-remodel/", "Date: May 01, 2024", "Type: post", "kitchen budget"} {
		if !strings.Contains(text, want) {
			t.Errorf("expected %q in %q", want, text)
		}
	}

	if responses[1].Error == nil || responses[1].Error.Code != CodeToolError {
		t.Errorf("expected tool error for missing document, got %+v", responses[1])
	}
}

func TestErrors(t *testing.T) {
	server := NewServer(testSession(), "dev")

	responses := roundTrip(t, server,
		`{"jsonrpc":"2.0","id":1,"method":"resources/list"}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"hub_execute","arguments":{}}}`,
		`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"site_search","arguments":{}}}`,
		`{not json`,
	)

	if len(responses) != 4 {
		t.Fatalf("expected 4 responses, got %d", len(responses))
	}

	wantCodes := []int{CodeMethodNotFound, CodeInvalidParams, CodeInvalidParams, CodeParseError}
	for i, want := range wantCodes {
		if responses[i].Error == nil {
			t.Errorf("response %d: expected error code %d, got result", i, want)
			continue
		}
		if responses[i].Error.Code != want {
			t.Errorf("response %d: expected code %d, got %d", i, want, responses[i].Error.Code)
		}
	}

	if responses[3].ID != nil {
		t.Errorf("parse errors carry a null id, got %v", responses[3].ID)
	}
}

func TestSiteSearch_FailedIndex(t *testing.T) {
	s := session.New(failingLoader{})
	_ = s.Load(context.Background(), "search.json")
	server := NewServer(s, "dev")

	responses := roundTrip(t, server,
		`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"site_search","arguments":{"query":"kitchen"}}}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"site_document","arguments":{"url":"/modern-kitchen/"}}}`,
	)

	if text := toolText(t, responses[0]); !strings.Contains(text, "Error loading search data") {
		t.Errorf("expected error view, got %q", text)
	}
	if responses[1].Error == nil || responses[1].Error.Code != CodeToolError {
		t.Errorf("expected tool error, got %+v", responses[1])
	}
}

type failingLoader struct{}

func (failingLoader) Load(ctx context.Context, location string) (search.Index, error) {
	return nil, context.DeadlineExceeded
}
