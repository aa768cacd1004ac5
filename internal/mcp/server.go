/*
Package mcp implements an MCP server that exposes site search as tools.

The server speaks JSON-RPC 2.0 over newline-delimited stdio and exposes two
tools:
  - site_search: Search the site index and return ranked, highlighted results
  - site_document: Get the full indexed entry for a URL
*/
package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/blogi/site-search/internal/render"
	"github.com/blogi/site-search/internal/session"
)

// JSON-RPC error codes.
const (
	CodeParseError     = -32700
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeToolError      = -32000
)

const protocolVersion = "2024-11-05"

// maxLineSize bounds a single request line.
const maxLineSize = 4 << 20

// Server is the site-search MCP server.
type Server struct {
	session *session.Session
	version string
	text    render.Renderer

	mu  sync.Mutex
	out io.Writer
}

// NewServer creates an MCP server answering from s.
func NewServer(s *session.Session, version string) *Server {
	return &Server{
		session: s,
		version: version,
		text:    render.NewPlain(),
	}
}

// Run reads requests from in and writes responses to out until in is
// exhausted or ctx is cancelled.
func (s *Server) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	s.mu.Lock()
	s.out = out
	s.mu.Unlock()

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		response, err := s.handleRequest(line)
		if err != nil {
			s.sendError(err)
			continue
		}

		if response != nil {
			s.sendResponse(response)
		}
	}

	return scanner.Err()
}

// MCPRequest represents an incoming MCP JSON-RPC request.
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing MCP JSON-RPC response.
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents an MCP error.
type MCPError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func errorResponse(id interface{}, code int, message string) *MCPResponse {
	return &MCPResponse{JSONRPC: "2.0", ID: id, Error: &MCPError{Code: code, Message: message}}
}

// handleRequest processes one request line. Notifications get no response.
func (s *Server) handleRequest(data []byte) (*MCPResponse, error) {
	var req MCPRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("invalid JSON-RPC request: %w", err)
	}

	if strings.HasPrefix(req.Method, "notifications/") {
		return nil, nil
	}

	switch req.Method {
	case "initialize":
		return s.handleInitialize(&req), nil
	case "ping":
		return &MCPResponse{JSONRPC: "2.0", ID: req.ID, Result: map[string]interface{}{}}, nil
	case "tools/list":
		return s.handleToolsList(&req), nil
	case "tools/call":
		return s.handleToolsCall(&req), nil
	default:
		return errorResponse(req.ID, CodeMethodNotFound, "Method not found"), nil
	}
}

func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": protocolVersion,
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    "site-search",
				"version": s.version,
			},
		},
	}
}

func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	tools := []map[string]interface{}{
		{
			"name": "site_search",
			"description": `Search the blog's posts and pages by keyword.

Results are ranked by where the words appear (title first, then categories,
tags, excerpt and body text). Matches are marked as **word**.

Queries shorter than 2 characters return usage instructions instead of results.`,
			"inputSchema": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"query": map[string]interface{}{
						"type":        "string",
						"description": "Keywords separated by spaces",
					},
					"limit": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum number of results to list (default: all)",
					},
				},
				"required": []string{"query"},
			},
		},
		{
			"name": "site_document",
			"description": `Get the full indexed entry for a post or page.

WHEN TO USE: After site_search, to read the content behind a result URL.`,
			"inputSchema": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"url": map[string]interface{}{
						"type":        "string",
						"description": "Result URL as returned by site_search",
					},
				},
				"required": []string{"url"},
			},
		},
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result:  map[string]interface{}{"tools": tools},
	}
}

func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params struct {
		Name      string                 `json:"name"`
		Arguments map[string]interface{} `json:"arguments"`
	}
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errorResponse(req.ID, CodeInvalidParams, fmt.Sprintf("invalid params: %v", err))
	}

	var (
		result string
		err    error
	)

	switch params.Name {
	case "site_search":
		query, ok := params.Arguments["query"].(string)
		if !ok {
			return errorResponse(req.ID, CodeInvalidParams, "missing required argument: query")
		}
		limit := 0
		if v, ok := params.Arguments["limit"].(float64); ok && v > 0 {
			limit = int(v)
		}
		result, err = s.execSearch(query, limit)
	case "site_document":
		url, ok := params.Arguments["url"].(string)
		if !ok {
			return errorResponse(req.ID, CodeInvalidParams, "missing required argument: url")
		}
		result, err = s.execDocument(url)
	default:
		return errorResponse(req.ID, CodeInvalidParams, fmt.Sprintf("Unknown tool: %s", params.Name))
	}

	if err != nil {
		return errorResponse(req.ID, CodeToolError, err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{"type": "text", "text": result},
			},
		},
	}
}

// execSearch runs a query and renders the view as plain text.
func (s *Server) execSearch(query string, limit int) (string, error) {
	view := s.session.Query(query)
	if limit > 0 && len(view.Items) > limit {
		view.Items = view.Items[:limit]
	}

	var buf bytes.Buffer
	if err := s.text.Render(&buf, view); err != nil {
		return "", fmt.Errorf("failed to render results: %w", err)
	}
	if len(view.Items) < view.Total {
		fmt.Fprintf(&buf, "\n(showing %d of %d)\n", len(view.Items), view.Total)
	}

	return buf.String(), nil
}

// execDocument describes the document at url.
func (s *Server) execDocument(url string) (string, error) {
	if s.session.Status() == session.StatusFailed {
		return "", fmt.Errorf("%s", render.ErrorMessage)
	}

	doc, ok := s.session.Document(url)
	if !ok {
		return "", fmt.Errorf("document '%s' not found", url)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", doc.Title)
	fmt.Fprintf(&b, "URL: %s\n", doc.Path())
	if doc.Date != "" {
		fmt.Fprintf(&b, "Date: %s\n", doc.Date)
	}
	fmt.Fprintf(&b, "Type: %s\n", doc.DisplayType())
	if len(doc.Categories) > 0 {
		fmt.Fprintf(&b, "Categories: %s\n", strings.Join(doc.Categories, ", "))
	}
	if len(doc.Tags) > 0 {
		fmt.Fprintf(&b, "Tags: %s\n", strings.Join(doc.Tags, ", "))
	}
	if doc.Excerpt != "" {
		fmt.Fprintf(&b, "\n%s\n", doc.Excerpt)
	}
	if doc.Content != "" {
		fmt.Fprintf(&b, "\n%s\n", doc.Content)
	}

	return b.String(), nil
}

func (s *Server) sendResponse(resp *MCPResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.out.Write(append(data, '\n')); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

func (s *Server) sendError(err error) {
	s.sendResponse(errorResponse(nil, CodeParseError, err.Error()))
}
