// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Jera journal tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/jera/internal/journal"
	"github.com/starford/jera/internal/navigate"
	"github.com/starford/jera/internal/slot"
)

// Server wraps the MCP server with Jera tools.
type Server struct {
	mcp *server.MCPServer
	svc *journal.Service
}

// New creates a new MCP server with all Jera tools registered.
func New(svc *journal.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Jera",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("run_journal",
		mcp.WithDescription("Run journal reconciliation: create any missing daily and monthly "+
			"notes up to today, honoring the configured backfill policy."),
	), s.runJournal)

	s.mcp.AddTool(mcp.NewTool("resolve_link",
		mcp.WithDescription("Resolve a journal navigation request to a vault path. "+
			"Direction is relative to the anchor note, or to today when no anchor is given."),
		mcp.WithString("period", mcp.Required(), mcp.Description("Period type: daily or monthly")),
		mcp.WithString("direction", mcp.Required(), mcp.Description("Direction: previous, next, or today")),
		mcp.WithString("anchor", mcp.Description("Optional anchor note path the direction is relative to")),
	), s.resolveLink)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read the full content of a journal note."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Vault-relative path to the note (e.g. Journal/2024/03/15 -.md)")),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("journal_history",
		mcp.WithDescription("List recent reconciliation runs and how many notes each created."),
		mcp.WithString("limit", mcp.Description("Maximum number of runs to return (default 20)")),
	), s.journalHistory)

	// Resource: vault layout contract.
	s.mcp.AddResource(
		mcp.NewResource("jera://layout", "Journal Layout Contract",
			mcp.WithResourceDescription("Naming convention for journal folders and note files."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readLayoutResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) runJournal(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res := s.svc.Run(ctx)

	summary := struct {
		RunID   string   `json:"run_id"`
		Created []string `json:"created"`
		Failed  int      `json:"failed"`
		Errors  []string `json:"errors,omitempty"`
	}{RunID: res.RunID, Created: []string{}, Failed: res.Failed()}
	for _, rep := range res.Reports {
		summary.Created = append(summary.Created, rep.Created...)
	}
	for _, err := range res.Errors {
		summary.Errors = append(summary.Errors, err.Error())
	}

	out, _ := json.MarshalIndent(summary, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) resolveLink(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	periodArg, err := req.RequireString("period")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	directionArg, err := req.RequireString("direction")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	period, err := slot.ParsePeriod(periodArg)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	dir, err := navigate.ParseDirection(directionArg)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	anchor := ""
	if a, argErr := req.RequireString("anchor"); argErr == nil {
		anchor = a
	}

	path, err := s.svc.Resolve(ctx, period, dir, anchor)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if path == "" {
		return mcp.NewToolResultText("no note for that slot"), nil
	}
	return mcp.NewToolResultText(path), nil
}

func (s *Server) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := s.svc.ReadNote(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) journalHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := 20
	if l, argErr := req.RequireString("limit"); argErr == nil {
		if n, convErr := strconv.Atoi(l); convErr == nil && n > 0 {
			limit = n
		}
	}

	runs, err := s.svc.History(ctx, limit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(runs) == 0 {
		return mcp.NewToolResultText("no runs recorded"), nil
	}
	out, _ := json.MarshalIndent(runs, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readLayoutResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "jera://layout",
			MIMEType: "text/markdown",
			Text:     LayoutContract(s.svc.Settings()),
		},
	}, nil
}
