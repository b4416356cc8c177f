// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/tracelens/tracelens/internal/contract"
)

// NewMCPServer initializes and configures the TraceLens MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config) *server.MCPServer {
	s := server.NewMCPServer(
		"TraceLens Analysis Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
	}

	// --- 1. Tool: analyze_trace ---
	s.AddTool(mcp.NewTool("analyze_trace",
		mcp.WithDescription("Analyze a page-load trace file: waterfall timeline, critical path, render blocking, network phases and composite score."),
		mcp.WithString("trace_path", mcp.Description("Path to the trace file to analyze."), mcp.Required()),
		mcp.WithString("test_name", mcp.Description("Override the test name recorded in the trace.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of resources returned per section.")),
	), h.handleAnalyzeTrace)

	// --- 2. Tool: score_trace ---
	s.AddTool(mcp.NewTool("score_trace",
		mcp.WithDescription("Score a page-load trace file: per-metric vital scores and the weighted composite score with grade."),
		mcp.WithString("trace_path", mcp.Description("Path to the trace file to score."), mcp.Required()),
		mcp.WithString("test_name", mcp.Description("Override the test name recorded in the trace.")),
	), h.handleScoreTrace)

	// --- 3. Tool: check_regression ---
	s.AddTool(mcp.NewTool("check_regression",
		mcp.WithDescription("Compare a trace file's composite score against the stored baseline for its test name. Read-only: the baseline is not replaced."),
		mcp.WithString("trace_path", mcp.Description("Path to the trace file to check."), mcp.Required()),
		mcp.WithString("test_name", mcp.Description("Override the test name recorded in the trace.")),
	), h.handleCheckRegression)

	// --- 4. Tool: get_history ---
	s.AddTool(mcp.NewTool("get_history",
		mcp.WithDescription("Retrieve archived scoring runs for a test name, newest first."),
		mcp.WithString("test_name", mcp.Description("The test name whose history to retrieve."), mcp.Required()),
		mcp.WithNumber("limit", mcp.Description("Maximum number of runs to return.")),
	), h.handleGetHistory)

	// --- 5. Tool: audit_budget ---
	s.AddTool(mcp.NewTool("audit_budget",
		mcp.WithDescription("Audit a trace file against the configured performance budgets (request count and size limits)."),
		mcp.WithString("trace_path", mcp.Description("Path to the trace file to audit."), mcp.Required()),
	), h.handleAuditBudget)

	return s
}

// StartMCPServer starts the TraceLens MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config) error {
	s := NewMCPServer(baseCfg)
	return server.ServeStdio(s)
}
