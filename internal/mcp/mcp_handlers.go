package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/tracelens/tracelens/core"
	"github.com/tracelens/tracelens/internal/contract"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
}

func (h *toolHandler) handleAnalyzeTrace(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.TracePath = request.GetString("trace_path", "")
	if cfg.TracePath == "" {
		return mcp.NewToolResultError("trace_path is required"), nil
	}
	if n := request.GetString("test_name", ""); n != "" {
		cfg.TestName = n
	}
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = l
	}

	result, err := core.GetAnalysisResults(ctx, cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleScoreTrace(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.TracePath = request.GetString("trace_path", "")
	if cfg.TracePath == "" {
		return mcp.NewToolResultError("trace_path is required"), nil
	}
	if n := request.GetString("test_name", ""); n != "" {
		cfg.TestName = n
	}

	result, err := core.GetAnalysisResults(ctx, cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scoring failed: %v", err)), nil
	}

	scored := map[string]any{
		"test_name": result.TestName,
		"url":       result.URL,
		"vitals":    result.Vitals,
		"insights":  result.Insights,
		"composite": result.Composite,
	}
	jsonData, _ := json.MarshalIndent(scored, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleCheckRegression(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.TracePath = request.GetString("trace_path", "")
	if cfg.TracePath == "" {
		return mcp.NewToolResultError("trace_path is required"), nil
	}
	if n := request.GetString("test_name", ""); n != "" {
		cfg.TestName = n
	}

	report, err := core.GetRegressionResults(ctx, cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("regression check failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(report, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetHistory(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	testName := request.GetString("test_name", "")
	if testName == "" {
		return mcp.NewToolResultError("test_name is required"), nil
	}
	limit := request.GetInt("limit", h.baseCfg.HistoryLimit)

	entries, err := core.GetHistoryResults(testName, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("history lookup failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(entries, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleAuditBudget(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.TracePath = request.GetString("trace_path", "")
	if cfg.TracePath == "" {
		return mcp.NewToolResultError("trace_path is required"), nil
	}
	if len(cfg.Budgets) == 0 {
		return mcp.NewToolResultError("no budgets configured"), nil
	}

	result, err := core.GetAnalysisResults(ctx, cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("budget audit failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(result.Budget, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
