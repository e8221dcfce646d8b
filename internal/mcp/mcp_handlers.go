package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/huangsam/leadpulse/core"
	"github.com/huangsam/leadpulse/internal/contract"
	"github.com/huangsam/leadpulse/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
}

// requestConfig clones the base config and applies the shared dashboard arguments.
func (h *toolHandler) requestConfig(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	err := contract.RevalidateDashboard(cfg,
		request.GetString("input_path", ""),
		request.GetString("period", ""),
		request.GetString("granularity", ""),
	)
	if err != nil {
		return nil, err
	}
	if ts := strings.TrimSpace(request.GetString("timestamp_column", "")); ts != "" {
		cfg.TimestampColumn = ts
	}
	return cfg, nil
}

func (h *toolHandler) dashboard(ctx context.Context, cfg *contract.Config, page schema.PageName) (*mcp.CallToolResult, error) {
	result, err := core.GetDashboardResult(ctx, cfg, h.mgr, page)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("dashboard failed: %v", err)), nil
	}
	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListPeriods(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jsonData, _ := json.MarshalIndent(core.GetPeriodPolicies(), "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetTrend(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	return h.dashboard(ctx, cfg, schema.TrendPage)
}

func (h *toolHandler) handleGetTopValues(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	cfg.Column = strings.TrimSpace(request.GetString("column", ""))
	if cfg.Column == "" {
		return mcp.NewToolResultError("column is required"), nil
	}
	if l := request.GetInt("limit", 0); l > 0 {
		if l > contract.MaxResultLimit {
			return mcp.NewToolResultError(fmt.Sprintf("limit cannot exceed %d", contract.MaxResultLimit)), nil
		}
		cfg.ResultLimit = l
	}
	return h.dashboard(ctx, cfg, schema.TopPage)
}

func (h *toolHandler) handleGetScoreTrend(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	cfg.Columns = nil
	for c := range strings.SplitSeq(request.GetString("columns", ""), ",") {
		if trimmed := strings.TrimSpace(c); trimmed != "" {
			cfg.Columns = append(cfg.Columns, trimmed)
		}
	}
	if len(cfg.Columns) == 0 {
		return mcp.NewToolResultError("columns is required"), nil
	}
	return h.dashboard(ctx, cfg, schema.ScoresPage)
}

func (h *toolHandler) handleGetDashboard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	page := schema.PageName(request.GetString("page", ""))
	switch page {
	case schema.LeadsPage, schema.OverviewPage:
	default:
		return mcp.NewToolResultError(fmt.Sprintf("page must be %s or %s", schema.LeadsPage, schema.OverviewPage)), nil
	}
	return h.dashboard(ctx, cfg, page)
}
