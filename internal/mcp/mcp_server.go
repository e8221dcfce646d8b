// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/huangsam/leadpulse/internal/contract"
	"github.com/huangsam/leadpulse/schema"
)

// NewMCPServer initializes and configures the leadpulse MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Leadpulse Dashboard Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: list_periods ---
	s.AddTool(mcp.NewTool("list_periods",
		mcp.WithDescription("List the named periods of the period selector with their lookback and default bucket unit."),
	), h.handleListPeriods)

	// --- 2. Tool: get_trend ---
	s.AddTool(mcp.NewTool("get_trend",
		withDashboardArgs(
			mcp.WithDescription("Count leads per time bucket over the selected period."),
			mcp.WithString("timestamp_column", mcp.Description("Timestamp column (defaults to the leads layout timestamp).")),
		)...,
	), h.handleGetTrend)

	// --- 3. Tool: get_top_values ---
	s.AddTool(mcp.NewTool("get_top_values",
		withDashboardArgs(
			mcp.WithDescription("Find the most frequent values of a categorical column over the selected period."),
			mcp.WithString("column", mcp.Description("Categorical column to count."), mcp.Required()),
			mcp.WithNumber("limit", mcp.Description("Number of values to return.")),
			mcp.WithString("timestamp_column", mcp.Description("Timestamp column (defaults to the leads layout timestamp).")),
		)...,
	), h.handleGetTopValues)

	// --- 4. Tool: get_score_trend ---
	s.AddTool(mcp.NewTool("get_score_trend",
		withDashboardArgs(
			mcp.WithDescription("Average one or more score columns per time bucket over the selected period."),
			mcp.WithString("columns", mcp.Description("Comma-separated score columns."), mcp.Required()),
			mcp.WithString("timestamp_column", mcp.Description("Timestamp column (defaults to the leads layout timestamp).")),
		)...,
	), h.handleGetScoreTrend)

	// --- 5. Tool: get_dashboard ---
	s.AddTool(mcp.NewTool("get_dashboard",
		withDashboardArgs(
			mcp.WithDescription("Compute every chart of a dashboard page. Charts without data come back as placeholders."),
			mcp.WithString("page", mcp.Description("Dashboard page."), mcp.Required(),
				mcp.Enum(string(schema.LeadsPage), string(schema.OverviewPage))),
		)...,
	), h.handleGetDashboard)

	return s
}

// withDashboardArgs appends the arguments every dashboard tool accepts.
func withDashboardArgs(opts ...mcp.ToolOption) []mcp.ToolOption {
	return append(opts,
		mcp.WithString("input_path", mcp.Description("Path to the .csv or .xlsx export (defaults to the configured input).")),
		mcp.WithString("period", mcp.Description("Named period, e.g. 'Last 30 days' or 'All Time'. See list_periods.")),
		mcp.WithString("granularity", mcp.Description("Bucket unit override."),
			mcp.Enum(string(schema.Day), string(schema.Week), string(schema.Month), string(schema.Year))),
	)
}

// StartMCPServer starts the leadpulse MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
