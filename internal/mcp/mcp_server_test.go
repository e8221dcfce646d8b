package mcp_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/leadpulse/internal/contract"
	mcp_internal "github.com/huangsam/leadpulse/internal/mcp"
	"github.com/huangsam/leadpulse/schema"
)

const leadsCSV = `INVITATIONDT,SOURCE,TALKSCORE_OVERALL
2024-03-05,LinkedIn,80
2024-03-04,LinkedIn,70
2024-03-01,Referral,0
2023-12-01,Indeed,90
`

func newBaseConfig(t *testing.T) *contract.Config {
	t.Helper()
	input := filepath.Join(t.TempDir(), "leads.csv")
	require.NoError(t, os.WriteFile(input, []byte(leadsCSV), 0o644))
	return &contract.Config{
		InputPath:    input,
		Period:       schema.Last30Days,
		BucketColumn: contract.DefaultBucketName,
		ResultLimit:  10,
		Leads:        schema.DefaultLeadsLayout(),
		Overview:     schema.DefaultOverviewLayout(),
	}
}

func callTool(t *testing.T, cfg *contract.Config, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	s := mcp_internal.NewMCPServer(cfg, nil)
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	res, err := tool.Handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	})
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	require.NotEmpty(t, res.Content)
	return res
}

func resultText(res *mcp.CallToolResult) string {
	return res.Content[0].(mcp.TextContent).Text
}

func TestMCPListPeriods(t *testing.T) {
	res := callTool(t, newBaseConfig(t), "list_periods", nil)
	require.False(t, res.IsError)

	var policies []schema.PeriodPolicy
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &policies))
	require.Len(t, policies, 5)
	assert.Equal(t, schema.AllTime, policies[3].Name)
}

func TestMCPGetTrend(t *testing.T) {
	res := callTool(t, newBaseConfig(t), "get_trend", map[string]any{
		"period":      "all time",
		"granularity": "month",
	})
	require.False(t, res.IsError, resultText(res))

	var result schema.DashboardResult
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &result))
	assert.Equal(t, schema.AllTime, result.Period)
	assert.Equal(t, schema.Month, result.Granularity)
	require.Len(t, result.Charts, 1)

	labels := make([]string, 0, len(result.Charts[0].Points))
	for _, p := range result.Charts[0].Points {
		labels = append(labels, p.Label)
	}
	assert.Equal(t, []string{"Dec-2023", "Jan-2024", "Feb-2024", "Mar-2024"}, labels)
	assert.Zero(t, result.Charts[0].Points[1].Value)
	assert.Equal(t, 3.0, result.Charts[0].Points[3].Value)
}

func TestMCPGetTopValues(t *testing.T) {
	res := callTool(t, newBaseConfig(t), "get_top_values", map[string]any{
		"column": "SOURCE",
		"limit":  1.0,
	})
	require.False(t, res.IsError, resultText(res))

	var result schema.DashboardResult
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &result))
	require.Len(t, result.Charts, 1)
	require.Len(t, result.Charts[0].Points, 1)
	assert.Equal(t, "LinkedIn", result.Charts[0].Points[0].Label)
}

func TestMCPGetScoreTrendMissingColumn(t *testing.T) {
	res := callTool(t, newBaseConfig(t), "get_score_trend", map[string]any{
		"columns": "TALKSCORE_OVERALL, NOT_THERE",
	})
	require.False(t, res.IsError, resultText(res))

	var result schema.DashboardResult
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &result))
	require.Len(t, result.Charts, 2)
	assert.False(t, result.Charts[0].Empty)
	assert.True(t, result.Charts[1].Empty)
	assert.Contains(t, result.Charts[1].Reason, "NOT_THERE")
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	tests := []struct {
		name     string
		tool     string
		args     map[string]any
		contains string
	}{
		{"invalid period", "get_trend", map[string]any{"period": "Last 7 days"}, "invalid period"},
		{"invalid granularity", "get_trend", map[string]any{"granularity": "quarter"}, "invalid granularity"},
		{"unsupported input", "get_trend", map[string]any{"input_path": "leads.txt"}, "unsupported input file"},
		{"top without column", "get_top_values", map[string]any{}, "column is required"},
		{"top limit too large", "get_top_values", map[string]any{"column": "SOURCE", "limit": 5000.0}, "limit cannot exceed"},
		{"scores without columns", "get_score_trend", map[string]any{"columns": " , "}, "columns is required"},
		{"unknown page", "get_dashboard", map[string]any{"page": "home"}, "page must be"},
		{"period outside page selector", "get_dashboard", map[string]any{"page": "overview", "period": "All Time"}, "not offered"},
		{"missing input file", "get_trend", map[string]any{"input_path": "/nope/leads.csv"}, "dashboard failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := callTool(t, newBaseConfig(t), tt.tool, tt.args)
			assert.True(t, res.IsError, "The response should indicate an error state")
			assert.Contains(t, resultText(res), tt.contains)
		})
	}
}
