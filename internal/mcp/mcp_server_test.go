package mcp_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/huangsam/riskboard/internal/contract"
	mcp_internal "github.com/huangsam/riskboard/internal/mcp"
	"github.com/huangsam/riskboard/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func baseConfig() *contract.Config {
	return &contract.Config{
		Grouping:  schema.MonthGranularity,
		WeekStart: time.Monday,
		SortKey:   schema.SortByBug,
		Direction: schema.Descending,
		Today:     schema.MustParseDate("2024-03-15"),
		Output:    schema.JSONOut,
		Precision: 1,
	}
}

func resolved(id int, created, fixed string) schema.Record {
	date := schema.MustParseDate(fixed)
	return schema.Record{
		ID:           id,
		Summary:      "bug",
		CreationDate: schema.MustParseDate(created),
		Date:         &date,
		Fixed:        true,
		RiskBand:     schema.LowerRisk,
		Commits:      []schema.Commit{{Testing: schema.TestingApproved}},
	}
}

func callTool(t *testing.T, src contract.RecordSource, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	s := mcp_internal.NewMCPServer(baseConfig(), src)
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

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	// The source is never hit because validation fails first
	src := &contract.MockRecordSource{}

	t.Run("get_dashboard invalid grouping", func(t *testing.T) {
		res := callTool(t, src, "get_dashboard", map[string]any{"grouping": "fortnight"})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(res), "invalid dashboard parameters")
	})

	t.Run("get_sorted_bugs invalid sort", func(t *testing.T) {
		res := callTool(t, src, "get_sorted_bugs", map[string]any{"sort": "Owner"})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(res), "invalid sort parameters")
	})

	t.Run("get_sorted_bugs invalid direction", func(t *testing.T) {
		res := callTool(t, src, "get_sorted_bugs", map[string]any{"direction": "UP"})
		assert.True(t, res.IsError)
	})

	t.Run("get_buckets missing min_date", func(t *testing.T) {
		res := callTool(t, src, "get_buckets", map[string]any{})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(res), "min_date is required")
	})

	t.Run("get_buckets invalid max_date", func(t *testing.T) {
		res := callTool(t, src, "get_buckets", map[string]any{"min_date": "2024-01-01", "max_date": "soon"})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(res), "invalid max_date")
	})

	src.AssertNotCalled(t, "LoadRecords", mock.Anything)
}

func TestMCPServerHandlers_Results(t *testing.T) {
	records := []schema.Record{
		resolved(1, "2024-01-02", "2024-01-10"),
		resolved(2, "2024-02-02", "2024-02-20"),
	}

	t.Run("get_dashboard with details", func(t *testing.T) {
		src := &contract.MockRecordSource{}
		src.On("LoadRecords", mock.Anything).Return(records, nil)

		res := callTool(t, src, "get_dashboard", map[string]any{"details": true, "limit": 1.0})
		require.False(t, res.IsError, resultText(res))

		var result schema.DashboardResult
		require.NoError(t, json.Unmarshal([]byte(resultText(res)), &result))
		assert.Equal(t, 2, result.Summary.Bugs)
		require.Len(t, result.Rows, 1)
		assert.Equal(t, 2, result.Rows[0].ID)
		src.AssertExpectations(t)
	})

	t.Run("get_sorted_bugs toggles the active key", func(t *testing.T) {
		src := &contract.MockRecordSource{}
		src.On("LoadRecords", mock.Anything).Return(records, nil)

		res := callTool(t, src, "get_sorted_bugs", map[string]any{"sort": "Bug", "toggle": true})
		require.False(t, res.IsError, resultText(res))

		var payload struct {
			Sort contract.SortState `json:"sort"`
			Rows []schema.TableRow  `json:"rows"`
		}
		require.NoError(t, json.Unmarshal([]byte(resultText(res)), &payload))
		assert.Equal(t, contract.SortState{Key: schema.SortByBug, Direction: schema.Ascending}, payload.Sort)
		require.Len(t, payload.Rows, 2)
		assert.Equal(t, 1, payload.Rows[0].ID)
	})

	t.Run("get_sorted_bugs source failure", func(t *testing.T) {
		src := &contract.MockRecordSource{}
		src.On("LoadRecords", mock.Anything).Return(nil, assert.AnError)

		res := callTool(t, src, "get_sorted_bugs", map[string]any{})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(res), "sorting failed")
	})

	t.Run("get_buckets", func(t *testing.T) {
		res := callTool(t, &contract.MockRecordSource{}, "get_buckets", map[string]any{
			"min_date": "2024-01-10",
			"max_date": "2024-03-01",
		})
		require.False(t, res.IsError, resultText(res))

		var result schema.BucketsResult
		require.NoError(t, json.Unmarshal([]byte(resultText(res)), &result))
		assert.Equal(t, []string{"2024-01-01", "2024-02-01", "2024-03-01"}, result.Labels)
	})
}
