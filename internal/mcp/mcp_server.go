// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/riskboard/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the riskboard MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, src contract.RecordSource) *server.MCPServer {
	s := server.NewMCPServer(
		"Riskboard Dashboard Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		src:     src,
	}

	// --- 1. Tool: get_dashboard ---
	s.AddTool(mcp.NewTool("get_dashboard",
		mcp.WithDescription("Build the bug risk dashboard: summary, time-bucketed charts and optionally the bug table."),
		mcp.WithString("grouping", mcp.Description("Bucket size for the charts. Defaults to the configured grouping."), mcp.Enum("day", "week", "month")),
		mcp.WithBoolean("details", mcp.Description("Include the sorted bug table.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of table rows.")),
	), h.handleGetDashboard)

	// --- 2. Tool: get_sorted_bugs ---
	s.AddTool(mcp.NewTool("get_sorted_bugs",
		mcp.WithDescription("Return resolved bugs as table rows in the requested order."),
		mcp.WithString("sort", mcp.Description("Sort key (Date, Riskiness, Bug, Coverage)."), mcp.Enum("Date", "Riskiness", "Bug", "Coverage")),
		mcp.WithString("direction", mcp.Description("Sort direction (ASC, DESC)."), mcp.Enum("ASC", "DESC")),
		mcp.WithBoolean("toggle", mcp.Description("Treat sort as a clicked column header: flip the direction when it is already the active key.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of rows.")),
	), h.handleGetSortedBugs)

	// --- 3. Tool: get_buckets ---
	s.AddTool(mcp.NewTool("get_buckets",
		mcp.WithDescription("List the bucket labels covering a date range."),
		mcp.WithString("min_date", mcp.Description("First date, as YYYY-MM-DD or 'N [units] ago'."), mcp.Required()),
		mcp.WithString("max_date", mcp.Description("Last date. Defaults to today.")),
		mcp.WithString("grouping", mcp.Description("Bucket size."), mcp.Enum("day", "week", "month")),
	), h.handleGetBuckets)

	return s
}

// StartMCPServer starts the riskboard MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, src contract.RecordSource) error {
	s := NewMCPServer(baseCfg, src)
	return server.ServeStdio(s)
}
