package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/riskboard/core"
	"github.com/huangsam/riskboard/internal/contract"
	"github.com/huangsam/riskboard/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	src     contract.RecordSource
}

// sortedBugs is the payload of get_sorted_bugs.
type sortedBugs struct {
	Sort contract.SortState `json:"sort"`
	Rows []schema.TableRow  `json:"rows"`
}

// applyGrouping overrides the grouping when the request sets one.
func applyGrouping(cfg *contract.Config, request mcp.CallToolRequest) error {
	g := request.GetString("grouping", "")
	if g == "" {
		return nil
	}
	grouping, err := schema.ParseGranularity(g)
	if err != nil {
		return err
	}
	cfg.Grouping = grouping
	return nil
}

func (h *toolHandler) handleGetDashboard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if err := applyGrouping(cfg, request); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid dashboard parameters: %v", err)), nil
	}
	cfg.Details = request.GetBool("details", cfg.Details)
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = l
	}

	result, err := core.GetDashboardResults(ctx, cfg, h.src)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("dashboard failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetSortedBugs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	state := contract.SortState{Key: cfg.SortKey, Direction: cfg.Direction}

	if s := request.GetString("sort", ""); s != "" {
		key, err := schema.ParseSortKey(s)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid sort parameters: %v", err)), nil
		}
		if request.GetBool("toggle", false) {
			state = contract.NextSort(state, key)
		} else {
			state.Key = key
		}
	}
	if d := request.GetString("direction", ""); d != "" {
		dir, err := schema.ParseDirection(d)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid sort parameters: %v", err)), nil
		}
		state.Direction = dir
	}
	cfg.SortKey, cfg.Direction = state.Key, state.Direction
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = l
	}

	rows, err := core.GetTableResults(ctx, cfg, h.src)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("sorting failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(sortedBugs{Sort: state, Rows: rows}, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetBuckets(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if err := applyGrouping(cfg, request); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid bucket parameters: %v", err)), nil
	}

	now := time.Now()
	minStr := request.GetString("min_date", "")
	if minStr == "" {
		return mcp.NewToolResultError("min_date is required"), nil
	}
	minDate, err := contract.ParseDateInput(minStr, now)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid min_date: %v", err)), nil
	}
	var maxDate schema.Date
	if maxStr := request.GetString("max_date", ""); maxStr != "" {
		if maxDate, err = contract.ParseDateInput(maxStr, now); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid max_date: %v", err)), nil
		}
	}

	result, err := core.GetBuckets(cfg, minDate, maxDate)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("bucketing failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
