// Package core has core logic for bucketing, ranking and rendering the risk dashboard.
package core

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/riskboard/core/agg"
	"github.com/huangsam/riskboard/core/algo"
	"github.com/huangsam/riskboard/internal/contract"
	"github.com/huangsam/riskboard/internal/outwriter"
	"github.com/huangsam/riskboard/schema"
)

// ExecutorFunc defines the function signature for executing the different commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, src contract.RecordSource) error

// ExecuteDashboard renders the summary and every chart, plus the bug table when
// details are requested. It serves as the main entry point for the 'dashboard' command.
func ExecuteDashboard(ctx context.Context, cfg *contract.Config, src contract.RecordSource) error {
	start := time.Now()
	result, err := GetDashboardResults(ctx, cfg, src)
	if err != nil {
		return err
	}
	return outwriter.PrintDashboardResults(result, cfg, time.Since(start))
}

// ExecuteTable renders the sorted bug table only.
func ExecuteTable(ctx context.Context, cfg *contract.Config, src contract.RecordSource) error {
	start := time.Now()
	rows, err := GetTableResults(ctx, cfg, src)
	if err != nil {
		return err
	}
	return outwriter.PrintTableResults(rows, cfg, time.Since(start))
}

// GetDashboardResults loads records from the source and builds the dashboard.
func GetDashboardResults(ctx context.Context, cfg *contract.Config, src contract.RecordSource) (*schema.DashboardResult, error) {
	records, err := src.LoadRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading records: %w", err)
	}
	return BuildDashboard(records, cfg)
}

// GetTableResults loads records from the source and returns the sorted table rows.
func GetTableResults(ctx context.Context, cfg *contract.Config, src contract.RecordSource) ([]schema.TableRow, error) {
	records, err := src.LoadRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading records: %w", err)
	}
	sorted, err := algo.SortRecords(records, cfg.SortKey, cfg.Direction)
	if err != nil {
		return nil, err
	}
	return BuildRows(sorted, cfg.ResultLimit)
}

// BuildDashboard sorts the records, then computes the summary, the charts and,
// when cfg.Details is set, the table rows. Charts with nothing to draw are left out.
func BuildDashboard(records []schema.Record, cfg *contract.Config) (*schema.DashboardResult, error) {
	b, err := newBucketer(cfg)
	if err != nil {
		return nil, err
	}
	sorted, err := algo.SortRecords(records, cfg.SortKey, cfg.Direction)
	if err != nil {
		return nil, err
	}

	result := &schema.DashboardResult{
		Grouping:  cfg.Grouping,
		SortKey:   cfg.SortKey,
		Direction: cfg.Direction,
		Today:     b.Today(),
		Summary:   BuildSummary(sorted, cfg.MetaBug),
		Charts:    []schema.Chart{},
	}
	for _, builder := range Builders() {
		chart, err := builder.Build(sorted, b)
		if err != nil {
			return nil, fmt.Errorf("building %s chart: %w", builder.ID(), err)
		}
		if chart != nil {
			result.Charts = append(result.Charts, *chart)
		}
	}

	if cfg.Details {
		rows, err := BuildRows(sorted, cfg.ResultLimit)
		if err != nil {
			return nil, err
		}
		result.Rows = rows
	}
	return result, nil
}

// GetBuckets lists the bucket labels between two dates. A zero maxDate means today.
func GetBuckets(cfg *contract.Config, minDate, maxDate schema.Date) (*schema.BucketsResult, error) {
	b, err := newBucketer(cfg)
	if err != nil {
		return nil, err
	}
	labels, err := b.Enumerate(minDate, maxDate)
	if err != nil {
		return nil, err
	}
	return &schema.BucketsResult{Grouping: cfg.Grouping, Labels: labels}, nil
}

func newBucketer(cfg *contract.Config) (*agg.Bucketer, error) {
	return agg.NewBucketer(cfg.Grouping, agg.WithWeekStart(cfg.WeekStart), agg.WithToday(cfg.Today))
}

// ExecuteBuckets prints the bucket labels between two dates.
func ExecuteBuckets(cfg *contract.Config, minDate, maxDate schema.Date) error {
	result, err := GetBuckets(cfg, minDate, maxDate)
	if err != nil {
		return err
	}
	return outwriter.PrintBucketsResults(result, cfg)
}
