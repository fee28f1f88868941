// Package parquet provides data structures and functions for exporting riskboard
// data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"strings"

	"github.com/huangsam/riskboard/core/algo"
	"github.com/huangsam/riskboard/schema"
	"github.com/parquet-go/parquet-go"
)

// SeriesPoint is one point of one chart series, in long format.
type SeriesPoint struct {
	// Chart is the chart identifier, e.g. "risk"
	Chart string `parquet:"chart,snappy"`

	// Series is the display name of the series
	Series string `parquet:"series,snappy"`

	// Category is the bucket label the point belongs to
	Category string `parquet:"category,snappy"`

	// Value is null when the bucket has no value
	Value *float64 `parquet:"value,optional,snappy"`
}

// BugRow is one row of the bug table.
type BugRow struct {
	BugID       int64   `parquet:"bug_id,snappy"`
	Summary     string  `parquet:"summary,snappy"`
	Date        string  `parquet:"date,snappy"`
	TestingTags string  `parquet:"testing_tags,snappy"`
	Coverage    *string `parquet:"coverage,optional,snappy"`
	RiskBand    *string `parquet:"risk_band,optional,snappy"`
	Components  string  `parquet:"components,snappy"`
}

// RecordRow is a flattened bug record, as held by the record store.
type RecordRow struct {
	// BugID is the bug identifier
	BugID int64 `parquet:"bug_id,snappy"`

	Summary      string  `parquet:"summary,snappy"`
	CreationDate string  `parquet:"creation_date,snappy"`
	ResolvedDate *string `parquet:"resolved_date,optional,snappy"`
	Regression   bool    `parquet:"regression,snappy"`
	Fixed        bool    `parquet:"fixed,snappy"`

	// Types is a comma separated list of bug types
	Types    string  `parquet:"types,snappy"`
	RiskBand *string `parquet:"risk_band,optional,snappy"`

	TimeToBug     *float64 `parquet:"time_to_bug,optional,snappy"`
	TimeToConfirm *float64 `parquet:"time_to_confirm,optional,snappy"`

	// Changesets is the number of commits landed for the bug
	Changesets     int32 `parquet:"changesets,snappy"`
	LinesAdded     int32 `parquet:"lines_added,snappy"`
	LinesCovered   int32 `parquet:"lines_covered,snappy"`
	LinesUncovered int32 `parquet:"lines_uncovered,snappy"`
}

// writeParquet writes a slice of rows to a Parquet file, inferring the schema
// from the struct tags of T.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteSeriesPointsParquet writes chart points to a Parquet file.
func WriteSeriesPointsParquet(data []SeriesPoint, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteBugRowsParquet writes table rows to a Parquet file.
func WriteBugRowsParquet(data []BugRow, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteRecordRowsParquet writes flattened records to a Parquet file.
func WriteRecordRowsParquet(data []RecordRow, outputPath string) error {
	return writeParquet(data, outputPath)
}

// ConvertCharts flattens charts into one point per series and category.
func ConvertCharts(charts []schema.Chart) []SeriesPoint {
	var points []SeriesPoint
	for _, chart := range charts {
		for _, series := range chart.Series {
			for i, category := range chart.Categories {
				var value *float64
				if i < len(series.Data) {
					value = series.Data[i]
				}
				points = append(points, SeriesPoint{
					Chart:    string(chart.ID),
					Series:   series.Name,
					Category: category,
					Value:    value,
				})
			}
		}
	}
	return points
}

// ConvertTableRows converts table rows to their Parquet form.
func ConvertTableRows(rows []schema.TableRow) []BugRow {
	result := make([]BugRow, len(rows))
	for i, row := range rows {
		components := make([]string, len(row.Components))
		for j, c := range row.Components {
			components[j] = c.String()
		}
		result[i] = BugRow{
			BugID:       int64(row.ID),
			Summary:     row.Summary,
			Date:        row.Date,
			TestingTags: strings.Join(row.TestingTags, ","),
			Coverage:    optionalString(row.Coverage),
			RiskBand:    optionalString(string(row.RiskBand)),
			Components:  strings.Join(components, ","),
		}
	}
	return result
}

// ConvertRecords flattens records to their Parquet form.
func ConvertRecords(records []schema.Record) []RecordRow {
	result := make([]RecordRow, len(records))
	for i := range records {
		r := &records[i]
		types := make([]string, len(r.Types))
		for j, t := range r.Types {
			types[j] = string(t)
		}
		added, covered, _ := algo.SummarizeCoverage(r)
		row := RecordRow{
			BugID:          int64(r.ID),
			Summary:        r.Summary,
			CreationDate:   r.CreationDate.String(),
			Regression:     r.Regression,
			Fixed:          r.Fixed,
			Types:          strings.Join(types, ","),
			RiskBand:       optionalString(string(r.RiskBand)),
			TimeToBug:      r.TimeToBug,
			TimeToConfirm:  r.TimeToConfirm,
			Changesets:     int32(len(r.Commits)),
			LinesAdded:     int32(added),
			LinesCovered:   int32(covered),
			LinesUncovered: int32(algo.Uncovered(r)),
		}
		if r.IsResolved() {
			row.ResolvedDate = optionalString(r.Date.String())
		}
		result[i] = row
	}
	return result
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
