package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/riskboard/internal/contract"
	"github.com/huangsam/riskboard/internal/parquet"
	"github.com/huangsam/riskboard/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintDashboardResults outputs the dashboard, dispatching based on the output format configured.
func PrintDashboardResults(result *schema.DashboardResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, fmtPoint := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON dashboard"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForCharts(w, result.Charts, fmtPoint)
		}, "Wrote CSV dashboard"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeParquetDashboard(result, cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	case schema.HTMLOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeHTMLDashboard(w, result)
		}, "Wrote HTML dashboard"); err != nil {
			return fmt.Errorf("error writing HTML output: %w", err)
		}
	default:
		// Default to human-readable tables
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeDashboardTables(w, result, cfg, fmtFloat, fmtPoint, duration)
		}, "Wrote dashboard")
	}
	return nil
}

// writeCSVResultsForCharts writes every chart point in long format.
func writeCSVResultsForCharts(w io.Writer, charts []schema.Chart, fmtPoint func(*float64) string) error {
	header := []string{"chart", "series", "category", "value"}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for _, chart := range charts {
			for _, series := range chart.Series {
				for i, category := range chart.Categories {
					var value *float64
					if i < len(series.Data) {
						value = series.Data[i]
					}
					if err := csvWriter.Write([]string{string(chart.ID), series.Name, category, fmtPoint(value)}); err != nil {
						return err
					}
				}
			}
		}
		return nil
	})
}

// writeParquetDashboard writes chart points to outputFile and, when the dashboard
// has rows, the rows next to it.
func writeParquetDashboard(result *schema.DashboardResult, outputFile string) error {
	if err := parquet.WriteSeriesPointsParquet(parquet.ConvertCharts(result.Charts), outputFile); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote Parquet dashboard to %s\n", outputFile)

	if result.Rows == nil {
		return nil
	}
	rowsFile := outputFile + ".rows.parquet"
	if err := parquet.WriteBugRowsParquet(parquet.ConvertTableRows(result.Rows), rowsFile); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote Parquet rows to %s\n", rowsFile)
	return nil
}

// writeDashboardTables prints the summary, one table per chart, and the bug table
// when rows were requested.
func writeDashboardTables(w io.Writer, result *schema.DashboardResult, cfg *contract.Config,
	fmtFloat func(float64) string, fmtPoint func(*float64) string, duration time.Duration,
) error {
	if _, err := fmt.Fprintln(w, result.Summary.Text); err != nil {
		return err
	}
	if result.Summary.MedianFixDays != nil {
		if _, err := fmt.Fprintf(w, "Fix time in days: median %s, p90 %s\n",
			fmtFloat(*result.Summary.MedianFixDays), fmtFloat(*result.Summary.P90FixDays)); err != nil {
			return err
		}
	}

	for _, chart := range result.Charts {
		if _, err := fmt.Fprintf(w, "\n%s (%s)\n", chart.Title, chart.YAxisLabel); err != nil {
			return err
		}
		if err := writeChartTable(w, chart, fmtPoint); err != nil {
			return err
		}
	}

	if result.Rows != nil {
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
		if err := writeRowsTable(w, result.Rows, cfg); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "Dashboard built in %v grouped by %s. Record source: %s\n", duration, result.Grouping, cfg.Source)
	return err
}

// writeChartTable renders a chart as a table with one row per category.
func writeChartTable(w io.Writer, chart schema.Chart, fmtPoint func(*float64) string) error {
	table := tablewriter.NewWriter(w)

	headers := []string{"Period"}
	if chart.ID == schema.TestingChart {
		headers[0] = "Tag"
	}
	for _, series := range chart.Series {
		headers = append(headers, series.Name)
	}
	table.Header(headers)

	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i, category := range chart.Categories {
		row := []string{category}
		for _, series := range chart.Series {
			cell := nullPoint
			if i < len(series.Data) && series.Data[i] != nil {
				cell = fmtPoint(series.Data[i])
			}
			row = append(row, cell)
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
