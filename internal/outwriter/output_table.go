package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/riskboard/internal/contract"
	"github.com/huangsam/riskboard/internal/parquet"
	"github.com/huangsam/riskboard/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintTableResults outputs the bug table, dispatching based on the output format configured.
func PrintTableResults(rows []schema.TableRow, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, rows)
		}, "Wrote JSON table"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForRows(w, rows)
		}, "Wrote CSV table"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := parquet.WriteBugRowsParquet(parquet.ConvertTableRows(rows), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		fmt.Fprintf(os.Stderr, "💾 Wrote Parquet table to %s\n", cfg.OutputFile)
	case schema.HTMLOut:
		return fmt.Errorf("html output is only available for the dashboard")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if err := writeRowsTable(w, rows, cfg); err != nil {
				return err
			}
			_, err := fmt.Fprintf(w, "Showing %d bugs sorted by %s %s. Built in %v\n", len(rows), cfg.SortKey, cfg.Direction, duration)
			return err
		}, "Wrote table")
	}
	return nil
}

// writeRowsTable renders the bug table.
func writeRowsTable(w io.Writer, rows []schema.TableRow, cfg *contract.Config) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Bug", "Summary", "Date", "Testing", "Coverage", "Risk", "Components"})

	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	summaryWidth := GetMaxTableSummaryWidth(cfg)
	var data [][]string
	for _, r := range rows {
		risk := r.Risk
		if cfg.UseColors {
			colored, err := contract.GetColorRiskLabel(r.RiskBand)
			if err != nil {
				return fmt.Errorf("bug %d: %w", r.ID, err)
			}
			risk = colored
		}
		data = append(data, []string{
			strconv.Itoa(r.ID),
			contract.TruncateText(r.Summary, summaryWidth),
			r.Date,
			strings.Join(r.TestingTags, " "),
			r.Coverage,
			risk,
			formatComponents(r.Components, "\n"),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeCSVResultsForRows writes the bug table in CSV format.
func writeCSVResultsForRows(w io.Writer, rows []schema.TableRow) error {
	header := []string{"bug", "summary", "date", "testing", "coverage", "risk_band", "risk", "components"}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for _, r := range rows {
			rec := []string{
				strconv.Itoa(r.ID),
				r.Summary,
				r.Date,
				strings.Join(r.TestingTags, "|"),
				r.Coverage,
				string(r.RiskBand),
				r.Risk,
				formatComponents(r.Components, "|"),
			}
			if err := csvWriter.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

func formatComponents(components []schema.ComponentShare, sep string) string {
	parts := make([]string, len(components))
	for i, c := range components {
		parts[i] = c.String()
	}
	return strings.Join(parts, sep)
}
