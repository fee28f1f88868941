// Package outwriter has output and writer logic.
package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/huangsam/riskboard/internal/contract"
	"github.com/huangsam/riskboard/schema"
)

// PrintBucketsResults outputs bucket labels. Text and CSV print one label per line.
func PrintBucketsResults(result *schema.BucketsResult, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON buckets")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"bucket"}, func(csvWriter *csv.Writer) error {
				for _, label := range result.Labels {
					if err := csvWriter.Write([]string{label}); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV buckets")
	case schema.TextOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			for _, label := range result.Labels {
				if _, err := fmt.Fprintln(w, label); err != nil {
					return err
				}
			}
			return nil
		}, "Wrote buckets")
	default:
		return fmt.Errorf("%s output is not available for buckets", cfg.Output)
	}
}
