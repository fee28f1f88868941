package iocache

import (
	"context"
	"errors"
	"fmt"

	"github.com/huangsam/riskboard/internal/contract"
	"github.com/huangsam/riskboard/internal/parquet"
)

// ExportRecords writes the latest version of every stored bug to a Parquet file.
func ExportRecords(ctx context.Context, store contract.RecordStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	status, err := store.GetStatus(ctx)
	if err != nil {
		return fmt.Errorf("failed to get store status: %w", err)
	}
	if status.TotalImports == 0 {
		return errors.New("no imported records found to export")
	}

	records, err := store.LoadRecords(ctx)
	if err != nil {
		return fmt.Errorf("failed to load records: %w", err)
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	rows := parquet.ConvertRecords(records)
	if err := parquet.WriteRecordRowsParquet(rows, outputFile); err != nil {
		return fmt.Errorf("failed to write records: %w", err)
	}
	fmt.Printf("Exported %d bugs to: %s\n", len(rows), outputFile)
	return nil
}
