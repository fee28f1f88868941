package cmd

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/huangsam/riskboard/internal/contract"
	"github.com/huangsam/riskboard/internal/iocache"
	"github.com/huangsam/riskboard/internal/source"
	"github.com/spf13/cobra"
)

// importCmd loads a records file into the store.
var importCmd = &cobra.Command{
	Use:   "import <records-file>",
	Short: "Import a JSON or YAML records file into the record store.",
	Long: `Store every record of a file as one new import batch.

Reading with --source store returns the latest imported version of each bug,
so re-importing an updated export replaces older data without a clear.

Examples:
  # Import into the default SQLite store
  riskboard import records.json

  # Import into PostgreSQL (set connection string via env variable)
  RISKBOARD_STORE_BACKEND=postgresql RISKBOARD_STORE_DB_CONNECT="..." riskboard import records.yaml`,
	Args:    cobra.ExactArgs(1),
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		records, err := source.ReadRecordsFile(args[0])
		if err != nil {
			contract.LogFatal("Failed to read records", err)
		}
		importID, err := iocache.Manager.GetRecordStore().ImportRecords(rootCtx, records)
		if err != nil {
			contract.LogFatal("Failed to import records", err)
		}
		fmt.Fprintf(os.Stderr, "💾 Imported %s records from %s as %s\n", humanize.Comma(int64(len(records))), args[0], importID)
	},
}
