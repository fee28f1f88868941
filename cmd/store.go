package cmd

import (
	"fmt"

	"github.com/huangsam/riskboard/internal/contract"
	"github.com/huangsam/riskboard/internal/iocache"
	"github.com/huangsam/riskboard/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// storeConfigWrapper loads store settings without opening a connection.
// Clear and migrate must work on a database the store cannot open yet.
func storeConfigWrapper(_ *cobra.Command, _ []string) error {
	if err := storeConfig(); err != nil {
		return err
	}
	if cfg.StoreBackend == schema.SQLiteBackend && cfg.StoreDBConnect == "" {
		cfg.StoreDBConnect = iocache.GetDBFilePath()
	}
	return nil
}

// storeCmd focused on record store management.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the record store",
	Long: `Manage the SQL store that keeps imported bug records.

Supported backends: SQLite (default), MySQL, PostgreSQL

Subcommands:
  status  - Show record counts and import history
  clear   - Remove all imported records
  export  - Export the latest records to Parquet
  migrate - Run database schema migrations

Examples:
  # Check store status
  riskboard store status

  # Export for analysis in pandas/DuckDB
  riskboard store export --output-file records.parquet`,
}

// storeStatusCmd shows store status.
var storeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display record counts and import history",
	Long: `Show the backend, the number of stored rows and distinct bugs, and when the
first and latest imports happened.

Examples:
  # Check store status
  riskboard store status`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetRecordStore().GetStatus(rootCtx)
		if err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
		iocache.PrintStoreStatus(status)
	},
}

// storeClearCmd clears the store.
var storeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all imported records",
	Long: `Delete every import batch from the configured backend.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the store tables

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  # Export before clearing
  riskboard store export --output-file backup.parquet
  riskboard store clear`,
	PreRunE: storeConfigWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearStore(cfg.StoreBackend, cfg.StoreDBConnect, cfg.StoreDBConnect); err != nil {
			contract.LogFatal("Failed to clear store", err)
		}
		fmt.Println("Record store cleared successfully.")
	},
}

// storeExportCmd exports the latest records to a Parquet file.
var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the latest records to Parquet for BI tools and analytics",
	Long: `Export the latest imported version of each bug to one Parquet file.

Requires: --output-file parameter

Examples:
  # Export all bugs
  riskboard store export --output-file records.parquet

  # Use with DuckDB for analysis
  duckdb -c "SELECT risk_band, count(*) FROM read_parquet('records.parquet') GROUP BY 1"`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExportRecords(rootCtx, iocache.Manager.GetRecordStore(), cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export records", err)
		}
	},
}

// storeMigrateCmd runs database migrations for the record store.
var storeMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the record store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  riskboard store migrate

  # Rollback to the initial state
  riskboard store migrate --target-version 0`,
	PreRunE: storeConfigWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateRecords(cfg.StoreBackend, cfg.StoreDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
