// Package cmd defines the command-line interface for riskboard.
package cmd

import (
	"github.com/huangsam/riskboard/internal/contract"
	"github.com/huangsam/riskboard/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(tableCmd)
	rootCmd.AddCommand(bucketsCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the store subcommands to the parent store command
	storeCmd.AddCommand(storeStatusCmd)
	storeCmd.AddCommand(storeClearCmd)
	storeCmd.AddCommand(storeExportCmd)
	storeCmd.AddCommand(storeMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("input", "i", "", "Path to a JSON or YAML file of bug records")
	rootCmd.PersistentFlags().String("source", string(schema.FileSource), "Record source: file or store")
	rootCmd.PersistentFlags().StringP("grouping", "g", string(schema.WeekGranularity), "Bucket size: day or week or month")
	rootCmd.PersistentFlags().String("week-start", "monday", "First day of a week bucket")
	rootCmd.PersistentFlags().String("sort", string(schema.SortByDate), "Sort key: Date or Riskiness or Bug or Coverage")
	rootCmd.PersistentFlags().String("direction", string(schema.Descending), "Sort direction: ASC or DESC")
	rootCmd.PersistentFlags().String("today", "", "Treat this date as today, in ISO8601 or time ago")
	rootCmd.PersistentFlags().String("start", "", "Only keep bugs created on or after this date, in ISO8601 or time ago")
	rootCmd.PersistentFlags().String("end", "", "Only keep bugs created on or before this date, in ISO8601 or time ago")
	rootCmd.PersistentFlags().Int("meta-bug", 0, "Only keep bugs that block this feature meta bug")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet or html")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of table rows to display (0 = all)")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("store-backend", string(schema.SQLiteBackend), "Record store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("store-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of dashboardCmd to Viper
	dashboardCmd.Flags().Bool("details", false, "Show the bug table below the charts")
	if err := viper.BindPFlags(dashboardCmd.Flags()); err != nil {
		contract.LogFatal("Error binding dashboard flags", err)
	}

	// Bind all flags of bucketsCmd to Viper
	bucketsCmd.Flags().String("min", "", "First date, in ISO8601 or time ago")
	bucketsCmd.Flags().String("max", "", "Last date, in ISO8601 or time ago (default today)")
	if err := viper.BindPFlags(bucketsCmd.Flags()); err != nil {
		contract.LogFatal("Error binding buckets flags", err)
	}

	// Bind all flags of storeMigrateCmd to Viper
	storeMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(storeMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding store migrate flags", err)
	}
}
