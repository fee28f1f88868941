package contract

import (
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/riskboard/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit = 0 // all rows
	MaxResultLimit     = 10000
	DefaultPrecision   = 1
)

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for a dashboard run.
// This struct remains the "final, validated" config.
type Config struct {
	InputFile string
	Source    schema.SourceKind

	Grouping  schema.Granularity
	WeekStart time.Weekday
	SortKey   schema.SortKey
	Direction schema.Direction
	Today     schema.Date

	// StartDate and EndDate bound the creation date of loaded records. Zero means unbounded.
	StartDate schema.Date
	EndDate   schema.Date
	MetaBug   int

	Output      schema.OutputMode
	OutputFile  string
	Precision   int
	ResultLimit int
	Width       int // Terminal width override (0 = auto-detect)
	Details     bool
	UseColors   bool

	StoreBackend   schema.DatabaseBackend
	StoreDBConnect string // Please use env var as this is plaintext
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Input          string `mapstructure:"input"`
	Source         string `mapstructure:"source"`
	Grouping       string `mapstructure:"grouping"`
	WeekStart      string `mapstructure:"week-start"`
	Sort           string `mapstructure:"sort"`
	Direction      string `mapstructure:"direction"`
	Today          string `mapstructure:"today"`
	Start          string `mapstructure:"start"`
	End            string `mapstructure:"end"`
	MetaBug        int    `mapstructure:"meta-bug"`
	Output         string `mapstructure:"output"`
	OutputFile     string `mapstructure:"output-file"`
	Precision      int    `mapstructure:"precision"`
	Limit          int    `mapstructure:"limit"`
	Width          int    `mapstructure:"width"`
	Color          string `mapstructure:"color"`
	StoreBackend   string `mapstructure:"store-backend"`
	StoreDBConnect string `mapstructure:"store-db-connect"`

	// --- Fields from dashboardCmd.Flags() ---
	Details bool `mapstructure:"details"`
}

// Clone returns a copy of the Config struct. Config holds no reference types.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processOrdering(cfg, input); err != nil {
		return err
	}
	if err := processDates(cfg, input, time.Now()); err != nil {
		return err
	}
	if err := validateSource(cfg, input); err != nil {
		return err
	}
	return nil
}

// ProcessStoreConfig validates only the store settings, for commands that never
// render a dashboard.
func ProcessStoreConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.StoreBackend = schema.DatabaseBackend(strings.ToLower(input.StoreBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.StoreBackend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", input.StoreBackend)
	}
	cfg.StoreDBConnect = input.StoreDBConnect
	return ValidateDatabaseConnectionString(cfg.StoreBackend, cfg.StoreDBConnect)
}

// ProcessBucketConfig validates only what the bucketer needs: grouping,
// week start and today.
func ProcessBucketConfig(cfg *Config, input *ConfigRawInput) error {
	if err := processOrdering(cfg, input); err != nil {
		return err
	}
	if err := processDates(cfg, input, time.Now()); err != nil {
		return err
	}
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if cfg.Output == schema.ParquetOut || cfg.Output == schema.HTMLOut {
		return fmt.Errorf("%s output is not available for buckets", cfg.Output)
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateSimpleInputs processes and validates the output and display fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Details = input.Details
	cfg.Width = input.Width

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Limit < 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be between 0 and %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	if input.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", input.Width)
	}

	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet, html", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("--output-file is required for parquet output")
	}

	if input.MetaBug < 0 {
		return fmt.Errorf("meta-bug must be a positive bug ID (received %d)", input.MetaBug)
	}
	cfg.MetaBug = input.MetaBug
	return nil
}

// processOrdering handles grouping, week start, sort key and direction.
func processOrdering(cfg *Config, input *ConfigRawInput) error {
	grouping, err := schema.ParseGranularity(input.Grouping)
	if err != nil {
		return err
	}
	cfg.Grouping = grouping

	weekStart, err := schema.ParseWeekday(input.WeekStart)
	if err != nil {
		return fmt.Errorf("invalid --week-start value: %w", err)
	}
	cfg.WeekStart = weekStart

	// The core treats an unknown key as a no-op. Reject it here so typos are visible.
	key, err := schema.ParseSortKey(input.Sort)
	if err != nil {
		return err
	}
	cfg.SortKey = key

	dir, err := schema.ParseDirection(input.Direction)
	if err != nil {
		return err
	}
	cfg.Direction = dir
	return nil
}

// processDates handles --today and the --start/--end creation window.
func processDates(cfg *Config, input *ConfigRawInput, now time.Time) error {
	cfg.Today = schema.DateOf(now)
	if input.Today != "" {
		d, err := ParseDateInput(input.Today, now)
		if err != nil {
			return fmt.Errorf("invalid today date format for '%s'. Expected ISO date or 'N [units] ago': %w", input.Today, err)
		}
		cfg.Today = d
	}

	cfg.StartDate, cfg.EndDate = schema.Date{}, schema.Date{}
	if input.Start != "" {
		d, err := ParseDateInput(input.Start, now)
		if err != nil {
			return fmt.Errorf("invalid start date format for '%s'. Expected ISO date or 'N [units] ago': %w", input.Start, err)
		}
		cfg.StartDate = d
	}
	if input.End != "" {
		d, err := ParseDateInput(input.End, now)
		if err != nil {
			return fmt.Errorf("invalid end date format for '%s'. Expected ISO date or 'N [units] ago': %w", input.End, err)
		}
		cfg.EndDate = d
	}

	if !cfg.StartDate.IsZero() && !cfg.EndDate.IsZero() && cfg.StartDate.After(cfg.EndDate) {
		return fmt.Errorf("start date (%s) cannot be after end date (%s)", cfg.StartDate, cfg.EndDate)
	}
	return nil
}

// validateSource checks the record source and the store it may read from.
func validateSource(cfg *Config, input *ConfigRawInput) error {
	cfg.InputFile = strings.TrimSpace(input.Input)
	cfg.Source = schema.SourceKind(strings.ToLower(input.Source))
	if _, ok := schema.ValidSourceKinds[cfg.Source]; !ok {
		return fmt.Errorf("invalid source '%s'. must be file, store", input.Source)
	}
	if cfg.Source == schema.FileSource && cfg.InputFile == "" {
		return fmt.Errorf("--input is required when reading records from a file")
	}
	if err := ProcessStoreConfig(cfg, input); err != nil {
		return err
	}
	if cfg.Source == schema.StoreSource && cfg.StoreBackend == schema.NoneBackend {
		return fmt.Errorf("cannot read records from the store when the store backend is %s", schema.NoneBackend)
	}
	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}
