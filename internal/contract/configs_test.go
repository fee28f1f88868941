package contract

import (
	"testing"
	"time"

	"github.com/huangsam/riskboard/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validInput returns the raw input produced by the default flag values.
func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		Input:        "records.json",
		Source:       "file",
		Grouping:     "week",
		WeekStart:    "monday",
		Sort:         "Date",
		Direction:    "DESC",
		Output:       "text",
		Precision:    1,
		Color:        "yes",
		StoreBackend: "sqlite",
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError bool
	}{
		{name: "valid minimal config", mutate: func(*ConfigRawInput) {}},
		{name: "case-insensitive enums", mutate: func(in *ConfigRawInput) {
			in.Grouping, in.Sort, in.Direction, in.Output = "MONTH", "riskiness", "asc", "JSON"
		}},
		{name: "invalid grouping", mutate: func(in *ConfigRawInput) { in.Grouping = "quarter" }, expectError: true},
		{name: "invalid week start", mutate: func(in *ConfigRawInput) { in.WeekStart = "someday" }, expectError: true},
		{name: "unknown sort key", mutate: func(in *ConfigRawInput) { in.Sort = "Severity" }, expectError: true},
		{name: "invalid direction", mutate: func(in *ConfigRawInput) { in.Direction = "UP" }, expectError: true},
		{name: "invalid output", mutate: func(in *ConfigRawInput) { in.Output = "xml" }, expectError: true},
		{name: "parquet needs a file", mutate: func(in *ConfigRawInput) { in.Output = "parquet" }, expectError: true},
		{name: "parquet with file", mutate: func(in *ConfigRawInput) { in.Output, in.OutputFile = "parquet", "out.parquet" }},
		{name: "precision out of range", mutate: func(in *ConfigRawInput) { in.Precision = 3 }, expectError: true},
		{name: "negative limit", mutate: func(in *ConfigRawInput) { in.Limit = -1 }, expectError: true},
		{name: "limit too large", mutate: func(in *ConfigRawInput) { in.Limit = MaxResultLimit + 1 }, expectError: true},
		{name: "negative width", mutate: func(in *ConfigRawInput) { in.Width = -5 }, expectError: true},
		{name: "invalid color", mutate: func(in *ConfigRawInput) { in.Color = "sometimes" }, expectError: true},
		{name: "negative meta bug", mutate: func(in *ConfigRawInput) { in.MetaBug = -2 }, expectError: true},
		{name: "file source without input", mutate: func(in *ConfigRawInput) { in.Input = " " }, expectError: true},
		{name: "store source without input", mutate: func(in *ConfigRawInput) { in.Source, in.Input = "store", "" }},
		{name: "store source with no backend", mutate: func(in *ConfigRawInput) { in.Source, in.StoreBackend = "store", "none" }, expectError: true},
		{name: "invalid source", mutate: func(in *ConfigRawInput) { in.Source = "http" }, expectError: true},
		{name: "invalid backend", mutate: func(in *ConfigRawInput) { in.StoreBackend = "redis" }, expectError: true},
		{name: "mysql without connection", mutate: func(in *ConfigRawInput) { in.StoreBackend = "mysql" }, expectError: true},
		{name: "start after end", mutate: func(in *ConfigRawInput) { in.Start, in.End = "2024-05-01", "2024-04-01" }, expectError: true},
		{name: "relative start", mutate: func(in *ConfigRawInput) { in.Start = "3 months ago" }},
		{name: "invalid today", mutate: func(in *ConfigRawInput) { in.Today = "tomorrow" }, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(input)
			cfg := &Config{}
			err := ProcessAndValidate(cfg, input)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProcessAndValidateFields(t *testing.T) {
	input := validInput()
	input.Grouping = "month"
	input.WeekStart = "sun"
	input.Sort = "coverage"
	input.Direction = "asc"
	input.Today = "2024-03-15"
	input.Start = "2024-01-01"
	input.MetaBug = 1234
	input.Limit = 20
	input.Color = "no"

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))

	assert.Equal(t, schema.MonthGranularity, cfg.Grouping)
	assert.Equal(t, time.Sunday, cfg.WeekStart)
	assert.Equal(t, schema.SortByCoverage, cfg.SortKey)
	assert.Equal(t, schema.Ascending, cfg.Direction)
	assert.Equal(t, schema.MustParseDate("2024-03-15"), cfg.Today)
	assert.Equal(t, schema.MustParseDate("2024-01-01"), cfg.StartDate)
	assert.True(t, cfg.EndDate.IsZero())
	assert.Equal(t, 1234, cfg.MetaBug)
	assert.Equal(t, 20, cfg.ResultLimit)
	assert.False(t, cfg.UseColors)
	assert.Equal(t, schema.FileSource, cfg.Source)
	assert.Equal(t, "records.json", cfg.InputFile)
	assert.Equal(t, schema.SQLiteBackend, cfg.StoreBackend)
}

func TestProcessDatesDefaultsToNow(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, processDates(cfg, &ConfigRawInput{End: "1 week ago"}, fixedNow))
	assert.Equal(t, schema.MustParseDate("2025-11-03"), cfg.Today)
	assert.Equal(t, schema.MustParseDate("2025-10-27"), cfg.EndDate)
}

func TestProcessBucketConfig(t *testing.T) {
	t.Run("no input file needed", func(t *testing.T) {
		in := validInput()
		in.Input, in.Grouping, in.Today = "", "month", "2024-03-15"
		cfg := &Config{}
		require.NoError(t, ProcessBucketConfig(cfg, in))
		assert.Equal(t, schema.MonthGranularity, cfg.Grouping)
		assert.Equal(t, "2024-03-15", cfg.Today.String())
	})

	t.Run("html is rejected", func(t *testing.T) {
		in := validInput()
		in.Output = "html"
		assert.Error(t, ProcessBucketConfig(&Config{}, in))
	})

	t.Run("invalid grouping", func(t *testing.T) {
		in := validInput()
		in.Grouping = "quarter"
		assert.Error(t, ProcessBucketConfig(&Config{}, in))
	})
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		conn    string
		wantErr bool
	}{
		{"sqlite needs nothing", schema.SQLiteBackend, "", false},
		{"none needs nothing", schema.NoneBackend, "", false},
		{"mysql valid", schema.MySQLBackend, "user:pass@tcp(localhost:3306)/riskboard", false},
		{"mysql missing tcp", schema.MySQLBackend, "user:pass@localhost/riskboard", true},
		{"mysql empty", schema.MySQLBackend, "", true},
		{"postgres valid", schema.PostgreSQLBackend, "host=localhost port=5432 dbname=riskboard", false},
		{"postgres missing dbname", schema.PostgreSQLBackend, "host=localhost", true},
		{"postgres empty", schema.PostgreSQLBackend, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.conn)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{SortKey: schema.SortByBug, Direction: schema.Ascending}
	clone := cfg.Clone()
	clone.SortKey = schema.SortByDate
	assert.Equal(t, schema.SortByBug, cfg.SortKey)
}

func TestProcessProfilingConfig(t *testing.T) {
	profile := &ProfileConfig{}
	require.NoError(t, ProcessProfilingConfig(profile, ""))
	assert.False(t, profile.Enabled)

	require.NoError(t, ProcessProfilingConfig(profile, "out/riskboard"))
	assert.True(t, profile.Enabled)
	assert.Equal(t, "out/riskboard", profile.Prefix)
}
