package cmd

import (
	"fmt"
	"time"

	"github.com/huangsam/riskboard/core"
	"github.com/huangsam/riskboard/internal/contract"
	"github.com/huangsam/riskboard/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// bucketsSetup validates the grouping options without requiring a record source.
func bucketsSetup(_ *cobra.Command, _ []string) error {
	if err := loadConfigFile(); err != nil {
		return err
	}
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}
	return contract.ProcessBucketConfig(cfg, input)
}

// bucketsCmd lists the bucket labels covering a date range.
var bucketsCmd = &cobra.Command{
	Use:   "buckets",
	Short: "List the bucket labels covering a date range.",
	Long: `Print one label per bucket from the bucket of --min through the bucket of --max.

Labels are ISO dates: the day itself, the first day of the week (see --week-start)
or the first of the month. Use this to check how records will be grouped.

Examples:
  # Weeks starting on Sunday since the start of the year
  riskboard buckets --min 2024-01-01 --week-start sunday

  # Months over the last half year
  riskboard buckets --min "6 months ago" --grouping month`,
	Args:    cobra.NoArgs,
	PreRunE: bucketsSetup,
	Run: func(_ *cobra.Command, _ []string) {
		minDate, maxDate, err := bucketRange(viper.GetString("min"), viper.GetString("max"), time.Now())
		if err != nil {
			contract.LogFatal("Invalid bucket range", err)
		}
		if err := core.ExecuteBuckets(cfg, minDate, maxDate); err != nil {
			contract.LogFatal("Cannot list buckets", err)
		}
	},
}

// bucketRange parses the --min and --max values. An empty max means today.
func bucketRange(minStr, maxStr string, now time.Time) (minDate, maxDate schema.Date, err error) {
	if minStr == "" {
		return minDate, maxDate, fmt.Errorf("--min is required")
	}
	if minDate, err = contract.ParseDateInput(minStr, now); err != nil {
		return minDate, maxDate, fmt.Errorf("invalid --min value: %w", err)
	}
	if maxStr != "" {
		if maxDate, err = contract.ParseDateInput(maxStr, now); err != nil {
			return minDate, maxDate, fmt.Errorf("invalid --max value: %w", err)
		}
	}
	return minDate, maxDate, nil
}
