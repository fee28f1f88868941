package cmd

import (
	"testing"
	"time"

	"github.com/huangsam/riskboard/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucketRange(t *testing.T) {
	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

	t.Run("iso and relative", func(t *testing.T) {
		minDate, maxDate, err := bucketRange("2024-01-01", "1 week ago", now)
		require.NoError(t, err)
		assert.Equal(t, schema.MustParseDate("2024-01-01"), minDate)
		assert.Equal(t, schema.MustParseDate("2024-03-08"), maxDate)
	})

	t.Run("max defaults to zero", func(t *testing.T) {
		_, maxDate, err := bucketRange("2 months ago", "", now)
		require.NoError(t, err)
		assert.True(t, maxDate.IsZero())
	})

	t.Run("min is required", func(t *testing.T) {
		_, _, err := bucketRange("", "2024-01-01", now)
		assert.ErrorContains(t, err, "--min is required")
	})

	t.Run("invalid max", func(t *testing.T) {
		_, _, err := bucketRange("2024-01-01", "later", now)
		assert.ErrorContains(t, err, "invalid --max value")
	})
}
