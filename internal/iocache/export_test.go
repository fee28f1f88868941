package iocache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/riskboard/internal/contract"
	"github.com/huangsam/riskboard/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestExportRecords(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)
	_, err := store.ImportRecords(ctx, []schema.Record{
		record(1, "First", "2024-01-01"),
		record(2, "Second", "2024-01-02"),
	})
	require.NoError(t, err)

	outputFile := filepath.Join(t.TempDir(), "records.parquet")
	require.NoError(t, ExportRecords(ctx, store, outputFile))

	info, err := os.Stat(outputFile)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestExportRecordsErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("missing output file", func(t *testing.T) {
		err := ExportRecords(ctx, &contract.MockRecordStore{}, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--output-file")
	})

	t.Run("empty store", func(t *testing.T) {
		err := ExportRecords(ctx, newSQLiteStore(t), filepath.Join(t.TempDir(), "out.parquet"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no imported records")
	})

	t.Run("status failure", func(t *testing.T) {
		store := &contract.MockRecordStore{}
		store.On("GetStatus", mock.Anything).Return(schema.StoreStatus{}, errors.New("connection lost"))
		err := ExportRecords(ctx, store, filepath.Join(t.TempDir(), "out.parquet"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection lost")
		store.AssertExpectations(t)
	})
}
