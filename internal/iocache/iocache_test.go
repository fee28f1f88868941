package iocache

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/huangsam/riskboard/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetGlobals() {
	initOnce = sync.Once{}
	closeOnce = sync.Once{}
	Manager = &StoreManager{}
}

func newSQLiteStore(t *testing.T) *RecordStoreImpl {
	t.Helper()
	store, err := NewRecordStore(schema.SQLiteBackend, filepath.Join(t.TempDir(), "records.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func record(id int, summary, created string) schema.Record {
	return schema.Record{ID: id, Summary: summary, CreationDate: schema.MustParseDate(created)}
}

func TestStoreLifecycle(t *testing.T) {
	t.Run("single setup", func(t *testing.T) {
		resetGlobals()
		dbPath := filepath.Join(t.TempDir(), "records.db")

		require.NoError(t, InitStore(schema.SQLiteBackend, dbPath))
		require.NotNil(t, Manager.GetRecordStore())
		CloseStore()

		_, err := os.Stat(dbPath)
		assert.NoError(t, err, "database file should be created")
	})

	t.Run("idempotent setup", func(t *testing.T) {
		resetGlobals()
		dbPath := filepath.Join(t.TempDir(), "records.db")

		assert.NoError(t, InitStore(schema.SQLiteBackend, dbPath))
		first := Manager.GetRecordStore()
		assert.NoError(t, InitStore(schema.SQLiteBackend, dbPath))
		assert.Same(t, first, Manager.GetRecordStore())

		CloseStore()
		CloseStore()
	})

	t.Run("none backend", func(t *testing.T) {
		resetGlobals()
		require.NoError(t, InitStore(schema.NoneBackend, ""))
		require.NotNil(t, Manager.GetRecordStore())
		CloseStore()
	})

	t.Run("unsupported backend", func(t *testing.T) {
		resetGlobals()
		err := InitStore("redis", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported backend")
		assert.Nil(t, Manager.GetRecordStore())
	})
}

func TestRecordStoreImportAndLoad(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)

	firstID, err := store.ImportRecords(ctx, []schema.Record{
		record(20, "Second bug", "2024-02-01"),
		record(10, "First bug", "2024-01-01"),
	})
	require.NoError(t, err)
	assert.Len(t, firstID, 36)

	resolved := schema.MustParseDate("2024-02-10")
	updated := record(20, "Second bug, fixed", "2024-02-01")
	updated.Date = &resolved
	secondID, err := store.ImportRecords(ctx, []schema.Record{updated, record(30, "Third bug", "2024-03-01")})
	require.NoError(t, err)
	assert.NotEqual(t, firstID, secondID)

	records, err := store.LoadRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []int{10, 20, 30}, []int{records[0].ID, records[1].ID, records[2].ID})
	assert.Equal(t, "Second bug, fixed", records[1].Summary, "latest import wins")
	require.NotNil(t, records[1].Date)
	assert.Equal(t, "2024-02-10", records[1].Date.String())
	assert.Equal(t, "2024-01-01", records[0].CreationDate.String())

	status, err := store.GetStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", status.Backend)
	assert.True(t, status.Connected)
	assert.Equal(t, 2, status.TotalImports)
	assert.Equal(t, 4, status.TotalRows)
	assert.Equal(t, 3, status.DistinctBugs)
	assert.Equal(t, secondID, status.LastImportID)
	assert.WithinDuration(t, time.Now(), status.LastImportTime, time.Minute)
	assert.False(t, status.OldestImportTime.After(status.LastImportTime))
}

func TestRecordStoreDuplicateBugsInOneImport(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)

	_, err := store.ImportRecords(ctx, []schema.Record{
		record(1, "old", "2024-01-01"),
		record(2, "other", "2024-01-02"),
		record(1, "new", "2024-01-01"),
	})
	require.NoError(t, err)

	records, err := store.LoadRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "new", records[0].Summary)
}

func TestRecordStoreEmpty(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)

	records, err := store.LoadRecords(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)

	status, err := store.GetStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, status.TotalImports)
	assert.Empty(t, status.LastImportID)
	assert.True(t, status.LastImportTime.IsZero())
}

func TestRecordStoreCanceledContext(t *testing.T) {
	store := newSQLiteStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.ImportRecords(ctx, []schema.Record{record(1, "bug", "2024-01-01")})
	assert.Error(t, err)
}

func TestNoneBackendOperations(t *testing.T) {
	ctx := context.Background()
	store, err := NewRecordStore(schema.NoneBackend, "")
	require.NoError(t, err)

	importID, err := store.ImportRecords(ctx, []schema.Record{record(1, "bug", "2024-01-01")})
	require.NoError(t, err)
	assert.Empty(t, importID)

	records, err := store.LoadRecords(ctx)
	require.NoError(t, err)
	assert.Nil(t, records)

	status, err := store.GetStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, "none", status.Backend)
	assert.False(t, status.Connected)

	assert.NoError(t, store.Close())
}

func TestClearStore(t *testing.T) {
	t.Run("sqlite removes the file", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "records.db")
		store, err := NewRecordStore(schema.SQLiteBackend, dbPath)
		require.NoError(t, err)
		require.NoError(t, store.Close())

		require.NoError(t, ClearStore(schema.SQLiteBackend, dbPath, ""))
		_, err = os.Stat(dbPath)
		assert.True(t, os.IsNotExist(err))

		// Clearing twice is fine
		assert.NoError(t, ClearStore(schema.SQLiteBackend, dbPath, ""))
	})

	t.Run("sqlite needs a path", func(t *testing.T) {
		assert.Error(t, ClearStore(schema.SQLiteBackend, "", ""))
	})

	t.Run("none backend", func(t *testing.T) {
		assert.NoError(t, ClearStore(schema.NoneBackend, "", ""))
	})

	t.Run("unsupported backend", func(t *testing.T) {
		assert.Error(t, ClearStore("redis", "", ""))
	})
}

func TestQuoteTableName(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		want    string
	}{
		{"SQLite backend", schema.SQLiteBackend, `"riskboard_records"`},
		{"MySQL backend", schema.MySQLBackend, "`riskboard_records`"},
		{"PostgreSQL backend", schema.PostgreSQLBackend, `"riskboard_records"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, quoteTableName(recordsTable, tt.backend))
		})
	}
}

func TestPlaceholder(t *testing.T) {
	assert.Equal(t, "$3", placeholder(schema.PostgreSQLBackend, 3))
	assert.Equal(t, "?", placeholder(schema.MySQLBackend, 3))
	assert.Equal(t, "?", placeholder(schema.SQLiteBackend, 1))
}

func TestMySQLDSN(t *testing.T) {
	dsn, err := mysqlDSN("user:pass@tcp(localhost:3306)/riskboard")
	require.NoError(t, err)
	assert.Contains(t, dsn, "parseTime=true")

	_, err = mysqlDSN("not a dsn")
	assert.Error(t, err)
}

func TestDedupeRecords(t *testing.T) {
	out := dedupeRecords([]schema.Record{
		record(3, "a", "2024-01-01"),
		record(1, "b", "2024-01-01"),
		record(3, "c", "2024-01-01"),
	})
	require.Len(t, out, 2)
	assert.Equal(t, 3, out[0].ID)
	assert.Equal(t, "c", out[0].Summary)
	assert.Equal(t, 1, out[1].ID)
}
