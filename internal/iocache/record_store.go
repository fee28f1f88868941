package iocache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/google/uuid"
	"github.com/huangsam/riskboard/internal/contract"
	"github.com/huangsam/riskboard/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// Table names for the record store.
const (
	importsTable = "riskboard_imports"
	recordsTable = "riskboard_records"
)

// RecordStoreImpl keeps every imported batch of records. Reads see the most
// recent import of each bug.
type RecordStoreImpl struct {
	db         *sql.DB
	backend    schema.DatabaseBackend
	driverName string
}

var _ contract.RecordStore = &RecordStoreImpl{} // Compile-time check

// NewRecordStore creates a new RecordStore with the specified backend.
func NewRecordStore(backend schema.DatabaseBackend, connStr string) (*RecordStoreImpl, error) {
	var db *sql.DB
	var err error
	var driverName string

	switch backend {
	case schema.SQLiteBackend:
		driverName = "sqlite"
		dbPath := connStr
		if dbPath == "" {
			dbPath = GetDBFilePath()
		}
		db, err = sql.Open(driverName, dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		driverName = "mysql"
		dsn, dsnErr := mysqlDSN(connStr)
		if dsnErr != nil {
			return nil, fmt.Errorf("failed to parse MySQL connection string: %w. Check connection string format: user:password@tcp(host:port)/dbname", dsnErr)
		}
		db, err = sql.Open(driverName, dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		driverName = "pgx"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}

	case schema.NoneBackend:
		// Return a no-op store when persistence is disabled
		return &RecordStoreImpl{backend: backend}, nil

	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		var connDetail string
		switch backend {
		case schema.MySQLBackend:
			connDetail = "Check that MySQL is running and the connection string is correct. Ensure user/password are valid."
		case schema.PostgreSQLBackend:
			connDetail = "Check that PostgreSQL is running and the connection string is correct. Ensure user/password are valid."
		default:
			connDetail = "Verify the database server is running and accessible."
		}
		return nil, fmt.Errorf("failed to connect to %s database: %w. %s", backend, err, connDetail)
	}

	if err := createRecordTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create record tables: %w", err)
	}

	return &RecordStoreImpl{
		db:         db,
		backend:    backend,
		driverName: driverName,
	}, nil
}

// mysqlDSN makes sure DATETIME columns scan into time.Time.
func mysqlDSN(connStr string) (string, error) {
	cfg, err := mysql.ParseDSN(connStr)
	if err != nil {
		return "", err
	}
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}

// createRecordTables creates the import and record tables.
func createRecordTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{importsTable, getCreateImportsQuery(backend)},
		{recordsTable, getCreateRecordsQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}
	return nil
}

// getCreateImportsQuery returns the CREATE TABLE query for riskboard_imports.
func getCreateImportsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(importsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				import_seq BIGINT AUTO_INCREMENT PRIMARY KEY,
				import_id VARCHAR(36) NOT NULL UNIQUE,
				imported_at DATETIME(6) NOT NULL,
				record_count INT NOT NULL
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				import_seq BIGSERIAL PRIMARY KEY,
				import_id VARCHAR(36) NOT NULL UNIQUE,
				imported_at TIMESTAMPTZ NOT NULL,
				record_count INT NOT NULL
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				import_seq INTEGER PRIMARY KEY AUTOINCREMENT,
				import_id TEXT NOT NULL UNIQUE,
				imported_at TEXT NOT NULL,
				record_count INTEGER NOT NULL
			);
		`, quotedTableName)
	}
}

// getCreateRecordsQuery returns the CREATE TABLE query for riskboard_records.
func getCreateRecordsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(recordsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				import_seq BIGINT NOT NULL,
				bug_id BIGINT NOT NULL,
				creation_date VARCHAR(10) NOT NULL,
				payload LONGTEXT NOT NULL,
				PRIMARY KEY (import_seq, bug_id)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				import_seq BIGINT NOT NULL,
				bug_id BIGINT NOT NULL,
				creation_date VARCHAR(10) NOT NULL,
				payload TEXT NOT NULL,
				PRIMARY KEY (import_seq, bug_id)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				import_seq INTEGER NOT NULL,
				bug_id INTEGER NOT NULL,
				creation_date TEXT NOT NULL,
				payload TEXT NOT NULL,
				PRIMARY KEY (import_seq, bug_id)
			);
		`, quotedTableName)
	}
}

// ImportRecords stores records as one new import and returns the import ID.
// When a bug appears more than once in records, its last occurrence is kept.
func (rs *RecordStoreImpl) ImportRecords(ctx context.Context, records []schema.Record) (string, error) {
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return "", nil
	}

	records = dedupeRecords(records)
	payloads := make([][]byte, len(records))
	for i := range records {
		payload, err := json.Marshal(&records[i])
		if err != nil {
			return "", fmt.Errorf("failed to marshal bug %d: %w", records[i].ID, err)
		}
		payloads[i] = payload
	}

	tx, err := rs.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin import: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	importID := uuid.NewString()
	seq, err := rs.insertImport(ctx, tx, importID, time.Now().UTC(), len(records))
	if err != nil {
		return "", err
	}

	query := fmt.Sprintf(`INSERT INTO %s (import_seq, bug_id, creation_date, payload) VALUES (%s, %s, %s, %s)`,
		quoteTableName(recordsTable, rs.backend),
		placeholder(rs.backend, 1), placeholder(rs.backend, 2), placeholder(rs.backend, 3), placeholder(rs.backend, 4))
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return "", fmt.Errorf("failed to prepare record insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range records {
		r := &records[i]
		if _, err := stmt.ExecContext(ctx, seq, r.ID, r.CreationDate.String(), string(payloads[i])); err != nil {
			return "", fmt.Errorf("failed to insert bug %d: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit import %s: %w", importID, err)
	}
	return importID, nil
}

// insertImport records a new import and returns its sequence number.
func (rs *RecordStoreImpl) insertImport(ctx context.Context, tx *sql.Tx, importID string, at time.Time, count int) (int64, error) {
	quotedTableName := quoteTableName(importsTable, rs.backend)

	var seq int64
	switch rs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (import_id, imported_at, record_count) VALUES ($1, $2, $3) RETURNING import_seq`, quotedTableName)
		if err := tx.QueryRowContext(ctx, query, importID, at, count).Scan(&seq); err != nil {
			return 0, fmt.Errorf("failed to insert import: %w", err)
		}
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (import_id, imported_at, record_count) VALUES (?, ?, ?)`, quotedTableName)
		result, err := tx.ExecContext(ctx, query, importID, formatTime(at, rs.backend), count)
		if err != nil {
			return 0, fmt.Errorf("failed to insert import: %w", err)
		}
		if seq, err = result.LastInsertId(); err != nil {
			return 0, fmt.Errorf("failed to read import sequence: %w", err)
		}
	}
	return seq, nil
}

// dedupeRecords keeps the last occurrence of each bug at the position of its
// first occurrence.
func dedupeRecords(records []schema.Record) []schema.Record {
	index := make(map[int]int, len(records))
	out := make([]schema.Record, 0, len(records))
	for _, r := range records {
		if i, ok := index[r.ID]; ok {
			out[i] = r
			continue
		}
		index[r.ID] = len(out)
		out = append(out, r)
	}
	return out
}

// LoadRecords returns the latest stored version of every bug, ordered by bug ID.
func (rs *RecordStoreImpl) LoadRecords(ctx context.Context) ([]schema.Record, error) {
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT bug_id, payload FROM %s ORDER BY bug_id, import_seq`, quoteTableName(recordsTable, rs.backend))
	rows, err := rs.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []schema.Record
	lastID, seen := 0, false
	for rows.Next() {
		var bugID int
		var payload string
		if err := rows.Scan(&bugID, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		var record schema.Record
		if err := json.Unmarshal([]byte(payload), &record); err != nil {
			return nil, fmt.Errorf("failed to decode bug %d: %w", bugID, err)
		}
		// Later imports of the same bug replace earlier ones
		if seen && bugID == lastID {
			records[len(records)-1] = record
			continue
		}
		records = append(records, record)
		lastID, seen = bugID, true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}
	return records, nil
}

// GetStatus returns status information about the record store.
func (rs *RecordStoreImpl) GetStatus(ctx context.Context) (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:   string(rs.backend),
		Connected: rs.db != nil,
	}

	if rs.backend == schema.NoneBackend || rs.db == nil {
		return status, nil
	}

	quotedRecords := quoteTableName(recordsTable, rs.backend)
	quotedImports := quoteTableName(importsTable, rs.backend)

	countQuery := fmt.Sprintf("SELECT COUNT(*), COUNT(DISTINCT bug_id) FROM %s", quotedRecords)
	if err := rs.db.QueryRowContext(ctx, countQuery).Scan(&status.TotalRows, &status.DistinctBugs); err != nil {
		return status, fmt.Errorf("failed to count records: %w", err)
	}

	importQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedImports)
	if err := rs.db.QueryRowContext(ctx, importQuery).Scan(&status.TotalImports); err != nil {
		return status, fmt.Errorf("failed to count imports: %w", err)
	}

	if status.TotalImports == 0 {
		return status, nil
	}

	lastQuery := fmt.Sprintf("SELECT import_id, imported_at FROM %s ORDER BY import_seq DESC LIMIT 1", quotedImports)
	lastID, lastTime, err := rs.scanImport(rs.db.QueryRowContext(ctx, lastQuery))
	if err != nil {
		return status, fmt.Errorf("failed to get last import: %w", err)
	}
	status.LastImportID = lastID
	status.LastImportTime = lastTime

	oldestQuery := fmt.Sprintf("SELECT import_id, imported_at FROM %s ORDER BY import_seq ASC LIMIT 1", quotedImports)
	_, oldestTime, err := rs.scanImport(rs.db.QueryRowContext(ctx, oldestQuery))
	if err != nil {
		return status, fmt.Errorf("failed to get oldest import: %w", err)
	}
	status.OldestImportTime = oldestTime

	return status, nil
}

// scanImport reads an (import_id, imported_at) row.
func (rs *RecordStoreImpl) scanImport(row *sql.Row) (string, time.Time, error) {
	var importID string
	switch rs.backend {
	case schema.SQLiteBackend:
		var importedAt string
		if err := row.Scan(&importID, &importedAt); err != nil {
			return "", time.Time{}, err
		}
		t, err := time.Parse(time.RFC3339Nano, importedAt)
		if err != nil {
			return "", time.Time{}, fmt.Errorf("failed to parse imported_at: %w", err)
		}
		return importID, t, nil
	default: // MySQL and PostgreSQL store as native datetime
		var importedAt time.Time
		if err := row.Scan(&importID, &importedAt); err != nil {
			return "", time.Time{}, err
		}
		return importID, importedAt, nil
	}
}

// Close closes the database connection.
func (rs *RecordStoreImpl) Close() error {
	if rs.db != nil {
		return rs.db.Close()
	}
	return nil
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	switch backend {
	case schema.SQLiteBackend:
		return t.Format(time.RFC3339Nano)
	default:
		return t
	}
}
