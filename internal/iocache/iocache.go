// Package iocache persists imported bug records in a SQL database.
package iocache

import (
	"fmt"
	"sync"

	"github.com/huangsam/riskboard/internal/contract"
	"github.com/huangsam/riskboard/schema"
)

// StoreManager holds the process-wide record store.
type StoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	records      contract.RecordStore
}

var _ contract.StoreManager = &StoreManager{} // Compile-time check

// GetRecordStore returns the record store, or nil before InitStore.
func (mgr *StoreManager) GetRecordStore() contract.RecordStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.records
}

// quoteTableName returns the properly quoted table name for the given backend.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf("`%s`", name)
	default: // SQLite and PostgreSQL
		return fmt.Sprintf("\"%s\"", name)
	}
}

// placeholder returns the n-th bind parameter for the backend, starting at 1.
func placeholder(backend schema.DatabaseBackend, n int) string {
	if backend == schema.PostgreSQLBackend {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}
