// Package contract provides interfaces and shared utilities for riskboard's internal architecture.
package contract

import (
	"context"

	"github.com/huangsam/riskboard/schema"
)

// RecordSource supplies records that are already fetched and filtered.
// The dashboard never filters by bug identity itself.
type RecordSource interface {
	LoadRecords(ctx context.Context) ([]schema.Record, error)
}

// RecordStore persists imported record batches.
// This allows the store to be mocked for testing.
type RecordStore interface {
	RecordSource

	// ImportRecords writes records as a new import batch and returns the batch ID.
	ImportRecords(ctx context.Context, records []schema.Record) (string, error)

	// GetStatus returns status information about the store
	GetStatus(ctx context.Context) (schema.StoreStatus, error)

	// Close closes the underlying connection
	Close() error
}

// StoreManager hands out the process-wide record store.
type StoreManager interface {
	GetRecordStore() RecordStore
}
