package contract

import (
	"context"

	"github.com/huangsam/riskboard/schema"
	"github.com/stretchr/testify/mock"
)

// MockRecordSource is a mock implementation of RecordSource for testing.
type MockRecordSource struct {
	mock.Mock
}

var _ RecordSource = &MockRecordSource{} // Compile-time check

// LoadRecords implements the RecordSource interface.
func (m *MockRecordSource) LoadRecords(ctx context.Context) ([]schema.Record, error) {
	args := m.Called(ctx)
	records, _ := args.Get(0).([]schema.Record)
	return records, args.Error(1)
}

// MockRecordStore is a mock implementation of RecordStore for testing.
type MockRecordStore struct {
	mock.Mock
}

var _ RecordStore = &MockRecordStore{} // Compile-time check

// LoadRecords implements the RecordStore interface.
func (m *MockRecordStore) LoadRecords(ctx context.Context) ([]schema.Record, error) {
	args := m.Called(ctx)
	records, _ := args.Get(0).([]schema.Record)
	return records, args.Error(1)
}

// ImportRecords implements the RecordStore interface.
func (m *MockRecordStore) ImportRecords(ctx context.Context, records []schema.Record) (string, error) {
	args := m.Called(ctx, records)
	return args.String(0), args.Error(1)
}

// GetStatus implements the RecordStore interface.
func (m *MockRecordStore) GetStatus(ctx context.Context) (schema.StoreStatus, error) {
	args := m.Called(ctx)
	return args.Get(0).(schema.StoreStatus), args.Error(1)
}

// Close implements the RecordStore interface.
func (m *MockRecordStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
