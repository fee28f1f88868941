// Package source loads records for the dashboard from files or the record store.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/huangsam/riskboard/internal/contract"
	"github.com/huangsam/riskboard/schema"
	"gopkg.in/yaml.v3"
)

// Filter narrows the loaded records. The zero value keeps everything.
type Filter struct {
	// Start and End bound the creation date, inclusive.
	Start schema.Date
	End   schema.Date
	// MetaBug keeps only records that block this feature meta bug.
	MetaBug int
}

// FilterFromConfig builds the filter selected by the --start, --end and --meta-bug flags.
func FilterFromConfig(cfg *contract.Config) Filter {
	return Filter{Start: cfg.StartDate, End: cfg.EndDate, MetaBug: cfg.MetaBug}
}

// Keep reports whether a record passes the filter.
func (f Filter) Keep(r *schema.Record) bool {
	if !f.Start.IsZero() && (r.CreationDate.IsZero() || r.CreationDate.Before(f.Start)) {
		return false
	}
	if !f.End.IsZero() && (r.CreationDate.IsZero() || r.CreationDate.After(f.End)) {
		return false
	}
	if f.MetaBug != 0 && !r.BlocksBug(f.MetaBug) {
		return false
	}
	return true
}

// Apply returns the records that pass the filter, in their original order.
func (f Filter) Apply(records []schema.Record) []schema.Record {
	if f.Start.IsZero() && f.End.IsZero() && f.MetaBug == 0 {
		return records
	}
	kept := make([]schema.Record, 0, len(records))
	for i := range records {
		if f.Keep(&records[i]) {
			kept = append(kept, records[i])
		}
	}
	return kept
}

// FileSource reads records from a JSON or YAML file.
type FileSource struct {
	path   string
	filter Filter
}

var _ contract.RecordSource = &FileSource{} // Compile-time check

// NewFileSource returns a source for the file at path.
func NewFileSource(path string, filter Filter) *FileSource {
	return &FileSource{path: path, filter: filter}
}

// LoadRecords implements the RecordSource interface.
func (s *FileSource) LoadRecords(ctx context.Context) ([]schema.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	records, err := ReadRecordsFile(s.path)
	if err != nil {
		return nil, err
	}
	return s.filter.Apply(records), nil
}

// ReadRecordsFile decodes a records file. Files ending in .yaml or .yml are read as
// YAML, everything else as JSON.
func ReadRecordsFile(path string) ([]schema.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading records file: %w", err)
	}
	return DecodeRecords(data, filepath.Ext(path))
}

// DecodeRecords decodes a list of records from JSON or YAML, chosen by file extension.
func DecodeRecords(data []byte, ext string) ([]schema.Record, error) {
	var records []schema.Record
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("decoding YAML records: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("decoding JSON records: %w", err)
		}
	}
	return records, nil
}

// StoreSource reads the latest imported records from the record store.
type StoreSource struct {
	store  contract.RecordStore
	filter Filter
}

var _ contract.RecordSource = &StoreSource{} // Compile-time check

// NewStoreSource returns a source backed by store.
func NewStoreSource(store contract.RecordStore, filter Filter) *StoreSource {
	return &StoreSource{store: store, filter: filter}
}

// LoadRecords implements the RecordSource interface.
func (s *StoreSource) LoadRecords(ctx context.Context) ([]schema.Record, error) {
	records, err := s.store.LoadRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading records from store: %w", err)
	}
	return s.filter.Apply(records), nil
}

// New returns the source selected by cfg. The store is only used for the store source.
func New(cfg *contract.Config, store contract.RecordStore) (contract.RecordSource, error) {
	filter := FilterFromConfig(cfg)
	switch cfg.Source {
	case schema.StoreSource:
		if store == nil {
			return nil, fmt.Errorf("record store is not initialized")
		}
		return NewStoreSource(store, filter), nil
	case schema.FileSource, "":
		return NewFileSource(cfg.InputFile, filter), nil
	default:
		return nil, fmt.Errorf("unknown record source %q", cfg.Source)
	}
}
