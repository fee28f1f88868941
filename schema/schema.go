// Package schema has models, enums and errors shared by all parts of riskboard.
package schema

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Record is the summary of a single bug and the changes that fixed it.
// Records are treated as immutable once loaded.
type Record struct {
	ID                             int                `json:"id" yaml:"id"`
	Summary                        string             `json:"summary" yaml:"summary"`
	CreationDate                   Date               `json:"creation_date" yaml:"creation_date"`
	Date                           *Date              `json:"date" yaml:"date"` // resolution date, nil when unresolved
	Regression                     bool               `json:"regression" yaml:"regression"`
	Fixed                          bool               `json:"fixed" yaml:"fixed"`
	Types                          []BugType          `json:"types" yaml:"types"`
	RiskBand                       RiskBand           `json:"risk_band" yaml:"risk_band"`
	TimeToBug                      *float64           `json:"time_to_bug" yaml:"time_to_bug"`         // days
	TimeToConfirm                  *float64           `json:"time_to_confirm" yaml:"time_to_confirm"` // hours
	MostCommonRegressionComponents map[string]float64 `json:"most_common_regression_components" yaml:"most_common_regression_components"`
	Commits                        []Commit           `json:"commits" yaml:"commits"`
	Blocks                         []int              `json:"blocks,omitempty" yaml:"blocks,omitempty"`
}

// Commit is a single changeset attached to a record.
type Commit struct {
	Testing  TestingTag `json:"testing,omitempty" yaml:"testing,omitempty"` // empty means unknown
	Coverage *Coverage  `json:"coverage,omitempty" yaml:"coverage,omitempty"`
}

// Coverage holds per-commit line counts. Any of the counts may be absent.
// It decodes from either a [added, covered, unknown] array or an object.
type Coverage struct {
	Added   *int `json:"added" yaml:"added"`
	Covered *int `json:"covered" yaml:"covered"`
	Unknown *int `json:"unknown" yaml:"unknown"`
}

// ResolutionOrCreation returns the resolution date when set, the creation date otherwise.
// The second value is false when neither is available.
func (r *Record) ResolutionOrCreation() (Date, bool) {
	if r.Date != nil && !r.Date.IsZero() {
		return *r.Date, true
	}
	if !r.CreationDate.IsZero() {
		return r.CreationDate, true
	}
	return Date{}, false
}

// IsResolved reports whether the record has a resolution date.
func (r *Record) IsResolved() bool {
	return r.Date != nil && !r.Date.IsZero()
}

// HasType reports whether the record is tagged with the given bug type.
func (r *Record) HasType(t BugType) bool {
	for _, have := range r.Types {
		if have == t {
			return true
		}
	}
	return false
}

// BlocksBug reports whether the record blocks the given bug.
func (r *Record) BlocksBug(id int) bool {
	for _, b := range r.Blocks {
		if b == id {
			return true
		}
	}
	return false
}

// Values returns the three counts, treating absent ones as zero.
func (c *Coverage) Values() (added, covered, unknown int) {
	if c == nil {
		return 0, 0, 0
	}
	return derefInt(c.Added), derefInt(c.Covered), derefInt(c.Unknown)
}

// UnmarshalJSON accepts [added, covered, unknown] or {"added":..,"covered":..,"unknown":..}.
func (c *Coverage) UnmarshalJSON(b []byte) error {
	var triple []*int
	if err := json.Unmarshal(b, &triple); err == nil {
		return c.fromTriple(triple)
	}
	type plain Coverage
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return fmt.Errorf("invalid coverage: %w", err)
	}
	*c = Coverage(p)
	return nil
}

// UnmarshalYAML accepts the same two shapes as UnmarshalJSON.
func (c *Coverage) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.SequenceNode {
		var triple []*int
		if err := value.Decode(&triple); err != nil {
			return fmt.Errorf("invalid coverage: %w", err)
		}
		return c.fromTriple(triple)
	}
	type plain Coverage
	var p plain
	if err := value.Decode(&p); err != nil {
		return fmt.Errorf("invalid coverage: %w", err)
	}
	*c = Coverage(p)
	return nil
}

func (c *Coverage) fromTriple(triple []*int) error {
	if len(triple) != 3 {
		return fmt.Errorf("invalid coverage: expected 3 values, got %d", len(triple))
	}
	*c = Coverage{Added: triple[0], Covered: triple[1], Unknown: triple[2]}
	return nil
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
