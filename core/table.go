package core

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/huangsam/riskboard/core/algo"
	"github.com/huangsam/riskboard/schema"
)

// maxComponents is how many regression components a table row shows.
const maxComponents = 3

// BuildRows turns already sorted records into table rows. Only resolved records
// get a row. A positive limit caps the number of rows.
func BuildRows(records []schema.Record, limit int) ([]schema.TableRow, error) {
	rows := make([]schema.TableRow, 0, len(records))
	for i := range records {
		r := &records[i]
		if !r.IsResolved() {
			continue
		}
		if limit > 0 && len(rows) == limit {
			break
		}
		row, err := buildRow(r)
		if err != nil {
			return nil, fmt.Errorf("bug %d: %w", r.ID, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func buildRow(r *schema.Record) (schema.TableRow, error) {
	risk, err := r.RiskBand.Label()
	if err != nil {
		return schema.TableRow{}, err
	}
	tags := make([]string, len(r.Commits))
	for i, commit := range r.Commits {
		tags[i] = commit.Testing.Label()
	}
	return schema.TableRow{
		ID:          r.ID,
		Summary:     r.Summary,
		Date:        r.Date.String(),
		TestingTags: tags,
		Coverage:    FormatCoverage(r),
		RiskBand:    r.RiskBand,
		Risk:        risk,
		Components:  TopComponents(r.MostCommonRegressionComponents, maxComponents),
	}, nil
}

// FormatCoverage renders coverage as "covered of added", or as a covered range
// when some lines are unknown. It is empty when no lines were added.
func FormatCoverage(r *schema.Record) string {
	added, covered, unknown := algo.SummarizeCoverage(r)
	switch {
	case added == 0:
		return ""
	case unknown != 0:
		return fmt.Sprintf("%d-%d of %d", covered, covered+unknown, added)
	default:
		return fmt.Sprintf("%d of %d", covered, added)
	}
}

// TopComponents returns the n components with the largest share, largest first.
// Equal shares are ordered by name.
func TopComponents(shares map[string]float64, n int) []schema.ComponentShare {
	out := make([]schema.ComponentShare, 0, len(shares))
	for component, share := range shares {
		out = append(out, schema.ComponentShare{Component: component, Share: share})
	}
	slices.SortFunc(out, func(a, b schema.ComponentShare) int {
		if c := cmp.Compare(b.Share, a.Share); c != 0 {
			return c
		}
		return cmp.Compare(a.Component, b.Component)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
