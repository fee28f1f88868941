package core

import (
	"fmt"
	"slices"

	"github.com/dustin/go-humanize"
	"github.com/huangsam/riskboard/schema"
	"gonum.org/v1/gonum/stat"
)

// BuildSummary computes the headline numbers of a dashboard. metaBug is zero when
// the records are not scoped to a feature meta bug.
func BuildSummary(records []schema.Record, metaBug int) schema.Summary {
	summary := schema.Summary{MetaBug: metaBug, Bugs: len(records)}

	var fixDays []float64
	for i := range records {
		r := &records[i]
		summary.Changesets += len(r.Commits)
		if !r.IsResolved() {
			continue
		}
		summary.ResolvedBugs++
		if !r.CreationDate.IsZero() {
			fixDays = append(fixDays, float64(r.CreationDate.DaysUntil(*r.Date)))
		}
	}

	if len(fixDays) > 0 {
		slices.Sort(fixDays)
		summary.MedianFixDays = schema.Float(stat.Quantile(0.5, stat.Empirical, fixDays, nil))
		summary.P90FixDays = schema.Float(stat.Quantile(0.9, stat.Empirical, fixDays, nil))
	}

	prefix := ""
	if metaBug != 0 {
		prefix = fmt.Sprintf("For bug %d: ", metaBug)
	}
	summary.Text = fmt.Sprintf("%sThere are %s bugs with %s changesets.",
		prefix, humanize.Comma(int64(summary.Bugs)), humanize.Comma(int64(summary.Changesets)))
	return summary
}
