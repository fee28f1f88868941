// Package algo has the pure record-level algorithms: coverage summaries and ordering.
package algo

import "github.com/huangsam/riskboard/schema"

// SummarizeCoverage sums line coverage over all commits of a record.
// Absent coverage, or absent counts within it, contribute zero.
func SummarizeCoverage(r *schema.Record) (added, covered, unknown int) {
	for i := range r.Commits {
		a, c, u := r.Commits[i].Coverage.Values()
		added += a
		covered += c
		unknown += u
	}
	return added, covered, unknown
}

// Uncovered returns the lines added that are known not to be covered.
func Uncovered(r *schema.Record) int {
	added, covered, unknown := SummarizeCoverage(r)
	return added - (covered + unknown)
}
