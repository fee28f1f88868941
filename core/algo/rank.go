package algo

import (
	"cmp"
	"slices"

	"github.com/huangsam/riskboard/schema"
)

// Comparator orders two records; it returns a negative number when a sorts first.
type Comparator func(a, b *schema.Record) int

// comparatorFor returns the comparator for a sort key and direction.
// The second value is false for an unrecognized key.
// Riskiness expects records whose bands were already validated.
func comparatorFor(key schema.SortKey, dir schema.Direction) (Comparator, bool) {
	var base Comparator
	switch key {
	case schema.SortByDate:
		base = compareDate
	case schema.SortByRiskiness:
		base = compareRiskiness
	case schema.SortByBug:
		base = func(a, b *schema.Record) int { return cmp.Compare(a.ID, b.ID) }
	case schema.SortByCoverage:
		base = compareCoverage
	default:
		return nil, false
	}
	if dir == schema.Descending {
		return func(a, b *schema.Record) int { return -base(a, b) }, true
	}
	return base, true
}

// SortRecords returns a stably sorted copy of records. The input slice is never reordered.
// Sorting by riskiness fails with schema.ErrUnknownRiskBand when any band is unrecognized.
// An unrecognized key yields an unsorted copy and no error.
func SortRecords(records []schema.Record, key schema.SortKey, dir schema.Direction) ([]schema.Record, error) {
	sorted := slices.Clone(records)
	compare, ok := comparatorFor(key, dir)
	if !ok {
		return sorted, nil
	}
	if key == schema.SortByRiskiness {
		for i := range sorted {
			if err := sorted[i].RiskBand.Validate(); err != nil {
				return nil, err
			}
		}
	}
	slices.SortStableFunc(sorted, func(a, b schema.Record) int {
		return compare(&a, &b)
	})
	return sorted, nil
}

// compareDate orders by resolution date, falling back to the creation date.
// Records with neither date sort first.
func compareDate(a, b *schema.Record) int {
	da, okA := a.ResolutionOrCreation()
	db, okB := b.ResolutionOrCreation()
	switch {
	case !okA && !okB:
		return 0
	case !okA:
		return -1
	case !okB:
		return 1
	}
	return da.Compare(db)
}

func compareRiskiness(a, b *schema.Record) int {
	ra, err := a.RiskBand.Rank()
	if err != nil {
		panic(err)
	}
	rb, err := b.RiskBand.Rank()
	if err != nil {
		panic(err)
	}
	return cmp.Compare(ra, rb)
}

// compareCoverage orders by uncovered lines, then by lines added.
func compareCoverage(a, b *schema.Record) int {
	addedA, coveredA, unknownA := SummarizeCoverage(a)
	addedB, coveredB, unknownB := SummarizeCoverage(b)
	if c := cmp.Compare(addedA-(coveredA+unknownA), addedB-(coveredB+unknownB)); c != 0 {
		return c
	}
	return cmp.Compare(addedA, addedB)
}
