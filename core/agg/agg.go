// Package agg buckets records by calendar date and folds them into per-bucket accumulators.
package agg

import (
	"slices"
	"strings"

	"github.com/huangsam/riskboard/schema"
)

// DateSelector picks the date a record is bucketed by. It returns false when the
// record has no such date, which excludes it from the aggregation.
type DateSelector func(r *schema.Record) (schema.Date, bool)

// ResolutionOrCreation buckets by resolution date, falling back to the creation date.
func ResolutionOrCreation(r *schema.Record) (schema.Date, bool) {
	return r.ResolutionOrCreation()
}

// CreationDate buckets by creation date.
func CreationDate(r *schema.Record) (schema.Date, bool) {
	return r.CreationDate, !r.CreationDate.IsZero()
}

// Spec describes one aggregation. Only Fold is required.
type Spec[A any] struct {
	// Fold adds a record to the accumulator of its bucket.
	Fold func(acc *A, r *schema.Record)
	// Initial creates a fresh accumulator. Nil means the zero value of A.
	Initial func() A
	// DateOf selects the bucketing date. Nil means ResolutionOrCreation.
	DateOf DateSelector
}

// Bucket is one labeled accumulator in the aggregation output.
type Bucket[A any] struct {
	Label string
	Acc   A
}

// Aggregate enumerates every bucket from minDate through today, then folds each record
// with a resolvable date into its bucket. Buckets outside the enumerated range are
// inserted in chronological position. Every bucket gets its own accumulator.
func Aggregate[A any](records []schema.Record, b *Bucketer, minDate schema.Date, spec Spec[A]) ([]Bucket[A], error) {
	return AggregateRange(records, b, minDate, schema.Date{}, spec)
}

// AggregateRange is Aggregate with an explicit end date. A zero maxDate means today.
func AggregateRange[A any](records []schema.Record, b *Bucketer, minDate, maxDate schema.Date, spec Spec[A]) ([]Bucket[A], error) {
	labels, err := b.Enumerate(minDate, maxDate)
	if err != nil {
		return nil, err
	}

	initial := spec.Initial
	if initial == nil {
		initial = func() A {
			var zero A
			return zero
		}
	}
	dateOf := spec.DateOf
	if dateOf == nil {
		dateOf = ResolutionOrCreation
	}

	buckets := make([]Bucket[A], len(labels))
	index := make(map[string]int, len(labels))
	for i, label := range labels {
		buckets[i] = Bucket[A]{Label: label, Acc: initial()}
		index[label] = i
	}

	for i := range records {
		d, ok := dateOf(&records[i])
		if !ok {
			continue
		}
		label := b.Label(d)
		pos, found := index[label]
		if !found {
			pos, _ = slices.BinarySearchFunc(buckets, label, func(bk Bucket[A], l string) int {
				return strings.Compare(bk.Label, l)
			})
			buckets = slices.Insert(buckets, pos, Bucket[A]{Label: label, Acc: initial()})
			for j := pos; j < len(buckets); j++ {
				index[buckets[j].Label] = j
			}
		}
		spec.Fold(&buckets[pos].Acc, &records[i])
	}
	return buckets, nil
}

// Labels returns the bucket labels in order.
func Labels[A any](buckets []Bucket[A]) []string {
	out := make([]string, len(buckets))
	for i, bk := range buckets {
		out[i] = bk.Label
	}
	return out
}
