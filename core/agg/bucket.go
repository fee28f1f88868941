package agg

import (
	"fmt"
	"time"

	"github.com/huangsam/riskboard/schema"
)

// Bucketer maps dates onto aligned bucket starts for one granularity.
type Bucketer struct {
	granularity schema.Granularity
	weekStart   time.Weekday
	now         func() time.Time
}

// Option customizes a Bucketer.
type Option func(*Bucketer)

// WithWeekStart sets the first day of a week bucket. The default is Monday.
func WithWeekStart(wd time.Weekday) Option {
	return func(b *Bucketer) { b.weekStart = wd }
}

// WithToday pins the date used as the implicit end of every range.
func WithToday(today schema.Date) Option {
	return func(b *Bucketer) {
		if today.IsZero() {
			return
		}
		b.now = func() time.Time { return today.Time() }
	}
}

// NewBucketer returns a Bucketer, failing fast on an unknown granularity.
func NewBucketer(g schema.Granularity, options ...Option) (*Bucketer, error) {
	if _, ok := schema.ValidGranularities[g]; !ok {
		return nil, fmt.Errorf("%w: %q", schema.ErrUnknownGranularity, g)
	}
	b := &Bucketer{granularity: g, weekStart: time.Monday, now: time.Now}
	for _, opt := range options {
		opt(b)
	}
	return b, nil
}

// Granularity returns the bucket unit.
func (b *Bucketer) Granularity() schema.Granularity { return b.granularity }

// WeekStart returns the first day of week buckets.
func (b *Bucketer) WeekStart() time.Weekday { return b.weekStart }

// Today returns the current date as seen by the bucketer.
func (b *Bucketer) Today() schema.Date { return schema.DateOf(b.now()) }

// Align returns the start of the bucket containing d.
func (b *Bucketer) Align(d schema.Date) schema.Date {
	switch b.granularity {
	case schema.WeekGranularity:
		back := (int(d.Weekday()) - int(b.weekStart) + 7) % 7
		return d.AddDays(-back)
	case schema.MonthGranularity:
		return schema.NewDate(d.Year(), d.Month(), 1)
	default:
		return d
	}
}

// Label returns the ISO label of the bucket containing d.
func (b *Bucketer) Label(d schema.Date) string {
	return b.Align(d).String()
}

// Next returns the start of the bucket following the aligned date start.
func (b *Bucketer) Next(start schema.Date) schema.Date {
	switch b.granularity {
	case schema.WeekGranularity:
		return start.AddDays(7)
	case schema.MonthGranularity:
		return start.AddMonths(1)
	default:
		return start.AddDays(1)
	}
}

// Enumerate lists every bucket label from the bucket of min through the bucket of max,
// inclusive. A zero max means today. It returns ErrInvalidRange when min aligns after max.
func (b *Bucketer) Enumerate(minDate, maxDate schema.Date) ([]string, error) {
	if minDate.IsZero() {
		return nil, fmt.Errorf("%w: missing start date", schema.ErrInvalidRange)
	}
	if maxDate.IsZero() {
		maxDate = b.Today()
	}
	start, end := b.Align(minDate), b.Align(maxDate)
	if start.After(end) {
		return nil, fmt.Errorf("%w: %s is after %s", schema.ErrInvalidRange, start, end)
	}

	var labels []string
	for cur := start; !cur.After(end); cur = b.Next(cur) {
		labels = append(labels, cur.String())
	}
	return labels, nil
}
