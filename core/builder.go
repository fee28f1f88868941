package core

import (
	"math"
	"slices"

	"github.com/huangsam/riskboard/core/agg"
	"github.com/huangsam/riskboard/schema"
)

// ChartBuilder turns the full record set into one chart. A nil chart with a nil
// error means there is nothing to draw.
type ChartBuilder interface {
	ID() schema.ChartID
	Build(records []schema.Record, b *agg.Bucketer) (*schema.Chart, error)
}

// seriesDef reads one series point out of a bucket accumulator.
type seriesDef[A any] struct {
	name  string
	color string
	value func(acc *A) *float64
}

// seriesBuilder is the generic bucketed pipeline: validate, filter, resolve the
// start date, aggregate, then read every series out of the accumulators.
type seriesBuilder[A any] struct {
	id    schema.ChartID
	title string
	yAxis string
	kind  schema.ChartKind

	validate func(r *schema.Record) error
	filter   func(r *schema.Record) bool
	dateOf   agg.DateSelector

	// lookbackMonths clamps the start date to at most this many months before
	// today and drops older records. Zero disables the clamp.
	lookbackMonths int

	initial func() A
	fold    func(acc *A, r *schema.Record)
	series  []seriesDef[A]
}

func (sb *seriesBuilder[A]) ID() schema.ChartID { return sb.id }

func (sb *seriesBuilder[A]) Build(records []schema.Record, b *agg.Bucketer) (*schema.Chart, error) {
	dateOf := sb.dateOf
	if dateOf == nil {
		dateOf = agg.ResolutionOrCreation
	}

	selected := make([]schema.Record, 0, len(records))
	for i := range records {
		r := &records[i]
		if sb.validate != nil {
			if err := sb.validate(r); err != nil {
				return nil, err
			}
		}
		if sb.filter == nil || sb.filter(r) {
			selected = append(selected, *r)
		}
	}

	minDate, maxDate := dateBounds(selected, dateOf)
	if minDate.IsZero() {
		return nil, nil
	}

	today := b.Today()
	if sb.lookbackMonths > 0 {
		floor := today.AddMonthsClamped(-sb.lookbackMonths)
		if minDate.Before(floor) {
			minDate = floor
		}
		// The first shown bucket starts at the aligned floor, so compare bucket starts.
		firstStart := b.Align(floor)
		selected = slices.DeleteFunc(selected, func(r schema.Record) bool {
			d, ok := dateOf(&r)
			return ok && b.Align(d).Before(firstStart)
		})
	}

	// Records dated in the future extend the range instead of leaving gaps.
	end := schema.Date{}
	if maxDate.After(today) {
		end = maxDate
	}

	buckets, err := agg.AggregateRange(selected, b, minDate, end, agg.Spec[A]{
		Fold:    sb.fold,
		Initial: sb.initial,
		DateOf:  dateOf,
	})
	if err != nil {
		return nil, err
	}

	chart := &schema.Chart{
		ID:         sb.id,
		Title:      sb.title,
		YAxisLabel: sb.yAxis,
		Kind:       sb.kind,
		Categories: agg.Labels(buckets),
		Series:     make([]schema.Series, 0, len(sb.series)),
	}
	for _, def := range sb.series {
		data := make([]*float64, len(buckets))
		for i := range buckets {
			data[i] = def.value(&buckets[i].Acc)
		}
		chart.Series = append(chart.Series, schema.Series{Name: def.name, Data: data, Color: def.color})
	}
	return chart, nil
}

// dateBounds returns the earliest and latest selected date. Both are zero when no
// record has one.
func dateBounds(records []schema.Record, dateOf agg.DateSelector) (minDate, maxDate schema.Date) {
	for i := range records {
		d, ok := dateOf(&records[i])
		if !ok {
			continue
		}
		if minDate.IsZero() || d.Before(minDate) {
			minDate = d
		}
		if maxDate.IsZero() || d.After(maxDate) {
			maxDate = d
		}
	}
	return minDate, maxDate
}

// Accumulators.

type riskCounts struct {
	Lower, Average, Higher int
}

type regressionCounts struct {
	Regressions, Fixed int
}

type typeCounts map[schema.BugType]int

// averageAcc collects a running sum so that the mean is taken once per bucket.
type averageAcc struct {
	Sum  float64
	Bugs int
}

// mean is the ceiling of the bucket average, or nil for an empty bucket.
func (a *averageAcc) mean() *float64 {
	if a.Bugs == 0 {
		return nil
	}
	return schema.Float(math.Ceil(a.Sum / float64(a.Bugs)))
}

func count(n int) *float64 { return schema.Float(float64(n)) }

// Builders returns every chart builder in dashboard order.
func Builders() []ChartBuilder {
	return []ChartBuilder{
		testingTagBuilder{},
		riskBuilder(),
		regressionsBuilder(),
		typesBuilder(),
		fixTimeBuilder(),
		averageFieldBuilder(schema.TimeToBugChart, "Average time to bug (in days)", func(r *schema.Record) *float64 { return r.TimeToBug }),
		averageFieldBuilder(schema.TimeToConfirmChart, "Average time to confirm (in hours)", func(r *schema.Record) *float64 { return r.TimeToConfirm }),
	}
}

func riskBuilder() *seriesBuilder[riskCounts] {
	return &seriesBuilder[riskCounts]{
		id:    schema.RiskChart,
		title: "Evolution of lower/average/higher risk changes",
		yAxis: "# of patches",
		kind:  schema.BarChart,
		validate: func(r *schema.Record) error {
			return r.RiskBand.Validate()
		},
		filter:         func(r *schema.Record) bool { return r.RiskBand != schema.NoRisk },
		lookbackMonths: 2,
		fold: func(acc *riskCounts, r *schema.Record) {
			switch r.RiskBand {
			case schema.LowerRisk:
				acc.Lower++
			case schema.AverageRisk:
				acc.Average++
			default:
				acc.Higher++
			}
		},
		series: []seriesDef[riskCounts]{
			{name: "Higher", color: schema.HighRiskColor, value: func(acc *riskCounts) *float64 { return count(acc.Higher) }},
			{name: "Average", color: schema.MediumRiskColor, value: func(acc *riskCounts) *float64 { return count(acc.Average) }},
			{name: "Lower", color: schema.LowRiskColor, value: func(acc *riskCounts) *float64 { return count(acc.Lower) }},
		},
	}
}

func regressionsBuilder() *seriesBuilder[regressionCounts] {
	return &seriesBuilder[regressionCounts]{
		id:     schema.RegressionsChart,
		title:  "Number of regressions",
		yAxis:  "# of regressions",
		kind:   schema.BarChart,
		dateOf: agg.CreationDate,
		fold: func(acc *regressionCounts, r *schema.Record) {
			if !r.Regression {
				return
			}
			acc.Regressions++
			if r.Fixed {
				acc.Fixed++
			}
		},
		series: []seriesDef[regressionCounts]{
			{name: "Regressions", value: func(acc *regressionCounts) *float64 { return count(acc.Regressions) }},
			{name: "Fixed regressions", value: func(acc *regressionCounts) *float64 { return count(acc.Fixed) }},
		},
	}
}

func typesBuilder() *seriesBuilder[typeCounts] {
	series := make([]seriesDef[typeCounts], 0, len(schema.AllBugTypes))
	for _, bt := range schema.AllBugTypes {
		series = append(series, seriesDef[typeCounts]{
			name:  string(bt),
			value: func(acc *typeCounts) *float64 { return count((*acc)[bt]) },
		})
	}
	return &seriesBuilder[typeCounts]{
		id:     schema.TypesChart,
		title:  "Number of bugs by type",
		yAxis:  "# of bugs",
		kind:   schema.BarChart,
		dateOf: agg.CreationDate,
		initial: func() typeCounts {
			acc := make(typeCounts, len(schema.AllBugTypes)+1)
			for _, bt := range schema.AllBugTypes {
				acc[bt] = 0
			}
			acc[schema.UnknownBug] = 0
			return acc
		},
		fold: func(acc *typeCounts, r *schema.Record) {
			for _, bt := range r.Types {
				(*acc)[bt]++
			}
		},
		series: series,
	}
}

func fixTimeBuilder() *seriesBuilder[averageAcc] {
	return &seriesBuilder[averageAcc]{
		id:     schema.FixTimesChart,
		title:  "Average fix time",
		yAxis:  "Time",
		kind:   schema.LineChart,
		dateOf: agg.CreationDate,
		filter: func(r *schema.Record) bool { return r.IsResolved() },
		fold: func(acc *averageAcc, r *schema.Record) {
			acc.Sum += float64(r.CreationDate.DaysUntil(*r.Date))
			acc.Bugs++
		},
		series: []seriesDef[averageAcc]{
			{name: "Average fix time", value: (*averageAcc).mean},
		},
	}
}

// averageFieldBuilder averages a precomputed optional field, bucketed by creation date.
func averageFieldBuilder(id schema.ChartID, title string, field func(r *schema.Record) *float64) *seriesBuilder[averageAcc] {
	return &seriesBuilder[averageAcc]{
		id:     id,
		title:  title,
		yAxis:  "Time",
		kind:   schema.LineChart,
		dateOf: agg.CreationDate,
		filter: func(r *schema.Record) bool { return field(r) != nil },
		fold: func(acc *averageAcc, r *schema.Record) {
			acc.Sum += *field(r)
			acc.Bugs++
		},
		series: []seriesDef[averageAcc]{
			{name: title, value: (*averageAcc).mean},
		},
	}
}

// testingTagBuilder counts testing tags over every commit. It is not bucketed.
type testingTagBuilder struct{}

func (testingTagBuilder) ID() schema.ChartID { return schema.TestingChart }

func (testingTagBuilder) Build(records []schema.Record, _ *agg.Bucketer) (*schema.Chart, error) {
	counts := make(map[schema.TestingTag]int, len(schema.AllTestingTags))
	for i := range records {
		for _, commit := range records[i].Commits {
			counts[commit.Testing.Normalize()]++
		}
	}

	categories := make([]string, len(schema.AllTestingTags))
	data := make([]*float64, len(schema.AllTestingTags))
	for i, tag := range schema.AllTestingTags {
		categories[i] = tag.Label()
		data[i] = count(counts[tag])
	}
	return &schema.Chart{
		ID:         schema.TestingChart,
		Title:      "Testing tags",
		YAxisLabel: "# of changesets",
		Kind:       schema.BarChart,
		Categories: categories,
		Series:     []schema.Series{{Name: "Tags", Data: data}},
	}, nil
}
