package algo

import (
	"slices"
	"testing"

	"github.com/huangsam/riskboard/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intp(v int) *int { return &v }

func datep(s string) *schema.Date {
	d := schema.MustParseDate(s)
	return &d
}

func ids(records []schema.Record) []int {
	out := make([]int, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func withCoverage(id, added, covered, unknown int) schema.Record {
	return schema.Record{
		ID: id,
		Commits: []schema.Commit{
			{Coverage: &schema.Coverage{Added: intp(added), Covered: intp(covered), Unknown: intp(unknown)}},
		},
	}
}

func TestSummarizeCoverage(t *testing.T) {
	tests := []struct {
		name    string
		record  schema.Record
		want    [3]int
		uncover int
	}{
		{name: "no commits", record: schema.Record{}, want: [3]int{0, 0, 0}},
		{
			name: "absent coverage contributes zero",
			record: schema.Record{Commits: []schema.Commit{
				{Coverage: &schema.Coverage{Added: intp(10), Covered: intp(4), Unknown: intp(1)}},
				{},
				{Coverage: &schema.Coverage{Added: intp(5)}},
			}},
			want:    [3]int{15, 4, 1},
			uncover: 10,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, c, u := SummarizeCoverage(&tt.record)
			assert.Equal(t, tt.want, [3]int{a, c, u})
			assert.Equal(t, tt.uncover, Uncovered(&tt.record))
		})
	}
}

// TestSummarizeCoverageAdditive checks that the summary of a record equals the
// sum of the summaries of its commits taken one at a time.
func TestSummarizeCoverageAdditive(t *testing.T) {
	commits := []schema.Commit{
		{Coverage: &schema.Coverage{Added: intp(3), Covered: intp(1), Unknown: intp(1)}},
		{Coverage: &schema.Coverage{Added: intp(7), Unknown: intp(2)}},
		{},
		{Coverage: &schema.Coverage{Covered: intp(9)}},
	}
	whole := schema.Record{Commits: commits}
	a, c, u := SummarizeCoverage(&whole)

	var sa, sc, su int
	for _, commit := range commits {
		part := schema.Record{Commits: []schema.Commit{commit}}
		pa, pc, pu := SummarizeCoverage(&part)
		sa, sc, su = sa+pa, sc+pc, su+pu
	}
	assert.Equal(t, [3]int{sa, sc, su}, [3]int{a, c, u})
}

func TestSortRecordsByKey(t *testing.T) {
	records := []schema.Record{
		{ID: 3, CreationDate: schema.MustParseDate("2024-01-05"), RiskBand: schema.AverageRisk},
		{ID: 1, CreationDate: schema.MustParseDate("2024-01-01"), Date: datep("2024-01-20"), RiskBand: schema.HigherRisk},
		{ID: 2, CreationDate: schema.MustParseDate("2024-01-10"), RiskBand: schema.NoRisk},
		{ID: 4, CreationDate: schema.MustParseDate("2024-01-02"), RiskBand: schema.LowerRisk},
	}

	tests := []struct {
		name string
		key  schema.SortKey
		dir  schema.Direction
		want []int
	}{
		{name: "date asc uses resolution then creation", key: schema.SortByDate, dir: schema.Ascending, want: []int{4, 3, 2, 1}},
		{name: "date desc", key: schema.SortByDate, dir: schema.Descending, want: []int{1, 2, 3, 4}},
		{name: "bug asc", key: schema.SortByBug, dir: schema.Ascending, want: []int{1, 2, 3, 4}},
		{name: "bug desc", key: schema.SortByBug, dir: schema.Descending, want: []int{4, 3, 2, 1}},
		{name: "riskiness asc null first", key: schema.SortByRiskiness, dir: schema.Ascending, want: []int{2, 4, 3, 1}},
		{name: "riskiness desc", key: schema.SortByRiskiness, dir: schema.Descending, want: []int{1, 3, 4, 2}},
		{name: "unknown key is a no-op", key: schema.SortKey("Severity"), dir: schema.Descending, want: []int{3, 1, 2, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SortRecords(records, tt.key, tt.dir)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}

	assert.Equal(t, []int{3, 1, 2, 4}, ids(records), "input must not be reordered")
}

func TestSortRecordsByCoverage(t *testing.T) {
	records := []schema.Record{
		withCoverage(1, 10, 2, 0), // uncovered 8
		withCoverage(2, 5, 5, 0),  // uncovered 0, added 5
		withCoverage(3, 2, 1, 1),  // uncovered 0, added 2
		{ID: 4},                   // uncovered 0, added 0
	}
	got, err := SortRecords(records, schema.SortByCoverage, schema.Ascending)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 3, 2, 1}, ids(got))
}

func TestSortRecordsStable(t *testing.T) {
	records := []schema.Record{
		{ID: 10, RiskBand: schema.HigherRisk},
		{ID: 11, RiskBand: schema.LowerRisk},
		{ID: 12, RiskBand: schema.HigherRisk},
		{ID: 13, RiskBand: schema.LowerRisk},
		{ID: 14, RiskBand: schema.HigherRisk},
	}
	asc, err := SortRecords(records, schema.SortByRiskiness, schema.Ascending)
	require.NoError(t, err)
	assert.Equal(t, []int{11, 13, 10, 12, 14}, ids(asc))

	desc, err := SortRecords(records, schema.SortByRiskiness, schema.Descending)
	require.NoError(t, err)
	assert.Equal(t, []int{10, 12, 14, 11, 13}, ids(desc), "ties keep insertion order under DESC")
}

// TestSortRecordsDirectionRoundTrip checks that DESC is the reverse of ASC when keys are distinct.
func TestSortRecordsDirectionRoundTrip(t *testing.T) {
	records := []schema.Record{{ID: 5}, {ID: 2}, {ID: 9}, {ID: 1}, {ID: 7}}
	asc, err := SortRecords(records, schema.SortByBug, schema.Ascending)
	require.NoError(t, err)
	desc, err := SortRecords(records, schema.SortByBug, schema.Descending)
	require.NoError(t, err)

	reversed := ids(desc)
	slices.Reverse(reversed)
	assert.Equal(t, ids(asc), reversed)
}

func TestSortRecordsUnknownRiskBand(t *testing.T) {
	records := []schema.Record{{ID: 1, RiskBand: schema.LowerRisk}, {ID: 2, RiskBand: "medium"}}

	for _, dir := range []schema.Direction{schema.Ascending, schema.Descending} {
		assert.NotPanics(t, func() {
			_, err := SortRecords(records, schema.SortByRiskiness, dir)
			assert.ErrorIs(t, err, schema.ErrUnknownRiskBand)
		})
	}

	bad := []schema.Record{{ID: 1, RiskBand: "x"}, {ID: 2, RiskBand: schema.LowerRisk}}
	assert.NotPanics(t, func() {
		_, err := SortRecords(bad, schema.SortByRiskiness, schema.Descending)
		assert.ErrorIs(t, err, schema.ErrUnknownRiskBand)
	})

	// Other keys do not inspect the band.
	got, err := SortRecords(records, schema.SortByBug, schema.Descending)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1}, ids(got))
}

func TestComparatorForUnknownKey(t *testing.T) {
	_, ok := comparatorFor("bogus", schema.Ascending)
	assert.False(t, ok)
}
