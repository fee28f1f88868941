package schema

import (
	"fmt"
	"math"
	"time"
)

// Series is one named data series of a chart. Data[i] is aligned with the chart's
// Categories[i]; a nil point means "no value" and is never rendered as zero.
type Series struct {
	Name  string     `json:"name"`
	Data  []*float64 `json:"data"`
	Color string     `json:"color,omitempty"`
}

// Chart is the rendering-agnostic output of a series builder.
type Chart struct {
	ID         ChartID   `json:"id"`
	Title      string    `json:"title"`
	YAxisLabel string    `json:"y_axis_label"`
	Kind       ChartKind `json:"kind"`
	Categories []string  `json:"categories"`
	Series     []Series  `json:"series"`
}

// Summary holds the headline numbers of a dashboard.
type Summary struct {
	MetaBug       int      `json:"meta_bug,omitempty"`
	Bugs          int      `json:"bugs"`
	Changesets    int      `json:"changesets"`
	ResolvedBugs  int      `json:"resolved_bugs"`
	MedianFixDays *float64 `json:"median_fix_days"`
	P90FixDays    *float64 `json:"p90_fix_days"`
	Text          string   `json:"text"`
}

// ComponentShare is a component and its share of a bug's regressions.
type ComponentShare struct {
	Component string  `json:"component"`
	Share     float64 `json:"share"`
}

// String renders the share as "component - 42%".
func (c ComponentShare) String() string {
	return fmt.Sprintf("%s - %d%%", c.Component, int(math.Round(100*c.Share)))
}

// TableRow is one row of the bug table.
type TableRow struct {
	ID          int              `json:"id"`
	Summary     string           `json:"summary"`
	Date        string           `json:"date"`
	TestingTags []string         `json:"testing_tags"`
	Coverage    string           `json:"coverage"`
	RiskBand    RiskBand         `json:"risk_band"`
	Risk        string           `json:"risk"`
	Components  []ComponentShare `json:"components"`
}

// DashboardResult is everything produced for one dashboard rendering.
type DashboardResult struct {
	Grouping  Granularity `json:"grouping"`
	SortKey   SortKey     `json:"sort_key"`
	Direction Direction   `json:"direction"`
	Today     Date        `json:"today"`
	Summary   Summary     `json:"summary"`
	Charts    []Chart     `json:"charts"`
	Rows      []TableRow  `json:"rows,omitempty"`
}

// BucketsResult lists the bucket labels of a date range.
type BucketsResult struct {
	Grouping Granularity `json:"grouping"`
	Labels   []string    `json:"labels"`
}

// StoreStatus represents the status of the record store.
type StoreStatus struct {
	Backend          string    `json:"backend"`
	Connected        bool      `json:"connected"`
	TotalRows        int       `json:"total_rows"`
	DistinctBugs     int       `json:"distinct_bugs"`
	TotalImports     int       `json:"total_imports"`
	LastImportID     string    `json:"last_import_id"`
	LastImportTime   time.Time `json:"last_import_time"`
	OldestImportTime time.Time `json:"oldest_import_time"`
}

// Float returns a pointer to v, for building series points.
func Float(v float64) *float64 {
	return &v
}
