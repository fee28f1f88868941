package schema

import (
	"fmt"
	"strings"
	"time"
)

// Custom string types for type safety.
type (
	// Granularity represents the calendar unit used to bucket records.
	Granularity string

	// SortKey represents a column the bug table can be ordered by.
	SortKey string

	// Direction represents the sort direction.
	Direction string

	// RiskBand represents the risk classification of a bug's changes.
	// The empty band means no commits were associated with the bug.
	RiskBand string

	// TestingTag represents the testing policy code attached to a commit.
	TestingTag string

	// BugType represents a classification tag attached to a bug.
	BugType string

	// OutputMode represents the format of the output.
	OutputMode string

	// SourceKind represents where records are loaded from.
	SourceKind string

	// DatabaseBackend represents the database backend for the record store.
	DatabaseBackend string

	// ChartID identifies one of the dashboard charts.
	ChartID string

	// ChartKind represents the rendering style of a chart.
	ChartKind string
)

// All granularities supported.
const (
	DayGranularity   Granularity = "day"
	WeekGranularity  Granularity = "week" // default
	MonthGranularity Granularity = "month"
)

// All sort keys supported.
const (
	SortByDate      SortKey = "Date" // default
	SortByRiskiness SortKey = "Riskiness"
	SortByBug       SortKey = "Bug"
	SortByCoverage  SortKey = "Coverage"
)

// All sort directions supported.
const (
	Ascending  Direction = "ASC"
	Descending Direction = "DESC" // default
)

// All risk bands supported.
const (
	NoRisk      RiskBand = ""
	LowerRisk   RiskBand = "l"
	AverageRisk RiskBand = "a"
	HigherRisk  RiskBand = "h"
)

// All testing tags supported.
const (
	TestingApproved  TestingTag = "testing-approved"
	TestingUnchanged TestingTag = "testing-exception-unchanged"
	TestingElsewhere TestingTag = "testing-exception-elsewhere"
	TestingUI        TestingTag = "testing-exception-ui"
	TestingOther     TestingTag = "testing-exception-other"
	TestingMissing   TestingTag = "missing"
	TestingUnknown   TestingTag = "unknown"
)

// All bug types supported.
const (
	CrashBug       BugType = "crash"
	MemoryBug      BugType = "memory"
	PerformanceBug BugType = "performance"
	SecurityBug    BugType = "security"
	UnknownBug     BugType = "unknown"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
	HTMLOut    OutputMode = "html"
)

// All record sources supported.
const (
	FileSource  SourceKind = "file" // default
	StoreSource SourceKind = "store"
)

// All store backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All dashboard charts, in display order.
const (
	TestingChart       ChartID = "testing"
	RiskChart          ChartID = "risk"
	RegressionsChart   ChartID = "regressions"
	TypesChart         ChartID = "types"
	FixTimesChart      ChartID = "fix_times"
	TimeToBugChart     ChartID = "time_to_bug"
	TimeToConfirmChart ChartID = "time_to_confirm"
)

// All chart kinds supported.
const (
	BarChart  ChartKind = "bar"
	LineChart ChartKind = "line"
)

// Risk band colors used by the HTML charts.
const (
	HighRiskColor   = "rgb(255, 13, 87)"
	MediumRiskColor = "darkkhaki"
	LowRiskColor    = "green"
)

// TestingTagInfo holds display metadata for a testing tag.
type TestingTagInfo struct {
	Label string
	Color string
}

// AllTestingTags lists every testing tag in display order. Unknown is always last.
var AllTestingTags = []TestingTag{
	TestingApproved,
	TestingUnchanged,
	TestingElsewhere,
	TestingUI,
	TestingOther,
	TestingMissing,
	TestingUnknown,
}

// TestingTags maps each testing tag to its label and color.
var TestingTags = map[TestingTag]TestingTagInfo{
	TestingApproved:  {Label: "approved", Color: "#3a9c45"},
	TestingUnchanged: {Label: "unchanged", Color: "#6aa4d9"},
	TestingElsewhere: {Label: "elsewhere", Color: "#4b6fb0"},
	TestingUI:        {Label: "ui", Color: "#b57edc"},
	TestingOther:     {Label: "other", Color: "#d9a441"},
	TestingMissing:   {Label: "missing", Color: "#d9534f"},
	TestingUnknown:   {Label: "unknown", Color: "#9e9e9e"},
}

// Label returns the display label of the tag. Unrecognized codes are labeled as unknown.
func (t TestingTag) Label() string {
	return TestingTags[t.Normalize()].Label
}

// Normalize maps an absent or unrecognized code to TestingUnknown.
func (t TestingTag) Normalize() TestingTag {
	if _, ok := TestingTags[t]; ok && t != "" {
		return t
	}
	return TestingUnknown
}

// AllBugTypes lists the known bug types that get their own series. Unknown is excluded.
var AllBugTypes = []BugType{CrashBug, MemoryBug, PerformanceBug, SecurityBug}

// Rank returns the position of the band in the strict order none < l < a < h.
func (b RiskBand) Rank() (int, error) {
	switch b {
	case NoRisk:
		return 0, nil
	case LowerRisk:
		return 1, nil
	case AverageRisk:
		return 2, nil
	case HigherRisk:
		return 3, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownRiskBand, string(b))
	}
}

// Validate returns ErrUnknownRiskBand for anything other than none, l, a or h.
func (b RiskBand) Validate() error {
	_, err := b.Rank()
	return err
}

// Label returns Lower, Average, Higher or N/A for the band.
func (b RiskBand) Label() (string, error) {
	switch b {
	case LowerRisk:
		return "Lower", nil
	case AverageRisk:
		return "Average", nil
	case HigherRisk:
		return "Higher", nil
	case NoRisk:
		return "N/A", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRiskBand, string(b))
	}
}

// ValidGranularities lists all valid granularities.
var ValidGranularities = map[Granularity]struct{}{
	DayGranularity:   {},
	WeekGranularity:  {},
	MonthGranularity: {},
}

// ValidSortKeys lists all valid sort keys.
var ValidSortKeys = map[SortKey]struct{}{
	SortByDate:      {},
	SortByRiskiness: {},
	SortByBug:       {},
	SortByCoverage:  {},
}

// ValidDirections lists all valid sort directions.
var ValidDirections = map[Direction]struct{}{
	Ascending:  {},
	Descending: {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
	HTMLOut:    {},
}

// ValidSourceKinds lists all valid record sources.
var ValidSourceKinds = map[SourceKind]struct{}{
	FileSource:  {},
	StoreSource: {},
}

// ValidDatabaseBackends lists all valid store backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ParseGranularity parses a grouping option case-insensitively.
func ParseGranularity(s string) (Granularity, error) {
	g := Granularity(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := ValidGranularities[g]; !ok {
		return "", fmt.Errorf("%w: %q (must be day, week, month)", ErrUnknownGranularity, s)
	}
	return g, nil
}

// ParseSortKey matches a sort key case-insensitively.
func ParseSortKey(s string) (SortKey, error) {
	for key := range ValidSortKeys {
		if strings.EqualFold(string(key), strings.TrimSpace(s)) {
			return key, nil
		}
	}
	return "", fmt.Errorf("%w: %q (must be Date, Riskiness, Bug, Coverage)", ErrUnknownSortKey, s)
}

// ParseDirection parses ASC or DESC case-insensitively.
func ParseDirection(s string) (Direction, error) {
	d := Direction(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := ValidDirections[d]; !ok {
		return "", fmt.Errorf("invalid direction %q: must be ASC or DESC", s)
	}
	return d, nil
}

// ParseWeekday parses an English weekday name such as "monday" or "Sun".
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		name := strings.ToLower(wd.String())
		if s == name || (len(s) >= 3 && strings.HasPrefix(name, s)) {
			return wd, nil
		}
	}
	return time.Monday, fmt.Errorf("invalid weekday %q", s)
}
