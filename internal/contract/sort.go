package contract

import "github.com/huangsam/riskboard/schema"

// SortState is the active table ordering.
type SortState struct {
	Key       schema.SortKey   `json:"key"`
	Direction schema.Direction `json:"direction"`
}

// DefaultSortState orders by date, newest first.
var DefaultSortState = SortState{Key: schema.SortByDate, Direction: schema.Descending}

// NextSort returns the ordering after a column header is selected. Selecting the
// active key flips the direction; selecting another key starts it descending.
func NextSort(current SortState, clicked schema.SortKey) SortState {
	if current.Key != clicked {
		return SortState{Key: clicked, Direction: schema.Descending}
	}
	if current.Direction == schema.Descending {
		return SortState{Key: clicked, Direction: schema.Ascending}
	}
	return SortState{Key: clicked, Direction: schema.Descending}
}
