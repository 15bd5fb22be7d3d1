package types

import "strings"

// Column is a game table column
type Column int

const (
	ColPlatform Column = iota
	ColBanner
	ColTitle
	ColDescription
	ColMaker
	ColID
	ColCountry
	ColSize
	ColRating
	ColumnCount
)

var columnNames = [...]string{
	ColPlatform:    "Platform",
	ColBanner:      "Banner",
	ColTitle:       "Title",
	ColDescription: "Description",
	ColMaker:       "Maker",
	ColID:          "ID",
	ColCountry:     "Country",
	ColSize:        "Size",
	ColRating:      "Quality",
}

// String returns the column header text
func (c Column) String() string {
	if c < 0 || c >= ColumnCount {
		return ""
	}
	return columnNames[c]
}

// ColumnByName looks a column up by its header text
func ColumnByName(name string) (Column, bool) {
	for i, n := range columnNames {
		if n == name {
			return Column(i), true
		}
	}
	return 0, false
}

// ParseColumn looks a column up by name, ignoring case. "rating" names
// the quality column.
func ParseColumn(name string) (Column, bool) {
	name = strings.TrimSpace(name)
	if strings.EqualFold(name, "rating") {
		return ColRating, true
	}
	for i, n := range columnNames {
		if strings.EqualFold(n, name) {
			return Column(i), true
		}
	}
	return 0, false
}

// AllColumns returns every column in display order
func AllColumns() []Column {
	cols := make([]Column, 0, ColumnCount)
	for c := Column(0); c < ColumnCount; c++ {
		cols = append(cols, c)
	}
	return cols
}
