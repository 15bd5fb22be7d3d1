package types

// ViewMode identifies which game list view is displayed
type ViewMode int

const (
	// ViewTable shows the catalog as a sortable table
	ViewTable ViewMode = iota
	// ViewIconGrid shows the catalog as a grid of icons
	ViewIconGrid
	// ViewEmpty is shown instead of either view while the catalog has no games
	ViewEmpty
)

// String returns the view mode name
func (v ViewMode) String() string {
	switch v {
	case ViewTable:
		return "table"
	case ViewIconGrid:
		return "grid"
	case ViewEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// ParseViewMode converts a name produced by String back to a ViewMode.
// Only the two selectable modes are accepted.
func ParseViewMode(name string) (ViewMode, bool) {
	switch name {
	case "table", "list":
		return ViewTable, true
	case "grid", "icon", "icons":
		return ViewIconGrid, true
	}
	return ViewTable, false
}
