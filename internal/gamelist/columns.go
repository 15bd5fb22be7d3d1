package gamelist

import (
	"fmt"
	"strconv"

	"gamelist/internal/game"
	"gamelist/pkg/types"
)

// ColumnText is the text a view shows for column col of f. Columns that
// carry no text, such as the banner, are empty.
func ColumnText(f *game.File, col types.Column) string {
	switch col {
	case types.ColPlatform:
		return f.Platform.String()
	case types.ColTitle:
		return f.Title()
	case types.ColDescription:
		return Description(f)
	case types.ColMaker:
		return f.MakerID
	case types.ColID:
		return f.GameID
	case types.ColCountry:
		if f.GameID == "" {
			return ""
		}
		return f.Country()
	case types.ColSize:
		return f.HumanSize()
	}
	return ""
}

// Description summarizes the file format: the container and disc details
// for disc images, the file name for everything else.
func Description(f *game.File) string {
	if !f.Platform.IsDisc() {
		return f.FileName()
	}
	desc := f.Blob.String() + " image"
	if f.DiscNumber > 0 {
		desc += fmt.Sprintf(", disc %d", f.DiscNumber+1)
	}
	if f.Revision > 0 {
		desc += ", revision " + strconv.Itoa(f.Revision)
	}
	return desc
}
