package types

import (
	"testing"

	"github.com/alecthomas/assert"
)

func TestViewModeRoundTrip(t *testing.T) {
	for _, v := range []ViewMode{ViewTable, ViewIconGrid} {
		parsed, ok := ParseViewMode(v.String())
		assert.True(t, ok)
		assert.Equal(t, v, parsed)
	}

	_, ok := ParseViewMode(ViewEmpty.String())
	assert.False(t, ok, "empty is derived, never selected")
}

func TestPlatformKinds(t *testing.T) {
	assert.True(t, PlatformGameCubeDisc.IsDisc())
	assert.True(t, PlatformWiiDisc.IsDisc())
	assert.False(t, PlatformWiiWAD.IsDisc())

	assert.True(t, PlatformWiiWAD.IsPackage())
	assert.False(t, PlatformWiiDisc.IsPackage())

	assert.True(t, PlatformWiiDisc.HasWiiSave())
	assert.True(t, PlatformWiiWAD.HasWiiSave())
	assert.False(t, PlatformGameCubeDisc.HasWiiSave())
	assert.False(t, PlatformELFOrDOL.HasWiiSave())
}

func TestBlobCompressed(t *testing.T) {
	assert.True(t, BlobGCZ.Compressed())
	for _, b := range []BlobType{BlobPlain, BlobCISO, BlobWBFS, BlobTGC, BlobUnknown} {
		assert.False(t, b.Compressed(), b.String())
	}
}

func TestColumnByName(t *testing.T) {
	for _, c := range AllColumns() {
		got, ok := ColumnByName(c.String())
		assert.True(t, ok)
		assert.Equal(t, c, got)
	}

	_, ok := ColumnByName("Nope")
	assert.False(t, ok)
	assert.Equal(t, "", ColumnCount.String())
}

func TestParseColumn(t *testing.T) {
	c, ok := ParseColumn("title")
	assert.True(t, ok)
	assert.Equal(t, ColTitle, c)

	c, ok = ParseColumn(" Rating ")
	assert.True(t, ok)
	assert.Equal(t, ColRating, c)

	c, ok = ParseColumn("quality")
	assert.True(t, ok)
	assert.Equal(t, ColRating, c)

	_, ok = ParseColumn("publisher")
	assert.False(t, ok)
}
