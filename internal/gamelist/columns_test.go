package gamelist

import (
	"testing"

	"gamelist/internal/game"
	"gamelist/pkg/types"

	"github.com/stretchr/testify/assert"
)

func TestColumnText(t *testing.T) {
	zelda := &game.File{
		Path:         "/games/zelda.gcm",
		GameID:       "GZLP01",
		MakerID:      "01",
		InternalName: "Zelda",
		Platform:     types.PlatformGameCubeDisc,
		Blob:         types.BlobPlain,
		Size:         1459978240,
		Revision:     2,
		DiscNumber:   1,
	}

	tests := []struct {
		col  types.Column
		want string
	}{
		{types.ColPlatform, "GameCube"},
		{types.ColBanner, ""},
		{types.ColTitle, "Zelda"},
		{types.ColDescription, "ISO image, disc 2, revision 2"},
		{types.ColMaker, "01"},
		{types.ColID, "GZLP01"},
		{types.ColCountry, "Europe"},
		{types.ColSize, "1.4 GiB"},
		{types.ColRating, ""},
	}
	for _, tt := range tests {
		t.Run(tt.col.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, ColumnText(zelda, tt.col))
		})
	}

	assert.Equal(t, "GCZ image", Description(gcGCZ))
	assert.Equal(t, "boot.dol", ColumnText(homebrew, types.ColDescription))
	assert.Empty(t, ColumnText(homebrew, types.ColCountry))
}
