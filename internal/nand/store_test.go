package nand

import (
	"bytes"
	"io"
	"path/filepath"
	"testing"
	"time"

	"gamelist/internal/errors"
	"gamelist/internal/game"
	"gamelist/pkg/testutils"
	"gamelist/pkg/types"

	"github.com/klauspost/compress/zip"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	s := NewStore(fs, "/nand", "/export")
	s.now = func() time.Time { return time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC) }
	return s, fs
}

func wadFile(t *testing.T, fs afero.Fs) *game.File {
	t.Helper()
	path := "/games/channel.wad"
	testutils.WriteFile(t, fs, path, testutils.WAD(0x00010001_48414341, 1))
	insp := game.NewInspector(fs, 4)
	f, err := insp.Inspect(path)
	require.NoError(t, err)
	return f
}

func TestPaths(t *testing.T) {
	s, _ := newTestStore(t)
	f := &game.File{Platform: types.PlatformWiiDisc, TitleID: 0x00010000_524D4345}

	assert.Equal(t, filepath.FromSlash("/nand/title/00010000/524d4345"), s.TitlePath(f))
	assert.Equal(t, filepath.FromSlash("/nand/title/00010000/524d4345/data"), s.SaveFolder(f))
	assert.False(t, s.IsInstalled(f), "discs are never installed")
}

func TestInstallUninstall(t *testing.T) {
	s, fs := newTestStore(t)
	f := wadFile(t, fs)

	assert.False(t, s.IsInstalled(f))
	require.NoError(t, s.Install(f))
	assert.True(t, s.IsInstalled(f))

	installed, err := afero.ReadFile(fs, filepath.Join(s.ContentPath(f), "title.wad"))
	require.NoError(t, err)
	original, err := afero.ReadFile(fs, f.Path)
	require.NoError(t, err)
	assert.Equal(t, original, installed)

	// Save data survives uninstalling
	testutils.WriteFile(t, fs, filepath.Join(s.SaveFolder(f), "banner.bin"), []byte("save"))
	require.NoError(t, s.Uninstall(f))
	assert.False(t, s.IsInstalled(f))
	exists, err := afero.Exists(fs, filepath.Join(s.SaveFolder(f), "banner.bin"))
	require.NoError(t, err)
	assert.True(t, exists)

	err = s.Uninstall(f)
	assert.Equal(t, errors.InvalidOperation, errors.KindOf(err))
}

func TestInstallRejectsDiscs(t *testing.T) {
	s, _ := newTestStore(t)
	err := s.Install(&game.File{Path: "/games/melee.iso", Platform: types.PlatformGameCubeDisc})
	require.Error(t, err)
	assert.Equal(t, errors.InvalidOperation, errors.KindOf(err))
}

func TestExportSave(t *testing.T) {
	s, fs := newTestStore(t)
	f := &game.File{Path: "/games/mkwii.iso", Platform: types.PlatformWiiDisc, GameID: "RMCE01", TitleID: 0x00010000_524D4345}

	_, err := s.ExportSave(f)
	assert.True(t, errors.IsFileNotFound(err))

	testutils.WriteFile(t, fs, filepath.Join(s.SaveFolder(f), "rksys.dat"), []byte("race data"))
	testutils.WriteFile(t, fs, filepath.Join(s.SaveFolder(f), "ghosts", "ghost1.rkg"), bytes.Repeat([]byte{7}, 512))

	archive, err := s.ExportSave(f)
	require.NoError(t, err)
	assert.Equal(t, filepath.FromSlash("/export/RMCE01-20240501-123000.zip"), archive)

	data, err := afero.ReadFile(fs, archive)
	require.NoError(t, err)
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	contents := map[string]string{}
	for _, zf := range zr.File {
		rc, err := zf.Open()
		require.NoError(t, err)
		b, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		contents[zf.Name] = string(b)
	}
	assert.Equal(t, "race data", contents["rksys.dat"])
	assert.Len(t, contents["ghosts/ghost1.rkg"], 512)
}

func TestExportSaveRejectsGameCube(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.ExportSave(&game.File{Platform: types.PlatformGameCubeDisc})
	assert.Equal(t, errors.InvalidOperation, errors.KindOf(err))
}
