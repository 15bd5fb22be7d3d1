package game_test

import (
	"encoding/binary"
	"testing"
	"time"

	"gamelist/internal/errors"
	"gamelist/internal/game"
	"gamelist/pkg/testutils"
	"gamelist/pkg/types"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInspector(t *testing.T) (*game.Inspector, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	return game.NewInspector(fs, 16), fs
}

func TestInspectPlainDiscs(t *testing.T) {
	insp, fs := newInspector(t)
	testutils.WriteFile(t, fs, "/games/melee.iso", testutils.GameCubeDisc("GALE01", "Super Smash Bros Melee"))
	testutils.WriteFile(t, fs, "/games/mkwii.iso", testutils.WiiDisc("RMCP01", "MARIO KART WII"))

	t.Run("gamecube", func(t *testing.T) {
		f, err := insp.Inspect("/games/melee.iso")
		require.NoError(t, err)
		assert.Equal(t, types.PlatformGameCubeDisc, f.Platform)
		assert.Equal(t, types.BlobPlain, f.Blob)
		assert.Equal(t, "GALE01", f.GameID)
		assert.Equal(t, "01", f.MakerID)
		assert.Equal(t, 1, f.Revision)
		assert.Equal(t, "Super Smash Bros Melee", f.Title())
		assert.Equal(t, "USA", f.Country())
		assert.Zero(t, f.TitleID)
	})

	t.Run("wii", func(t *testing.T) {
		f, err := insp.Inspect("/games/mkwii.iso")
		require.NoError(t, err)
		assert.Equal(t, types.PlatformWiiDisc, f.Platform)
		assert.Equal(t, "Europe", f.Country())
		assert.Equal(t, uint64(0x00010000_524D4350), f.TitleID)
		assert.Equal(t, "00010000/524d4350", f.TitleDir())
	})
}

func TestInspectGCZ(t *testing.T) {
	insp, fs := newInspector(t)
	image := testutils.GCZ(t, testutils.WiiDisc("SMNE01", "NEW SUPER MARIO BROS"), true, 512)
	testutils.WriteFile(t, fs, "/games/nsmb.gcz", image)

	f, err := insp.Inspect("/games/nsmb.gcz")
	require.NoError(t, err)
	assert.Equal(t, types.BlobGCZ, f.Blob)
	assert.Equal(t, types.PlatformWiiDisc, f.Platform)
	assert.Equal(t, "SMNE01", f.GameID)
	assert.Equal(t, "NEW SUPER MARIO BROS", f.InternalName)
}

func TestInspectContainers(t *testing.T) {
	insp, fs := newInspector(t)
	disc := testutils.GameCubeDisc("GZLE01", "ZELDA WIND WAKER")

	ciso := make([]byte, 0x8000+len(disc))
	copy(ciso, "CISO")
	copy(ciso[0x8000:], disc)
	testutils.WriteFile(t, fs, "/games/ww.ciso", ciso)

	wbfs := make([]byte, 0x200+len(disc))
	copy(wbfs, "WBFS")
	wbfs[8] = 9
	copy(wbfs[0x200:], disc)
	testutils.WriteFile(t, fs, "/games/ww.wbfs", wbfs)

	tgc := make([]byte, 0x8000+len(disc))
	binary.BigEndian.PutUint32(tgc, 0xAE0F38A2)
	binary.BigEndian.PutUint32(tgc[8:], 0x8000)
	copy(tgc[0x8000:], disc)
	testutils.WriteFile(t, fs, "/games/ww.tgc", tgc)

	tests := map[string]types.BlobType{
		"/games/ww.ciso": types.BlobCISO,
		"/games/ww.wbfs": types.BlobWBFS,
		"/games/ww.tgc":  types.BlobTGC,
	}
	for path, blob := range tests {
		t.Run(blob.String(), func(t *testing.T) {
			f, err := insp.Inspect(path)
			require.NoError(t, err)
			assert.Equal(t, blob, f.Blob)
			assert.Equal(t, "GZLE01", f.GameID)
			assert.False(t, f.Blob.Compressed())
		})
	}
}

func TestInspectWAD(t *testing.T) {
	insp, fs := newInspector(t)
	testutils.WriteFile(t, fs, "/games/channel.wad", testutils.WAD(0x00010001_48414341, 3))

	f, err := insp.Inspect("/games/channel.wad")
	require.NoError(t, err)
	assert.Equal(t, types.PlatformWiiWAD, f.Platform)
	assert.Equal(t, uint64(0x00010001_48414341), f.TitleID)
	assert.Equal(t, "HACA", f.GameID)
	assert.Equal(t, 3, f.Revision)
	assert.Equal(t, "channel", f.Title())
	assert.True(t, f.Platform.IsPackage())
}

func TestInspectHomebrew(t *testing.T) {
	insp, fs := newInspector(t)
	testutils.WriteFile(t, fs, "/apps/boot.elf", []byte("\x7fELF\x01\x02\x01"))
	testutils.WriteFile(t, fs, "/apps/boot.dol", make([]byte, 0x100))
	exe := make([]byte, 0x40)
	copy(exe, "\x7fELF\x01\x02\x01")
	exe[0x11] = 2 // ET_EXEC, big endian
	testutils.WriteFile(t, fs, "/apps/exec.elf", exe)

	for _, path := range []string{"/apps/boot.elf", "/apps/exec.elf", "/apps/boot.dol"} {
		f, err := insp.Inspect(path)
		require.NoError(t, err, path)
		assert.Equal(t, types.PlatformELFOrDOL, f.Platform)
		assert.Empty(t, f.GameID)
		assert.Nil(t, f.WikiURL("https://wiki.example.org/index.php"))
	}
}

func TestInspectErrors(t *testing.T) {
	insp, fs := newInspector(t)
	testutils.WriteFile(t, fs, "/games/junk.iso", []byte("definitely not a disc image"))
	require.NoError(t, fs.MkdirAll("/games/dir.iso", 0755))

	_, err := insp.Inspect("/games/missing.iso")
	assert.True(t, errors.IsFileNotFound(err))

	_, err = insp.Inspect("/games/junk.iso")
	assert.True(t, errors.IsUnsupportedFormat(err))

	_, err = insp.Inspect("/games/dir.iso")
	assert.Equal(t, errors.InvalidPath, errors.KindOf(err))
}

func TestInspectCorruptGCZ(t *testing.T) {
	gcz := func(compressedSize uint64, numBlocks uint32, first uint64) []byte {
		b := make([]byte, 64)
		binary.LittleEndian.PutUint32(b[0:], 0xB10BC001)
		binary.LittleEndian.PutUint64(b[8:], compressedSize)
		binary.LittleEndian.PutUint32(b[24:], 16384)
		binary.LittleEndian.PutUint32(b[28:], numBlocks)
		binary.LittleEndian.PutUint64(b[32:], first)
		return b
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"huge compressed size", gcz(1<<62, 1, 0)},
		{"huge block offset", gcz(1<<62, 1, 1<<61)},
		{"block past end of file", gcz(4096, 1, 0)},
		{"raw block past end of file", gcz(4096, 1, 1<<63)},
		{"no blocks", gcz(4096, 0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			insp, fs := newInspector(t)
			testutils.WriteFile(t, fs, "/games/broken.gcz", tt.data)

			var err error
			require.NotPanics(t, func() { _, err = insp.Inspect("/games/broken.gcz") })
			assert.True(t, errors.IsUnsupportedFormat(err))
		})
	}
}

func TestInspectorCache(t *testing.T) {
	insp, fs := newInspector(t)
	path := "/games/game.iso"
	testutils.WriteFile(t, fs, path, testutils.GameCubeDisc("GALE01", "FIRST"))

	first, err := insp.Inspect(path)
	require.NoError(t, err)
	again, err := insp.Inspect(path)
	require.NoError(t, err)
	assert.Same(t, first, again)

	// A rewritten file is read again
	testutils.WriteFile(t, fs, path, append(testutils.GameCubeDisc("GALP01", "SECOND"), 0))
	require.NoError(t, fs.Chtimes(path, time.Now(), time.Now().Add(time.Hour)))
	changed, err := insp.Inspect(path)
	require.NoError(t, err)
	assert.Equal(t, "SECOND", changed.InternalName)

	insp.Forget(path)
	forgotten, err := insp.Inspect(path)
	require.NoError(t, err)
	assert.NotSame(t, changed, forgotten)
}

func TestFileHelpers(t *testing.T) {
	f := &game.File{Path: "/games/Pikmin.gcm", GameID: "GPIE01", Size: 1459978240}

	u := f.WikiURL("https://wiki.dolphin-emu.org/index.php")
	require.NotNil(t, u)
	assert.Equal(t, "https://wiki.dolphin-emu.org/index.php?title=GPIE01", u.String())
	assert.Equal(t, "Pikmin", f.Title())
	assert.Equal(t, "Pikmin.gcm", f.FileName())
	assert.Equal(t, "1.4 GiB", f.HumanSize())

	assert.Equal(t, "Unknown", (&game.File{GameID: "GP"}).Country())
	assert.Equal(t, "512 B", (&game.File{Size: 512}).HumanSize())
	assert.Equal(t, "4.7 MiB", (&game.File{Size: 4921344}).HumanSize())
}
