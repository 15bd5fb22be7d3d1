package gamelist

import (
	"testing"

	"gamelist/internal/game"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// layout renders a menu as its labels, with "-" for separators
func layout(entries []MenuEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Separator {
			out = append(out, "-")
			continue
		}
		out = append(out, e.Label())
	}
	return out
}

func has(entries []MenuEntry, a Action) bool {
	for _, e := range entries {
		if !e.Separator && e.Action == a {
			return true
		}
	}
	return false
}

func TestBuildMenuLayout(t *testing.T) {
	tests := []struct {
		name string
		file *game.File
		want []string
	}{
		{
			name: "gamecube disc",
			file: gcPlain,
			want: []string{
				"Properties", "Wiki", "-",
				"Default ISO", "Compress ISO...", "-",
				"Open Containing Folder", "Remove File",
			},
		},
		{
			name: "compressed gamecube disc",
			file: gcGCZ,
			want: []string{
				"Properties", "Wiki", "-",
				"Default ISO", "Decompress ISO...", "-",
				"Open Containing Folder", "Remove File",
			},
		},
		{
			name: "wii disc",
			file: wiiPlain,
			want: []string{
				"Properties", "Wiki", "-",
				"Default ISO", "Compress ISO...", "-",
				"Open Wii save folder", "Export Wii save (Experimental)", "-",
				"Open Containing Folder", "Remove File",
			},
		},
		{
			name: "wii package",
			file: wad,
			want: []string{
				"Properties", "Wiki", "-",
				"Install to the NAND", "Uninstall from the NAND", "-",
				"Open Wii save folder", "Export Wii save (Experimental)", "-",
				"Open Containing Folder", "Remove File",
			},
		},
		{
			name: "homebrew",
			file: homebrew,
			want: []string{"Properties", "Wiki", "-", "Open Containing Folder", "Remove File"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, layout(BuildMenu(tt.file, false, false)))
		})
	}
}

func TestCompressOrDecompressExactlyOne(t *testing.T) {
	for _, f := range []*game.File{gcPlain, gcGCZ, wiiPlain, wiiWBFS} {
		entries := BuildMenu(f, false, false)
		compress, decompress := has(entries, ActionCompress), has(entries, ActionDecompress)
		assert.NotEqual(t, compress, decompress, f.Path)
		assert.Equal(t, f.Blob.Compressed(), decompress, f.Path)
	}
}

func TestPackageEntryEnablement(t *testing.T) {
	tests := []struct {
		running, installed bool
		install, uninstall bool
	}{
		{false, false, true, false},
		{false, true, true, true},
		{true, false, false, false},
		{true, true, false, false},
	}
	for _, tt := range tests {
		entries := BuildMenu(wad, tt.running, tt.installed)
		assert.Equal(t, tt.install, enabled(entries, ActionInstall), "install running=%v installed=%v", tt.running, tt.installed)
		assert.Equal(t, tt.uninstall, enabled(entries, ActionUninstall), "uninstall running=%v installed=%v", tt.running, tt.installed)
	}
}

func TestLiveMenuFollowsEmulation(t *testing.T) {
	h := newHarness(wad)
	h.packages.setInstalled(wad, true)

	m, err := h.d.NewMenu(wad.Path)
	require.NoError(t, err)
	defer m.Close()

	changes := 0
	m.OnChange(func() { changes++ })

	assert.True(t, m.Enabled(ActionInstall))
	assert.True(t, m.Enabled(ActionUninstall))

	h.state.SetRunning(true)
	assert.False(t, m.Enabled(ActionInstall))
	assert.False(t, m.Enabled(ActionUninstall))

	// The installed state is asked again when emulation stops
	h.packages.setInstalled(wad, false)
	h.state.SetRunning(false)
	assert.True(t, m.Enabled(ActionInstall))
	assert.False(t, m.Enabled(ActionUninstall))

	h.packages.setInstalled(wad, true)
	h.state.SetRunning(true)
	h.state.SetRunning(false)
	assert.True(t, m.Enabled(ActionUninstall))
	assert.Equal(t, 4, changes)
}

func TestLiveMenuStartsDisabledWhileRunning(t *testing.T) {
	h := newHarness(wad)
	h.packages.setInstalled(wad, true)
	h.state.SetRunning(true)

	m, err := h.d.NewMenu(wad.Path)
	require.NoError(t, err)
	defer m.Close()
	assert.False(t, m.Enabled(ActionInstall))
	assert.False(t, m.Enabled(ActionUninstall))
	assert.True(t, m.Has(ActionUninstall))
}

func TestMenuCloseDropsSubscription(t *testing.T) {
	h := newHarness(wad, gcPlain)

	m, err := h.d.NewMenu(wad.Path)
	require.NoError(t, err)
	assert.Equal(t, 1, h.state.Subscribers())
	m.Close()
	m.Close()
	assert.Equal(t, 0, h.state.Subscribers())

	h.state.SetRunning(true)
	assert.True(t, m.Enabled(ActionInstall), "a closed menu no longer changes")

	// Discs have nothing that depends on emulation
	dm, err := h.d.NewMenu(gcPlain.Path)
	require.NoError(t, err)
	assert.Equal(t, 0, h.state.Subscribers())
	assert.False(t, dm.Has(ActionInstall))
	assert.Equal(t, gcPlain.Path, dm.Path())
	dm.Close()

	_, err = h.d.NewMenu("/games/missing.iso")
	assert.Error(t, err)
}

func TestActionNames(t *testing.T) {
	for a := ActionProperties; a < actionCount; a++ {
		parsed, ok := ParseAction(a.String())
		assert.True(t, ok, a.String())
		assert.Equal(t, a, parsed)
		assert.NotEmpty(t, a.Label())
	}
	_, ok := ParseAction("format-c")
	assert.False(t, ok)
	assert.Equal(t, "unknown", actionCount.String())
}
