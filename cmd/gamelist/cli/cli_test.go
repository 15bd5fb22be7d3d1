package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"gamelist/internal/game"
	"gamelist/internal/gamelist"
	"gamelist/pkg/testutils"
	"gamelist/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var melee = &game.File{
	Path:         "/games/melee.iso",
	GameID:       "GALE01",
	MakerID:      "01",
	InternalName: "Super Smash Bros. Melee",
	Platform:     types.PlatformGameCubeDisc,
	Blob:         types.BlobPlain,
	Size:         1459978240,
}

func TestPrompterConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"retry\n", true},
		{"\n", false},
		{"n\n", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			var out bytes.Buffer
			p := NewPrompter(context.Background(), strings.NewReader(tt.input), &out)
			got := p.RetryAbort(gamelist.Prompt{Title: "Failed to delete", Confirm: "Retry", Dismiss: "Abort"})
			assert.Equal(t, tt.want, got)
			assert.Contains(t, testutils.StripANSI(out.String()), "[y = Retry / N = Abort]")
		})
	}
}

func TestPrompterAssumeYes(t *testing.T) {
	p := NewPrompter(context.Background(), strings.NewReader(""), &bytes.Buffer{})
	p.AssumeYes = true
	assert.True(t, p.Confirm(gamelist.Prompt{Title: "Confirm"}))
	assert.False(t, p.RetryAbort(gamelist.Prompt{Title: "Failed to delete", Confirm: "Retry", Dismiss: "Abort"}),
		"an unattended run never retries")

	path, ok := p.SaveFile(gamelist.SaveRequest{Directory: "/games", FileName: "GALE01.gcz"})
	require.True(t, ok)
	assert.Equal(t, "/games/GALE01.gcz", path)
}

func TestPrompterSaveFile(t *testing.T) {
	req := gamelist.SaveRequest{Title: "Save", Directory: "/games", FileName: "GALE01.gcz", Extension: ".gcz"}

	p := NewPrompter(context.Background(), strings.NewReader("\n"), &bytes.Buffer{})
	path, ok := p.SaveFile(req)
	require.True(t, ok)
	assert.Equal(t, "/games/GALE01.gcz", path, "an empty answer takes the suggestion")

	p = NewPrompter(context.Background(), strings.NewReader("/out/melee\n"), &bytes.Buffer{})
	path, ok = p.SaveFile(req)
	require.True(t, ok)
	assert.Equal(t, "/out/melee.gcz", path)

	p = NewPrompter(context.Background(), strings.NewReader(""), &bytes.Buffer{})
	_, ok = p.SaveFile(req)
	assert.False(t, ok, "closed input cancels")
}

func TestProgress(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var out bytes.Buffer
	p := NewPrompter(ctx, strings.NewReader(""), &out)

	pr := p.Progress("Compressing", "Compressing ISO...")
	pr.SetValue(50)
	pr.SetValue(50)
	assert.False(t, pr.Cancelled())
	cancel()
	assert.True(t, pr.Cancelled())
	pr.Done()

	text := testutils.StripANSI(out.String())
	assert.Equal(t, 1, strings.Count(text, " 50%"), "repeated values are not redrawn")
	assert.Contains(t, text, strings.Repeat("█", 15)+strings.Repeat("░", 15))
}

func TestProgressClamps(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(context.Background(), strings.NewReader(""), &out)

	pr := p.Progress("Compressing", "Compressing ISO...")
	require.NotPanics(t, func() {
		pr.SetValue(-20)
		pr.SetValue(250)
	})
	pr.Done()

	text := testutils.StripANSI(out.String())
	assert.Contains(t, text, "  0%")
	assert.Contains(t, text, "100%")
	assert.NotContains(t, text, "250%")
}

func TestGameTable(t *testing.T) {
	text := testutils.StripANSI(GameTable([]*game.File{melee}, []types.Column{types.ColBanner, types.ColTitle, types.ColID}))
	assert.Contains(t, text, "Title")
	assert.Contains(t, text, "Super Smash Bros. Melee")
	assert.Contains(t, text, "GALE01")
	assert.NotContains(t, text, "Banner")
}

func TestSetTheme(t *testing.T) {
	t.Cleanup(func() { CurrentTheme = DefaultTheme })
	assert.True(t, SetTheme("gruvbox"))
	assert.Equal(t, "gruvbox", CurrentTheme.Name)
	assert.False(t, SetTheme("nope"))
	assert.Equal(t, []string{"default", "gruvbox", "tokyo-night"}, GetThemeNames())
}
