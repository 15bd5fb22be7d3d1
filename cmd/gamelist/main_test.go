package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"gamelist/cmd/gamelist/cli"
	"gamelist/internal/config"
	"gamelist/internal/errors"
	"gamelist/internal/gamelist"
	"gamelist/pkg/testutils"
	"gamelist/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	prev := cli.Out
	cli.Out = &out
	t.Cleanup(func() { cli.Out = prev })

	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return testutils.StripANSI(out.String()), err
}

func TestRootCommands(t *testing.T) {
	cmd := newRootCmd()
	for _, name := range []string{"gui", "tui", "list", "play", "compress", "decompress", "install", "uninstall", "export-save", "rm", "info", "dirs"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.NotEqual(t, cmd, sub, name)
	}
}

func TestDirsCommands(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	games := filepath.Join(dir, "games")
	require.NoError(t, os.Mkdir(games, 0755))

	out, err := execute(t, "--config", cfgPath, "dirs", "add", games)
	require.NoError(t, err)
	assert.Contains(t, out, "Added "+games)

	cfg, err := config.LoadConfigFile(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, []string{games}, cfg.Paths.Games)

	out, err = execute(t, "--config", cfgPath, "dirs", "list")
	require.NoError(t, err)
	assert.Contains(t, out, games)

	_, err = execute(t, "--config", cfgPath, "dirs", "add", filepath.Join(dir, "missing"))
	assert.True(t, errors.IsFileNotFound(err))

	_, err = execute(t, "--config", cfgPath, "dirs", "rm", games)
	require.NoError(t, err)
	cfg, err = config.LoadConfigFile(cfgPath)
	require.NoError(t, err)
	assert.Empty(t, cfg.Paths.Games)
}

func TestListCommand(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	games := filepath.Join(dir, "games")
	testutils.CreateTestFilesWithContent(t, games, map[string][]byte{
		"melee.iso": testutils.GameCubeDisc("GALE01", "Super Smash Bros. Melee"),
		"mkwii.iso": testutils.WiiDisc("RMCE01", "Mario Kart Wii"),
		"notes.txt": []byte("not a game"),
	})

	out, err := execute(t, "--config", cfgPath, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No games found")

	_, err = execute(t, "--config", cfgPath, "dirs", "add", games)
	require.NoError(t, err)

	out, err = execute(t, "--config", cfgPath, "list", "--columns", "title,id")
	require.NoError(t, err)
	assert.Contains(t, out, "Mario Kart Wii")
	assert.Contains(t, out, "GALE01")
	assert.Less(t, bytes.Index([]byte(out), []byte("Mario")), bytes.Index([]byte(out), []byte("Super")))

	out, err = execute(t, "--config", cfgPath, "list", "--filter", "melee")
	require.NoError(t, err)
	assert.NotContains(t, out, "Mario Kart Wii")

	_, err = execute(t, "--config", cfgPath, "list", "--sort", "publisher")
	assert.Error(t, err)
}

func TestPropertiesCommand(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	testutils.CreateTestFilesWithContent(t, dir, map[string][]byte{
		"melee.iso": testutils.GameCubeDisc("GALE01", "Super Smash Bros. Melee"),
	})

	out, err := execute(t, "--config", cfgPath, "info", filepath.Join(dir, "melee.iso"))
	require.NoError(t, err)
	assert.Contains(t, out, "Game ID:   GALE01")

	_, err = execute(t, "--config", cfgPath, "install", filepath.Join(dir, "melee.iso"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not available")

	_, err = execute(t, "--config", cfgPath, "info", filepath.Join(dir, "missing.iso"))
	assert.True(t, errors.IsFileNotFound(err))
}

func TestListColumns(t *testing.T) {
	settings := config.NewStore(config.NewTestConfig(t.TempDir()), "")
	cols, err := listColumns(settings, nil)
	require.NoError(t, err)
	assert.Equal(t, []types.Column{types.ColPlatform, types.ColBanner, types.ColTitle, types.ColMaker, types.ColCountry, types.ColSize}, cols)

	cols, err = listColumns(settings, []string{"ID", "size"})
	require.NoError(t, err)
	assert.Equal(t, []types.Column{types.ColID, types.ColSize}, cols)
}

func TestActionResult(t *testing.T) {
	var out bytes.Buffer
	prev := cli.Out
	cli.Out = &out
	t.Cleanup(func() { cli.Out = prev })

	assert.NoError(t, actionResult(gamelist.ActionRemove, errors.ErrCancelled))
	assert.Contains(t, out.String(), "Cancelled")

	failed := errors.NewOperationError("compress", "/games/melee.iso", errors.OperationFailed, errors.ErrCancelled)
	assert.Error(t, actionResult(gamelist.ActionCompress, failed), "a cancelled conversion is a failure")

	err := actionResult(gamelist.ActionCompress, errors.ErrNotAvailable)
	assert.EqualError(t, err, "Compress ISO is not available for this game")
}
