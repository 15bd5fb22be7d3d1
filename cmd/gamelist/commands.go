package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"gamelist/cmd/gamelist/cli"
	"gamelist/internal/catalog"
	"gamelist/internal/errors"
	"gamelist/internal/game"
	"gamelist/internal/gamelist"
	"gamelist/pkg/types"

	"github.com/spf13/cobra"
)

func newListCmd(flags *globalFlags) *cobra.Command {
	var (
		filter  string
		sortBy  string
		reverse bool
		columns []string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the games found in the game directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApplication(flags)
			if err != nil {
				return err
			}
			defer a.close()

			col, ok := types.ParseColumn(sortBy)
			if !ok {
				return fmt.Errorf("unknown sort column %q", sortBy)
			}
			cols, err := listColumns(a.store, columns)
			if err != nil {
				return err
			}

			if err := a.scan(cmd.Context()); err != nil {
				return err
			}
			if a.catalog.Count() == 0 {
				cli.PrintWarning("No games found. Add a games directory with 'gamelist dirs add <dir>'.")
				return nil
			}

			rows := catalog.NewProxy(a.catalog)
			defer rows.Close()
			rows.SetSort(col, !reverse)
			rows.SetFilter(filter)

			games := make([]*game.File, 0, rows.Len())
			for i := 0; i < rows.Len(); i++ {
				games = append(games, rows.Game(i))
			}
			fmt.Fprintln(cli.Out, cli.GameTable(games, cols))
			return nil
		},
	}

	cmd.Flags().StringVarP(&filter, "filter", "f", "", "only list games whose title, ID or file name contains this text")
	cmd.Flags().StringVarP(&sortBy, "sort", "s", "title", "column to sort by")
	cmd.Flags().BoolVarP(&reverse, "reverse", "r", false, "sort in descending order")
	cmd.Flags().StringSliceVarP(&columns, "columns", "c", nil, "columns to show (default: the visible table columns)")
	return cmd
}

// listColumns resolves column names, falling back to the configured
// visible columns
func listColumns(settings gamelist.Settings, names []string) ([]types.Column, error) {
	var cols []types.Column
	if len(names) == 0 {
		for _, c := range types.AllColumns() {
			if settings.ColumnVisible(c) {
				cols = append(cols, c)
			}
		}
		return cols, nil
	}
	for _, n := range names {
		c, ok := types.ParseColumn(n)
		if !ok {
			return nil, fmt.Errorf("unknown column %q", n)
		}
		cols = append(cols, c)
	}
	return cols, nil
}

func newPlayCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "play <file>",
		Short: "Launch a game in the emulator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApplication(flags)
			if err != nil {
				return err
			}
			defer a.close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			d := a.dispatcher(cli.NewPrompter(ctx, os.Stdin, cli.Out))
			if err := d.Play(ctx, absPath(args[0])); err != nil {
				return err
			}
			// The emulator also gets the terminal's interrupt
			if err := a.launcher.Wait(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
}

var actionShort = map[gamelist.Action]string{
	gamelist.ActionProperties: "Show the properties of a game file",
	gamelist.ActionWiki:       "Open the game's wiki page",
	gamelist.ActionSetDefault: "Boot this disc when no game is chosen",
	gamelist.ActionCompress:   "Compress a disc image to GCZ",
	gamelist.ActionDecompress: "Decompress a GCZ disc image to ISO",
	gamelist.ActionInstall:    "Install a WAD to the NAND",
	gamelist.ActionUninstall:  "Uninstall a WAD from the NAND",
	gamelist.ActionOpenSave:   "Open the Wii save folder of a game",
	gamelist.ActionExportSave: "Export the Wii save of a game",
	gamelist.ActionOpenFolder: "Open the folder containing a game",
	gamelist.ActionRemove:     "Delete a game file",
}

var actionAliases = map[gamelist.Action][]string{
	gamelist.ActionProperties: {"info"},
	gamelist.ActionRemove:     {"remove", "delete"},
}

// newActionCmds creates one command per context menu action
func newActionCmds(flags *globalFlags) []*cobra.Command {
	var cmds []*cobra.Command
	for a := gamelist.ActionProperties; a <= gamelist.ActionRemove; a++ {
		cmds = append(cmds, newActionCmd(flags, a))
	}
	return cmds
}

func newActionCmd(flags *globalFlags, action gamelist.Action) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     action.String() + " <file>",
		Short:   actionShort[action],
		Aliases: actionAliases[action],
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApplication(flags)
			if err != nil {
				return err
			}
			defer a.close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			p := cli.NewPrompter(ctx, os.Stdin, cli.Out)
			p.AssumeYes = yes

			err = a.dispatcher(p).Run(ctx, action, absPath(args[0]))
			return actionResult(action, err)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "answer yes to every question, without retrying failed deletes")
	return cmd
}

// actionResult reports the outcome of an action, turning a cancel into a
// clean exit
func actionResult(action gamelist.Action, err error) error {
	switch {
	case err == nil:
		if action != gamelist.ActionProperties {
			cli.PrintSuccess(action.Label() + " done")
		}
		return nil
	case errors.IsCancelled(err) && !errors.IsOperationFailed(err):
		cli.PrintWarning("Cancelled")
		return nil
	case errors.Is(err, errors.ErrNotAvailable):
		return fmt.Errorf("%s is not available for this game", strings.TrimSuffix(action.Label(), "..."))
	}
	return err
}

func newDirsCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dirs",
		Short: "Manage the game directories",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the game directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(flags)
			if err != nil {
				return err
			}
			paths := store.Paths()
			if len(paths) == 0 {
				cli.PrintInfo("No game directories configured")
				return nil
			}
			cli.PrintHeader("Game directories")
			for _, p := range paths {
				fmt.Fprintln(cli.Out, p)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <dir>...",
		Short: "Add game directories",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(flags)
			if err != nil {
				return err
			}
			for _, dir := range args {
				dir = absPath(dir)
				if info, err := os.Stat(dir); err != nil || !info.IsDir() {
					return errors.NewFileError("not a directory", dir, errors.FileNotFound, err)
				}
				if err := store.AddPath(dir); err != nil {
					return err
				}
				cli.PrintSuccess("Added " + dir)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "remove <dir>...",
		Aliases: []string{"rm"},
		Short:   "Remove game directories",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(flags)
			if err != nil {
				return err
			}
			for _, dir := range args {
				if err := store.RemovePath(absPath(dir)); err != nil {
					return err
				}
				cli.PrintSuccess("Removed " + dir)
			}
			return nil
		},
	})

	return cmd
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
