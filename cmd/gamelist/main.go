package main

import (
	"fmt"
	"io"
	"os"

	"gamelist/cmd/gamelist/cli"
	"gamelist/internal/config"
	"gamelist/internal/gui"
	"gamelist/internal/log"
	"gamelist/internal/tui"

	"github.com/spf13/cobra"
)

var version = "dev"

// globalFlags are the persistent flags of the root command
type globalFlags struct {
	configFile string
	debug      bool
	jsonLog    bool
	logFile    string
	theme      string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:     "gamelist",
		Short:   "Browse and manage a GameCube and Wii game collection",
		Long:    `gamelist shows the games found in your game directories and runs the per-game actions: launch, properties, compression, NAND installs, save export and deletion.`,
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if flags.theme != "" && !cli.SetTheme(flags.theme) {
				return fmt.Errorf("unknown theme %q, choose one of %v", flags.theme, cli.GetThemeNames())
			}
			configureLogging(flags, os.Stderr)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if gui.IsGUIAvailable() {
				return runGUI(flags)
			}
			return runTUI(flags)
		},
	}

	helpTemplate := cli.DrawLogo() + "\n\n" + rootCmd.UsageTemplate()
	rootCmd.SetUsageTemplate(helpTemplate)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configFile, "config", "", "config file (default is $XDG_CONFIG_HOME/gamelist/config.yaml)")
	pf.BoolVar(&flags.debug, "debug", false, "enable debug logging")
	pf.BoolVar(&flags.jsonLog, "json-log", false, "log one JSON object per line")
	pf.StringVar(&flags.logFile, "log-file", "", "also write log lines to this file")
	pf.StringVar(&flags.theme, "theme", "", "color theme for terminal output")

	rootCmd.AddCommand(newGUICmd(flags))
	rootCmd.AddCommand(newTUICmd(flags))
	rootCmd.AddCommand(newListCmd(flags))
	rootCmd.AddCommand(newPlayCmd(flags))
	rootCmd.AddCommand(newActionCmds(flags)...)
	rootCmd.AddCommand(newDirsCmd(flags))

	return rootCmd
}

func configureLogging(flags *globalFlags, out io.Writer) {
	opts := []log.Option{log.WithOutput(out)}
	if flags.jsonLog {
		opts = append(opts, log.WithJSON())
	}
	if flags.logFile != "" {
		opts = append(opts, log.WithFile(flags.logFile))
	}
	if flags.debug {
		opts = append(opts, log.WithLevel("debug"))
	}
	log.Configure(opts...)
	log.SetDebug(flags.debug)
}

func openStore(flags *globalFlags) (*config.Store, error) {
	store, err := config.OpenStore(flags.configFile)
	if err != nil {
		return nil, fmt.Errorf("cannot load configuration: %w", err)
	}
	log.Debugf("using configuration %s", store.Path())
	return store, nil
}

// openApplication loads the configuration and wires the collaborators
func openApplication(flags *globalFlags) (*application, error) {
	store, err := openStore(flags)
	if err != nil {
		return nil, err
	}
	return newApplication(store)
}

func runGUI(flags *globalFlags) error {
	a, err := openApplication(flags)
	if err != nil {
		return err
	}
	defer a.close()
	if err := a.watch(); err != nil {
		return err
	}

	deps := a.deps
	// The toolkit opens URLs itself
	deps.Opener = nil
	return gui.Run(gui.Options{Catalog: a.catalog, Settings: a.store, Deps: deps})
}

func runTUI(flags *globalFlags) error {
	// Log lines would overwrite the screen
	configureLogging(flags, io.Discard)

	a, err := openApplication(flags)
	if err != nil {
		return err
	}
	defer a.close()
	if err := a.watch(); err != nil {
		return err
	}
	return tui.Run(tui.Options{Catalog: a.catalog, Settings: a.store, Deps: a.deps})
}

func newGUICmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "gui",
		Short: "Launch the graphical game list",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGUI(flags)
		},
	}
}

func newTUICmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Launch the game list in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(flags)
		},
	}
}
