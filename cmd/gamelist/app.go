package main

import (
	"context"
	"sync"

	"gamelist/internal/blob"
	"gamelist/internal/catalog"
	"gamelist/internal/config"
	"gamelist/internal/emulation"
	"gamelist/internal/game"
	"gamelist/internal/gamelist"
	"gamelist/internal/log"
	"gamelist/internal/nand"
	"gamelist/internal/process"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"
)

// application holds the collaborators every command works with
type application struct {
	store     *config.Store
	fs        afero.Fs
	inspector *game.Inspector
	catalog   *catalog.Catalog
	scanner   *catalog.Scanner
	library   *catalog.Library
	state     *emulation.State
	launcher  *emulation.Launcher
	deps      gamelist.Deps

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

func newApplication(store *config.Store) (*application, error) {
	cfg := store.Config()
	fs := afero.NewOsFs()
	runner := process.ExecRunner{}

	inspector := game.NewInspector(fs, game.DefaultCacheSize)
	scanner, err := catalog.NewScanner(inspector, cfg.Extensions, cfg.Paths.Recursive)
	if err != nil {
		return nil, err
	}
	cat := catalog.New()
	state := emulation.NewState()
	codec := blob.NewTool(runner, fs, clockwork.NewRealClock(), blob.Options{
		Converter:    cfg.Tools.Converter,
		BlockSize:    cfg.Tools.BlockSize,
		PollInterval: cfg.Tools.PollInterval,
	})

	launcher := emulation.NewLauncher(runner, state, cfg.Core.Emulator, cfg.Core.EmulatorArgs)
	a := &application{
		store:     store,
		fs:        fs,
		inspector: inspector,
		catalog:   cat,
		scanner:   scanner,
		state:     state,
		launcher:  launcher,
		deps: gamelist.Deps{
			Catalog:   cat,
			Lookup:    inspector,
			Settings:  store,
			Emulation: state,
			Packages:  nand.NewStore(fs, cfg.Paths.NAND, cfg.Paths.Export),
			Codec:     codec,
			Files:     fs,
			Opener:    process.Opener{},
			Launcher:  launcher,
			WikiBase:  cfg.Wiki.BaseURL,
		},
	}
	return a, nil
}

// watch fills the catalog from the configured directories and keeps it
// current until close. Directories added or removed later follow along.
func (a *application) watch() error {
	watcher, err := catalog.NewWatcher(a.scanner.Match)
	if err != nil {
		return err
	}
	if err := watcher.Start(); err != nil {
		return err
	}
	a.library = catalog.NewLibrary(a.catalog, a.scanner, a.inspector, watcher)

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	a.store.OnPathAdded(func(dir string) { a.addDirectory(ctx, dir) })
	a.store.OnPathRemoved(a.library.RemoveDirectory)
	for _, dir := range a.store.Paths() {
		a.addDirectory(ctx, dir)
	}

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.library.Run(ctx)
	}()
	return nil
}

func (a *application) addDirectory(ctx context.Context, dir string) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.library.AddDirectory(ctx, dir); err != nil {
			log.LogWithFields(log.F("dir", dir)).Warnf("cannot scan games directory: %v", err)
		}
	}()
}

// scan fills the catalog once, without watching
func (a *application) scan(ctx context.Context) error {
	for _, dir := range a.store.Paths() {
		res, err := a.scanner.Scan(ctx, dir)
		if err != nil {
			return err
		}
		for _, g := range res.Games {
			a.catalog.Add(g)
		}
	}
	return nil
}

// dispatcher returns a dispatcher asking its questions through p
func (a *application) dispatcher(p gamelist.Prompter) *gamelist.Dispatcher {
	deps := a.deps
	deps.Prompter = p
	return gamelist.NewDispatcher(deps)
}

func (a *application) close() {
	if a.cancel != nil {
		a.cancel()
	}
	if a.library != nil {
		a.library.Close()
	}
	a.wg.Wait()
}
