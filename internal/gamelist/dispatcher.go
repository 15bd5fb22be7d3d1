package gamelist

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"gamelist/internal/errors"
	"gamelist/internal/game"
	"gamelist/internal/log"
	"gamelist/pkg/types"
)

// Deps are the collaborators the dispatcher works through
type Deps struct {
	Catalog   Catalog
	Lookup    Lookup
	Settings  Settings
	Emulation EmulationState
	Packages  Packages
	Codec     Codec
	Files     FileRemover
	Opener    Opener
	Launcher  Launcher
	Prompter  Prompter
	WikiBase  string
}

type job struct {
	action Action
	path   string
	play   bool
	result chan error
}

// Dispatcher runs context menu actions. Hosts queue actions with Trigger;
// they run one at a time on the dispatcher's worker goroutine, where the
// blocking Prompter calls are safe.
type Dispatcher struct {
	deps   Deps
	logger *log.Logger

	jobs    chan job
	start   sync.Once
	stop    context.CancelFunc
	mu      sync.Mutex
	busy    bool
	stopped bool
}

// NewDispatcher creates a dispatcher. Its worker starts with the first Trigger.
func NewDispatcher(deps Deps) *Dispatcher {
	return &Dispatcher{
		deps:   deps,
		logger: log.LogWithFields(log.F("component", "dispatcher")),
		jobs:   make(chan job, 16),
	}
}

// NewMenu builds the live context menu for the game at path
func (d *Dispatcher) NewMenu(path string) (*Menu, error) {
	f, err := d.deps.Lookup.Inspect(path)
	if err != nil {
		return nil, err
	}
	return newMenu(f, d.deps.Emulation, d.deps.Packages), nil
}

// Trigger queues action for the game at path. The returned channel receives
// the outcome once the action has run.
func (d *Dispatcher) Trigger(action Action, path string) <-chan error {
	return d.enqueue(job{action: action, path: path})
}

// TriggerPlay queues launching the game at path
func (d *Dispatcher) TriggerPlay(path string) <-chan error {
	return d.enqueue(job{path: path, play: true})
}

func (d *Dispatcher) enqueue(j job) <-chan error {
	j.result = make(chan error, 1)
	d.start.Do(func() {
		ctx, cancel := context.WithCancel(context.Background())
		d.stop = cancel
		go d.work(ctx)
	})

	d.mu.Lock()
	stopped := d.stopped
	d.mu.Unlock()
	if stopped {
		j.result <- errors.Wrap(context.Canceled, "dispatcher stopped")
		return j.result
	}

	select {
	case d.jobs <- j:
	default:
		d.logger.Warn("too many queued actions, dropping " + j.action.String())
		j.result <- errors.ErrNotAvailable
	}
	return j.result
}

func (d *Dispatcher) work(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-d.jobs:
			d.setBusy(true)
			var err error
			if j.play {
				err = d.Play(ctx, j.path)
			} else {
				err = d.Run(ctx, j.action, j.path)
			}
			d.setBusy(false)
			j.result <- err
		}
	}
}

func (d *Dispatcher) setBusy(busy bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.busy = busy
}

// Busy reports whether an action is running
func (d *Dispatcher) Busy() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.busy
}

// Stop ends the worker; an action in progress is cancelled
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	d.stopped = true
	d.mu.Unlock()
	if d.stop != nil {
		d.stop()
	}
}

// Play launches the game at path
func (d *Dispatcher) Play(ctx context.Context, path string) error {
	logger := d.logger.With(log.F("action", "play"), log.F("game", path))
	if path == "" {
		return errors.ErrNoSelection
	}
	if d.deps.Launcher == nil {
		return errors.ErrNotAvailable
	}
	if err := d.deps.Launcher.Launch(ctx, path); err != nil {
		logger.Errorf("launch failed: %v", err)
		d.deps.Prompter.Error("Error", "Failed to start the emulator: "+err.Error())
		return err
	}
	logger.Info("Game launched")
	return nil
}

// Run performs action on the game at path on the calling goroutine. The
// action must be listed and enabled in the game's menu.
func (d *Dispatcher) Run(ctx context.Context, action Action, path string) error {
	logger := d.logger.With(log.F("action", action.String()), log.F("game", path))
	if path == "" {
		return errors.ErrNoSelection
	}

	f, err := d.deps.Lookup.Inspect(path)
	if err != nil {
		logger.Warnf("cannot resolve game: %v", err)
		return err
	}

	installed := f.Platform.IsPackage() && d.deps.Packages.IsInstalled(f)
	if !enabled(BuildMenu(f, d.deps.Emulation.IsRunning(), installed), action) {
		logger.Warn("action not available")
		return errors.ErrNotAvailable
	}

	err = d.handle(ctx, action, f)
	switch {
	case err == nil:
		logger.Info("Action completed")
	case errors.IsCancelled(err):
		logger.Debug("Action cancelled")
	default:
		logger.WithError(err).Warn("Action failed")
	}
	return err
}

func enabled(entries []MenuEntry, action Action) bool {
	for _, e := range entries {
		if !e.Separator && e.Action == action {
			return e.Enabled
		}
	}
	return false
}

func (d *Dispatcher) handle(ctx context.Context, action Action, f *game.File) error {
	switch action {
	case ActionProperties:
		d.deps.Prompter.Properties(f)
		return nil
	case ActionWiki:
		return d.openWiki(f)
	case ActionSetDefault:
		return d.deps.Settings.SetDefaultDisc(f.Path)
	case ActionCompress:
		return d.convert(ctx, f, true)
	case ActionDecompress:
		return d.convert(ctx, f, false)
	case ActionInstall:
		return d.install(f)
	case ActionUninstall:
		return d.uninstall(f)
	case ActionOpenSave:
		return d.open(d.deps.Packages.SaveFolder(f))
	case ActionExportSave:
		return d.exportSave(f)
	case ActionOpenFolder:
		return d.open(filepath.Dir(f.Path))
	case ActionRemove:
		return d.removeFile(f.Path)
	}
	return errors.ErrNotAvailable
}

func (d *Dispatcher) openWiki(f *game.File) error {
	u := f.WikiURL(d.deps.WikiBase)
	if u == nil {
		return errors.ErrNotAvailable
	}
	return d.deps.Opener.OpenURL(u)
}

// open hands a local directory to the desktop file manager
func (d *Dispatcher) open(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	u := &url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	if err := d.deps.Opener.OpenURL(u); err != nil {
		return errors.NewFileError("cannot open folder", dir, errors.FileOperationFailed, err)
	}
	return nil
}

const codecFailure = "Dolphin failed to complete the requested action."

func (d *Dispatcher) convert(ctx context.Context, f *game.File, compress bool) error {
	p := d.deps.Prompter
	op := "decompress"
	if compress {
		op = "compress"
	}

	if compress && f.Platform == types.PlatformWiiDisc {
		ok := p.Confirm(Prompt{
			Title: "Confirm",
			Message: "Compressing a Wii disc image will irreversibly change the compressed copy by removing padding data. " +
				"Your disc image will still work. Continue?",
			Warning: true,
			Confirm: "Yes",
			Dismiss: "No",
		})
		if !ok {
			return errors.ErrCancelled
		}
	}

	ext, title := ".gcm", "Select where you want to save the decompressed image"
	if compress {
		ext, title = ".gcz", "Select where you want to save the compressed image"
	}
	name := f.GameID
	if name == "" {
		name = strings.TrimSuffix(f.FileName(), filepath.Ext(f.FileName()))
	}
	dst, ok := p.SaveFile(SaveRequest{
		Title:     title,
		Directory: filepath.Dir(f.Path),
		FileName:  name + ext,
		Extension: ext,
	})
	if !ok || dst == "" {
		return errors.ErrCancelled
	}

	progressTitle := "Decompressing..."
	if compress {
		progressTitle = "Compressing..."
	}
	progress := p.Progress(progressTitle, filepath.Base(dst))
	relay := NewProgressRelay(progress)

	var err error
	if compress {
		err = d.deps.Codec.Compress(ctx, f.Path, dst, f.Platform == types.PlatformWiiDisc, relay)
	} else {
		err = d.deps.Codec.Decompress(ctx, f.Path, dst, relay)
	}
	progress.Done()

	if err != nil {
		p.Error("Error", codecFailure)
		return errors.NewOperationError(op, f.Path, errors.OperationFailed, err)
	}
	if compress {
		p.Info("Success", "Successfully compressed image.")
	} else {
		p.Info("Success", "Successfully decompressed image.")
	}
	return nil
}

func (d *Dispatcher) install(f *game.File) error {
	if err := d.deps.Packages.Install(f); err != nil {
		d.deps.Prompter.Error("Failure", "Failed to install this title to the NAND.")
		return errors.NewOperationError("install", f.Path, errors.OperationFailed, err)
	}
	d.deps.Prompter.Info("Success", "Successfully installed this title to the NAND.")
	return nil
}

func (d *Dispatcher) uninstall(f *game.File) error {
	ok := d.deps.Prompter.Confirm(Prompt{
		Title: "Confirm",
		Message: "Uninstalling the WAD will remove the currently installed version of this " +
			"title from the NAND without deleting its save data. Continue?",
		Confirm: "Yes",
		Dismiss: "No",
	})
	if !ok {
		return errors.ErrCancelled
	}
	if err := d.deps.Packages.Uninstall(f); err != nil {
		d.deps.Prompter.Error("Failure", "Failed to remove this title from the NAND.")
		return errors.NewOperationError("uninstall", f.Path, errors.OperationFailed, err)
	}
	d.deps.Prompter.Info("Success", "Successfully removed this title from the NAND.")
	return nil
}

func (d *Dispatcher) exportSave(f *game.File) error {
	archive, err := d.deps.Packages.ExportSave(f)
	if err != nil {
		d.deps.Prompter.Error("Failure", "Failed to export save files.")
		return errors.NewOperationError("export save", f.Path, errors.OperationFailed, err)
	}
	d.deps.Prompter.Info("Success", "Successfully exported save files to "+archive)
	return nil
}
