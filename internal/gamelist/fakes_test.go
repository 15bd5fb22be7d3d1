package gamelist

import (
	"context"
	"net/url"
	"sync"

	"gamelist/internal/blob"
	"gamelist/internal/catalog"
	"gamelist/internal/emulation"
	"gamelist/internal/errors"
	"gamelist/internal/game"
	"gamelist/pkg/types"
)

func disc(path, id string, platform types.Platform, blobType types.BlobType) *game.File {
	return &game.File{Path: path, GameID: id, InternalName: id, Platform: platform, Blob: blobType, Size: 100}
}

var (
	gcPlain  = disc("/games/melee.iso", "GALE01", types.PlatformGameCubeDisc, types.BlobPlain)
	gcGCZ    = disc("/games/melee.gcz", "GALE01", types.PlatformGameCubeDisc, types.BlobGCZ)
	wiiPlain = disc("/games/mkwii.iso", "RMCE01", types.PlatformWiiDisc, types.BlobPlain)
	wiiWBFS  = disc("/games/mkwii.wbfs", "RMCE01", types.PlatformWiiDisc, types.BlobWBFS)
	wad      = &game.File{Path: "/games/channel.wad", GameID: "HACA", Platform: types.PlatformWiiWAD, Blob: types.BlobPlain, TitleID: 0x00010001_48414341}
	homebrew = &game.File{Path: "/apps/boot.dol", Platform: types.PlatformELFOrDOL, Blob: types.BlobPlain}
)

type fakeLookup struct {
	games     map[string]*game.File
	forgotten []string
}

func newLookup(files ...*game.File) *fakeLookup {
	l := &fakeLookup{games: make(map[string]*game.File)}
	for _, f := range files {
		l.games[f.Path] = f
	}
	return l
}

func (l *fakeLookup) Inspect(path string) (*game.File, error) {
	if f, ok := l.games[path]; ok {
		return f, nil
	}
	return nil, errors.NewFileError("file not found", path, errors.FileNotFound, nil)
}

func (l *fakeLookup) Forget(path string) {
	l.forgotten = append(l.forgotten, path)
}

type fakeSettings struct {
	mu          sync.Mutex
	preferTable bool
	defaultDisc string
	columns     map[types.Column]bool
	paths       []string
}

func newSettings(preferTable bool) *fakeSettings {
	return &fakeSettings{preferTable: preferTable, columns: make(map[types.Column]bool)}
}

func (s *fakeSettings) PreferTable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.preferTable
}

func (s *fakeSettings) SetPreferTable(table bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.preferTable = table
	return nil
}

func (s *fakeSettings) SetDefaultDisc(path string) error {
	s.defaultDisc = path
	return nil
}

func (s *fakeSettings) ColumnVisible(col types.Column) bool { return s.columns[col] }

func (s *fakeSettings) SetColumnVisible(col types.Column, visible bool) error {
	s.columns[col] = visible
	return nil
}

func (s *fakeSettings) AddPath(dir string) error {
	s.paths = append(s.paths, dir)
	return nil
}

type fakePackages struct {
	mu         sync.Mutex
	installed  map[string]bool
	installErr error
	exportErr  error
	calls      []string
}

func newPackages() *fakePackages {
	return &fakePackages{installed: make(map[string]bool)}
}

func (p *fakePackages) IsInstalled(f *game.File) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.installed[f.Path]
}

func (p *fakePackages) setInstalled(f *game.File, installed bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.installed[f.Path] = installed
}

func (p *fakePackages) Install(f *game.File) error {
	p.calls = append(p.calls, "install")
	if p.installErr != nil {
		return p.installErr
	}
	p.setInstalled(f, true)
	return nil
}

func (p *fakePackages) Uninstall(f *game.File) error {
	p.calls = append(p.calls, "uninstall")
	p.setInstalled(f, false)
	return nil
}

func (p *fakePackages) SaveFolder(f *game.File) string {
	return "/nand/title/" + f.TitleDir() + "/data"
}

func (p *fakePackages) ExportSave(f *game.File) (string, error) {
	p.calls = append(p.calls, "export")
	if p.exportErr != nil {
		return "", p.exportErr
	}
	return "/export/" + f.GameID + ".zip", nil
}

// fakeCodec reports the given fractions and fails as soon as the callback
// asks it to stop.
type fakeCodec struct {
	fractions []float64
	err       error
	calls     []codecCall
}

type codecCall struct {
	compress bool
	src, dst string
	scrub    bool
}

func (c *fakeCodec) run(progress blob.ProgressFunc) error {
	for _, f := range c.fractions {
		if !progress("Compressing...", f) {
			return errors.Wrap(errors.ErrCancelled, "conversion stopped")
		}
	}
	return c.err
}

func (c *fakeCodec) Compress(_ context.Context, src, dst string, scrub bool, progress blob.ProgressFunc) error {
	c.calls = append(c.calls, codecCall{compress: true, src: src, dst: dst, scrub: scrub})
	return c.run(progress)
}

func (c *fakeCodec) Decompress(_ context.Context, src, dst string, progress blob.ProgressFunc) error {
	c.calls = append(c.calls, codecCall{src: src, dst: dst})
	return c.run(progress)
}

// fakeFiles fails the first failures removals
type fakeFiles struct {
	failures int
	attempts int
}

func (f *fakeFiles) Remove(string) error {
	f.attempts++
	if f.attempts <= f.failures {
		return errors.New("file in use")
	}
	return nil
}

type fakeOpener struct {
	urls []string
}

func (o *fakeOpener) OpenURL(u *url.URL) error {
	o.urls = append(o.urls, u.String())
	return nil
}

type fakeProgress struct {
	values      []int
	cancelAfter int // cancelled once this many values were shown; 0 never
	done        bool
}

func (p *fakeProgress) SetValue(percent int) { p.values = append(p.values, percent) }

func (p *fakeProgress) Cancelled() bool {
	return p.cancelAfter > 0 && len(p.values) >= p.cancelAfter
}

func (p *fakeProgress) Done() { p.done = true }

type dialog struct {
	kind, title, message string
}

// fakePrompter answers from scripted queues; an empty queue answers no
type fakePrompter struct {
	confirms   []bool
	retries    []bool
	savePath   string
	saveOK     bool
	progress   *fakeProgress
	dialogs    []dialog
	saves      []SaveRequest
	properties []*game.File
}

func newPrompter() *fakePrompter {
	return &fakePrompter{progress: &fakeProgress{}}
}

func pop(q *[]bool) bool {
	if len(*q) == 0 {
		return false
	}
	v := (*q)[0]
	*q = (*q)[1:]
	return v
}

func (p *fakePrompter) Confirm(pr Prompt) bool {
	p.dialogs = append(p.dialogs, dialog{"confirm", pr.Title, pr.Message})
	return pop(&p.confirms)
}

func (p *fakePrompter) RetryAbort(pr Prompt) bool {
	p.dialogs = append(p.dialogs, dialog{"retry", pr.Title, pr.Message})
	return pop(&p.retries)
}

func (p *fakePrompter) Info(title, message string) {
	p.dialogs = append(p.dialogs, dialog{"info", title, message})
}

func (p *fakePrompter) Error(title, message string) {
	p.dialogs = append(p.dialogs, dialog{"error", title, message})
}

func (p *fakePrompter) SaveFile(req SaveRequest) (string, bool) {
	p.saves = append(p.saves, req)
	return p.savePath, p.saveOK
}

func (p *fakePrompter) Progress(title, message string) Progress {
	p.dialogs = append(p.dialogs, dialog{"progress", title, message})
	return p.progress
}

func (p *fakePrompter) Properties(f *game.File) {
	p.properties = append(p.properties, f)
}

// kinds lists the dialog kinds shown, in order
func (p *fakePrompter) kinds() []string {
	kinds := make([]string, 0, len(p.dialogs))
	for _, d := range p.dialogs {
		kinds = append(kinds, d.kind)
	}
	return kinds
}

type fakeLauncher struct {
	launched []string
	err      error
}

func (l *fakeLauncher) Launch(_ context.Context, path string) error {
	l.launched = append(l.launched, path)
	return l.err
}

type harness struct {
	catalog  *catalog.Catalog
	lookup   *fakeLookup
	settings *fakeSettings
	state    *emulation.State
	packages *fakePackages
	codec    *fakeCodec
	files    *fakeFiles
	opener   *fakeOpener
	launcher *fakeLauncher
	prompter *fakePrompter
	d        *Dispatcher
}

func newHarness(files ...*game.File) *harness {
	h := &harness{
		catalog:  catalog.New(),
		lookup:   newLookup(files...),
		settings: newSettings(true),
		state:    emulation.NewState(),
		packages: newPackages(),
		codec:    &fakeCodec{fractions: []float64{0, 0.5, 1}},
		files:    &fakeFiles{},
		opener:   &fakeOpener{},
		launcher: &fakeLauncher{},
		prompter: newPrompter(),
	}
	for _, f := range files {
		h.catalog.Add(f)
	}
	h.d = NewDispatcher(Deps{
		Catalog:   h.catalog,
		Lookup:    h.lookup,
		Settings:  h.settings,
		Emulation: h.state,
		Packages:  h.packages,
		Codec:     h.codec,
		Files:     h.files,
		Opener:    h.opener,
		Launcher:  h.launcher,
		Prompter:  h.prompter,
		WikiBase:  "https://wiki.dolphin-emu.org/index.php",
	})
	return h
}

// fakeView is a single-selection view
type fakeView struct {
	mu       sync.Mutex
	selected int
	has      bool
	clears   int
}

func (v *fakeView) Select(row int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.selected, v.has = row, true
}

func (v *fakeView) SelectedRow() (int, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.selected, v.has
}

func (v *fakeView) ClearSelection() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.has = false
	v.clears++
}
