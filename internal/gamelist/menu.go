package gamelist

import (
	"slices"
	"sync"

	"gamelist/internal/game"
)

// Action is an entry of the per-game context menu
type Action int

const (
	ActionProperties Action = iota
	ActionWiki
	ActionSetDefault
	ActionCompress
	ActionDecompress
	ActionInstall
	ActionUninstall
	ActionOpenSave
	ActionExportSave
	ActionOpenFolder
	ActionRemove
	actionCount
)

var actionLabels = [...]string{
	ActionProperties: "Properties",
	ActionWiki:       "Wiki",
	ActionSetDefault: "Default ISO",
	ActionCompress:   "Compress ISO...",
	ActionDecompress: "Decompress ISO...",
	ActionInstall:    "Install to the NAND",
	ActionUninstall:  "Uninstall from the NAND",
	ActionOpenSave:   "Open Wii save folder",
	ActionExportSave: "Export Wii save (Experimental)",
	ActionOpenFolder: "Open Containing Folder",
	ActionRemove:     "Remove File",
}

var actionNames = [...]string{
	ActionProperties: "properties",
	ActionWiki:       "wiki",
	ActionSetDefault: "set-default",
	ActionCompress:   "compress",
	ActionDecompress: "decompress",
	ActionInstall:    "install",
	ActionUninstall:  "uninstall",
	ActionOpenSave:   "open-save",
	ActionExportSave: "export-save",
	ActionOpenFolder: "open-folder",
	ActionRemove:     "rm",
}

// Label is the menu text
func (a Action) Label() string {
	if a < 0 || a >= actionCount {
		return ""
	}
	return actionLabels[a]
}

// String is the action's command name
func (a Action) String() string {
	if a < 0 || a >= actionCount {
		return "unknown"
	}
	return actionNames[a]
}

// ParseAction looks an action up by its command name
func ParseAction(name string) (Action, bool) {
	for i, n := range actionNames {
		if n == name {
			return Action(i), true
		}
	}
	return 0, false
}

// MenuEntry is an action or a separator
type MenuEntry struct {
	Action    Action
	Enabled   bool
	Separator bool
}

// Label returns the entry's text, empty for separators
func (e MenuEntry) Label() string {
	if e.Separator {
		return ""
	}
	return e.Action.Label()
}

func item(a Action) MenuEntry {
	return MenuEntry{Action: a, Enabled: true}
}

var separator = MenuEntry{Separator: true}

// BuildMenu lists the actions available for f. running and installed
// decide whether the package entries are enabled.
func BuildMenu(f *game.File, running, installed bool) []MenuEntry {
	entries := []MenuEntry{item(ActionProperties), item(ActionWiki), separator}

	if f.Platform.IsDisc() {
		entries = append(entries, item(ActionSetDefault))
		if f.Blob.Compressed() {
			entries = append(entries, item(ActionDecompress))
		} else {
			entries = append(entries, item(ActionCompress))
		}
		entries = append(entries, separator)
	}

	if f.Platform.IsPackage() {
		entries = append(entries,
			MenuEntry{Action: ActionInstall, Enabled: !running},
			MenuEntry{Action: ActionUninstall, Enabled: !running && installed},
			separator,
		)
	}

	if f.Platform.HasWiiSave() {
		entries = append(entries, item(ActionOpenSave), item(ActionExportSave), separator)
	}

	return append(entries, item(ActionOpenFolder), item(ActionRemove))
}

// Menu is a context menu that stays current with emulation start and stop
// until closed.
type Menu struct {
	file     *game.File
	packages Packages

	mu        sync.Mutex
	entries   []MenuEntry
	unsub     func()
	closed    bool
	listeners []func()
}

func newMenu(f *game.File, state EmulationState, packages Packages) *Menu {
	m := &Menu{file: f, packages: packages}
	installed := f.Platform.IsPackage() && packages.IsInstalled(f)
	m.entries = BuildMenu(f, state.IsRunning(), installed)
	if f.Platform.IsPackage() {
		unsub := state.Subscribe(m.emulationChanged)
		m.mu.Lock()
		m.unsub = unsub
		m.mu.Unlock()
	}
	return m
}

func (m *Menu) emulationChanged(running bool) {
	// Re-queried on stop: the title may have been installed meanwhile
	installed := !running && m.packages.IsInstalled(m.file)

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	for i := range m.entries {
		switch m.entries[i].Action {
		case ActionInstall:
			m.entries[i].Enabled = !running
		case ActionUninstall:
			m.entries[i].Enabled = installed
		}
	}
	listeners := slices.Clone(m.listeners)
	m.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// File returns the game the menu is for
func (m *Menu) File() *game.File {
	return m.file
}

// Path returns the path of the game the menu is for
func (m *Menu) Path() string {
	return m.file.Path
}

// Entries returns a snapshot of the menu
func (m *Menu) Entries() []MenuEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MenuEntry(nil), m.entries...)
}

// Has reports whether the menu lists a
func (m *Menu) Has(a Action) bool {
	_, ok := m.entry(a)
	return ok
}

// Enabled reports whether a is listed and can be chosen
func (m *Menu) Enabled(a Action) bool {
	e, ok := m.entry(a)
	return ok && e.Enabled
}

func (m *Menu) entry(a Action) (MenuEntry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if !e.Separator && e.Action == a {
			return e, true
		}
	}
	return MenuEntry{}, false
}

// OnChange registers fn to run when entry enablement changes
func (m *Menu) OnChange(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// Close stops following emulation state
func (m *Menu) Close() {
	m.mu.Lock()
	unsub := m.unsub
	m.unsub = nil
	m.closed = true
	m.listeners = nil
	m.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}
