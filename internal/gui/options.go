// Package gui is the desktop host of the game list: a table view, an icon
// grid and an empty-state placeholder over the catalog, with the per-game
// context menu and the modal dialogs the actions need.
package gui

import (
	"gamelist/internal/catalog"
	"gamelist/internal/gamelist"
)

// AppID identifies the application to the desktop and to Fyne's preference storage
const AppID = "org.dolphin-emu.gamelist"

// Options are the collaborators the window is built from
type Options struct {
	Catalog  *catalog.Catalog
	Settings gamelist.Settings
	// Deps are passed to the dispatcher. The Prompter is replaced by the
	// window's dialogs, and a nil Opener by the desktop's.
	Deps gamelist.Deps
}
