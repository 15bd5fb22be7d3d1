// Package gamelist is the toolkit-independent core of the game list: it
// decides which view is shown, resolves the selected game, builds the
// per-game action menu, and runs the chosen action against the collaborators
// below. GUI and terminal hosts supply the views and the Prompter.
package gamelist

import (
	"context"
	"net/url"

	"gamelist/internal/blob"
	"gamelist/internal/catalog"
	"gamelist/internal/game"
	"gamelist/pkg/types"
)

// Catalog is the list of games the views display
type Catalog interface {
	Count() int
	PathAt(row int) (string, bool)
	RemoveGame(path string) bool
	Subscribe(fn func(catalog.Event)) (unsubscribe func())
}

// Lookup resolves a game path to its metadata
type Lookup interface {
	Inspect(path string) (*game.File, error)
}

// Settings is the persisted user configuration
type Settings interface {
	PreferTable() bool
	SetPreferTable(table bool) error
	SetDefaultDisc(path string) error
	ColumnVisible(col types.Column) bool
	SetColumnVisible(col types.Column, visible bool) error
	AddPath(dir string) error
}

// EmulationState reports whether a game is running
type EmulationState interface {
	IsRunning() bool
	Subscribe(fn func(running bool)) (unsubscribe func())
}

// Packages installs titles into the NAND and manages their save data
type Packages interface {
	IsInstalled(f *game.File) bool
	Install(f *game.File) error
	Uninstall(f *game.File) error
	SaveFolder(f *game.File) string
	ExportSave(f *game.File) (string, error)
}

// Codec converts disc images between plain and compressed formats
type Codec interface {
	Compress(ctx context.Context, src, dst string, scrub bool, progress blob.ProgressFunc) error
	Decompress(ctx context.Context, src, dst string, progress blob.ProgressFunc) error
}

// FileRemover deletes files. afero.Fs satisfies it.
type FileRemover interface {
	Remove(name string) error
}

// Opener hands a URL to the desktop. fyne.App satisfies it.
type Opener interface {
	OpenURL(u *url.URL) error
}

// Launcher boots a game in the emulator
type Launcher interface {
	Launch(ctx context.Context, path string) error
}

// Prompt is a question put to the user
type Prompt struct {
	Title   string
	Message string
	Warning bool   // show as a warning rather than a question
	Confirm string // label of the affirmative button
	Dismiss string // label of the negative button
}

// SaveRequest asks the user for a destination file
type SaveRequest struct {
	Title     string
	Directory string
	FileName  string
	Extension string // with the leading dot
}

// Progress is a modal progress indicator the user can cancel
type Progress interface {
	// SetValue shows percent, from 0 to 100
	SetValue(percent int)
	Cancelled() bool
	// Done closes the indicator
	Done()
}

// Prompter shows modal dialogs. Every method blocks the calling goroutine
// until the user answers; hosts post the dialog to their UI goroutine and
// wait for the result.
type Prompter interface {
	Confirm(p Prompt) bool
	// RetryAbort returns true for retry
	RetryAbort(p Prompt) bool
	Info(title, message string)
	Error(title, message string)
	// SaveFile returns false, or an empty path, when the user cancels
	SaveFile(req SaveRequest) (string, bool)
	Progress(title, message string) Progress
	Properties(f *game.File)
}
