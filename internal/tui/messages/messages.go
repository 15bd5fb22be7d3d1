// Package messages defines the tea messages exchanged between the game list
// model and the goroutines feeding it.
package messages

import (
	"sync/atomic"

	"gamelist/internal/gamelist"
	"gamelist/pkg/types"
)

// CatalogChangedMsg reports a game inserted, removed or refreshed
type CatalogChangedMsg struct{}

// ViewChangedMsg reports a switch of the active view
type ViewChangedMsg struct {
	Mode types.ViewMode
}

// MenuChangedMsg reports a change of the open menu's enablement
type MenuChangedMsg struct{}

// ActionDoneMsg carries the outcome of a triggered action
type ActionDoneMsg struct {
	Action gamelist.Action
	Play   bool
	Path   string
	Err    error
}

// PromptKind is the kind of modal dialog
type PromptKind int

const (
	PromptConfirm PromptKind = iota
	PromptInfo
	PromptError
	PromptSave
	PromptProperties
)

// Answer is the user's response to a prompt
type Answer struct {
	OK   bool
	Text string
}

// PromptMsg opens a modal dialog. The sender blocks until Reply receives
// the answer.
type PromptMsg struct {
	Kind    PromptKind
	Title   string
	Message string
	Warning bool
	Confirm string
	Dismiss string
	// Default pre-fills the input of a save prompt
	Default string
	Reply   chan<- Answer
}

// ProgressStartMsg opens the progress dialog
type ProgressStartMsg struct {
	Title     string
	Message   string
	Cancelled *atomic.Bool
}

// ProgressMsg updates the progress dialog
type ProgressMsg struct {
	Percent int
}

// ProgressDoneMsg closes the progress dialog
type ProgressDoneMsg struct{}

// ErrorMsg is a failure to show in the status bar
type ErrorMsg struct {
	Err error
}
