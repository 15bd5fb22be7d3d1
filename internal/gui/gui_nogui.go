//go:build nogui
// +build nogui

package gui

import (
	"gamelist/internal/errors"
)

// Run is a stub implementation for builds with GUI disabled
func Run(Options) error {
	return errors.New("GUI not available in this build, use the tui command instead")
}

// IsGUIAvailable returns whether the GUI is available in this build
func IsGUIAvailable() bool {
	return false
}
