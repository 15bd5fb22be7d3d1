package views

import (
	"fmt"
	"strings"

	"gamelist/internal/tui/messages"
	"gamelist/internal/tui/styles"
	"gamelist/pkg/types"

	"github.com/charmbracelet/lipgloss"
)

// EmptyText is shown in place of the list while no game was found
const EmptyText = "Dolphin could not find any GameCube/Wii ISOs or WADs.\nPress [a] to set a games directory..."

// Header is the summary line above the list
func Header(mode types.ViewMode, count int, sortCol types.Column, ascending bool) string {
	var s strings.Builder
	s.WriteString(styles.Theme.Title.Render("Dolphin Game List"))
	s.WriteString("\n")
	if mode == types.ViewEmpty {
		return s.String()
	}
	dir := "▲"
	if !ascending {
		dir = "▼"
	}
	games := "games"
	if count == 1 {
		games = "game"
	}
	s.WriteString(styles.Theme.Help.Render(fmt.Sprintf("%d %s  |  %s view  |  sorted by %s %s",
		count, games, mode, sortCol, dir)))
	s.WriteString("\n\n")
	return s.String()
}

// Empty renders the placeholder
func Empty() string {
	return styles.Theme.Empty.Render(EmptyText)
}

// Prompt renders a modal dialog. input is the rendered text input of a
// save prompt.
func Prompt(p messages.PromptMsg, input string) string {
	box := styles.Theme.Dialog
	if p.Warning {
		box = styles.Theme.Warning
	}

	var s strings.Builder
	title := styles.Theme.Title
	if p.Kind == messages.PromptError {
		title = title.Foreground(lipgloss.Color("#FF5F5F"))
	}
	s.WriteString(title.Render(p.Title))
	s.WriteString("\n")
	if p.Message != "" {
		s.WriteString(p.Message)
		s.WriteString("\n\n")
	}

	switch p.Kind {
	case messages.PromptConfirm:
		confirm, dismiss := p.Confirm, p.Dismiss
		if confirm == "" {
			confirm = "Yes"
		}
		if dismiss == "" {
			dismiss = "No"
		}
		s.WriteString(styles.Theme.Help.Render(fmt.Sprintf("[y/enter] %s  [n/esc] %s", confirm, dismiss)))
	case messages.PromptSave:
		s.WriteString(input)
		s.WriteString("\n\n")
		s.WriteString(styles.Theme.Help.Render("[enter] Save  [esc] Cancel"))
	default:
		s.WriteString(styles.Theme.Help.Render("[enter] OK"))
	}
	return box.Render(s.String())
}

// Progress renders the progress dialog around bar
func Progress(title, message, bar string, aborting bool) string {
	var s strings.Builder
	s.WriteString(styles.Theme.Title.Render(title))
	s.WriteString("\n")
	s.WriteString(message)
	s.WriteString("\n\n")
	s.WriteString(bar)
	s.WriteString("\n\n")
	if aborting {
		s.WriteString(styles.Theme.Disabled.Render("Aborting..."))
	} else {
		s.WriteString(styles.Theme.Help.Render("[esc] Abort"))
	}
	return styles.Theme.Dialog.Render(s.String())
}

// Input renders a one-line input with its label
func Input(label, input string) string {
	return styles.Theme.Dialog.Render(styles.Theme.Title.Render(label) + "\n" + input)
}

func RenderKeyCommands(mode types.ViewMode) string {
	if mode == types.ViewEmpty {
		return styles.Theme.Help.Render("[a] Add directory  [v] Toggle view  [q] Quit  [?] Help")
	}
	return styles.Theme.Help.Render("[↑/k] Up  [↓/j] Down  [Enter] Play  [m] Menu  [v] Toggle view  [/] Search  [q] Quit  [?] Help")
}

func RenderHelp() string {
	return styles.Theme.Help.Render(`
Keys:
  enter      launch the selected game
  m          open the action menu of the selected game
  p          show properties
  d          delete the selected file
  v          switch between the table and the list view
  s / r      sort by the next column / reverse the order
  /          search by title, ID or file name
  a          add a games directory
`)
}
