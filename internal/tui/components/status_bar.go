package components

import (
	"gamelist/internal/tui/styles"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type StatusBar struct {
	text    string
	style   lipgloss.Style
	spinner spinner.Model
	loading bool
}

func NewStatusBar() *StatusBar {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Theme.Help

	return &StatusBar{
		style:   styles.Theme.Help,
		spinner: s,
	}
}

// SetLoading shows the spinner; the returned command starts it
func (s *StatusBar) SetLoading(loading bool) tea.Cmd {
	s.loading = loading
	if loading {
		return s.spinner.Tick
	}
	return nil
}

func (s *StatusBar) Loading() bool {
	return s.loading
}

func (s *StatusBar) SetText(text string) {
	s.text = text
	s.style = styles.Theme.Help
}

// SetError shows text in the error style
func (s *StatusBar) SetError(text string) {
	s.text = text
	s.style = styles.Theme.Error
}

func (s *StatusBar) Text() string {
	return s.text
}

func (s *StatusBar) Update(msg tea.Msg) tea.Cmd {
	if s.loading {
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return cmd
	}
	return nil
}

func (s *StatusBar) View() string {
	if s.text == "" && !s.loading {
		return ""
	}

	if s.loading {
		return s.style.Render(s.spinner.View() + " " + s.text)
	}
	return s.style.Render(s.text)
}
