package styles

import "github.com/charmbracelet/lipgloss"

// Theme defines the core UI styles
var Theme = struct {
	App        lipgloss.Style
	Title      lipgloss.Style
	Selected   lipgloss.Style
	Unselected lipgloss.Style
	Disabled   lipgloss.Style
	Help       lipgloss.Style
	Error      lipgloss.Style
	Success    lipgloss.Style
	Dialog     lipgloss.Style
	Warning    lipgloss.Style
	Empty      lipgloss.Style
}{
	App: lipgloss.NewStyle().
		Padding(1, 2),
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#7B61FF")).
		MarginBottom(1),
	Selected: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#73F59F")).
		Bold(true),
	Unselected: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#CCCCCC")),
	Disabled: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666666")),
	Help: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#5A9")),
	Error: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FF5F5F")),
	Success: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#73F59F")),
	Dialog: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#7B61FF")).
		Padding(1, 2),
	Warning: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#FFAF00")).
		Padding(1, 2),
	Empty: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#959595")).
		Padding(2, 4),
}
