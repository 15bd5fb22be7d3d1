package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ColorTheme represents a set of colors for the CLI
type ColorTheme struct {
	Name        string
	Success     lipgloss.Color
	Error       lipgloss.Color
	Warning     lipgloss.Color
	Info        lipgloss.Color
	Header      lipgloss.Color
	BoxOutline  lipgloss.Color
	Description string
}

// Available themes
var (
	DefaultTheme = ColorTheme{
		Name:        "default",
		Success:     lipgloss.Color("2"),
		Error:       lipgloss.Color("1"),
		Warning:     lipgloss.Color("3"),
		Info:        lipgloss.Color("4"),
		Header:      lipgloss.Color("6"),
		BoxOutline:  lipgloss.Color("6"),
		Description: "Terminal colors",
	}

	GruvboxTheme = ColorTheme{
		Name:        "gruvbox",
		Success:     lipgloss.Color("142"),
		Error:       lipgloss.Color("167"),
		Warning:     lipgloss.Color("214"),
		Info:        lipgloss.Color("109"),
		Header:      lipgloss.Color("208"),
		BoxOutline:  lipgloss.Color("142"),
		Description: "Warm, earthy color scheme (gruvbox)",
	}

	TokyoNightTheme = ColorTheme{
		Name:        "tokyo-night",
		Success:     lipgloss.Color("115"),
		Error:       lipgloss.Color("203"),
		Warning:     lipgloss.Color("222"),
		Info:        lipgloss.Color("110"),
		Header:      lipgloss.Color("139"),
		BoxOutline:  lipgloss.Color("110"),
		Description: "Neon Tokyo-inspired dark theme",
	}
)

// AvailableThemes lists every theme SetTheme accepts
var AvailableThemes = []ColorTheme{
	DefaultTheme,
	GruvboxTheme,
	TokyoNightTheme,
}

// CurrentTheme is the active theme
var CurrentTheme = DefaultTheme

// Out receives everything the print helpers write
var Out io.Writer = os.Stdout

// SetTheme sets the current theme by name
func SetTheme(themeName string) bool {
	for _, theme := range AvailableThemes {
		if theme.Name == themeName {
			CurrentTheme = theme
			return true
		}
	}
	return false
}

// GetThemeNames returns all available theme names
func GetThemeNames() []string {
	var names []string
	for _, theme := range AvailableThemes {
		names = append(names, theme.Name)
	}
	return names
}

func styled(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	fmt.Fprintln(Out, styled(CurrentTheme.Success).Render("✓ "+message))
}

// PrintError prints an error message
func PrintError(message string) {
	fmt.Fprintln(Out, styled(CurrentTheme.Error).Render("✗ "+message))
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	fmt.Fprintln(Out, styled(CurrentTheme.Warning).Render("! "+message))
}

// PrintInfo prints an informational message
func PrintInfo(message string) {
	fmt.Fprintln(Out, styled(CurrentTheme.Info).Render("ℹ "+message))
}

// PrintHeader prints a section header
func PrintHeader(message string) {
	fmt.Fprintln(Out, "\n"+styled(CurrentTheme.Header).Bold(true).Render(message))
	fmt.Fprintln(Out, strings.Repeat("─", lipgloss.Width(message)))
}

// DrawBox draws a rounded box in color around content
func DrawBox(content string, color lipgloss.Color) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 1).
		Render(content)
}

// DrawBoxWithTheme creates a colored box using the current theme
func DrawBoxWithTheme(content string) string {
	return DrawBox(content, CurrentTheme.BoxOutline)
}

// DrawLogo returns the banner shown above the help text
func DrawLogo() string {
	logo := `
 ____        _       _     _          ____                         _     _     _
|  _ \  ___ | |_ __ | |__ (_)_ __    / ___| __ _ _ __ ___   ___  | |   (_)___| |_
| | | |/ _ \| | '_ \| '_ \| | '_ \  | |  _ / _' | '_ ' _ \ / _ \ | |   | / __| __|
| |_| | (_) | | |_) | | | | | | | | | |_| | (_| | | | | | |  __/ | |___| \__ \ |_
|____/ \___/|_| .__/|_| |_|_|_| |_|  \____|\__,_|_| |_| |_|\___| |_____|_|___/\__|
              |_|
`
	return styled(CurrentTheme.Header).Render(logo)
}
