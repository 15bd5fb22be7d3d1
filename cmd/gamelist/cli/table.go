package cli

import (
	"gamelist/internal/game"
	"gamelist/internal/gamelist"
	"gamelist/pkg/types"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// GameTable renders games with the given columns. Banner columns are
// skipped.
func GameTable(games []*game.File, columns []types.Column) string {
	var headers []string
	var cols []types.Column
	for _, c := range columns {
		if c == types.ColBanner {
			continue
		}
		cols = append(cols, c)
		headers = append(headers, c.String())
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(CurrentTheme.BoxOutline)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Foreground(CurrentTheme.Header).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})

	for _, g := range games {
		row := make([]string, len(cols))
		for i, c := range cols {
			row[i] = gamelist.ColumnText(g, c)
		}
		t.Row(row...)
	}
	return t.Render()
}
