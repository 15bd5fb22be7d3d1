package components

import (
	"strings"

	"gamelist/internal/gamelist"
	"gamelist/internal/tui/styles"
)

// ContextMenu renders a game's action menu and tracks its cursor
type ContextMenu struct {
	menu   *gamelist.Menu
	title  string
	cursor int
}

// NewContextMenu places the cursor on the first entry
func NewContextMenu(menu *gamelist.Menu, title string) *ContextMenu {
	c := &ContextMenu{menu: menu, title: title, cursor: -1}
	c.MoveCursor(1)
	return c
}

func (c *ContextMenu) Menu() *gamelist.Menu {
	return c.menu
}

// MoveCursor moves by delta entries, stepping over separators
func (c *ContextMenu) MoveCursor(delta int) {
	entries := c.menu.Entries()
	for pos := c.cursor + delta; pos >= 0 && pos < len(entries); pos += delta {
		if !entries[pos].Separator {
			c.cursor = pos
			return
		}
	}
}

// Current returns the entry under the cursor
func (c *ContextMenu) Current() (gamelist.MenuEntry, bool) {
	entries := c.menu.Entries()
	if c.cursor < 0 || c.cursor >= len(entries) {
		return gamelist.MenuEntry{}, false
	}
	return entries[c.cursor], true
}

func (c *ContextMenu) View() string {
	var s strings.Builder
	s.WriteString(styles.Theme.Title.Render(c.title))
	s.WriteString("\n")
	for i, e := range c.menu.Entries() {
		if e.Separator {
			s.WriteString(styles.Theme.Disabled.Render("────────────────────────────"))
			s.WriteString("\n")
			continue
		}
		cursor := "  "
		style := styles.Theme.Unselected
		if !e.Enabled {
			style = styles.Theme.Disabled
		}
		if i == c.cursor {
			cursor = "> "
			if e.Enabled {
				style = styles.Theme.Selected
			}
		}
		s.WriteString(cursor + style.Render(e.Label()) + "\n")
	}
	return styles.Theme.Dialog.Render(strings.TrimSuffix(s.String(), "\n"))
}
