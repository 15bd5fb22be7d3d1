//go:build !nogui

package gui

import (
	"gamelist/internal/game"
	"gamelist/internal/gamelist"
	"gamelist/pkg/types"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// gameCell is one table cell or grid item. Taps are routed back to the list
// so the row is selected before a menu opens or a game launches.
type gameCell struct {
	widget.BaseWidget

	list *GameList
	mode types.ViewMode
	row  int

	icon    *widget.Icon
	label   *widget.Label
	content *fyne.Container
}

var (
	_ fyne.Tappable          = (*gameCell)(nil)
	_ fyne.SecondaryTappable = (*gameCell)(nil)
	_ fyne.DoubleTappable    = (*gameCell)(nil)
)

func newGameCell(list *GameList, mode types.ViewMode) *gameCell {
	c := &gameCell{
		list:  list,
		mode:  mode,
		row:   -1,
		icon:  widget.NewIcon(nil),
		label: widget.NewLabel(""),
	}
	c.label.Truncation = fyne.TextTruncateEllipsis
	if mode == types.ViewIconGrid {
		c.label.Alignment = fyne.TextAlignCenter
		c.content = container.NewBorder(nil, c.label, nil, nil, c.icon)
	} else {
		c.content = container.NewBorder(nil, nil, c.icon, nil, c.label)
	}
	c.ExtendBaseWidget(c)
	return c
}

func (c *gameCell) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(c.content)
}

// setGame shows column col of f, displayed at visible row
func (c *gameCell) setGame(row int, f *game.File, col types.Column) {
	c.row = row
	if f == nil {
		c.icon.Hide()
		c.label.SetText("")
		return
	}

	switch {
	case c.mode == types.ViewIconGrid:
		c.icon.SetResource(platformIcon(f.Platform))
		c.icon.Show()
		c.label.SetText(f.Title())
	case col == types.ColPlatform || col == types.ColBanner:
		c.icon.SetResource(platformIcon(f.Platform))
		c.icon.Show()
		c.label.SetText(gamelist.ColumnText(f, col))
	default:
		c.icon.Hide()
		c.label.SetText(gamelist.ColumnText(f, col))
	}
}

func (c *gameCell) Tapped(*fyne.PointEvent) {
	c.list.selectRow(c.mode, c.row)
}

func (c *gameCell) TappedSecondary(ev *fyne.PointEvent) {
	c.list.selectRow(c.mode, c.row)
	c.list.showMenu(ev.AbsolutePosition)
}

func (c *gameCell) DoubleTapped(*fyne.PointEvent) {
	c.list.selectRow(c.mode, c.row)
	c.list.PlaySelected()
}

func platformIcon(p types.Platform) fyne.Resource {
	switch p {
	case types.PlatformGameCubeDisc, types.PlatformWiiDisc:
		return theme.MediaRecordIcon()
	case types.PlatformWiiWAD:
		return theme.DownloadIcon()
	case types.PlatformELFOrDOL:
		return theme.ComputerIcon()
	}
	return theme.QuestionIcon()
}

var columnWidths = map[types.Column]float32{
	types.ColPlatform:    110,
	types.ColBanner:      48,
	types.ColTitle:       280,
	types.ColDescription: 200,
	types.ColMaker:       70,
	types.ColID:          80,
	types.ColCountry:     100,
	types.ColSize:        90,
	types.ColRating:      70,
}
