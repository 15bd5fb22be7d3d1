//go:build !nogui

package gui

import (
	"sync"

	"gamelist/internal/catalog"
	"gamelist/internal/gamelist"
	"gamelist/internal/log"
	"gamelist/pkg/types"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

const emptyText = "Dolphin could not find any GameCube/Wii ISOs or WADs.\nDouble-click here to set a games directory..."

// selection tracks the selected row of a single-selection widget so it can
// be read from any goroutine.
type selection struct {
	mu       sync.Mutex
	row      int
	ok       bool
	unselect func()
}

func (s *selection) set(row int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.row, s.ok = row, true
}

func (s *selection) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ok = false
}

// SelectedRow implements gamelist.View
func (s *selection) SelectedRow() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.row, s.ok
}

// ClearSelection implements gamelist.View
func (s *selection) ClearSelection() {
	s.clear()
	fyne.Do(s.unselect)
}

// emptyState is the placeholder shown while the catalog is empty
type emptyState struct {
	widget.BaseWidget
	label       *widget.Label
	onDoubleTap func()
}

func newEmptyState(onDoubleTap func()) *emptyState {
	e := &emptyState{label: widget.NewLabel(emptyText), onDoubleTap: onDoubleTap}
	e.label.Alignment = fyne.TextAlignCenter
	e.label.Wrapping = fyne.TextWrapWord
	e.ExtendBaseWidget(e)
	return e
}

func (e *emptyState) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewCenter(e.label))
}

func (e *emptyState) DoubleTapped(*fyne.PointEvent) {
	if e.onDoubleTap != nil {
		e.onDoubleTap()
	}
}

// GameList shows the catalog as a sortable table, an icon grid, or the
// empty-state placeholder, whichever the view controller selects.
type GameList struct {
	widget.BaseWidget

	window     fyne.Window
	catalog    *catalog.Catalog
	settings   gamelist.Settings
	dispatcher *gamelist.Dispatcher
	views      *gamelist.ViewController
	logger     *log.Logger

	tableRows *catalog.Proxy
	gridRows  *catalog.Proxy
	table     *widget.Table
	grid      *widget.GridWrap
	empty     *emptyState
	stack     *fyne.Container
	tableSel  *selection
	gridSel   *selection

	mu      sync.Mutex
	columns []types.Column
	unsub   func()

	// chooseDirectory asks for a games folder; replaced in tests
	chooseDirectory func(done func(dir string))
}

// NewGameList creates the list widget over cat
func NewGameList(w fyne.Window, cat *catalog.Catalog, settings gamelist.Settings, d *gamelist.Dispatcher) *GameList {
	g := &GameList{
		window:     w,
		catalog:    cat,
		settings:   settings,
		dispatcher: d,
		logger:     log.LogWithFields(log.F("component", "gui")),
		tableRows:  catalog.NewProxy(cat),
		gridRows:   catalog.NewProxy(cat),
	}
	g.chooseDirectory = g.showFolderDialog
	g.updateColumns()

	g.table = widget.NewTableWithHeaders(
		func() (int, int) { return g.tableRows.Len(), len(g.visibleColumns()) },
		func() fyne.CanvasObject { return newGameCell(g, types.ViewTable) },
		func(id widget.TableCellID, o fyne.CanvasObject) {
			cols := g.visibleColumns()
			if id.Col < 0 || id.Col >= len(cols) {
				return
			}
			o.(*gameCell).setGame(id.Row, g.tableRows.Game(id.Row), cols[id.Col])
		},
	)
	g.table.ShowHeaderColumn = false
	g.table.CreateHeader = func() fyne.CanvasObject { return widget.NewButton("", nil) }
	g.table.UpdateHeader = g.updateHeader
	g.tableSel = &selection{unselect: g.table.UnselectAll}
	g.table.OnSelected = func(id widget.TableCellID) { g.tableSel.set(id.Row) }
	g.table.OnUnselected = func(widget.TableCellID) { g.tableSel.clear() }

	g.grid = widget.NewGridWrap(
		func() int { return g.gridRows.Len() },
		func() fyne.CanvasObject { return newGameCell(g, types.ViewIconGrid) },
		func(id widget.GridWrapItemID, o fyne.CanvasObject) {
			o.(*gameCell).setGame(id, g.gridRows.Game(id), types.ColTitle)
		},
	)
	g.gridSel = &selection{unselect: g.grid.UnselectAll}
	g.grid.OnSelected = func(id widget.GridWrapItemID) { g.gridSel.set(id) }
	g.grid.OnUnselected = func(widget.GridWrapItemID) { g.gridSel.clear() }

	g.empty = newEmptyState(g.AddDirectory)
	g.stack = container.NewStack(g.table, g.grid, g.empty)
	g.applyColumnWidths()

	g.views = gamelist.NewViewController(cat, settings)
	g.views.Bind(types.ViewTable, g.tableSel, g.tableRows)
	g.views.Bind(types.ViewIconGrid, g.gridSel, g.gridRows)
	g.views.OnChange(func(mode types.ViewMode) {
		fyne.Do(func() { g.show(mode) })
	})
	g.unsub = cat.Subscribe(func(catalog.Event) {
		fyne.Do(g.refreshRows)
	})
	g.show(g.views.Active())

	g.ExtendBaseWidget(g)
	return g
}

func (g *GameList) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(g.stack)
}

// Close detaches the list from the catalog
func (g *GameList) Close() {
	g.unsub()
	g.views.Close()
	g.tableRows.Close()
	g.gridRows.Close()
}

// Active returns the view shown
func (g *GameList) Active() types.ViewMode {
	return g.views.Active()
}

// SelectedGame returns the path of the selected game
func (g *GameList) SelectedGame() (string, bool) {
	return g.views.SelectedGame()
}

// SetPreferredView switches between the table and the icon grid
func (g *GameList) SetPreferredView(table bool) {
	if err := g.views.SetPreferredView(table); err != nil {
		g.logger.Errorf("cannot store view preference: %v", err)
	}
}

// SetColumnVisible shows or hides a table column and stores the choice
func (g *GameList) SetColumnVisible(col types.Column, visible bool) {
	if err := g.settings.SetColumnVisible(col, visible); err != nil {
		g.logger.Errorf("cannot store column visibility: %v", err)
	}
	g.updateColumns()
	g.applyColumnWidths()
	g.table.Refresh()
}

// SortBy sorts the table by col, reversing the order when it already is
func (g *GameList) SortBy(col types.Column) {
	cur, asc := g.tableRows.Sort()
	if cur == col {
		asc = !asc
	} else {
		asc = true
	}
	g.tableRows.SetSort(col, asc)
	g.table.UnselectAll()
	g.table.Refresh()
}

// SetFilter keeps only the games matching text in both views
func (g *GameList) SetFilter(text string) {
	g.tableRows.SetFilter(text)
	g.gridRows.SetFilter(text)
	g.table.UnselectAll()
	g.grid.UnselectAll()
	g.refreshRows()
}

// PlaySelected launches the selected game
func (g *GameList) PlaySelected() {
	path, ok := g.views.SelectedGame()
	if !ok {
		return
	}
	g.dispatcher.TriggerPlay(path)
}

// AddDirectory asks for a folder and adds it to the game paths
func (g *GameList) AddDirectory() {
	g.chooseDirectory(func(dir string) {
		if dir == "" {
			return
		}
		if err := g.settings.AddPath(dir); err != nil {
			g.logger.Errorf("cannot add games directory %s: %v", dir, err)
			dialog.ShowError(err, g.window)
		}
	})
}

func (g *GameList) showFolderDialog(done func(dir string)) {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			done("")
			return
		}
		done(uri.Path())
	}, g.window)
}

// show raises the widget for mode
func (g *GameList) show(mode types.ViewMode) {
	for m, o := range map[types.ViewMode]fyne.CanvasObject{
		types.ViewTable:    g.table,
		types.ViewIconGrid: g.grid,
		types.ViewEmpty:    g.empty,
	} {
		if m == mode {
			o.Show()
		} else {
			o.Hide()
		}
	}
	g.stack.Refresh()
}

func (g *GameList) refreshRows() {
	g.table.Refresh()
	g.grid.Refresh()
}

func (g *GameList) selectRow(mode types.ViewMode, row int) {
	if row < 0 {
		return
	}
	switch mode {
	case types.ViewTable:
		g.table.Select(widget.TableCellID{Row: row, Col: 0})
	case types.ViewIconGrid:
		g.grid.Select(row)
	}
}

func (g *GameList) updateColumns() {
	cols := make([]types.Column, 0, types.ColumnCount)
	for _, c := range types.AllColumns() {
		if g.settings.ColumnVisible(c) {
			cols = append(cols, c)
		}
	}
	g.mu.Lock()
	g.columns = cols
	g.mu.Unlock()
}

func (g *GameList) visibleColumns() []types.Column {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.columns
}

func (g *GameList) applyColumnWidths() {
	for i, c := range g.visibleColumns() {
		g.table.SetColumnWidth(i, columnWidths[c])
	}
}

func (g *GameList) updateHeader(id widget.TableCellID, o fyne.CanvasObject) {
	b := o.(*widget.Button)
	cols := g.visibleColumns()
	if id.Row >= 0 || id.Col < 0 || id.Col >= len(cols) {
		b.SetText("")
		b.OnTapped = nil
		return
	}
	col := cols[id.Col]
	b.SetText(headerText(col, g.tableRows))
	b.OnTapped = func() { g.SortBy(col) }
}

func headerText(col types.Column, rows *catalog.Proxy) string {
	cur, asc := rows.Sort()
	if cur != col {
		return col.String()
	}
	if asc {
		return col.String() + " ▲"
	}
	return col.String() + " ▼"
}

// showMenu opens the context menu of the selected game at pos
func (g *GameList) showMenu(pos fyne.Position) {
	path, ok := g.views.SelectedGame()
	if !ok {
		return
	}
	m, err := g.dispatcher.NewMenu(path)
	if err != nil {
		g.logger.Warnf("no menu for %s: %v", path, err)
		return
	}

	items, byAction := menuItems(m, func(a gamelist.Action) {
		g.dispatcher.Trigger(a, path)
	})
	popup := widget.NewPopUpMenu(fyne.NewMenu("", items...), g.window.Canvas())
	hide := popup.OnDismiss
	popup.OnDismiss = func() {
		m.Close()
		if hide != nil {
			hide()
		}
	}
	m.OnChange(func() {
		fyne.Do(func() {
			for _, e := range m.Entries() {
				if item, ok := byAction[e.Action]; ok && !e.Separator {
					item.Disabled = !e.Enabled
				}
			}
			popup.Refresh()
		})
	})
	popup.ShowAtPosition(pos)
}

// menuItems renders the entries of m, calling trigger with the chosen action
func menuItems(m *gamelist.Menu, trigger func(gamelist.Action)) ([]*fyne.MenuItem, map[gamelist.Action]*fyne.MenuItem) {
	entries := m.Entries()
	items := make([]*fyne.MenuItem, 0, len(entries))
	byAction := make(map[gamelist.Action]*fyne.MenuItem, len(entries))
	for _, e := range entries {
		if e.Separator {
			items = append(items, fyne.NewMenuItemSeparator())
			continue
		}
		action := e.Action
		item := fyne.NewMenuItem(e.Label(), func() { trigger(action) })
		item.Disabled = !e.Enabled
		items = append(items, item)
		byAction[action] = item
	}
	return items, byAction
}
