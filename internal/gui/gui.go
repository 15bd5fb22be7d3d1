//go:build !nogui

package gui

import (
	"fmt"

	"gamelist/internal/catalog"
	"gamelist/internal/gamelist"
	"gamelist/internal/log"
	"gamelist/pkg/types"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// App is the GUI application
type App struct {
	fyneApp    fyne.App
	mainWindow fyne.Window
	list       *GameList
	dispatcher *gamelist.Dispatcher
	settings   gamelist.Settings
	catalog    *catalog.Catalog
	status     *widget.Label
	search     *widget.Entry
	unsub      func()
}

// NewApp creates the main window on fyneApp
func NewApp(fyneApp fyne.App, opts Options) *App {
	w := fyneApp.NewWindow("Dolphin Game List")

	deps := opts.Deps
	deps.Prompter = NewPrompter(w)
	if deps.Opener == nil {
		deps.Opener = fyneApp
	}
	d := gamelist.NewDispatcher(deps)

	a := &App{
		fyneApp:    fyneApp,
		mainWindow: w,
		dispatcher: d,
		settings:   opts.Settings,
		catalog:    opts.Catalog,
		list:       NewGameList(w, opts.Catalog, opts.Settings, d),
		status:     widget.NewLabel(""),
	}
	a.setupMainWindow()
	a.unsub = opts.Catalog.Subscribe(func(catalog.Event) {
		fyne.Do(a.updateStatus)
	})
	return a
}

// GetMainWindow returns the main window instance
func (a *App) GetMainWindow() fyne.Window {
	return a.mainWindow
}

// List returns the game list widget
func (a *App) List() *GameList {
	return a.list
}

// Run shows the window and blocks until the application quits
func (a *App) Run() {
	a.mainWindow.ShowAndRun()
	a.Close()
}

// Close releases the catalog subscriptions and stops the dispatcher
func (a *App) Close() {
	a.unsub()
	a.list.Close()
	a.dispatcher.Stop()
}

func (a *App) setupMainWindow() {
	a.mainWindow.Resize(fyne.NewSize(1000, 640))
	a.mainWindow.SetMainMenu(a.mainMenu())

	a.search = widget.NewEntry()
	a.search.SetPlaceHolder("Search games")
	a.search.OnChanged = a.list.SetFilter

	toolbar := widget.NewToolbar(
		widget.NewToolbarAction(theme.FolderNewIcon(), a.list.AddDirectory),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ListIcon(), func() { a.list.SetPreferredView(true) }),
		widget.NewToolbarAction(theme.GridIcon(), func() { a.list.SetPreferredView(false) }),
		widget.NewToolbarSpacer(),
		widget.NewToolbarAction(theme.MediaPlayIcon(), a.list.PlaySelected),
	)

	a.mainWindow.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if ev.Name == fyne.KeyReturn || ev.Name == fyne.KeyEnter {
			a.list.PlaySelected()
		}
	})

	a.updateStatus()
	content := container.NewBorder(
		container.NewBorder(nil, nil, nil, toolbar, a.search),
		a.status,
		nil,
		nil,
		a.list,
	)
	a.mainWindow.SetContent(content)
}

func (a *App) mainMenu() *fyne.MainMenu {
	file := fyne.NewMenu("File",
		fyne.NewMenuItem("Add Games Directory...", a.list.AddDirectory),
	)

	table := fyne.NewMenuItem("Table", nil)
	grid := fyne.NewMenuItem("Grid", nil)
	markView := func() {
		table.Checked = a.settings.PreferTable()
		grid.Checked = !table.Checked
	}
	table.Action = func() {
		a.list.SetPreferredView(true)
		markView()
	}
	grid.Action = func() {
		a.list.SetPreferredView(false)
		markView()
	}
	markView()

	columns := make([]*fyne.MenuItem, 0, types.ColumnCount)
	for _, col := range types.AllColumns() {
		item := fyne.NewMenuItem(col.String(), nil)
		item.Checked = a.settings.ColumnVisible(col)
		item.Action = func() {
			item.Checked = !item.Checked
			a.list.SetColumnVisible(col, item.Checked)
		}
		columns = append(columns, item)
	}
	columnsItem := fyne.NewMenuItem("Columns", nil)
	columnsItem.ChildMenu = fyne.NewMenu("", columns...)

	view := fyne.NewMenu("View", table, grid, fyne.NewMenuItemSeparator(), columnsItem)
	return fyne.NewMainMenu(file, view)
}

func (a *App) updateStatus() {
	n := a.catalog.Count()
	switch n {
	case 1:
		a.status.SetText("1 game")
	default:
		a.status.SetText(fmt.Sprintf("%d games", n))
	}
}

// Run creates the application and blocks until the window is closed
func Run(opts Options) error {
	fyneApp := app.NewWithID(AppID)
	a := NewApp(fyneApp, opts)
	log.Info("Starting game list window")
	a.Run()
	return nil
}

// IsGUIAvailable returns whether the GUI is available in this build
func IsGUIAvailable() bool {
	return true
}
