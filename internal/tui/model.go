package tui

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"gamelist/internal/catalog"
	"gamelist/internal/errors"
	"gamelist/internal/game"
	"gamelist/internal/gamelist"
	"gamelist/internal/log"
	"gamelist/internal/tui/components"
	"gamelist/internal/tui/messages"
	"gamelist/internal/tui/styles"
	"gamelist/internal/tui/views"
	"gamelist/pkg/types"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Options configures the terminal game list
type Options struct {
	Catalog  *catalog.Catalog
	Settings gamelist.Settings
	// Deps are passed to the dispatcher. The Prompter is replaced by one
	// that shows dialogs in the terminal.
	Deps gamelist.Deps
}

// selection is the selected row of one view, readable from the dispatcher
// goroutine.
type selection struct {
	mu  sync.Mutex
	row int
	ok  bool
}

func (s *selection) set(row int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.row, s.ok = row, true
}

func (s *selection) SelectedRow() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.row, s.ok
}

func (s *selection) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ok = false
}

// programSender forwards messages to the program once it is attached
type programSender struct {
	mu      sync.Mutex
	program *tea.Program
}

func (s *programSender) Attach(p *tea.Program) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.program = p
}

func (s *programSender) Send(msg tea.Msg) {
	s.mu.Lock()
	p := s.program
	s.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// gameItem is a row of the list view
type gameItem struct {
	file *game.File
}

func (i gameItem) Title() string { return i.file.Title() }
func (i gameItem) Description() string {
	return i.file.Platform.String() + "  " + gamelist.Description(i.file)
}
func (i gameItem) FilterValue() string { return i.file.Title() }

type inputPurpose int

const (
	inputNone inputPurpose = iota
	inputDirectory
	inputFilter
)

type progressState struct {
	title     string
	message   string
	percent   int
	cancelled *atomic.Bool
	aborting  bool
	bar       progress.Model
}

// columnWidths are the table widths in cells
var columnWidths = map[types.Column]int{
	types.ColPlatform:    10,
	types.ColTitle:       36,
	types.ColDescription: 28,
	types.ColMaker:       6,
	types.ColID:          8,
	types.ColCountry:     12,
	types.ColSize:        10,
	types.ColRating:      8,
}

// Model is the bubbletea model of the terminal game list
type Model struct {
	catalog    *catalog.Catalog
	settings   gamelist.Settings
	dispatcher *gamelist.Dispatcher
	views      *gamelist.ViewController
	sender     Sender
	logger     *log.Logger
	unsub      func()

	tableRows *catalog.Proxy
	gridRows  *catalog.Proxy
	tableSel  *selection
	listSel   *selection
	columns   []types.Column

	mode     types.ViewMode
	table    table.Model
	list     list.Model
	menu     *components.ContextMenu
	prompt   *messages.PromptMsg
	input    textinput.Model
	purpose  inputPurpose
	progress *progressState
	status   *components.StatusBar
	filter   string
	showHelp bool
	width    int
	height   int
}

// New creates the model. Messages from the catalog and the dispatcher
// reach it through sender.
func New(opts Options, sender Sender) *Model {
	m := &Model{
		catalog:   opts.Catalog,
		settings:  opts.Settings,
		sender:    sender,
		logger:    log.LogWithFields(log.F("component", "tui")),
		tableRows: catalog.NewProxy(opts.Catalog),
		gridRows:  catalog.NewProxy(opts.Catalog),
		tableSel:  &selection{},
		listSel:   &selection{},
		status:    components.NewStatusBar(),
		input:     textinput.New(),
	}

	deps := opts.Deps
	deps.Prompter = NewPrompter(sender)
	m.dispatcher = gamelist.NewDispatcher(deps)

	m.table = table.New(table.WithFocused(true), table.WithHeight(15))
	m.list = list.New(nil, list.NewDefaultDelegate(), 80, 20)
	m.list.SetShowTitle(false)
	m.list.SetShowHelp(false)
	m.list.SetShowStatusBar(false)
	m.list.SetFilteringEnabled(false)

	m.views = gamelist.NewViewController(opts.Catalog, opts.Settings)
	m.views.Bind(types.ViewTable, m.tableSel, m.tableRows)
	m.views.Bind(types.ViewIconGrid, m.listSel, m.gridRows)
	// Listeners run on the goroutine that changed the state, which may be
	// Update itself, so messages are posted without waiting.
	m.views.OnChange(func(mode types.ViewMode) {
		m.post(messages.ViewChangedMsg{Mode: mode})
	})
	m.unsub = opts.Catalog.Subscribe(func(catalog.Event) {
		m.post(messages.CatalogChangedMsg{})
	})

	m.mode = m.views.Active()
	m.refreshRows()
	return m
}

func (m *Model) post(msg tea.Msg) {
	go m.sender.Send(msg)
}

// Close stops the dispatcher and detaches from the catalog
func (m *Model) Close() {
	m.unsub()
	m.closeMenu()
	m.views.Close()
	m.tableRows.Close()
	m.gridRows.Close()
	m.dispatcher.Stop()
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Mode returns the view shown
func (m *Model) Mode() types.ViewMode {
	return m.mode
}

// SelectedGame returns the path of the selected game
func (m *Model) SelectedGame() (string, bool) {
	return m.views.SelectedGame()
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case messages.CatalogChangedMsg:
		m.refreshRows()
	case messages.ViewChangedMsg:
		// Posted messages may arrive out of order; the controller is current
		m.setMode(m.views.Active())
	case messages.MenuChangedMsg:
		// Entries are read on render
	case messages.PromptMsg:
		return m, m.openPrompt(msg)
	case messages.ProgressStartMsg:
		bar := progress.New(progress.WithDefaultGradient())
		bar.Width = 40
		m.progress = &progressState{
			title:     msg.Title,
			message:   msg.Message,
			cancelled: msg.Cancelled,
			bar:       bar,
		}
	case messages.ProgressMsg:
		if m.progress != nil {
			m.progress.percent = msg.Percent
		}
	case messages.ProgressDoneMsg:
		m.progress = nil
	case messages.ActionDoneMsg:
		m.actionDone(msg)
	case messages.ErrorMsg:
		m.status.SetError(msg.Err.Error())
	case spinner.TickMsg:
		return m, m.status.Update(msg)
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}
	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case m.prompt != nil:
		return m, m.handlePromptKeys(msg)
	case m.progress != nil:
		m.handleProgressKeys(msg)
		return m, nil
	case m.purpose != inputNone:
		return m, m.handleInputKeys(msg)
	case m.menu != nil:
		return m, m.handleMenuKeys(msg)
	}
	return m.handleNormalKeys(msg)
}

func (m *Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "?":
		m.showHelp = !m.showHelp
	case "v":
		if err := m.views.SetPreferredView(!m.settings.PreferTable()); err != nil {
			m.logger.Errorf("cannot store view preference: %v", err)
			m.status.SetError(err.Error())
		}
		m.setMode(m.views.Active())
	case "a":
		return m, m.startInput(inputDirectory, "")
	case "/":
		return m, m.startInput(inputFilter, m.filter)
	case "s":
		m.cycleSort()
	case "r":
		col, asc := m.tableRows.Sort()
		m.tableRows.SetSort(col, !asc)
		m.tableSel.ClearSelection()
		m.refreshRows()
	case "esc":
		m.tableSel.ClearSelection()
		m.listSel.ClearSelection()
	case "enter":
		if m.mode == types.ViewEmpty {
			return m, m.startInput(inputDirectory, "")
		}
		return m, m.play()
	case "m":
		m.openMenu()
	case "p":
		return m, m.triggerSelected(gamelist.ActionProperties)
	case "d":
		return m, m.triggerSelected(gamelist.ActionRemove)
	default:
		return m, m.navigate(msg)
	}
	return m, nil
}

// navigate moves the cursor of the active view and selects the row under it
func (m *Model) navigate(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	switch m.mode {
	case types.ViewTable:
		m.table, cmd = m.table.Update(msg)
		if m.tableRows.Len() > 0 {
			m.tableSel.set(m.table.Cursor())
		}
	case types.ViewIconGrid:
		m.list, cmd = m.list.Update(msg)
		if m.gridRows.Len() > 0 {
			m.listSel.set(m.list.Index())
		}
	}
	return cmd
}

func (m *Model) handleMenuKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		m.menu.MoveCursor(-1)
	case "down", "j":
		m.menu.MoveCursor(1)
	case "esc", "q", "m":
		m.closeMenu()
	case "enter":
		e, ok := m.menu.Current()
		if !ok || !e.Enabled {
			return nil
		}
		path := m.menu.Menu().Path()
		m.closeMenu()
		return m.trigger(e.Action, path)
	}
	return nil
}

func (m *Model) handlePromptKeys(msg tea.KeyMsg) tea.Cmd {
	p := m.prompt
	key := msg.String()
	switch p.Kind {
	case messages.PromptConfirm:
		switch key {
		case "y", "enter":
			m.answer(messages.Answer{OK: true})
		case "n", "esc":
			m.answer(messages.Answer{})
		}
	case messages.PromptSave:
		switch key {
		case "enter":
			m.answer(messages.Answer{OK: true, Text: m.input.Value()})
			m.input.Blur()
		case "esc":
			m.answer(messages.Answer{})
			m.input.Blur()
		default:
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return cmd
		}
	default:
		switch key {
		case "enter", "esc", "q":
			m.answer(messages.Answer{OK: true})
		}
	}
	return nil
}

func (m *Model) handleProgressKeys(msg tea.KeyMsg) {
	switch msg.String() {
	case "esc", "a", "ctrl+c":
		m.progress.cancelled.Store(true)
		m.progress.aborting = true
	}
}

func (m *Model) handleInputKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		value := strings.TrimSpace(m.input.Value())
		purpose := m.purpose
		m.stopInput()
		if purpose == inputDirectory {
			m.addDirectory(value)
		} else {
			m.setFilter(value)
		}
		return nil
	case "esc":
		if m.purpose == inputFilter {
			m.setFilter("")
		}
		m.stopInput()
		return nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *Model) openPrompt(msg messages.PromptMsg) tea.Cmd {
	m.prompt = &msg
	if msg.Kind != messages.PromptSave {
		return nil
	}
	m.input.Placeholder = "destination file"
	m.input.SetValue(msg.Default)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *Model) answer(a messages.Answer) {
	if m.prompt.Reply != nil {
		m.prompt.Reply <- a
	}
	m.prompt = nil
}

func (m *Model) startInput(purpose inputPurpose, value string) tea.Cmd {
	m.purpose = purpose
	if purpose == inputDirectory {
		m.input.Placeholder = "/path/to/games"
	} else {
		m.input.Placeholder = "title, game ID or file name"
	}
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *Model) stopInput() {
	m.purpose = inputNone
	m.input.Blur()
	m.input.SetValue("")
}

func (m *Model) addDirectory(dir string) {
	if dir == "" {
		return
	}
	if err := m.settings.AddPath(dir); err != nil {
		m.logger.Errorf("cannot add games directory %s: %v", dir, err)
		m.status.SetError(err.Error())
		return
	}
	m.status.SetText("Scanning " + dir)
}

func (m *Model) setFilter(text string) {
	m.filter = text
	m.tableRows.SetFilter(text)
	m.gridRows.SetFilter(text)
	m.tableSel.ClearSelection()
	m.listSel.ClearSelection()
	m.refreshRows()
}

// cycleSort sorts the table by the next visible column
func (m *Model) cycleSort() {
	cur, _ := m.tableRows.Sort()
	next := m.columns[0]
	for i, c := range m.columns {
		if c == cur && i+1 < len(m.columns) {
			next = m.columns[i+1]
			break
		}
	}
	m.tableRows.SetSort(next, true)
	m.tableSel.ClearSelection()
	m.refreshRows()
}

func (m *Model) openMenu() {
	path, ok := m.views.SelectedGame()
	if !ok {
		m.status.SetText("No game selected")
		return
	}
	menu, err := m.dispatcher.NewMenu(path)
	if err != nil {
		m.status.SetError(err.Error())
		return
	}
	menu.OnChange(func() { m.post(messages.MenuChangedMsg{}) })
	m.menu = components.NewContextMenu(menu, menu.File().Title())
}

func (m *Model) closeMenu() {
	if m.menu != nil {
		m.menu.Menu().Close()
		m.menu = nil
	}
}

func (m *Model) play() tea.Cmd {
	path, ok := m.views.SelectedGame()
	if !ok {
		return nil
	}
	res := m.dispatcher.TriggerPlay(path)
	m.status.SetText("Starting emulator")
	return tea.Batch(m.status.SetLoading(true), func() tea.Msg {
		return messages.ActionDoneMsg{Play: true, Path: path, Err: <-res}
	})
}

func (m *Model) triggerSelected(action gamelist.Action) tea.Cmd {
	path, ok := m.views.SelectedGame()
	if !ok {
		m.status.SetText("No game selected")
		return nil
	}
	return m.trigger(action, path)
}

// trigger queues action on the dispatcher; its outcome comes back as an
// ActionDoneMsg.
func (m *Model) trigger(action gamelist.Action, path string) tea.Cmd {
	res := m.dispatcher.Trigger(action, path)
	m.status.SetText(action.Label())
	return tea.Batch(m.status.SetLoading(true), func() tea.Msg {
		return messages.ActionDoneMsg{Action: action, Path: path, Err: <-res}
	})
}

func (m *Model) actionDone(msg messages.ActionDoneMsg) {
	m.status.SetLoading(false)
	name := msg.Action.Label()
	if msg.Play {
		name = "Launch"
	}
	switch {
	case msg.Err == nil:
		m.status.SetText(name + ": done")
	case errors.IsCancelled(msg.Err):
		m.status.SetText(name + ": cancelled")
	case errors.Is(msg.Err, errors.ErrNotAvailable):
		m.status.SetText(name + ": not available for this game")
	default:
		m.status.SetError(fmt.Sprintf("%s: %v", name, msg.Err))
	}
}

func (m *Model) setMode(mode types.ViewMode) {
	if mode == m.mode {
		return
	}
	m.mode = mode
	m.table.SetCursor(0)
	m.list.Select(0)
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	body := max(height-8, 3)
	m.table.SetHeight(body)
	m.table.SetWidth(width)
	m.list.SetSize(width, body)
}

// refreshRows rebuilds both views from their proxies
func (m *Model) refreshRows() {
	m.columns = m.columns[:0]
	for _, c := range types.AllColumns() {
		// Terminals cannot show banner images
		if c != types.ColBanner && m.settings.ColumnVisible(c) {
			m.columns = append(m.columns, c)
		}
	}
	if len(m.columns) == 0 {
		m.columns = append(m.columns, types.ColTitle)
	}

	sortCol, asc := m.tableRows.Sort()
	cols := make([]table.Column, len(m.columns))
	for i, c := range m.columns {
		cols[i] = table.Column{Title: headerText(c, sortCol, asc), Width: columnWidths[c]}
	}

	rows := make([]table.Row, 0, m.tableRows.Len())
	for i := 0; i < m.tableRows.Len(); i++ {
		f := m.tableRows.Game(i)
		if f == nil {
			continue
		}
		row := make(table.Row, len(m.columns))
		for j, c := range m.columns {
			row[j] = gamelist.ColumnText(f, c)
		}
		rows = append(rows, row)
	}

	// Rows wider than the new columns must not outlive the column change
	m.table.SetRows(nil)
	m.table.SetColumns(cols)
	m.table.SetRows(rows)
	clampSelection(m.tableSel, len(rows))
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}

	items := make([]list.Item, 0, m.gridRows.Len())
	for i := 0; i < m.gridRows.Len(); i++ {
		if f := m.gridRows.Game(i); f != nil {
			items = append(items, gameItem{file: f})
		}
	}
	m.list.SetItems(items)
	clampSelection(m.listSel, len(items))
}

func clampSelection(s *selection, rows int) {
	if row, ok := s.SelectedRow(); ok && row >= rows {
		s.ClearSelection()
	}
}

func headerText(col, sortCol types.Column, asc bool) string {
	if col != sortCol {
		return col.String()
	}
	if asc {
		return col.String() + " ▲"
	}
	return col.String() + " ▼"
}

// View implements tea.Model
func (m *Model) View() string {
	rows := m.tableRows
	if m.mode == types.ViewIconGrid {
		rows = m.gridRows
	}
	sortCol, asc := rows.Sort()

	var s strings.Builder
	s.WriteString(views.Header(m.mode, rows.Len(), sortCol, asc))
	s.WriteString(m.body())
	s.WriteString("\n")
	if status := m.status.View(); status != "" {
		s.WriteString(status)
		s.WriteString("\n")
	}
	s.WriteString(views.RenderKeyCommands(m.mode))
	if m.showHelp {
		s.WriteString("\n")
		s.WriteString(views.RenderHelp())
	}
	return styles.Theme.App.Render(s.String())
}

func (m *Model) body() string {
	var dialog string
	switch {
	case m.prompt != nil:
		dialog = views.Prompt(*m.prompt, m.input.View())
	case m.progress != nil:
		p := m.progress
		dialog = views.Progress(p.title, p.message, p.bar.ViewAs(float64(p.percent)/100), p.aborting)
	case m.menu != nil:
		dialog = m.menu.View()
	case m.purpose == inputDirectory:
		dialog = views.Input("Add games directory", m.input.View())
	case m.purpose == inputFilter:
		dialog = views.Input("Search", m.input.View())
	}
	if dialog != "" {
		if m.width > 0 && m.height > 8 {
			return lipgloss.Place(m.width, m.height-8, lipgloss.Center, lipgloss.Center, dialog)
		}
		return dialog
	}

	switch m.mode {
	case types.ViewTable:
		return m.table.View()
	case types.ViewIconGrid:
		return m.list.View()
	}
	return views.Empty()
}

// Run shows the game list in the terminal until the user quits
func Run(opts Options) error {
	sender := &programSender{}
	m := New(opts, sender)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen())
	sender.Attach(p)
	if _, err := p.Run(); err != nil {
		return errors.Wrap(err, "terminal UI failed")
	}
	return nil
}
