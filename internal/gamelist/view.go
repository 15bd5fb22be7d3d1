package gamelist

import (
	"slices"
	"sync"

	"gamelist/internal/catalog"
	"gamelist/pkg/types"
)

// ChooseView picks the view for a catalog of catalogSize games. An empty
// catalog always shows the empty state.
func ChooseView(catalogSize int, preferTable bool) types.ViewMode {
	if catalogSize == 0 {
		return types.ViewEmpty
	}
	if preferTable {
		return types.ViewTable
	}
	return types.ViewIconGrid
}

// View is a game list view with single selection
type View interface {
	// SelectedRow returns the selected visible row
	SelectedRow() (int, bool)
	ClearSelection()
}

// RowMapper maps a visible, sorted row to its catalog row
type RowMapper interface {
	MapToSource(row int) (int, bool)
}

type boundView struct {
	view   View
	mapper RowMapper
}

// ViewController keeps the active view in line with the catalog size and the
// view preference.
type ViewController struct {
	catalog  Catalog
	settings Settings
	unsub    func()

	mu        sync.Mutex
	views     map[types.ViewMode]boundView
	active    types.ViewMode
	updating  bool
	pending   bool
	listeners []func(types.ViewMode)
}

// NewViewController creates a controller showing the view the catalog and
// settings call for. It re-evaluates on every catalog insert or removal.
func NewViewController(cat Catalog, settings Settings) *ViewController {
	vc := &ViewController{
		catalog:  cat,
		settings: settings,
		views:    make(map[types.ViewMode]boundView),
		active:   ChooseView(cat.Count(), settings.PreferTable()),
	}
	vc.unsub = cat.Subscribe(func(ev catalog.Event) {
		if ev.Kind == catalog.Inserted || ev.Kind == catalog.Removed {
			vc.Consider()
		}
	})
	return vc
}

// Close stops following the catalog
func (vc *ViewController) Close() {
	vc.unsub()
}

// Bind registers the widget for mode. mapper may be nil when visible rows
// are catalog rows.
func (vc *ViewController) Bind(mode types.ViewMode, view View, mapper RowMapper) {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	vc.views[mode] = boundView{view: view, mapper: mapper}
}

// OnChange registers fn to run after every switch of the active view
func (vc *ViewController) OnChange(fn func(types.ViewMode)) {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	vc.listeners = append(vc.listeners, fn)
}

// Active returns the view currently shown
func (vc *ViewController) Active() types.ViewMode {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	return vc.active
}

// Consider re-evaluates the active view. A call made while a switch is in
// progress, including one from an OnChange listener, is folded into that
// switch: it is re-run once the switch finishes and never nests.
func (vc *ViewController) Consider() {
	vc.mu.Lock()
	if vc.updating {
		vc.pending = true
		vc.mu.Unlock()
		return
	}
	vc.updating = true

	for {
		vc.pending = false
		prev := vc.active
		next := ChooseView(vc.catalog.Count(), vc.settings.PreferTable())
		vc.active = next
		old, cur := vc.views[prev], vc.views[next]
		listeners := slices.Clone(vc.listeners)
		vc.mu.Unlock()

		if next != prev {
			// Nothing selected carries over to the new view
			if old.view != nil {
				old.view.ClearSelection()
			}
			if cur.view != nil {
				cur.view.ClearSelection()
			}
			for _, fn := range listeners {
				fn(next)
			}
		}

		vc.mu.Lock()
		if !vc.pending {
			break
		}
	}

	vc.updating = false
	vc.mu.Unlock()
}

// SetPreferredView stores the table/grid preference and re-evaluates
func (vc *ViewController) SetPreferredView(table bool) error {
	if err := vc.settings.SetPreferTable(table); err != nil {
		return err
	}
	vc.Consider()
	return nil
}

// SelectedGame returns the path of the game selected in the active view
func (vc *ViewController) SelectedGame() (string, bool) {
	vc.mu.Lock()
	mode := vc.active
	bv := vc.views[mode]
	vc.mu.Unlock()

	if mode == types.ViewEmpty || bv.view == nil {
		return "", false
	}
	row, ok := bv.view.SelectedRow()
	if !ok {
		return "", false
	}
	if bv.mapper != nil {
		if row, ok = bv.mapper.MapToSource(row); !ok {
			return "", false
		}
	}
	return vc.catalog.PathAt(row)
}
