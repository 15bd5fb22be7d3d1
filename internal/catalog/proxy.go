package catalog

import (
	"sort"
	"strings"
	"sync"

	"gamelist/internal/game"
	"gamelist/pkg/types"
)

// Proxy is a sorted, filtered view over a Catalog. Visible rows map back to
// catalog rows through MapToSource. The row order is rebuilt lazily after
// any catalog change.
type Proxy struct {
	src   *Catalog
	unsub func()

	mu     sync.Mutex
	col    types.Column
	asc    bool
	filter string
	rows   []int
	dirty  bool
}

// NewProxy creates a proxy sorted by title, ascending
func NewProxy(src *Catalog) *Proxy {
	p := &Proxy{src: src, col: types.ColTitle, asc: true, dirty: true}
	p.unsub = src.Subscribe(func(Event) { p.Invalidate() })
	return p
}

// Close detaches the proxy from its catalog
func (p *Proxy) Close() {
	p.unsub()
}

// SetSort orders rows by col, comparing text case-insensitively
func (p *Proxy) SetSort(col types.Column, ascending bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.col, p.asc, p.dirty = col, ascending, true
}

// Sort returns the current sort column and direction
func (p *Proxy) Sort() (types.Column, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.col, p.asc
}

// SetFilter keeps only games whose title, ID or file name contains text
func (p *Proxy) SetFilter(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.filter, p.dirty = strings.ToLower(strings.TrimSpace(text)), true
}

// Invalidate forces the row order to be rebuilt on next access
func (p *Proxy) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dirty = true
}

// Len returns the number of visible rows
func (p *Proxy) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rebuild()
	return len(p.rows)
}

// MapToSource converts a visible row to its catalog row
func (p *Proxy) MapToSource(row int) (int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rebuild()
	if row < 0 || row >= len(p.rows) {
		return -1, false
	}
	return p.rows[row], true
}

// MapFromSource converts a catalog row to its visible row
func (p *Proxy) MapFromSource(source int) (int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rebuild()
	for i, r := range p.rows {
		if r == source {
			return i, true
		}
	}
	return -1, false
}

// Game returns the game shown at a visible row
func (p *Proxy) Game(row int) *game.File {
	source, ok := p.MapToSource(row)
	if !ok {
		return nil
	}
	return p.src.Game(source)
}

func (p *Proxy) rebuild() {
	if !p.dirty {
		return
	}
	games := p.src.Games()
	rows := make([]int, 0, len(games))
	for i, g := range games {
		if p.matches(g) {
			rows = append(rows, i)
		}
	}

	col, asc := p.col, p.asc
	sort.SliceStable(rows, func(i, j int) bool {
		c := compare(games[rows[i]], games[rows[j]], col)
		if !asc {
			c = -c
		}
		return c < 0
	})

	p.rows = rows
	p.dirty = false
}

func (p *Proxy) matches(g *game.File) bool {
	if p.filter == "" {
		return true
	}
	for _, s := range []string{g.Title(), g.GameID, g.FileName()} {
		if strings.Contains(strings.ToLower(s), p.filter) {
			return true
		}
	}
	return false
}

func compare(a, b *game.File, col types.Column) int {
	switch col {
	case types.ColPlatform:
		return compareInt(int64(a.Platform), int64(b.Platform))
	case types.ColSize:
		return compareInt(a.Size, b.Size)
	case types.ColMaker:
		return compareText(a.MakerID, b.MakerID)
	case types.ColID:
		return compareText(a.GameID, b.GameID)
	case types.ColCountry:
		return compareText(a.Country(), b.Country())
	case types.ColTitle, types.ColDescription:
		return compareText(a.Title(), b.Title())
	}
	// Banner and rating carry no sortable data
	return compareText(a.Title(), b.Title())
}

func compareText(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

func compareInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
