// Package catalog holds the list of known game files, keeps it in sync with
// the configured game directories, and provides sorted and filtered views
// over it.
package catalog

import (
	"sync"

	"gamelist/internal/game"
)

// EventKind is the kind of catalog change
type EventKind int

const (
	// Inserted reports a new row
	Inserted EventKind = iota
	// Removed reports a row that went away
	Removed
	// Changed reports a row whose metadata was refreshed in place
	Changed
)

func (k EventKind) String() string {
	switch k {
	case Inserted:
		return "inserted"
	case Removed:
		return "removed"
	case Changed:
		return "changed"
	}
	return "unknown"
}

// Event describes a single catalog change
type Event struct {
	Kind EventKind
	Path string
	Row  int
}

// Catalog is the ordered list of game files. Rows are the source indices
// that sorted views map back to.
type Catalog struct {
	mu        sync.RWMutex
	games     []*game.File
	index     map[string]int
	listeners []listener
	nextID    int
}

type listener struct {
	id int
	fn func(Event)
}

// New creates an empty catalog
func New() *Catalog {
	return &Catalog{
		index: make(map[string]int),
	}
}

// Count returns the number of rows
func (c *Catalog) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.games)
}

// Game returns the game at row, or nil when row is out of range
func (c *Catalog) Game(row int) *game.File {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if row < 0 || row >= len(c.games) {
		return nil
	}
	return c.games[row]
}

// PathAt returns the path of the game at row
func (c *Catalog) PathAt(row int) (string, bool) {
	if g := c.Game(row); g != nil {
		return g.Path, true
	}
	return "", false
}

// Lookup returns the game stored for path
func (c *Catalog) Lookup(path string) (*game.File, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	row, ok := c.index[path]
	if !ok {
		return nil, false
	}
	return c.games[row], true
}

// Games returns a snapshot of every row
func (c *Catalog) Games() []*game.File {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]*game.File(nil), c.games...)
}

// IndexOf returns the row holding path, or -1
func (c *Catalog) IndexOf(path string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if row, ok := c.index[path]; ok {
		return row
	}
	return -1
}

// Add appends f, or refreshes the row already holding f.Path.
// It reports whether a new row was inserted.
func (c *Catalog) Add(f *game.File) bool {
	c.mu.Lock()
	ev := Event{Path: f.Path}
	if row, ok := c.index[f.Path]; ok {
		c.games[row] = f
		ev.Kind, ev.Row = Changed, row
	} else {
		c.games = append(c.games, f)
		ev.Kind, ev.Row = Inserted, len(c.games)-1
		c.index[f.Path] = ev.Row
	}
	c.mu.Unlock()

	c.emit(ev)
	return ev.Kind == Inserted
}

// RemoveGame drops the row holding path. It reports whether a row was removed.
func (c *Catalog) RemoveGame(path string) bool {
	c.mu.Lock()
	row, ok := c.index[path]
	if !ok {
		c.mu.Unlock()
		return false
	}
	c.games = append(c.games[:row], c.games[row+1:]...)
	delete(c.index, path)
	for i := row; i < len(c.games); i++ {
		c.index[c.games[i].Path] = i
	}
	c.mu.Unlock()

	c.emit(Event{Kind: Removed, Path: path, Row: row})
	return true
}

// Subscribe registers fn for every change and returns a function that
// unregisters it. fn runs on the goroutine that made the change, with no
// catalog lock held.
func (c *Catalog) Subscribe(fn func(Event)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners = append(c.listeners, listener{id: id, fn: fn})
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			for i, l := range c.listeners {
				if l.id == id {
					c.listeners = append(c.listeners[:i:i], c.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

func (c *Catalog) emit(ev Event) {
	c.mu.RLock()
	listeners := c.listeners
	c.mu.RUnlock()

	for _, l := range listeners {
		l.fn(ev)
	}
}
