package catalog

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gamelist/internal/log"
)

// Library keeps a Catalog in sync with a set of game directories: adding a
// directory scans it, and the watcher keeps it current afterwards.
type Library struct {
	catalog   *Catalog
	scanner   *Scanner
	inspector Inspector
	watcher   *Watcher

	mu    sync.Mutex
	roots map[string][]string // root -> directories watched for it
}

// NewLibrary ties a catalog to a scanner. watcher may be nil, in which case
// directories are only scanned once.
func NewLibrary(catalog *Catalog, scanner *Scanner, inspector Inspector, watcher *Watcher) *Library {
	return &Library{
		catalog:   catalog,
		scanner:   scanner,
		inspector: inspector,
		watcher:   watcher,
		roots:     make(map[string][]string),
	}
}

// Catalog returns the catalog the library fills
func (l *Library) Catalog() *Catalog {
	return l.catalog
}

// AddDirectory scans dir into the catalog and starts watching it
func (l *Library) AddDirectory(ctx context.Context, dir string) error {
	root := filepath.Clean(dir)
	res, err := l.scanner.Scan(ctx, root)
	if err != nil {
		return err
	}

	for _, f := range res.Games {
		l.catalog.Add(f)
	}

	if l.watcher != nil {
		for _, d := range res.Dirs {
			if err := l.watcher.AddDirectory(d); err != nil {
				log.LogWithFields(log.F("directory", d)).Warnf("cannot watch directory: %v", err)
			}
		}
	}

	l.mu.Lock()
	l.roots[root] = res.Dirs
	l.mu.Unlock()
	return nil
}

// RemoveDirectory drops every game under dir and stops watching it
func (l *Library) RemoveDirectory(dir string) {
	root := filepath.Clean(dir)

	l.mu.Lock()
	watched := l.roots[root]
	delete(l.roots, root)
	l.mu.Unlock()

	if l.watcher != nil {
		for _, d := range watched {
			if !l.coveredByOtherRoot(d) {
				l.watcher.RemoveDirectory(d)
			}
		}
	}

	for _, g := range l.catalog.Games() {
		if within(root, g.Path) && !l.coveredByOtherRoot(filepath.Dir(g.Path)) {
			l.catalog.RemoveGame(g.Path)
			l.forget(g.Path)
		}
	}
	log.LogWithFields(log.F("directory", root)).Info("Removed game directory")
}

// Directories returns the scanned roots
func (l *Library) Directories() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	dirs := make([]string, 0, len(l.roots))
	for d := range l.roots {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)
	return dirs
}

// Run applies watcher changes to the catalog until ctx ends or the watcher stops
func (l *Library) Run(ctx context.Context) {
	if l.watcher == nil {
		return
	}
	changes := l.watcher.Changes()
	for {
		select {
		case <-ctx.Done():
			return
		case change, ok := <-changes:
			if !ok {
				return
			}
			l.Apply(change)
		}
	}
}

// Apply updates the catalog for one file change. A directory created under
// a recursive root is scanned and watched like the root itself.
func (l *Library) Apply(change FileChange) {
	if change.Dir {
		if !change.Removed && l.scanner.Recursive() {
			l.addSubdirectory(change.Path)
		}
		return
	}
	if !l.scanner.Match(change.Path) {
		return
	}
	l.forget(change.Path)
	if change.Removed {
		l.catalog.RemoveGame(change.Path)
		return
	}
	f, err := l.inspector.Inspect(change.Path)
	if err != nil {
		log.LogWithError(err).Debug("ignoring changed file")
		return
	}
	l.catalog.Add(f)
}

func (l *Library) addSubdirectory(dir string) {
	dir = filepath.Clean(dir)
	l.mu.Lock()
	root := ""
	for r := range l.roots {
		if within(r, dir) && len(r) > len(root) {
			root = r
		}
	}
	l.mu.Unlock()
	if root == "" {
		return
	}

	logger := log.LogWithFields(log.F("directory", dir))
	res, err := l.scanner.Scan(context.Background(), dir)
	if err != nil {
		logger.Warnf("cannot scan new directory: %v", err)
		return
	}
	if l.watcher != nil {
		for _, d := range res.Dirs {
			if err := l.watcher.AddDirectory(d); err != nil {
				logger.Warnf("cannot watch directory: %v", err)
			}
		}
	}
	for _, f := range res.Games {
		l.catalog.Add(f)
	}

	l.mu.Lock()
	if _, ok := l.roots[root]; ok {
		l.roots[root] = append(l.roots[root], res.Dirs...)
	}
	l.mu.Unlock()
}

// Close stops the watcher
func (l *Library) Close() {
	if l.watcher != nil {
		l.watcher.Stop()
	}
}

func (l *Library) forget(path string) {
	if f, ok := l.inspector.(interface{ Forget(string) }); ok {
		f.Forget(path)
	}
}

func (l *Library) coveredByOtherRoot(dir string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, dirs := range l.roots {
		for _, d := range dirs {
			if d == dir {
				return true
			}
		}
	}
	return false
}

func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
