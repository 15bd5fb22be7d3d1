package config

import (
	"path/filepath"
	"sync"

	"gamelist/internal/log"
	"gamelist/pkg/types"
)

// PathListener is told about a game directory being added or removed
type PathListener func(dir string)

// Store wraps a Config with change notification and saves it back to disk
// after every change. A Store without a path keeps changes in memory.
type Store struct {
	mu        sync.RWMutex
	cfg       *Config
	path      string
	onAdded   []PathListener
	onRemoved []PathListener
}

// NewStore creates a settings store over cfg. path may be empty.
func NewStore(cfg *Config, path string) *Store {
	if cfg == nil {
		cfg = New()
	}
	return &Store{cfg: cfg, path: path}
}

// OpenStore loads the config file at path, or the default location when
// path is empty, and returns a store that saves back to it.
func OpenStore(path string) (*Store, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	cfg, err := LoadConfigFile(path)
	if err != nil {
		return nil, err
	}
	return NewStore(cfg, path), nil
}

// Config returns a copy of the current configuration
func (s *Store) Config() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return *s.cfg.clone()
}

// Path returns the file the store saves to
func (s *Store) Path() string {
	return s.path
}

func (s *Store) PreferTable() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Interface.PreferTable
}

func (s *Store) SetPreferTable(table bool) error {
	return s.update(func(c *Config) bool {
		if c.Interface.PreferTable == table {
			return false
		}
		c.Interface.PreferTable = table
		return true
	})
}

// DefaultDisc is the disc image booted when no game is chosen
func (s *Store) DefaultDisc() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Core.DefaultISO
}

func (s *Store) SetDefaultDisc(path string) error {
	return s.update(func(c *Config) bool {
		if c.Core.DefaultISO == path {
			return false
		}
		c.Core.DefaultISO = path
		return true
	})
}

func (s *Store) ColumnVisible(col types.Column) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.ColumnVisible(col)
}

func (s *Store) SetColumnVisible(col types.Column, visible bool) error {
	return s.update(func(c *Config) bool {
		if c.ColumnVisible(col) == visible {
			return false
		}
		c.SetColumnVisible(col, visible)
		return true
	})
}

// Paths returns the configured game directories
func (s *Store) Paths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.cfg.Paths.Games...)
}

// AddPath adds a game directory and notifies OnPathAdded listeners.
// Adding a directory already present does nothing.
func (s *Store) AddPath(dir string) error {
	dir = filepath.Clean(dir)
	added := false
	err := s.update(func(c *Config) bool {
		for _, p := range c.Paths.Games {
			if filepath.Clean(p) == dir {
				return false
			}
		}
		c.Paths.Games = append(c.Paths.Games, dir)
		added = true
		return true
	})
	if added && err == nil {
		s.notify(dir, true)
	}
	return err
}

// RemovePath removes a game directory and notifies OnPathRemoved listeners
func (s *Store) RemovePath(dir string) error {
	dir = filepath.Clean(dir)
	removed := false
	err := s.update(func(c *Config) bool {
		kept := c.Paths.Games[:0]
		for _, p := range c.Paths.Games {
			if filepath.Clean(p) == dir {
				removed = true
				continue
			}
			kept = append(kept, p)
		}
		c.Paths.Games = kept
		return removed
	})
	if removed && err == nil {
		s.notify(dir, false)
	}
	return err
}

func (s *Store) OnPathAdded(fn PathListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onAdded = append(s.onAdded, fn)
}

func (s *Store) OnPathRemoved(fn PathListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onRemoved = append(s.onRemoved, fn)
}

// notify runs listeners without the lock held so they may read the store
func (s *Store) notify(dir string, added bool) {
	s.mu.RLock()
	listeners := s.onRemoved
	if added {
		listeners = s.onAdded
	}
	listeners = append([]PathListener(nil), listeners...)
	s.mu.RUnlock()

	for _, fn := range listeners {
		fn(dir)
	}
}

// update applies change to a copy and keeps it only once it is saved
func (s *Store) update(change func(*Config) bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.cfg.clone()
	if !change(next) {
		return nil
	}
	if s.path != "" {
		if err := SaveConfig(next, s.path); err != nil {
			log.LogWithFields(log.F("path", s.path)).Errorf("failed to save settings: %v", err)
			return err
		}
	}
	s.cfg = next
	return nil
}

func (c *Config) clone() *Config {
	next := *c
	next.Paths.Games = append([]string(nil), c.Paths.Games...)
	next.Extensions = append([]string(nil), c.Extensions...)
	next.Core.EmulatorArgs = append([]string(nil), c.Core.EmulatorArgs...)
	return &next
}
