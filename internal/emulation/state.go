// Package emulation tracks whether a game is running and launches games in
// the configured emulator.
package emulation

import (
	"sync"
)

// State publishes emulation start and stop to subscribers
type State struct {
	mu        sync.Mutex
	running   bool
	listeners []listener
	nextID    int
}

type listener struct {
	id int
	fn func(running bool)
}

// NewState creates a stopped state
func NewState() *State {
	return &State{}
}

// IsRunning reports whether a game is running
func (s *State) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// SetRunning records a start or stop. Subscribers are only told about
// actual changes, outside the lock.
func (s *State) SetRunning(running bool) {
	s.mu.Lock()
	if s.running == running {
		s.mu.Unlock()
		return
	}
	s.running = running
	listeners := s.listeners
	s.mu.Unlock()

	for _, l := range listeners {
		l.fn(running)
	}
}

// Subscribe registers fn for start and stop events and returns a function
// that unregisters it.
func (s *State) Subscribe(fn func(running bool)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners = append(s.listeners, listener{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, l := range s.listeners {
				if l.id == id {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// Subscribers returns the number of registered listeners
func (s *State) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.listeners)
}
