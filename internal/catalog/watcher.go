package catalog

import (
	"fmt"
	"os"
	"sync"
	"time"

	"gamelist/internal/log"

	"github.com/fsnotify/fsnotify"
)

// FileChange represents a file event detected by the watcher
type FileChange struct {
	Path    string
	Removed bool
	// Dir marks a directory created under a watched one
	Dir       bool
	Timestamp time.Time
	Op        fsnotify.Op
}

// Watcher monitors game directories for files appearing and disappearing
type Watcher struct {
	// Directories being watched
	directories []string

	// Channel to receive file changes
	changes chan FileChange

	// Channel to signal stop, and the loop's exit
	stopChan chan struct{}
	done     chan struct{}

	// fsnotify watcher instance
	fsWatcher *fsnotify.Watcher

	// Reports whether a path is worth an event
	filter func(path string) bool

	mutex   sync.RWMutex
	running bool
}

// NewWatcher creates a directory watcher. Events are only sent for paths
// filter accepts; a nil filter accepts everything.
func NewWatcher(filter func(path string) bool) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if filter == nil {
		filter = func(string) bool { return true }
	}

	return &Watcher{
		directories: []string{},
		changes:     make(chan FileChange, 64),
		stopChan:    make(chan struct{}),
		fsWatcher:   fsWatcher,
		filter:      filter,
	}, nil
}

// AddDirectory starts watching dir
func (w *Watcher) AddDirectory(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("error accessing directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	if err := w.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("failed to add directory %s to watcher: %w", dir, err)
	}

	w.mutex.Lock()
	found := false
	for _, existing := range w.directories {
		if existing == dir {
			found = true
			break
		}
	}
	if !found {
		w.directories = append(w.directories, dir)
	}
	w.mutex.Unlock()
	log.LogWithFields(log.F("directory", dir)).Info("Watching directory")
	return nil
}

// RemoveDirectory stops watching dir
func (w *Watcher) RemoveDirectory(dir string) {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	for i, existing := range w.directories {
		if existing == dir {
			w.directories = append(w.directories[:i], w.directories[i+1:]...)
			if err := w.fsWatcher.Remove(dir); err != nil {
				log.LogWithFields(log.F("directory", dir)).Debugf("remove watch: %v", err)
			}
			return
		}
	}
}

// Changes returns the channel that delivers file changes
func (w *Watcher) Changes() <-chan FileChange {
	return w.changes
}

// Start begins delivering events
func (w *Watcher) Start() error {
	w.mutex.Lock()
	if w.running {
		w.mutex.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.stopChan = make(chan struct{})
	w.done = make(chan struct{})
	stop, done := w.stopChan, w.done
	w.mutex.Unlock()

	go w.loop(stop, done)
	log.Debug("Watcher started.")
	return nil
}

func (w *Watcher) loop(stop, done chan struct{}) {
	defer close(done)
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			change, ok := w.translate(event)
			if !ok {
				continue
			}
			// Send without blocking so a slow consumer cannot stall fsnotify
			select {
			case w.changes <- change:
			default:
				log.LogWithFields(log.F("file", event.Name)).Warn("Event channel is full, dropped event")
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.LogWithFields(log.F("error", err)).Error("fsnotify watcher error")

		case <-stop:
			return
		}
	}
}

// translate turns an fsnotify event into a change. Renames count as removals;
// the new name arrives as its own create event. Created directories are
// reported whatever the filter says.
func (w *Watcher) translate(event fsnotify.Event) (FileChange, bool) {
	change := FileChange{Path: event.Name, Timestamp: time.Now(), Op: event.Op}
	switch {
	case event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename):
		if !w.filter(event.Name) {
			return FileChange{}, false
		}
		change.Removed = true
		return change, true
	case event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Write):
		info, err := os.Stat(event.Name)
		if err != nil {
			// File might have been quickly deleted after the event
			if !os.IsNotExist(err) {
				log.LogWithFields(log.F("file", event.Name), log.F("error", err)).Error("Error stating file")
			}
			return FileChange{}, false
		}
		if info.IsDir() {
			change.Dir = true
			return change, event.Op.Has(fsnotify.Create)
		}
		if !w.filter(event.Name) {
			return FileChange{}, false
		}
		return change, true
	}
	return FileChange{}, false
}

// Stop halts the watcher and closes the change channel
func (w *Watcher) Stop() {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if !w.running {
		return
	}

	close(w.stopChan)
	if err := w.fsWatcher.Close(); err != nil {
		log.LogWithFields(log.F("error", err)).Error("Error closing fsnotify watcher")
	}
	<-w.done
	w.running = false
	close(w.changes)
	log.Debug("Watcher stopped.")
}

// IsRunning returns whether the watcher is currently active
func (w *Watcher) IsRunning() bool {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return w.running
}

// Directories returns the list of directories being watched
func (w *Watcher) Directories() []string {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return append([]string(nil), w.directories...)
}
