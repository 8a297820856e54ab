// Package watcher finds session files and reports changes to them.
package watcher

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventType represents the type of file system event.
type EventType int

// Event types for session file changes.
const (
	EventSessionFileChanged EventType = iota
	EventSessionFileCreated
)

func (t EventType) String() string {
	switch t {
	case EventSessionFileCreated:
		return "created"
	default:
		return "changed"
	}
}

// Event represents a debounced change to one session file.
type Event struct {
	Type      EventType
	AgentID   string
	SessionID string
	Path      string
}

// Options configures a Watcher.
type Options struct {
	Root        string
	SessionsDir string
	Extension   string
	Debounce    time.Duration
}

// Watcher watches every agent's sessions directory under Root.
// Agent directories created after Start are not picked up.
type Watcher struct {
	opts       Options
	fsWatcher  *fsnotify.Watcher
	eventsChan chan Event
	done       chan struct{}
	stopOnce   sync.Once
	mu         sync.RWMutex
	dirs       map[string]bool
	debounce   map[string]*time.Timer
	pending    map[string]fsnotify.Op
	debounceMu sync.Mutex
}

// New creates a new file system watcher.
func New(opts Options) (*Watcher, error) {
	if opts.Debounce <= 0 {
		opts.Debounce = 100 * time.Millisecond
	}
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		opts:       opts,
		fsWatcher:  fsWatcher,
		eventsChan: make(chan Event, 100),
		done:       make(chan struct{}),
		dirs:       make(map[string]bool),
		debounce:   make(map[string]*time.Timer),
		pending:    make(map[string]fsnotify.Op),
	}, nil
}

// Events returns the channel for receiving events.
func (w *Watcher) Events() <-chan Event {
	return w.eventsChan
}

// Start registers a watch on each sessions directory that currently exists
// and starts processing events.
func (w *Watcher) Start() error {
	dirs, err := SessionDirs(w.opts.Root, w.opts.SessionsDir)
	if err != nil {
		return err
	}
	for _, dir := range dirs {
		if err := w.watchDir(dir); err != nil {
			log.Printf("[watcher] Warning: failed to watch %s: %v", dir, err)
		}
	}
	if len(dirs) == 0 {
		log.Printf("[watcher] No session directories under %s", w.opts.Root)
	}

	go w.processEvents()
	return nil
}

// Stop stops the watcher. Pending debounced events are discarded.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		_ = w.fsWatcher.Close()

		w.debounceMu.Lock()
		for path, timer := range w.debounce {
			timer.Stop()
			delete(w.debounce, path)
			delete(w.pending, path)
		}
		w.debounceMu.Unlock()
	})
}

// Dirs returns the watched directories.
func (w *Watcher) Dirs() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]string, 0, len(w.dirs))
	for dir := range w.dirs {
		out = append(out, dir)
	}
	return out
}

func (w *Watcher) watchDir(dir string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.dirs[dir] {
		return nil
	}
	if err := w.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w.dirs[dir] = true
	log.Printf("[watcher] Watching %s", dir)
	return nil
}

// processEvents processes file system events.
func (w *Watcher) processEvents() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.Printf("[watcher] error: %v", err)
		}
	}
}

// handleEvent filters and debounces a single file system event.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	// Rename covers writers that replace the file atomically.
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return
	}
	if !strings.HasSuffix(event.Name, w.opts.Extension) {
		return
	}

	w.debounceEvent(event.Name, event.Op, func(op fsnotify.Op) {
		w.emit(event.Name, op)
	})
}

// debounceEvent collapses bursts of events for the same path into one call.
// Ops seen during the burst are merged so a create is not lost behind the
// writes that follow it.
func (w *Watcher) debounceEvent(path string, op fsnotify.Op, fn func(fsnotify.Op)) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	select {
	case <-w.done:
		return
	default:
	}

	w.pending[path] |= op
	if timer, ok := w.debounce[path]; ok {
		timer.Stop()
	}

	w.debounce[path] = time.AfterFunc(w.opts.Debounce, func() {
		w.debounceMu.Lock()
		merged := w.pending[path]
		delete(w.debounce, path)
		delete(w.pending, path)
		w.debounceMu.Unlock()
		fn(merged)
	})
}

// emit sends a debounced event unless the watcher is stopping.
func (w *Watcher) emit(path string, op fsnotify.Op) {
	id := Identify(path, w.opts.Extension)
	ev := Event{
		Type:      EventSessionFileChanged,
		AgentID:   id.AgentID,
		SessionID: id.SessionID,
		Path:      path,
	}
	if op&fsnotify.Create != 0 {
		ev.Type = EventSessionFileCreated
	}

	select {
	case w.eventsChan <- ev:
	case <-w.done:
	}
}
