package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventType describes the nature of a store change notification.
type EventType int

const (
	// EventDocumentChanged indicates the document with the given id was
	// written or removed.
	EventDocumentChanged EventType = iota

	// EventStoreInvalidated signals a change that could not be tied to one
	// document; callers should reload everything they show.
	EventStoreInvalidated
)

// Event is emitted by Watch when underlying storage changes.
type Event struct {
	Type EventType
	ID   string
}

// Watcher is implemented by backends that can report changes made by other
// processes.
type Watcher interface {
	Watch(ctx context.Context) (<-chan Event, error)
}

// Watch streams change events until ctx is cancelled. Callers should drain the
// returned channel; events are dropped rather than blocking the watcher. The
// channel is closed once ctx is done or the watcher fails.
func (s *DiskvStore) Watch(ctx context.Context) (<-chan Event, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("store: create watcher: %w", err)
	}
	var closeOnce sync.Once
	closeWatcher := func() {
		closeOnce.Do(func() {
			if err := watcher.Close(); err != nil {
				s.logger.Warn("watcher close", "error", err)
			}
		})
	}

	dirs, err := collectDirs(s.basePath)
	if err != nil {
		closeWatcher()
		return nil, fmt.Errorf("store: enumerate directories: %w", err)
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			closeWatcher()
			return nil, fmt.Errorf("store: watch %s: %w", dir, err)
		}
	}

	events := make(chan Event, 64)

	var (
		sendMu sync.Mutex
		closed bool
	)
	go func() {
		defer func() {
			sendMu.Lock()
			closed = true
			close(events)
			sendMu.Unlock()
		}()
		defer closeWatcher()

		watched := make(map[string]struct{}, len(dirs))
		for _, dir := range dirs {
			watched[dir] = struct{}{}
		}

		send := func(ev Event) {
			sendMu.Lock()
			defer sendMu.Unlock()
			if closed {
				return
			}
			select {
			case events <- ev:
			default:
			}
		}

		throttle := newEventThrottle(100 * time.Millisecond)
		defer throttle.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Debug("watcher error", "error", err)
				throttle.Enqueue(Event{Type: EventStoreInvalidated}, send)
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}

				if evt.Op&fsnotify.Create == fsnotify.Create {
					// New shard directory: watch it too so writes inside are seen.
					if info, err := os.Stat(evt.Name); err == nil && info.IsDir() {
						dir := filepath.Clean(evt.Name)
						if _, found := watched[dir]; !found {
							if err := watcher.Add(dir); err != nil {
								s.logger.Warn("watch directory", "dir", dir, "error", err)
								throttle.Enqueue(Event{Type: EventStoreInvalidated}, send)
								continue
							}
							watched[dir] = struct{}{}
						}
						// Files written before the watch was added produce no events.
						s.enqueueDir(dir, throttle, send)
						continue
					}
				}

				id := s.idForPath(evt.Name)
				if id == "" {
					throttle.Enqueue(Event{Type: EventStoreInvalidated}, send)
					continue
				}
				throttle.Enqueue(Event{Type: EventDocumentChanged, ID: id}, send)
			}
		}
	}()

	return events, nil
}

// enqueueDir reports every document already present in dir.
func (s *DiskvStore) enqueueDir(dir string, throttle *eventThrottle, send func(Event)) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		s.logger.Debug("read directory", "dir", dir, "error", err)
		throttle.Enqueue(Event{Type: EventStoreInvalidated}, send)
		return
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if id := s.idForPath(filepath.Join(dir, e.Name())); id != "" {
			throttle.Enqueue(Event{Type: EventDocumentChanged, ID: id}, send)
		}
	}
}

// collectDirs walks base and returns all directories that should be watched.
func collectDirs(base string) ([]string, error) {
	dirs := []string{base}
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() && path != base {
			dirs = append(dirs, path)
		}
		return nil
	})
	return dirs, err
}

// idForPath maps a file below the base path back to its document id.
func (s *DiskvStore) idForPath(path string) string {
	rel, err := filepath.Rel(s.basePath, path)
	if err != nil || rel == "." {
		return ""
	}
	dir, file := filepath.Split(rel)
	if filepath.Clean(dir) == "." || file == "" {
		return ""
	}
	if shard(file) != filepath.Base(filepath.Clean(dir)) {
		return ""
	}
	return file
}

// eventThrottle coalesces bursts of notifications into one event per id.
type eventThrottle struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending map[EventType]map[string]struct{}
	delay   time.Duration
}

func newEventThrottle(delay time.Duration) *eventThrottle {
	return &eventThrottle{
		delay:   delay,
		pending: make(map[EventType]map[string]struct{}),
	}
}

func (t *eventThrottle) Enqueue(ev Event, send func(Event)) {
	t.mu.Lock()
	if t.pending[ev.Type] == nil {
		t.pending[ev.Type] = make(map[string]struct{})
	}
	t.pending[ev.Type][ev.ID] = struct{}{}

	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, func() {
			t.flush(send)
		})
	}
	t.mu.Unlock()
}

func (t *eventThrottle) flush(send func(Event)) {
	t.mu.Lock()
	pending := t.pending
	t.pending = make(map[EventType]map[string]struct{})
	t.timer = nil
	t.mu.Unlock()

	for eventType, ids := range pending {
		if eventType == EventStoreInvalidated {
			send(Event{Type: eventType})
			continue
		}
		for id := range ids {
			send(Event{Type: eventType, ID: id})
		}
	}
}

func (t *eventThrottle) Stop() {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()
}
