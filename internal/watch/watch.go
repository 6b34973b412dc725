// Package watch reports changes to the notes in the open directory.
package watch

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/phravins/notepane/internal/debug"
	"github.com/phravins/notepane/internal/notes"
)

const defaultDebounce = 300 * time.Millisecond

// DirectoryWatcher watches one directory at a time and sends its path on
// Changes once events on recognized notes have been quiet for the debounce
// interval.
type DirectoryWatcher struct {
	watcher  *fsnotify.Watcher
	mu       sync.Mutex
	dir      string
	changes  chan string
	done     chan struct{}
	once     sync.Once
	debounce time.Duration
}

// New starts a watcher. A non-positive debounce selects the default.
func New(debounce time.Duration) (*DirectoryWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	dw := &DirectoryWatcher{
		watcher:  w,
		changes:  make(chan string, 1),
		done:     make(chan struct{}),
		debounce: debounce,
	}
	go dw.run()
	return dw, nil
}

func (dw *DirectoryWatcher) run() {
	var (
		pending   bool
		lastEvent time.Time
	)
	tick := dw.debounce / 4
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-dw.done:
			return

		case event, ok := <-dw.watcher.Events:
			if !ok {
				return
			}
			if !relevant(event) {
				continue
			}
			dw.mu.Lock()
			watched := dw.dir
			dw.mu.Unlock()
			if filepath.Dir(event.Name) != watched {
				continue
			}
			pending = true
			lastEvent = time.Now()
			debug.Log(debug.WATCH, "event %s on %s", event.Op, event.Name)

		case err, ok := <-dw.watcher.Errors:
			if !ok {
				return
			}
			debug.Log(debug.WATCH, "fsnotify error: %v", err)

		case now := <-ticker.C:
			if !pending || now.Sub(lastEvent) < dw.debounce {
				continue
			}
			pending = false
			dw.mu.Lock()
			dir := dw.dir
			dw.mu.Unlock()
			if dir == "" {
				continue
			}
			select {
			case dw.changes <- dir:
				debug.Log(debug.WATCH, "change notification for %s", dir)
			default:
				// A notification is already queued; one refresh covers both.
			}
		}
	}
}

func relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) &&
		!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Write) {
		return false
	}
	return notes.IsRecognized(filepath.Base(event.Name))
}

// Watch switches the watcher to dir. Watching the current directory again
// is a no-op.
func (dw *DirectoryWatcher) Watch(dir string) error {
	dir = filepath.Clean(dir)

	dw.mu.Lock()
	defer dw.mu.Unlock()
	if dw.dir == dir {
		return nil
	}
	if dw.dir != "" {
		if err := dw.watcher.Remove(dw.dir); err != nil {
			// The old directory may already be gone.
			debug.Log(debug.WATCH, "unwatch %s: %v", dw.dir, err)
		}
		dw.dir = ""
	}
	if err := dw.watcher.Add(dir); err != nil {
		return err
	}
	dw.dir = dir
	debug.Log(debug.WATCH, "watching %s", dir)
	return nil
}

// Dir returns the directory being watched, or "".
func (dw *DirectoryWatcher) Dir() string {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	return dw.dir
}

// Changes delivers the watched directory after it changed.
func (dw *DirectoryWatcher) Changes() <-chan string {
	return dw.changes
}

// Close stops the watcher. It is safe to call more than once.
func (dw *DirectoryWatcher) Close() error {
	var err error
	dw.once.Do(func() {
		close(dw.done)
		err = dw.watcher.Close()
	})
	return err
}
