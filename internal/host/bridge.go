// Package host connects the session to the outside world: persisted
// settings, user notices and the host events (directory chosen, file
// chosen, save requested).
package host

import (
	"path/filepath"

	"github.com/phravins/notepane/internal/debug"
	"github.com/phravins/notepane/internal/session"
	"github.com/phravins/notepane/internal/settings"
	"github.com/phravins/notepane/pkg/utils"
)

const defaultNoticeBuffer = 32

// Reader reads a file the user picked outside the listing.
type Reader interface {
	Read(path string) (string, error)
}

// Bridge implements session.Host and turns host events into session ops.
// Attach must be called with the worker before any On* method is used.
type Bridge struct {
	settings settings.Store
	reader   Reader
	notices  chan session.Notice
	worker   *session.Worker
}

// New creates a bridge. buffer sizes the notice channel; notices sent while
// it is full are dropped.
func New(st settings.Store, reader Reader, buffer int) *Bridge {
	if buffer <= 0 {
		buffer = defaultNoticeBuffer
	}
	return &Bridge{
		settings: st,
		reader:   reader,
		notices:  make(chan session.Notice, buffer),
	}
}

// Attach sets the worker that host events are submitted to.
func (b *Bridge) Attach(w *session.Worker) {
	b.worker = w
}

// Notices delivers the notices produced by the session.
func (b *Bridge) Notices() <-chan session.Notice {
	return b.notices
}

// LastDirectory returns the remembered directory, or "" if none.
func (b *Bridge) LastDirectory() string {
	dir, ok, err := b.settings.Get(settings.LastDirectoryKey)
	if err != nil {
		debug.Log(debug.APP, "host: reading last directory: %v", err)
		return ""
	}
	if !ok {
		return ""
	}
	return dir
}

// RememberDirectory persists dir as the last chosen directory.
func (b *Bridge) RememberDirectory(dir string) error {
	debug.Log(debug.APP, "host: remember directory %q", dir)
	return b.settings.Set(settings.LastDirectoryKey, dir)
}

// Notify never blocks; the session calls it while holding its lock.
func (b *Bridge) Notify(n session.Notice) {
	debug.Log(debug.APP, "notice [%s] %s", n.Level, n)
	select {
	case b.notices <- n:
	default:
		debug.Log(debug.APP, "notice dropped, channel full: %s", n)
	}
}

// Start opens override if given, otherwise the remembered directory. It
// returns nil when there is nothing to open.
func (b *Bridge) Start(override string) <-chan session.Result {
	dir := override
	if dir == "" {
		dir = b.LastDirectory()
		if dir != "" && !utils.DirExists(dir) {
			debug.Log(debug.APP, "host: remembered directory %q is gone", dir)
			return nil
		}
	}
	if dir == "" {
		return nil
	}
	return b.OnDirectoryChosen(dir)
}

// OnDirectoryChosen handles the user picking a directory.
func (b *Bridge) OnDirectoryChosen(dir string) <-chan session.Result {
	dir = utils.AbsPath(dir)
	return b.worker.Submit(func(s *session.Session) error {
		s.OnDirectoryChosen(dir)
		return nil
	})
}

// OnFileChosen handles the user opening a single file. The read happens on
// the worker so it is ordered after any pending flush of the same file.
func (b *Bridge) OnFileChosen(path string) <-chan session.Result {
	path = utils.AbsPath(path)
	return b.worker.Submit(func(s *session.Session) error {
		text, err := b.reader.Read(path)
		if err != nil {
			b.Notify(session.Notice{
				Level:   session.LevelError,
				Message: "could not open " + filepath.Base(path),
				Err:     err,
			})
			return err
		}
		s.OnFileChosen(path, text)
		return nil
	})
}

// OnSaveRequested handles the user asking to save.
func (b *Bridge) OnSaveRequested() <-chan session.Result {
	return b.worker.Submit(func(s *session.Session) error {
		s.OnSaveRequested()
		return nil
	})
}
