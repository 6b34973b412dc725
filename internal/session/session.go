// Package session tracks the open note directory, the active note and its
// unsaved edits, and decides when those edits reach the disk.
//
// The session is always in exactly one of four states:
//
//	Empty            no directory chosen yet
//	DirectoryLoaded  directory scanned, no recognized files in it
//	Editing          a listing entry is loaded into the buffer
//	Detached         a buffer opened from outside the directory workflow
//
// Every transition that drops the current buffer first tries to flush it.
// Flush failures are reported through Host.Notify and never block the
// transition.
package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/phravins/notepane/internal/debug"
	"github.com/phravins/notepane/internal/notes"
)

// Phase names the state the session is in.
type Phase int

const (
	PhaseEmpty Phase = iota
	PhaseDirectoryLoaded
	PhaseEditing
	PhaseDetached
)

func (p Phase) String() string {
	switch p {
	case PhaseEmpty:
		return "empty"
	case PhaseDirectoryLoaded:
		return "directory-loaded"
	case PhaseEditing:
		return "editing"
	case PhaseDetached:
		return "detached"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

var (
	// ErrIndexOutOfRange is a caller bug: the index is outside the listing.
	ErrIndexOutOfRange = errors.New("file index out of range")
	// ErrNoActiveFile is returned by Edit and Save when nothing is loaded.
	ErrNoActiveFile = errors.New("no file is open")
	// ErrNoTarget is returned by Save for a detached buffer without a path.
	ErrNoTarget = errors.New("buffer has no file to save to")
)

// Scanner produces the listing for a directory.
type Scanner interface {
	Scan(dir string) (notes.Listing, error)
}

// Store reads and writes whole files.
type Store interface {
	Read(path string) (string, error)
	Write(path, text string) error
}

// Host is the surrounding application: it persists the chosen directory
// and shows notices to the user.
type Host interface {
	RememberDirectory(dir string) error
	Notify(n Notice)
}

// Level is the severity of a Notice.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Notice is a user visible message produced by the session.
type Notice struct {
	Level   Level
	Message string
	Err     error
}

func (n Notice) String() string {
	if n.Err != nil {
		return n.Message + ": " + n.Err.Error()
	}
	return n.Message
}

// state is implemented by exactly the four state structs below.
type state interface {
	phase() Phase
}

type emptyState struct{}

type loadedState struct {
	dir     string
	listing notes.Listing // always empty
}

type editingState struct {
	dir     string
	listing notes.Listing
	active  int
	buffer  string
	saved   string // content on disk as of the last load or successful save
}

type detachedState struct {
	dir     string        // directory kept underneath, may be empty
	listing notes.Listing // listing kept underneath; nothing in it is active
	path    string        // file the buffer came from, may be empty
	buffer  string
	saved   string
	removed bool // path vanished from disk; a flush recreates it
}

func (emptyState) phase() Phase    { return PhaseEmpty }
func (loadedState) phase() Phase   { return PhaseDirectoryLoaded }
func (editingState) phase() Phase  { return PhaseEditing }
func (detachedState) phase() Phase { return PhaseDetached }

// Snapshot is a read-only view of the session for presentation.
// Listing is shared with the session and must not be modified.
type Snapshot struct {
	Phase       Phase
	Directory   string
	Listing     notes.Listing
	ActiveIndex int // -1 when no listing entry is active
	Path        string
	Buffer      string
	Dirty       bool
}

// HasDirectory reports whether a directory is open.
func (s Snapshot) HasDirectory() bool {
	return s.Directory != ""
}

// Active returns the active descriptor, if any.
func (s Snapshot) Active() (notes.Descriptor, bool) {
	if s.ActiveIndex < 0 || s.ActiveIndex >= len(s.Listing) {
		return notes.Descriptor{}, false
	}
	return s.Listing[s.ActiveIndex], true
}

// Session is the editor state. Methods are safe to call from several
// goroutines, but callers that need event ordering should go through a Worker.
type Session struct {
	mu      sync.Mutex
	st      state
	scanner Scanner
	store   Store
	host    Host
}

// New creates a session in the Empty state.
func New(scanner Scanner, store Store, host Host) *Session {
	if host == nil {
		host = nopHost{}
	}
	return &Session{
		st:      emptyState{},
		scanner: scanner,
		store:   store,
		host:    host,
	}
}

// Snapshot returns the current state for rendering.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{Phase: s.st.phase(), ActiveIndex: -1}
	switch st := s.st.(type) {
	case loadedState:
		snap.Directory = st.dir
		snap.Listing = st.listing
	case editingState:
		snap.Directory = st.dir
		snap.Listing = st.listing
		snap.ActiveIndex = st.active
		snap.Path = st.listing[st.active].Path
		snap.Buffer = st.buffer
		snap.Dirty = st.buffer != st.saved
	case detachedState:
		snap.Directory = st.dir
		snap.Listing = st.listing
		snap.Path = st.path
		snap.Buffer = st.buffer
		snap.Dirty = st.buffer != st.saved
	}
	return snap
}

// Check verifies the invariants of the current state.
func (s *Session) Check() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkLocked()
}

func (s *Session) checkLocked() error {
	switch st := s.st.(type) {
	case emptyState:
		return nil
	case loadedState:
		if st.dir == "" {
			return errors.New("directory-loaded without a directory")
		}
		if len(st.listing) != 0 {
			return fmt.Errorf("directory-loaded with %d files and none active", len(st.listing))
		}
	case editingState:
		if st.dir == "" {
			return errors.New("editing without a directory")
		}
		if st.active < 0 || st.active >= len(st.listing) {
			return fmt.Errorf("active index %d outside listing of %d", st.active, len(st.listing))
		}
	case detachedState:
		if st.dir == "" && len(st.listing) != 0 {
			return errors.New("detached listing without a directory")
		}
	default:
		return fmt.Errorf("unknown state %T", s.st)
	}
	return nil
}

// setLocked installs the next state and logs loudly if it is inconsistent.
func (s *Session) setLocked(next state) {
	prev := s.st.phase()
	s.st = next
	if err := s.checkLocked(); err != nil {
		debug.Log(debug.SESSION, "INVARIANT VIOLATION after %s -> %s: %v", prev, next.phase(), err)
	}
	debug.Log(debug.SESSION, "state %s -> %s", prev, next.phase())
}

func (s *Session) notify(level Level, msg string, err error) {
	n := Notice{Level: level, Message: msg, Err: err}
	debug.Log(debug.SESSION, "notice [%s] %s", level, n)
	s.host.Notify(n)
}

type nopHost struct{}

func (nopHost) RememberDirectory(string) error { return nil }
func (nopHost) Notify(Notice)                  {}
