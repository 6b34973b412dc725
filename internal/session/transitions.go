package session

import (
	"fmt"
	"path/filepath"

	"github.com/phravins/notepane/internal/debug"
	"github.com/phravins/notepane/internal/notes"
)

// ChooseDirectory flushes the current buffer, scans dir and loads its first
// file. The transition is all-or-nothing: when the scan or the first read
// fails, the previous directory, listing and buffer stay in place.
func (s *Session) ChooseDirectory(dir string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir = filepath.Clean(dir)
	s.flushLocked("directory change")

	listing, err := s.scanner.Scan(dir)
	if err != nil {
		return fmt.Errorf("open directory: %w", err)
	}

	if len(listing) == 0 {
		s.setLocked(loadedState{dir: dir, listing: listing})
	} else {
		text, err := s.store.Read(listing[0].Path)
		if err != nil {
			return fmt.Errorf("open directory: %w", err)
		}
		s.setLocked(editingState{dir: dir, listing: listing, active: 0, buffer: text, saved: text})
	}

	if err := s.host.RememberDirectory(dir); err != nil {
		s.notify(LevelWarn, "could not remember directory", err)
	}
	return nil
}

// SelectFile makes listing[index] the active file. The previous buffer is
// flushed first; a failed flush is reported but the switch still happens.
// When reading the new file fails the session stays on the previous entry.
func (s *Session) SelectFile(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir, listing := s.attachedLocked()
	if index < 0 || index >= len(listing) {
		debug.Log(debug.SESSION, "BUG: SelectFile(%d) with %d files", index, len(listing))
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, index, len(listing))
	}
	if st, ok := s.st.(editingState); ok && st.active == index {
		return nil
	}

	s.flushLocked("file switch")

	text, err := s.store.Read(listing[index].Path)
	if err != nil {
		return fmt.Errorf("open %s: %w", listing[index].Name, err)
	}
	s.setLocked(editingState{dir: dir, listing: listing, active: index, buffer: text, saved: text})
	return nil
}

// Edit replaces the buffer. It never touches the disk.
func (s *Session) Edit(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch st := s.st.(type) {
	case editingState:
		st.buffer = text
		s.st = st
	case detachedState:
		st.buffer = text
		s.st = st
	default:
		return ErrNoActiveFile
	}
	return nil
}

// Save writes the buffer to the active file. Saving twice in a row writes
// the same content twice.
func (s *Session) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

func (s *Session) saveLocked() error {
	switch st := s.st.(type) {
	case editingState:
		if err := s.store.Write(st.listing[st.active].Path, st.buffer); err != nil {
			return err
		}
		st.saved = st.buffer
		s.st = st
	case detachedState:
		if st.path == "" {
			return ErrNoTarget
		}
		if err := s.store.Write(st.path, st.buffer); err != nil {
			return err
		}
		st.saved = st.buffer
		st.removed = false
		s.st = st
	default:
		return ErrNoActiveFile
	}
	return nil
}

// LoadSingleFile shows text that the host read from a file outside the
// directory workflow. If path belongs to the current listing the entry is
// selected as usual; otherwise the buffer is detached from the listing,
// which stays in place underneath.
func (s *Session) LoadSingleFile(path, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if path != "" {
		path = filepath.Clean(path)
	}
	// Reopening the detached file keeps the open buffer; the text the host
	// read may predate edits that are still unsaved.
	if st, ok := s.st.(detachedState); ok && path != "" && st.path == path {
		return nil
	}

	dir, listing := s.attachedLocked()

	if idx := listing.Index(path); path != "" && idx >= 0 {
		if st, ok := s.st.(editingState); ok && st.active == idx {
			return nil
		}
		s.flushLocked("file switch")
		s.setLocked(editingState{dir: dir, listing: listing, active: idx, buffer: text, saved: text})
		return nil
	}

	s.flushLocked("file open")
	s.setLocked(detachedState{dir: dir, listing: listing, path: path, buffer: text, saved: text})
	return nil
}

// Refresh rescans the current directory. The active file keeps its place
// in the new listing; if it disappeared from disk the buffer is detached so
// unsaved edits survive and can be saved back.
func (s *Session) Refresh() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir, _ := s.attachedLocked()
	if dir == "" {
		return nil
	}

	listing, err := s.scanner.Scan(dir)
	if err != nil {
		return fmt.Errorf("refresh: %w", err)
	}

	switch st := s.st.(type) {
	case loadedState:
		if len(listing) == 0 {
			s.setLocked(loadedState{dir: dir, listing: listing})
			return nil
		}
		text, err := s.store.Read(listing[0].Path)
		if err != nil {
			return fmt.Errorf("refresh: %w", err)
		}
		s.setLocked(editingState{dir: dir, listing: listing, active: 0, buffer: text, saved: text})

	case editingState:
		path := st.listing[st.active].Path
		if idx := listing.Index(path); idx >= 0 {
			st.listing = listing
			st.active = idx
			s.setLocked(st)
			return nil
		}
		s.notify(LevelWarn, fmt.Sprintf("%s was removed from disk; the buffer is kept until you save or switch", filepath.Base(path)), nil)
		s.setLocked(detachedState{dir: dir, listing: listing, path: path, buffer: st.buffer, saved: st.saved, removed: true})

	case detachedState:
		st.listing = listing
		s.setLocked(st)
	}
	return nil
}

// Close makes a final flush attempt before the application exits.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flushLocked("shutdown")
}

// attachedLocked returns the directory and listing the session works in.
func (s *Session) attachedLocked() (string, notes.Listing) {
	switch st := s.st.(type) {
	case loadedState:
		return st.dir, st.listing
	case editingState:
		return st.dir, st.listing
	case detachedState:
		return st.dir, st.listing
	}
	return "", nil
}

// flushLocked writes a dirty buffer back before it is dropped.
func (s *Session) flushLocked(reason string) {
	var path string
	switch st := s.st.(type) {
	case editingState:
		if st.buffer == st.saved {
			return
		}
		path = st.listing[st.active].Path
	case detachedState:
		if st.buffer == st.saved {
			return
		}
		if st.path == "" {
			s.notify(LevelWarn, "unsaved buffer has no file and was discarded", ErrNoTarget)
			return
		}
		path = st.path
		if st.removed {
			s.notify(LevelWarn, fmt.Sprintf("%s was removed from disk and is recreated with your unsaved edits", filepath.Base(path)), nil)
		}
	default:
		return
	}

	debug.Log(debug.SESSION, "flush %q before %s", path, reason)
	if err := s.saveLocked(); err != nil {
		s.notify(LevelError, fmt.Sprintf("could not save %s before %s", filepath.Base(path), reason), err)
	}
}
