package session

import (
	"errors"
	"fmt"
	"path/filepath"
)

// The On* methods are the entry points the host calls for its events.
// Unlike the transition methods they never return errors: failures become
// notices and the session carries on in its previous valid state.

// OnDirectoryChosen handles the host's directory-chosen event.
func (s *Session) OnDirectoryChosen(dir string) {
	if err := s.ChooseDirectory(dir); err != nil {
		s.report("could not open directory "+dir, err)
		return
	}
	snap := s.Snapshot()
	if len(snap.Listing) == 0 {
		s.notifyUnlocked(LevelInfo, fmt.Sprintf("no notes in %s", snap.Directory), nil)
	}
}

// OnFileChosen handles the host's file-chosen event. text is the content
// the host read from path; path may be empty for content without a file.
func (s *Session) OnFileChosen(path, text string) {
	if err := s.LoadSingleFile(path, text); err != nil {
		s.report("could not open "+filepath.Base(path), err)
	}
}

// OnSaveRequested handles the host's save-requested event.
func (s *Session) OnSaveRequested() {
	if err := s.Save(); err != nil {
		s.report("save failed", err)
		return
	}
	if path := s.Snapshot().Path; path != "" {
		s.notifyUnlocked(LevelInfo, "saved "+filepath.Base(path), nil)
	}
}

// OnSelect handles a selection change coming from presentation.
func (s *Session) OnSelect(index int) {
	if err := s.SelectFile(index); err != nil {
		s.report("could not switch file", err)
	}
}

// OnRefresh handles a directory change reported by a watcher.
func (s *Session) OnRefresh() {
	if err := s.Refresh(); err != nil {
		s.report("could not refresh directory", err)
	}
}

func (s *Session) report(msg string, err error) {
	level := LevelError
	if errors.Is(err, ErrNoActiveFile) {
		level = LevelWarn
	}
	s.notifyUnlocked(level, msg, err)
}

func (s *Session) notifyUnlocked(level Level, msg string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notify(level, msg, err)
}
