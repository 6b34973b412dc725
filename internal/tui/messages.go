package tui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/phravins/notepane/internal/session"
	"github.com/phravins/notepane/internal/watch"
)

// errStale marks an op that no longer applies because the session moved on
// between submission and execution.
var errStale = errors.New("stale operation")

// opDoneMsg carries the result of an op run on the session worker. reload
// asks the model to replace the editor content with the session buffer.
type opDoneMsg struct {
	snap   session.Snapshot
	err    error
	reload bool
}

type noticeMsg session.Notice

type dirChangedMsg string

func waitForResult(ch <-chan session.Result, reload bool) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		res := <-ch
		return opDoneMsg{snap: res.Snapshot, err: res.Err, reload: reload}
	}
}

// The listeners below return once stop is closed so that nothing keeps
// consuming notices after the program exited.

func waitForNotice(ch <-chan session.Notice, stop <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case n, ok := <-ch:
			if !ok {
				return nil
			}
			return noticeMsg(n)
		case <-stop:
			return nil
		}
	}
}

func waitForChange(w *watch.DirectoryWatcher, stop <-chan struct{}) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case dir, ok := <-w.Changes():
			if !ok {
				return nil
			}
			return dirChangedMsg(dir)
		case <-stop:
			return nil
		}
	}
}

// Session ops submitted by the model. Each re-checks the session state it
// was built against since other ops may have run in between.

func editOp(path, text string) session.Op {
	return func(s *session.Session) error {
		if s.Snapshot().Path != path {
			return errStale
		}
		return s.Edit(text)
	}
}

func selectOp(path string) session.Op {
	return func(s *session.Session) error {
		i := s.Snapshot().Listing.Index(path)
		if i < 0 {
			return errStale
		}
		s.OnSelect(i)
		return nil
	}
}

func refreshOp(dir string) session.Op {
	return func(s *session.Session) error {
		if s.Snapshot().Directory != dir {
			return errStale
		}
		s.OnRefresh()
		return nil
	}
}
