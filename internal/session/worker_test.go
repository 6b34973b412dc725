package session

import (
	"errors"
	"fmt"
	"testing"
)

func TestWorkerAppliesOpsInOrder(t *testing.T) {
	f := newFixture(t, scenarioFiles())
	w := NewWorker(f.s, 4)
	defer w.Close()

	var results []<-chan Result
	results = append(results, w.Submit(func(s *Session) error { return s.ChooseDirectory(f.dir) }))
	for i := 0; i < 20; i++ {
		text := fmt.Sprintf("edit %d", i)
		results = append(results, w.Submit(func(s *Session) error { return s.Edit(text) }))
	}
	results = append(results, w.Submit(func(s *Session) error { return s.SelectFile(1) }))

	var last Result
	for i, ch := range results {
		last = <-ch
		if last.Err != nil {
			t.Fatalf("op %d failed: %v", i, last.Err)
		}
	}

	if got := f.disk(t, "Intro_2020-01-01.md"); got != "edit 19" {
		t.Errorf("flush saw %q, want the last edit", got)
	}
	if last.Snapshot.ActiveIndex != 1 || last.Snapshot.Buffer != "plain notes" {
		t.Errorf("final snapshot = %+v", last.Snapshot)
	}
}

func TestWorkerDeliversErrors(t *testing.T) {
	f := newFixture(t, scenarioFiles())
	w := NewWorker(f.s, 0)
	defer w.Close()

	res := w.Do(func(s *Session) error { return s.SelectFile(3) })
	if !errors.Is(res.Err, ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", res.Err)
	}
	if res.Snapshot.Phase != PhaseEmpty {
		t.Errorf("snapshot phase = %s", res.Snapshot.Phase)
	}
}

func TestWorkerCloseFlushesAndRejects(t *testing.T) {
	f := newFixture(t, scenarioFiles())
	w := NewWorker(f.s, 0)

	w.Do(func(s *Session) error { return s.ChooseDirectory(f.dir) })
	w.Submit(func(s *Session) error { return s.Edit("closing") })
	w.Close()
	w.Close()

	if got := f.disk(t, "Intro_2020-01-01.md"); got != "closing" {
		t.Errorf("close did not flush pending edit: %q", got)
	}
	res := w.Do(func(s *Session) error { return nil })
	if !errors.Is(res.Err, ErrWorkerClosed) {
		t.Errorf("expected ErrWorkerClosed, got %v", res.Err)
	}
}
