package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const debounce = 50 * time.Millisecond

func newWatcher(t *testing.T) *DirectoryWatcher {
	t.Helper()
	w, err := New(debounce)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { w.Close() })
	return w
}

func expectChange(t *testing.T, w *DirectoryWatcher, dir string) {
	t.Helper()
	select {
	case got := <-w.Changes():
		if got != dir {
			t.Errorf("change for %q, want %q", got, dir)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("no change reported for %s", dir)
	}
}

func expectQuiet(t *testing.T, w *DirectoryWatcher, wait time.Duration) {
	t.Helper()
	select {
	case got := <-w.Changes():
		t.Errorf("unexpected change for %q", got)
	case <-time.After(wait):
	}
}

func TestBurstIsDebounced(t *testing.T) {
	dir := t.TempDir()
	w := newWatcher(t)
	if err := w.Watch(dir); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	for _, name := range []string{"a.md", "b.txt", "c.markdown"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	expectChange(t, w, dir)
	expectQuiet(t, w, 4*debounce)
}

func TestIgnoresUnrecognizedFiles(t *testing.T) {
	dir := t.TempDir()
	w := newWatcher(t)
	if err := w.Watch(dir); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	for _, name := range []string{"image.png", ".a.md.123.tmp"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	expectQuiet(t, w, 6*debounce)
}

func TestWatchSwitchesDirectory(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	w := newWatcher(t)
	if err := w.Watch(first); err != nil {
		t.Fatal(err)
	}
	if err := w.Watch(second); err != nil {
		t.Fatal(err)
	}
	if w.Dir() != second {
		t.Fatalf("Dir() = %q", w.Dir())
	}

	if err := os.WriteFile(filepath.Join(first, "old.md"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	expectQuiet(t, w, 6*debounce)

	if err := os.WriteFile(filepath.Join(second, "new.md"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	expectChange(t, w, second)
}

func TestWatchMissingDirectory(t *testing.T) {
	w := newWatcher(t)
	if err := w.Watch(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Errorf("expected error watching a missing directory")
	}
	if w.Dir() != "" {
		t.Errorf("Dir() = %q after failed watch", w.Dir())
	}
	if err := w.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	w.Close()
}
