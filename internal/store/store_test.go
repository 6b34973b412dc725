package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

func TestRoundTrip(t *testing.T) {
	s := New(afero.NewMemMapFs())

	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"heading", "# Hi"},
		{"multiline", "line one\nline two\r\nline three\n"},
		{"unicode", "za\u017c\u00f3\u0142\u0107 \U0001F642 \u65e5\u672c"},
		{"utf8 bom kept", "\ufeffbom first"},
		{"large", strings.Repeat("abc\n", 50000)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := "/notes/" + strings.ReplaceAll(tt.name, " ", "_") + ".md"
			if err := s.Fs().MkdirAll("/notes", 0755); err != nil {
				t.Fatalf("mkdir: %v", err)
			}
			if err := s.Write(path, tt.text); err != nil {
				t.Fatalf("Write failed: %v", err)
			}
			got, err := s.Read(path)
			if err != nil {
				t.Fatalf("Read failed: %v", err)
			}
			if got != tt.text {
				t.Errorf("round trip mismatch: got %q, want %q", truncate(got), truncate(tt.text))
			}
		})
	}
}

func truncate(s string) string {
	if len(s) > 40 {
		return s[:40] + "..."
	}
	return s
}

func TestReadNotFound(t *testing.T) {
	s := New(afero.NewMemMapFs())
	_, err := s.Read("/missing.md")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	var fe *FileError
	if !errors.As(err, &fe) || fe.Kind != KindNotFound || fe.Op != "read" {
		t.Errorf("unexpected error value: %#v", err)
	}
}

func TestReadDirectoryIsIOError(t *testing.T) {
	s := NewOS()
	_, err := s.Read(t.TempDir())
	if !errors.Is(err, ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
	if errors.Is(err, ErrNotFound) {
		t.Errorf("directory read must not look like not-found")
	}
}

func TestReadDecode(t *testing.T) {
	fsys := afero.NewMemMapFs()
	s := New(fsys)

	tests := []struct {
		name    string
		data    []byte
		want    string
		wantErr error
	}{
		{"utf16 le", []byte{0xFF, 0xFE, 'H', 0x00, 'i', 0x00}, "Hi", nil},
		{"utf16 be", []byte{0xFE, 0xFF, 0x00, 'H', 0x00, 'i'}, "Hi", nil},
		{"latin1", []byte{'c', 'a', 'f', 0xE9}, "", ErrDecode},
		{"binary", []byte{0x00, 0x9F, 0x92, 0x96}, "", ErrDecode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := "/" + strings.ReplaceAll(tt.name, " ", "_") + ".txt"
			if err := afero.WriteFile(fsys, path, tt.data, 0644); err != nil {
				t.Fatalf("setup: %v", err)
			}
			got, err := s.Read(path)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Read failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriteFailureKeepsOriginal(t *testing.T) {
	base := afero.NewMemMapFs()
	if err := afero.WriteFile(base, "/n/a.md", []byte("original"), 0644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	ro := New(afero.NewReadOnlyFs(base))
	err := ro.Write("/n/a.md", "replacement")
	if !errors.Is(err, ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}

	data, err := afero.ReadFile(base, "/n/a.md")
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "original" {
		t.Errorf("original content changed to %q", data)
	}
}

func TestWriteIntoMissingDirectory(t *testing.T) {
	s := NewOS()
	path := filepath.Join(t.TempDir(), "gone", "a.md")
	if err := s.Write(path, "x"); !errors.Is(err, ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
}

func TestWriteOnDirectoryFails(t *testing.T) {
	s := NewOS()
	dir := t.TempDir()
	if err := s.Write(dir, "x"); !errors.Is(err, ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
}

func TestWriteOnDiskLeavesNoTempFiles(t *testing.T) {
	s := NewOS()
	dir := t.TempDir()
	path := filepath.Join(dir, "note.md")
	if err := os.WriteFile(path, []byte("old"), 0600); err != nil {
		t.Fatalf("setup: %v", err)
	}

	if err := s.Write(path, "new"); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := s.Write(path, "new"); err != nil {
		t.Fatalf("second Write failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("expected only note.md, got %v", names)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("mode = %v, want 0600 preserved", info.Mode().Perm())
	}
	data, _ := os.ReadFile(path)
	if string(data) != "new" {
		t.Errorf("content = %q, want new", data)
	}
}

func TestFileErrorMessage(t *testing.T) {
	err := &FileError{Op: "write", Path: "/a.md", Kind: KindIO, Err: errors.New("disk full")}
	if got := err.Error(); got != "write /a.md: i/o error: disk full" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, ErrIO) || errors.Is(err, ErrDecode) {
		t.Errorf("sentinel matching is wrong")
	}
}
