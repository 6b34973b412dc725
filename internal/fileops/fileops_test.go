package fileops

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v2"

	"github.com/phravins/notepane/internal/notes"
	"github.com/phravins/notepane/internal/store"
)

func scenario(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"Intro_2020-01-01.md":  "# Intro\nhello world",
		"Notes_2020-02-01.txt": "first\nsecond world",
		"image.png":            "world",
	}
	for name, text := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(text), 0644); err != nil {
			t.Fatalf("setup: %v", err)
		}
	}
	return dir
}

func TestWriteListingFormats(t *testing.T) {
	listing, err := notes.Scan(scenario(t))
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	tests := []struct {
		name   string
		format string
		check  func(t *testing.T, out []byte)
	}{
		{"text", "text", func(t *testing.T, out []byte) {
			s := string(out)
			for _, want := range []string{"TITLE", "Intro", "2020-01-01", "Notes", "2020-02-01"} {
				if !strings.Contains(s, want) {
					t.Errorf("text output missing %q:\n%s", want, s)
				}
			}
			if strings.Contains(s, "image") {
				t.Errorf("text output lists the png")
			}
		}},
		{"yaml", "yaml", func(t *testing.T, out []byte) {
			var got []map[string]interface{}
			if err := yaml.Unmarshal(out, &got); err != nil {
				t.Fatalf("output is not yaml: %v", err)
			}
			if len(got) != 2 || got[0]["title"] != "Intro" || got[1]["date"] != "2020-02-01" {
				t.Errorf("unexpected yaml: %v", got)
			}
		}},
		{"json", "json", func(t *testing.T, out []byte) {
			var got []notes.Descriptor
			if err := json.Unmarshal(out, &got); err != nil {
				t.Fatalf("output is not json: %v", err)
			}
			if len(got) != 2 || got[0].Name != "Intro_2020-01-01.md" {
				t.Errorf("unexpected json: %+v", got)
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := writeListing(&buf, listing, tt.format); err != nil {
				t.Fatalf("writeListing failed: %v", err)
			}
			tt.check(t, buf.Bytes())
		})
	}

	if err := writeListing(&bytes.Buffer{}, listing, "xml"); err == nil {
		t.Errorf("expected error for unknown format")
	}
}

func TestSaveThenCat(t *testing.T) {
	s := store.New(afero.NewMemMapFs())
	path := "/notes/Todo_2024-01-01.md"
	if err := s.Fs().MkdirAll("/notes", 0755); err != nil {
		t.Fatal(err)
	}

	if err := saveNote(strings.NewReader("- milk\n- eggs\n"), s, path); err != nil {
		t.Fatalf("saveNote failed: %v", err)
	}
	var out bytes.Buffer
	if err := catNote(&out, s, path); err != nil {
		t.Fatalf("catNote failed: %v", err)
	}
	if out.String() != "- milk\n- eggs\n" {
		t.Errorf("cat = %q", out.String())
	}

	if err := catNote(&out, s, "/notes/missing.md"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("cat missing = %v, want ErrNotFound", err)
	}
}

func TestSearchNotes(t *testing.T) {
	dir := scenario(t)
	matches, err := searchNotes(store.NewOS(), "world", dir)
	if err != nil {
		t.Fatalf("searchNotes failed: %v", err)
	}
	want := []string{
		"Intro_2020-01-01.md:2: hello world",
		"Notes_2020-02-01.txt:2: second world",
	}
	if strings.Join(matches, "|") != strings.Join(want, "|") {
		t.Errorf("matches = %v, want %v", matches, want)
	}

	if _, err := searchNotes(store.NewOS(), "x", filepath.Join(dir, "missing")); !errors.Is(err, notes.ErrUnreadable) {
		t.Errorf("search in missing dir = %v, want ErrUnreadable", err)
	}
}
