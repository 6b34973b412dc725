// Package store reads and writes note files as text.
package store

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/spf13/afero"
	"golang.org/x/text/encoding/unicode"

	"github.com/phravins/notepane/internal/debug"
)

const defaultPerm os.FileMode = 0644

// Store reads and writes whole files through an afero filesystem.
type Store struct {
	fs afero.Fs
}

// New returns a Store backed by fsys.
func New(fsys afero.Fs) *Store {
	return &Store{fs: fsys}
}

// NewOS returns a Store backed by the real filesystem.
func NewOS() *Store {
	return New(afero.NewOsFs())
}

// Fs exposes the underlying filesystem.
func (s *Store) Fs() afero.Fs {
	return s.fs
}

// Read returns the full content of path decoded as UTF-8 text.
// Files carrying a UTF-16 byte order mark are converted to UTF-8.
func (s *Store) Read(path string) (string, error) {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		kind := KindIO
		if errors.Is(err, fs.ErrNotExist) {
			kind = KindNotFound
		}
		debug.Log(debug.STORE, "read %q failed: %v", path, err)
		return "", &FileError{Op: "read", Path: path, Kind: kind, Err: err}
	}

	text, err := decode(data)
	if err != nil {
		debug.Log(debug.STORE, "read %q: %v", path, err)
		return "", &FileError{Op: "read", Path: path, Kind: KindDecode, Err: err}
	}
	debug.Log(debug.STORE, "read %q (%d bytes)", path, len(data))
	return text, nil
}

// Write replaces the content of path with text. The data goes to a temp
// file in the same directory which is then renamed over path, so a failed
// write leaves the previous content in place.
func (s *Store) Write(path, text string) error {
	perm := defaultPerm
	if info, err := s.fs.Stat(path); err == nil {
		if info.IsDir() {
			return &FileError{Op: "write", Path: path, Kind: KindIO, Err: errors.New("is a directory")}
		}
		perm = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	tmp, err := afero.TempFile(s.fs, dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return s.writeFailed(path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		s.fs.Remove(tmpName)
		return s.writeFailed(path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		s.fs.Remove(tmpName)
		return s.writeFailed(path, err)
	}
	if err := tmp.Close(); err != nil {
		s.fs.Remove(tmpName)
		return s.writeFailed(path, err)
	}
	if err := s.fs.Chmod(tmpName, perm); err != nil {
		s.fs.Remove(tmpName)
		return s.writeFailed(path, err)
	}
	if err := s.fs.Rename(tmpName, path); err != nil {
		s.fs.Remove(tmpName)
		return s.writeFailed(path, err)
	}

	debug.Log(debug.STORE, "wrote %q (%d bytes)", path, len(text))
	return nil
}

func (s *Store) writeFailed(path string, err error) error {
	debug.Log(debug.STORE, "write %q failed: %v", path, err)
	return &FileError{Op: "write", Path: path, Kind: KindIO, Err: err}
}

// decode converts raw file bytes to a string. UTF-8 passes through untouched
// (a UTF-8 BOM included) so that Write followed by Read is lossless.
func decode(data []byte) (string, error) {
	if len(data) >= 2 {
		switch {
		case data[0] == 0xFF && data[1] == 0xFE:
			return decodeUTF16(data, unicode.LittleEndian)
		case data[0] == 0xFE && data[1] == 0xFF:
			return decodeUTF16(data, unicode.BigEndian)
		}
	}
	if !utf8.Valid(data) {
		return "", errors.New("invalid UTF-8 sequence")
	}
	return string(data), nil
}

func decodeUTF16(data []byte, endian unicode.Endianness) (string, error) {
	out, err := unicode.UTF16(endian, unicode.ExpectBOM).NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
