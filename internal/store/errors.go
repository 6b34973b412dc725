package store

import (
	"errors"
	"fmt"
)

// Kind classifies a FileError.
type Kind int

const (
	KindIO Kind = iota
	KindNotFound
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindDecode:
		return "decode error"
	default:
		return "i/o error"
	}
}

// Sentinels matched by FileError via errors.Is.
var (
	ErrNotFound = errors.New("file not found")
	ErrIO       = errors.New("file i/o failed")
	ErrDecode   = errors.New("file is not valid UTF-8 text")
)

// FileError is returned by every failing Read or Write.
type FileError struct {
	Op   string // "read" or "write"
	Path string
	Kind Kind
	Err  error
}

func (e *FileError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s: %s", e.Op, e.Path, e.Kind)
	}
	return fmt.Sprintf("%s %s: %s: %v", e.Op, e.Path, e.Kind, e.Err)
}

func (e *FileError) Unwrap() []error {
	var sentinel error
	switch e.Kind {
	case KindNotFound:
		sentinel = ErrNotFound
	case KindDecode:
		sentinel = ErrDecode
	default:
		sentinel = ErrIO
	}
	if e.Err == nil {
		return []error{sentinel}
	}
	return []error{sentinel, e.Err}
}
