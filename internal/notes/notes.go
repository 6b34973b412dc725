// Package notes turns a directory into an ordered listing of note files.
package notes

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/phravins/notepane/pkg/utils"
)

// Extensions is the fixed set of recognized note suffixes. Matching is literal
// and case-sensitive: "a.MD" is not a note.
var Extensions = []string{".md", ".markdown", ".txt"}

// titleDelimiter separates the title from the date in "Title_Date.ext".
const titleDelimiter = "_"

// Descriptor represents one recognized file on disk.
type Descriptor struct {
	Path    string    `json:"path" yaml:"path"`
	Name    string    `json:"name" yaml:"name"`
	Title   string    `json:"title,omitempty" yaml:"title,omitempty"`
	Date    string    `json:"date,omitempty" yaml:"date,omitempty"`
	Size    int64     `json:"size" yaml:"size"`
	ModTime time.Time `json:"modified" yaml:"modified"`
}

// Ext returns the recognized extension of the descriptor, e.g. ".md".
func (d Descriptor) Ext() string {
	return filepath.Ext(d.Name)
}

// IsMarkdown reports whether the file should be previewed as markdown.
func (d Descriptor) IsMarkdown() bool {
	return IsMarkdownName(d.Name)
}

// Listing is an ordered sequence of descriptors with unique paths.
type Listing []Descriptor

// Index returns the position of path in the listing, or -1.
func (l Listing) Index(path string) int {
	for i, d := range l {
		if d.Path == path {
			return i
		}
	}
	return -1
}

// Paths returns the descriptor paths in listing order.
func (l Listing) Paths() []string {
	out := make([]string, len(l))
	for i, d := range l {
		out[i] = d.Path
	}
	return out
}

// IsRecognized reports whether name ends with one of the recognized extensions.
func IsRecognized(name string) bool {
	for _, ext := range Extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// IsMarkdownName reports whether name is a markdown note (as opposed to plain text).
func IsMarkdownName(name string) bool {
	return strings.HasSuffix(name, ".md") || strings.HasSuffix(name, ".markdown")
}

// ParseName extracts the display title and date from a file name.
// "Intro_2020-01-01.md" gives ("Intro", "2020-01-01"); a name without the
// delimiter gives (name, ""). It never fails.
func ParseName(name string) (title, date string) {
	stem := utils.StripExt(name)
	before, after, found := strings.Cut(stem, titleDelimiter)
	if !found {
		return name, ""
	}
	return before, after
}

// ErrUnreadable matches any ScanError via errors.Is.
var ErrUnreadable = errors.New("directory unreadable")

// ScanError reports a directory that does not exist or cannot be read.
type ScanError struct {
	Dir string
	Err error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scan %s: %v", e.Dir, e.Err)
}

func (e *ScanError) Unwrap() []error {
	return []error{ErrUnreadable, e.Err}
}
