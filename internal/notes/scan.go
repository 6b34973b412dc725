package notes

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/charlievieth/fastwalk"

	"github.com/phravins/notepane/internal/debug"
)

// Scanner lists note directories. The zero value is ready to use.
type Scanner struct{}

// Scan implements the session's scanner contract.
func (Scanner) Scan(dir string) (Listing, error) {
	return Scan(dir)
}

// Scan lists the direct children of dir that carry a recognized extension.
// The result is sorted by file name so repeated scans are stable.
func Scan(dir string) (Listing, error) {
	root := filepath.Clean(dir)
	debug.Log(debug.SCAN, "scan: reading %q", root)

	info, err := os.Stat(root)
	if err != nil {
		return nil, &ScanError{Dir: root, Err: err}
	}
	if !info.IsDir() {
		return nil, &ScanError{Dir: root, Err: errors.New("not a directory")}
	}

	var (
		result Listing
		mu     sync.Mutex
	)

	conf := &fastwalk.Config{Follow: false}

	err = fastwalk.Walk(conf, root, func(fullPath string, d fs.DirEntry, err error) error {
		if err != nil {
			if fullPath == root {
				return err
			}
			debug.Log(debug.SCAN, "scan: skipping %q: %v", fullPath, err)
			return nil
		}
		if fullPath == root {
			return nil
		}

		// Only direct children. Names may legally contain a backslash.
		if filepath.Dir(fullPath) != root {
			if d.IsDir() {
				return fastwalk.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return fastwalk.SkipDir
		}
		if !IsRecognized(d.Name()) {
			return nil
		}

		// StatDirEntry resolves symlinks so a linked note still counts.
		info, err := fastwalk.StatDirEntry(fullPath, d)
		if err != nil {
			debug.Log(debug.SCAN, "scan: skipping %q: stat error: %v", d.Name(), err)
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		title, date := ParseName(d.Name())
		mu.Lock()
		result = append(result, Descriptor{
			Path:    fullPath,
			Name:    d.Name(),
			Title:   title,
			Date:    date,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		mu.Unlock()
		return nil
	})
	if err != nil {
		debug.Log(debug.SCAN, "scan: walk error: %v", err)
		return nil, &ScanError{Dir: root, Err: err}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	debug.Log(debug.SCAN, "scan: %d notes in %q", len(result), root)
	return result, nil
}
