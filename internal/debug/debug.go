// Package debug provides categorized debug logging for notepane.
//
// The TUI owns stdout, so nothing is logged until Start is called with a
// log file path (config key debug_log or --debug-log). Categories can be
// narrowed with NOTEPANE_DEBUG=SESSION,STORE or silenced with NOTEPANE_DEBUG=none.
package debug

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// Category represents a debug logging category
type Category string

const (
	APP     Category = "APP"     // Startup, shutdown, command wiring
	SCAN    Category = "SCAN"    // Directory scanning
	STORE   Category = "STORE"   // File reads and writes
	SESSION Category = "SESSION" // Session transitions and flushes
	WATCH   Category = "WATCH"   // Directory watcher events
	UI      Category = "UI"      // TUI events
)

var (
	enabledCategories = map[Category]bool{
		APP:     true,
		SCAN:    true,
		STORE:   true,
		SESSION: true,
		WATCH:   true,
		UI:      false, // very chatty, one line per key press
	}
	mu      sync.RWMutex
	active  bool
	logger  = log.New(io.Discard, "", log.Ltime|log.Lmicroseconds)
	logFile io.Closer
)

func init() {
	env := os.Getenv("NOTEPANE_DEBUG")
	if env == "" {
		return
	}
	env = strings.ToUpper(env)
	switch env {
	case "ALL":
		for cat := range enabledCategories {
			enabledCategories[cat] = true
		}
	case "NONE":
		for cat := range enabledCategories {
			enabledCategories[cat] = false
		}
	default:
		for cat := range enabledCategories {
			enabledCategories[cat] = false
		}
		for _, cat := range strings.Split(env, ",") {
			enabledCategories[Category(strings.TrimSpace(cat))] = true
		}
	}
}

// Start routes debug output to path through bubbletea's LogToFile helper.
func Start(path string) error {
	f, err := tea.LogToFile(path, "notepane")
	if err != nil {
		return fmt.Errorf("open debug log %s: %w", path, err)
	}
	mu.Lock()
	logFile = f
	logger = log.Default()
	active = true
	mu.Unlock()
	return nil
}

// SetOutput sends debug output to w. Mostly useful in tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	logger = log.New(w, "", 0)
	active = w != nil && w != io.Discard
	mu.Unlock()
}

// Stop closes the log file opened by Start.
func Stop() {
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	active = false
	logger = log.New(io.Discard, "", 0)
}

// Log logs a debug message for the specified category
func Log(cat Category, format string, args ...interface{}) {
	mu.RLock()
	on := active && enabledCategories[cat]
	l := logger
	mu.RUnlock()
	if !on {
		return
	}
	l.Printf("[%s] %s", cat, fmt.Sprintf(format, args...))
}

// Enable enables a debug category
func Enable(cat Category) {
	mu.Lock()
	enabledCategories[cat] = true
	mu.Unlock()
}

// Disable disables a debug category
func Disable(cat Category) {
	mu.Lock()
	enabledCategories[cat] = false
	mu.Unlock()
}

// IsEnabled returns whether a category is enabled
func IsEnabled(cat Category) bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabledCategories[cat]
}
