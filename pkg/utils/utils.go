package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileExists returns true if the given path exists and is a file
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// DirExists returns true if the given path exists and is a directory
func DirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// EnsureDir creates a directory (and any parents) if it doesn't exist
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// StripExt returns the file name without extension
func StripExt(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// AbsPath cleans and absolutizes a user supplied path. Empty stays empty.
func AbsPath(path string) string {
	if path == "" {
		return ""
	}
	path = ExpandHome(path)
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// PrintSuccess prints a green success message
func PrintSuccess(msg string) {
	fmt.Printf("\033[32m %s\033[0m\n", msg)
}

// PrintError prints a red error message
func PrintError(msg string) {
	fmt.Fprintf(os.Stderr, "\033[31m %s\033[0m\n", msg)
}
