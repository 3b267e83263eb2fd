// Package path provides utilities for PATH environment variable manipulation
package path

import (
	"os"
	"path/filepath"
	"strings"
)

// IsInPath checks if a directory is in the current PATH
func IsInPath(dir string) bool {
	dir = filepath.Clean(dir)

	for _, p := range filepath.SplitList(os.Getenv("PATH")) {
		if p == "" {
			continue
		}
		if filepath.Clean(p) == dir {
			return true
		}
	}

	return false
}

// Prepend returns a PATH value with dirs placed before the existing entries,
// dropping any later duplicates of them
func Prepend(pathEnv string, dirs ...string) string {
	seen := make(map[string]bool, len(dirs))
	parts := make([]string, 0, len(dirs))
	for _, d := range dirs {
		d = filepath.Clean(d)
		if !seen[d] {
			seen[d] = true
			parts = append(parts, d)
		}
	}

	for _, p := range filepath.SplitList(pathEnv) {
		if p == "" || seen[filepath.Clean(p)] {
			continue
		}
		parts = append(parts, p)
	}

	return strings.Join(parts, string(os.PathListSeparator))
}
