package store

import (
	"os"
	"path/filepath"
)

// FindWorkDir walks up from startDir looking for an initialized work
// directory named rel. It returns the first match, or rel unchanged when no
// ancestor has one so that a later Init creates it relative to startDir.
// Absolute rel values are returned as-is.
func FindWorkDir(startDir, rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	if startDir == "" {
		var err error
		startDir, err = os.Getwd()
		if err != nil {
			return rel
		}
	}

	dir := startDir
	for {
		candidate := filepath.Join(dir, rel)
		if info, err := os.Stat(filepath.Join(candidate, IndexFile)); err == nil && !info.IsDir() {
			if dir == startDir {
				return rel
			}
			return candidate
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return rel
		}
		dir = parent
	}
}
