// Package walk lists directory trees without recursion.
package walk

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// SkipDir, returned by the callback for a directory, skips its contents.
// Returned for a file it has no effect.
var SkipDir = fs.SkipDir

// Entry is one visited path.
type Entry struct {
	Path  string // root joined with Rel
	Rel   string // slash-separated, relative to root
	Depth int    // 0 for the root itself
	Dir   bool
	Link  bool // symlink; never descended into
}

// Walk visits root and everything beneath it in lexical pre-order using an
// explicit stack, so deep trees cannot exhaust the call stack. Symlinks are
// reported but not followed. A missing root is an error.
func Walk(root string, fn func(Entry) error) error {
	info, err := os.Lstat(root)
	if err != nil {
		return fmt.Errorf("walk %s: %w", root, err)
	}

	stack := []Entry{{
		Path: root,
		Rel:  ".",
		Dir:  info.IsDir(),
		Link: info.Mode()&fs.ModeSymlink != 0,
	}}

	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if err := fn(e); err != nil {
			if errors.Is(err, SkipDir) {
				continue
			}
			return err
		}
		if !e.Dir || e.Link {
			continue
		}

		children, err := os.ReadDir(e.Path)
		if err != nil {
			return fmt.Errorf("read dir %s: %w", e.Path, err)
		}
		// ReadDir sorts by name; push in reverse so the first name pops first.
		for i := len(children) - 1; i >= 0; i-- {
			c := children[i]
			rel := c.Name()
			if e.Rel != "." {
				rel = e.Rel + "/" + c.Name()
			}
			stack = append(stack, Entry{
				Path:  filepath.Join(e.Path, c.Name()),
				Rel:   rel,
				Depth: e.Depth + 1,
				Dir:   c.IsDir(),
				Link:  c.Type()&fs.ModeSymlink != 0,
			})
		}
	}
	return nil
}

// Files returns the relative paths of every regular file under root.
func Files(root string) ([]string, error) {
	var out []string
	err := Walk(root, func(e Entry) error {
		if !e.Dir && !e.Link {
			out = append(out, e.Rel)
		}
		return nil
	})
	return out, err
}
