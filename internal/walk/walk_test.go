package walk

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func mkTree(t *testing.T, files ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(f), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestWalk_LexicalPreOrder(t *testing.T) {
	root := mkTree(t, "b.txt", "a/2.md", "a/1.md", "c/d/e.txt")

	var got []string
	err := Walk(root, func(e Entry) error {
		got = append(got, e.Rel)
		return nil
	})
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}

	want := []string{".", "a", "a/1.md", "a/2.md", "b.txt", "c", "c/d", "c/d/e.txt"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("visit order = %v, want %v", got, want)
	}
}

func TestWalk_SkipDir(t *testing.T) {
	root := mkTree(t, "keep/x.txt", "skip/y.txt", "z.txt")

	var got []string
	err := Walk(root, func(e Entry) error {
		if e.Dir && e.Rel == "skip" {
			return SkipDir
		}
		if !e.Dir {
			got = append(got, e.Rel)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"keep/x.txt", "z.txt"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("files = %v, want %v", got, want)
	}
}

func TestWalk_CallbackErrorStops(t *testing.T) {
	root := mkTree(t, "a.txt", "b.txt")
	boom := errors.New("boom")

	n := 0
	err := Walk(root, func(e Entry) error {
		n++
		if e.Rel == "a.txt" {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Walk() error = %v, want boom", err)
	}
	if n != 2 {
		t.Errorf("visited %d entries, want 2", n)
	}
}

func TestWalk_DeepTree(t *testing.T) {
	parts := make([]string, 200)
	for i := range parts {
		parts[i] = "d"
	}
	root := mkTree(t, strings.Join(parts, "/")+"/leaf.txt")

	maxDepth := 0
	err := Walk(root, func(e Entry) error {
		if e.Depth > maxDepth {
			maxDepth = e.Depth
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if maxDepth != 201 {
		t.Errorf("max depth = %d, want 201", maxDepth)
	}
}

func TestWalk_SymlinksNotFollowed(t *testing.T) {
	root := mkTree(t, "real/f.txt")
	if err := os.Symlink(filepath.Join(root, "real"), filepath.Join(root, "link")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	files, err := Files(root)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(files, []string{"real/f.txt"}) {
		t.Errorf("Files() = %v, want only real/f.txt", files)
	}
}

func TestWalk_MissingRoot(t *testing.T) {
	err := Walk(filepath.Join(t.TempDir(), "nope"), func(Entry) error { return nil })
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Walk() error = %v, want ErrNotExist", err)
	}
}
