package discover

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func touch(t *testing.T, root string, rel string) string {
	t.Helper()
	p := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestFind_RecursiveSortedFiltered(t *testing.T) {
	root := t.TempDir()
	b := touch(t, root, "b/2.py")
	a := touch(t, root, "a/1.py")
	upper := touch(t, root, "c/3.PY")
	touch(t, root, "a/1.slha")
	touch(t, root, ".git/hooks/pre.py")
	touch(t, root, "__pycache__/x.py")
	touch(t, root, "notes.pyc")

	got, err := Finder{}.Find(root, []string{"py"})
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	want := []string{a, b, upper}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("files (-want +got):\n%s", diff)
	}
}

func TestFind_MultipleExtensions(t *testing.T) {
	root := t.TempDir()
	x := touch(t, root, "x.slha")
	y := touch(t, root, "y.dat")
	touch(t, root, "z.py")

	got, err := Finder{}.Find(root, []string{".slha", ".DAT", ""})
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if diff := cmp.Diff([]string{x, y}, got); diff != "" {
		t.Errorf("files (-want +got):\n%s", diff)
	}
}

func TestFind_MissingRoot(t *testing.T) {
	if _, err := (Finder{}).Find(filepath.Join(t.TempDir(), "absent"), []string{".py"}); err == nil {
		t.Error("expected error for missing root")
	}
}

func TestFind_RootIsFile(t *testing.T) {
	f := touch(t, t.TempDir(), "file.py")
	if _, err := (Finder{}).Find(f, []string{".py"}); err == nil {
		t.Error("expected error when root is a file")
	}
}

func TestFind_Empty(t *testing.T) {
	got, err := Finder{}.Find(t.TempDir(), []string{".py"})
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %v, want none", got)
	}
}
