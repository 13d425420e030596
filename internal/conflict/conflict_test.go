package conflict

import (
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("touch %s: %v", path, err)
	}
}

func TestResolveFreePathUnchanged(t *testing.T) {
	dir := t.TempDir()
	desired := filepath.Join(dir, "app.AppImage")

	if got := Resolve(desired); got != desired {
		t.Errorf("Resolve() = %s, want %s unchanged", got, desired)
	}
}

func TestResolveAppendsSuffix(t *testing.T) {
	dir := t.TempDir()
	desired := filepath.Join(dir, "app.AppImage")
	touch(t, desired)

	got := Resolve(desired)
	want := filepath.Join(dir, "app (1).AppImage")
	if got != want {
		t.Errorf("Resolve() = %s, want %s", got, want)
	}
}

func TestResolveIncrementsUntilFree(t *testing.T) {
	dir := t.TempDir()
	desired := filepath.Join(dir, "app.AppImage")
	touch(t, desired)
	touch(t, filepath.Join(dir, "app (1).AppImage"))
	touch(t, filepath.Join(dir, "app (2).AppImage"))

	got := Resolve(desired)
	want := filepath.Join(dir, "app (3).AppImage")
	if got != want {
		t.Errorf("Resolve() = %s, want %s", got, want)
	}
}

func TestResolveNeverReturnsExistingPath(t *testing.T) {
	dir := t.TempDir()
	desired := filepath.Join(dir, "tool.tar.gz")
	touch(t, desired)

	got := Resolve(desired)
	if _, err := os.Lstat(got); err == nil {
		t.Errorf("Resolve() returned existing path %s", got)
	}
}

func TestResolveCompoundTarExtension(t *testing.T) {
	dir := t.TempDir()
	desired := filepath.Join(dir, "tool.tar.gz")
	touch(t, desired)

	got := Resolve(desired)
	want := filepath.Join(dir, "tool (1).tar.gz")
	if got != want {
		t.Errorf("Resolve() = %s, want %s", got, want)
	}
}

func TestResolveDirectoryWithoutExtension(t *testing.T) {
	dir := t.TempDir()
	desired := filepath.Join(dir, "myapp")
	if err := os.Mkdir(desired, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got := Resolve(desired)
	want := filepath.Join(dir, "myapp (1)")
	if got != want {
		t.Errorf("Resolve() = %s, want %s", got, want)
	}
}
