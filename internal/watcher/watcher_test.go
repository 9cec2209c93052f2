package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTemp(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func waitRemoved(t *testing.T, w *Watcher) string {
	t.Helper()
	select {
	case p := <-w.Removed():
		return p
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for removal notification")
		return ""
	}
}

func TestWatcherReportsRemovedPath(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "specimen.csv")

	w, err := New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer w.Close()

	w.SetPaths([]string{path})

	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}

	if got := waitRemoved(t, w); got != path {
		t.Errorf("removed path = %q, want %q", got, path)
	}
}

func TestWatcherIgnoresUnwatchedPaths(t *testing.T) {
	dir := t.TempDir()
	watched := writeTemp(t, dir, "watched.csv")
	other := writeTemp(t, dir, "other.csv")

	w, err := New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer w.Close()

	w.SetPaths([]string{watched})

	if err := os.Remove(other); err != nil {
		t.Fatalf("remove: %v", err)
	}

	select {
	case p := <-w.Removed():
		t.Errorf("unexpected notification for %q", p)
	case <-time.After(250 * time.Millisecond):
	}
}

func TestWatcherSetPathsReplacesSet(t *testing.T) {
	dir := t.TempDir()
	first := writeTemp(t, dir, "first.csv")
	second := writeTemp(t, dir, "second.csv")

	w, err := New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer w.Close()

	w.SetPaths([]string{first})
	w.SetPaths([]string{second})

	if err := os.Remove(first); err != nil {
		t.Fatalf("remove: %v", err)
	}
	select {
	case p := <-w.Removed():
		t.Errorf("notification for unwatched %q", p)
	case <-time.After(250 * time.Millisecond):
	}

	if err := os.Remove(second); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if got := waitRemoved(t, w); got != second {
		t.Errorf("removed path = %q, want %q", got, second)
	}
}

func TestWatcherSkipsEmptyAndMissingPaths(t *testing.T) {
	w, err := New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer w.Close()

	// Neither entry is watchable; SetPaths must not fail or notify.
	w.SetPaths([]string{"", filepath.Join(t.TempDir(), "never-existed.csv")})

	select {
	case p := <-w.Removed():
		t.Errorf("unexpected notification for %q", p)
	case <-time.After(100 * time.Millisecond):
	}
}
