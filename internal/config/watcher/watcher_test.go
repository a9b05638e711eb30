package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherDetectsWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dockgen.toml")
	if err := os.WriteFile(path, []byte(`package = "demo"`), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	w, err := New(WithDebounce(10 * time.Millisecond))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()

	changed := make(chan string, 1)
	w.OnChange(func(p string) {
		select {
		case changed <- p:
		default:
		}
	})

	if err := w.Start(path); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if err := os.WriteFile(path, []byte(`package = "other"`), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	select {
	case p := <-changed:
		if p != path {
			t.Errorf("changed path = %q, want %q", p, path)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change event delivered")
	}
}

func TestWatcherDetectsAtomicReplace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dockgen.json")
	if err := os.WriteFile(path, []byte(`{"package": "demo"}`), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	w, err := New(WithDebounce(10 * time.Millisecond))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()

	changed := make(chan string, 1)
	w.OnChange(func(p string) {
		select {
		case changed <- p:
		default:
		}
	})

	if err := w.Start(path); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	// Editor-style save: write a sibling temp file, then rename over
	// the target.
	tmp := filepath.Join(dir, ".dockgen.json.tmp")
	if err := os.WriteFile(tmp, []byte(`{"package": "other"}`), 0o644); err != nil {
		t.Fatalf("WriteFile(tmp) error = %v", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatalf("Rename() error = %v", err)
	}

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("no change event delivered")
	}
}

func TestWatcherIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dockgen.toml")
	if err := os.WriteFile(path, []byte(`package = "demo"`), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	w, err := New(WithDebounce(10 * time.Millisecond))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()

	changed := make(chan string, 1)
	w.OnChange(func(p string) {
		select {
		case changed <- p:
		default:
		}
	})

	if err := w.Start(path); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	other := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(other, []byte("unrelated"), 0o644); err != nil {
		t.Fatalf("WriteFile(other) error = %v", err)
	}

	select {
	case p := <-changed:
		t.Errorf("unexpected change event for %q", p)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherCloseIsIdempotent(t *testing.T) {
	w, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	if err := w.Start("dockgen.toml"); err != ErrWatcherClosed {
		t.Errorf("Start() after Close = %v, want ErrWatcherClosed", err)
	}
}
