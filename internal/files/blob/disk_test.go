package blob

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestDiskStore_SaveAndRead(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	handle, err := store.Save(context.Background(), []byte("hello"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.Load(context.Background(), handle)
	if err != nil {
		t.Fatalf("reading blob back: %v", err)
	}
	if string(got) != "hello" {
		t.Errorf("got %q, want %q", got, "hello")
	}

	if _, err := store.Load(context.Background(), handle+"-missing"); err == nil {
		t.Error("expected an error for a missing blob")
	}
}

func TestDiskStore_HandlesAreUnique(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		handle, err := store.Save(context.Background(), []byte("same payload"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if seen[handle] {
			t.Fatalf("handle %q issued twice", handle)
		}
		seen[handle] = true
	}
}

func TestDiskStore_CreatesRootDirectory(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "blobs")

	if _, err := NewDiskStore(root); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	info, err := os.Stat(root)
	if err != nil {
		t.Fatalf("stat root: %v", err)
	}
	if !info.IsDir() {
		t.Error("root should be a directory")
	}
}

func TestDiskStore_RemoveTwice(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	handle, err := store.Save(context.Background(), []byte("hello"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := store.Remove(context.Background(), handle); err != nil {
		t.Fatalf("first remove: %v", err)
	}
	if err := store.Remove(context.Background(), handle); err != nil {
		t.Errorf("second remove should be a no-op, got %v", err)
	}

	if _, err := os.Stat(handle); !os.IsNotExist(err) {
		t.Error("blob should be gone after remove")
	}
}

func TestDiskStore_CancelledContext(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := store.Save(ctx, []byte("hello")); err == nil {
		t.Error("expected an error from a cancelled context")
	}
}
