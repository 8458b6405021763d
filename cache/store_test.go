package cache

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestStorePutAndGet(t *testing.T) {
	store := NewStore()
	filePath := filepath.Join(t.TempDir(), "a", "b.ttl")

	payload := []byte("payload")
	entry, err := store.Put(context.Background(), filePath, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("put error: %v", err)
	}
	if entry.SizeBytes != int64(len(payload)) {
		t.Fatalf("size mismatch: %d", entry.SizeBytes)
	}

	result, err := store.Get(context.Background(), filePath)
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	defer result.Reader.Close()

	body, err := io.ReadAll(result.Reader)
	if err != nil {
		t.Fatalf("read cached body error: %v", err)
	}
	if string(body) != string(payload) {
		t.Fatalf("cached payload mismatch: %s", string(body))
	}
	if result.Entry.FilePath != filePath {
		t.Fatalf("unexpected file path %s", result.Entry.FilePath)
	}
}

func TestStoreGetMissing(t *testing.T) {
	store := NewStore()
	_, err := store.Get(context.Background(), filepath.Join(t.TempDir(), "missing"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStoreGetDirectory(t *testing.T) {
	store := NewStore()
	_, err := store.Get(context.Background(), t.TempDir())
	if !errors.Is(err, ErrIsDirectory) {
		t.Fatalf("expected ErrIsDirectory, got %v", err)
	}
}

func TestStorePutOverwrites(t *testing.T) {
	store := NewStore()
	filePath := filepath.Join(t.TempDir(), "x.json")

	if _, err := store.Put(context.Background(), filePath, bytes.NewReader([]byte("first"))); err != nil {
		t.Fatalf("put error: %v", err)
	}
	if _, err := store.Put(context.Background(), filePath, bytes.NewReader([]byte("second"))); err != nil {
		t.Fatalf("put error: %v", err)
	}
	data, err := os.ReadFile(filePath)
	if err != nil || string(data) != "second" {
		t.Fatalf("last writer should win, got %q (%v)", data, err)
	}
}

func TestStorePutRejectsFileParent(t *testing.T) {
	store := NewStore()
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}

	_, err := store.Put(context.Background(), filepath.Join(blocker, "child.ttl"), bytes.NewReader([]byte("data")))
	if !errors.Is(err, ErrNotDirectory) {
		t.Fatalf("expected ErrNotDirectory, got %v", err)
	}

	_, err = store.Put(context.Background(), filepath.Join(blocker, "deeper", "child.ttl"), bytes.NewReader([]byte("data")))
	if !errors.Is(err, ErrNotDirectory) {
		t.Fatalf("expected ErrNotDirectory for nested path, got %v", err)
	}
}

func TestStorePutHonoursCancelledContext(t *testing.T) {
	store := NewStore()
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := store.Put(ctx, filepath.Join(dir, "c.ttl"), bytes.NewReader([]byte("data"))); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("temp files should be cleaned up, found %d entries", len(entries))
	}
}
