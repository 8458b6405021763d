package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestContentCacheLoadsOnce(t *testing.T) {
	c := NewContentCache("test")
	calls := 0
	loader := func(ctx context.Context, key string) ([]byte, error) {
		calls++
		return []byte("content of " + key), nil
	}

	for i := 0; i < 2; i++ {
		text, err := c.GetOrLoad(context.Background(), "a.ttl", loader)
		if err != nil {
			t.Fatalf("load error: %v", err)
		}
		if text != "content of a.ttl" {
			t.Fatalf("unexpected content %q", text)
		}
	}
	if calls != 1 {
		t.Fatalf("loader should run once, ran %d times", calls)
	}
	if c.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", c.Len())
	}
}

func TestContentCacheDoesNotCacheFailures(t *testing.T) {
	c := NewContentCache("test")
	boom := errors.New("boom")
	calls := 0
	loader := func(ctx context.Context, key string) ([]byte, error) {
		calls++
		if calls == 1 {
			return nil, boom
		}
		return []byte("ok"), nil
	}

	if _, err := c.GetOrLoad(context.Background(), "k", loader); !errors.Is(err, boom) {
		t.Fatalf("expected loader error, got %v", err)
	}
	if _, ok := c.Get("k"); ok {
		t.Fatalf("failed load must not create an entry")
	}

	text, err := c.GetOrLoad(context.Background(), "k", loader)
	if err != nil || text != "ok" {
		t.Fatalf("retry should succeed, got %q (%v)", text, err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 loader calls, got %d", calls)
	}
}

func TestContentCacheRejectsInvalidUTF8(t *testing.T) {
	c := NewContentCache("test")
	loader := func(ctx context.Context, key string) ([]byte, error) {
		return []byte{0xff, 0xfe, 0xfd}, nil
	}
	if _, err := c.GetOrLoad(context.Background(), "bin", loader); !errors.Is(err, ErrInvalidUTF8) {
		t.Fatalf("expected ErrInvalidUTF8, got %v", err)
	}
	if c.Len() != 0 {
		t.Fatalf("invalid content must not be cached")
	}
}

func TestContentCacheConcurrentLoadsShareResult(t *testing.T) {
	c := NewContentCache("test")
	var calls int32
	release := make(chan struct{})
	loader := func(ctx context.Context, key string) ([]byte, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return []byte("shared"), nil
	}

	var wg sync.WaitGroup
	results := make([]string, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			text, err := c.GetOrLoad(context.Background(), "same", loader)
			if err != nil {
				t.Errorf("load error: %v", err)
			}
			results[i] = text
		}(i)
	}
	close(release)
	wg.Wait()

	if n := atomic.LoadInt32(&calls); n < 1 || n > int32(len(results)) {
		t.Fatalf("unexpected loader call count %d", n)
	}
	for _, text := range results {
		if text != "shared" {
			t.Fatalf("unexpected result %q", text)
		}
	}
	if keys := c.Keys(); len(keys) != 1 || keys[0] != "same" {
		t.Fatalf("unexpected keys %v", keys)
	}
}
