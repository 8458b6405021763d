package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func waitForWaiters(t *testing.T, g *LoadGroup, key string, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		g.mu.Lock()
		f := g.flights[key]
		got := 0
		if f != nil {
			got = f.waiters
		}
		g.mu.Unlock()
		if got == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected %d waiters on %q", want, key)
}

func TestLoadGroupCallerCancelDoesNotFailOthers(t *testing.T) {
	var g LoadGroup
	started := make(chan struct{})
	release := make(chan struct{})
	loadErr := make(chan error, 1)

	fn := func(ctx context.Context) (interface{}, error) {
		close(started)
		<-release
		loadErr <- ctx.Err()
		return "shared", nil
	}

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstDone := make(chan error, 1)
	go func() {
		_, err := g.Do(firstCtx, "k", fn)
		firstDone <- err
	}()
	<-started

	type result struct {
		val interface{}
		err error
	}
	secondDone := make(chan result, 1)
	go func() {
		val, err := g.Do(context.Background(), "k", fn)
		secondDone <- result{val, err}
	}()
	waitForWaiters(t, &g, "k", 2)

	cancelFirst()
	if err := <-firstDone; !errors.Is(err, context.Canceled) {
		t.Fatalf("first caller should see its own cancellation, got %v", err)
	}

	close(release)
	res := <-secondDone
	if res.err != nil || res.val != "shared" {
		t.Fatalf("second caller should get the shared result, got %v (%v)", res.val, res.err)
	}
	if err := <-loadErr; err != nil {
		t.Fatalf("shared load must not inherit the first caller's cancellation, got %v", err)
	}
}

func TestLoadGroupCancelsWorkWhenAllWaitersLeave(t *testing.T) {
	var g LoadGroup
	cancelled := make(chan struct{})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := g.Do(ctx, "k", func(ctx context.Context) (interface{}, error) {
		<-ctx.Done()
		close(cancelled)
		return nil, ctx.Err()
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}

	select {
	case <-cancelled:
	case <-time.After(2 * time.Second):
		t.Fatalf("abandoned load should be cancelled")
	}

	val, err := g.Do(context.Background(), "k", func(ctx context.Context) (interface{}, error) {
		return "fresh", nil
	})
	if err != nil || val != "fresh" {
		t.Fatalf("new caller should start a fresh load, got %v (%v)", val, err)
	}
}

func TestContentCacheTimeoutOnlyAffectsCaller(t *testing.T) {
	c := NewContentCache("test")
	started := make(chan struct{})
	release := make(chan struct{})
	loader := func(ctx context.Context, key string) ([]byte, error) {
		close(started)
		select {
		case <-release:
			return []byte("late"), nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
	defer cancel()
	firstDone := make(chan error, 1)
	go func() {
		_, err := c.GetOrLoad(ctx, "k", loader)
		firstDone <- err
	}()
	<-started

	secondDone := make(chan error, 1)
	go func() {
		_, err := c.GetOrLoad(context.Background(), "k", loader)
		secondDone <- err
	}()
	waitForWaiters(t, &c.group, "k", 2)

	if err := <-firstDone; !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded for the impatient caller, got %v", err)
	}
	close(release)

	if err := <-secondDone; err != nil {
		t.Fatalf("patient caller should get the content, got %v", err)
	}
	if text, ok := c.Get("k"); !ok || text != "late" {
		t.Fatalf("expected cached content, got %q ok=%v", text, ok)
	}
}
