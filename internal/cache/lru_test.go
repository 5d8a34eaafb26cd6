package cache

import (
	"context"
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) Now() time.Time          { return f.t }
func (f *fakeClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestCache(size int, ttl time.Duration) (*LRUCache[string], *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	c := NewLRUCache[string](size, ttl)
	c.now = clock.Now
	return c, clock
}

func TestLRUCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c, _ := newTestCache(2, time.Hour)

	c.Set("a", "1")
	c.Set("b", "2")
	if _, ok := c.Get("a"); !ok {
		t.Fatal("expected a to be cached")
	}
	c.Set("c", "3")

	if _, ok := c.Get("b"); ok {
		t.Error("expected b to be evicted")
	}
	if v, ok := c.Get("a"); !ok || v != "1" {
		t.Errorf("Get(a) = %q, %v", v, ok)
	}
	if c.Size() != 2 {
		t.Errorf("Size() = %d, want 2", c.Size())
	}
}

func TestLRUCacheExpiry(t *testing.T) {
	c, clock := newTestCache(10, time.Minute)

	c.Set("k", "v")
	clock.Advance(30 * time.Second)
	if _, ok := c.Get("k"); !ok {
		t.Fatal("expected k before ttl")
	}
	clock.Advance(time.Minute)
	if _, ok := c.Get("k"); ok {
		t.Error("expected k to expire")
	}
	if c.Size() != 0 {
		t.Errorf("expired item should be removed on read, size %d", c.Size())
	}
}

func TestLRUCacheZeroTTLNeverExpires(t *testing.T) {
	c, clock := newTestCache(10, 0)
	c.Set("k", "v")
	clock.Advance(24 * 365 * time.Hour)
	if _, ok := c.Get("k"); !ok {
		t.Error("zero ttl should keep items")
	}
}

func TestLRUCacheOverwriteAndDelete(t *testing.T) {
	c, _ := newTestCache(10, time.Hour)
	c.Set("k", "old")
	c.Set("k", "new")
	if v, _ := c.Get("k"); v != "new" {
		t.Errorf("Get(k) = %q, want new", v)
	}
	c.Delete("k")
	c.Delete("missing")
	if c.Size() != 0 {
		t.Errorf("Size() = %d after delete", c.Size())
	}
}

func TestManagerSweep(t *testing.T) {
	c, clock := newTestCache(10, time.Minute)
	c.Set("a", "1")
	c.Set("b", "2")
	clock.Advance(2 * time.Minute)
	c.Set("c", "3")

	m := NewManager(nil)
	m.Register("advice", c)

	if got := m.Sweep(); got != 2 {
		t.Errorf("Sweep() = %d, want 2", got)
	}
	if c.Size() != 1 {
		t.Errorf("Size() = %d, want 1", c.Size())
	}
}

func TestManagerRunStopsWithContext(t *testing.T) {
	m := NewManager(nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx, time.Millisecond) }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
