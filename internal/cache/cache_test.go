package cache

import (
	"testing"
	"time"
)

func TestCache_GetSet(t *testing.T) {
	c := New[string, int](time.Minute, 0)

	if _, ok := c.Get("missing"); ok {
		t.Error("Get() on empty cache returned a value")
	}

	c.Set("a", 1)
	got, ok := c.Get("a")
	if !ok || got != 1 {
		t.Errorf("Get(a) = %d, %v; want 1, true", got, ok)
	}
}

func TestCache_TTLExpiry(t *testing.T) {
	c := New[string, int](time.Minute, 0)
	now := time.Now()
	c.now = func() time.Time { return now }

	c.Set("a", 1)

	now = now.Add(59 * time.Second)
	if _, ok := c.Get("a"); !ok {
		t.Error("entry expired before its TTL")
	}

	now = now.Add(2 * time.Second)
	if _, ok := c.Get("a"); ok {
		t.Error("entry survived past its TTL")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d after expired read, want 0", c.Len())
	}
}

func TestCache_ZeroTTLNeverExpires(t *testing.T) {
	c := New[string, int](0, 0)
	now := time.Now()
	c.now = func() time.Time { return now }

	c.Set("a", 1)
	now = now.Add(1000 * time.Hour)
	if _, ok := c.Get("a"); !ok {
		t.Error("zero-TTL entry expired")
	}
}

func TestCache_EvictsSoonestExpiring(t *testing.T) {
	c := New[string, int](time.Minute, 2)
	now := time.Now()
	c.now = func() time.Time { return now }

	c.Set("old", 1)
	now = now.Add(10 * time.Second)
	c.Set("mid", 2)
	now = now.Add(10 * time.Second)
	c.Set("new", 3)

	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2 after eviction", c.Len())
	}
	if _, ok := c.Get("old"); ok {
		t.Error("soonest-expiring entry survived eviction")
	}
	if _, ok := c.Get("mid"); !ok {
		t.Error("mid entry was evicted")
	}
	if _, ok := c.Get("new"); !ok {
		t.Error("newest entry was evicted")
	}
}

func TestCache_EvictsExpiredFirst(t *testing.T) {
	c := New[string, int](time.Minute, 2)
	now := time.Now()
	c.now = func() time.Time { return now }

	c.Set("stale", 1)
	now = now.Add(2 * time.Minute)
	c.Set("a", 2)
	c.Set("b", 3)

	if _, ok := c.Get("a"); !ok {
		t.Error("live entry evicted while an expired one existed")
	}
	if _, ok := c.Get("b"); !ok {
		t.Error("live entry evicted while an expired one existed")
	}
}

func TestCache_Overwrite(t *testing.T) {
	c := New[string, int](time.Minute, 0)
	c.Set("a", 1)
	c.Set("a", 2)

	got, _ := c.Get("a")
	if got != 2 {
		t.Errorf("Get(a) = %d, want 2 after overwrite", got)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}
