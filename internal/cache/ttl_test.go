package cache

import (
	"testing"
	"time"
)

func TestTTLCacheGetSet(t *testing.T) {
	c := NewTTL[string, int](time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Error("missing key should not be found")
	}

	c.Set("a", 42)
	if v, ok := c.Get("a"); !ok || v != 42 {
		t.Errorf("expected 42, got %v (ok=%v)", v, ok)
	}
}

func TestTTLCacheExpiry(t *testing.T) {
	c := NewTTL[string, int](time.Minute)

	now := time.Date(2026, time.August, 1, 12, 0, 0, 0, time.UTC)
	c.SetClock(func() time.Time { return now })

	c.Set("a", 7)
	if _, ok := c.Get("a"); !ok {
		t.Error("fresh entry should be found")
	}

	now = now.Add(2 * time.Minute)
	if _, ok := c.Get("a"); ok {
		t.Error("expired entry should not be found")
	}

	// Stale reads still see the expired value
	if v, ok := c.Stale("a"); !ok || v != 7 {
		t.Errorf("stale read should return the expired value, got %v (ok=%v)", v, ok)
	}
	if _, ok := c.Stale("never"); ok {
		t.Error("stale read of a missing key should not be found")
	}
}

func TestTTLCacheOverwrite(t *testing.T) {
	c := NewTTL[string, string](time.Minute)
	c.Set("k", "old")
	c.Set("k", "new")
	if v, _ := c.Get("k"); v != "new" {
		t.Errorf("set should overwrite, got %q", v)
	}
}
