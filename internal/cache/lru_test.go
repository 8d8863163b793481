package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/meridianai/promptforge/internal/llm"
)

func TestCacheHitAndMiss(t *testing.T) {
	c := New(2, "")
	key := Fingerprint("deconstructor", "prompt", "system")

	if _, ok := c.Get(key); ok {
		t.Fatal("expected miss on empty cache")
	}

	c.Put(key, llm.RoleOutput{Success: true, Content: "result"}, time.Minute)

	value, ok := c.Get(key)
	if !ok {
		t.Fatal("expected hit after Put")
	}
	if value.Content != "result" {
		t.Errorf("expected cached content, got %q", value.Content)
	}

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("expected hits=1 misses=1, got %+v", stats)
	}
}

func TestCacheTTLExpiry(t *testing.T) {
	c := New(2, "")
	key := Fingerprint("diagnoser", "prompt", "")

	c.Put(key, llm.RoleOutput{Success: true, Content: "stale"}, -time.Second)

	if _, ok := c.Get(key); ok {
		t.Fatal("expected expired entry to report a miss")
	}
}

func TestCacheLRUEviction(t *testing.T) {
	c := New(2, "")
	k1 := Fingerprint("a", "1", "")
	k2 := Fingerprint("b", "2", "")
	k3 := Fingerprint("c", "3", "")

	c.Put(k1, llm.RoleOutput{Content: "one"}, time.Minute)
	c.Put(k2, llm.RoleOutput{Content: "two"}, time.Minute)

	// touch k1 so it is most-recently-used, leaving k2 as the eviction candidate
	c.Get(k1)
	c.Put(k3, llm.RoleOutput{Content: "three"}, time.Minute)

	if _, ok := c.Get(k2); ok {
		t.Error("expected k2 to be evicted as least-recently-used")
	}
	if _, ok := c.Get(k1); !ok {
		t.Error("expected k1 to survive eviction")
	}
}

func TestCachePersistenceRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.gob")
	key := Fingerprint("evaluator", "prompt", "")

	c1 := New(4, path)
	c1.Put(key, llm.RoleOutput{Success: true, Content: "persisted"}, time.Hour)

	c2 := New(4, path)
	value, ok := c2.Get(key)
	if !ok {
		t.Fatal("expected snapshot to restore the entry")
	}
	if value.Content != "persisted" {
		t.Errorf("expected restored content, got %q", value.Content)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected snapshot file to exist: %v", err)
	}
}
