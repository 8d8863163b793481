// Package cache implements the Response Cache: a bounded, thread-safe LRU with
// per-entry TTL over fingerprinted (role, user, system) triples, and an optional
// best-effort disk snapshot.
package cache

import (
	"container/list"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"log"
	"os"
	"sync"
	"time"

	"github.com/meridianai/promptforge/internal/llm"
)

// Fingerprint computes the cache key sha256(role \0 user_prompt \0 system_prompt).
func Fingerprint(role, userPrompt, systemPrompt string) string {
	h := sha256.New()
	h.Write([]byte(role))
	h.Write([]byte{0})
	h.Write([]byte(userPrompt))
	h.Write([]byte{0})
	h.Write([]byte(systemPrompt))
	return hex.EncodeToString(h.Sum(nil))
}

type entry struct {
	key       string
	value     llm.RoleOutput
	expiresAt time.Time
}

// snapshotEntry is the gob-encoded on-disk representation of one cache entry.
type snapshotEntry struct {
	Key       string
	Value     llm.RoleOutput
	ExpiresAt time.Time
}

// Stats reports cumulative hit/miss counters and current occupancy.
type Stats struct {
	Hits     int64
	Misses   int64
	Size     int
	Capacity int
}

// Cache is a bounded LRU keyed by Fingerprint, with TTL-on-read eviction. When
// persistPath is non-empty, every mutation triggers a best-effort gob snapshot write.
type Cache struct {
	mu          sync.Mutex
	capacity    int
	ll          *list.List
	items       map[string]*list.Element
	hits        int64
	misses      int64
	persistPath string
}

// New constructs a cache bounded at capacity entries. When persistPath is non-empty, a
// prior snapshot is loaded immediately, discarding entries whose TTL has already
// elapsed.
func New(capacity int, persistPath string) *Cache {
	c := &Cache{
		capacity:    capacity,
		ll:          list.New(),
		items:       make(map[string]*list.Element),
		persistPath: persistPath,
	}
	if persistPath != "" {
		c.loadSnapshot()
	}
	return c
}

// Get returns the cached value for key. An expired entry is removed and reported as a
// miss.
func (c *Cache) Get(key string) (llm.RoleOutput, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		c.misses++
		return llm.RoleOutput{}, false
	}
	e := el.Value.(*entry)
	if time.Now().After(e.expiresAt) {
		c.ll.Remove(el)
		delete(c.items, key)
		c.misses++
		return llm.RoleOutput{}, false
	}
	c.ll.MoveToFront(el)
	c.hits++
	return e.value, true
}

// Put inserts or refreshes key with the given TTL, evicting the least-recently-used
// entry if the store is at capacity.
func (c *Cache) Put(key string, value llm.RoleOutput, ttl time.Duration) {
	c.mu.Lock()
	if el, ok := c.items[key]; ok {
		c.ll.MoveToFront(el)
		e := el.Value.(*entry)
		e.value = value
		e.expiresAt = time.Now().Add(ttl)
	} else {
		e := &entry{key: key, value: value, expiresAt: time.Now().Add(ttl)}
		el := c.ll.PushFront(e)
		c.items[key] = el
		if c.ll.Len() > c.capacity {
			c.evictOldestLocked()
		}
	}
	c.mu.Unlock()

	c.persist()
}

// Delete removes key, if present.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	if el, ok := c.items[key]; ok {
		c.ll.Remove(el)
		delete(c.items, key)
	}
	c.mu.Unlock()

	c.persist()
}

// Stats returns a point-in-time snapshot of the hit/miss counters and occupancy.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{Hits: c.hits, Misses: c.misses, Size: c.ll.Len(), Capacity: c.capacity}
}

func (c *Cache) evictOldestLocked() {
	oldest := c.ll.Back()
	if oldest == nil {
		return
	}
	c.ll.Remove(oldest)
	delete(c.items, oldest.Value.(*entry).key)
}

func (c *Cache) persist() {
	if c.persistPath == "" {
		return
	}

	c.mu.Lock()
	snapshot := make([]snapshotEntry, 0, c.ll.Len())
	for el := c.ll.Front(); el != nil; el = el.Next() {
		e := el.Value.(*entry)
		snapshot = append(snapshot, snapshotEntry{Key: e.key, Value: e.value, ExpiresAt: e.expiresAt})
	}
	c.mu.Unlock()

	f, err := os.Create(c.persistPath)
	if err != nil {
		log.Printf("[cache] snapshot write failed: %v", err)
		return
	}
	defer f.Close()
	if err := gob.NewEncoder(f).Encode(snapshot); err != nil {
		log.Printf("[cache] snapshot encode failed: %v", err)
	}
}

func (c *Cache) loadSnapshot() {
	f, err := os.Open(c.persistPath)
	if err != nil {
		return
	}
	defer f.Close()

	var snapshot []snapshotEntry
	if err := gob.NewDecoder(f).Decode(&snapshot); err != nil {
		log.Printf("[cache] snapshot load failed: %v", err)
		return
	}

	now := time.Now()
	loaded := 0
	for _, se := range snapshot {
		if now.After(se.ExpiresAt) {
			continue
		}
		if c.ll.Len() >= c.capacity {
			break
		}
		e := &entry{key: se.Key, value: se.Value, expiresAt: se.ExpiresAt}
		el := c.ll.PushFront(e)
		c.items[se.Key] = el
		loaded++
	}
	log.Printf("[cache] restored %d entries from %s", loaded, c.persistPath)
}
