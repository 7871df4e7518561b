package integrity

import (
	"sync"
	"time"

	"github.com/praetorlabs/praetor/internal/domain"
)

// Operation distinguishes cached outcomes for the same entity.
type Operation string

const (
	OpValidate Operation = "validate"
	OpDeepScan Operation = "deep_scan"
)

type cacheKey struct {
	kind domain.Kind
	id   string
	op   Operation
}

type cacheEntry struct {
	issues   []Issue
	storedAt time.Time
}

// ResultCache memoizes per-entity validation outcomes for a bounded time.
// Expired entries are treated as misses on read; there is no background
// eviction because the key space is bounded by guild activity. Each
// validator owns its cache so tests can build isolated engines.
type ResultCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[cacheKey]cacheEntry
	now     func() time.Time
}

func NewResultCache(ttl time.Duration) *ResultCache {
	return &ResultCache{
		ttl:     ttl,
		entries: make(map[cacheKey]cacheEntry),
		now:     time.Now,
	}
}

// Get returns the cached issue list for (kind, id, op), or false on a miss.
// An entry older than the TTL is dropped and reported as a miss.
func (c *ResultCache) Get(kind domain.Kind, id string, op Operation) ([]Issue, bool) {
	key := cacheKey{kind: kind, id: id, op: op}

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.storedAt) > c.ttl {
		delete(c.entries, key)
		return nil, false
	}

	return entry.issues, true
}

// Put stores the issue list for (kind, id, op) with the current timestamp.
func (c *ResultCache) Put(kind domain.Kind, id string, op Operation, issues []Issue) {
	key := cacheKey{kind: kind, id: id, op: op}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{issues: issues, storedAt: c.now()}
}

// Invalidate removes every cached operation for the entity. Called after a
// repair so a subsequent validation cannot observe stale findings.
func (c *ResultCache) Invalidate(kind domain.Kind, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.entries {
		if key.kind == kind && key.id == id {
			delete(c.entries, key)
		}
	}
}

// Clear empties the cache.
func (c *ResultCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[cacheKey]cacheEntry)
}

// Len returns the number of live entries, expired ones included.
func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}
