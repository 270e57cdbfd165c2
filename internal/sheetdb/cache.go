package sheetdb

import (
	"sync"
	"time"
)

// SnapshotCache keeps one recently loaded snapshot per table. Entries
// expire by wall-clock TTL and the whole cache is cleared after every
// successful mutation. The cache is per process: another instance that
// writes to the same spreadsheet cannot clear ours, so a snapshot may
// be stale for up to one TTL window after a foreign write.
type SnapshotCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]cacheEntry

	now func() time.Time
}

type cacheEntry struct {
	rows    []Row
	fetched time.Time
}

// NewSnapshotCache creates a cache with the given TTL.
func NewSnapshotCache(ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// Get returns the cached snapshot for a table if it has not expired.
func (c *SnapshotCache) Get(table string) ([]Row, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[table]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.fetched) > c.ttl {
		return nil, false
	}
	return entry.rows, true
}

// Put stores a snapshot for a table.
func (c *SnapshotCache) Put(table string, rows []Row) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[table] = cacheEntry{rows: rows, fetched: c.now()}
}

// Invalidate drops every cached snapshot. Mutations clear globally
// rather than per table because a single business operation touches
// several tables (process delete cascades over three).
func (c *SnapshotCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

// Len reports how many snapshots are currently held.
func (c *SnapshotCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
