package health

import (
	"sync"
	"time"
)

// snapshotCache holds the most recently published snapshot. It is the
// only mutable shared state in the package. The lock is held for a
// timestamp comparison or a value swap, never across probe execution.
type snapshotCache struct {
	mu   sync.RWMutex
	snap Snapshot
}

// get returns the stored snapshot iff it is at most ttl old at the
// given instant. The zero Timestamp means no run has ever published;
// its age is treated as infinite. The returned snapshot shares its
// Results map with the cache, which is safe because published
// snapshots are never mutated.
func (c *snapshotCache) get(now time.Time, ttl time.Duration) (Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.snap.Timestamp.IsZero() {
		return Snapshot{}, false
	}
	if now.Sub(c.snap.Timestamp) > ttl {
		return Snapshot{}, false
	}
	return c.snap, true
}

// put replaces the stored snapshot. Publishes are all-or-nothing: a
// snapshot is always a complete run. Overlapping runs race here and
// last-writer-wins, which is fine since every run recomputes the full
// check set.
func (c *snapshotCache) put(snap Snapshot) {
	c.mu.Lock()
	c.snap = snap
	c.mu.Unlock()
}
