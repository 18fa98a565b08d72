// Package cache holds recently fetched, not-yet-confirmed search results so
// a later save does not require re-fetching. Entries are addressed by opaque
// handles and expire by age: an entry represents a fact fetched at time T,
// so its validity window follows the fetch time, not last access.
package cache

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/petasbytes/news-agent/internal/searchweb"
)

// Result is one cached search result. Immutable once created.
type Result struct {
	Handle    string
	Query     string
	Answer    string
	Sources   []searchweb.SourceRef
	CreatedAt time.Time
}

type entry struct {
	res Result
	seq uint64
}

// Cache is a mutex-guarded handle -> Result map with a TTL bound and a
// capacity bound. Handles are 128-bit random tokens and are never reused.
type Cache struct {
	mu       sync.Mutex
	ttl      time.Duration
	capacity int
	entries  map[string]entry
	seq      uint64
	now      func() time.Time
}

func New(ttl time.Duration, capacity int) *Cache {
	return &Cache{
		ttl:      ttl,
		capacity: capacity,
		entries:  make(map[string]entry),
		now:      time.Now,
	}
}

// Put stores a new result and returns its fresh handle.
func (c *Cache) Put(query, answer string, sources []searchweb.SourceRef) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	handle := uuid.NewString()
	srcs := make([]searchweb.SourceRef, len(sources))
	copy(srcs, sources)

	now := c.now()
	c.seq++
	c.entries[handle] = entry{
		res: Result{
			Handle:    handle,
			Query:     query,
			Answer:    answer,
			Sources:   srcs,
			CreatedAt: now,
		},
		seq: c.seq,
	}
	c.cleanupLocked(now)
	return handle
}

// Get returns the result for handle, if present and fresh. An entry older
// than the TTL is treated as absent and dropped when encountered, so expiry
// holds even if no Cleanup pass has run since the entry went stale.
func (c *Cache) Get(handle string) (Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[handle]
	if !ok {
		return Result{}, false
	}
	if c.now().Sub(e.res.CreatedAt) > c.ttl {
		delete(c.entries, handle)
		return Result{}, false
	}
	return e.res, true
}

// Cleanup removes every entry whose age at now exceeds the TTL, then trims
// the oldest-created entries until the cache is at or below capacity. The
// age pass always runs first so capacity pressure only ever chooses among
// entries that survived it, oldest first.
func (c *Cache) Cleanup(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cleanupLocked(now)
}

// Len reports the current entry count.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) cleanupLocked(now time.Time) {
	for h, e := range c.entries {
		if now.Sub(e.res.CreatedAt) > c.ttl {
			delete(c.entries, h)
		}
	}

	excess := len(c.entries) - c.capacity
	if excess <= 0 {
		return
	}
	survivors := make([]entry, 0, len(c.entries))
	for _, e := range c.entries {
		survivors = append(survivors, e)
	}
	sort.Slice(survivors, func(i, j int) bool {
		if !survivors[i].res.CreatedAt.Equal(survivors[j].res.CreatedAt) {
			return survivors[i].res.CreatedAt.Before(survivors[j].res.CreatedAt)
		}
		return survivors[i].seq < survivors[j].seq
	})
	for _, e := range survivors[:excess] {
		delete(c.entries, e.res.Handle)
	}
}
