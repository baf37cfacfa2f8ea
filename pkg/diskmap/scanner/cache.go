package scanner

import (
	"sync"
	"sync/atomic"

	"github.com/rfowler/diskmap/pkg/diskmap/types"
)

// Cache is a concurrent path-keyed metadata cache with compute-once
// semantics. Concurrent callers for the same uncached path agree on a single
// computation, so counter side effects inside the compute function happen
// exactly once per path.
type Cache struct {
	mu    sync.Mutex
	slots map[string]*cacheSlot
}

// cacheSlot is a per-path future: the first caller runs the compute
// function, later callers wait on the Once and read the stored entry.
type cacheSlot struct {
	once  sync.Once
	entry atomic.Pointer[types.Entry]
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		slots: make(map[string]*cacheSlot),
	}
}

// slot returns the slot for path, creating it if absent.
func (c *Cache) slot(path string) *cacheSlot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.slots[path]
	if !ok {
		s = &cacheSlot{}
		c.slots[path] = s
	}
	return s
}

// GetOrCompute returns the cached entry for path, computing and caching it
// on first use. The compute function runs at most once per path across all
// goroutines.
func (c *Cache) GetOrCompute(path string, compute func() *types.Entry) *types.Entry {
	s := c.slot(path)
	s.once.Do(func() {
		s.entry.Store(compute())
	})
	return s.entry.Load()
}

// Replace overwrites the entry for path. Used to swap a directory
// placeholder for an error entry when listing the directory fails.
func (c *Cache) Replace(path string, entry *types.Entry) {
	s := c.slot(path)
	s.once.Do(func() {})
	s.entry.Store(entry)
}

// Get returns the cached entry for path, if any.
func (c *Cache) Get(path string) (*types.Entry, bool) {
	c.mu.Lock()
	s, ok := c.slots[path]
	c.mu.Unlock()

	if !ok {
		return nil, false
	}
	entry := s.entry.Load()
	return entry, entry != nil
}

// Len returns the number of resolved entries.
func (c *Cache) Len() int {
	return len(c.Entries())
}

// Entries returns a snapshot of all resolved entries keyed by path.
func (c *Cache) Entries() map[string]*types.Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries := make(map[string]*types.Entry, len(c.slots))
	for path, s := range c.slots {
		if entry := s.entry.Load(); entry != nil {
			entries[path] = entry
		}
	}
	return entries
}
