package cache

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Konsultn-Engineering/edgesql/engine"
)

// DefaultSize is the number of compiled queries kept when no size is given.
const DefaultSize = 256

type entry struct {
	key   string
	query *engine.Query
}

// Compiled keeps recently compiled queries so that compiling the same
// configuration again reuses the immutable engine.Query.
type Compiled struct {
	cache *lru.Cache[uint64, entry]
	mu    sync.RWMutex
}

// NewCompiled creates a cache holding up to size queries.
func NewCompiled(size int) *Compiled {
	if size <= 0 {
		size = DefaultSize
	}
	cache, _ := lru.New[uint64, entry](size)
	return &Compiled{cache: cache}
}

// Get returns the query compiled for key, if cached.
func (c *Compiled) Get(key Key) (*engine.Query, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if e, ok := c.cache.Get(key.Fingerprint()); ok && e.key == key.String() {
		return e.query, true
	}
	return nil, false
}

// GetOrCompile returns the cached query for key or compiles and caches
// it. Compile errors are not cached.
func (c *Compiled) GetOrCompile(key Key, compile func() (*engine.Query, error)) (*engine.Query, error) {
	fp, id := key.Fingerprint(), key.String()

	// Fast path: try to get from cache with read lock
	c.mu.RLock()
	if e, ok := c.cache.Get(fp); ok && e.key == id {
		c.mu.RUnlock()
		return e.query, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock
	if e, ok := c.cache.Get(fp); ok && e.key == id {
		return e.query, nil
	}

	q, err := compile()
	if err != nil {
		return nil, err
	}
	c.cache.Add(fp, entry{key: id, query: q})
	return q, nil
}

// Len reports the number of cached queries.
func (c *Compiled) Len() int {
	return c.cache.Len()
}

// Purge drops every cached query.
func (c *Compiled) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Purge()
}
