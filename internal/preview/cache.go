package preview

import "container/list"

// Cache is a bounded key/value cache with least-recently-used eviction.
// Get refreshes recency; Put beyond capacity evicts the coldest entry.
// Not safe for concurrent use; callers serialize access.
type Cache[V any] struct {
	maxSize int
	ll      *list.List
	items   map[string]*list.Element
}

type cacheEntry[V any] struct {
	key   string
	value V
}

// NewCache creates a cache holding at most maxSize entries.
func NewCache[V any](maxSize int) *Cache[V] {
	if maxSize < 1 {
		maxSize = 1
	}
	return &Cache[V]{
		maxSize: maxSize,
		ll:      list.New(),
		items:   make(map[string]*list.Element),
	}
}

// Get returns the cached value and marks it most recently used.
func (c *Cache[V]) Get(key string) (V, bool) {
	if el, ok := c.items[key]; ok {
		c.ll.MoveToFront(el)
		return el.Value.(*cacheEntry[V]).value, true
	}
	var zero V
	return zero, false
}

// Put stores a value, evicting the least recently used entry if full.
func (c *Cache[V]) Put(key string, value V) {
	if el, ok := c.items[key]; ok {
		c.ll.MoveToFront(el)
		el.Value.(*cacheEntry[V]).value = value
		return
	}
	el := c.ll.PushFront(&cacheEntry[V]{key: key, value: value})
	c.items[key] = el
	if c.ll.Len() > c.maxSize {
		oldest := c.ll.Back()
		c.ll.Remove(oldest)
		delete(c.items, oldest.Value.(*cacheEntry[V]).key)
	}
}

// Len returns the number of cached entries.
func (c *Cache[V]) Len() int { return c.ll.Len() }
