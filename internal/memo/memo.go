// Package memo provides a small LRU+TTL cache for derived ledger views.
//
// Every derivation is a pure function of (ledger version, profile version,
// goals version, period), so the version vector is baked into the cache key:
// a stale entry can never be served for current state, it simply stops being
// looked up. TTL and size bounds only cap memory for keys that will never be
// asked for again.
package memo

import (
	"container/list"
	"fmt"
	"sync"
	"time"
)

// Key identifies one derivation over one consistent ledger state.
type Key struct {
	Ledger  uint64
	Profile uint64
	Goals   uint64
	Scope   string // derivation name plus any parameter, e.g. "overview:2023-12"
}

func (k Key) String() string {
	return fmt.Sprintf("%d.%d.%d/%s", k.Ledger, k.Profile, k.Goals, k.Scope)
}

// Cache is a mutex-guarded LRU with per-entry expiry.
type Cache[T any] struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	items   map[string]*list.Element
	lru     *list.List
}

type entry[T any] struct {
	key       string
	data      T
	expiresAt time.Time
}

// New creates a cache bounded to maxSize entries, each living at most ttl.
func New[T any](maxSize int, ttl time.Duration) *Cache[T] {
	return &Cache[T]{
		maxSize: maxSize,
		ttl:     ttl,
		items:   make(map[string]*list.Element),
		lru:     list.New(),
	}
}

// Get returns the cached value for k, if present and unexpired.
func (c *Cache[T]) Get(k Key) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	elem, ok := c.items[k.String()]
	if !ok {
		return zero, false
	}
	e := elem.Value.(*entry[T])
	if time.Now().After(e.expiresAt) {
		c.remove(elem)
		return zero, false
	}
	c.lru.MoveToFront(elem)
	return e.data, true
}

// Set stores a value for k, evicting the least recently used entry when the
// cache is over capacity.
func (c *Cache[T]) Set(k Key, data T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := k.String()
	e := &entry[T]{key: key, data: data, expiresAt: time.Now().Add(c.ttl)}
	if elem, ok := c.items[key]; ok {
		elem.Value = e
		c.lru.MoveToFront(elem)
		return
	}
	c.items[key] = c.lru.PushFront(e)
	if c.lru.Len() > c.maxSize {
		if oldest := c.lru.Back(); oldest != nil {
			c.remove(oldest)
		}
	}
}

// Len returns the current number of cached entries.
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// CleanExpired drops every expired entry and returns how many were removed.
func (c *Cache[T]) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	var stale []*list.Element
	for elem := c.lru.Front(); elem != nil; elem = elem.Next() {
		if now.After(elem.Value.(*entry[T]).expiresAt) {
			stale = append(stale, elem)
		}
	}
	for _, elem := range stale {
		c.remove(elem)
	}
	return len(stale)
}

func (c *Cache[T]) remove(elem *list.Element) {
	delete(c.items, elem.Value.(*entry[T]).key)
	c.lru.Remove(elem)
}
