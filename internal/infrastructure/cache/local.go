package cache

import (
	"context"
	"sync"
	"time"
)

// LocalCache is a thread-safe in-memory cache with per-entry TTL and LRU
// eviction at a fixed size bound. Expired entries are invalidated lazily at
// read time.
type LocalCache struct {
	items   map[string]*localItem
	lru     *lruList
	maxSize int
	mu      sync.Mutex
}

type localItem struct {
	value     []byte
	expiresAt time.Time
	node      *lruNode
}

type lruList struct {
	head *lruNode
	tail *lruNode
}

type lruNode struct {
	key  string
	prev *lruNode
	next *lruNode
}

func newLRUList() *lruList {
	l := &lruList{head: &lruNode{}, tail: &lruNode{}}
	l.head.next = l.tail
	l.tail.prev = l.head
	return l
}

// NewLocalCache creates a local cache holding at most maxSize entries
func NewLocalCache(maxSize int) *LocalCache {
	if maxSize <= 0 {
		maxSize = 1000
	}
	return &LocalCache{
		items:   make(map[string]*localItem),
		lru:     newLRUList(),
		maxSize: maxSize,
	}
}

// Get retrieves a value, treating expired entries as misses
func (c *LocalCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.items[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(item.expiresAt) {
		c.remove(key, item)
		return nil, false
	}
	c.lru.moveToFront(item.node)
	return item.value, true
}

// Set stores a value with a TTL, evicting the least recently used entry
// when the size bound is exceeded
func (c *LocalCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := time.Now().Add(ttl)
	if existing, ok := c.items[key]; ok {
		existing.value = value
		existing.expiresAt = expiresAt
		c.lru.moveToFront(existing.node)
		return
	}

	node := &lruNode{key: key}
	c.items[key] = &localItem{value: value, expiresAt: expiresAt, node: node}
	c.lru.pushFront(node)

	for len(c.items) > c.maxSize {
		oldest := c.lru.tail.prev
		if oldest == c.lru.head {
			break
		}
		c.remove(oldest.key, c.items[oldest.key])
	}
}

// Delete removes a key
func (c *LocalCache) Delete(_ context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if item, ok := c.items[key]; ok {
		c.remove(key, item)
	}
}

// Len returns the number of entries currently held, expired or not
func (c *LocalCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// remove must be called with the lock held
func (c *LocalCache) remove(key string, item *localItem) {
	delete(c.items, key)
	c.lru.unlink(item.node)
}

func (l *lruList) pushFront(node *lruNode) {
	node.prev = l.head
	node.next = l.head.next
	l.head.next.prev = node
	l.head.next = node
}

func (l *lruList) unlink(node *lruNode) {
	node.prev.next = node.next
	node.next.prev = node.prev
}

func (l *lruList) moveToFront(node *lruNode) {
	l.unlink(node)
	l.pushFront(node)
}
