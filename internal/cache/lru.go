package cache

import (
	"container/list"
	"sync"

	"github.com/samber/mo"
)

type entry[K comparable, V any] struct {
	key   K
	value V
}

// LRU is a fixed-capacity map that evicts its least recently used entry.
type LRU[K comparable, V any] struct {
	mu       sync.Mutex
	capacity int
	order    *list.List
	items    map[K]*list.Element
}

// New returns an LRU holding at most capacity entries. Capacities below one
// are raised to one.
func New[K comparable, V any](capacity int) *LRU[K, V] {
	return &LRU[K, V]{
		capacity: max(capacity, 1),
		order:    list.New(),
		items:    make(map[K]*list.Element),
	}
}

// Get returns the value for k and marks it most recently used.
func (c *LRU[K, V]) Get(k K) mo.Option[V] {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[k]
	if !ok {
		return mo.None[V]()
	}
	c.order.MoveToBack(el)
	return mo.Some(el.Value.(*entry[K, V]).value)
}

// Put inserts or replaces k, evicting from the oldest end when full.
func (c *LRU[K, V]) Put(k K, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[k]; ok {
		el.Value.(*entry[K, V]).value = v
		c.order.MoveToBack(el)
		return
	}

	c.items[k] = c.order.PushBack(&entry[K, V]{key: k, value: v})
	for c.order.Len() > c.capacity {
		oldest := c.order.Front()
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*entry[K, V]).key)
	}
}

func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Keys lists keys from least to most recently used.
func (c *LRU[K, V]) Keys() []K {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]K, 0, c.order.Len())
	for el := c.order.Front(); el != nil; el = el.Next() {
		keys = append(keys, el.Value.(*entry[K, V]).key)
	}
	return keys
}

func (c *LRU[K, V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	clear(c.items)
}
