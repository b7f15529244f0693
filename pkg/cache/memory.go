package cache

import (
	"container/list"
	"sync"
	"time"

	"github.com/turismoguilherme/descubra-ms-sub014/pkg/models"
)

type memoryItem struct {
	key   string
	entry *models.CacheEntry
}

// memoryCache is the in-process tier: a capacity-bounded LRU keyed by
// request hash. Each entry carries its own expiry, set per API type by the
// orchestrator. Safe for concurrent use.
type memoryCache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List
	items    map[string]*list.Element
}

func newMemoryCache(capacity int) *memoryCache {
	if capacity <= 0 {
		capacity = 1
	}
	return &memoryCache{
		capacity: capacity,
		order:    list.New(),
		items:    make(map[string]*list.Element, capacity),
	}
}

// get returns the live entry for a key, bumping its use count. Expired
// entries are removed and reported as absent. The use count is only ever
// written here, under the mutex; callers must not mutate returned entries.
func (c *memoryCache) get(key string, now time.Time) (*models.CacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	element, ok := c.items[key]
	if !ok {
		return nil, false
	}

	item := element.Value.(*memoryItem)
	if item.entry.Expired(now) {
		c.removeElement(element)
		return nil, false
	}

	item.entry.UseCount++
	c.order.MoveToFront(element)
	return item.entry, true
}

// put stores an entry, evicting the least recently used one on overflow.
func (c *memoryCache) put(key string, entry *models.CacheEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if element, ok := c.items[key]; ok {
		element.Value.(*memoryItem).entry = entry
		c.order.MoveToFront(element)
		return
	}

	c.items[key] = c.order.PushFront(&memoryItem{key: key, entry: entry})
	for len(c.items) > c.capacity {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		c.removeElement(oldest)
	}
}

// sweep removes every expired entry and returns how many were dropped.
func (c *memoryCache) sweep(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	var removed int
	for _, element := range c.items {
		if element.Value.(*memoryItem).entry.Expired(now) {
			c.removeElement(element)
			removed++
		}
	}
	return removed
}

func (c *memoryCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *memoryCache) removeElement(element *list.Element) {
	c.order.Remove(element)
	delete(c.items, element.Value.(*memoryItem).key)
}
