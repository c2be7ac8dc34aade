package xref

import (
	"container/list"

	"github.com/corepdf/corepdf/model"
)

// objectCache is the object-resolution cache policy: either unbounded or
// a fixed-capacity LRU that evicts on overflow and records hit/miss
// statistics.
type objectCache interface {
	get(ref model.Ref) (model.Object, bool)
	set(ref model.Ref, obj model.Object)
	stats() CacheStats
}

// CacheStats reports cumulative hit/miss counts for the object cache.
type CacheStats struct {
	Hits   int64
	Misses int64
}

type unboundedCache struct {
	entries map[model.Ref]model.Object
	CacheStats
}

func newUnboundedCache() *unboundedCache {
	return &unboundedCache{entries: map[model.Ref]model.Object{}}
}

func (c *unboundedCache) get(ref model.Ref) (model.Object, bool) {
	o, ok := c.entries[ref]
	if ok {
		c.Hits++
	} else {
		c.Misses++
	}
	return o, ok
}

func (c *unboundedCache) set(ref model.Ref, obj model.Object) { c.entries[ref] = obj }

func (c *unboundedCache) stats() CacheStats { return c.CacheStats }

// lruCache is a fixed-capacity cache evicting the least-recently-used
// entry on overflow, for long-running processes that touch more objects
// than they want to keep resident.
type lruCache struct {
	capacity int
	ll       *list.List // front = most recently used
	index    map[model.Ref]*list.Element
	CacheStats
}

type lruEntry struct {
	ref model.Ref
	obj model.Object
}

func newLRUCache(capacity int) *lruCache {
	return &lruCache{capacity: capacity, ll: list.New(), index: map[model.Ref]*list.Element{}}
}

func (c *lruCache) get(ref model.Ref) (model.Object, bool) {
	el, ok := c.index[ref]
	if !ok {
		c.Misses++
		return nil, false
	}
	c.Hits++
	c.ll.MoveToFront(el)
	return el.Value.(lruEntry).obj, true
}

func (c *lruCache) set(ref model.Ref, obj model.Object) {
	if el, ok := c.index[ref]; ok {
		el.Value = lruEntry{ref: ref, obj: obj}
		c.ll.MoveToFront(el)
		return
	}
	el := c.ll.PushFront(lruEntry{ref: ref, obj: obj})
	c.index[ref] = el
	if c.ll.Len() > c.capacity {
		oldest := c.ll.Back()
		if oldest != nil {
			c.ll.Remove(oldest)
			delete(c.index, oldest.Value.(lruEntry).ref)
		}
	}
}

func (c *lruCache) stats() CacheStats { return c.CacheStats }
