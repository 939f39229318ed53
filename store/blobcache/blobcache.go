// Package blobcache implements a small sharded read cache for recently
// fetched blob bytes, keyed by content hash. It plays the role the teacher
// codebase assigns to store/filecache.FileCache: cut repeat opens of hot
// blobs without a single global lock serializing every reader.
package blobcache

import (
	"container/list"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/rpcpool/hashio/hash"
)

const shardCount = 16

// Cache is a fixed-capacity, shard-striped LRU keyed by hash.Hash32.
type Cache struct {
	shards [shardCount]*shard
}

type shard struct {
	mu       sync.Mutex
	capacity int
	ll       *list.List
	items    map[hash.Hash32]*list.Element
}

type entry struct {
	key hash.Hash32
	val []byte
}

// New builds a cache holding up to capacity blobs in total, spread evenly
// across shards. capacity <= 0 disables caching entirely (every shard has
// zero capacity, so nothing is ever retained).
func New(capacity int) *Cache {
	c := &Cache{}
	perShard := capacity / shardCount
	for i := range c.shards {
		c.shards[i] = &shard{
			capacity: perShard,
			ll:       list.New(),
			items:    make(map[hash.Hash32]*list.Element),
		}
	}
	return c
}

func (c *Cache) shardFor(h hash.Hash32) *shard {
	sum := xxhash.Sum64(h[:])
	return c.shards[sum%uint64(shardCount)]
}

// Get returns a cached copy of the blob bytes for h, if present.
func (c *Cache) Get(h hash.Hash32) ([]byte, bool) {
	s := c.shardFor(h)
	s.mu.Lock()
	defer s.mu.Unlock()
	el, ok := s.items[h]
	if !ok {
		return nil, false
	}
	s.ll.MoveToFront(el)
	return el.Value.(*entry).val, true
}

// Put seeds the cache with bytes for h, evicting the least-recently-used
// entry in h's shard if it is over capacity.
func (c *Cache) Put(h hash.Hash32, b []byte) {
	s := c.shardFor(h)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.capacity <= 0 {
		return
	}
	if el, ok := s.items[h]; ok {
		el.Value.(*entry).val = b
		s.ll.MoveToFront(el)
		return
	}
	el := s.ll.PushFront(&entry{key: h, val: b})
	s.items[h] = el
	for s.ll.Len() > s.capacity {
		oldest := s.ll.Back()
		if oldest == nil {
			break
		}
		s.ll.Remove(oldest)
		delete(s.items, oldest.Value.(*entry).key)
	}
}

// Remove drops h from the cache, if present.
func (c *Cache) Remove(h hash.Hash32) {
	s := c.shardFor(h)
	s.mu.Lock()
	defer s.mu.Unlock()
	if el, ok := s.items[h]; ok {
		s.ll.Remove(el)
		delete(s.items, h)
	}
}
