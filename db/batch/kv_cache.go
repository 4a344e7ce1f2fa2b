// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package batch

type (
	// KVStoreCache is a local cache of batched <k, v> for fast query
	KVStoreCache interface {
		// Read retrieves a record
		Read(*kvCacheKey) ([]byte, error)
		// Write puts a record into cache
		Write(*kvCacheKey, []byte)
		// Evict marks a record as deleted
		Evict(*kvCacheKey)
		// Clear clear the cache
		Clear()
		// Clone returns a copy of the cache
		Clone() KVStoreCache
	}

	// kvCacheKey is the key for 2D Map cache
	kvCacheKey struct {
		key1 string
		key2 string
	}

	node struct {
		value   []byte
		deleted bool
	}

	// kvCache implements KVStoreCache interface
	kvCache struct {
		cache map[string]map[string]*node
	}
)

// NewKVCache returns a KVCache
func NewKVCache() KVStoreCache {
	return &kvCache{
		cache: make(map[string]map[string]*node),
	}
}

func (c *kvCache) Read(key *kvCacheKey) ([]byte, error) {
	if ns, ok := c.cache[key.key1]; ok {
		if n, ok := ns[key.key2]; ok {
			if n.deleted {
				return nil, ErrAlreadyDeleted
			}
			return n.value, nil
		}
	}
	return nil, ErrNotExist
}

func (c *kvCache) Write(key *kvCacheKey, v []byte) {
	c.put(key, &node{value: v})
}

func (c *kvCache) Evict(key *kvCacheKey) {
	c.put(key, &node{deleted: true})
}

func (c *kvCache) put(key *kvCacheKey, n *node) {
	if _, ok := c.cache[key.key1]; !ok {
		c.cache[key.key1] = make(map[string]*node)
	}
	c.cache[key.key1][key.key2] = n
}

func (c *kvCache) Clear() {
	c.cache = make(map[string]map[string]*node)
}

// Clone copies the index maps; nodes are never mutated in place so they are shared
func (c *kvCache) Clone() KVStoreCache {
	clone := make(map[string]map[string]*node, len(c.cache))
	for key1, ns := range c.cache {
		m := make(map[string]*node, len(ns))
		for key2, n := range ns {
			m[key2] = n
		}
		clone[key1] = m
	}
	return &kvCache{cache: clone}
}
