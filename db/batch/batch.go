// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package batch

import (
	"sync"

	"github.com/pkg/errors"
)

var (
	// ErrNotExist indicates certain item does not exist in the cache
	ErrNotExist = errors.New("not exist in cache")
	// ErrAlreadyDeleted indicates the key has been deleted
	ErrAlreadyDeleted = errors.New("already deleted from cache")
	// ErrOutOfBound indicates an out of bound index
	ErrOutOfBound = errors.New("out of bound")
)

type (
	// KVStoreBatch defines a batch buffer interface that stages Put/Delete entries in sequential order
	// To use it, first start a new batch
	// b := NewBatch()
	// and keep batching Put/Delete operation into it
	// b.Put(bucket, k, v)
	// b.Delete(bucket, k, v)
	// once it's done, call KVStore interface's WriteBatch() to persist to underlying DB
	// KVStore.WriteBatch(b)
	KVStoreBatch interface {
		// Lock locks the batch
		Lock()
		// Unlock unlocks the batch
		Unlock()
		// ClearAndUnlock clears the write queue and unlocks the batch
		ClearAndUnlock()
		// Put insert or update a record identified by (namespace, key)
		Put(string, []byte, []byte, string, ...interface{})
		// Delete deletes a record by (namespace, key)
		Delete(string, []byte, string, ...interface{})
		// Size returns the size of batch
		Size() int
		// Entry returns the entry at the index
		Entry(int) (*WriteInfo, error)
		// Clear clears entries staged in batch
		Clear()
	}

	// CachedBatch derives from Batch interface
	// A local cache is added to provide fast retrieval of pending Put/Delete entries
	CachedBatch interface {
		KVStoreBatch
		// Get gets a record by (namespace, key)
		Get(string, []byte) ([]byte, error)
		// Snapshot takes a snapshot of current cached batch
		Snapshot() int
		// RevertSnapshot sets the cached batch to the state at the given snapshot
		RevertSnapshot(int) error
		// ResetSnapshots clears all snapshots
		ResetSnapshots()
	}

	// baseKVStoreBatch is the base implementation of KVStoreBatch
	baseKVStoreBatch struct {
		mutex      sync.RWMutex
		writeQueue []*WriteInfo
	}

	snapshot struct {
		size  int
		cache KVStoreCache
	}

	// cachedBatch implements the CachedBatch interface
	cachedBatch struct {
		*baseKVStoreBatch
		lock      sync.RWMutex
		cache     KVStoreCache
		snapshots []snapshot
	}
)

// NewBatch returns a batch
func NewBatch() KVStoreBatch {
	return &baseKVStoreBatch{}
}

// Lock locks the batch
func (b *baseKVStoreBatch) Lock() {
	b.mutex.Lock()
}

// Unlock unlocks the batch
func (b *baseKVStoreBatch) Unlock() {
	b.mutex.Unlock()
}

// ClearAndUnlock clears the write queue and unlocks the batch
func (b *baseKVStoreBatch) ClearAndUnlock() {
	defer b.mutex.Unlock()
	b.writeQueue = nil
}

// Put inserts a <key, value> record
func (b *baseKVStoreBatch) Put(namespace string, key, value []byte, errorFormat string, errorArgs ...interface{}) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.batch(Put, namespace, key, value, errorFormat, errorArgs...)
}

// Delete deletes a record
func (b *baseKVStoreBatch) Delete(namespace string, key []byte, errorFormat string, errorArgs ...interface{}) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.batch(Delete, namespace, key, nil, errorFormat, errorArgs...)
}

// Size returns the size of batch
func (b *baseKVStoreBatch) Size() int {
	return len(b.writeQueue)
}

// Entry returns the entry at the index
func (b *baseKVStoreBatch) Entry(index int) (*WriteInfo, error) {
	if index < 0 || index >= len(b.writeQueue) {
		return nil, errors.Wrapf(ErrOutOfBound, "index %d", index)
	}
	return b.writeQueue[index], nil
}

// Clear clear write queue
func (b *baseKVStoreBatch) Clear() {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.writeQueue = nil
}

func (b *baseKVStoreBatch) batch(op WriteType, namespace string, key, value []byte, errorFormat string, errorArgs ...interface{}) {
	b.writeQueue = append(b.writeQueue, NewWriteInfo(op, namespace, key, value, errorFormat, errorArgs...))
}

func (b *baseKVStoreBatch) truncate(size int) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.writeQueue = b.writeQueue[:size]
}

// NewCachedBatch returns a new cached batch buffer
func NewCachedBatch() CachedBatch {
	return &cachedBatch{
		baseKVStoreBatch: &baseKVStoreBatch{},
		cache:            NewKVCache(),
	}
}

// Put inserts a <key, value> record
func (cb *cachedBatch) Put(namespace string, key, value []byte, errorFormat string, errorArgs ...interface{}) {
	cb.lock.Lock()
	defer cb.lock.Unlock()
	cb.cache.Write(&kvCacheKey{namespace, string(key)}, value)
	cb.baseKVStoreBatch.Put(namespace, key, value, errorFormat, errorArgs...)
}

// Delete deletes a record
func (cb *cachedBatch) Delete(namespace string, key []byte, errorFormat string, errorArgs ...interface{}) {
	cb.lock.Lock()
	defer cb.lock.Unlock()
	cb.cache.Evict(&kvCacheKey{namespace, string(key)})
	cb.baseKVStoreBatch.Delete(namespace, key, errorFormat, errorArgs...)
}

// Clear clear the cached batch buffer
func (cb *cachedBatch) Clear() {
	cb.lock.Lock()
	defer cb.lock.Unlock()
	cb.cache.Clear()
	cb.snapshots = nil
	cb.baseKVStoreBatch.Clear()
}

// Get retrieves a record
func (cb *cachedBatch) Get(namespace string, key []byte) ([]byte, error) {
	cb.lock.RLock()
	defer cb.lock.RUnlock()
	return cb.cache.Read(&kvCacheKey{namespace, string(key)})
}

// Snapshot takes a snapshot of current cached batch
func (cb *cachedBatch) Snapshot() int {
	cb.lock.Lock()
	defer cb.lock.Unlock()
	cb.snapshots = append(cb.snapshots, snapshot{
		size:  cb.baseKVStoreBatch.Size(),
		cache: cb.cache.Clone(),
	})
	return len(cb.snapshots) - 1
}

// RevertSnapshot sets the cached batch to the state at the given snapshot, later snapshots are dropped
func (cb *cachedBatch) RevertSnapshot(s int) error {
	cb.lock.Lock()
	defer cb.lock.Unlock()
	if s < 0 || s >= len(cb.snapshots) {
		return errors.Wrapf(ErrOutOfBound, "invalid snapshot %d", s)
	}
	snap := cb.snapshots[s]
	cb.baseKVStoreBatch.truncate(snap.size)
	cb.cache = snap.cache.Clone()
	cb.snapshots = cb.snapshots[:s+1]
	return nil
}

// ResetSnapshots clears all snapshots
func (cb *cachedBatch) ResetSnapshots() {
	cb.lock.Lock()
	defer cb.lock.Unlock()
	cb.snapshots = nil
}
