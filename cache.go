// Copyright 2022 Bogdan Constantinescu.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://github.com/actforgood/xconf/LICENSE.

package scle

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheCapacity bounds the Configuration Cache's backing LRU so a
// long editor session that touches thousands of scratch files doesn't grow
// memory without bound. Entries otherwise live until process shutdown.
const DefaultCacheCapacity = 10000

// store backs both the Configuration Cache (C2) and the Pending Slot (C3).
// They share one mutex so markStale/store can remove a Pending entry
// atomically.
type store struct {
	mu      sync.Mutex
	applied *lru.Cache[FileKey, CachedEntry]
	pending map[FileKey]LoadedConfiguration
}

func newStore(capacity int) *store {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	applied, err := lru.New[FileKey, CachedEntry](capacity)
	if err != nil {
		// lru.New only errors on size <= 0, already guarded above.
		panic(err)
	}

	return &store{
		applied: applied,
		pending: make(map[FileKey]LoadedConfiguration),
	}
}

// ConfigurationCache is the Configuration Cache (C2): an in-memory mapping
// from file identity to the currently applied (Inputs, Configuration) pair.
type ConfigurationCache struct {
	s *store
}

// Get returns the applied entry for fileKey, if any.
func (c ConfigurationCache) Get(fileKey FileKey) (CachedEntry, bool) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	return c.s.applied.Get(fileKey)
}

// Put stores (overwrites) the applied entry for fileKey, and atomically
// removes any Pending entry for the same key.
func (c ConfigurationCache) Put(fileKey FileKey, entry CachedEntry) {
	c.s.mu.Lock()
	c.s.applied.Add(fileKey, entry)
	delete(c.s.pending, fileKey)
	c.s.mu.Unlock()
}

// Remove evicts the applied entry for fileKey, used to roll back a file's
// first apply when its reindex transaction failed: the configuration must
// never end up in the cache in that case.
func (c ConfigurationCache) Remove(fileKey FileKey) {
	c.s.mu.Lock()
	c.s.applied.Remove(fileKey)
	c.s.mu.Unlock()
}

// MarkStale signals that the applied entry's freshness must be re-checked
// on next access. The cache doesn't track a stale bit explicitly (every
// freshness check re-queries the live file via StampProvider anyway); what
// MarkStale must guarantee is that it evicts any Pending entry for the
// same key atomically with any concurrent store/markStale for that key.
func (c ConfigurationCache) MarkStale(fileKey FileKey) {
	c.s.mu.Lock()
	delete(c.s.pending, fileKey)
	c.s.mu.Unlock()
}

// All iterates every currently applied entry, for a host that re-scans
// roots for all tracked files. The engine itself does not call it.
func (c ConfigurationCache) All(fn func(FileKey, CachedEntry) bool) {
	c.s.mu.Lock()
	keys := c.s.applied.Keys()
	snapshot := make(map[FileKey]CachedEntry, len(keys))
	for _, k := range keys {
		if entry, ok := c.s.applied.Peek(k); ok {
			snapshot[k] = entry
		}
	}
	c.s.mu.Unlock()

	for k, v := range snapshot {
		if !fn(k, v) {
			return
		}
	}
}

// PendingSlot is the Pending Slot (C3): a per-file mapping of files whose
// newly loaded configuration is awaiting user acceptance. Entries here are
// advisory/weak: the environment may clear them at any time.
type PendingSlot struct {
	s *store
}

// Get returns the pending load for fileKey, if any.
func (p PendingSlot) Get(fileKey FileKey) (LoadedConfiguration, bool) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()

	loaded, ok := p.s.pending[fileKey]

	return loaded, ok
}

// Put stores a pending load, superseding any previous one for the key.
func (p PendingSlot) Put(fileKey FileKey, loaded LoadedConfiguration) {
	p.s.mu.Lock()
	p.s.pending[fileKey] = loaded
	p.s.mu.Unlock()
}

// Remove clears the pending load for fileKey (dismiss, or superseded by an
// apply).
func (p PendingSlot) Remove(fileKey FileKey) {
	p.s.mu.Lock()
	delete(p.s.pending, fileKey)
	p.s.mu.Unlock()
}

// Has reports whether a pending load exists for fileKey.
func (p PendingSlot) Has(fileKey FileKey) bool {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	_, ok := p.s.pending[fileKey]

	return ok
}
