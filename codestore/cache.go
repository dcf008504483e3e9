// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package codestore

import "sync"

// Cache memoizes resolved code by operation name.  Entries are never evicted.
// A cache is only valid for the address map it was populated with.
//
// Cache is safe for concurrent use.
type Cache struct {
	mtx     sync.RWMutex
	entries map[string]string
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]string)}
}

// Lookup returns the code cached under name and whether it was present.
func (c *Cache) Lookup(name string) (string, bool) {
	c.mtx.RLock()
	code, ok := c.entries[name]
	c.mtx.RUnlock()
	return code, ok
}

// Store caches code under name, replacing any previous entry.
func (c *Cache) Store(name, code string) {
	c.mtx.Lock()
	c.entries[name] = code
	c.mtx.Unlock()
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mtx.RLock()
	defer c.mtx.RUnlock()
	return len(c.entries)
}
