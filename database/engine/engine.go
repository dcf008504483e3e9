// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package engine defines the ordered key/value store used to persist the
// transaction journal, together with a shared conformance suite.  The
// leveldb and pebbledb subpackages provide the backends.
package engine

import (
	"errors"
)

// ErrIterReleased is returned by Iterator.Error after Release.
var ErrIterReleased = errors.New("iterator: iterator released")

// Defaults applied by Options.WithDefaults.  A journal holds one small
// record per transaction, so both stay small.
const (
	DefaultCacheSize = 8
	DefaultOpenFiles = 16
)

// Options configure a backend when it is opened.  The zero value opens an
// existing store with the defaults and synced commits.
type Options struct {
	// Create requires that the store does not exist yet.
	Create bool

	// CacheSize is the block cache size in MiB.
	CacheSize int

	// OpenFiles bounds the number of table files kept open.
	OpenFiles int

	// NoSync commits without waiting for the write to reach disk.
	NoSync bool
}

// WithDefaults returns a copy of o with unset sizes replaced by the
// defaults.  A nil o yields the defaults.
func (o *Options) WithDefaults() Options {
	var opts Options
	if o != nil {
		opts = *o
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = DefaultCacheSize
	}
	if opts.OpenFiles <= 0 {
		opts.OpenFiles = DefaultOpenFiles
	}
	return opts
}

// Engine is an ordered key/value store.
type Engine interface {
	// Transaction starts a write batch.  Nothing is visible to snapshots
	// until Commit.
	Transaction() (Transaction, error)

	// Snapshot returns a consistent read only view of committed data.
	Snapshot() (Snapshot, error)

	// Close closes the store.  Closing twice is an error.
	Close() error
}

// Transaction is a write batch.  Discard may be called more than once and
// after Commit.
type Transaction interface {
	Put(key, value []byte) error
	Delete(key []byte) error
	Commit() error
	Discard()
}

// Snapshot is a read only view.  Get fails for missing keys; use Has to
// test for presence.
type Snapshot interface {
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	NewIterator(*Range) Iterator
	Releaser
}

// Releaser is implemented by resources that must be released.  Release is
// idempotent.
type Releaser interface {
	Release()
}

// Iterator walks the key/value pairs of a Range in ascending key order.
// A new iterator is positioned before the first pair.
type Iterator interface {
	// Next moves to the next pair and reports whether one exists.
	Next() bool

	// Error returns any accumulated error.  Exhausting the range is not
	// an error.
	Error() error

	// Key returns the key of the current pair, or nil when done.  The
	// slice is only valid until the next call to Next.
	Key() []byte

	// Value returns the value of the current pair, or nil when done.  The
	// slice is only valid until the next call to Next.
	Value() []byte

	Releaser
}

// Range is a key range.
type Range struct {
	// Start of the key range, included in the range.
	Start []byte

	// Limit of the key range, not included in the range.
	Limit []byte
}

// BytesPrefix returns the key range of all keys starting with prefix.
func BytesPrefix(prefix []byte) *Range {
	var limit []byte
	for i := len(prefix) - 1; i >= 0; i-- {
		c := prefix[i]
		if c < 0xff {
			limit = make([]byte, i+1)
			copy(limit, prefix)
			limit[i] = c + 1
			break
		}
	}
	return &Range{prefix, limit}
}
