// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package pebbledb implements engine.Engine on pebble.
package pebbledb

import (
	"errors"
	"sync/atomic"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/bloom"
	"github.com/mintastic/mintsdk/database/engine"
)

var (
	ErrDbClosed         = errors.New("pebbledb: closed")
	ErrTxClosed         = errors.New("pebbledb: transaction already closed")
	ErrSnapshotReleased = errors.New("pebbledb: snapshot released")
)

// NewDB opens the database at dbPath with opts.  A nil opts selects the
// defaults.  Journal records are small and read by prefix, so a single level
// configuration with a bloom filter serves every level.
func NewDB(dbPath string, opts *engine.Options) (engine.Engine, error) {
	o := opts.WithDefaults()
	pebbleOpts := &pebble.Options{
		Cache:         pebble.NewCache(int64(o.CacheSize) << 20),
		ErrorIfExists: o.Create,
		MaxOpenFiles:  o.OpenFiles,
		Levels: []pebble.LevelOptions{{
			FilterPolicy: bloom.FilterPolicy(10),
		}},
	}
	defer pebbleOpts.Cache.Unref()

	dbEngine, err := pebble.Open(dbPath, pebbleOpts)
	if err != nil {
		return nil, err
	}
	writeOpts := pebble.Sync
	if o.NoSync {
		writeOpts = pebble.NoSync
	}
	return &DB{DB: dbEngine, write: writeOpts}, nil
}

// DB is a pebble database.
type DB struct {
	*pebble.DB

	write  *pebble.WriteOptions
	closed atomic.Bool
}

// setClosed sets the closed flag and reports whether it was clear.
func (d *DB) setClosed() bool {
	return !d.closed.Swap(true)
}

func (d *DB) isClosed() bool {
	return d.closed.Load()
}

// Transaction returns a pebble batch.  Batches are independent, so several
// may be open at once.
func (d *DB) Transaction() (engine.Transaction, error) {
	if d.isClosed() {
		return nil, ErrDbClosed
	}
	return &Transaction{Batch: d.DB.NewBatch(), write: d.write}, nil
}

func (d *DB) Snapshot() (engine.Snapshot, error) {
	if d.isClosed() {
		return nil, ErrDbClosed
	}
	return NewSnapshot(d.DB.NewSnapshot()), nil
}

func (d *DB) Close() error {
	if !d.setClosed() {
		return ErrDbClosed
	}
	return d.DB.Close()
}
