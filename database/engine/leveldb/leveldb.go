// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package leveldb implements engine.Engine on goleveldb.
package leveldb

import (
	"errors"
	"sync/atomic"

	"github.com/mintastic/mintsdk/database/engine"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

var (
	ErrDbClosed = errors.New("leveldb: closed")
	ErrTxClosed = errors.New("leveldb: transaction already closed")
)

// NewDB opens the database at dbPath with opts.  A nil opts selects the
// defaults.
func NewDB(dbPath string, opts *engine.Options) (engine.Engine, error) {
	o := opts.WithDefaults()
	ldb, err := leveldb.OpenFile(dbPath, &opt.Options{
		ErrorIfExist:           o.Create,
		BlockCacheCapacity:     o.CacheSize * opt.MiB,
		OpenFilesCacheCapacity: o.OpenFiles,
		Compression:            opt.NoCompression,
		Filter:                 filter.NewBloomFilter(10),
	})
	if err != nil {
		return nil, err
	}
	return &DB{DB: ldb, write: &opt.WriteOptions{Sync: !o.NoSync}}, nil
}

// DB is a goleveldb database.
type DB struct {
	*leveldb.DB

	write  *opt.WriteOptions
	closed atomic.Bool
}

// Transaction returns a write batch.  Batches do not lock the database, so
// several may be open at once; the last commit of a key wins.
func (d *DB) Transaction() (engine.Transaction, error) {
	if d.closed.Load() {
		return nil, ErrDbClosed
	}
	return &Transaction{db: d, batch: new(leveldb.Batch)}, nil
}

func (d *DB) Snapshot() (engine.Snapshot, error) {
	if d.closed.Load() {
		return nil, ErrDbClosed
	}
	snapshot, err := d.DB.GetSnapshot()
	if err != nil {
		return nil, err
	}
	return NewSnapshot(snapshot), nil
}

func (d *DB) Close() error {
	if d.closed.Swap(true) {
		return ErrDbClosed
	}
	return d.DB.Close()
}
