// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package leveldb

import (
	"github.com/syndtr/goleveldb/leveldb"
)

// Transaction is a goleveldb batch written in one call on Commit.
type Transaction struct {
	db       *DB
	batch    *leveldb.Batch
	released bool
}

func (t *Transaction) Put(key, value []byte) error {
	if t.released {
		return ErrTxClosed
	}
	t.batch.Put(key, value)
	return nil
}

func (t *Transaction) Delete(key []byte) error {
	if t.released {
		return ErrTxClosed
	}
	t.batch.Delete(key)
	return nil
}

func (t *Transaction) Discard() {
	if !t.released {
		t.released = true
		t.batch.Reset()
	}
}

// Commit writes the batch atomically.  The transaction is released
// afterwards whatever the outcome.
func (t *Transaction) Commit() error {
	if t.released {
		return ErrTxClosed
	}
	t.released = true
	if t.db.closed.Load() {
		return ErrDbClosed
	}
	return t.db.DB.Write(t.batch, t.db.write)
}
