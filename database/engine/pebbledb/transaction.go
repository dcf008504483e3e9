// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pebbledb

import (
	"github.com/cockroachdb/pebble"
)

// Transaction is a pebble batch committed with the write options of its
// database.
type Transaction struct {
	*pebble.Batch
	write    *pebble.WriteOptions
	released bool
}

func (t *Transaction) Put(key, value []byte) error {
	if t.released {
		return ErrTxClosed
	}
	return t.Batch.Set(key, value, pebble.NoSync)
}

func (t *Transaction) Delete(key []byte) error {
	if t.released {
		return ErrTxClosed
	}
	return t.Batch.Delete(key, pebble.NoSync)
}

func (t *Transaction) Discard() {
	if !t.released {
		t.released = true
		t.Batch.Close()
	}
}

// Commit writes the batch.  The batch is released afterwards.
func (t *Transaction) Commit() error {
	if t.released {
		return ErrTxClosed
	}
	err := t.Batch.Commit(t.write)
	t.released = true
	t.Batch.Close()
	return err
}
