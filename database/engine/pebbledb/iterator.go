// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pebbledb

import (
	"github.com/cockroachdb/pebble"
	"github.com/mintastic/mintsdk/database/engine"
)

// NewIterator wraps a pebble iterator.
func NewIterator(iter *pebble.Iterator) engine.Iterator {
	return &Iterator{Iterator: iter}
}

// Iterator is a pebble iterator.
type Iterator struct {
	*pebble.Iterator
	released bool
}

func (i *Iterator) Next() bool {
	if i.released {
		return false
	}
	return i.Iterator.Next()
}

func (i *Iterator) Key() []byte {
	if i.released || !i.Iterator.Valid() {
		return nil
	}
	return i.Iterator.Key()
}

func (i *Iterator) Value() []byte {
	if i.released || !i.Iterator.Valid() {
		return nil
	}
	return i.Iterator.Value()
}

func (i *Iterator) Release() {
	if !i.released {
		i.released = true
		i.Iterator.Close()
	}
}

func (i *Iterator) Error() error {
	if i.released {
		return engine.ErrIterReleased
	}
	return i.Iterator.Error()
}
