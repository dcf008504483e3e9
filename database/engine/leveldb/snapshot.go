// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package leveldb

import (
	"github.com/mintastic/mintsdk/database/engine"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// NewSnapshot wraps a goleveldb snapshot.
func NewSnapshot(snapshot *leveldb.Snapshot) engine.Snapshot {
	return &Snapshot{Snapshot: snapshot}
}

// Snapshot is a goleveldb snapshot.
type Snapshot struct {
	*leveldb.Snapshot
}

func (s *Snapshot) Has(key []byte) (bool, error) {
	return s.Snapshot.Has(key, nil)
}

func (s *Snapshot) Get(key []byte) (val []byte, err error) {
	return s.Snapshot.Get(key, nil)
}

func (s *Snapshot) Release() {
	s.Snapshot.Release()
}

func (s *Snapshot) NewIterator(slice *engine.Range) engine.Iterator {
	return s.Snapshot.NewIterator(&util.Range{
		Start: slice.Start,
		Limit: slice.Limit,
	}, nil)
}
