// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package journal keeps a persistent record of every submitted transaction
// and the outcome observed for it.
package journal

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/mintastic/mintsdk/database/engine"
	"github.com/mintastic/mintsdk/database/engine/leveldb"
	"github.com/mintastic/mintsdk/database/engine/pebbledb"
)

// keyPrefix prefixes the key of every record.
const keyPrefix = "tx/"

// ErrNotFound is returned by Get for unknown transaction ids.
var ErrNotFound = errors.New("journal: transaction not found")

// Status is the last observed state of a transaction.
type Status string

const (
	StatusSubmitted Status = "submitted"
	StatusSealed    Status = "sealed"
	StatusRejected  Status = "rejected"
	StatusExpired   Status = "expired"
)

// Record is the journal entry of one transaction.
type Record struct {
	TxID        string    `json:"txId"`
	Operation   string    `json:"operation,omitempty"`
	Status      Status    `json:"status"`
	Message     string    `json:"message,omitempty"`
	BlockHeight uint64    `json:"blockHeight,omitempty"`
	Time        time.Time `json:"time"`
}

// Backend names a storage engine.
type Backend string

const (
	BackendLevelDB Backend = "leveldb"
	BackendPebble  Backend = "pebble"
)

// Journal stores records in an engine.Engine keyed by transaction id.
type Journal struct {
	mtx sync.Mutex
	db  engine.Engine
}

// New returns a journal over db.  The journal owns db from then on.
func New(db engine.Engine) *Journal {
	return &Journal{db: db}
}

// Open opens or creates the journal at path with the named backend.
func Open(backend Backend, path string) (*Journal, error) {
	_, err := os.Stat(path)
	create := os.IsNotExist(err)

	var db engine.Engine
	switch backend {
	case BackendLevelDB:
		db, err = leveldb.NewDB(path, &engine.Options{Create: create})
	case BackendPebble:
		db, err = pebbledb.NewDB(path, &engine.Options{Create: create})
	default:
		return nil, fmt.Errorf("unknown journal backend %q", backend)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to open journal %s: %w", path, err)
	}
	log.Debugf("Opened %s journal at %s", backend, path)
	return New(db), nil
}

func recordKey(txID string) []byte {
	return []byte(keyPrefix + txID)
}

// Record stores rec, replacing any previous record of the same transaction.
// An empty Operation keeps the operation of the previous record and a zero
// Time is set to now.
func (j *Journal) Record(rec *Record) error {
	if rec.TxID == "" {
		return errors.New("journal: record without transaction id")
	}

	j.mtx.Lock()
	defer j.mtx.Unlock()

	entry := *rec
	if entry.Time.IsZero() {
		entry.Time = time.Now().UTC()
	}
	if entry.Operation == "" {
		prev, err := j.get(rec.TxID)
		switch {
		case err == nil:
			entry.Operation = prev.Operation
		case !errors.Is(err, ErrNotFound):
			return err
		}
	}

	value, err := json.Marshal(&entry)
	if err != nil {
		return err
	}

	tx, err := j.db.Transaction()
	if err != nil {
		return err
	}
	defer tx.Discard()

	if err := tx.Put(recordKey(entry.TxID), value); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	log.Tracef("Recorded %s as %s", entry.TxID, entry.Status)
	return nil
}

// Get returns the record of txID or ErrNotFound.
func (j *Journal) Get(txID string) (*Record, error) {
	j.mtx.Lock()
	defer j.mtx.Unlock()

	return j.get(txID)
}

func (j *Journal) get(txID string) (*Record, error) {
	snapshot, err := j.db.Snapshot()
	if err != nil {
		return nil, err
	}
	defer snapshot.Release()

	key := recordKey(txID)
	has, err := snapshot.Has(key)
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, ErrNotFound
	}
	value, err := snapshot.Get(key)
	if err != nil {
		return nil, err
	}

	var rec Record
	if err := json.Unmarshal(value, &rec); err != nil {
		return nil, fmt.Errorf("corrupt journal record %s: %w", txID, err)
	}
	return &rec, nil
}

// List returns every record ordered by time, oldest first.
func (j *Journal) List() ([]*Record, error) {
	j.mtx.Lock()
	defer j.mtx.Unlock()

	snapshot, err := j.db.Snapshot()
	if err != nil {
		return nil, err
	}
	defer snapshot.Release()

	iter := snapshot.NewIterator(engine.BytesPrefix([]byte(keyPrefix)))
	defer iter.Release()

	var records []*Record
	for iter.Next() {
		var rec Record
		if err := json.Unmarshal(iter.Value(), &rec); err != nil {
			return nil, fmt.Errorf("corrupt journal record %s: %w",
				iter.Key(), err)
		}
		records = append(records, &rec)
	}
	if err := iter.Error(); err != nil {
		return nil, err
	}

	sort.SliceStable(records, func(a, b int) bool {
		return records[a].Time.Before(records[b].Time)
	})
	return records, nil
}

// Close closes the underlying engine.
func (j *Journal) Close() error {
	j.mtx.Lock()
	defer j.mtx.Unlock()

	return j.db.Close()
}
