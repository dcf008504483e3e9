// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package leveldb

import (
	"path/filepath"
	"testing"

	"github.com/mintastic/mintsdk/database/engine"
	"github.com/stretchr/testify/require"
)

func TestSuiteLevelDB(t *testing.T) {
	engine.TestSuiteEngine(t, func() engine.Engine {
		dbPath := filepath.Join(t.TempDir(), "leveldb-testsuite")

		leveldb, err := NewDB(dbPath, &engine.Options{Create: true})
		require.NoErrorf(t, err, "failed to create leveldb")
		return leveldb
	})
}

func TestReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "journal")

	db, err := NewDB(dbPath, &engine.Options{Create: true})
	require.NoError(t, err)
	tx, err := db.Transaction()
	require.NoError(t, err)
	require.NoError(t, tx.Put([]byte("tx/1"), []byte("sealed")))
	require.NoError(t, tx.Commit())
	require.NoError(t, db.Close())

	_, err = NewDB(dbPath, &engine.Options{Create: true})
	require.Error(t, err, "create must fail on an existing database")

	db, err = NewDB(dbPath, nil)
	require.NoError(t, err)
	defer db.Close()

	snapshot, err := db.Snapshot()
	require.NoError(t, err)
	defer snapshot.Release()
	got, err := snapshot.Get([]byte("tx/1"))
	require.NoError(t, err)
	require.Equal(t, []byte("sealed"), got)
}

func TestConcurrentBatches(t *testing.T) {
	db, err := NewDB(filepath.Join(t.TempDir(), "journal"),
		&engine.Options{Create: true, NoSync: true, CacheSize: 1})
	require.NoError(t, err)
	defer db.Close()

	a, err := db.Transaction()
	require.NoError(t, err)
	b, err := db.Transaction()
	require.NoError(t, err)

	require.NoError(t, a.Put([]byte("tx/a"), []byte("1")))
	require.NoError(t, b.Put([]byte("tx/b"), []byte("2")))
	require.NoError(t, b.Commit())
	require.NoError(t, a.Commit())
	require.ErrorIs(t, a.Commit(), ErrTxClosed)
	require.ErrorIs(t, a.Put([]byte("tx/c"), nil), ErrTxClosed)

	snapshot, err := db.Snapshot()
	require.NoError(t, err)
	defer snapshot.Release()

	has, err := snapshot.Has([]byte("tx/a"))
	require.NoError(t, err)
	require.True(t, has)
	has, err = snapshot.Has([]byte("tx/b"))
	require.NoError(t, err)
	require.True(t, has)
}
