// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/tansuproject/tansu-core/db/batch"
)

var (
	bucket1 = "test_ns1"
	bucket2 = "test_ns2"
	testK1  = [3][]byte{[]byte("key_1"), []byte("key_2"), []byte("key_3")}
	testV1  = [3][]byte{[]byte("value_1"), []byte("value_2"), []byte("value_3")}
)

func kvStores(t *testing.T) map[string]KVStore {
	dir := t.TempDir()
	cfg := DefaultConfig
	stores := map[string]KVStore{"In-memory KV Store": NewMemKVStore()}
	cfg.DbPath = filepath.Join(dir, "test.bolt")
	stores["Bolt DB"] = NewBoltDB(cfg)
	cfg.DbPath = filepath.Join(dir, "test.pebble")
	stores["Pebble DB"] = NewPebbleDB(cfg)
	cfg.DbPath = filepath.Join(dir, "test.badger")
	stores["Badger DB"] = NewBadgerDB(cfg)
	return stores
}

func TestKVStorePutGet(t *testing.T) {
	testKVStorePutGet := func(kvStore KVStore, t *testing.T) {
		require := require.New(t)
		ctx := context.Background()

		require.NoError(kvStore.Start(ctx))
		defer func() {
			require.NoError(kvStore.Stop(ctx))
		}()

		require.NoError(kvStore.Put(bucket1, []byte("key"), []byte("value")))
		value, err := kvStore.Get(bucket1, []byte("key"))
		require.NoError(err)
		require.Equal([]byte("value"), value)
		value, err = kvStore.Get(bucket2, []byte("key"))
		require.Equal(ErrNotExist, errors.Cause(err))
		require.Nil(value)
		value, err = kvStore.Get(bucket1, testK1[0])
		require.Equal(ErrNotExist, errors.Cause(err))
		require.Nil(value)

		require.NoError(kvStore.Put(bucket1, []byte("key"), testV1[1]))
		value, err = kvStore.Get(bucket1, []byte("key"))
		require.NoError(err)
		require.Equal(testV1[1], value)

		require.NoError(kvStore.Delete(bucket1, []byte("key")))
		_, err = kvStore.Get(bucket1, []byte("key"))
		require.Equal(ErrNotExist, errors.Cause(err))
		// deleting a missing key is not an error
		require.NoError(kvStore.Delete(bucket2, []byte("key")))
	}

	for name, kv := range kvStores(t) {
		t.Run(name, func(t *testing.T) {
			testKVStorePutGet(kv, t)
		})
	}
}

func TestWriteBatch(t *testing.T) {
	testWriteBatch := func(kvStore KVStore, t *testing.T) {
		require := require.New(t)
		ctx := context.Background()

		require.NoError(kvStore.Start(ctx))
		defer func() {
			require.NoError(kvStore.Stop(ctx))
		}()

		require.NoError(kvStore.Put(bucket1, testK1[2], testV1[2]))
		b := batch.NewBatch()
		b.Put(bucket1, testK1[0], testV1[0], "failed to put %x", testK1[0])
		b.Put(bucket2, testK1[1], testV1[1], "failed to put %x", testK1[1])
		b.Delete(bucket1, testK1[2], "failed to delete %x", testK1[2])
		require.NoError(kvStore.WriteBatch(b))
		require.Zero(b.Size())

		value, err := kvStore.Get(bucket1, testK1[0])
		require.NoError(err)
		require.Equal(testV1[0], value)
		value, err = kvStore.Get(bucket2, testK1[1])
		require.NoError(err)
		require.Equal(testV1[1], value)
		_, err = kvStore.Get(bucket1, testK1[2])
		require.Equal(ErrNotExist, errors.Cause(err))
	}

	for name, kv := range kvStores(t) {
		t.Run(name, func(t *testing.T) {
			testWriteBatch(kv, t)
		})
	}
}

func TestPersistAcrossRestart(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	dir := t.TempDir()

	for _, dbType := range []string{DBBolt, DBPebble, DBBadger} {
		cfg := DefaultConfig
		cfg.DBType = dbType
		cfg.DbPath = filepath.Join(dir, dbType)
		kv, err := CreateKVStore(cfg)
		require.NoError(err)
		require.NoError(kv.Start(ctx))
		require.NoError(kv.Put(bucket1, testK1[0], testV1[0]))
		require.NoError(kv.Stop(ctx))

		kv, err = CreateKVStore(cfg)
		require.NoError(err)
		require.NoError(kv.Start(ctx))
		value, err := kv.Get(bucket1, testK1[0])
		require.NoError(err)
		require.Equal(testV1[0], value)
		require.NoError(kv.Stop(ctx))
	}
}

func TestCreateKVStore(t *testing.T) {
	require := require.New(t)

	cfg := DefaultConfig
	cfg.DBType = DBMemory
	cfg.DbPath = ""
	kv, err := CreateKVStore(cfg)
	require.NoError(err)
	require.NotNil(kv)

	cfg.DBType = DBBolt
	_, err = CreateKVStore(cfg)
	require.Equal(ErrEmptyDBPath, err)

	cfg.DbPath = "somewhere"
	cfg.DBType = "leveldb"
	_, err = CreateKVStore(cfg)
	require.Error(err)
}

func TestNotStarted(t *testing.T) {
	require := require.New(t)
	cfg := DefaultConfig
	cfg.DbPath = filepath.Join(t.TempDir(), "unused")
	for _, kv := range []KVStore{NewBoltDB(cfg), NewPebbleDB(cfg), NewBadgerDB(cfg)} {
		_, err := kv.Get(bucket1, testK1[0])
		require.Equal(ErrDBNotStarted, err)
		require.Equal(ErrDBNotStarted, kv.Put(bucket1, testK1[0], testV1[0]))
	}
}
