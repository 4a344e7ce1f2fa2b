// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package batch

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

var (
	bucket1 = "test_ns1"
	testK1  = [3][]byte{[]byte("key_1"), []byte("key_2"), []byte("key_3")}
	testV1  = [3][]byte{[]byte("value_1"), []byte("value_2"), []byte("value_3")}
	testK2  = [3][]byte{[]byte("key_4"), []byte("key_5"), []byte("key_6")}
	testV2  = [3][]byte{[]byte("value_4"), []byte("value_5"), []byte("value_6")}
)

func TestBaseKVStoreBatch(t *testing.T) {
	require := require.New(t)

	b := NewBatch()
	b.Put(bucket1, testK1[0], testV1[0], "failed to put %x", testK1[0])
	b.Delete(bucket1, testK1[1], "failed to delete")
	require.Equal(2, b.Size())

	w, err := b.Entry(0)
	require.NoError(err)
	require.Equal(Put, w.WriteType())
	require.Equal(bucket1, w.Namespace())
	require.Equal(testK1[0], w.Key())
	require.Equal(testV1[0], w.Value())
	require.Equal("failed to put %x", w.ErrorFormat())
	require.Len(w.ErrorArgs(), 1)

	w, err = b.Entry(1)
	require.NoError(err)
	require.Equal(Delete, w.WriteType())
	require.Nil(w.Value())

	_, err = b.Entry(2)
	require.Equal(ErrOutOfBound, errors.Cause(err))

	b.Lock()
	b.ClearAndUnlock()
	require.Equal(0, b.Size())
}

func TestCachedBatch(t *testing.T) {
	require := require.New(t)

	cb := NewCachedBatch()
	cb.Put(bucket1, testK1[0], testV1[0], "")
	v, err := cb.Get(bucket1, testK1[0])
	require.NoError(err)
	require.Equal(testV1[0], v)
	v, err = cb.Get(bucket1, testK2[0])
	require.Equal(ErrNotExist, err)
	require.Nil(v)

	cb.Delete(bucket1, testK2[0], "")
	cb.Delete(bucket1, testK1[0], "")
	_, err = cb.Get(bucket1, testK1[0])
	require.Equal(ErrAlreadyDeleted, errors.Cause(err))
	require.Equal(3, cb.Size())

	cb.Clear()
	require.Equal(0, cb.Size())
	_, err = cb.Get(bucket1, testK1[0])
	require.Equal(ErrNotExist, err)
}

func TestSnapshot(t *testing.T) {
	require := require.New(t)

	cb := NewCachedBatch()
	cb.Put(bucket1, testK1[0], testV1[0], "")
	cb.Put(bucket1, testK1[1], testV1[1], "")
	s0 := cb.Snapshot()
	require.Equal(0, s0)
	require.Equal(2, cb.Size())

	cb.Put(bucket1, testK2[0], testV2[0], "")
	cb.Put(bucket1, testK1[0], testV2[1], "")
	s1 := cb.Snapshot()
	require.Equal(1, s1)
	require.Equal(4, cb.Size())

	cb.Delete(bucket1, testK1[1], "")
	_, err := cb.Get(bucket1, testK1[1])
	require.Equal(ErrAlreadyDeleted, err)

	// revert to s1
	require.NoError(cb.RevertSnapshot(s1))
	require.Equal(4, cb.Size())
	v, err := cb.Get(bucket1, testK1[1])
	require.NoError(err)
	require.Equal(testV1[1], v)
	v, err = cb.Get(bucket1, testK1[0])
	require.NoError(err)
	require.Equal(testV2[1], v)

	// revert to s0
	require.NoError(cb.RevertSnapshot(s0))
	require.Equal(2, cb.Size())
	v, err = cb.Get(bucket1, testK1[0])
	require.NoError(err)
	require.Equal(testV1[0], v)
	_, err = cb.Get(bucket1, testK2[0])
	require.Equal(ErrNotExist, err)

	// s1 no longer exists
	require.Equal(ErrOutOfBound, errors.Cause(cb.RevertSnapshot(s1)))

	cb.ResetSnapshots()
	require.Equal(ErrOutOfBound, errors.Cause(cb.RevertSnapshot(s0)))
}
