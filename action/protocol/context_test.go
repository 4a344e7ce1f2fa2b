// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package protocol

import (
	"context"
	"testing"
	"time"

	"github.com/iotexproject/go-pkgs/hash"
	"github.com/stretchr/testify/require"

	"github.com/tansuproject/tansu-core/test/identityset"
)

func TestBlockCtx(t *testing.T) {
	require := require.New(t)
	now := time.Unix(1700000000, 0)
	ctx := WithBlockCtx(context.Background(), BlockCtx{BlockHeight: 1111, BlockTimeStamp: now})
	ret, ok := GetBlockCtx(ctx)
	require.True(ok)
	require.Equal(uint64(1111), ret.BlockHeight)
	require.Equal(now, ret.BlockTimeStamp)
	require.Equal(ret, MustGetBlockCtx(ctx))

	_, ok = GetBlockCtx(context.Background())
	require.False(ok)
	require.Panics(func() { MustGetBlockCtx(context.Background()) }, "Miss block context")
}

func TestActionCtx(t *testing.T) {
	require := require.New(t)
	caller := identityset.Address(identityset.Mando)
	h := hash.Hash256b([]byte("call"))
	ctx := WithActionCtx(context.Background(), ActionCtx{Caller: caller, ActionHash: h, Nonce: 3})
	ret, ok := GetActionCtx(ctx)
	require.True(ok)
	require.Equal(caller.String(), ret.Caller.String())
	require.Equal(h, ret.ActionHash)
	require.Equal(uint64(3), MustGetActionCtx(ctx).Nonce)

	require.Panics(func() { MustGetActionCtx(context.Background()) }, "Miss action context")
}

func TestCreateStateConfig(t *testing.T) {
	require := require.New(t)
	cfg, err := CreateStateConfig(NamespaceOption("ns"), KeyOption([]byte("key")))
	require.NoError(err)
	require.Equal("ns", cfg.Namespace)
	require.Equal([]byte("key"), cfg.Key)

	h := hash.Hash256b([]byte("key"))
	cfg, err = CreateStateConfig(HashKeyOption(h))
	require.NoError(err)
	require.Equal(h[:], cfg.Key)

	_, err = CreateStateConfig(NamespaceOption("ns"))
	require.Error(err)
}
