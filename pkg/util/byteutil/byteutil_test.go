// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package byteutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUint32(t *testing.T) {
	input := uint32(31415926)
	expectedValue := []byte{0x1, 0xdf, 0x5e, 0x76}
	require.Equal(t, expectedValue, Uint32ToBytesBigEndian(input))
	require.Equal(t, input, BytesToUint32BigEndian(expectedValue))
}

func TestUint64(t *testing.T) {
	input := uint64(1844674407370955161)
	expectedValue := []byte{0x19, 0x99, 0x99, 0x99, 0x99, 0x99, 0x99, 0x99}
	require.Equal(t, expectedValue, Uint64ToBytesBigEndian(input))
	require.Equal(t, input, BytesToUint64BigEndian(expectedValue))
}

func TestBoolToByte(t *testing.T) {
	require.Equal(t, byte(1), BoolToByte(true))
	require.Equal(t, byte(0), BoolToByte(false))
}
