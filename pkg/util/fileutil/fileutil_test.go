// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package fileutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileExists(t *testing.T) {
	t.Run("valid file path", func(t *testing.T) {
		require.True(t, FileExists("./fileutil.go"))
	})

	t.Run("directory", func(t *testing.T) {
		require.True(t, FileExists(t.TempDir()))
	})

	t.Run("invalid file path", func(t *testing.T) {
		require.False(t, FileExists(""))
		require.False(t, FileExists(filepath.Join(t.TempDir(), "ledger.db")))
	})
}
