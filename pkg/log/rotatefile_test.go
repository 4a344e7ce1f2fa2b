// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package log

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewFile(t *testing.T) {
	require := require.New(t)

	dir := t.TempDir()
	l := &RotateFile{
		Filename: logFile(dir),
	}
	defer l.Close()
	b := []byte("boo!")
	n, err := l.Write(b)
	require.NoError(err)
	require.Equal(len(b), n)
	existsWithContent(logFile(dir), b, t)
}

func TestRotateOnNewDay(t *testing.T) {
	require := require.New(t)

	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	currentTime = func() time.Time { return now }
	defer func() { currentTime = time.Now }()

	dir := t.TempDir()
	l := &RotateFile{
		Filename:   logFile(dir),
		MaxBackups: 1,
	}
	defer l.Close()
	_, err := l.Write([]byte("day one"))
	require.NoError(err)

	now = now.Add(24 * time.Hour)
	_, err = l.Write([]byte("day two"))
	require.NoError(err)
	existsWithContent(logFile(dir), []byte("day two"), t)

	now = now.Add(24 * time.Hour)
	_, err = l.Write([]byte("day three"))
	require.NoError(err)

	matches, err := filepath.Glob(filepath.Join(dir, "foobar-*"))
	require.NoError(err)
	require.Len(matches, 1)
}

func logFile(dir string) string {
	return filepath.Join(dir, "foobar.log")
}

func existsWithContent(path string, content []byte, t testing.TB) {
	require := require.New(t)
	info, err := os.Stat(path)
	require.NoError(err)
	require.Equal(int64(len(content)), info.Size())

	b, err := os.ReadFile(path)
	require.NoError(err)
	require.Equal(content, b)
}
