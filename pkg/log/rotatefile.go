// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package log

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
)

var (
	currentTime             = time.Now
	defaultBackupTimeFormat = "20060102"
)

// RotateFile is a log file that is moved aside and reopened when the day changes
type RotateFile struct {
	// Filename is the file to write logs to. Backup log files are kept in the same directory.
	// It uses <processname>.log in os.TempDir() if empty.
	Filename string `json:"filename" yaml:"filename"`

	// MaxBackups is the maximum number of old log files to retain, 0 keeps all of them.
	MaxBackups int `json:"maxbackups" yaml:"maxbackups"`

	// BackupTimeFormat is the time layout used in backup file names
	BackupTimeFormat string `json:"backupTimeFormat" yaml:"backupTimeFormat"`

	// LocalTime uses the local time instead of UTC for backup file names
	LocalTime bool `json:"localtime" yaml:"localtime"`

	file       *os.File
	backupName string
	mu         sync.Mutex
}

func (f *RotateFile) now() time.Time {
	t := currentTime()
	if !f.LocalTime {
		t = t.UTC()
	}
	return t
}

func (f *RotateFile) filename() string {
	if f.Filename != "" {
		return f.Filename
	}
	return filepath.Join(os.TempDir(), filepath.Base(os.Args[0])+".log")
}

func (f *RotateFile) timeFormat() string {
	if f.BackupTimeFormat != "" {
		return f.BackupTimeFormat
	}
	return defaultBackupTimeFormat
}

// Write implements io.Writer
func (f *RotateFile) Write(d []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.file == nil {
		if err := f.open(); err != nil {
			return 0, err
		}
	} else if f.backupName != f.now().Format(f.timeFormat()) {
		if err := f.rotate(); err != nil {
			return 0, err
		}
	}
	return f.file.Write(d)
}

// Sync flushes the current file
func (f *RotateFile) Sync() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.file == nil {
		return nil
	}
	return f.file.Sync()
}

// Rotate closes the current file, moves it aside and opens a new one
func (f *RotateFile) Rotate() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rotate()
}

// Close implements io.Closer
func (f *RotateFile) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.close()
}

func (f *RotateFile) open() error {
	if err := os.MkdirAll(filepath.Dir(f.filename()), 0755); err != nil {
		return errors.Wrap(err, "can't make directories for new logfile")
	}
	file, err := os.OpenFile(f.filename(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	f.file = file
	f.backupName = f.now().Format(f.timeFormat())
	return nil
}

func (f *RotateFile) close() error {
	if f.file == nil {
		return nil
	}
	err := f.file.Close()
	f.file = nil
	return err
}

func (f *RotateFile) rotate() error {
	if err := f.close(); err != nil {
		return err
	}
	if _, err := os.Stat(f.filename()); err == nil {
		if err := os.Rename(f.filename(), f.backup()); err != nil {
			return errors.Wrap(err, "can't rename log file")
		}
	}
	if err := f.open(); err != nil {
		return err
	}
	return f.prune()
}

func (f *RotateFile) backup() string {
	name := f.filename()
	ext := filepath.Ext(name)
	t := f.now()
	return fmt.Sprintf("%s-%s%s.%d", strings.TrimSuffix(name, ext), t.Format(f.timeFormat()), ext, t.UnixNano())
}

// prune removes the oldest backups beyond MaxBackups
func (f *RotateFile) prune() error {
	if f.MaxBackups <= 0 {
		return nil
	}
	dir := filepath.Dir(f.filename())
	entries, err := os.ReadDir(dir)
	if err != nil {
		return errors.Wrap(err, "can't read log file directory")
	}
	base := filepath.Base(f.filename())
	prefix := strings.TrimSuffix(base, filepath.Ext(base)) + "-"
	type backup struct {
		name string
		ts   int64
	}
	var backups []backup
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), prefix) {
			continue
		}
		ts, err := strconv.ParseInt(strings.TrimPrefix(filepath.Ext(e.Name()), "."), 10, 64)
		if err != nil {
			continue
		}
		backups = append(backups, backup{e.Name(), ts})
	}
	if len(backups) <= f.MaxBackups {
		return nil
	}
	sort.Slice(backups, func(i, j int) bool { return backups[i].ts < backups[j].ts })
	for _, b := range backups[:len(backups)-f.MaxBackups] {
		if err := os.Remove(filepath.Join(dir, b.name)); err != nil {
			return err
		}
	}
	return nil
}
