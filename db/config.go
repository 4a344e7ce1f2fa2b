// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package db

const (
	// DBMemory is the in-memory store, state is lost on stop
	DBMemory = "memory"
	// DBBolt is the bbolt store
	DBBolt = "boltdb"
	// DBPebble is the pebble store
	DBPebble = "pebbledb"
	// DBBadger is the badger store
	DBBadger = "badgerdb"
)

// Config is the config for database
type Config struct {
	DbPath string `yaml:"dbPath"`
	// DBType is the type of the store, one of memory, boltdb, pebbledb, badgerdb
	DBType string `yaml:"dbType"`
	// NumRetries is the number of retries
	NumRetries uint8 `yaml:"numRetries"`
	// ReadOnly is set db to be opened in read only mode
	ReadOnly bool `yaml:"readOnly"`
}

// DefaultConfig returns the default config
var DefaultConfig = Config{
	DbPath:     "/var/data/tansu.db",
	DBType:     DBBolt,
	NumRetries: 3,
}
