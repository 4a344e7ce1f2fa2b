// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package db

import (
	"context"
	"syscall"

	"github.com/cockroachdb/pebble"
	"github.com/iotexproject/go-pkgs/hash"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/tansuproject/tansu-core/db/batch"
	"github.com/tansuproject/tansu-core/pkg/lifecycle"
	"github.com/tansuproject/tansu-core/pkg/log"
)

const (
	prefixLength = 8
)

// PebbleDB is KVStore implementation based on pebble DB
type PebbleDB struct {
	lifecycle.Readiness
	db     *pebble.DB
	path   string
	config Config
}

// NewPebbleDB creates a new PebbleDB instance
func NewPebbleDB(cfg Config) *PebbleDB {
	return &PebbleDB{
		db:     nil,
		path:   cfg.DbPath,
		config: cfg,
	}
}

// Start opens the DB (creates new file if not existing yet)
func (b *PebbleDB) Start(_ context.Context) error {
	db, err := pebble.Open(b.path, &pebble.Options{
		ReadOnly: b.config.ReadOnly,
	})
	if err != nil {
		return errors.Wrap(ErrIO, err.Error())
	}
	b.db = db
	return b.TurnOn()
}

// Stop closes the DB
func (b *PebbleDB) Stop(_ context.Context) error {
	if err := b.TurnOff(); err != nil {
		return err
	}
	if err := b.db.Close(); err != nil {
		return errors.Wrap(ErrIO, err.Error())
	}
	return nil
}

// Get retrieves a record
func (b *PebbleDB) Get(ns string, key []byte) ([]byte, error) {
	if !b.IsReady() {
		return nil, ErrDBNotStarted
	}
	v, closer, err := b.db.Get(nsKey(ns, key))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, errors.Wrapf(ErrNotExist, "ns %s key = %x doesn't exist, %s", ns, key, err.Error())
		}
		return nil, errors.Wrap(ErrIO, err.Error())
	}
	val := make([]byte, len(v))
	copy(val, v)
	return val, closer.Close()
}

// Put inserts a <key, value> record
func (b *PebbleDB) Put(ns string, key, value []byte) (err error) {
	if !b.IsReady() {
		return ErrDBNotStarted
	}
	if err = b.db.Set(nsKey(ns, key), value, pebble.Sync); err != nil {
		if errors.Is(err, syscall.ENOSPC) {
			log.L().Fatal("Failed to put db.", zap.Error(err))
		}
		err = errors.Wrap(ErrIO, err.Error())
	}
	return
}

// Delete deletes a record
func (b *PebbleDB) Delete(ns string, key []byte) (err error) {
	if !b.IsReady() {
		return ErrDBNotStarted
	}
	if err = b.db.Delete(nsKey(ns, key), pebble.Sync); err != nil {
		err = errors.Wrap(ErrIO, err.Error())
	}
	return
}

// WriteBatch commits a batch
func (b *PebbleDB) WriteBatch(kvsb batch.KVStoreBatch) error {
	if !b.IsReady() {
		return ErrDBNotStarted
	}
	kvsb.Lock()
	pb := b.db.NewBatch()
	for i := 0; i < kvsb.Size(); i++ {
		write, err := kvsb.Entry(i)
		if err != nil {
			kvsb.Unlock()
			return err
		}
		k := nsKey(write.Namespace(), write.Key())
		switch write.WriteType() {
		case batch.Put:
			err = pb.Set(k, write.Value(), nil)
		case batch.Delete:
			err = pb.Delete(k, nil)
		}
		if err != nil {
			kvsb.Unlock()
			return errors.Wrapf(err, write.ErrorFormat(), write.ErrorArgs()...)
		}
	}
	if err := pb.Commit(pebble.Sync); err != nil {
		kvsb.Unlock()
		if errors.Is(err, syscall.ENOSPC) {
			log.L().Fatal("Failed to write batch db.", zap.Error(err))
		}
		return errors.Wrap(ErrIO, err.Error())
	}
	kvsb.ClearAndUnlock()
	return nil
}

func nsKey(ns string, key []byte) []byte {
	nk := nsToPrefix(ns)
	return append(nk, key...)
}

func nsToPrefix(ns string) []byte {
	h := hash.Hash160b([]byte(ns))
	prefix := make([]byte, prefixLength, prefixLength+32)
	copy(prefix, h[:prefixLength])
	return prefix
}
