// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package db

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/tansuproject/tansu-core/db/batch"
	"github.com/tansuproject/tansu-core/pkg/lifecycle"
	"github.com/tansuproject/tansu-core/pkg/log"
)

// BadgerDB is KVStore implementation based on badger DB
type BadgerDB struct {
	lifecycle.Readiness
	db     *badger.DB
	path   string
	config Config
}

// NewBadgerDB creates a new BadgerDB instance
func NewBadgerDB(cfg Config) *BadgerDB {
	return &BadgerDB{
		path:   cfg.DbPath,
		config: cfg,
	}
}

// Start opens the badger directory (creates it if not existing yet)
func (b *BadgerDB) Start(_ context.Context) error {
	opts := badger.DefaultOptions(b.path).
		WithLogger(&badgerLogger{log.Logger("badger").Sugar()}).
		WithLoggingLevel(badger.WARNING).
		WithReadOnly(b.config.ReadOnly)
	db, err := badger.Open(opts)
	if err != nil {
		return errors.Wrap(ErrIO, err.Error())
	}
	b.db = db
	return b.TurnOn()
}

// Stop closes the badger directory
func (b *BadgerDB) Stop(_ context.Context) error {
	if err := b.TurnOff(); err != nil {
		return err
	}
	if err := b.db.Close(); err != nil {
		return errors.Wrap(ErrIO, err.Error())
	}
	return nil
}

// Put inserts a <key, value> record
func (b *BadgerDB) Put(namespace string, key, value []byte) (err error) {
	if !b.IsReady() {
		return ErrDBNotStarted
	}
	for c := uint8(0); c < b.config.NumRetries; c++ {
		if err = b.db.Update(func(txn *badger.Txn) error {
			return txn.Set(nsKey(namespace, key), value)
		}); err == nil {
			break
		}
	}
	if err != nil {
		err = errors.Wrap(ErrIO, err.Error())
	}
	return err
}

// Get retrieves a record
func (b *BadgerDB) Get(namespace string, key []byte) ([]byte, error) {
	if !b.IsReady() {
		return nil, ErrDBNotStarted
	}
	var value []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(nsKey(namespace, key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err == nil {
		return value, nil
	}
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, errors.Wrapf(ErrNotExist, "ns %s key = %x doesn't exist", namespace, key)
	}
	return nil, errors.Wrap(ErrIO, err.Error())
}

// Delete deletes a record
func (b *BadgerDB) Delete(namespace string, key []byte) (err error) {
	if !b.IsReady() {
		return ErrDBNotStarted
	}
	for c := uint8(0); c < b.config.NumRetries; c++ {
		if err = b.db.Update(func(txn *badger.Txn) error {
			return txn.Delete(nsKey(namespace, key))
		}); err == nil {
			break
		}
	}
	if err != nil {
		err = errors.Wrap(ErrIO, err.Error())
	}
	return err
}

// WriteBatch commits a batch in a single badger transaction
func (b *BadgerDB) WriteBatch(kvsb batch.KVStoreBatch) (err error) {
	if !b.IsReady() {
		return ErrDBNotStarted
	}
	succeed := false
	kvsb.Lock()
	defer func() {
		if succeed {
			kvsb.ClearAndUnlock()
		} else {
			kvsb.Unlock()
		}
	}()

	for c := uint8(0); c < b.config.NumRetries; c++ {
		if err = b.db.Update(func(txn *badger.Txn) error {
			for i := 0; i < kvsb.Size(); i++ {
				write, err := kvsb.Entry(i)
				if err != nil {
					return err
				}
				k := nsKey(write.Namespace(), write.Key())
				switch write.WriteType() {
				case batch.Put:
					err = txn.Set(k, write.Value())
				case batch.Delete:
					err = txn.Delete(k)
				}
				if err != nil {
					return errors.Wrapf(err, write.ErrorFormat(), write.ErrorArgs()...)
				}
			}
			return nil
		}); err == nil {
			break
		}
	}
	if err != nil {
		return errors.Wrap(ErrIO, err.Error())
	}
	succeed = true
	return nil
}

// badgerLogger routes badger's internal logging into zap
type badgerLogger struct {
	s *zap.SugaredLogger
}

func (l *badgerLogger) Errorf(msg string, args ...interface{}) {
	l.s.Errorf(msg, args...)
}

func (l *badgerLogger) Warningf(msg string, args ...interface{}) {
	l.s.Warnf(msg, args...)
}

func (l *badgerLogger) Infof(msg string, args ...interface{}) {
	l.s.Infof(msg, args...)
}

func (l *badgerLogger) Debugf(msg string, args ...interface{}) {
	l.s.Debugf(msg, args...)
}
