// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package factory

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/tansuproject/tansu-core/action/protocol"
	"github.com/tansuproject/tansu-core/db"
	"github.com/tansuproject/tansu-core/pkg/lifecycle"
	"github.com/tansuproject/tansu-core/pkg/log"
	"github.com/tansuproject/tansu-core/pkg/util/byteutil"
	"github.com/tansuproject/tansu-core/state"
)

const (
	// SystemNamespace is the namespace of the ledger's own bookkeeping
	SystemNamespace = "System"
	// CurrentHeightKey indicates the key of current factory height in underlying DB
	CurrentHeightKey = "currentHeight"
)

type (
	// Factory defines an interface for managing states
	Factory interface {
		lifecycle.StartStopper
		protocol.StateReader
		NewWorkingSet() (WorkingSet, error)
	}

	// factory implements Factory, stages the changes of one call in a working set and commits it to the DB
	factory struct {
		lifecycle lifecycle.Lifecycle
		mutex     sync.RWMutex
		height    uint64
		registry  *protocol.Registry
		dao       db.KVStore
	}

	// Option sets Factory construction parameter
	Option func(*factory) error
)

// RegistryOption sets the protocols a working set dispatches calls to
func RegistryOption(reg *protocol.Registry) Option {
	return func(sf *factory) error {
		if reg == nil {
			return errors.New("invalid protocol registry")
		}
		sf.registry = reg
		return nil
	}
}

// NewFactory creates a state factory over the KV store
func NewFactory(dao db.KVStore, opts ...Option) (Factory, error) {
	if dao == nil {
		return nil, errors.New("kv store is nil")
	}
	sf := &factory{
		registry: protocol.NewRegistry(),
		dao:      dao,
	}
	for _, opt := range opts {
		if err := opt(sf); err != nil {
			return nil, errors.Wrap(err, "failed to execute factory option")
		}
	}
	sf.lifecycle.Add(dao)
	return sf, nil
}

func (sf *factory) Start(ctx context.Context) error {
	if err := sf.lifecycle.OnStart(ctx); err != nil {
		return err
	}
	sf.mutex.Lock()
	defer sf.mutex.Unlock()
	h, err := sf.dao.Get(SystemNamespace, []byte(CurrentHeightKey))
	switch errors.Cause(err) {
	case nil:
		sf.height = byteutil.BytesToUint64BigEndian(h)
	case db.ErrNotExist:
		sf.height = 0
	default:
		return errors.Wrap(err, "failed to read current height")
	}
	log.L().Info("State factory started.", zap.Uint64("height", sf.height))
	return nil
}

func (sf *factory) Stop(ctx context.Context) error {
	return sf.lifecycle.OnStop(ctx)
}

// Height returns the number of committed calls
func (sf *factory) Height() (uint64, error) {
	sf.mutex.RLock()
	defer sf.mutex.RUnlock()
	return sf.height, nil
}

// State reads a committed state
func (sf *factory) State(s interface{}, opts ...protocol.StateOption) (uint64, error) {
	sf.mutex.RLock()
	defer sf.mutex.RUnlock()
	cfg, err := protocol.CreateStateConfig(opts...)
	if err != nil {
		return 0, err
	}
	stateDBMtc.WithLabelValues("get").Inc()
	data, err := sf.dao.Get(cfg.Namespace, cfg.Key)
	if err != nil {
		if errors.Cause(err) == db.ErrNotExist {
			return sf.height, errors.Wrapf(state.ErrStateNotExist, "failed to get state of ns = %s and key = %x", cfg.Namespace, cfg.Key)
		}
		return sf.height, err
	}
	return sf.height, state.Deserialize(s, data)
}

// NewWorkingSet returns a working set on top of the committed state
func (sf *factory) NewWorkingSet() (WorkingSet, error) {
	sf.mutex.RLock()
	defer sf.mutex.RUnlock()
	return newWorkingSet(sf.height+1, sf.dao, sf.registry, sf.onCommit), nil
}

func (sf *factory) onCommit(height uint64) {
	sf.mutex.Lock()
	defer sf.mutex.Unlock()
	sf.height = height
}
