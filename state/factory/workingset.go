// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package factory

import (
	"context"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tansuproject/tansu-core/action"
	"github.com/tansuproject/tansu-core/action/protocol"
	"github.com/tansuproject/tansu-core/db"
	"github.com/tansuproject/tansu-core/db/batch"
	"github.com/tansuproject/tansu-core/pkg/util/byteutil"
	"github.com/tansuproject/tansu-core/state"
)

var (
	stateDBMtc = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tansu_state_db",
			Help: "Tansu State DB",
		},
		[]string{"type"},
	)
	dbBatchSizeMtc = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tansu_db_batch_size",
			Help: "DB batch size",
		},
		[]string{},
	)
)

func init() {
	prometheus.MustRegister(stateDBMtc)
	prometheus.MustRegister(dbBatchSizeMtc)
}

type (
	// WorkingSet defines an interface for working set of states changes
	WorkingSet interface {
		protocol.StateManager
		// RunAction dispatches a call to the registered protocols
		RunAction(context.Context, action.Action) (*action.Receipt, error)
		// Commit persists all changes into the DB atomically
		Commit() error
		// Changed returns true if the working set holds pending changes
		Changed() bool
	}

	// workingSet implements WorkingSet interface, tracks pending changes in a local cache
	workingSet struct {
		height    uint64
		committed bool
		registry  *protocol.Registry
		cb        batch.CachedBatch // cached batch for pending writes
		dao       db.KVStore        // the underlying DB
		onCommit  func(uint64)
	}
)

func newWorkingSet(height uint64, kv db.KVStore, reg *protocol.Registry, onCommit func(uint64)) *workingSet {
	return &workingSet{
		height:   height,
		registry: reg,
		cb:       batch.NewCachedBatch(),
		dao:      kv,
		onCommit: onCommit,
	}
}

// Height returns the height the working set will be committed at
func (ws *workingSet) Height() (uint64, error) {
	return ws.height, nil
}

// RunAction runs a call against the registered protocols, the first protocol returning a receipt owns it
func (ws *workingSet) RunAction(ctx context.Context, act action.Action) (*action.Receipt, error) {
	if ws.committed {
		return nil, errors.New("working set has been committed")
	}
	for _, p := range ws.registry.All() {
		receipt, err := p.Handle(ctx, act, ws)
		if err != nil {
			return nil, errors.Wrapf(err, "error when %s handles %s", p.Name(), act.Method())
		}
		if receipt != nil {
			return receipt, nil
		}
	}
	return nil, errors.Wrapf(action.ErrInvalidAct, "no protocol handles %s", act.Method())
}

// Snapshot takes a snapshot of the pending changes
func (ws *workingSet) Snapshot() int {
	return ws.cb.Snapshot()
}

// Revert drops the pending changes made after the snapshot
func (ws *workingSet) Revert(snapshot int) error {
	return ws.cb.RevertSnapshot(snapshot)
}

// Changed returns true if the working set holds pending changes
func (ws *workingSet) Changed() bool {
	return ws.cb.Size() > 0
}

// Commit persists all changes in RunAction() into the DB
func (ws *workingSet) Commit() error {
	if ws.committed {
		return errors.New("working set has been committed")
	}
	ws.cb.Put(
		SystemNamespace,
		[]byte(CurrentHeightKey),
		byteutil.Uint64ToBytesBigEndian(ws.height),
		"failed to store current height %d",
		ws.height,
	)
	dbBatchSizeMtc.WithLabelValues().Set(float64(ws.cb.Size()))
	if err := ws.dao.WriteBatch(ws.cb); err != nil {
		return errors.Wrap(err, "failed to commit all changes to underlying DB in a batch")
	}
	ws.committed = true
	ws.cb.Clear()
	if ws.onCommit != nil {
		ws.onCommit(ws.height)
	}
	return nil
}

// State pulls a state from the pending changes, then from the DB
func (ws *workingSet) State(s interface{}, opts ...protocol.StateOption) (uint64, error) {
	stateDBMtc.WithLabelValues("get").Inc()
	cfg, err := protocol.CreateStateConfig(opts...)
	if err != nil {
		return ws.height, err
	}
	data, err := ws.cb.Get(cfg.Namespace, cfg.Key)
	switch errors.Cause(err) {
	case nil:
	case batch.ErrAlreadyDeleted:
		return ws.height, errors.Wrapf(state.ErrStateNotExist, "state of ns = %s and key = %x was deleted", cfg.Namespace, cfg.Key)
	case batch.ErrNotExist:
		data, err = ws.dao.Get(cfg.Namespace, cfg.Key)
		if errors.Cause(err) == db.ErrNotExist {
			return ws.height, errors.Wrapf(state.ErrStateNotExist, "failed to get state of ns = %s and key = %x", cfg.Namespace, cfg.Key)
		}
		if err != nil {
			return ws.height, err
		}
	default:
		return ws.height, err
	}
	return ws.height, state.Deserialize(s, data)
}

// PutState puts a state into the pending changes
func (ws *workingSet) PutState(s interface{}, opts ...protocol.StateOption) (uint64, error) {
	stateDBMtc.WithLabelValues("put").Inc()
	cfg, err := protocol.CreateStateConfig(opts...)
	if err != nil {
		return ws.height, err
	}
	ss, err := state.Serialize(s)
	if err != nil {
		return ws.height, errors.Wrapf(err, "failed to convert state of ns = %s and key = %x", cfg.Namespace, cfg.Key)
	}
	ws.cb.Put(cfg.Namespace, cfg.Key, ss, "failed to put state of ns = %s and key = %x", cfg.Namespace, cfg.Key)
	return ws.height, nil
}

// DelState deletes a state
func (ws *workingSet) DelState(opts ...protocol.StateOption) (uint64, error) {
	stateDBMtc.WithLabelValues("delete").Inc()
	cfg, err := protocol.CreateStateConfig(opts...)
	if err != nil {
		return ws.height, err
	}
	ws.cb.Delete(cfg.Namespace, cfg.Key, "failed to delete state of ns = %s and key = %x", cfg.Namespace, cfg.Key)
	return ws.height, nil
}
