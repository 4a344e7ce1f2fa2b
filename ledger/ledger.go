// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package ledger

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/facebookgo/clock"
	"github.com/iotexproject/go-pkgs/hash"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/tansuproject/tansu-core/action"
	"github.com/tansuproject/tansu-core/action/protocol"
	"github.com/tansuproject/tansu-core/action/protocol/tansu"
	"github.com/tansuproject/tansu-core/action/protocol/tansu/domain"
	"github.com/tansuproject/tansu-core/config"
	"github.com/tansuproject/tansu-core/db"
	"github.com/tansuproject/tansu-core/pkg/lifecycle"
	"github.com/tansuproject/tansu-core/pkg/log"
	"github.com/tansuproject/tansu-core/state/factory"
)

var _ledgerCallMtc = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "tansu_ledger_calls",
		Help: "Number of calls run by the ledger",
	},
	[]string{"method", "status"},
)

func init() {
	prometheus.MustRegister(_ledgerCallMtc)
}

type (
	// Ledger hosts the governance contract: it authenticates calls, runs them one at a time against a fresh working
	// set, and commits the working set only if the call succeeds and wrote something
	Ledger struct {
		mu        sync.Mutex
		lifecycle lifecycle.Lifecycle
		kv        db.KVStore
		sf        factory.Factory
		tansu     *tansu.Protocol
		oracle    domain.Oracle
		clock     clock.Clock
		lastTime  time.Time
	}

	// Option sets Ledger construction parameter
	Option func(*Ledger) error
)

// ClockOption sets the clock the ledger time is sampled from
func ClockOption(c clock.Clock) Option {
	return func(l *Ledger) error {
		if c == nil {
			return errors.New("clock is nil")
		}
		l.clock = c
		return nil
	}
}

// KVStoreOption sets the store of the ledger state instead of the one the config describes
func KVStoreOption(kv db.KVStore) Option {
	return func(l *Ledger) error {
		if kv == nil {
			return errors.New("kv store is nil")
		}
		l.kv = kv
		return nil
	}
}

// OracleOption sets the domain oracle instead of the one the config describes
func OracleOption(o domain.Oracle) Option {
	return func(l *Ledger) error {
		if o == nil {
			return errors.New("domain oracle is nil")
		}
		l.oracle = o
		return nil
	}
}

// New creates a ledger
func New(cfg config.Config, opts ...Option) (*Ledger, error) {
	l := &Ledger{clock: clock.New()}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, errors.Wrap(err, "failed to execute ledger option")
		}
	}
	var err error
	if l.kv == nil {
		if l.kv, err = db.CreateKVStore(cfg.DB); err != nil {
			return nil, errors.Wrap(err, "failed to create kv store")
		}
	}
	if l.oracle == nil {
		if l.oracle, err = domain.NewOracle(cfg.Domain); err != nil {
			return nil, errors.Wrap(err, "failed to create domain oracle")
		}
	}
	if l.tansu, err = tansu.NewProtocol(cfg.Tansu, l.oracle); err != nil {
		return nil, errors.Wrap(err, "failed to create governance protocol")
	}
	reg := protocol.NewRegistry()
	if err := reg.Register(l.tansu.Name(), l.tansu); err != nil {
		return nil, err
	}
	if so, ok := l.oracle.(*domain.StateOracle); ok {
		if err := reg.Register(so.Name(), so); err != nil {
			return nil, err
		}
	}
	if l.sf, err = factory.NewFactory(l.kv, factory.RegistryOption(reg)); err != nil {
		return nil, errors.Wrap(err, "failed to create state factory")
	}
	l.lifecycle.Add(l.sf)
	return l, nil
}

// Start starts the ledger
func (l *Ledger) Start(ctx context.Context) error {
	return l.lifecycle.OnStart(ctx)
}

// Stop stops the ledger
func (l *Ledger) Stop(ctx context.Context) error {
	return l.lifecycle.OnStop(ctx)
}

// Protocol returns the governance protocol, its read methods take StateReader()
func (l *Ledger) Protocol() *tansu.Protocol {
	return l.tansu
}

// StateReader returns the committed state
func (l *Ledger) StateReader() protocol.StateReader {
	return l.sf
}

// Call runs a signed call, a failed call leaves no state behind and its error is returned
func (l *Ledger) Call(ctx context.Context, sealed *action.SealedEnvelope) (*action.Receipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	r, _, err := l.run(ctx, sealed)
	return r, err
}

// Try runs a signed call like Call, the error of a failed call is reported as the receipt status
func (l *Ledger) Try(ctx context.Context, sealed *action.SealedEnvelope) *action.Receipt {
	l.mu.Lock()
	defer l.mu.Unlock()
	r, meta, err := l.run(ctx, sealed)
	if err == nil {
		return r
	}
	return &action.Receipt{
		Status:      tansu.Code(err),
		BlockHeight: meta.height,
		ActionHash:  meta.hash,
	}
}

type callMeta struct {
	height uint64
	hash   hash.Hash256
}

func (l *Ledger) run(ctx context.Context, sealed *action.SealedEnvelope) (r *action.Receipt, meta callMeta, err error) {
	method := "unknown"
	defer func() {
		_ledgerCallMtc.WithLabelValues(method, strconv.FormatUint(tansu.Code(err), 10)).Inc()
		if err != nil {
			log.L().Warn("Call failed.",
				zap.String("method", method),
				zap.Uint64("height", meta.height),
				zap.String("kind", tansu.KindOf(err).String()),
				zap.Error(err))
		}
	}()
	if sealed == nil || sealed.Action() == nil {
		err = errors.Wrap(tansu.ErrInputValidation, "empty call")
		return
	}
	method = sealed.Action().Method()
	if meta.hash, err = sealed.Hash(); err != nil {
		err = errors.Wrap(tansu.ErrInputValidation, err.Error())
		return
	}
	if err = sealed.VerifySignature(); err != nil {
		err = errors.Wrap(tansu.ErrUnauthorizedSigner, err.Error())
		return
	}
	ws, err := l.sf.NewWorkingSet()
	if err != nil {
		return
	}
	meta.height, _ = ws.Height()
	ctx = protocol.WithBlockCtx(ctx, protocol.BlockCtx{
		BlockHeight:    meta.height,
		BlockTimeStamp: l.now(),
	})
	ctx = protocol.WithActionCtx(ctx, protocol.ActionCtx{
		Caller:     sealed.Caller(),
		ActionHash: meta.hash,
		Nonce:      sealed.Nonce(),
	})
	log.L().Debug("Running call.",
		zap.String("method", method),
		zap.String("caller", sealed.Caller().String()),
		zap.Uint64("height", meta.height))
	if r, err = ws.RunAction(ctx, sealed.Action()); err != nil {
		r = nil
		return
	}
	if !ws.Changed() {
		// read only call, the height is not consumed
		return
	}
	if err = ws.Commit(); err != nil {
		r = nil
		err = errors.Wrap(err, "failed to commit call")
	}
	return
}

// now samples the clock, the ledger time never goes backwards
func (l *Ledger) now() time.Time {
	t := l.clock.Now()
	if t.Before(l.lastTime) {
		return l.lastTime
	}
	l.lastTime = t
	return t
}
