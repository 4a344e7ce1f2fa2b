// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package domain

import (
	"context"

	"github.com/iotexproject/go-pkgs/hash"
	"github.com/iotexproject/iotex-address/address"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/tansuproject/tansu-core/action"
	"github.com/tansuproject/tansu-core/action/protocol"
	"github.com/tansuproject/tansu-core/pkg/log"
	"github.com/tansuproject/tansu-core/state"
)

const (
	// ProtocolID is the protocol ID of the in-state domain registry
	ProtocolID = "domain"
	// Namespace is the namespace of domain records
	Namespace = "Domain"
)

// Record is the ownership record of a domain
type Record struct {
	Registry     string
	Name         string
	Owner        string
	RegisteredAt uint64
}

// StateOracle keeps domain ownership in the ledger state, so registration commits or reverts with the call
type StateOracle struct{}

// NewStateOracle creates a StateOracle
func NewStateOracle() *StateOracle {
	return &StateOracle{}
}

func recordKey(registry, name string) []byte {
	h := hash.Hash256b([]byte(registry + "/" + name))
	return h[:]
}

// Name returns the protocol name
func (o *StateOracle) Name() string {
	return ProtocolID
}

// Owner returns the owner of the name
func (o *StateOracle) Owner(_ context.Context, sr protocol.StateReader, registry, name string) (address.Address, error) {
	if err := validateName(registry, name); err != nil {
		return nil, err
	}
	var rec Record
	_, err := sr.State(&rec, protocol.NamespaceOption(Namespace), protocol.KeyOption(recordKey(registry, name)))
	if err != nil {
		if errors.Cause(err) == state.ErrStateNotExist {
			return nil, errors.Wrapf(ErrDomainNotFound, "%s in %s", name, registry)
		}
		return nil, err
	}
	return address.FromString(rec.Owner)
}

// Register registers the name to the owner
func (o *StateOracle) Register(ctx context.Context, sm protocol.StateManager, registry, name string, owner address.Address) error {
	_, err := o.Owner(ctx, sm, registry, name)
	switch errors.Cause(err) {
	case ErrDomainNotFound:
	case nil:
		return errors.Wrapf(ErrDomainTaken, "%s in %s", name, registry)
	default:
		return err
	}
	rec := Record{
		Registry: registry,
		Name:     name,
		Owner:    owner.String(),
	}
	if blkCtx, ok := protocol.GetBlockCtx(ctx); ok {
		rec.RegisteredAt = uint64(blkCtx.BlockTimeStamp.Unix())
	}
	_, err = sm.PutState(&rec, protocol.NamespaceOption(Namespace), protocol.KeyOption(recordKey(registry, name)))
	return err
}

// Handle handles the domain registration calls
func (o *StateOracle) Handle(ctx context.Context, act action.Action, sm protocol.StateManager) (*action.Receipt, error) {
	rd, ok := act.(*action.RegisterDomain)
	if !ok {
		return nil, nil
	}
	actCtx := protocol.MustGetActionCtx(ctx)
	blkCtx := protocol.MustGetBlockCtx(ctx)
	if err := o.Register(ctx, sm, rd.Registry, rd.Name, actCtx.Caller); err != nil {
		return nil, err
	}
	log.L().Debug("Domain registered.",
		zap.String("registry", rd.Registry),
		zap.String("name", rd.Name),
		zap.String("owner", actCtx.Caller.String()))
	r := &action.Receipt{
		Status:      action.SuccessReceiptStatus,
		BlockHeight: blkCtx.BlockHeight,
		ActionHash:  actCtx.ActionHash,
	}
	return r.AddLogs(&action.Log{
		Topics: []hash.Hash256{action.NewTopic(action.RegisterDomainMethod), hash.BytesToHash256(recordKey(rd.Registry, rd.Name))},
		Data:   []byte(rd.Name),
	}), nil
}
