// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package domain

import (
	"context"
	"sync"

	"github.com/iotexproject/iotex-address/address"
	"github.com/pkg/errors"

	"github.com/tansuproject/tansu-core/action/protocol"
)

// MemOracle keeps domain ownership in memory. Registrations are not reverted with a failed call.
type MemOracle struct {
	mu     sync.RWMutex
	owners map[string]address.Address
}

// NewMemOracle creates a MemOracle
func NewMemOracle() *MemOracle {
	return &MemOracle{
		owners: make(map[string]address.Address),
	}
}

// Owner returns the owner of the name
func (o *MemOracle) Owner(_ context.Context, _ protocol.StateReader, registry, name string) (address.Address, error) {
	if err := validateName(registry, name); err != nil {
		return nil, err
	}
	o.mu.RLock()
	defer o.mu.RUnlock()
	owner, ok := o.owners[registry+"/"+name]
	if !ok {
		return nil, errors.Wrapf(ErrDomainNotFound, "%s in %s", name, registry)
	}
	return owner, nil
}

// Register registers the name to the owner
func (o *MemOracle) Register(_ context.Context, _ protocol.StateManager, registry, name string, owner address.Address) error {
	if err := validateName(registry, name); err != nil {
		return err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	key := registry + "/" + name
	if _, ok := o.owners[key]; ok {
		return errors.Wrapf(ErrDomainTaken, "%s in %s", name, registry)
	}
	o.owners[key] = owner
	return nil
}
