// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package protocol

import (
	"sync"

	"github.com/pkg/errors"
)

// Registry is the hub of all protocols deployed on the ledger
type Registry struct {
	mu        sync.RWMutex
	ids       []string
	protocols map[string]Protocol
}

// NewRegistry create a new Registry
func NewRegistry() *Registry {
	return &Registry{
		ids:       make([]string, 0),
		protocols: make(map[string]Protocol),
	}
}

// Register registers the protocol with a unique ID
func (r *Registry) Register(id string, p Protocol) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exist := r.protocols[id]; exist {
		return errors.Errorf("Protocol with ID %s is already registered", id)
	}
	r.protocols[id] = p
	r.ids = append(r.ids, id)
	return nil
}

// Find finds a protocol by ID
func (r *Registry) Find(id string) (Protocol, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.protocols[id]
	return p, ok
}

// All returns all protocols in registration order
func (r *Registry) All() []Protocol {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]Protocol, 0, len(r.ids))
	for _, id := range r.ids {
		all = append(all, r.protocols[id])
	}
	return all
}
