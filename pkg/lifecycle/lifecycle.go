// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package lifecycle

import (
	"context"
)

type (
	// Starter is Service that can be started.
	Starter interface {
		// Start starts the service.
		Start(context.Context) error
	}

	// Stopper is Service that can be stopped.
	Stopper interface {
		// Stop stops the service.
		Stop(context.Context) error
	}

	// StartStopper is Service that can be started and stopped.
	StartStopper interface {
		Starter
		Stopper
	}

	// Model is application model that can be managed.
	Model interface {
		// Start starts the model.
		Start(context.Context) error
		// Stop stops the model.
		Stop(context.Context) error
	}
)

// Lifecycle manages lifecycle for models. Currently, it only manages the start/stop order.
type Lifecycle struct {
	models []Model
}

// Add adds a model into LifeCycle.
func (lc *Lifecycle) Add(m Model) { lc.models = append(lc.models, m) }

// AddModels adds multiple models into LifeCycle.
func (lc *Lifecycle) AddModels(m ...Model) { lc.models = append(lc.models, m...) }

// OnStart runs Start on all models in the order they were added. On error it stops the already started models.
func (lc *Lifecycle) OnStart(ctx context.Context) error {
	for i, m := range lc.models {
		if err := m.Start(ctx); err != nil {
			for j := i - 1; j >= 0; j-- {
				_ = lc.models[j].Stop(ctx)
			}
			return err
		}
	}
	return nil
}

// OnStop runs Stop on all models in reverse order.
func (lc *Lifecycle) OnStop(ctx context.Context) error {
	var err error
	for i := len(lc.models) - 1; i >= 0; i-- {
		if e := lc.models[i].Stop(ctx); e != nil && err == nil {
			err = e
		}
	}
	return err
}
