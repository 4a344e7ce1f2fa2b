// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package lifecycle

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	name     string
	startErr error
	log      *[]string
}

func (r *recorder) Start(context.Context) error {
	*r.log = append(*r.log, "start "+r.name)
	return r.startErr
}

func (r *recorder) Stop(context.Context) error {
	*r.log = append(*r.log, "stop "+r.name)
	return nil
}

func TestLifecycle(t *testing.T) {
	r := require.New(t)
	ctx := context.Background()

	var calls []string
	var lc Lifecycle
	lc.AddModels(&recorder{name: "a", log: &calls}, &recorder{name: "b", log: &calls})
	r.NoError(lc.OnStart(ctx))
	r.NoError(lc.OnStop(ctx))
	r.Equal([]string{"start a", "start b", "stop b", "stop a"}, calls)
}

func TestLifecycleWithError(t *testing.T) {
	r := require.New(t)
	ctx := context.Background()

	var calls []string
	err := errors.New("error")
	var lc Lifecycle
	lc.Add(&recorder{name: "a", log: &calls})
	lc.Add(&recorder{name: "b", log: &calls, startErr: err})
	r.Equal(err, lc.OnStart(ctx))
	r.Equal([]string{"start a", "start b", "stop a"}, calls)
}

func TestReady(t *testing.T) {
	r := require.New(t)

	ready := Readiness{}
	r.False(ready.IsReady())
	r.Equal(ErrWrongState, ready.TurnOff())

	// ready after turn on
	r.NoError(ready.TurnOn())
	r.True(ready.IsReady())
	r.Equal(ErrWrongState, ready.TurnOn())

	// not ready after turn off
	r.NoError(ready.TurnOff())
	r.False(ready.IsReady())
	r.Equal(ErrWrongState, ready.TurnOff())
}
