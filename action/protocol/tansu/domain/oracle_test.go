// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package domain

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/tansuproject/tansu-core/action"
	"github.com/tansuproject/tansu-core/action/protocol"
	"github.com/tansuproject/tansu-core/db"
	"github.com/tansuproject/tansu-core/state/factory"
	"github.com/tansuproject/tansu-core/test/identityset"
)

const registry = "soroban-domains"

func newWorkingSet(t *testing.T, reg *protocol.Registry) factory.WorkingSet {
	require := require.New(t)
	sf, err := factory.NewFactory(db.NewMemKVStore(), factory.RegistryOption(reg))
	require.NoError(err)
	require.NoError(sf.Start(context.Background()))
	ws, err := sf.NewWorkingSet()
	require.NoError(err)
	return ws
}

func testOracle(t *testing.T, o Oracle, sm protocol.StateManager) {
	require := require.New(t)
	ctx := context.Background()
	mando := identityset.Address(identityset.Mando)

	_, err := o.Owner(ctx, sm, registry, "bob")
	require.Equal(ErrDomainNotFound, errors.Cause(err))
	require.NoError(o.Register(ctx, sm, registry, "bob", mando))
	owner, err := o.Owner(ctx, sm, registry, "bob")
	require.NoError(err)
	require.Equal(mando.String(), owner.String())

	err = o.Register(ctx, sm, registry, "bob", identityset.Address(identityset.Grogu))
	require.Equal(ErrDomainTaken, errors.Cause(err))
	// same name in another registry is a different domain
	_, err = o.Owner(ctx, sm, "other", "bob")
	require.Equal(ErrDomainNotFound, errors.Cause(err))

	_, err = o.Owner(ctx, sm, registry, "")
	require.Equal(ErrInvalidDomain, errors.Cause(err))
}

func TestStateOracle(t *testing.T) {
	testOracle(t, NewStateOracle(), newWorkingSet(t, protocol.NewRegistry()))
}

func TestMemOracle(t *testing.T) {
	testOracle(t, NewMemOracle(), nil)
}

func TestStateOracleHandle(t *testing.T) {
	require := require.New(t)
	o := NewStateOracle()
	reg := protocol.NewRegistry()
	require.NoError(reg.Register(o.Name(), o))
	ws := newWorkingSet(t, reg)

	mando := identityset.Address(identityset.Mando)
	ctx := protocol.WithActionCtx(context.Background(), protocol.ActionCtx{Caller: mando})
	ctx = protocol.WithBlockCtx(ctx, protocol.BlockCtx{BlockHeight: 1, BlockTimeStamp: time.Unix(100, 0)})

	r, err := ws.RunAction(ctx, &action.RegisterDomain{Registry: registry, Name: "bob"})
	require.NoError(err)
	require.True(r.Succeeded())
	require.Len(r.Logs(), 1)
	owner, err := o.Owner(ctx, ws, registry, "bob")
	require.NoError(err)
	require.Equal(mando.String(), owner.String())

	_, err = ws.RunAction(ctx, &action.RegisterDomain{Registry: registry, Name: "bob"})
	require.Equal(ErrDomainTaken, errors.Cause(err))

	r, err = o.Handle(ctx, &action.Pause{}, ws)
	require.NoError(err)
	require.Nil(r)
}

type fakeRegistrar struct {
	mu     sync.Mutex
	owners map[string]string
}

func (f *fakeRegistrar) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch req.Method {
	case http.MethodGet:
		owner, ok := f.owners[req.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"owner": owner})
	case http.MethodPost:
		var body map[string]string
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		key := req.URL.Path + "/" + body["name"]
		if _, ok := f.owners[key]; ok {
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"error":"taken"}`))
			return
		}
		f.owners[key] = body["owner"]
		w.WriteHeader(http.StatusCreated)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func TestHTTPOracle(t *testing.T) {
	require := require.New(t)
	srv := httptest.NewServer(&fakeRegistrar{owners: make(map[string]string)})
	defer srv.Close()

	cfg := DefaultConfig
	cfg.Mode = HTTPMode
	cfg.Endpoint = srv.URL
	cfg.RetryCount = 0
	o, err := NewOracle(cfg)
	require.NoError(err)
	testOracle(t, o, nil)

	cfg.Endpoint = ""
	_, err = NewOracle(cfg)
	require.Error(err)
}

func TestNewOracle(t *testing.T) {
	require := require.New(t)
	cfg := DefaultConfig
	o, err := NewOracle(cfg)
	require.NoError(err)
	require.IsType(&StateOracle{}, o)
	cfg.Mode = MemoryMode
	o, err = NewOracle(cfg)
	require.NoError(err)
	require.IsType(&MemOracle{}, o)
	cfg.Mode = "dns"
	_, err = NewOracle(cfg)
	require.Error(err)
}
