// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package domain

import (
	"context"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/iotexproject/iotex-address/address"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/tansuproject/tansu-core/action/protocol"
	"github.com/tansuproject/tansu-core/pkg/log"
)

const (
	domainPath    = "/registries/{registry}/domains/{name}"
	registrarPath = "/registries/{registry}/domains"
)

// HTTPOracle asks a remote domain registry over its REST interface. Registrations are not reverted with a
// failed call.
//
//	GET  /registries/{registry}/domains/{name}  -> 200 {"owner": "io1..."} or 404
//	POST /registries/{registry}/domains         <- {"name": "...", "owner": "io1..."}, 409 when taken
type HTTPOracle struct {
	client *resty.Client
}

// NewHTTPOracle creates a HTTPOracle
func NewHTTPOracle(cfg Config) (*HTTPOracle, error) {
	if len(cfg.Endpoint) == 0 {
		return nil, errors.New("domain oracle endpoint is empty")
	}
	client := resty.New().
		SetBaseURL(cfg.Endpoint).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetHeader("Accept", "application/json")
	return &HTTPOracle{client: client}, nil
}

// Owner returns the owner of the name
func (o *HTTPOracle) Owner(ctx context.Context, _ protocol.StateReader, registry, name string) (address.Address, error) {
	if err := validateName(registry, name); err != nil {
		return nil, err
	}
	resp, err := o.client.R().
		SetContext(ctx).
		SetPathParams(map[string]string{"registry": registry, "name": name}).
		Get(domainPath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to query owner of %s", name)
	}
	switch resp.StatusCode() {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, errors.Wrapf(ErrDomainNotFound, "%s in %s", name, registry)
	default:
		return nil, errors.Errorf("unexpected status %d when querying owner of %s", resp.StatusCode(), name)
	}
	owner := gjson.GetBytes(resp.Body(), "owner")
	if !owner.Exists() || len(owner.String()) == 0 {
		return nil, errors.Wrapf(ErrDomainNotFound, "%s in %s has no owner", name, registry)
	}
	return address.FromString(owner.String())
}

// Register registers the name to the owner
func (o *HTTPOracle) Register(ctx context.Context, _ protocol.StateManager, registry, name string, owner address.Address) error {
	if err := validateName(registry, name); err != nil {
		return err
	}
	resp, err := o.client.R().
		SetContext(ctx).
		SetPathParam("registry", registry).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"name": name, "owner": owner.String()}).
		Post(registrarPath)
	if err != nil {
		return errors.Wrapf(err, "failed to register %s", name)
	}
	switch resp.StatusCode() {
	case http.StatusOK, http.StatusCreated:
		log.L().Debug("Domain registered remotely.", zap.String("registry", registry), zap.String("name", name))
		return nil
	case http.StatusConflict:
		return errors.Wrapf(ErrDomainTaken, "%s in %s", name, registry)
	default:
		return errors.Errorf("unexpected status %d when registering %s: %s",
			resp.StatusCode(), name, gjson.GetBytes(resp.Body(), "error").String())
	}
}
