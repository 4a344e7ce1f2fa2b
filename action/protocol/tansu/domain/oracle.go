// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package domain

import (
	"context"
	"time"

	"github.com/iotexproject/iotex-address/address"
	"github.com/pkg/errors"

	"github.com/tansuproject/tansu-core/action/protocol"
)

//go:generate mockgen -destination=../../../../test/mock/mock_domain/mock_domain.go -package=mock_domain . Oracle

const (
	// StateMode keeps the domain registry in the ledger state
	StateMode = "state"
	// MemoryMode keeps the domain registry in process memory
	MemoryMode = "memory"
	// HTTPMode queries a remote domain registry
	HTTPMode = "http"
)

var (
	// ErrDomainNotFound indicates the domain has no owner yet
	ErrDomainNotFound = errors.New("domain not found")
	// ErrDomainTaken indicates the domain is owned already
	ErrDomainTaken = errors.New("domain already registered")
	// ErrInvalidDomain indicates a malformed registry or domain name
	ErrInvalidDomain = errors.New("invalid domain")
)

type (
	// Oracle answers who owns a domain name of a registry, and registers unowned names
	Oracle interface {
		// Owner returns the owner of the name, ErrDomainNotFound if nobody owns it
		Owner(ctx context.Context, sr protocol.StateReader, registry, name string) (address.Address, error)
		// Register registers the name to the owner, ErrDomainTaken if it is owned already.
		// Only an oracle writing to sm is reverted together with a failed call.
		Register(ctx context.Context, sm protocol.StateManager, registry, name string, owner address.Address) error
	}

	// Config is the config of the domain oracle
	Config struct {
		Mode       string        `yaml:"mode"`
		Endpoint   string        `yaml:"endpoint"`
		Timeout    time.Duration `yaml:"timeout"`
		RetryCount int           `yaml:"retryCount"`
	}
)

// DefaultConfig is the default config of the domain oracle
var DefaultConfig = Config{
	Mode:       StateMode,
	Timeout:    10 * time.Second,
	RetryCount: 2,
}

// NewOracle creates the oracle the config asks for
func NewOracle(cfg Config) (Oracle, error) {
	switch cfg.Mode {
	case StateMode:
		return NewStateOracle(), nil
	case MemoryMode:
		return NewMemOracle(), nil
	case HTTPMode:
		return NewHTTPOracle(cfg)
	default:
		return nil, errors.Errorf("unknown domain oracle mode %s", cfg.Mode)
	}
}

func validateName(registry, name string) error {
	if len(registry) == 0 || len(name) == 0 {
		return errors.Wrapf(ErrInvalidDomain, "registry = %s, name = %s", registry, name)
	}
	return nil
}
