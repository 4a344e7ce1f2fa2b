// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package tansu

import (
	"context"

	"github.com/iotexproject/go-pkgs/hash"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/tansuproject/tansu-core/action"
	"github.com/tansuproject/tansu-core/action/protocol"
	"github.com/tansuproject/tansu-core/pkg/log"
)

// Initialize sets the first admin config and code hash, it can only be called once
func (p *Protocol) Initialize(ctx context.Context, sm protocol.StateManager, admins *action.AdminsConfig, codeHash hash.Hash256) error {
	if _, err := p.governor(sm); err == nil {
		return errors.Wrap(ErrUpgrade, "contract is already initialized")
	} else if errors.Cause(err) != ErrUnauthorizedSigner {
		return err
	}
	if err := validateAdminsConfig(admins); err != nil {
		return err
	}
	g := Governor{Admins: *admins.Clone(), CodeHash: codeHash}
	if c := caller(ctx).String(); !g.IsAdmin(c) {
		return errors.Wrapf(ErrUnauthorizedSigner, "%s is not among the admins", c)
	}
	if err := p.putState(sm, governorKey, &g); err != nil {
		return err
	}
	log.L().Info("Initialized contract.",
		zap.Uint32("threshold", admins.Threshold),
		zap.Int("admins", len(admins.Admins)))
	return nil
}

// ProposeUpgrade replaces the pending upgrade, the proposing admin approves it
func (p *Protocol) ProposeUpgrade(ctx context.Context, sm protocol.StateManager, codeHash hash.Hash256, admins *action.AdminsConfig) error {
	if err := p.assertNotPaused(sm); err != nil {
		return err
	}
	c, err := p.assertAdmin(ctx, sm)
	if err != nil {
		return err
	}
	if admins != nil {
		if err := validateAdminsConfig(admins); err != nil {
			return err
		}
	}
	return p.putState(sm, pendingUpgradeKey, &PendingUpgrade{
		CodeHash:   codeHash,
		Admins:     admins.Clone(),
		Approvals:  []string{c},
		ProposedAt: now(ctx),
	})
}

// ApproveUpgrade adds the caller's approval to the pending upgrade
func (p *Protocol) ApproveUpgrade(ctx context.Context, sm protocol.StateManager) error {
	if err := p.assertNotPaused(sm); err != nil {
		return err
	}
	c, err := p.assertAdmin(ctx, sm)
	if err != nil {
		return err
	}
	pu, err := p.PendingUpgrade(sm)
	if err != nil {
		return err
	}
	if pu.HasApproved(c) {
		return nil
	}
	pu.Approvals = append(pu.Approvals, c)
	return p.putState(sm, pendingUpgradeKey, pu)
}

// Pause switches the pause flag, it is the only call accepted while paused
func (p *Protocol) Pause(ctx context.Context, sm protocol.StateManager, paused bool) error {
	if _, err := p.assertAdmin(ctx, sm); err != nil {
		return err
	}
	g, err := p.governor(sm)
	if err != nil {
		return err
	}
	g.Paused = paused
	if err := p.putState(sm, governorKey, g); err != nil {
		return err
	}
	log.L().Info("Switched pause.", zap.Bool("paused", paused))
	return nil
}

// applyUpgrade swaps the code hash and admin config once the pending upgrade gathered enough approvals
func (p *Protocol) applyUpgrade(sm protocol.StateManager, upgrade *action.UpgradePayload) error {
	g, err := p.governor(sm)
	if err != nil {
		return errors.Wrap(ErrUpgrade, "contract is not initialized")
	}
	pu, err := p.PendingUpgrade(sm)
	if err != nil {
		return err
	}
	if pu.CodeHash != upgrade.CodeHash || !pu.Admins.Equal(upgrade.Admins) {
		return errors.Wrap(ErrUpgrade, "pending upgrade differs from the approved proposal")
	}
	approvals := 0
	for _, a := range pu.Approvals {
		if g.IsAdmin(a) {
			approvals++
		}
	}
	if approvals < int(g.Admins.Threshold) {
		return errors.Wrapf(ErrUpgrade, "%d approvals, threshold is %d", approvals, g.Admins.Threshold)
	}
	g.CodeHash = upgrade.CodeHash
	g.Version++
	if upgrade.Admins != nil {
		g.Admins = *upgrade.Admins.Clone()
	}
	if err := p.putState(sm, governorKey, g); err != nil {
		return err
	}
	if err := p.deleteState(sm, pendingUpgradeKey); err != nil {
		return err
	}
	log.L().Info("Upgraded contract.",
		zap.String("codeHash", hexID(g.CodeHash)),
		zap.Uint64("version", g.Version))
	return nil
}

// Governor returns the governor state
func (p *Protocol) Governor(sr protocol.StateReader) (*Governor, error) {
	return p.governor(sr)
}

// AdminsConfig returns the current admin config
func (p *Protocol) AdminsConfig(sr protocol.StateReader) (*action.AdminsConfig, error) {
	g, err := p.governor(sr)
	if err != nil {
		return nil, err
	}
	return g.Admins.Clone(), nil
}

// CodeHash returns the hash of the code the contract runs
func (p *Protocol) CodeHash(sr protocol.StateReader) (hash.Hash256, error) {
	g, err := p.governor(sr)
	if err != nil {
		return hash.ZeroHash256, err
	}
	return g.CodeHash, nil
}

// PendingUpgrade returns the upgrade waiting for approvals
func (p *Protocol) PendingUpgrade(sr protocol.StateReader) (*PendingUpgrade, error) {
	pu := PendingUpgrade{}
	if err := p.state(sr, pendingUpgradeKey, &pu); err != nil {
		if isNotExist(err) {
			return nil, errors.Wrap(ErrUpgrade, "no pending upgrade")
		}
		return nil, err
	}
	return &pu, nil
}

func (p *Protocol) governor(sr protocol.StateReader) (*Governor, error) {
	g := Governor{}
	if err := p.state(sr, governorKey, &g); err != nil {
		if isNotExist(err) {
			return nil, errors.Wrap(ErrUnauthorizedSigner, "contract is not initialized")
		}
		return nil, err
	}
	return &g, nil
}

func (p *Protocol) assertAdmin(ctx context.Context, sr protocol.StateReader) (string, error) {
	g, err := p.governor(sr)
	if err != nil {
		return "", err
	}
	c := caller(ctx).String()
	if !g.IsAdmin(c) {
		return "", errors.Wrapf(ErrUnauthorizedSigner, "%s is not an admin", c)
	}
	return c, nil
}

func validateAdminsConfig(cfg *action.AdminsConfig) error {
	if cfg == nil || len(cfg.Admins) == 0 {
		return errors.Wrap(ErrUpgrade, "no admin")
	}
	if cfg.Threshold == 0 || int(cfg.Threshold) > len(cfg.Admins) {
		return errors.Wrapf(ErrUpgrade, "threshold %d out of [1, %d]", cfg.Threshold, len(cfg.Admins))
	}
	if err := parseAddresses(cfg.Admins); err != nil {
		return errors.Wrap(ErrUpgrade, err.Error())
	}
	return nil
}
