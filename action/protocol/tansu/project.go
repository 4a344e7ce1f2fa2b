// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package tansu

import (
	"context"
	"encoding/hex"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/iotexproject/go-pkgs/hash"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/tansuproject/tansu-core/action/protocol"
	"github.com/tansuproject/tansu-core/action/protocol/tansu/domain"
	"github.com/tansuproject/tansu-core/pkg/log"
)

// ProjectID derives the id of a project from its name
func ProjectID(name string) hash.Hash256 {
	return hash.BytesToHash256(crypto.Keccak256([]byte(name)))
}

// Register registers a project, the caller must be one of its maintainers and own the domain
func (p *Protocol) Register(
	ctx context.Context,
	sm protocol.StateManager,
	name string,
	maintainers []string,
	url string,
	commitHash string,
	registry string,
) (hash.Hash256, error) {
	if err := p.assertNotPaused(sm); err != nil {
		return hash.ZeroHash256, err
	}
	if len(name) == 0 {
		return hash.ZeroHash256, errors.Wrap(ErrInputValidation, "project name is empty")
	}
	if err := validateMaintainers(maintainers); err != nil {
		return hash.ZeroHash256, err
	}
	if len(url) == 0 {
		return hash.ZeroHash256, errors.Wrap(ErrInputValidation, "project url is empty")
	}
	if len(name) > p.cfg.MaxProjectNameLength {
		return hash.ZeroHash256, errors.Wrapf(ErrInvalidDomain, "name %s is longer than %d", name, p.cfg.MaxProjectNameLength)
	}
	c := caller(ctx)
	id := ProjectID(name)
	project := Project{
		ID:               id,
		Name:             name,
		URL:              url,
		Maintainers:      append([]string{}, maintainers...),
		LatestCommitHash: commitHash,
	}
	if !project.IsMaintainer(c.String()) {
		return hash.ZeroHash256, errors.Wrapf(ErrUnregisteredMaintainer, "%s is not a maintainer of %s", c.String(), name)
	}
	if _, err := p.Project(sm, id); err == nil {
		return hash.ZeroHash256, errors.Wrapf(ErrProjectAlreadyExist, "project %s", name)
	} else if errors.Cause(err) != ErrInvalidKey {
		return hash.ZeroHash256, err
	}

	owner, err := p.oracle.Owner(ctx, sm, registry, name)
	unowned := false
	switch errors.Cause(err) {
	case nil:
		if owner.String() != c.String() {
			return hash.ZeroHash256, errors.Wrapf(ErrMaintainerNotDomainOwner, "domain %s is owned by %s", name, owner.String())
		}
	case domain.ErrDomainNotFound:
		unowned = true
	case domain.ErrInvalidDomain:
		return hash.ZeroHash256, errors.Wrap(ErrInvalidDomain, err.Error())
	default:
		return hash.ZeroHash256, errors.Wrapf(err, "failed to query owner of domain %s", name)
	}

	if err := p.putState(sm, projectKey(id), &project); err != nil {
		return hash.ZeroHash256, err
	}
	// the oracle may write outside sm, so registration is the last step
	if unowned {
		if err := p.oracle.Register(ctx, sm, registry, name, c); err != nil {
			return hash.ZeroHash256, errors.Wrapf(err, "failed to register domain %s", name)
		}
	}
	log.L().Info("Registered project.",
		zap.String("name", name),
		zap.String("id", hexID(id)),
		zap.Int("maintainers", len(maintainers)))
	return id, nil
}

// Commit records the latest commit hash of a project
func (p *Protocol) Commit(ctx context.Context, sm protocol.StateManager, id hash.Hash256, commitHash string) error {
	if err := p.assertNotPaused(sm); err != nil {
		return err
	}
	project, err := p.assertMaintainer(ctx, sm, id)
	if err != nil {
		return err
	}
	project.LatestCommitHash = commitHash
	return p.putState(sm, projectKey(id), project)
}

// UpdateConfig replaces the maintainers, url and config hash of a project
func (p *Protocol) UpdateConfig(
	ctx context.Context,
	sm protocol.StateManager,
	id hash.Hash256,
	maintainers []string,
	url string,
	configHash string,
) error {
	if err := p.assertNotPaused(sm); err != nil {
		return err
	}
	project, err := p.assertMaintainer(ctx, sm, id)
	if err != nil {
		return err
	}
	if err := validateMaintainers(maintainers); err != nil {
		return err
	}
	project.Maintainers = append([]string{}, maintainers...)
	if c := caller(ctx).String(); !project.IsMaintainer(c) {
		return errors.Wrapf(ErrUnregisteredMaintainer, "%s cannot remove itself from the maintainers", c)
	}
	if len(url) == 0 {
		return errors.Wrap(ErrInputValidation, "project url is empty")
	}
	project.URL = url
	project.ConfigHash = configHash
	return p.putState(sm, projectKey(id), project)
}

// Project returns a registered project
func (p *Protocol) Project(sr protocol.StateReader, id hash.Hash256) (*Project, error) {
	project := Project{}
	if err := p.state(sr, projectKey(id), &project); err != nil {
		if isNotExist(err) {
			return nil, errors.Wrapf(ErrInvalidKey, "project %s", hexID(id))
		}
		return nil, err
	}
	return &project, nil
}

// LatestCommit returns the latest commit hash of a project
func (p *Protocol) LatestCommit(sr protocol.StateReader, id hash.Hash256) (string, error) {
	project, err := p.Project(sr, id)
	if err != nil {
		return "", err
	}
	if len(project.LatestCommitHash) == 0 {
		return "", errors.Wrapf(ErrNoHashFound, "project %s", project.Name)
	}
	return project.LatestCommitHash, nil
}

// assertMaintainer returns the project if the caller maintains it
func (p *Protocol) assertMaintainer(ctx context.Context, sr protocol.StateReader, id hash.Hash256) (*Project, error) {
	project, err := p.Project(sr, id)
	if err != nil {
		return nil, err
	}
	if c := caller(ctx).String(); !project.IsMaintainer(c) {
		return nil, errors.Wrapf(ErrUnregisteredMaintainer, "%s is not a maintainer of %s", c, project.Name)
	}
	return project, nil
}

func validateMaintainers(maintainers []string) error {
	if len(maintainers) == 0 {
		return errors.Wrap(ErrInputValidation, "no maintainer")
	}
	return parseAddresses(maintainers)
}

func hexID(id hash.Hash256) string {
	return hex.EncodeToString(id[:])
}
