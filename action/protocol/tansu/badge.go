// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package tansu

import (
	"context"

	"github.com/iotexproject/go-pkgs/hash"
	"github.com/iotexproject/iotex-address/address"
	"github.com/pkg/errors"

	"github.com/tansuproject/tansu-core/action"
	"github.com/tansuproject/tansu-core/action/protocol"
)

// BadgeWeight returns the voting weight a badge grants
func BadgeWeight(b action.Badge) uint64 {
	switch b {
	case action.Developer:
		return 10_000_000
	case action.Triage:
		return 5_000_000
	case action.Community:
		return 1_000_000
	case action.Verified:
		return 500_000
	default:
		return 1
	}
}

// AddMember adds the caller to the members
func (p *Protocol) AddMember(ctx context.Context, sm protocol.StateManager, member string, meta string) error {
	if err := p.assertNotPaused(sm); err != nil {
		return err
	}
	if _, err := address.FromString(member); err != nil {
		return errors.Wrapf(ErrInputValidation, "invalid member address %s", member)
	}
	if c := caller(ctx).String(); c != member {
		return errors.Wrapf(ErrUnauthorizedSigner, "%s cannot add %s as member", c, member)
	}
	if _, err := p.Member(sm, member); err == nil {
		return errors.Wrapf(ErrMemberAlreadyExist, "member %s", member)
	} else if errors.Cause(err) != ErrUnknownMember {
		return err
	}
	return p.putState(sm, memberKey(member), &Member{Address: member, Meta: meta})
}

// SetBadges replaces the badges a member holds on a project
func (p *Protocol) SetBadges(
	ctx context.Context,
	sm protocol.StateManager,
	id hash.Hash256,
	member string,
	badges []action.Badge,
) error {
	if err := p.assertNotPaused(sm); err != nil {
		return err
	}
	if _, err := p.assertMaintainer(ctx, sm, id); err != nil {
		return err
	}
	if _, err := p.Member(sm, member); err != nil {
		return err
	}
	list := make([]action.Badge, 0, len(badges))
	seen := make(map[action.Badge]struct{}, len(badges))
	for _, b := range badges {
		if b > action.Default {
			return errors.Wrapf(ErrInputValidation, "unknown badge %d", b)
		}
		if _, ok := seen[b]; ok {
			continue
		}
		seen[b] = struct{}{}
		list = append(list, b)
	}
	return p.putState(sm, badgesKey(id, member), &Badges{List: list})
}

// Member returns a member
func (p *Protocol) Member(sr protocol.StateReader, addr string) (*Member, error) {
	m := Member{}
	if err := p.state(sr, memberKey(addr), &m); err != nil {
		if isNotExist(err) {
			return nil, errors.Wrapf(ErrUnknownMember, "member %s", addr)
		}
		return nil, err
	}
	return &m, nil
}

// Badges returns the badges a member holds on a project
func (p *Protocol) Badges(sr protocol.StateReader, id hash.Hash256, addr string) ([]action.Badge, error) {
	b := Badges{}
	if err := p.state(sr, badgesKey(id, addr), &b); err != nil {
		if isNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return b.List, nil
}

// MaxWeight returns the heaviest vote addr can cast on a project
func (p *Protocol) MaxWeight(sr protocol.StateReader, id hash.Hash256, addr string) (uint64, error) {
	badges, err := p.Badges(sr, id, addr)
	if err != nil {
		return 0, err
	}
	max := BadgeWeight(action.Default)
	for _, b := range badges {
		if w := BadgeWeight(b); w > max {
			max = w
		}
	}
	return max, nil
}
