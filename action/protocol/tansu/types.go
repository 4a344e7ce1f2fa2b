// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package tansu

import (
	"github.com/iotexproject/go-pkgs/hash"

	"github.com/tansuproject/tansu-core/action"
)

// ProposalStatus is the status of a proposal
type ProposalStatus uint32

// Proposal statuses
const (
	Active ProposalStatus = iota
	Approved
	Rejected
	Cancelled
	Executed
)

func (s ProposalStatus) String() string {
	switch s {
	case Active:
		return "active"
	case Approved:
		return "approved"
	case Rejected:
		return "rejected"
	case Cancelled:
		return "cancelled"
	case Executed:
		return "executed"
	default:
		return "unknown"
	}
}

// Terminal returns true once no vote or execution is accepted anymore
func (s ProposalStatus) Terminal() bool {
	return s != Active
}

type (
	// Project is a registered project
	Project struct {
		ID               hash.Hash256
		Name             string
		URL              string
		ConfigHash       string
		Maintainers      []string
		LatestCommitHash string
	}

	// Member is an address which joined the platform
	Member struct {
		Address string
		Meta    string
	}

	// Badges are the badges a member holds on a project
	Badges struct {
		List []action.Badge
	}

	// AnonymousVoteConfig is the public key ballots of a project are authored with
	AnonymousVoteConfig struct {
		PublicKey string
	}

	// DAO is the proposal counter of a project
	DAO struct {
		NextID uint32
	}

	// Proposal is a proposal of a project
	Proposal struct {
		ID             uint32
		Title          string
		ContentRef     string
		Proposer       string
		CreatedAt      uint64
		VotingEndsAt   uint64
		Anonymous      bool
		Status         ProposalStatus
		Upgrade        *action.UpgradePayload `rlp:"nil"`
		PublicVotes    []action.PublicVote
		AnonymousVotes []action.AnonymousVote
	}

	// Governor holds the code the contract runs and the admins allowed to replace it
	Governor struct {
		Admins   action.AdminsConfig
		CodeHash hash.Hash256
		Version  uint64
		Paused   bool
	}

	// PendingUpgrade is an upgrade proposed by an admin and waiting for approvals
	PendingUpgrade struct {
		CodeHash   hash.Hash256
		Admins     *action.AdminsConfig `rlp:"nil"`
		Approvals  []string
		ProposedAt uint64
	}

	// TallyResult is the weighted count of a proposal's votes
	TallyResult struct {
		Approve   uint64
		Reject    uint64
		Abstain   uint64
		Total     uint64
		QuorumMet bool
		// Unopened is the number of anonymous votes the reveal did not open
		Unopened uint32
	}
)

// IsMaintainer returns true if addr maintains the project
func (p *Project) IsMaintainer(addr string) bool {
	for _, m := range p.Maintainers {
		if m == addr {
			return true
		}
	}
	return false
}

// HasVoted returns true if addr voted on the proposal already
func (p *Proposal) HasVoted(addr string) bool {
	for _, v := range p.PublicVotes {
		if v.Address == addr {
			return true
		}
	}
	for _, v := range p.AnonymousVotes {
		if v.Address == addr {
			return true
		}
	}
	return false
}

// IsAdmin returns true if addr is an admin
func (g *Governor) IsAdmin(addr string) bool {
	for _, a := range g.Admins.Admins {
		if a == addr {
			return true
		}
	}
	return false
}

// HasApproved returns true if addr approved the pending upgrade
func (pu *PendingUpgrade) HasApproved(addr string) bool {
	for _, a := range pu.Approvals {
		if a == addr {
			return true
		}
	}
	return false
}
