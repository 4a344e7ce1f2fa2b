// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package action

import (
	"github.com/iotexproject/go-pkgs/hash"
)

type (
	// Initialize sets the first admin config and code hash of the contract
	Initialize struct {
		Admins   AdminsConfig
		CodeHash hash.Hash256
	}

	// Register registers a project owned by its maintainers
	Register struct {
		Name        string
		Maintainers []string
		URL         string
		CommitHash  string
		DomainID    string
	}

	// Commit records the latest commit hash of a project
	Commit struct {
		ProjectID hash.Hash256
		Hash      string
	}

	// UpdateConfig replaces the maintainers, url and config hash of a project
	UpdateConfig struct {
		ProjectID   hash.Hash256
		Maintainers []string
		URL         string
		Hash        string
	}

	// AddMember adds the caller as a member
	AddMember struct {
		Member string
		Meta   string
	}

	// SetBadges sets the badges of a member on a project
	SetBadges struct {
		ProjectID hash.Hash256
		Member    string
		Badges    []Badge
	}

	// AnonymousVotingSetup binds the public key used for anonymous ballots of a project
	AnonymousVotingSetup struct {
		ProjectID hash.Hash256
		PublicKey string
	}

	// BuildCommitments computes the commitments of a list of ballots
	BuildCommitments struct {
		ProjectID hash.Hash256
		Ballots   []Ballot
		Seeds     []hash.Hash256
	}

	// UpgradePayload is the upgrade a proposal applies once executed
	UpgradePayload struct {
		CodeHash hash.Hash256
		Admins   *AdminsConfig `rlp:"nil"`
	}

	// CreateProposal opens a proposal on a project
	CreateProposal struct {
		ProjectID    hash.Hash256
		Title        string
		ContentRef   string
		VotingEndsAt uint64
		Anonymous    bool
		Upgrade      *UpgradePayload `rlp:"nil"`
	}

	// CastVote casts a vote on a proposal
	CastVote struct {
		ProjectID  hash.Hash256
		ProposalID uint32
		Vote       Vote
	}

	// Execute closes a proposal after its voting period
	Execute struct {
		ProjectID     hash.Hash256
		ProposalID    uint32
		UpgradeConfig *AdminsConfig `rlp:"nil"`
		UpgradeCode   []byte
		Reveal        *Reveal `rlp:"nil"`
	}

	// ProposeUpgrade proposes a new code hash and optionally a new admin config
	ProposeUpgrade struct {
		CodeHash hash.Hash256
		Admins   *AdminsConfig `rlp:"nil"`
	}

	// ApproveUpgrade approves the pending upgrade
	ApproveUpgrade struct{}

	// Pause switches the contract in or out of maintenance
	Pause struct {
		Paused bool
	}

	// RegisterDomain registers a domain name to the caller
	RegisterDomain struct {
		Registry string
		Name     string
	}
)

// Method returns the method name
func (*Initialize) Method() string { return InitializeMethod }

// Method returns the method name
func (*Register) Method() string { return RegisterMethod }

// Method returns the method name
func (*Commit) Method() string { return CommitMethod }

// Method returns the method name
func (*UpdateConfig) Method() string { return UpdateConfigMethod }

// Method returns the method name
func (*AddMember) Method() string { return AddMemberMethod }

// Method returns the method name
func (*SetBadges) Method() string { return SetBadgesMethod }

// Method returns the method name
func (*AnonymousVotingSetup) Method() string { return AnonymousVotingSetupMethod }

// Method returns the method name
func (*BuildCommitments) Method() string { return BuildCommitmentsMethod }

// Method returns the method name
func (*CreateProposal) Method() string { return CreateProposalMethod }

// Method returns the method name
func (*CastVote) Method() string { return VoteMethod }

// Method returns the method name
func (*Execute) Method() string { return ExecuteMethod }

// Method returns the method name
func (*ProposeUpgrade) Method() string { return ProposeUpgradeMethod }

// Method returns the method name
func (*ApproveUpgrade) Method() string { return ApproveUpgradeMethod }

// Method returns the method name
func (*Pause) Method() string { return PauseMethod }

// Method returns the method name
func (*RegisterDomain) Method() string { return RegisterDomainMethod }

// NewAction returns an empty action of the given method, for decoding
func NewAction(method string) (Action, error) {
	switch method {
	case InitializeMethod:
		return &Initialize{}, nil
	case RegisterMethod:
		return &Register{}, nil
	case CommitMethod:
		return &Commit{}, nil
	case UpdateConfigMethod:
		return &UpdateConfig{}, nil
	case AddMemberMethod:
		return &AddMember{}, nil
	case SetBadgesMethod:
		return &SetBadges{}, nil
	case AnonymousVotingSetupMethod:
		return &AnonymousVotingSetup{}, nil
	case BuildCommitmentsMethod:
		return &BuildCommitments{}, nil
	case CreateProposalMethod:
		return &CreateProposal{}, nil
	case VoteMethod:
		return &CastVote{}, nil
	case ExecuteMethod:
		return &Execute{}, nil
	case ProposeUpgradeMethod:
		return &ProposeUpgrade{}, nil
	case ApproveUpgradeMethod:
		return &ApproveUpgrade{}, nil
	case PauseMethod:
		return &Pause{}, nil
	case RegisterDomainMethod:
		return &RegisterDomain{}, nil
	default:
		return nil, ErrInvalidAct
	}
}
