// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package action

import (
	"github.com/iotexproject/go-pkgs/hash"
	"github.com/pkg/errors"
)

// Method names of the governance calls
const (
	InitializeMethod           = "initialize"
	RegisterMethod             = "register"
	CommitMethod               = "commit"
	UpdateConfigMethod         = "update_config"
	AddMemberMethod            = "add_member"
	SetBadgesMethod            = "set_badges"
	AnonymousVotingSetupMethod = "anonymous_voting_setup"
	BuildCommitmentsMethod     = "build_commitments_from_votes"
	CreateProposalMethod       = "create_proposal"
	VoteMethod                 = "vote"
	ExecuteMethod              = "execute"
	ProposeUpgradeMethod       = "propose_upgrade"
	ApproveUpgradeMethod       = "approve_upgrade"
	PauseMethod                = "pause"
	RegisterDomainMethod       = "domain_register"
)

var (
	// ErrInvalidAct indicates an action that cannot be processed
	ErrInvalidAct = errors.New("invalid action")
	// ErrInvalidSender indicates a signature that does not belong to the declared caller
	ErrInvalidSender = errors.New("invalid sender")
	// ErrMissingSignature indicates an envelope without signature
	ErrMissingSignature = errors.New("missing signature")
)

// Action is a call that can be handled by protocols. The method is added to avoid mistakenly used empty interface
// as action.
type Action interface {
	Method() string
}

// VoteChoice is the choice of a ballot
type VoteChoice uint32

// Vote choices
const (
	Approve VoteChoice = iota
	Reject
	Abstain
)

func (c VoteChoice) String() string {
	switch c {
	case Approve:
		return "approve"
	case Reject:
		return "reject"
	case Abstain:
		return "abstain"
	default:
		return "unknown"
	}
}

// Valid returns true for a known choice
func (c VoteChoice) Valid() bool {
	return c <= Abstain
}

// Badge is a tag conferring a maximum voting weight to its holder
type Badge uint32

// Badges, the weight of each is fixed by the governance protocol
const (
	Developer Badge = iota
	Triage
	Community
	Verified
	Default
)

func (b Badge) String() string {
	switch b {
	case Developer:
		return "developer"
	case Triage:
		return "triage"
	case Community:
		return "community"
	case Verified:
		return "verified"
	case Default:
		return "default"
	default:
		return "unknown"
	}
}

type (
	// AdminsConfig is the set of admins governing code upgrades and the number of approvals required
	AdminsConfig struct {
		Threshold uint32
		Admins    []string
	}

	// PublicVote is a vote whose choice is visible
	PublicVote struct {
		Address string
		Weight  uint64
		Choice  VoteChoice
	}

	// AnonymousVote carries a commitment hiding the choice, the weight is disclosed
	AnonymousVote struct {
		Address    string
		Weight     uint64
		Commitment hash.Hash256
	}

	// Vote is either a PublicVote or an AnonymousVote
	Vote struct {
		Public    *PublicVote    `rlp:"nil"`
		Anonymous *AnonymousVote `rlp:"nil"`
	}

	// Ballot is a revealed anonymous vote
	Ballot struct {
		Choice VoteChoice
		Weight uint64
	}

	// Reveal opens the anonymous votes of a proposal, in the order they were recorded
	Reveal struct {
		Ballots []Ballot
		Seeds   []hash.Hash256
	}
)

// Voter returns the address casting the vote
func (v *Vote) Voter() string {
	switch {
	case v.Public != nil:
		return v.Public.Address
	case v.Anonymous != nil:
		return v.Anonymous.Address
	default:
		return ""
	}
}

// Weight returns the weight of the vote
func (v *Vote) Weight() uint64 {
	switch {
	case v.Public != nil:
		return v.Public.Weight
	case v.Anonymous != nil:
		return v.Anonymous.Weight
	default:
		return 0
	}
}

// Clone returns a deep copy of the config
func (ac *AdminsConfig) Clone() *AdminsConfig {
	if ac == nil {
		return nil
	}
	admins := make([]string, len(ac.Admins))
	copy(admins, ac.Admins)
	return &AdminsConfig{Threshold: ac.Threshold, Admins: admins}
}

// Equal compares two configs, admin order matters
func (ac *AdminsConfig) Equal(other *AdminsConfig) bool {
	if ac == nil || other == nil {
		return ac == other
	}
	if ac.Threshold != other.Threshold || len(ac.Admins) != len(other.Admins) {
		return false
	}
	for i := range ac.Admins {
		if ac.Admins[i] != other.Admins[i] {
			return false
		}
	}
	return true
}
