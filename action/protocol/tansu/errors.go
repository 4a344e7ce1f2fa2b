// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package tansu

import (
	"github.com/pkg/errors"
)

// ErrorKind is the kind of a contract error, its value is the code reported in receipts
type ErrorKind uint32

// Error kinds, 0 is reserved for success
const (
	UnexpectedError ErrorKind = iota + 1
	InvalidKey
	ProjectAlreadyExist
	UnregisteredMaintainer
	NoHashFound
	InvalidDomainError
	MaintainerNotDomainOwner
	InputValidation
	NoProposalorPageFound
	AlreadyVoted
	ProposalVotingTime
	ProposalClosed
	WrongVoteType
	WrongVoter
	TallySeedError
	InvalidProof
	NoAnonymousVotingConfig
	UpgradeError
	UnauthorizedSigner
	VoterWeight
	UnknownMember
	MemberAlreadyExist
	ContractPaused
)

var kindNames = map[ErrorKind]string{
	UnexpectedError:          "UnexpectedError",
	InvalidKey:               "InvalidKey",
	ProjectAlreadyExist:      "ProjectAlreadyExist",
	UnregisteredMaintainer:   "UnregisteredMaintainer",
	NoHashFound:              "NoHashFound",
	InvalidDomainError:       "InvalidDomainError",
	MaintainerNotDomainOwner: "MaintainerNotDomainOwner",
	InputValidation:          "InputValidation",
	NoProposalorPageFound:    "NoProposalorPageFound",
	AlreadyVoted:             "AlreadyVoted",
	ProposalVotingTime:       "ProposalVotingTime",
	ProposalClosed:           "ProposalClosed",
	WrongVoteType:            "WrongVoteType",
	WrongVoter:               "WrongVoter",
	TallySeedError:           "TallySeedError",
	InvalidProof:             "InvalidProof",
	NoAnonymousVotingConfig:  "NoAnonymousVotingConfig",
	UpgradeError:             "UpgradeError",
	UnauthorizedSigner:       "UnauthorizedSigner",
	VoterWeight:              "VoterWeight",
	UnknownMember:            "UnknownMember",
	MemberAlreadyExist:       "MemberAlreadyExist",
	ContractPaused:           "ContractPaused",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "UnknownError"
}

// Error is a contract error
type Error struct {
	kind ErrorKind
}

func (e *Error) Error() string {
	return e.kind.String()
}

// Kind returns the kind of the error
func (e *Error) Kind() ErrorKind {
	return e.kind
}

var (
	// ErrUnexpected is a failure outside of the contract taxonomy
	ErrUnexpected = &Error{UnexpectedError}
	// ErrInvalidKey indicates an unknown project
	ErrInvalidKey = &Error{InvalidKey}
	// ErrProjectAlreadyExist indicates a duplicated registration
	ErrProjectAlreadyExist = &Error{ProjectAlreadyExist}
	// ErrUnregisteredMaintainer indicates the caller is not a maintainer of the project
	ErrUnregisteredMaintainer = &Error{UnregisteredMaintainer}
	// ErrNoHashFound indicates a project without commit
	ErrNoHashFound = &Error{NoHashFound}
	// ErrInvalidDomain indicates a project name which cannot be a domain
	ErrInvalidDomain = &Error{InvalidDomainError}
	// ErrMaintainerNotDomainOwner indicates the domain is owned by somebody else
	ErrMaintainerNotDomainOwner = &Error{MaintainerNotDomainOwner}
	// ErrInputValidation indicates a malformed input
	ErrInputValidation = &Error{InputValidation}
	// ErrNoProposalorPageFound indicates an unknown proposal or page
	ErrNoProposalorPageFound = &Error{NoProposalorPageFound}
	// ErrAlreadyVoted indicates a second vote of the same address
	ErrAlreadyVoted = &Error{AlreadyVoted}
	// ErrProposalVotingTime indicates a call outside the voting window
	ErrProposalVotingTime = &Error{ProposalVotingTime}
	// ErrProposalClosed indicates the proposal is not active anymore
	ErrProposalClosed = &Error{ProposalClosed}
	// ErrWrongVoteType indicates a commitment on a public proposal
	ErrWrongVoteType = &Error{WrongVoteType}
	// ErrWrongVoter indicates the vote is not cast by the caller
	ErrWrongVoter = &Error{WrongVoter}
	// ErrTallySeed indicates ballots and seeds of different length
	ErrTallySeed = &Error{TallySeedError}
	// ErrInvalidProof indicates a revealed ballot with an invalid choice or a weight other than the disclosed one
	ErrInvalidProof = &Error{InvalidProof}
	// ErrNoAnonymousVotingConfig indicates a project without anonymous voting key
	ErrNoAnonymousVotingConfig = &Error{NoAnonymousVotingConfig}
	// ErrUpgrade indicates an invalid upgrade
	ErrUpgrade = &Error{UpgradeError}
	// ErrUnauthorizedSigner indicates the caller lacks the required role
	ErrUnauthorizedSigner = &Error{UnauthorizedSigner}
	// ErrVoterWeight indicates a vote heavier than the voter's badges allow
	ErrVoterWeight = &Error{VoterWeight}
	// ErrUnknownMember indicates an address which is not a member
	ErrUnknownMember = &Error{UnknownMember}
	// ErrMemberAlreadyExist indicates a duplicated member
	ErrMemberAlreadyExist = &Error{MemberAlreadyExist}
	// ErrContractPaused indicates the contract is paused
	ErrContractPaused = &Error{ContractPaused}
)

// KindOf returns the kind of err, UnexpectedError for errors outside of the taxonomy
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return UnexpectedError
}

// Code returns the receipt status of err, 0 for nil
func Code(err error) uint64 {
	if err == nil {
		return 0
	}
	return uint64(KindOf(err))
}
