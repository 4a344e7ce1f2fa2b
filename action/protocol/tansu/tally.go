// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package tansu

import (
	"context"
	"math"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/iotexproject/go-pkgs/hash"
	"github.com/pkg/errors"

	"github.com/tansuproject/tansu-core/action"
	"github.com/tansuproject/tansu-core/action/protocol"
	"github.com/tansuproject/tansu-core/pkg/util/byteutil"
)

// Commitment hides a ballot behind the project key and a secret seed
func Commitment(publicKey string, id hash.Hash256, ballot action.Ballot, seed hash.Hash256) hash.Hash256 {
	return hash.BytesToHash256(crypto.Keccak256(
		[]byte(publicKey),
		id[:],
		byteutil.Uint32ToBytesBigEndian(uint32(ballot.Choice)),
		byteutil.Uint64ToBytesBigEndian(ballot.Weight),
		seed[:],
	))
}

// AnonymousVotingSetup binds the key the anonymous ballots of a project are authored with
func (p *Protocol) AnonymousVotingSetup(ctx context.Context, sm protocol.StateManager, id hash.Hash256, publicKey string) error {
	if err := p.assertNotPaused(sm); err != nil {
		return err
	}
	if _, err := p.assertMaintainer(ctx, sm, id); err != nil {
		return err
	}
	if len(publicKey) == 0 {
		return errors.Wrap(ErrInputValidation, "public key is empty")
	}
	return p.putState(sm, anonymousVoteKey(id), &AnonymousVoteConfig{PublicKey: publicKey})
}

// AnonymousVotingConfig returns the anonymous voting key of a project
func (p *Protocol) AnonymousVotingConfig(sr protocol.StateReader, id hash.Hash256) (*AnonymousVoteConfig, error) {
	cfg := AnonymousVoteConfig{}
	if err := p.state(sr, anonymousVoteKey(id), &cfg); err != nil {
		if isNotExist(err) {
			return nil, errors.Wrapf(ErrNoAnonymousVotingConfig, "project %s", hexID(id))
		}
		return nil, err
	}
	return &cfg, nil
}

// BuildCommitmentsFromVotes computes the commitment of every ballot, it writes nothing
func (p *Protocol) BuildCommitmentsFromVotes(
	_ context.Context,
	sr protocol.StateReader,
	id hash.Hash256,
	ballots []action.Ballot,
	seeds []hash.Hash256,
) ([]hash.Hash256, error) {
	if len(ballots) != len(seeds) {
		return nil, errors.Wrapf(ErrTallySeed, "%d ballots and %d seeds", len(ballots), len(seeds))
	}
	if _, err := p.Project(sr, id); err != nil {
		return nil, err
	}
	cfg, err := p.AnonymousVotingConfig(sr, id)
	if err != nil {
		return nil, err
	}
	commitments := make([]hash.Hash256, len(ballots))
	for i := range ballots {
		commitments[i] = Commitment(cfg.PublicKey, id, ballots[i], seeds[i])
	}
	return commitments, nil
}

// Tally counts the votes of a proposal, the reveal opens its anonymous votes in storage order.
// The reveal must hold a well-formed ballot for every anonymous vote. A ballot which does not open
// its commitment leaves the vote unopened, and the disclosed weight of an unopened vote counts as abstain.
func (p *Protocol) Tally(sr protocol.StateReader, id hash.Hash256, proposal *Proposal, reveal *action.Reveal) (*TallyResult, error) {
	res := TallyResult{}
	for _, v := range proposal.PublicVotes {
		if err := res.add(v.Choice, v.Weight); err != nil {
			return nil, err
		}
	}
	if len(proposal.AnonymousVotes) > 0 {
		if reveal == nil {
			reveal = &action.Reveal{}
		}
		n := len(proposal.AnonymousVotes)
		if len(reveal.Ballots) != n || len(reveal.Seeds) != n {
			return nil, errors.Wrapf(
				ErrTallySeed,
				"%d anonymous votes, %d ballots and %d seeds revealed",
				n, len(reveal.Ballots), len(reveal.Seeds),
			)
		}
		cfg, err := p.AnonymousVotingConfig(sr, id)
		if err != nil {
			return nil, err
		}
		for i, v := range proposal.AnonymousVotes {
			ballot := reveal.Ballots[i]
			if !ballot.Choice.Valid() {
				return nil, errors.Wrapf(ErrInvalidProof, "ballot %d has invalid choice %d", i, ballot.Choice)
			}
			if ballot.Weight != v.Weight {
				return nil, errors.Wrapf(ErrInvalidProof, "ballot %d weighs %d, vote of %s weighs %d", i, ballot.Weight, v.Address, v.Weight)
			}
			choice := ballot.Choice
			if Commitment(cfg.PublicKey, id, ballot, reveal.Seeds[i]) != v.Commitment {
				choice = action.Abstain
				res.Unopened++
			}
			if err := res.add(choice, v.Weight); err != nil {
				return nil, err
			}
		}
	}
	res.QuorumMet = p.cfg.Quorum.Met(&res)
	return &res, nil
}

// Met returns true if the decisive weight beats abstention and reaches the minimum
func (q QuorumPolicy) Met(res *TallyResult) bool {
	decisive := res.Approve + res.Reject
	return decisive > res.Abstain && decisive >= q.MinDecisiveWeight
}

// Outcome returns the status a tallied proposal transitions to
func (res *TallyResult) Outcome() ProposalStatus {
	switch {
	case !res.QuorumMet:
		return Cancelled
	case res.Approve > res.Reject:
		return Approved
	default:
		return Rejected
	}
}

func (res *TallyResult) add(choice action.VoteChoice, weight uint64) error {
	if res.Total > math.MaxUint64-weight {
		return errors.Wrap(ErrUnexpected, "tally overflow")
	}
	res.Total += weight
	switch choice {
	case action.Approve:
		res.Approve += weight
	case action.Reject:
		res.Reject += weight
	case action.Abstain:
		res.Abstain += weight
	default:
		return errors.Wrapf(ErrInputValidation, "invalid choice %d", choice)
	}
	return nil
}
