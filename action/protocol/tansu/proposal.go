// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package tansu

import (
	"context"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/iotexproject/go-pkgs/hash"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/tansuproject/tansu-core/action"
	"github.com/tansuproject/tansu-core/action/protocol"
	"github.com/tansuproject/tansu-core/pkg/log"
)

var _proposalTransitionMtc = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "tansu_proposal_transitions",
		Help: "Number of proposals reaching a status",
	},
	[]string{"status"},
)

func init() {
	prometheus.MustRegister(_proposalTransitionMtc)
}

// CreateProposal opens a proposal on a project, the proposer abstains with its full weight
func (p *Protocol) CreateProposal(
	ctx context.Context,
	sm protocol.StateManager,
	id hash.Hash256,
	title string,
	contentRef string,
	votingEndsAt uint64,
	anonymous bool,
	upgrade *action.UpgradePayload,
) (uint32, error) {
	if err := p.assertNotPaused(sm); err != nil {
		return 0, err
	}
	if _, err := p.assertMaintainer(ctx, sm, id); err != nil {
		return 0, err
	}
	if len(title) == 0 || len(title) > p.cfg.MaxTitleLength {
		return 0, errors.Wrapf(ErrInputValidation, "title length %d out of [1, %d]", len(title), p.cfg.MaxTitleLength)
	}
	if len(contentRef) > p.cfg.MaxContentRefLength {
		return 0, errors.Wrapf(ErrInputValidation, "content reference length %d exceeds %d", len(contentRef), p.cfg.MaxContentRefLength)
	}
	ts := now(ctx)
	if votingEndsAt <= ts {
		return 0, errors.Wrapf(ErrInputValidation, "voting ends at %d, now is %d", votingEndsAt, ts)
	}
	if votingEndsAt-ts > uint64(p.cfg.MaxVotingPeriod.Seconds()) {
		return 0, errors.Wrapf(ErrInputValidation, "voting period %ds exceeds %s", votingEndsAt-ts, p.cfg.MaxVotingPeriod)
	}
	if upgrade != nil && upgrade.Admins != nil {
		if err := validateAdminsConfig(upgrade.Admins); err != nil {
			return 0, err
		}
	}
	dao, err := p.dao(sm, id)
	if err != nil {
		return 0, err
	}
	proposalID := dao.NextID
	if proposalID/ProposalsPerPage >= MaxPages {
		return 0, errors.Wrapf(ErrNoProposalorPageFound, "project has %d proposals already", proposalID)
	}
	proposer := caller(ctx).String()
	weight, err := p.MaxWeight(sm, id, proposer)
	if err != nil {
		return 0, err
	}
	proposal := Proposal{
		ID:           proposalID,
		Title:        title,
		ContentRef:   contentRef,
		Proposer:     proposer,
		CreatedAt:    ts,
		VotingEndsAt: votingEndsAt,
		Anonymous:    anonymous,
		Status:       Active,
		PublicVotes: []action.PublicVote{
			{Address: proposer, Weight: weight, Choice: action.Abstain},
		},
	}
	if upgrade != nil {
		proposal.Upgrade = &action.UpgradePayload{CodeHash: upgrade.CodeHash, Admins: upgrade.Admins.Clone()}
	}
	if err := p.putState(sm, proposalKey(id, proposalID), &proposal); err != nil {
		return 0, err
	}
	dao.NextID++
	if err := p.putState(sm, daoKey(id), dao); err != nil {
		return 0, err
	}
	_proposalTransitionMtc.WithLabelValues(Active.String()).Inc()
	return proposalID, nil
}

// Vote casts a public vote or an anonymous commitment on an active proposal
func (p *Protocol) Vote(ctx context.Context, sm protocol.StateManager, id hash.Hash256, proposalID uint32, vote *action.Vote) error {
	if err := p.assertNotPaused(sm); err != nil {
		return err
	}
	if _, err := p.Project(sm, id); err != nil {
		return err
	}
	proposal, err := p.Proposal(sm, id, proposalID)
	if err != nil {
		return err
	}
	if ts := now(ctx); ts >= proposal.VotingEndsAt {
		return errors.Wrapf(ErrProposalVotingTime, "voting ended at %d, now is %d", proposal.VotingEndsAt, ts)
	}
	if proposal.Status != Active {
		return errors.Wrapf(ErrProposalClosed, "proposal %d is %s", proposalID, proposal.Status)
	}
	if vote == nil || (vote.Public == nil) == (vote.Anonymous == nil) {
		return errors.Wrap(ErrInputValidation, "a vote is either public or anonymous")
	}
	if vote.Public != nil && !vote.Public.Choice.Valid() {
		return errors.Wrapf(ErrInputValidation, "invalid choice %d", vote.Public.Choice)
	}
	voter := vote.Voter()
	if c := caller(ctx).String(); c != voter {
		return errors.Wrapf(ErrWrongVoter, "%s cannot vote for %s", c, voter)
	}
	if vote.Anonymous != nil {
		if !proposal.Anonymous {
			return errors.Wrapf(ErrWrongVoteType, "proposal %d takes public votes only", proposalID)
		}
		if _, err := p.AnonymousVotingConfig(sm, id); err != nil {
			return err
		}
	}
	if proposal.HasVoted(voter) {
		return errors.Wrapf(ErrAlreadyVoted, "%s voted on proposal %d", voter, proposalID)
	}
	max, err := p.MaxWeight(sm, id, voter)
	if err != nil {
		return err
	}
	if w := vote.Weight(); w > max {
		return errors.Wrapf(ErrVoterWeight, "weight %d exceeds %d", w, max)
	}
	if vote.Public != nil {
		proposal.PublicVotes = append(proposal.PublicVotes, *vote.Public)
	} else {
		proposal.AnonymousVotes = append(proposal.AnonymousVotes, *vote.Anonymous)
	}
	return p.putState(sm, proposalKey(id, proposalID), proposal)
}

// Execute tallies a proposal once its voting ended and moves it to its final status
func (p *Protocol) Execute(
	ctx context.Context,
	sm protocol.StateManager,
	id hash.Hash256,
	proposalID uint32,
	upgradeConfig *action.AdminsConfig,
	upgradeCode []byte,
	reveal *action.Reveal,
) (ProposalStatus, error) {
	if err := p.assertNotPaused(sm); err != nil {
		return Active, err
	}
	project, err := p.Project(sm, id)
	if err != nil {
		return Active, err
	}
	if c := caller(ctx).String(); !project.IsMaintainer(c) {
		return Active, errors.Wrapf(ErrUnauthorizedSigner, "%s is not a maintainer of %s", c, project.Name)
	}
	proposal, err := p.Proposal(sm, id, proposalID)
	if err != nil {
		return Active, err
	}
	if proposal.Status.Terminal() {
		return proposal.Status, errors.Wrapf(ErrProposalClosed, "proposal %d is %s", proposalID, proposal.Status)
	}
	if ts := now(ctx); ts < proposal.VotingEndsAt {
		return Active, errors.Wrapf(ErrProposalVotingTime, "voting ends at %d, now is %d", proposal.VotingEndsAt, ts)
	}
	if err := checkUpgradeArgs(proposal.Upgrade, upgradeConfig, upgradeCode); err != nil {
		return Active, err
	}
	res, err := p.Tally(sm, id, proposal, reveal)
	if err != nil {
		return Active, err
	}
	proposal.Status = res.Outcome()
	if proposal.Status == Approved {
		if proposal.Upgrade != nil {
			if err := p.applyUpgrade(sm, proposal.Upgrade); err != nil {
				return Active, err
			}
		}
		_proposalTransitionMtc.WithLabelValues(Approved.String()).Inc()
		proposal.Status = Executed
	}
	if err := p.putState(sm, proposalKey(id, proposalID), proposal); err != nil {
		return Active, err
	}
	_proposalTransitionMtc.WithLabelValues(proposal.Status.String()).Inc()
	log.L().Info("Executed proposal.",
		zap.String("project", project.Name),
		zap.Uint32("proposal", proposalID),
		zap.String("status", proposal.Status.String()),
		zap.Uint64("approve", res.Approve),
		zap.Uint64("reject", res.Reject),
		zap.Uint64("abstain", res.Abstain),
		zap.Uint32("unopened", res.Unopened))
	return proposal.Status, nil
}

// Proposal returns a proposal of a project
func (p *Protocol) Proposal(sr protocol.StateReader, id hash.Hash256, proposalID uint32) (*Proposal, error) {
	proposal := Proposal{}
	if err := p.state(sr, proposalKey(id, proposalID), &proposal); err != nil {
		if isNotExist(err) {
			return nil, errors.Wrapf(ErrNoProposalorPageFound, "proposal %d", proposalID)
		}
		return nil, err
	}
	return &proposal, nil
}

// DAO returns a page of proposals of a project
func (p *Protocol) DAO(sr protocol.StateReader, id hash.Hash256, page uint32) ([]*Proposal, error) {
	if page >= MaxPages {
		return nil, errors.Wrapf(ErrNoProposalorPageFound, "page %d out of [0, %d)", page, MaxPages)
	}
	if _, err := p.Project(sr, id); err != nil {
		return nil, err
	}
	dao, err := p.dao(sr, id)
	if err != nil {
		return nil, err
	}
	start := page * ProposalsPerPage
	if start >= dao.NextID {
		return nil, errors.Wrapf(ErrNoProposalorPageFound, "page %d", page)
	}
	end := start + ProposalsPerPage
	if end > dao.NextID {
		end = dao.NextID
	}
	proposals := make([]*Proposal, 0, end-start)
	for i := start; i < end; i++ {
		proposal, err := p.Proposal(sr, id, i)
		if err != nil {
			return nil, err
		}
		proposals = append(proposals, proposal)
	}
	return proposals, nil
}

func (p *Protocol) dao(sr protocol.StateReader, id hash.Hash256) (*DAO, error) {
	dao := DAO{}
	if err := p.state(sr, daoKey(id), &dao); err != nil && !isNotExist(err) {
		return nil, err
	}
	return &dao, nil
}

// checkUpgradeArgs checks the upgrade arguments of execute agree with the proposal's payload
func checkUpgradeArgs(upgrade *action.UpgradePayload, cfg *action.AdminsConfig, code []byte) error {
	if upgrade == nil {
		if cfg != nil || len(code) > 0 {
			return errors.Wrap(ErrUpgrade, "proposal carries no upgrade")
		}
		return nil
	}
	if cfg != nil {
		if err := validateAdminsConfig(cfg); err != nil {
			return err
		}
		if !cfg.Equal(upgrade.Admins) {
			return errors.Wrap(ErrUpgrade, "admin config differs from the proposal")
		}
	}
	if len(code) > 0 && hash.BytesToHash256(crypto.Keccak256(code)) != upgrade.CodeHash {
		return errors.Wrap(ErrUpgrade, "code does not match the proposed code hash")
	}
	return nil
}
