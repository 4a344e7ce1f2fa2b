// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package tansu

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/iotexproject/go-pkgs/hash"
	"github.com/iotexproject/iotex-address/address"
	"github.com/pkg/errors"

	"github.com/tansuproject/tansu-core/action"
	"github.com/tansuproject/tansu-core/action/protocol"
	"github.com/tansuproject/tansu-core/action/protocol/tansu/domain"
	"github.com/tansuproject/tansu-core/pkg/util/byteutil"
	"github.com/tansuproject/tansu-core/state"
)

const (
	// ProtocolID is the protocol ID
	ProtocolID = "tansu"
	// Namespace is the namespace of the contract states
	Namespace = "Tansu"

	// ProposalsPerPage is the number of proposals of a page
	ProposalsPerPage = 9
	// MaxPages is the number of pages a project can fill
	MaxPages = 1000
)

var (
	governorKey            = []byte("governor")
	pendingUpgradeKey      = []byte("pendingUpgrade")
	projectKeyPrefix       = []byte("project")
	memberKeyPrefix        = []byte("member")
	badgesKeyPrefix        = []byte("badges")
	anonymousVoteKeyPrefix = []byte("anonymousVote")
	daoKeyPrefix           = []byte("dao")
	proposalKeyPrefix      = []byte("proposal")
)

type (
	// QuorumPolicy decides whether the votes of a proposal are enough to count
	QuorumPolicy struct {
		// MinDecisiveWeight is the minimum approve plus reject weight
		MinDecisiveWeight uint64 `yaml:"minDecisiveWeight"`
	}

	// Config is the config of the governance protocol
	Config struct {
		MaxProjectNameLength int           `yaml:"maxProjectNameLength"`
		MaxTitleLength       int           `yaml:"maxTitleLength"`
		MaxContentRefLength  int           `yaml:"maxContentRefLength"`
		MaxVotingPeriod      time.Duration `yaml:"maxVotingPeriod"`
		Quorum               QuorumPolicy  `yaml:"quorum"`
	}

	// Protocol is the governance contract: project registry, badge table, proposals and votes, upgrade governor
	Protocol struct {
		keyPrefix []byte
		cfg       Config
		oracle    domain.Oracle
	}
)

// DefaultConfig is the default config
var DefaultConfig = Config{
	MaxProjectNameLength: 15,
	MaxTitleLength:       256,
	MaxContentRefLength:  64,
	MaxVotingPeriod:      30 * 24 * time.Hour,
	Quorum: QuorumPolicy{
		MinDecisiveWeight: 1,
	},
}

// NewProtocol instantiates the governance protocol
func NewProtocol(cfg Config, oracle domain.Oracle) (*Protocol, error) {
	if oracle == nil {
		return nil, errors.New("domain oracle is nil")
	}
	if cfg.MaxProjectNameLength <= 0 || cfg.MaxTitleLength <= 0 || cfg.MaxContentRefLength <= 0 {
		return nil, errors.New("length bounds must be positive")
	}
	if cfg.MaxVotingPeriod <= 0 {
		return nil, errors.New("max voting period must be positive")
	}
	h := hash.Hash160b([]byte(ProtocolID))
	return &Protocol{
		keyPrefix: h[:],
		cfg:       cfg,
		oracle:    oracle,
	}, nil
}

// Name returns the protocol name
func (p *Protocol) Name() string {
	return ProtocolID
}

// Config returns the config of the protocol
func (p *Protocol) Config() Config {
	return p.cfg
}

// Handle handles the governance calls
func (p *Protocol) Handle(ctx context.Context, act action.Action, sm protocol.StateManager) (*action.Receipt, error) {
	var (
		ret  []byte
		logs []*action.Log
		err  error
	)
	switch act := act.(type) {
	case *action.Initialize:
		err = p.Initialize(ctx, sm, &act.Admins, act.CodeHash)
		logs = append(logs, p.newLog(action.InitializeMethod, act.CodeHash[:], nil))
	case *action.Register:
		var id hash.Hash256
		id, err = p.Register(ctx, sm, act.Name, act.Maintainers, act.URL, act.CommitHash, act.DomainID)
		ret = id[:]
		logs = append(logs, p.newLog(action.RegisterMethod, id[:], []byte(act.Name)))
	case *action.Commit:
		err = p.Commit(ctx, sm, act.ProjectID, act.Hash)
		logs = append(logs, p.newLog(action.CommitMethod, act.ProjectID[:], []byte(act.Hash)))
	case *action.UpdateConfig:
		err = p.UpdateConfig(ctx, sm, act.ProjectID, act.Maintainers, act.URL, act.Hash)
		logs = append(logs, p.newLog(action.UpdateConfigMethod, act.ProjectID[:], []byte(act.Hash)))
	case *action.AddMember:
		err = p.AddMember(ctx, sm, act.Member, act.Meta)
		logs = append(logs, p.newLog(action.AddMemberMethod, nil, []byte(act.Member)))
	case *action.SetBadges:
		err = p.SetBadges(ctx, sm, act.ProjectID, act.Member, act.Badges)
		logs = append(logs, p.newLog(action.SetBadgesMethod, act.ProjectID[:], []byte(act.Member)))
	case *action.AnonymousVotingSetup:
		err = p.AnonymousVotingSetup(ctx, sm, act.ProjectID, act.PublicKey)
		logs = append(logs, p.newLog(action.AnonymousVotingSetupMethod, act.ProjectID[:], nil))
	case *action.BuildCommitments:
		var commitments []hash.Hash256
		commitments, err = p.BuildCommitmentsFromVotes(ctx, sm, act.ProjectID, act.Ballots, act.Seeds)
		if err == nil {
			ret, err = rlp.EncodeToBytes(commitments)
		}
	case *action.CreateProposal:
		var id uint32
		id, err = p.CreateProposal(ctx, sm, act.ProjectID, act.Title, act.ContentRef, act.VotingEndsAt, act.Anonymous, act.Upgrade)
		ret = byteutil.Uint32ToBytesBigEndian(id)
		logs = append(logs, p.newLog(action.CreateProposalMethod, act.ProjectID[:], ret))
	case *action.CastVote:
		err = p.Vote(ctx, sm, act.ProjectID, act.ProposalID, &act.Vote)
		logs = append(logs, p.newLog(action.VoteMethod, act.ProjectID[:], byteutil.Uint32ToBytesBigEndian(act.ProposalID)))
	case *action.Execute:
		var status ProposalStatus
		status, err = p.Execute(ctx, sm, act.ProjectID, act.ProposalID, act.UpgradeConfig, act.UpgradeCode, act.Reveal)
		ret = byteutil.Uint32ToBytesBigEndian(uint32(status))
		logs = append(logs, p.newLog(action.ExecuteMethod, act.ProjectID[:], ret))
	case *action.ProposeUpgrade:
		err = p.ProposeUpgrade(ctx, sm, act.CodeHash, act.Admins)
		logs = append(logs, p.newLog(action.ProposeUpgradeMethod, act.CodeHash[:], nil))
	case *action.ApproveUpgrade:
		err = p.ApproveUpgrade(ctx, sm)
		logs = append(logs, p.newLog(action.ApproveUpgradeMethod, nil, nil))
	case *action.Pause:
		err = p.Pause(ctx, sm, act.Paused)
		logs = append(logs, p.newLog(action.PauseMethod, nil, []byte{byteutil.BoolToByte(act.Paused)}))
	default:
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	actCtx := protocol.MustGetActionCtx(ctx)
	blkCtx := protocol.MustGetBlockCtx(ctx)
	r := &action.Receipt{
		Status:      action.SuccessReceiptStatus,
		BlockHeight: blkCtx.BlockHeight,
		ActionHash:  actCtx.ActionHash,
		ReturnValue: ret,
	}
	return r.AddLogs(logs...), nil
}

func (p *Protocol) newLog(method string, subject []byte, data []byte) *action.Log {
	topics := []hash.Hash256{action.NewTopic(method)}
	if len(subject) > 0 {
		topics = append(topics, hash.BytesToHash256(subject))
	}
	return &action.Log{Topics: topics, Data: data}
}

func (p *Protocol) stateKey(key []byte) []byte {
	h := hash.Hash160b(append(p.keyPrefix, key...))
	return h[:]
}

func (p *Protocol) state(sr protocol.StateReader, key []byte, value interface{}) error {
	_, err := sr.State(value, protocol.NamespaceOption(Namespace), protocol.KeyOption(p.stateKey(key)))
	return err
}

func (p *Protocol) putState(sm protocol.StateManager, key []byte, value interface{}) error {
	_, err := sm.PutState(value, protocol.NamespaceOption(Namespace), protocol.KeyOption(p.stateKey(key)))
	return err
}

func (p *Protocol) deleteState(sm protocol.StateManager, key []byte) error {
	_, err := sm.DelState(protocol.NamespaceOption(Namespace), protocol.KeyOption(p.stateKey(key)))
	return err
}

func isNotExist(err error) bool {
	return errors.Cause(err) == state.ErrStateNotExist
}

func projectKey(id hash.Hash256) []byte {
	return append(append([]byte{}, projectKeyPrefix...), id[:]...)
}

func memberKey(addr string) []byte {
	return append(append([]byte{}, memberKeyPrefix...), addr...)
}

func badgesKey(id hash.Hash256, addr string) []byte {
	k := append(append([]byte{}, badgesKeyPrefix...), id[:]...)
	return append(k, addr...)
}

func anonymousVoteKey(id hash.Hash256) []byte {
	return append(append([]byte{}, anonymousVoteKeyPrefix...), id[:]...)
}

func daoKey(id hash.Hash256) []byte {
	return append(append([]byte{}, daoKeyPrefix...), id[:]...)
}

func proposalKey(id hash.Hash256, proposalID uint32) []byte {
	k := append(append([]byte{}, proposalKeyPrefix...), id[:]...)
	return append(k, byteutil.Uint32ToBytesBigEndian(proposalID)...)
}

// now returns the ledger time of the call in seconds
func now(ctx context.Context) uint64 {
	ts := protocol.MustGetBlockCtx(ctx).BlockTimeStamp.Unix()
	if ts < 0 {
		return 0
	}
	return uint64(ts)
}

func caller(ctx context.Context) address.Address {
	return protocol.MustGetActionCtx(ctx).Caller
}

// parseAddresses checks the addresses are well formed and unique
func parseAddresses(addrs []string) error {
	seen := make(map[string]struct{}, len(addrs))
	for _, a := range addrs {
		if _, err := address.FromString(a); err != nil {
			return errors.Wrapf(ErrInputValidation, "invalid address %s", a)
		}
		if _, ok := seen[a]; ok {
			return errors.Wrapf(ErrInputValidation, "duplicated address %s", a)
		}
		seen[a] = struct{}{}
	}
	return nil
}

// assertNotPaused fails every mutation while the contract is paused
func (p *Protocol) assertNotPaused(sr protocol.StateReader) error {
	g, err := p.governor(sr)
	if err != nil {
		if errors.Cause(err) == ErrUnauthorizedSigner {
			// not initialized, nothing can be paused
			return nil
		}
		return err
	}
	if g.Paused {
		return ErrContractPaused
	}
	return nil
}
