// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package ledger

import (
	"context"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/facebookgo/clock"
	"github.com/iotexproject/go-pkgs/hash"
	"github.com/pkg/errors"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/tansuproject/tansu-core/action"
	"github.com/tansuproject/tansu-core/action/protocol/tansu"
	"github.com/tansuproject/tansu-core/action/protocol/tansu/domain"
	"github.com/tansuproject/tansu-core/config"
	"github.com/tansuproject/tansu-core/db"
	"github.com/tansuproject/tansu-core/pkg/util/byteutil"
	"github.com/tansuproject/tansu-core/test/identityset"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testConfig() config.Config {
	cfg := config.Default
	cfg.DB.DBType = db.DBMemory
	return cfg
}

func newTestLedger(t *testing.T, cfg config.Config, opts ...Option) (*Ledger, *clock.Mock) {
	require := require.New(t)
	clk := clock.NewMock()
	clk.Add(time.Unix(1_700_000_000, 0).Sub(clk.Now()))
	l, err := New(cfg, append([]Option{ClockOption(clk)}, opts...)...)
	require.NoError(err)
	require.NoError(l.Start(context.Background()))
	t.Cleanup(func() {
		require.NoError(l.Stop(context.Background()))
	})
	return l, clk
}

var nonce uint64

func sign(t *testing.T, who int, act action.Action) *action.SealedEnvelope {
	nonce++
	elp := (&action.EnvelopeBuilder{}).
		SetNonce(nonce).
		SetCaller(identityset.Address(who)).
		SetAction(act).
		Build()
	sealed, err := action.Sign(elp, identityset.PrivateKey(who))
	require.NoError(t, err)
	return sealed
}

func addr(who int) string {
	return identityset.Address(who).String()
}

func TestNew(t *testing.T) {
	require := require.New(t)
	cfg := testConfig()
	cfg.Domain.Mode = "dns"
	_, err := New(cfg)
	require.Error(err)
	cfg = testConfig()
	cfg.DB.DBType = "leveldb"
	_, err = New(cfg)
	require.Error(err)
	_, err = New(testConfig(), ClockOption(nil))
	require.Error(err)
	_, err = New(testConfig(), KVStoreOption(nil))
	require.Error(err)
	_, err = New(testConfig(), OracleOption(nil))
	require.Error(err)
}

func TestProposalLifecycle(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	l, clk := newTestLedger(t, testConfig())
	p := l.Protocol()

	r, err := l.Call(ctx, sign(t, identityset.Grogu, &action.Register{
		Name:        "tansu",
		Maintainers: []string{addr(identityset.Grogu), addr(identityset.Mando)},
		URL:         "https://github.com/tansu-dev/tansu",
		CommitHash:  "abc",
		DomainID:    "soroban-domains",
	}))
	require.NoError(err)
	id := hash.BytesToHash256(r.ReturnValue)
	require.Equal(tansu.ProjectID("tansu"), id)
	h, err := p.LatestCommit(l.StateReader(), id)
	require.NoError(err)
	require.Equal("abc", h)

	r, err = l.Call(ctx, sign(t, identityset.Grogu, &action.CreateProposal{
		ProjectID:    id,
		Title:        "Integrate with xlm.sh",
		ContentRef:   "bafybeib6ioupho3p3pliusx7tgs7dvi6mpu2bwfhayj6w2ie44lo3vvc4i",
		VotingEndsAt: uint64(clk.Now().Add(time.Hour).Unix()),
		Anonymous:    true,
	}))
	require.NoError(err)
	pid := byteutil.BytesToUint32BigEndian(r.ReturnValue)
	require.Zero(pid)

	_, err = l.Call(ctx, sign(t, identityset.Mando, &action.CastVote{
		ProjectID:  id,
		ProposalID: pid,
		Vote:       action.Vote{Public: &action.PublicVote{Address: addr(identityset.Mando), Weight: 1, Choice: action.Approve}},
	}))
	require.NoError(err)

	r = l.Try(ctx, sign(t, identityset.Grogu, &action.Execute{ProjectID: id, ProposalID: pid}))
	require.EqualValues(tansu.ProposalVotingTime, r.Status)

	clk.Add(time.Hour)
	r = l.Try(ctx, sign(t, identityset.Grogu, &action.Execute{ProjectID: id, ProposalID: pid}))
	require.True(r.Succeeded())
	require.EqualValues(tansu.Cancelled, byteutil.BytesToUint32BigEndian(r.ReturnValue))

	proposals, err := p.DAO(l.StateReader(), id, 0)
	require.NoError(err)
	require.Len(proposals, 1)
	require.Equal(tansu.Cancelled, proposals[0].Status)
	require.Len(proposals[0].PublicVotes, 2)

	r = l.Try(ctx, sign(t, identityset.Grogu, &action.Execute{ProjectID: id, ProposalID: pid}))
	require.EqualValues(tansu.ProposalClosed, r.Status)
	r = l.Try(ctx, sign(t, identityset.Grogu, &action.CastVote{ProjectID: id, ProposalID: 1001}))
	require.EqualValues(tansu.NoProposalorPageFound, r.Status)
}

func TestTryLeavesNoState(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	l, _ := newTestLedger(t, testConfig())
	sr := l.StateReader()
	height, err := sr.Height()
	require.NoError(err)

	// a failed call is not committed
	r := l.Try(ctx, sign(t, identityset.Grogu, &action.Register{
		Name:        "tansu",
		Maintainers: []string{addr(identityset.Mando)},
		URL:         "u",
		DomainID:    "soroban-domains",
	}))
	require.EqualValues(tansu.UnregisteredMaintainer, r.Status)
	require.Equal(height+1, r.BlockHeight)
	h, err := sr.Height()
	require.NoError(err)
	require.Equal(height, h)

	_, err = l.Call(ctx, sign(t, identityset.Grogu, &action.Register{
		Name:        "tansu",
		Maintainers: []string{addr(identityset.Grogu)},
		URL:         "u",
		DomainID:    "soroban-domains",
	}))
	require.NoError(err)
	h, err = sr.Height()
	require.NoError(err)
	require.Equal(height+1, h)

	_, err = l.Call(ctx, sign(t, identityset.Grogu, &action.Register{
		Name:        "tansu",
		Maintainers: []string{addr(identityset.Grogu)},
		URL:         "u",
		DomainID:    "soroban-domains",
	}))
	require.Equal(tansu.ErrProjectAlreadyExist, errors.Cause(err))
	r = l.Try(ctx, sign(t, identityset.Grogu, &action.Register{
		Name:        "averyveryverylongname",
		Maintainers: []string{addr(identityset.Grogu)},
		URL:         "u",
		DomainID:    "soroban-domains",
	}))
	require.EqualValues(tansu.InvalidDomainError, r.Status)
}

func TestReadOnlyCall(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	l, _ := newTestLedger(t, testConfig())
	_, err := l.Call(ctx, sign(t, identityset.Grogu, &action.Register{
		Name:        "tansu",
		Maintainers: []string{addr(identityset.Grogu)},
		URL:         "u",
		DomainID:    "soroban-domains",
	}))
	require.NoError(err)
	id := tansu.ProjectID("tansu")
	_, err = l.Call(ctx, sign(t, identityset.Grogu, &action.AnonymousVotingSetup{ProjectID: id, PublicKey: "public key"}))
	require.NoError(err)
	height, err := l.StateReader().Height()
	require.NoError(err)

	ballots := []action.Ballot{{Choice: action.Approve, Weight: 1}}
	seeds := []hash.Hash256{hash.Hash256b([]byte("seed"))}
	r, err := l.Call(ctx, sign(t, identityset.Bob, &action.BuildCommitments{ProjectID: id, Ballots: ballots, Seeds: seeds}))
	require.NoError(err)
	var commitments []hash.Hash256
	require.NoError(rlp.DecodeBytes(r.ReturnValue, &commitments))
	expected, err := l.Protocol().BuildCommitmentsFromVotes(ctx, l.StateReader(), id, ballots, seeds)
	require.NoError(err)
	require.Equal(expected, commitments)
	h, err := l.StateReader().Height()
	require.NoError(err)
	require.Equal(height, h)
}

func TestDomainOwnedByOther(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	l, _ := newTestLedger(t, testConfig())

	_, err := l.Call(ctx, sign(t, identityset.Mando, &action.RegisterDomain{Registry: "soroban-domains", Name: "bob"}))
	require.NoError(err)
	r := l.Try(ctx, sign(t, identityset.Grogu, &action.Register{
		Name:        "bob",
		Maintainers: []string{addr(identityset.Grogu)},
		URL:         "u",
		DomainID:    "soroban-domains",
	}))
	require.EqualValues(tansu.MaintainerNotDomainOwner, r.Status)
}

func TestAuthentication(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	l, _ := newTestLedger(t, testConfig())

	act := &action.AddMember{Member: addr(identityset.Grogu), Meta: "meta"}
	// signed by bob, declared as grogu
	elp := (&action.EnvelopeBuilder{}).SetCaller(identityset.Address(identityset.Grogu)).SetAction(act).Build()
	sealed, err := action.Sign(elp, identityset.PrivateKey(identityset.Bob))
	require.NoError(err)
	_, err = l.Call(ctx, sealed)
	require.Equal(tansu.ErrUnauthorizedSigner, errors.Cause(err))
	r := l.Try(ctx, action.NewSealedEnvelope(elp, nil))
	require.EqualValues(tansu.UnauthorizedSigner, r.Status)
	r = l.Try(ctx, nil)
	require.EqualValues(tansu.InputValidation, r.Status)

	r = l.Try(ctx, sign(t, identityset.Grogu, act))
	require.True(r.Succeeded())
	m, err := l.Protocol().Member(l.StateReader(), addr(identityset.Grogu))
	require.NoError(err)
	require.Equal("meta", m.Meta)
}

func TestClockNeverGoesBack(t *testing.T) {
	require := require.New(t)
	l, clk := newTestLedger(t, testConfig())
	t1 := l.now()
	clk.Add(-time.Minute)
	require.Equal(t1, l.now())
	clk.Add(2 * time.Minute)
	require.Equal(t1.Add(time.Minute), l.now())
}

func TestUpgradeGovernance(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	l, clk := newTestLedger(t, testConfig())
	p := l.Protocol()
	sr := l.StateReader()

	adminCfg := action.AdminsConfig{Threshold: 2, Admins: []string{addr(identityset.ContractAdmin), addr(identityset.Grogu)}}
	_, err := l.Call(ctx, sign(t, identityset.ContractAdmin, &action.Initialize{Admins: adminCfg, CodeHash: hash.Hash256b([]byte("v1"))}))
	require.NoError(err)
	r := l.Try(ctx, sign(t, identityset.ContractAdmin, &action.Initialize{Admins: adminCfg}))
	require.EqualValues(tansu.UpgradeError, r.Status)

	r, err = l.Call(ctx, sign(t, identityset.Grogu, &action.Register{
		Name:        "tansu",
		Maintainers: []string{addr(identityset.Grogu)},
		URL:         "u",
		DomainID:    "soroban-domains",
	}))
	require.NoError(err)
	id := hash.BytesToHash256(r.ReturnValue)
	_, err = l.Call(ctx, sign(t, identityset.Mando, &action.AddMember{Member: addr(identityset.Mando)}))
	require.NoError(err)
	_, err = l.Call(ctx, sign(t, identityset.Grogu, &action.SetBadges{
		ProjectID: id,
		Member:    addr(identityset.Mando),
		Badges:    []action.Badge{action.Triage},
	}))
	require.NoError(err)

	codeHash := hash.Hash256b([]byte("v2"))
	upgrade := &action.UpgradePayload{CodeHash: codeHash}
	r, err = l.Call(ctx, sign(t, identityset.Grogu, &action.CreateProposal{
		ProjectID:    id,
		Title:        "upgrade to v2",
		VotingEndsAt: uint64(clk.Now().Add(time.Hour).Unix()),
		Upgrade:      upgrade,
	}))
	require.NoError(err)
	pid := byteutil.BytesToUint32BigEndian(r.ReturnValue)
	_, err = l.Call(ctx, sign(t, identityset.Mando, &action.CastVote{
		ProjectID:  id,
		ProposalID: pid,
		Vote:       action.Vote{Public: &action.PublicVote{Address: addr(identityset.Mando), Weight: 5_000_000, Choice: action.Approve}},
	}))
	require.NoError(err)
	_, err = l.Call(ctx, sign(t, identityset.ContractAdmin, &action.ProposeUpgrade{CodeHash: codeHash}))
	require.NoError(err)
	clk.Add(time.Hour)

	// one approval out of two, the execution reverts as a whole
	r = l.Try(ctx, sign(t, identityset.Grogu, &action.Execute{ProjectID: id, ProposalID: pid}))
	require.EqualValues(tansu.UpgradeError, r.Status)
	proposal, err := p.Proposal(sr, id, pid)
	require.NoError(err)
	require.Equal(tansu.Active, proposal.Status)

	_, err = l.Call(ctx, sign(t, identityset.Grogu, &action.ApproveUpgrade{}))
	require.NoError(err)
	r = l.Try(ctx, sign(t, identityset.Grogu, &action.Execute{ProjectID: id, ProposalID: pid}))
	require.True(r.Succeeded())
	require.EqualValues(tansu.Executed, byteutil.BytesToUint32BigEndian(r.ReturnValue))
	h, err := p.CodeHash(sr)
	require.NoError(err)
	require.Equal(codeHash, h)
	cfg, err := p.AdminsConfig(sr)
	require.NoError(err)
	require.Equal(&adminCfg, cfg)

	// pause blocks every mutation but pause
	_, err = l.Call(ctx, sign(t, identityset.ContractAdmin, &action.Pause{Paused: true}))
	require.NoError(err)
	r = l.Try(ctx, sign(t, identityset.Grogu, &action.Commit{ProjectID: id, Hash: "def"}))
	require.EqualValues(tansu.ContractPaused, r.Status)
	_, err = l.Call(ctx, sign(t, identityset.ContractAdmin, &action.Pause{Paused: false}))
	require.NoError(err)
	r = l.Try(ctx, sign(t, identityset.Grogu, &action.Commit{ProjectID: id, Hash: "def"}))
	require.True(r.Succeeded())
}

func TestPersistence(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	cfg := testConfig()
	cfg.DB.DBType = db.DBBolt
	cfg.DB.DbPath = filepath.Join(t.TempDir(), "ledger.db")

	l, err := New(cfg, ClockOption(clock.NewMock()), OracleOption(domain.NewMemOracle()))
	require.NoError(err)
	require.NoError(l.Start(ctx))
	_, err = l.Call(ctx, sign(t, identityset.Grogu, &action.Register{
		Name:        "tansu",
		Maintainers: []string{addr(identityset.Grogu)},
		URL:         "u",
		CommitHash:  "abc",
		DomainID:    "soroban-domains",
	}))
	require.NoError(err)
	require.NoError(l.Stop(ctx))

	l, err = New(cfg, OracleOption(domain.NewMemOracle()))
	require.NoError(err)
	require.NoError(l.Start(ctx))
	defer func() { require.NoError(l.Stop(ctx)) }()
	h, err := l.Protocol().LatestCommit(l.StateReader(), tansu.ProjectID("tansu"))
	require.NoError(err)
	require.Equal("abc", h)
	height, err := l.StateReader().Height()
	require.NoError(err)
	require.EqualValues(1, height)
}

func callCount(t *testing.T, method string, kind tansu.ErrorKind) float64 {
	var m dto.Metric
	c := _ledgerCallMtc.WithLabelValues(method, strconv.FormatUint(uint64(kind), 10))
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestCallMetrics(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	l, _ := newTestLedger(t, testConfig())

	succeeded := callCount(t, action.AddMemberMethod, 0)
	duplicated := callCount(t, action.AddMemberMethod, tansu.MemberAlreadyExist)
	act := &action.AddMember{Member: addr(identityset.Bob), Meta: "meta"}
	_, err := l.Call(ctx, sign(t, identityset.Bob, act))
	require.NoError(err)
	r := l.Try(ctx, sign(t, identityset.Bob, act))
	require.EqualValues(tansu.MemberAlreadyExist, r.Status)
	require.Equal(succeeded+1, callCount(t, action.AddMemberMethod, 0))
	require.Equal(duplicated+1, callCount(t, action.AddMemberMethod, tansu.MemberAlreadyExist))
}
