// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package action

import (
	"testing"

	"github.com/iotexproject/go-pkgs/hash"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/tansuproject/tansu-core/test/identityset"
)

func TestEnvelopeSerialize(t *testing.T) {
	require := require.New(t)
	mando := identityset.Address(identityset.Mando)
	act := &CreateProposal{
		ProjectID:    hash.Hash256b([]byte("tansu")),
		Title:        "Integrate with xlm.sh",
		ContentRef:   "bafybeib6ioupho3p3pliusx7tgs7dvi6mpu2bwfhayj6w6ie44lo3vvc4i",
		VotingEndsAt: 172800,
		Anonymous:    true,
		Upgrade: &UpgradePayload{
			CodeHash: hash.Hash256b([]byte("code")),
			Admins:   &AdminsConfig{Threshold: 1, Admins: []string{mando.String()}},
		},
	}
	elp := (&EnvelopeBuilder{}).SetNonce(7).SetCaller(mando).SetAction(act).Build()
	data, err := elp.Serialize()
	require.NoError(err)

	var elp1 Envelope
	require.NoError(elp1.Deserialize(data))
	require.Equal(uint64(7), elp1.Nonce())
	require.Equal(mando.String(), elp1.Caller().String())
	require.Equal(act, elp1.Action())

	h, err := elp.Hash()
	require.NoError(err)
	h1, err := elp1.Hash()
	require.NoError(err)
	require.Equal(h, h1)

	// optional fields survive as nil
	vote := &CastVote{ProposalID: 2, Vote: Vote{Public: &PublicVote{Address: mando.String(), Weight: 1, Choice: Approve}}}
	elp = (&EnvelopeBuilder{}).SetCaller(mando).SetAction(vote).Build()
	data, err = elp.Serialize()
	require.NoError(err)
	require.NoError(elp1.Deserialize(data))
	decoded, ok := elp1.Action().(*CastVote)
	require.True(ok)
	require.Nil(decoded.Vote.Anonymous)
	require.Equal(mando.String(), decoded.Vote.Voter())
	require.Equal(uint64(1), decoded.Vote.Weight())

	_, err = (&EnvelopeBuilder{}).SetAction(vote).Build().Serialize()
	require.Equal(ErrInvalidAct, errors.Cause(err))
}

func TestSignAndVerify(t *testing.T) {
	require := require.New(t)
	grogu := identityset.Address(identityset.Grogu)
	elp := (&EnvelopeBuilder{}).SetNonce(1).SetCaller(grogu).SetAction(&Pause{Paused: true}).Build()

	sealed, err := Sign(elp, identityset.PrivateKey(identityset.Grogu))
	require.NoError(err)
	require.NoError(sealed.VerifySignature())
	require.Equal(grogu.String(), sealed.SrcPubkey().Address().String())

	// signed by somebody else than the declared caller
	sealed, err = Sign(elp, identityset.PrivateKey(identityset.Bob))
	require.NoError(err)
	require.Equal(ErrInvalidSender, errors.Cause(sealed.VerifySignature()))

	// a signature replayed on a different call
	h, err := elp.Hash()
	require.NoError(err)
	other := (&EnvelopeBuilder{}).SetNonce(2).SetCaller(grogu).SetAction(&Pause{Paused: true}).Build()
	replayed := NewSealedEnvelope(other, identityset.Sign(identityset.Grogu, h))
	require.Equal(ErrInvalidSender, errors.Cause(replayed.VerifySignature()))

	require.Equal(ErrMissingSignature, NewSealedEnvelope(elp, nil).VerifySignature())
	require.NoError(NewSealedEnvelope(elp, identityset.Sign(identityset.Grogu, h)).VerifySignature())
}

func TestReceiptLogs(t *testing.T) {
	require := require.New(t)
	r := &Receipt{BlockHeight: 3, ActionHash: hash.Hash256b([]byte("a"))}
	r.AddLogs(&Log{Topics: []hash.Hash256{NewTopic("register")}}, nil, &Log{})
	require.Len(r.Logs(), 2)
	require.Equal(uint32(1), r.Logs()[1].Index)
	require.Equal(uint64(3), r.Logs()[0].BlockHeight)
	require.True(r.Succeeded())
}
