// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package action

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/iotexproject/go-pkgs/hash"
	"github.com/iotexproject/iotex-address/address"
	"github.com/pkg/errors"
)

type (
	// Envelope wraps a call with its declared caller and nonce
	Envelope struct {
		nonce   uint64
		caller  address.Address
		payload Action
	}

	envelopeRLP struct {
		Nonce   uint64
		Caller  string
		Method  string
		Payload []byte
	}

	// EnvelopeBuilder is the builder to build Envelope
	EnvelopeBuilder struct {
		elp Envelope
	}
)

// SetNonce sets the nonce of the envelope
func (b *EnvelopeBuilder) SetNonce(n uint64) *EnvelopeBuilder {
	b.elp.nonce = n
	return b
}

// SetCaller sets the declared caller of the envelope
func (b *EnvelopeBuilder) SetCaller(caller address.Address) *EnvelopeBuilder {
	b.elp.caller = caller
	return b
}

// SetAction sets the call of the envelope
func (b *EnvelopeBuilder) SetAction(act Action) *EnvelopeBuilder {
	b.elp.payload = act
	return b
}

// Build builds the envelope
func (b *EnvelopeBuilder) Build() Envelope {
	return b.elp
}

// Nonce returns the nonce
func (elp *Envelope) Nonce() uint64 { return elp.nonce }

// Caller returns the declared caller
func (elp *Envelope) Caller() address.Address { return elp.caller }

// Action returns the call
func (elp *Envelope) Action() Action { return elp.payload }

// Serialize encodes the envelope
func (elp *Envelope) Serialize() ([]byte, error) {
	if elp.payload == nil || elp.caller == nil {
		return nil, errors.Wrap(ErrInvalidAct, "envelope misses caller or call")
	}
	data, err := rlp.EncodeToBytes(elp.payload)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to encode %s", elp.payload.Method())
	}
	return rlp.EncodeToBytes(&envelopeRLP{
		Nonce:   elp.nonce,
		Caller:  elp.caller.String(),
		Method:  elp.payload.Method(),
		Payload: data,
	})
}

// Deserialize decodes an envelope
func (elp *Envelope) Deserialize(buf []byte) error {
	var raw envelopeRLP
	if err := rlp.DecodeBytes(buf, &raw); err != nil {
		return errors.Wrap(err, "failed to decode envelope")
	}
	caller, err := address.FromString(raw.Caller)
	if err != nil {
		return errors.Wrapf(err, "invalid caller %s", raw.Caller)
	}
	act, err := NewAction(raw.Method)
	if err != nil {
		return errors.Wrapf(err, "unknown method %s", raw.Method)
	}
	if err := rlp.DecodeBytes(raw.Payload, act); err != nil {
		return errors.Wrapf(err, "failed to decode %s", raw.Method)
	}
	elp.nonce = raw.Nonce
	elp.caller = caller
	elp.payload = act
	return nil
}

// Hash returns the hash to be signed
func (elp *Envelope) Hash() (hash.Hash256, error) {
	data, err := elp.Serialize()
	if err != nil {
		return hash.ZeroHash256, err
	}
	return hash.Hash256b(data), nil
}
