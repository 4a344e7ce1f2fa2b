// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package action

import (
	"bytes"

	"github.com/iotexproject/go-pkgs/crypto"
	"github.com/iotexproject/go-pkgs/hash"
	"github.com/pkg/errors"
)

// SealedEnvelope is a signed action envelope.
type SealedEnvelope struct {
	Envelope
	srcPubkey crypto.PublicKey
	signature []byte
}

// Sign signs the envelope using sender's private key
func Sign(elp Envelope, sk crypto.PrivateKey) (*SealedEnvelope, error) {
	sealed := &SealedEnvelope{
		Envelope:  elp,
		srcPubkey: sk.PublicKey(),
	}
	h, err := elp.Hash()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate envelope hash")
	}
	sig, err := sk.Sign(h[:])
	if err != nil {
		return nil, errors.Wrap(ErrInvalidSender, err.Error())
	}
	sealed.signature = sig
	return sealed, nil
}

// NewSealedEnvelope seals an envelope with an existing signature
func NewSealedEnvelope(elp Envelope, sig []byte) *SealedEnvelope {
	s := make([]byte, len(sig))
	copy(s, sig)
	return &SealedEnvelope{Envelope: elp, signature: s}
}

// Hash returns the hash of the envelope and its signature
func (sealed *SealedEnvelope) Hash() (hash.Hash256, error) {
	h, err := sealed.Envelope.Hash()
	if err != nil {
		return hash.ZeroHash256, err
	}
	return hash.Hash256b(append(h[:], sealed.signature...)), nil
}

// SrcPubkey returns the source public key
func (sealed *SealedEnvelope) SrcPubkey() crypto.PublicKey { return sealed.srcPubkey }

// Signature returns signature bytes
func (sealed *SealedEnvelope) Signature() []byte {
	sig := make([]byte, len(sealed.signature))
	copy(sig, sealed.signature)
	return sig
}

// VerifySignature recovers the signer and checks it is the declared caller
func (sealed *SealedEnvelope) VerifySignature() error {
	if len(sealed.signature) == 0 {
		return ErrMissingSignature
	}
	h, err := sealed.Envelope.Hash()
	if err != nil {
		return errors.Wrap(err, "failed to generate envelope hash")
	}
	pk, err := crypto.RecoverPubkey(h[:], sealed.signature)
	if err != nil {
		return errors.Wrap(ErrInvalidSender, err.Error())
	}
	if sealed.srcPubkey != nil && !bytes.Equal(pk.Bytes(), sealed.srcPubkey.Bytes()) {
		return errors.Wrap(ErrInvalidSender, "public key does not match signature")
	}
	signer := pk.Address()
	if signer == nil || sealed.Caller() == nil || signer.String() != sealed.Caller().String() {
		return errors.Wrapf(ErrInvalidSender, "signer is not the declared caller %s", sealed.Caller())
	}
	sealed.srcPubkey = pk
	return nil
}
