// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package state

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"
)

var (
	// ErrStateSerialization is the error that the state marshaling is failed
	ErrStateSerialization = errors.New("failed to marshal state")
	// ErrStateDeserialization is the error that the state un-marshaling is failed
	ErrStateDeserialization = errors.New("failed to unmarshal state")
	// ErrStateNotExist is the error that the state does not exist
	ErrStateNotExist = errors.New("state does not exist")
)

type (
	// Serializer has Serialize method to serialize struct to binary data
	Serializer interface {
		Serialize() ([]byte, error)
	}

	// Deserializer has Deserialize method to deserialize binary data to struct
	Deserializer interface {
		Deserialize([]byte) error
	}
)

// Serialize serializes a state into bytes. Types without their own Serializer are RLP encoded.
func Serialize(d interface{}) ([]byte, error) {
	if s, ok := d.(Serializer); ok {
		return s.Serialize()
	}
	data, err := rlp.EncodeToBytes(d)
	if err != nil {
		return nil, errors.Wrapf(ErrStateSerialization, "type %T: %v", d, err)
	}
	return data, nil
}

// Deserialize deserializes bytes into a state. x must be a pointer.
func Deserialize(x interface{}, data []byte) error {
	if s, ok := x.(Deserializer); ok {
		return s.Deserialize(data)
	}
	if err := rlp.DecodeBytes(data, x); err != nil {
		return errors.Wrapf(ErrStateDeserialization, "type %T: %v", x, err)
	}
	return nil
}
