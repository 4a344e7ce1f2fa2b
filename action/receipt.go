// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package action

import (
	"github.com/iotexproject/go-pkgs/hash"
)

const (
	// SuccessReceiptStatus is the status of a successful call, any other value is an error code
	SuccessReceiptStatus = uint64(0)
)

type (
	// Receipt represents the result of a call
	Receipt struct {
		Status      uint64
		BlockHeight uint64
		ActionHash  hash.Hash256
		ReturnValue []byte
		logs        []*Log
	}

	// Log stores an event emitted by a call
	Log struct {
		Topics      []hash.Hash256
		Data        []byte
		BlockHeight uint64
		ActionHash  hash.Hash256
		Index       uint32
	}
)

// NewTopic builds a topic from a name
func NewTopic(name string) hash.Hash256 {
	return hash.BytesToHash256([]byte(name))
}

// Logs returns the logs of the receipt
func (receipt *Receipt) Logs() []*Log {
	return receipt.logs
}

// AddLogs adds logs to the receipt, indexes and positions are assigned in order
func (receipt *Receipt) AddLogs(logs ...*Log) *Receipt {
	for _, l := range logs {
		if l == nil {
			continue
		}
		l.BlockHeight = receipt.BlockHeight
		l.ActionHash = receipt.ActionHash
		l.Index = uint32(len(receipt.logs))
		receipt.logs = append(receipt.logs, l)
	}
	return receipt
}

// Succeeded returns true when the call succeeded
func (receipt *Receipt) Succeeded() bool {
	return receipt.Status == SuccessReceiptStatus
}
