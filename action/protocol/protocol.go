// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package protocol

import (
	"context"

	"github.com/tansuproject/tansu-core/action"
)

// Protocol defines the protocol interfaces atop the ledger
type Protocol interface {
	ActionHandler
	Name() string
}

// ActionHandler is the interface for the action handlers. For each incoming call, the registered protocols are
// asked one by one to process it. An implementation returns a nil receipt and nil error for an action it does not
// own, so the next protocol gets a chance.
type ActionHandler interface {
	Handle(context.Context, action.Action, StateManager) (*action.Receipt, error)
}
