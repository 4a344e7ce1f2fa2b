// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package cmd

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/iotexproject/go-pkgs/hash"
	"github.com/pkg/errors"

	"github.com/tansuproject/tansu-core/action"
)

var _choices = map[string]action.VoteChoice{
	"approve": action.Approve,
	"reject":  action.Reject,
	"abstain": action.Abstain,
}

// parseBallot parses choice:weight:seed
func parseBallot(arg string) (action.Ballot, hash.Hash256, error) {
	parts := strings.Split(arg, ":")
	if len(parts) != 3 {
		return action.Ballot{}, hash.ZeroHash256, errors.Errorf("ballot %s is not choice:weight:seed", arg)
	}
	choice, ok := _choices[strings.ToLower(parts[0])]
	if !ok {
		return action.Ballot{}, hash.ZeroHash256, errors.Errorf("unknown choice %s", parts[0])
	}
	weight, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return action.Ballot{}, hash.ZeroHash256, errors.Wrapf(err, "invalid weight %s", parts[1])
	}
	seed, err := hex.DecodeString(strings.TrimPrefix(parts[2], "0x"))
	if err != nil || len(seed) != len(hash.ZeroHash256) {
		return action.Ballot{}, hash.ZeroHash256, errors.Errorf("seed %s is not 32 hex bytes", parts[2])
	}
	return action.Ballot{Choice: choice, Weight: weight}, hash.BytesToHash256(seed), nil
}
