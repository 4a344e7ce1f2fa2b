// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package cmd

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/iotexproject/go-pkgs/hash"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/tansuproject/tansu-core/action"
	"github.com/tansuproject/tansu-core/action/protocol/tansu"
	"github.com/tansuproject/tansu-core/ledger"
)

type (
	projectView struct {
		ID          string   `yaml:"id"`
		Name        string   `yaml:"name"`
		URL         string   `yaml:"url"`
		ConfigHash  string   `yaml:"configHash,omitempty"`
		Maintainers []string `yaml:"maintainers"`
		LatestHash  string   `yaml:"latestCommitHash,omitempty"`
	}

	proposalView struct {
		ID             uint32   `yaml:"id"`
		Title          string   `yaml:"title"`
		ContentRef     string   `yaml:"contentRef,omitempty"`
		Proposer       string   `yaml:"proposer"`
		CreatedAt      uint64   `yaml:"createdAt"`
		VotingEndsAt   uint64   `yaml:"votingEndsAt"`
		Anonymous      bool     `yaml:"anonymous"`
		Status         string   `yaml:"status"`
		UpgradeCode    string   `yaml:"upgradeCodeHash,omitempty"`
		PublicVotes    []string `yaml:"publicVotes,omitempty"`
		AnonymousVotes []string `yaml:"anonymousVotes,omitempty"`
	}

	governorView struct {
		CodeHash  string   `yaml:"codeHash"`
		Version   uint64   `yaml:"version"`
		Paused    bool     `yaml:"paused"`
		Threshold uint32   `yaml:"threshold"`
		Admins    []string `yaml:"admins"`
		Pending   string   `yaml:"pendingUpgrade,omitempty"`
		Approvals []string `yaml:"approvals,omitempty"`
	}
)

func hexHash(h hash.Hash256) string {
	return "0x" + hex.EncodeToString(h[:])
}

func newProposalView(p *tansu.Proposal) proposalView {
	v := proposalView{
		ID:           p.ID,
		Title:        p.Title,
		ContentRef:   p.ContentRef,
		Proposer:     p.Proposer,
		CreatedAt:    p.CreatedAt,
		VotingEndsAt: p.VotingEndsAt,
		Anonymous:    p.Anonymous,
		Status:       p.Status.String(),
	}
	if p.Upgrade != nil {
		v.UpgradeCode = hexHash(p.Upgrade.CodeHash)
	}
	for _, pv := range p.PublicVotes {
		v.PublicVotes = append(v.PublicVotes, pv.Address+" "+pv.Choice.String()+" "+strconv.FormatUint(pv.Weight, 10))
	}
	for _, av := range p.AnonymousVotes {
		v.AnonymousVotes = append(v.AnonymousVotes, av.Address+" "+strconv.FormatUint(av.Weight, 10)+" "+hexHash(av.Commitment))
	}
	return v
}

var projectCmd = &cobra.Command{
	Use:   "project [name|0xid]",
	Short: "Show a registered project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := projectID(args[0])
		if err != nil {
			return err
		}
		return withLedger(func(l *ledger.Ledger) error {
			p, err := l.Protocol().Project(l.StateReader(), id)
			if err != nil {
				return err
			}
			return printYAML(cmd, projectView{
				ID:          hexHash(p.ID),
				Name:        p.Name,
				URL:         p.URL,
				ConfigHash:  p.ConfigHash,
				Maintainers: p.Maintainers,
				LatestHash:  p.LatestCommitHash,
			})
		})
	},
}

var commitCmd = &cobra.Command{
	Use:   "commit [name|0xid]",
	Short: "Show the latest commit hash of a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := projectID(args[0])
		if err != nil {
			return err
		}
		return withLedger(func(l *ledger.Ledger) error {
			h, err := l.Protocol().LatestCommit(l.StateReader(), id)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), h)
			return err
		})
	},
}

var _page uint32

var proposalsCmd = &cobra.Command{
	Use:   "proposals [name|0xid]",
	Short: "List a page of proposals of a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := projectID(args[0])
		if err != nil {
			return err
		}
		return withLedger(func(l *ledger.Ledger) error {
			proposals, err := l.Protocol().DAO(l.StateReader(), id, _page)
			if err != nil {
				return err
			}
			views := make([]proposalView, 0, len(proposals))
			for _, p := range proposals {
				views = append(views, newProposalView(p))
			}
			return printYAML(cmd, views)
		})
	},
}

var tallyCmd = &cobra.Command{
	Use:   "tally [name|0xid] [proposal id]",
	Short: "Count the public votes of a proposal",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := projectID(args[0])
		if err != nil {
			return err
		}
		pid, err := strconv.ParseUint(args[1], 10, 32)
		if err != nil {
			return errors.Wrapf(err, "invalid proposal id %s", args[1])
		}
		return withLedger(func(l *ledger.Ledger) error {
			sr := l.StateReader()
			p, err := l.Protocol().Proposal(sr, id, uint32(pid))
			if err != nil {
				return err
			}
			if len(p.AnonymousVotes) > 0 {
				return errors.Errorf("proposal %d has %d anonymous votes, they are counted on execution", pid, len(p.AnonymousVotes))
			}
			res, err := l.Protocol().Tally(sr, id, p, nil)
			if err != nil {
				return err
			}
			return printYAML(cmd, map[string]interface{}{
				"approve":   res.Approve,
				"reject":    res.Reject,
				"abstain":   res.Abstain,
				"total":     res.Total,
				"quorumMet": res.QuorumMet,
				"outcome":   res.Outcome().String(),
			})
		})
	},
}

var governorCmd = &cobra.Command{
	Use:   "governor",
	Short: "Show the code hash, admins and pending upgrade of the contract",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLedger(func(l *ledger.Ledger) error {
			sr := l.StateReader()
			g, err := l.Protocol().Governor(sr)
			if err != nil {
				return err
			}
			v := governorView{
				CodeHash:  hexHash(g.CodeHash),
				Version:   g.Version,
				Paused:    g.Paused,
				Threshold: g.Admins.Threshold,
				Admins:    g.Admins.Admins,
			}
			pu, err := l.Protocol().PendingUpgrade(sr)
			switch errors.Cause(err) {
			case nil:
				v.Pending = hexHash(pu.CodeHash)
				v.Approvals = pu.Approvals
			case tansu.ErrUpgrade:
			default:
				return err
			}
			return printYAML(cmd, v)
		})
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return printYAML(cmd, cfg)
	},
}

var commitmentsCmd = &cobra.Command{
	Use:   "commitments [name|0xid] [choice:weight:seed]...",
	Short: "Compute the commitments of anonymous ballots, seeds are 32 hex bytes",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := projectID(args[0])
		if err != nil {
			return err
		}
		ballots := make([]action.Ballot, 0, len(args)-1)
		seeds := make([]hash.Hash256, 0, len(args)-1)
		for _, arg := range args[1:] {
			b, s, err := parseBallot(arg)
			if err != nil {
				return err
			}
			ballots = append(ballots, b)
			seeds = append(seeds, s)
		}
		return withLedger(func(l *ledger.Ledger) error {
			commitments, err := l.Protocol().BuildCommitmentsFromVotes(cmd.Context(), l.StateReader(), id, ballots, seeds)
			if err != nil {
				return err
			}
			out := make([]string, 0, len(commitments))
			for _, c := range commitments {
				out = append(out, hexHash(c))
			}
			return printYAML(cmd, out)
		})
	},
}

func init() {
	proposalsCmd.Flags().Uint32VarP(&_page, "page", "p", 0, "page of proposals")
	rootCmd.AddCommand(projectCmd, commitCmd, proposalsCmd, tallyCmd, governorCmd, configCmd, commitmentsCmd)
}
