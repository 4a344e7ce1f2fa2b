// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package cmd

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/iotexproject/go-pkgs/hash"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"

	"github.com/tansuproject/tansu-core/action/protocol/tansu"
	"github.com/tansuproject/tansu-core/config"
	"github.com/tansuproject/tansu-core/db"
	"github.com/tansuproject/tansu-core/ledger"
	"github.com/tansuproject/tansu-core/pkg/log"
	"github.com/tansuproject/tansu-core/pkg/util/fileutil"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tansuctl [command] [flags]",
	Short: "Command-line interface to inspect a tansu ledger",
	Long:  "tansuctl is a command-line interface to inspect the projects, proposals and governor of a tansu ledger database.",
}

var _configPaths []string

func init() {
	rootCmd.PersistentFlags().StringSliceVarP(&_configPaths, "config-path", "c", nil, "config files, later files override earlier ones")
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.L().Fatal("failed to execute command", zap.Error(err))
	}
}

func loadConfig() (config.Config, error) {
	cfg, err := config.New(_configPaths)
	if err != nil {
		return config.Config{}, err
	}
	if err := log.InitLoggers(cfg.Log, cfg.SubLogs); err != nil {
		return config.Config{}, errors.Wrap(err, "failed to init loggers")
	}
	return cfg, nil
}

// withLedger opens the ledger database read only and runs f against it
func withLedger(f func(*ledger.Ledger) error) (err error) {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.DB.DBType != db.DBMemory && !fileutil.FileExists(cfg.DB.DbPath) {
		return errors.Errorf("ledger database %s does not exist", cfg.DB.DbPath)
	}
	cfg.DB.ReadOnly = true
	l, err := ledger.New(cfg)
	if err != nil {
		return err
	}
	ctx := context.Background()
	if err := l.Start(ctx); err != nil {
		return errors.Wrap(err, "failed to open ledger")
	}
	defer func() {
		if stopErr := l.Stop(ctx); stopErr != nil && err == nil {
			err = stopErr
		}
	}()
	return f(l)
}

// projectID accepts a project name or a 0x prefixed id
func projectID(arg string) (hash.Hash256, error) {
	if !strings.HasPrefix(arg, "0x") {
		return tansu.ProjectID(arg), nil
	}
	b, err := hex.DecodeString(arg[2:])
	if err != nil || len(b) != len(hash.ZeroHash256) {
		return hash.ZeroHash256, errors.Errorf("invalid project id %s", arg)
	}
	return hash.BytesToHash256(b), nil
}

func printYAML(cmd *cobra.Command, v interface{}) error {
	out, err := yaml.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "failed to render output")
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), string(out))
	return err
}
