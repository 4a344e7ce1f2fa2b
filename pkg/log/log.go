// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package log

import (
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// GlobalConfig defines the global logger configurations.
type GlobalConfig struct {
	Zap *zap.Config `json:"zap" yaml:"zap"`
	// File is an optional daily rotated sink the logs are copied to
	File *RotateFile `json:"file" yaml:"file"`
	// RedirectStdLog redirects the output of the standard library's package-global logger
	RedirectStdLog bool `json:"stdLogRedirect" yaml:"stdLogRedirect"`
}

var (
	_logMu            sync.RWMutex
	_subLoggers       map[string]*zap.Logger
	_globalLoggerName = "globalDefault"
)

func init() {
	zapCfg := zap.NewDevelopmentConfig()
	zapCfg.Level.SetLevel(zap.InfoLevel)
	l, err := zapCfg.Build()
	if err != nil {
		panic(err)
	}
	zap.ReplaceGlobals(l)
	_subLoggers = make(map[string]*zap.Logger)
}

// L is alias of zap.L().
func L() *zap.Logger {
	_logMu.RLock()
	defer _logMu.RUnlock()
	return zap.L()
}

// S is alias of zap.S().
func S() *zap.SugaredLogger {
	_logMu.RLock()
	defer _logMu.RUnlock()
	return zap.S()
}

// Logger returns logger of the given name, or the global logger if no sub logger is registered under it.
func Logger(name string) *zap.Logger {
	_logMu.RLock()
	logger, ok := _subLoggers[name]
	_logMu.RUnlock()
	if !ok {
		return L().Named(name)
	}
	return logger
}

// InitLoggers initializes the global logger and other sub loggers.
func InitLoggers(globalCfg GlobalConfig, subCfgs map[string]GlobalConfig, opts ...zap.Option) error {
	if subCfgs == nil {
		subCfgs = make(map[string]GlobalConfig)
	}
	if _, exists := subCfgs[_globalLoggerName]; exists {
		return errors.New("'" + _globalLoggerName + "' is a reserved name for global logger")
	}
	subCfgs[_globalLoggerName] = globalCfg
	loggers := make(map[string]*zap.Logger, len(subCfgs))
	for name, cfg := range subCfgs {
		logger, err := buildLogger(cfg, opts...)
		if err != nil {
			return errors.Wrapf(err, "failed to build logger %s", name)
		}
		loggers[name] = logger
	}

	_logMu.Lock()
	defer _logMu.Unlock()
	for name, logger := range loggers {
		if name == _globalLoggerName {
			zap.ReplaceGlobals(logger)
			if globalCfg.RedirectStdLog {
				zap.RedirectStdLog(logger)
			}
			continue
		}
		_subLoggers[name] = logger.Named(name)
	}
	return nil
}

func buildLogger(cfg GlobalConfig, opts ...zap.Option) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	if cfg.Zap != nil {
		zapCfg = *cfg.Zap
	}
	if cfg.File != nil {
		sink := zapcore.NewCore(
			zapcore.NewJSONEncoder(zapCfg.EncoderConfig),
			zapcore.AddSync(cfg.File),
			zapCfg.Level,
		)
		opts = append(opts, zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			return zapcore.NewTee(core, sink)
		}))
	}
	return zapCfg.Build(opts...)
}
