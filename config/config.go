// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package config

import (
	"os"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	uconfig "go.uber.org/config"

	"github.com/tansuproject/tansu-core/action/protocol/tansu"
	"github.com/tansuproject/tansu-core/action/protocol/tansu/domain"
	"github.com/tansuproject/tansu-core/db"
	"github.com/tansuproject/tansu-core/pkg/log"
)

// IMPORTANT: to define a config, add a field or a new config type to the existing config types. In addition, provide
// the default value in Default var.

// EnvPrefix is the prefix of the environment variables overriding the config
const EnvPrefix = "tansu"

var (
	// Default is the default config
	Default = Config{
		DB:      db.DefaultConfig,
		Tansu:   tansu.DefaultConfig,
		Domain:  domain.DefaultConfig,
		SubLogs: make(map[string]log.GlobalConfig),
	}

	// ErrInvalidCfg indicates the invalid config value
	ErrInvalidCfg = errors.New("invalid config value")

	// Validates is the collection config validation functions
	Validates = []Validate{
		ValidateDB,
		ValidateTansu,
		ValidateDomain,
	}
)

type (
	// Config is the root config of a ledger
	Config struct {
		DB      db.Config                   `yaml:"db"`
		Tansu   tansu.Config                `yaml:"tansu"`
		Domain  domain.Config               `yaml:"domain"`
		Log     log.GlobalConfig            `yaml:"log"`
		SubLogs map[string]log.GlobalConfig `yaml:"subLogs"`
	}

	// Validate is the interface of validating the config
	Validate func(Config) error

	// envOverrides are the settings an operator may override with TANSU_* environment variables
	envOverrides struct {
		DBType            string `envconfig:"DB_TYPE"`
		DBPath            string `envconfig:"DB_PATH"`
		DomainMode        string `envconfig:"DOMAIN_MODE"`
		DomainEndpoint    string `envconfig:"DOMAIN_ENDPOINT"`
		MinDecisiveWeight uint64 `envconfig:"MIN_DECISIVE_WEIGHT"`
	}
)

// New creates a config instance. It first loads the default configs. If the config path is not empty, it will read from
// the file and override the default configs. The TANSU_* environment variables override both. By default, it will
// apply all validation functions. To bypass validation, use DoNotValidate instead.
func New(configPaths []string, validates ...Validate) (Config, error) {
	opts := make([]uconfig.YAMLOption, 0)
	opts = append(opts, uconfig.Static(Default))
	opts = append(opts, uconfig.Expand(os.LookupEnv))
	for _, path := range configPaths {
		if path != "" {
			opts = append(opts, uconfig.File(path))
		}
	}
	yaml, err := uconfig.NewYAML(opts...)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to init config")
	}

	var cfg Config
	if err := yaml.Get(uconfig.Root).Populate(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "failed to unmarshal YAML config to struct")
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	// By default, the config needs to pass all the validation
	if len(validates) == 0 {
		validates = Validates
	}
	for _, validate := range validates {
		if err := validate(cfg); err != nil {
			return Config{}, errors.Wrap(err, "failed to validate config")
		}
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	var ov envOverrides
	if err := envconfig.Process(EnvPrefix, &ov); err != nil {
		return errors.Wrap(err, "failed to read environment overrides")
	}
	if ov.DBType != "" {
		cfg.DB.DBType = ov.DBType
	}
	if ov.DBPath != "" {
		cfg.DB.DbPath = ov.DBPath
	}
	if ov.DomainMode != "" {
		cfg.Domain.Mode = ov.DomainMode
	}
	if ov.DomainEndpoint != "" {
		cfg.Domain.Endpoint = ov.DomainEndpoint
	}
	if ov.MinDecisiveWeight != 0 {
		cfg.Tansu.Quorum.MinDecisiveWeight = ov.MinDecisiveWeight
	}
	return nil
}

// ValidateDB validates the db configs
func ValidateDB(cfg Config) error {
	switch cfg.DB.DBType {
	case db.DBMemory:
		return nil
	case db.DBBolt, db.DBPebble, db.DBBadger:
	default:
		return errors.Wrapf(ErrInvalidCfg, "unsupported db type %s", cfg.DB.DBType)
	}
	if cfg.DB.DbPath == "" {
		return errors.Wrap(ErrInvalidCfg, "db path is empty")
	}
	return nil
}

// ValidateTansu validates the governance protocol configs
func ValidateTansu(cfg Config) error {
	t := cfg.Tansu
	if t.MaxProjectNameLength <= 0 || t.MaxTitleLength <= 0 || t.MaxContentRefLength <= 0 {
		return errors.Wrap(ErrInvalidCfg, "length bounds should be greater than 0")
	}
	if t.MaxVotingPeriod <= 0 {
		return errors.Wrap(ErrInvalidCfg, "max voting period should be greater than 0")
	}
	return nil
}

// ValidateDomain validates the domain oracle configs
func ValidateDomain(cfg Config) error {
	switch cfg.Domain.Mode {
	case domain.StateMode, domain.MemoryMode:
		return nil
	case domain.HTTPMode:
		if cfg.Domain.Endpoint == "" {
			return errors.Wrap(ErrInvalidCfg, "domain oracle endpoint is empty")
		}
		if cfg.Domain.Timeout <= 0 {
			return errors.Wrap(ErrInvalidCfg, "domain oracle timeout should be greater than 0")
		}
		return nil
	default:
		return errors.Wrapf(ErrInvalidCfg, "unknown domain oracle mode %s", cfg.Domain.Mode)
	}
}

// DoNotValidate validates the given config
func DoNotValidate(cfg Config) error { return nil }
