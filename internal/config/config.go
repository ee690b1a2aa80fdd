// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads and validates the oracle-core YAML configuration
// file, generalizing the teacher's config-loading approach
// (yaml.v2 + envconfig overlay, single validated singleton) from
// Cardano topology/submit settings to Ergo oracle-pool contract
// parameters and node RPC settings.
package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config is the top-level oracle-core configuration, loaded from YAML
// (spec.md §6) and overlaid with environment variables.
type Config struct {
	Logging  LoggingConfig  `yaml:"logging"`
	Debug    DebugConfig    `yaml:"debug"`
	Storage  StorageConfig  `yaml:"storage"`
	Node     NodeConfig     `yaml:"node"`
	Network  string         `yaml:"network" envconfig:"NETWORK"`
	Tokens   TokensConfig   `yaml:"tokens"`
	Pool     PoolConfig     `yaml:"pool"`
	Refresh  RefreshConfig  `yaml:"refresh"`
	Oracle   OracleConfig   `yaml:"oracle"`
	Ballot   BallotConfig   `yaml:"ballot"`
	Update   UpdateConfig   `yaml:"update"`
	TxParams TxParamsConfig `yaml:"txParams"`

	// RescanFromHeight requests the node re-index scans from this
	// height (spec.md §4.2 rescan_from, §6 "rescan-from height").
	RescanFromHeight uint64 `yaml:"rescanFromHeight" envconfig:"RESCAN_FROM_HEIGHT"`

	// NetworkPrefix is populated from Network during Load.
	NetworkPrefix byte `yaml:"-"`
}

type LoggingConfig struct {
	Level string `yaml:"level" envconfig:"LOGGING_LEVEL"`
}

// DebugConfig configures the optional read-only HTTP status API
// (spec.md §6), generalized from the teacher's debug listener.
type DebugConfig struct {
	ListenAddress string `yaml:"address" envconfig:"DEBUG_ADDRESS"`
	ListenPort    uint   `yaml:"port" envconfig:"DEBUG_PORT"`
}

type StorageConfig struct {
	Directory string `yaml:"dir" envconfig:"STORAGE_DIR"`
}

// NodeConfig is the Ergo node REST endpoint (spec.md §6: "node RPC
// endpoint and API key"), an out-of-scope external collaborator per
// spec.md §1, modeled only at its interface in internal/nodeclient.
type NodeConfig struct {
	Url    string `yaml:"url"    envconfig:"NODE_URL"`
	ApiKey string `yaml:"apiKey" envconfig:"NODE_API_KEY"`
}

// TokensConfig holds the token ids that identify every singleton and
// fungible token in the pool (spec.md §6).
type TokensConfig struct {
	PoolNftId   string `yaml:"poolNftId"`
	RefreshNftId string `yaml:"refreshNftId"`
	UpdateNftId string `yaml:"updateNftId"`
	OracleTokenId string `yaml:"oracleTokenId"`
	RewardTokenId string `yaml:"rewardTokenId"`
	BallotTokenId string `yaml:"ballotTokenId"`
}

// PoolConfig holds the pool box contract parameters (spec.md §3 "Pool
// Box").
type PoolConfig struct {
	ContractBytesHex string `yaml:"contractBytesHex"`
}

// RefreshConfig holds the refresh box contract parameters, including
// the consensus knobs spec.md §4.5.3 reads: epoch length, max
// deviation, and the minimum quorum.
type RefreshConfig struct {
	ContractBytesHex   string `yaml:"contractBytesHex"`
	EpochLengthBlocks  uint32 `yaml:"epochLengthBlocks"`
	MaxDeviationPercent uint64 `yaml:"maxDeviationPercent"`
	MinDataPoints      int    `yaml:"minDataPoints"`
	BuyBackPeriod      uint32 `yaml:"buybackPeriodBlocks"`
}

// OracleConfig holds the per-operator oracle box contract parameters
// and the operator's own P2PK address (spec.md §6 "operator oracle
// address").
type OracleConfig struct {
	ContractBytesHex string `yaml:"contractBytesHex"`
	Address          string `yaml:"address" envconfig:"ORACLE_ADDRESS"`
	DataPointSource  string `yaml:"dataPointSource" envconfig:"DATA_POINT_SOURCE"`
}

// BallotConfig holds the ballot box contract parameters used by the
// pool-update voting ceremony (spec.md §3 "Ballot / Update Boxes").
type BallotConfig struct {
	ContractBytesHex string `yaml:"contractBytesHex"`
	MinVotes         int    `yaml:"minVotes"`
}

// UpdateConfig holds the update box contract parameters.
type UpdateConfig struct {
	ContractBytesHex string `yaml:"contractBytesHex"`
}

// TxParamsConfig holds chain-wide transaction constants the action
// builders need (spec.md §4.5): minimum box value and the flat
// transaction fee reserved from wallet box selection.
type TxParamsConfig struct {
	MinStorageRentNanoErg uint64 `yaml:"minStorageRentNanoErg"`
	TxFeeNanoErg          uint64 `yaml:"txFeeNanoErg"`
}

// Singleton config instance with default values.
var globalConfig = &Config{
	Network: "mainnet",
	Logging: LoggingConfig{
		Level: "info",
	},
	Debug: DebugConfig{
		ListenAddress: "localhost",
		ListenPort:    0,
	},
	Storage: StorageConfig{
		Directory: "./.oracle-core",
	},
	Refresh: RefreshConfig{
		EpochLengthBlocks:  30,
		MaxDeviationPercent: 5,
		MinDataPoints:      4,
	},
	TxParams: TxParamsConfig{
		MinStorageRentNanoErg: 1_000_000,
		TxFeeNanoErg:          1_100_000,
	},
}

// Load reads the YAML config file (if provided), overlays environment
// variables, and validates the result. A Configuration error is
// returned (and per spec.md §7 is fatal at startup) for bad YAML, a
// missing required field, or an unrecognized network name.
func Load(configFile string) (*Config, error) {
	if configFile != "" {
		buf, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(buf, globalConfig); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}
	// Load config values from environment variables. We use "dummy" as
	// the app name here to (mostly) prevent picking up env vars that
	// we hadn't explicitly specified in annotations above.
	if err := envconfig.Process("dummy", globalConfig); err != nil {
		return nil, fmt.Errorf("error processing environment: %w", err)
	}

	network := NetworkByName(globalConfig.Network)
	if network == NetworkInvalid {
		return nil, fmt.Errorf("unknown network name: %s", globalConfig.Network)
	}
	globalConfig.NetworkPrefix = network.Prefix

	if err := globalConfig.validate(); err != nil {
		return nil, err
	}

	return globalConfig, nil
}

func (cfg *Config) validate() error {
	if cfg.Tokens.PoolNftId == "" {
		return fmt.Errorf("config: tokens.poolNftId is required")
	}
	if cfg.Tokens.RefreshNftId == "" {
		return fmt.Errorf("config: tokens.refreshNftId is required")
	}
	if cfg.Tokens.OracleTokenId == "" {
		return fmt.Errorf("config: tokens.oracleTokenId is required")
	}
	if cfg.Tokens.RewardTokenId == "" {
		return fmt.Errorf("config: tokens.rewardTokenId is required")
	}
	if cfg.Refresh.MinDataPoints < 2 {
		return fmt.Errorf(
			"config: refresh.minDataPoints must be >= 2, got %d",
			cfg.Refresh.MinDataPoints,
		)
	}
	if cfg.Refresh.MaxDeviationPercent == 0 {
		return fmt.Errorf("config: refresh.maxDeviationPercent must be > 0")
	}
	if cfg.Refresh.EpochLengthBlocks == 0 {
		return fmt.Errorf("config: refresh.epochLengthBlocks must be > 0")
	}
	return nil
}

// GetConfig returns the global config instance.
func GetConfig() *Config {
	return globalConfig
}

// Reset restores the global config to defaults. Exposed for tests that
// need a clean singleton between cases.
func Reset() {
	*globalConfig = Config{
		Network: "mainnet",
		Logging: LoggingConfig{Level: "info"},
		Debug: DebugConfig{
			ListenAddress: "localhost",
			ListenPort:    0,
		},
		Storage: StorageConfig{Directory: "./.oracle-core"},
		Refresh: RefreshConfig{
			EpochLengthBlocks:   30,
			MaxDeviationPercent: 5,
			MinDataPoints:       4,
		},
		TxParams: TxParamsConfig{
			MinStorageRentNanoErg: 1_000_000,
			TxFeeNanoErg:          1_100_000,
		},
	}
}
