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

// oracle-core runs the oracle-pool driver loop and exposes the
// operator ceremony commands (bootstrap, the pool-update ceremony,
// reward-token housekeeping) as subcommands of a single binary,
// grounded on the teacher's urfave/cli/v2 dispatcher shape
// (luxfi-evm/cmd/evm-node/main.go's app.Commands/app.Before pattern --
// the teacher's own cmd/shai/main.go uses stdlib flag instead, but
// urfave/cli/v2 is already one of its direct dependencies).
package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v2"

	"github.com/SethDusek/oracle-core/internal/actions"
	"github.com/SethDusek/oracle-core/internal/boxes"
	"github.com/SethDusek/oracle-core/internal/common"
	"github.com/SethDusek/oracle-core/internal/config"
	"github.com/SethDusek/oracle-core/internal/driver"
	"github.com/SethDusek/oracle-core/internal/feed"
	"github.com/SethDusek/oracle-core/internal/httpapi"
	"github.com/SethDusek/oracle-core/internal/logging"
	"github.com/SethDusek/oracle-core/internal/nodeclient"
	"github.com/SethDusek/oracle-core/internal/scan"
	"github.com/SethDusek/oracle-core/internal/sources"
	"github.com/SethDusek/oracle-core/internal/storage"
	"github.com/SethDusek/oracle-core/internal/wallet"
)

var globalFlags struct {
	configFile string
	verbose    bool
}

// readOnlyFlag lets any one-shot ceremony command build its transaction
// and print it instead of signing and submitting, matching the same
// --read-only convention run uses (spec.md §6).
var readOnlyFlag = &cli.BoolFlag{Name: "read-only"}

func main() {
	app := &cli.App{
		Name:  "oracle-core",
		Usage: "drives an Ergo oracle pool's refresh/publish cycle and operator ceremonies",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config-file",
				Value:       "./oracle_config.yaml",
				Destination: &globalFlags.configFile,
			},
			&cli.BoolFlag{
				Name:        "verbose",
				Destination: &globalFlags.verbose,
			},
		},
		Before: func(ctx *cli.Context) error {
			if _, err := config.Load(globalFlags.configFile); err != nil {
				return err
			}
			logging.Configure(globalFlags.verbose)
			return nil
		},
		Commands: []*cli.Command{
			bootstrapCommand,
			runCommand,
			extractRewardTokensCommand,
			printRewardTokensCommand,
			transferOracleTokenCommand,
			voteUpdatePoolCommand,
			updatePoolCommand,
			prepareUpdateCommand,
			printContractHashesCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// core bundles every collaborator the ceremony commands and the
// driver loop need, wired once per invocation from the loaded config.
type core struct {
	cfg      *config.Config
	client   nodeclient.Client
	store    *storage.Storage
	registry *scan.Registry
	wallet   wallet.Source
	myPubKey []byte

	poolTree, refreshTree, oracleTree, ballotTree, updateTree common.ErgoTree

	poolNftId, refreshNftId, updateNftId                common.TokenId
	oracleTokenId, rewardTokenId, ballotTokenId          common.TokenId

	poolSrc        sources.PoolBoxSource
	refreshSrc     sources.RefreshBoxSource
	datapointSrc   sources.DatapointBoxesSource
	localSrc       sources.LocalDatapointBoxSource
	ballotsSrc     sources.BallotBoxesSource
	localBallotSrc sources.LocalBallotBoxSource
	updateSrc      sources.UpdateBoxSource
}

// setupCore decodes configuration and wires the node client, storage,
// named scan registry, and every state source a command might need.
// Called once per CLI invocation -- spec.md §4.2's "Policy on restart"
// is naturally satisfied since Register is idempotent by name.
func setupCore() (*core, error) {
	cfg := config.GetConfig()

	poolTreeBytes, err := hex.DecodeString(cfg.Pool.ContractBytesHex)
	if err != nil {
		return nil, fmt.Errorf("config: pool.contractBytesHex is not valid hex: %w", err)
	}
	refreshTreeBytes, err := hex.DecodeString(cfg.Refresh.ContractBytesHex)
	if err != nil {
		return nil, fmt.Errorf("config: refresh.contractBytesHex is not valid hex: %w", err)
	}
	oracleTreeBytes, err := hex.DecodeString(cfg.Oracle.ContractBytesHex)
	if err != nil {
		return nil, fmt.Errorf("config: oracle.contractBytesHex is not valid hex: %w", err)
	}
	ballotTreeBytes, _ := hex.DecodeString(cfg.Ballot.ContractBytesHex)
	updateTreeBytes, _ := hex.DecodeString(cfg.Update.ContractBytesHex)

	poolNftId, err := common.NewTokenId(cfg.Tokens.PoolNftId)
	if err != nil {
		return nil, fmt.Errorf("config: tokens.poolNftId: %w", err)
	}
	refreshNftId, err := common.NewTokenId(cfg.Tokens.RefreshNftId)
	if err != nil {
		return nil, fmt.Errorf("config: tokens.refreshNftId: %w", err)
	}
	oracleTokenId, err := common.NewTokenId(cfg.Tokens.OracleTokenId)
	if err != nil {
		return nil, fmt.Errorf("config: tokens.oracleTokenId: %w", err)
	}
	rewardTokenId, err := common.NewTokenId(cfg.Tokens.RewardTokenId)
	if err != nil {
		return nil, fmt.Errorf("config: tokens.rewardTokenId: %w", err)
	}
	var ballotTokenId, updateNftId common.TokenId
	if cfg.Tokens.BallotTokenId != "" {
		if ballotTokenId, err = common.NewTokenId(cfg.Tokens.BallotTokenId); err != nil {
			return nil, fmt.Errorf("config: tokens.ballotTokenId: %w", err)
		}
	}
	if cfg.Tokens.UpdateNftId != "" {
		if updateNftId, err = common.NewTokenId(cfg.Tokens.UpdateNftId); err != nil {
			return nil, fmt.Errorf("config: tokens.updateNftId: %w", err)
		}
	}

	myPubKey, err := common.DecodeP2PKAddress(cfg.Oracle.Address)
	if err != nil {
		return nil, fmt.Errorf("config: oracle.address: %w", err)
	}

	client := nodeclient.New(cfg.Node.Url, cfg.Node.ApiKey)

	store := storage.GetStorage()
	if err := store.Load(); err != nil {
		return nil, fmt.Errorf("opening local storage: %w", err)
	}

	registry := scan.New(client, store)

	poolScanId, err := registry.Register("pool-box", nodeclient.ScanPredicate{
		ContainsTokenId: poolNftId.String(),
	})
	if err != nil {
		return nil, err
	}
	refreshScanId, err := registry.Register("refresh-box", nodeclient.ScanPredicate{
		ContainsTokenId: refreshNftId.String(),
	})
	if err != nil {
		return nil, err
	}
	datapointScanId, err := registry.Register("datapoint-boxes", nodeclient.ScanPredicate{
		ContainsTokenId: oracleTokenId.String(),
	})
	if err != nil {
		return nil, err
	}
	ballotScanId, err := registry.Register("ballot-boxes", nodeclient.ScanPredicate{
		ContainsTokenId: ballotTokenId.String(),
	})
	if err != nil {
		return nil, err
	}
	updateScanId, err := registry.Register("update-box", nodeclient.ScanPredicate{
		ContainsTokenId: updateNftId.String(),
	})
	if err != nil {
		return nil, err
	}

	c := &core{
		cfg:      cfg,
		client:   client,
		store:    store,
		registry: registry,
		wallet:   wallet.New(client, cfg.Oracle.Address),
		myPubKey: myPubKey,

		poolTree:    common.ErgoTree(poolTreeBytes),
		refreshTree: common.ErgoTree(refreshTreeBytes),
		oracleTree:  common.ErgoTree(oracleTreeBytes),
		ballotTree:  common.ErgoTree(ballotTreeBytes),
		updateTree:  common.ErgoTree(updateTreeBytes),

		poolNftId:     poolNftId,
		refreshNftId:  refreshNftId,
		updateNftId:   updateNftId,
		oracleTokenId: oracleTokenId,
		rewardTokenId: rewardTokenId,
		ballotTokenId: ballotTokenId,
	}

	c.poolSrc = &sources.ScanPoolBoxSource{
		Registry: registry, ScanId: poolScanId,
		Inputs: boxes.PoolBoxInputs{ExpectedTree: c.poolTree, PoolNftId: poolNftId, RewardTokenId: rewardTokenId},
	}
	c.refreshSrc = &sources.ScanRefreshBoxSource{
		Registry: registry, ScanId: refreshScanId,
		Inputs: boxes.RefreshBoxInputs{ExpectedTree: c.refreshTree, RefreshNftId: refreshNftId},
	}
	c.datapointSrc = &sources.ScanDatapointBoxesSource{
		Registry: registry, ScanId: datapointScanId,
		Inputs: boxes.OracleBoxInputs{ExpectedTree: c.oracleTree, OracleTokenId: oracleTokenId, RewardTokenId: rewardTokenId},
	}
	c.localSrc = &sources.ScanLocalDatapointBoxSource{
		Registry: registry, ScanId: datapointScanId,
		Inputs: boxes.OracleBoxInputs{ExpectedTree: c.oracleTree, OracleTokenId: oracleTokenId, RewardTokenId: rewardTokenId},
		PubKey:  myPubKey,
	}
	c.ballotsSrc = &sources.ScanBallotBoxesSource{
		Registry: registry, ScanId: ballotScanId,
		Inputs: boxes.BallotBoxInputs{ExpectedTree: c.ballotTree, BallotTokenId: ballotTokenId},
	}
	c.localBallotSrc = &sources.ScanLocalBallotBoxSource{
		Registry: registry, ScanId: ballotScanId,
		Inputs: boxes.BallotBoxInputs{ExpectedTree: c.ballotTree, BallotTokenId: ballotTokenId},
		PubKey:  myPubKey,
	}
	c.updateSrc = &sources.ScanUpdateBoxSource{
		Registry: registry, ScanId: updateScanId,
		Inputs: boxes.UpdateBoxInputs{ExpectedTree: c.updateTree, UpdateNftId: updateNftId, MinVotes: cfg.Ballot.MinVotes},
	}

	return c, nil
}

// submitOrPrint either signs and submits tx through the node's wallet,
// or -- when readOnly is set -- prints it as JSON for an external
// signer to pick up, since the signing engine and key custody are an
// external collaborator (spec.md §1).
func submitOrPrint(c *core, tx *actions.UnsignedTransaction, readOnly bool) error {
	if readOnly {
		enc, err := json.MarshalIndent(tx, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(enc))
		return nil
	}
	signer := driver.NewNodeWalletSigner(c.cfg.Node.Url, c.cfg.Node.ApiKey)
	signed, err := signer.Sign(tx)
	if err != nil {
		return fmt.Errorf("signing transaction: %w", err)
	}
	txId, err := c.client.SubmitTransaction(signed)
	if err != nil {
		return fmt.Errorf("submitting transaction: %w", err)
	}
	fmt.Println("submitted transaction:", txId)
	return nil
}

var bootstrapCommand = &cli.Command{
	Name:      "bootstrap",
	Usage:     "mint the pool, refresh, and operator's first oracle box from a bootstrap config",
	ArgsUsage: "<yaml>",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "generate-config-template"},
		readOnlyFlag,
	},
	Action: func(ctx *cli.Context) error {
		if ctx.Bool("generate-config-template") {
			fmt.Print(bootstrapConfigTemplate)
			return nil
		}
		if ctx.Args().Len() != 1 {
			return fmt.Errorf("bootstrap: expected exactly one argument, a bootstrap yaml path")
		}
		var bootCfg bootstrapConfig
		if err := loadYAML(ctx.Args().First(), &bootCfg); err != nil {
			return err
		}

		c, err := setupCore()
		if err != nil {
			return err
		}
		height, err := c.client.CurrentHeight()
		if err != nil {
			return err
		}

		tx, err := actions.BuildBootstrap(c.wallet, actions.BootstrapParams{
			PoolTree:                 c.poolTree,
			RefreshTree:              c.refreshTree,
			OracleTree:               c.oracleTree,
			PoolNftId:                c.poolNftId,
			RefreshNftId:             c.refreshNftId,
			OracleTokenId:            c.oracleTokenId,
			RewardTokenId:            c.rewardTokenId,
			InitialRewardTokenAmount: bootCfg.InitialRewardTokenAmount,
			InitialRate:              bootCfg.InitialRate,
			MinStorageRent:           c.cfg.TxParams.MinStorageRentNanoErg,
			TxFeeNanoErg:             c.cfg.TxParams.TxFeeNanoErg,
			OperatorPubKey:           c.myPubKey,
		}, height)
		if err != nil {
			return err
		}
		return submitOrPrint(c, tx, ctx.Bool("read-only"))
	},
}

// bootstrapConfig is the bootstrap ceremony's own small input document
// (spec.md §6 "bootstrap <yaml>"), distinct from oracle_config.yaml:
// it supplies the one-time values a fresh pool needs that the running
// configuration has no slot for.
type bootstrapConfig struct {
	InitialRewardTokenAmount uint64 `yaml:"initialRewardTokenAmount"`
	InitialRate              int64  `yaml:"initialRate"`
}

const bootstrapConfigTemplate = `# oracle-core bootstrap configuration
initialRewardTokenAmount: 100000000
initialRate: 0
`

var runCommand = &cli.Command{
	Name:  "run",
	Usage: "run the driver loop: scan, classify, plan, build, sign, submit",
	Flags: []cli.Flag{
		readOnlyFlag,
		&cli.BoolFlag{Name: "enable-rest-api"},
	},
	Action: func(ctx *cli.Context) error {
		c, err := setupCore()
		if err != nil {
			return err
		}

		var signer driver.Signer
		if !ctx.Bool("read-only") {
			signer = driver.NewNodeWalletSigner(c.cfg.Node.Url, c.cfg.Node.ApiKey)
		}

		d := &driver.Driver{
			Client:       c.client,
			Signer:       signer,
			PoolSrc:      c.poolSrc,
			RefreshSrc:   c.refreshSrc,
			DatapointSrc: c.datapointSrc,
			LocalSrc:     c.localSrc,
			WalletSrc:    c.wallet,
			FeedSrc:      buildFeedSource(c.cfg.Oracle.DataPointSource),
			MyPubKey:     c.myPubKey,

			EpochLengthBlocks: c.cfg.Refresh.EpochLengthBlocks,
			RefreshParams: actions.RefreshParams{
				MaxDeviationPercent: c.cfg.Refresh.MaxDeviationPercent,
				MinDataPoints:       c.cfg.Refresh.MinDataPoints,
				EpochLengthBlocks:   c.cfg.Refresh.EpochLengthBlocks,
				TxFeeNanoErg:        c.cfg.TxParams.TxFeeNanoErg,
				PoolNftId:           c.poolNftId,
				RefreshNftId:        c.refreshNftId,
				OracleTokenId:       c.oracleTokenId,
				RewardTokenId:       c.rewardTokenId,
			},
			PublishFirstParams: actions.PublishFirstParams{
				OracleTree:     c.oracleTree,
				OracleTokenId:  c.oracleTokenId,
				RewardTokenId:  c.rewardTokenId,
				MinStorageRent: c.cfg.TxParams.MinStorageRentNanoErg,
				TxFeeNanoErg:   c.cfg.TxParams.TxFeeNanoErg,
				OperatorPubKey: c.myPubKey,
			},
			PublishSubsequentParams: actions.PublishSubsequentParams{
				TxFeeNanoErg: c.cfg.TxParams.TxFeeNanoErg,
			},
		}

		if ctx.Bool("enable-rest-api") {
			store := httpapi.NewStore()
			d.Status = store
			srv := httpapi.NewServer(
				fmt.Sprintf("%s:%d", c.cfg.Debug.ListenAddress, c.cfg.Debug.ListenPort),
				store,
			)
			go func() {
				if err := srv.ListenAndServe(); err != nil {
					logging.Component("httpapi").Error("listener stopped", "error", err)
				}
			}()
			defer srv.Shutdown()
		}

		stop := make(chan struct{})
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-sigCh
			close(stop)
		}()

		driver.Run(d, stop)
		return nil
	},
}

// buildFeedSource wires the one concrete price-feed implementation
// this module ships (spec.md §1 Non-goals exclude the feed fetchers
// themselves, but the driver still needs something to call): a plain
// HTTP+JSON poller pointed at the configured URL. The whole configured
// string is used as a single URL; no secondary fallback source is set up.
func buildFeedSource(dataPointSource string) feed.Source {
	return &feed.HTTPJSONSource{
		URL:       dataPointSource,
		FieldPath: []string{"ergo", "usd"},
	}
}

var extractRewardTokensCommand = &cli.Command{
	Name:      "extract-reward-tokens",
	Usage:     "move accumulated reward tokens to a payout address, keeping one in the oracle box",
	ArgsUsage: "<address>",
	Flags:     []cli.Flag{readOnlyFlag},
	Action: func(ctx *cli.Context) error {
		if ctx.Args().Len() != 1 {
			return fmt.Errorf("extract-reward-tokens: expected exactly one argument, a payout address")
		}
		c, err := setupCore()
		if err != nil {
			return err
		}
		payoutPubKey, err := common.DecodeP2PKAddress(ctx.Args().First())
		if err != nil {
			return err
		}
		height, err := c.client.CurrentHeight()
		if err != nil {
			return err
		}
		tx, err := actions.BuildExtractRewardTokens(c.localSrc, c.wallet, actions.ExtractRewardTokensParams{
			PayoutTree:     p2pkTree(payoutPubKey),
			MinStorageRent: c.cfg.TxParams.MinStorageRentNanoErg,
			TxFeeNanoErg:   c.cfg.TxParams.TxFeeNanoErg,
		}, c.rewardTokenId, height)
		if err != nil {
			return err
		}
		return submitOrPrint(c, tx, ctx.Bool("read-only"))
	},
}

var printRewardTokensCommand = &cli.Command{
	Name:  "print-reward-tokens",
	Usage: "print the operator's currently accumulated reward-token count",
	Action: func(ctx *cli.Context) error {
		c, err := setupCore()
		if err != nil {
			return err
		}
		amount, exists, err := actions.PrintRewardTokens(c.localSrc)
		if err != nil {
			return err
		}
		if !exists {
			fmt.Println("no local datapoint box found")
			return nil
		}
		fmt.Println("reward tokens:", amount)
		return nil
	},
}

var transferOracleTokenCommand = &cli.Command{
	Name:      "transfer-oracle-token",
	Usage:     "move the oracle token and one reward token to a new operator address",
	ArgsUsage: "<address>",
	Flags:     []cli.Flag{readOnlyFlag},
	Action: func(ctx *cli.Context) error {
		if ctx.Args().Len() != 1 {
			return fmt.Errorf("transfer-oracle-token: expected exactly one argument, a destination address")
		}
		c, err := setupCore()
		if err != nil {
			return err
		}
		destPubKey, err := common.DecodeP2PKAddress(ctx.Args().First())
		if err != nil {
			return err
		}
		height, err := c.client.CurrentHeight()
		if err != nil {
			return err
		}
		tx, err := actions.BuildTransferOracleToken(
			c.localSrc, c.wallet,
			actions.TransferOracleTokenParams{
				DestinationTree: p2pkTree(destPubKey),
				TxFeeNanoErg:    c.cfg.TxParams.TxFeeNanoErg,
			},
			c.oracleTokenId, c.rewardTokenId, height,
		)
		if err != nil {
			return err
		}
		return submitOrPrint(c, tx, ctx.Bool("read-only"))
	},
}

var voteUpdatePoolCommand = &cli.Command{
	Name:      "vote-update-pool",
	Usage:     "cast or replace the operator's ballot vote for a proposed pool update",
	ArgsUsage: "<new_pool_hash> <reward_token_id> <reward_amount> <update_height>",
	Flags:     []cli.Flag{readOnlyFlag},
	Action: func(ctx *cli.Context) error {
		if ctx.Args().Len() != 4 {
			return fmt.Errorf("vote-update-pool: expected 4 arguments")
		}
		newPoolHash, err := hex.DecodeString(ctx.Args().Get(0))
		if err != nil {
			return fmt.Errorf("vote-update-pool: new_pool_hash is not valid hex: %w", err)
		}
		rewardTokenId, err := common.NewTokenId(ctx.Args().Get(1))
		if err != nil {
			return fmt.Errorf("vote-update-pool: reward_token_id: %w", err)
		}
		rewardAmount, err := strconv.ParseUint(ctx.Args().Get(2), 10, 64)
		if err != nil {
			return fmt.Errorf("vote-update-pool: reward_amount: %w", err)
		}
		updateHeight, err := strconv.ParseUint(ctx.Args().Get(3), 10, 32)
		if err != nil {
			return fmt.Errorf("vote-update-pool: update_height: %w", err)
		}

		c, err := setupCore()
		if err != nil {
			return err
		}
		height, err := c.client.CurrentHeight()
		if err != nil {
			return err
		}
		vote := boxes.VotePayload{
			NewPoolHash:   newPoolHash,
			RewardTokenId: rewardTokenId,
			RewardAmount:  rewardAmount,
			UpdateHeight:  uint32(updateHeight),
		}
		tx, err := actions.BuildVoteUpdatePool(c.localBallotSrc, c.wallet, actions.VoteUpdatePoolParams{
			BallotTree:     c.ballotTree,
			BallotTokenId:  c.ballotTokenId,
			MinStorageRent: c.cfg.TxParams.MinStorageRentNanoErg,
			TxFeeNanoErg:   c.cfg.TxParams.TxFeeNanoErg,
		}, vote, c.myPubKey, height)
		if err != nil {
			return err
		}
		return submitOrPrint(c, tx, ctx.Bool("read-only"))
	},
}

var updatePoolCommand = &cli.Command{
	Name:      "update-pool",
	Usage:     "execute a pending pool update once enough ballots match the proposal",
	ArgsUsage: "<new_pool_hash> <reward_token_id> <reward_amount>",
	Flags:     []cli.Flag{readOnlyFlag},
	Action: func(ctx *cli.Context) error {
		if ctx.Args().Len() != 3 {
			return fmt.Errorf("update-pool: expected 3 arguments (new_pool_hash, reward_token_id, reward_amount)")
		}
		newPoolHash, err := hex.DecodeString(ctx.Args().Get(0))
		if err != nil {
			return fmt.Errorf("update-pool: new_pool_hash is not valid hex: %w", err)
		}
		rewardTokenId, err := common.NewTokenId(ctx.Args().Get(1))
		if err != nil {
			return fmt.Errorf("update-pool: reward_token_id: %w", err)
		}
		rewardAmount, err := strconv.ParseUint(ctx.Args().Get(2), 10, 64)
		if err != nil {
			return fmt.Errorf("update-pool: reward_amount: %w", err)
		}

		c, err := setupCore()
		if err != nil {
			return err
		}
		height, err := c.client.CurrentHeight()
		if err != nil {
			return err
		}
		newPoolTreeBytes, err := hex.DecodeString(c.cfg.Pool.ContractBytesHex)
		if err != nil {
			return err
		}
		tx, err := actions.BuildUpdatePool(
			c.poolSrc, c.updateSrc, c.ballotsSrc, c.wallet,
			actions.UpdatePoolParams{
				NewPoolTree:      common.ErgoTree(newPoolTreeBytes),
				NewPoolTreeHash:  newPoolHash,
				NewRewardTokenId: rewardTokenId,
				NewRewardAmount:  rewardAmount,
				TxFeeNanoErg:     c.cfg.TxParams.TxFeeNanoErg,
			},
			c.poolNftId, height,
		)
		if err != nil {
			return err
		}
		return submitOrPrint(c, tx, ctx.Bool("read-only"))
	},
}

var prepareUpdateCommand = &cli.Command{
	Name:      "prepare-update",
	Usage:     "mint the singleton update box that starts a pool-update ceremony",
	ArgsUsage: "<yaml>",
	Flags:     []cli.Flag{readOnlyFlag},
	Action: func(ctx *cli.Context) error {
		c, err := setupCore()
		if err != nil {
			return err
		}
		height, err := c.client.CurrentHeight()
		if err != nil {
			return err
		}
		tx, err := actions.BuildPrepareUpdate(c.wallet, actions.PrepareUpdateParams{
			UpdateTree:     c.updateTree,
			UpdateNftId:    c.updateNftId,
			MinStorageRent: c.cfg.TxParams.MinStorageRentNanoErg,
			TxFeeNanoErg:   c.cfg.TxParams.TxFeeNanoErg,
		}, height)
		if err != nil {
			return err
		}
		return submitOrPrint(c, tx, ctx.Bool("read-only"))
	},
}

var printContractHashesCommand = &cli.Command{
	Name:  "print-contract-hashes",
	Usage: "print a Blake2b256 digest of every configured contract's ErgoTree bytes",
	Action: func(ctx *cli.Context) error {
		cfg := config.GetConfig()
		decode := func(s string) []byte {
			b, _ := hex.DecodeString(s)
			return b
		}
		hashes := boxes.ComputeContractHashes(
			decode(cfg.Pool.ContractBytesHex),
			decode(cfg.Refresh.ContractBytesHex),
			decode(cfg.Oracle.ContractBytesHex),
			decode(cfg.Ballot.ContractBytesHex),
			decode(cfg.Update.ContractBytesHex),
		)
		fmt.Printf("pool:    %s\n", hashes.Pool)
		fmt.Printf("refresh: %s\n", hashes.Refresh)
		fmt.Printf("oracle:  %s\n", hashes.Oracle)
		fmt.Printf("ballot:  %s\n", hashes.Ballot)
		fmt.Printf("update:  %s\n", hashes.Update)
		return nil
	},
}

// p2pkTree reconstructs the minimal P2PK ErgoTree (header byte + the
// ProveDlog opcode + the 33-byte group element) from a decoded P2PK
// address's raw public key, the on-chain script an output's token
// payout needs when destined for a plain wallet address.
func p2pkTree(pubKey []byte) common.ErgoTree {
	tree := make([]byte, 0, 3+len(pubKey))
	tree = append(tree, 0x00, 0x08, 0xcd)
	tree = append(tree, pubKey...)
	return common.ErgoTree(tree)
}

func loadYAML(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	return yaml.Unmarshal(data, v)
}
