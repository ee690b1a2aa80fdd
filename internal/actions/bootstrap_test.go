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

package actions_test

import (
	"testing"

	"github.com/SethDusek/oracle-core/internal/actions"
	"github.com/SethDusek/oracle-core/internal/boxes"
	"github.com/SethDusek/oracle-core/internal/common"
	"github.com/SethDusek/oracle-core/internal/wallet"
)

func TestBuildBootstrapMintsPoolRefreshAndOracleBoxes(t *testing.T) {
	f := newRefreshFixture(t)
	w := &wallet.InMemorySource{
		Boxes: []boxes.RawBox{{
			BoxId: "wallet-box",
			Value: 100_000_000,
			Tokens: []common.TokenAmount{
				{Id: f.poolNft, Amount: 1},
				{Id: f.refreshNft, Amount: 1},
				{Id: f.oracleToken, Amount: 1},
				{Id: f.rewardToken, Amount: 100_000_001},
			},
		}},
		Address: "9fChange",
	}
	params := actions.BootstrapParams{
		PoolTree:                 f.poolTree,
		RefreshTree:              f.refreshTree,
		OracleTree:               f.oracleTree,
		PoolNftId:                f.poolNft,
		RefreshNftId:             f.refreshNft,
		OracleTokenId:            f.oracleToken,
		RewardTokenId:            f.rewardToken,
		InitialRewardTokenAmount: 100_000_000,
		InitialRate:              100,
		MinStorageRent:           1_000_000,
		TxFeeNanoErg:             1_100_000,
		OperatorPubKey:           []byte{0x09},
	}

	tx, err := actions.BuildBootstrap(w, params, 100)
	if err != nil {
		t.Fatalf("BuildBootstrap failed: %v", err)
	}
	if len(tx.Outputs) != 3 {
		t.Fatalf("expected 3 outputs, got %d", len(tx.Outputs))
	}

	pool, refresh, oracle := tx.Outputs[0], tx.Outputs[1], tx.Outputs[2]

	if pool.Tokens[0].Amount != 1 || !pool.Tokens[0].Id.Equal(f.poolNft) {
		t.Errorf("pool box missing pool NFT: %+v", pool.Tokens)
	}
	if pool.Tokens[1].Amount != 100_000_000 {
		t.Errorf("pool box reward amount = %d, want 100000000", pool.Tokens[1].Amount)
	}

	if refresh.Tokens[0].Amount != 1 || !refresh.Tokens[0].Id.Equal(f.refreshNft) {
		t.Errorf("refresh box missing refresh NFT: %+v", refresh.Tokens)
	}

	if len(oracle.Tokens) != 2 || oracle.Tokens[1].Amount != 1 {
		t.Errorf("oracle box should carry exactly 1 reward token: %+v", oracle.Tokens)
	}
}

func TestBuildBootstrapFailsWithoutEnoughRewardTokens(t *testing.T) {
	f := newRefreshFixture(t)
	w := &wallet.InMemorySource{
		Boxes: []boxes.RawBox{{
			BoxId: "wallet-box",
			Value: 100_000_000,
			Tokens: []common.TokenAmount{
				{Id: f.poolNft, Amount: 1},
				{Id: f.refreshNft, Amount: 1},
				{Id: f.oracleToken, Amount: 1},
				{Id: f.rewardToken, Amount: 10},
			},
		}},
		Address: "9fChange",
	}
	params := actions.BootstrapParams{
		PoolTree:                 f.poolTree,
		RefreshTree:              f.refreshTree,
		OracleTree:               f.oracleTree,
		PoolNftId:                f.poolNft,
		RefreshNftId:             f.refreshNft,
		OracleTokenId:            f.oracleToken,
		RewardTokenId:            f.rewardToken,
		InitialRewardTokenAmount: 100_000_000,
		InitialRate:              100,
		MinStorageRent:           1_000_000,
		TxFeeNanoErg:             1_100_000,
	}

	if _, err := actions.BuildBootstrap(w, params, 100); err == nil {
		t.Fatalf("expected an error when the wallet lacks enough reward tokens")
	}
}
