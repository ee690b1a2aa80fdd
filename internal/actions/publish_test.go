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
	"github.com/SethDusek/oracle-core/internal/feed"
	"github.com/SethDusek/oracle-core/internal/oraclerr"
	"github.com/SethDusek/oracle-core/internal/sources"
	"github.com/SethDusek/oracle-core/internal/wallet"
)

func TestBuildPublishFirst(t *testing.T) {
	f := newRefreshFixture(t)
	w := &wallet.InMemorySource{
		Boxes: []boxes.RawBox{
			{
				BoxId: "wallet-box",
				Value: 10_000_000,
				Tokens: []common.TokenAmount{
					{Id: f.oracleToken, Amount: 1},
					{Id: f.rewardToken, Amount: 1},
				},
			},
		},
		Address: "9fChange",
	}
	params := actions.PublishFirstParams{
		OracleTree:     f.oracleTree,
		OracleTokenId:  f.oracleToken,
		RewardTokenId:  f.rewardToken,
		MinStorageRent: 1_000_000,
		TxFeeNanoErg:   1_100_000,
		OperatorPubKey: []byte{0x09},
	}

	tx, err := actions.BuildPublishFirst(feed.FixedSource{Rate: 12345}, w, params, 500)
	if err != nil {
		t.Fatalf("BuildPublishFirst failed: %v", err)
	}
	if len(tx.Outputs) != 1 {
		t.Fatalf("expected 1 output, got %d", len(tx.Outputs))
	}
	out := tx.Outputs[0]
	if out.Value != params.MinStorageRent {
		t.Errorf("expected output value %d, got %d", params.MinStorageRent, out.Value)
	}
	if len(out.Tokens) != 2 || out.Tokens[0].Amount != 1 || out.Tokens[1].Amount != 1 {
		t.Errorf("expected one oracle token and one reward token, got %v", out.Tokens)
	}
	if len(tx.Inputs) == 0 || tx.Inputs[0].ContextExtension[0] != 0 {
		t.Errorf("expected first input to carry output-index 0 context extension")
	}
}

func TestBuildPublishFirstFailsOnFeedError(t *testing.T) {
	f := newRefreshFixture(t)
	w := &wallet.InMemorySource{Address: "9fChange"}
	params := actions.PublishFirstParams{
		OracleTree:     f.oracleTree,
		OracleTokenId:  f.oracleToken,
		RewardTokenId:  f.rewardToken,
		MinStorageRent: 1_000_000,
		TxFeeNanoErg:   1_100_000,
	}
	_, err := actions.BuildPublishFirst(
		feed.FixedSource{Err: oraclerr.New(oraclerr.Feed, "upstream down")},
		w,
		params,
		500,
	)
	if err == nil {
		t.Fatalf("expected feed error to propagate")
	}
	if !oraclerr.IsNonFatalInDriver(err) {
		t.Errorf("expected Feed-kind error to be non-fatal in driver loop")
	}
}

func TestBuildPublishSubsequent(t *testing.T) {
	f := newRefreshFixture(t)
	local := f.oracle(t, 0x09, 5, 100, 3, 400)
	w := &wallet.InMemorySource{
		Boxes:   []boxes.RawBox{{BoxId: "fee-box", Value: 2_000_000}},
		Address: "9fChange",
	}
	params := actions.PublishSubsequentParams{TxFeeNanoErg: 1_100_000, PoolEpochId: 6}

	tx, err := actions.BuildPublishSubsequent(
		&sources.FakeLocalDatapointBoxSource{Box: local, Exists: true},
		feed.FixedSource{Rate: 555},
		w,
		params,
		600,
	)
	if err != nil {
		t.Fatalf("BuildPublishSubsequent failed: %v", err)
	}
	out := tx.Outputs[0]
	if out.Registers[boxes.R5][3] != 6 {
		t.Errorf("expected R5 updated to new pool epoch 6")
	}
	if out.Tokens[1].Amount != 3 {
		t.Errorf("expected reward token amount carried forward unchanged, got %d", out.Tokens[1].Amount)
	}
	if tx.Inputs[0].ContextExtension[0] != 0 {
		t.Errorf("expected local box input to carry output-index 0 context extension")
	}
}

func TestBuildPublishSubsequentFailsWithoutLocalBox(t *testing.T) {
	w := &wallet.InMemorySource{Address: "9fChange"}
	_, err := actions.BuildPublishSubsequent(
		&sources.FakeLocalDatapointBoxSource{Exists: false},
		feed.FixedSource{Rate: 1},
		w,
		actions.PublishSubsequentParams{TxFeeNanoErg: 1_000, PoolEpochId: 1},
		100,
	)
	if err == nil {
		t.Fatalf("expected error when no local datapoint box exists")
	}
}

func TestBuildPublishSubsequentFailsWithoutRewardToken(t *testing.T) {
	f := newRefreshFixture(t)
	local := f.oracle(t, 0x09, 5, 100, 0, 400)
	w := &wallet.InMemorySource{
		Boxes:   []boxes.RawBox{{BoxId: "fee-box", Value: 2_000_000}},
		Address: "9fChange",
	}
	_, err := actions.BuildPublishSubsequent(
		&sources.FakeLocalDatapointBoxSource{Box: local, Exists: true},
		feed.FixedSource{Rate: 1},
		w,
		actions.PublishSubsequentParams{TxFeeNanoErg: 1_000, PoolEpochId: 6},
		600,
	)
	if err == nil {
		t.Fatalf("expected NoRewardTokenInOracleBox error")
	}
}

func TestBuildTransferOracleToken(t *testing.T) {
	f := newRefreshFixture(t)
	local := f.oracle(t, 0x09, 5, 100, 1, 400)
	destination := common.ErgoTree{0xb0}
	w := &wallet.InMemorySource{
		Boxes:   []boxes.RawBox{{BoxId: "fee-box", Value: 2_000_000}},
		Address: "9fChange",
	}
	params := actions.TransferOracleTokenParams{DestinationTree: destination, TxFeeNanoErg: 1_100_000}

	tx, err := actions.BuildTransferOracleToken(
		&sources.FakeLocalDatapointBoxSource{Box: local, Exists: true},
		w,
		params,
		f.oracleToken,
		f.rewardToken,
		700,
	)
	if err != nil {
		t.Fatalf("BuildTransferOracleToken failed: %v", err)
	}
	out := tx.Outputs[0]
	if !common.ErgoTree(out.ErgoTree).Equal(destination) {
		t.Errorf("expected output tree to be the destination tree")
	}
	if out.Tokens[1].Amount != 1 {
		t.Errorf("expected exactly one reward token carried forward, got %d", out.Tokens[1].Amount)
	}
}

func TestBuildTransferOracleTokenFailsWithoutRewardToken(t *testing.T) {
	f := newRefreshFixture(t)
	local := f.oracle(t, 0x09, 5, 100, 0, 400)
	w := &wallet.InMemorySource{
		Boxes:   []boxes.RawBox{{BoxId: "fee-box", Value: 2_000_000}},
		Address: "9fChange",
	}
	_, err := actions.BuildTransferOracleToken(
		&sources.FakeLocalDatapointBoxSource{Box: local, Exists: true},
		w,
		actions.TransferOracleTokenParams{DestinationTree: common.ErgoTree{0xb0}, TxFeeNanoErg: 1_000},
		f.oracleToken,
		f.rewardToken,
		700,
	)
	if err == nil {
		t.Fatalf("expected IncorrectNumberOfRewardTokens error")
	}
}

func TestBuildTransferOracleTokenFailsWithMoreThanOneRewardToken(t *testing.T) {
	f := newRefreshFixture(t)
	local := f.oracle(t, 0x09, 5, 100, 2, 400)
	w := &wallet.InMemorySource{
		Boxes:   []boxes.RawBox{{BoxId: "fee-box", Value: 2_000_000}},
		Address: "9fChange",
	}
	_, err := actions.BuildTransferOracleToken(
		&sources.FakeLocalDatapointBoxSource{Box: local, Exists: true},
		w,
		actions.TransferOracleTokenParams{DestinationTree: common.ErgoTree{0xb0}, TxFeeNanoErg: 1_000},
		f.oracleToken,
		f.rewardToken,
		700,
	)
	if err == nil {
		t.Fatalf("expected IncorrectNumberOfRewardTokensError for a box holding 2 reward tokens")
	}
}
